package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"wikigraph/internal/article"
)

type statement struct {
	query  string
	params map[string]any
}

// MergeArticle makes the graph's representation of doc exactly match
// the document: its node, outgoing links, tags, and map pins. All
// statements run in one transaction; a failure rolls the whole merge
// back and surfaces as a QueryError.
//
// previousTitle carries the old key on rename and is empty otherwise;
// the upsert then moves the node's key in place, so inbound links from
// other articles follow the rename.
//
// Placeholder and tag cleanup is global, not scoped to this document:
// it only ever removes nodes already matching the dangling-orphan
// invariant, so any merge may safely sweep them.
func (c *Client) MergeArticle(ctx context.Context, doc *article.Document, previousTitle string) error {
	key := doc.Title
	if previousTitle != "" {
		key = previousTitle
	}

	links := make([]map[string]any, 0, len(doc.Links))
	for _, l := range doc.Links {
		links = append(links, map[string]any{"title": l.Title, "label": l.Label})
	}

	pins := make([]map[string]any, 0, len(doc.Metadata.Pins))
	for _, p := range doc.Metadata.Pins {
		label := p.Label
		if label == "" {
			label = doc.Title
		}
		pins = append(pins, map[string]any{
			"map":   p.Map,
			"label": label,
			"desc":  p.Desc,
			"type":  p.Type,
			"x":     p.Coords[0],
			"y":     p.Coords[1],
		})
	}

	statements := []statement{
		{
			// Create or update the article, moving its key on rename.
			query: `MERGE (a:Article {title: $key})
SET a.title = $title, a.content = $content, a.summary = $summary, a.placeholder = false`,
			params: map[string]any{
				"key":     key,
				"title":   doc.Title,
				"content": doc.Content,
				"summary": doc.Metadata.Summary,
			},
		},
		{
			// Drop the previous version's outgoing links.
			query:  `MATCH (:Article {title: $title})-[r:LINKS_TO]->(:Article) DELETE r`,
			params: map[string]any{"title": doc.Title},
		},
		{
			// Sweep placeholder articles nothing links to anymore.
			query: `MATCH (a:Article)
WHERE a.placeholder AND a.content IS NULL AND NOT (:Article)-[:LINKS_TO]->(a)
DELETE a`,
		},
		{
			// Detach the previous version's tags.
			query:  `MATCH (:Tag)-[r:APPLIES_TO]->(:Article {title: $title}) DELETE r`,
			params: map[string]any{"title": doc.Title},
		},
		{
			// Sweep tags that apply to nothing.
			query: `MATCH (t:Tag) WHERE NOT (t)-[:APPLIES_TO]->(:Article) DELETE t`,
		},
		{
			// Recreate links, upserting placeholder targets for titles
			// that do not exist yet.
			query: `MATCH (a:Article {title: $title})
WITH a
UNWIND $links AS link
MERGE (b:Article {title: link.title})
ON CREATE SET b.placeholder = true
MERGE (a)-[:LINKS_TO {label: link.label}]->(b)`,
			params: map[string]any{"title": doc.Title, "links": links},
		},
		{
			// Recreate tags.
			query: `MATCH (a:Article {title: $title})
WITH a
UNWIND $tags AS tag
MERGE (t:Tag {label: tag})
MERGE (t)-[:APPLIES_TO]->(a)`,
			params: map[string]any{"title": doc.Title, "tags": doc.Metadata.Tags},
		},
		{
			// Replace map pins wholesale; pin identity is positional.
			query:  `MATCH (p:MapPin)-[:REFERS_TO]->(:Article {title: $title}) DETACH DELETE p`,
			params: map[string]any{"title": doc.Title},
		},
		{
			query: `MATCH (a:Article {title: $title})
WITH a
UNWIND $pins AS pin
CREATE (p:MapPin {map: pin.map, label: pin.label, desc: pin.desc, type: pin.type, x: pin.x, y: pin.y})
CREATE (p)-[:REFERS_TO]->(a)`,
			params: map[string]any{"title": doc.Title, "pins": pins},
		},
	}

	session := c.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, stmt := range statements {
			if _, err := tx.Run(ctx, stmt.query, stmt.params); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return queryError(err)
}

// RemoveArticle detach-deletes an article and all its edges. Tags and
// placeholders that only this article referenced are not swept here;
// they linger until the next merge's global cleanup. Known lag window,
// not a leak.
func (c *Client) RemoveArticle(ctx context.Context, title string) error {
	session := c.session(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx,
			`MATCH (a:Article {title: $title})
OPTIONAL MATCH (p:MapPin)-[:REFERS_TO]->(a)
DETACH DELETE p, a`,
			map[string]any{"title": title})
		return nil, err
	})
	return queryError(err)
}
