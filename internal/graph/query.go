package graph

import (
	"context"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"wikigraph/internal/article"
)

// ArticleNode is the graph projection of a document.
type ArticleNode struct {
	Title       string
	Content     string
	Summary     string
	Placeholder bool
}

// TagArticle is one ArticlesByTag result.
type TagArticle struct {
	Title   string
	Summary string
}

// TagCount is one ListTags page entry.
type TagCount struct {
	Label    string
	Usages   int64
	Articles []string
}

// TagUsage is one SimilarTags result.
type TagUsage struct {
	Label string
	Count int64
}

// Pin is a map pin joined with its owning article.
type Pin struct {
	Map     string
	Label   string
	Desc    string
	Type    string
	X       float64
	Y       float64
	Article string
}

func (c *Client) read(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	session := c.session(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		rows := make([]map[string]any, 0)
		for res.Next(ctx) {
			record := res.Record()
			row := make(map[string]any, len(record.Keys))
			for _, key := range record.Keys {
				value, _ := record.Get(key)
				row[key] = value
			}
			rows = append(rows, row)
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return rows, nil
	})
	if err != nil {
		return nil, queryError(err)
	}

	return result.([]map[string]any), nil
}

// RunCypher executes an arbitrary read query and returns its rows.
// Backs the query CLI command.
func (c *Client) RunCypher(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	return c.read(ctx, query, params)
}

// GetArticle fetches one article node by title.
func (c *Client) GetArticle(ctx context.Context, title string) (*ArticleNode, error) {
	rows, err := c.read(ctx,
		`MATCH (a:Article {title: $title})
RETURN a.title AS title, a.content AS content, a.summary AS summary, a.placeholder AS placeholder`,
		map[string]any{"title": title})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	row := rows[0]
	return &ArticleNode{
		Title:       asString(row["title"]),
		Content:     asString(row["content"]),
		Summary:     asString(row["summary"]),
		Placeholder: asBool(row["placeholder"]),
	}, nil
}

// ArticleLinks reads back the outgoing LINKS_TO edges of an article.
func (c *Client) ArticleLinks(ctx context.Context, title string) ([]article.Link, error) {
	rows, err := c.read(ctx,
		`MATCH (:Article {title: $title})-[r:LINKS_TO]->(b:Article)
RETURN b.title AS title, r.label AS label
ORDER BY title, label`,
		map[string]any{"title": title})
	if err != nil {
		return nil, err
	}
	links := make([]article.Link, 0, len(rows))
	for _, row := range rows {
		links = append(links, article.Link{Title: asString(row["title"]), Label: asString(row["label"])})
	}
	return links, nil
}

// SearchArticles runs a fuzzy full-text search over titles and
// content. Every term is suffixed with ~ for fuzzy matching.
func (c *Client) SearchArticles(ctx context.Context, query string) ([]string, error) {
	rows, err := c.read(ctx,
		`CALL db.index.fulltext.queryNodes("article_text_idx", $query) YIELD node
RETURN node.title AS title`,
		map[string]any{"query": fuzzyQuery(query)})
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(rows))
	for _, row := range rows {
		titles = append(titles, asString(row["title"]))
	}
	return titles, nil
}

func fuzzyQuery(query string) string {
	words := strings.Fields(query)
	for i := range words {
		words[i] += "~"
	}
	return strings.Join(words, " ")
}

// ArticlesByTag lists articles carrying a tag, with their summaries.
// Feeds the articles embed.
func (c *Client) ArticlesByTag(ctx context.Context, tag string) ([]TagArticle, error) {
	rows, err := c.read(ctx,
		`MATCH (t:Tag {label: $tag})-[:APPLIES_TO]->(a:Article)
RETURN a.title AS title, a.summary AS summary
ORDER BY title`,
		map[string]any{"tag": tag})
	if err != nil {
		return nil, err
	}
	articles := make([]TagArticle, 0, len(rows))
	for _, row := range rows {
		articles = append(articles, TagArticle{Title: asString(row["title"]), Summary: asString(row["summary"])})
	}
	return articles, nil
}

// ListTags pages through all tags with usage counts.
func (c *Client) ListTags(ctx context.Context, page, size int) (int64, []TagCount, error) {
	rows, err := c.read(ctx,
		`MATCH (:Tag)
WITH count(*) AS total
MATCH (t:Tag)-[:APPLIES_TO]->(a:Article)
WITH t AS tag, count(a) AS usages, collect(a.title) AS articles, total
WHERE usages > 0
ORDER BY tag.label ASC
SKIP $offset
LIMIT $limit
RETURN tag.label AS label, usages, articles, total`,
		map[string]any{"offset": int64(page * size), "limit": int64(size)})
	if err != nil {
		return 0, nil, err
	}
	var total int64
	tags := make([]TagCount, 0, len(rows))
	for _, row := range rows {
		total = asInt(row["total"])
		tags = append(tags, TagCount{
			Label:    asString(row["label"]),
			Usages:   asInt(row["usages"]),
			Articles: asStrings(row["articles"]),
		})
	}
	return total, tags, nil
}

// SimilarTags lists tags most often co-applied with the given one.
func (c *Client) SimilarTags(ctx context.Context, tag string) ([]TagUsage, error) {
	rows, err := c.read(ctx,
		`MATCH (t:Tag {label: $tag})-[:APPLIES_TO]->(a:Article)
MATCH (o:Tag)-[r:APPLIES_TO]->(a)
WHERE o <> t
WITH o.label AS label, count(r) AS times
ORDER BY times DESC, label ASC
LIMIT 10
RETURN label, times AS count`,
		map[string]any{"tag": tag})
	if err != nil {
		return nil, err
	}
	usages := make([]TagUsage, 0, len(rows))
	for _, row := range rows {
		usages = append(usages, TagUsage{Label: asString(row["label"]), Count: asInt(row["count"])})
	}
	return usages, nil
}

// PinsForMap lists every pin placed on a named map.
func (c *Client) PinsForMap(ctx context.Context, name string) ([]Pin, error) {
	rows, err := c.read(ctx,
		`MATCH (p:MapPin {map: $map})-[:REFERS_TO]->(a:Article)
RETURN p.map AS map, p.label AS label, p.desc AS desc, p.type AS type, p.x AS x, p.y AS y, a.title AS article
ORDER BY label`,
		map[string]any{"map": name})
	if err != nil {
		return nil, err
	}
	pins := make([]Pin, 0, len(rows))
	for _, row := range rows {
		pins = append(pins, Pin{
			Map:     asString(row["map"]),
			Label:   asString(row["label"]),
			Desc:    asString(row["desc"]),
			Type:    asString(row["type"]),
			X:       asFloat(row["x"]),
			Y:       asFloat(row["y"]),
			Article: asString(row["article"]),
		})
	}
	return pins, nil
}

func asString(value any) string {
	s, _ := value.(string)
	return s
}

func asBool(value any) bool {
	b, _ := value.(bool)
	return b
}

func asInt(value any) int64 {
	n, _ := value.(int64)
	return n
}

func asFloat(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}

func asStrings(value any) []string {
	items, _ := value.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, asString(item))
	}
	return out
}
