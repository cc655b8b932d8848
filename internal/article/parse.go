package article

import (
	"context"
	"regexp"
	"strings"

	"wikigraph/internal/render"
)

var (
	titlePattern   = regexp.MustCompile(`(?m)^#[^#].+$`)
	contentH1Strip = regexp.MustCompile(`<h1[^>]*>.*?</h1>\n?`)
)

// Parser turns article source text into a Document. With a Store it
// runs store-attached: wikilink existence checks and store-backed
// embeds resolve through the deferred-resolution registry. With a nil
// Store it runs detached, performing no I/O at all, which is what the
// live-preview path relies on.
type Parser struct {
	Store render.Store
	// Prefix is prepended to wikilink hrefs; defaults to "/article/".
	Prefix string
}

// Parse is the detached convenience form.
func Parse(source string) (*Document, error) {
	p := Parser{}
	return p.Parse(context.Background(), source)
}

// Parse builds a fresh Document from source. It fails with a
// ParseError when the body does not contain exactly one top-level
// heading or the front-matter violates the metadata schema. The
// returned Document's Content and rendered metadata fields never
// contain an unresolved placeholder marker.
func (p Parser) Parse(ctx context.Context, source string) (*Document, error) {
	rawMeta, body, bodyOffset := splitFrontmatter(source)
	meta, err := ParseMetadata(rawMeta)
	if err != nil {
		return nil, err
	}

	title, err := extractTitle(body, bodyOffset)
	if err != nil {
		return nil, err
	}

	registry := render.NewRegistry()
	var links []Link
	renderer := render.New(render.Options{
		Store:    p.Store,
		Registry: registry,
		Prefix:   p.Prefix,
		Collect: func(l render.Link) {
			links = append(links, Link{Title: l.Title, Label: l.Label})
		},
	})

	content := stripTitleHeading(renderer.Render(ctx, body))

	// Infobox text fields are themselves Markdown; render them inline
	// against the same registry so one fulfillment pass covers body
	// and metadata together. The raw source keeps the unrendered form.
	targets := []*string{&content}
	if meta.Infobox != nil {
		box := *meta.Infobox
		box.Items = append([]InfoboxItem(nil), meta.Infobox.Items...)
		for i := range box.Items {
			item := &box.Items[i]
			switch item.Kind {
			case InfoboxFact:
				item.Content = renderer.RenderInline(ctx, item.Content)
				targets = append(targets, &item.Content)
			case InfoboxList:
				item.Items = append([]string(nil), item.Items...)
				for j := range item.Items {
					item.Items[j] = renderer.RenderInline(ctx, item.Items[j])
					targets = append(targets, &item.Items[j])
				}
			case InfoboxImage:
				if item.Caption != "" {
					item.Caption = renderer.RenderInline(ctx, item.Caption)
					targets = append(targets, &item.Caption)
				}
			}
		}
		meta.Infobox = &box
	}

	texts := make([]string, len(targets))
	for i, t := range targets {
		texts[i] = *t
	}
	texts, err = registry.Fulfill(ctx, texts)
	if err != nil {
		return nil, err
	}
	for i, t := range targets {
		*t = texts[i]
	}

	return &Document{
		Title:    title,
		Source:   source,
		Content:  content,
		Metadata: meta,
		Links:    links,
	}, nil
}

// extractTitle finds the single H1 line. offset anchors error spans in
// the full source.
func extractTitle(body string, offset int) (string, error) {
	matches := titlePattern.FindAllStringIndex(body, -1)
	if len(matches) == 0 {
		return "", &ParseError{
			Span:    Span{Offset: offset, Length: 1},
			Message: "articles must have a title (# ...)",
		}
	}
	if len(matches) > 1 {
		second := matches[1]
		return "", &ParseError{
			Span:    Span{Offset: offset + second[0], Length: second[1] - second[0]},
			Message: "articles may not have more than one title",
		}
	}
	line := body[matches[0][0]:matches[0][1]]
	return strings.TrimSpace(line[1:]), nil
}

// stripTitleHeading removes every rendered top-level heading; the
// title is surfaced separately and must not be duplicated in the body
// HTML. Setext headings render as h1 too without counting as titles,
// so the strip is global rather than first-match.
func stripTitleHeading(content string) string {
	return strings.TrimSpace(contentH1Strip.ReplaceAllString(content, ""))
}
