package render

import (
	"context"
	"fmt"
	stdhtml "html"
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown/ast"
)

var (
	embedSplitPattern = regexp.MustCompile(`\{%\s*\w+(?:\s+(?:\w+|"[^"]*"))*\s*%\}`)
	embedArgPattern   = regexp.MustCompile(`^(?:\w+|"(?:\\"|[^"])+")`)
)

// SplitEmbeds is the embedded-fragment tokenizer pass, using the same
// split/re-tokenize strategy as SplitWikilinks.
func SplitEmbeds(doc ast.Node) {
	rewriteTextNodes(doc, splitEmbedText)
}

func splitEmbedText(t *ast.Text) []ast.Node {
	content := string(t.Literal)
	locs := embedSplitPattern.FindAllStringIndex(content, -1)
	if locs == nil {
		return nil
	}
	var out []ast.Node
	last := 0
	for _, loc := range locs {
		if loc[0] > last {
			out = append(out, textNode(content[last:loc[0]]))
		}
		span := content[loc[0]:loc[1]]
		out = append(out, embedNode(span))
		last = loc[1]
	}
	if last < len(content) {
		out = append(out, textNode(content[last:]))
	}
	return out
}

// embedNode parses the inside of a {% ... %} span into name and
// arguments. Arguments are bare words or double-quoted strings; a
// remainder no argument can be stripped from yields an InvalidEmbed.
func embedNode(span string) ast.Node {
	rest := strings.TrimSpace(span[2 : len(span)-2])
	var parts []string
	for len(rest) > 0 {
		part := embedArgPattern.FindString(rest)
		if part == "" {
			invalid := &InvalidEmbed{}
			invalid.Literal = []byte(span)
			return invalid
		}
		parts = append(parts, part)
		rest = strings.TrimSpace(rest[len(part):])
	}
	args := make([]string, 0, len(parts)-1)
	for _, part := range parts[1:] {
		if strings.HasPrefix(part, `"`) {
			part = part[1 : len(part)-1]
		}
		args = append(args, part)
	}
	embed := &Embed{Name: parts[0], Args: args}
	embed.Literal = []byte(span)
	return embed
}

// An embed is either pure (renderable from its arguments alone, so
// usable in detached previews) or store-backed (requires a query, so
// only available while store-attached). The set is fixed; dispatch is
// a table lookup plus a nil check, not virtual methods.
type embedDef struct {
	name  string
	pure  func(args []string) string
	query func(ctx context.Context, store Store, args []string) (string, error)
}

var embedTable = []embedDef{
	{name: "articles", query: renderArticlesEmbed},
	{name: "clear", pure: renderClearEmbed},
}

func findEmbed(name string) *embedDef {
	for i := range embedTable {
		if embedTable[i].name == name {
			return &embedTable[i]
		}
	}
	return nil
}

const embedPreviewNotice = `<section class="embed embed-notice"><p>Server-side embeds aren't rendered in previews.</p></section>`

func renderClearEmbed([]string) string {
	return `<p style="clear: both;"></p>`
}

// renderArticlesEmbed lists the articles carrying a tag, with an
// optional custom heading as second argument.
func renderArticlesEmbed(ctx context.Context, store Store, args []string) (string, error) {
	var tag string
	if len(args) > 0 {
		tag = args[0]
	}
	heading := fmt.Sprintf("Articles Tagged with: %s", tag)
	if len(args) > 1 {
		heading = args[1]
	}

	articles, err := store.ArticlesByTag(ctx, tag)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(`<section class="embed embed-articles">`)
	fmt.Fprintf(&b, "<h1>%s</h1>", stdhtml.EscapeString(heading))
	if len(articles) == 0 {
		b.WriteString(`<p class="embed-empty">No articles match the criteria.</p>`)
	} else {
		b.WriteString("<ul>")
		for _, a := range articles {
			fmt.Fprintf(&b, `<li><a href="/wiki/%s"><article><h3>%s</h3>`, pathEscape(a.Title), stdhtml.EscapeString(a.Title))
			if a.Summary != "" {
				fmt.Fprintf(&b, "<p>%s</p>", stdhtml.EscapeString(a.Summary))
			}
			b.WriteString("</article></a></li>")
		}
		b.WriteString("</ul>")
	}
	b.WriteString("</section>")
	return b.String(), nil
}
