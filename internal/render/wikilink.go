package render

import (
	"regexp"

	"github.com/gomarkdown/markdown/ast"
)

// The split pattern recognizes candidate [[...]] spans; the match
// pattern then extracts title, optional #fragment, and optional
// |label. A span the match pattern rejects stays literal text.
var (
	wikilinkSplitPattern = regexp.MustCompile(`\[\[[^\[\]|]+(?:\|[^\[\]]+)?\]\]`)
	wikilinkMatchPattern = regexp.MustCompile(`^\[\[([^\[\]|#]+)(#[^\[\]|]+)?(?:\|([^\[\]]+))?\]\]$`)
)

// SplitWikilinks is the cross-reference tokenizer pass. It runs after
// the standard inline parse, so wikilink syntax survives inside
// emphasis, links, and list items as plain text and is re-split here.
// Code spans are separate node types and are left alone.
func SplitWikilinks(doc ast.Node) {
	rewriteTextNodes(doc, splitWikilinkText)
}

func splitWikilinkText(t *ast.Text) []ast.Node {
	content := string(t.Literal)
	locs := wikilinkSplitPattern.FindAllStringIndex(content, -1)
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
		if m := wikilinkMatchPattern.FindStringSubmatch(span); m != nil {
			link := &WikiLink{Title: m[1], Fragment: m[2], Label: m[3]}
			link.Literal = []byte(span)
			out = append(out, link)
		} else {
			out = append(out, textNode(span))
		}
		last = loc[1]
	}
	if last < len(content) {
		out = append(out, textNode(content[last:]))
	}
	return out
}
