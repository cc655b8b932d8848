package render

import "github.com/gomarkdown/markdown/ast"

// splitFunc re-tokenizes one inline text node. A nil return keeps the
// node unchanged.
type splitFunc func(*ast.Text) []ast.Node

// rewriteTextNodes walks the tree and replaces each inline text node with
// the sequence produced by split. The transform is pure with respect
// to the child lists: a fresh slice is built instead of splicing
// mid-iteration.
func rewriteTextNodes(node ast.Node, split splitFunc) {
	children := node.GetChildren()
	if len(children) == 0 {
		return
	}
	out := make([]ast.Node, 0, len(children))
	for _, child := range children {
		text, ok := child.(*ast.Text)
		if !ok {
			rewriteTextNodes(child, split)
			out = append(out, child)
			continue
		}
		replacement := split(text)
		if replacement == nil {
			out = append(out, child)
			continue
		}
		out = append(out, replacement...)
	}
	for _, child := range out {
		child.SetParent(node)
	}
	node.SetChildren(out)
}

func textNode(content string) *ast.Text {
	t := &ast.Text{}
	t.Literal = []byte(content)
	return t
}
