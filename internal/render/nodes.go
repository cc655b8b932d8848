package render

import "github.com/gomarkdown/markdown/ast"

// WikiLink is the typed inline token for a [[Title#fragment|Label]]
// cross-reference. Fragment keeps its leading '#'; Label is empty when
// the source had no pipe, in which case the title doubles as display
// text.
type WikiLink struct {
	ast.Leaf
	Title    string
	Fragment string
	Label    string
}

// Embed is the typed inline token for a {% name args... %} directive.
// Args carries the parameters in order, quotes already stripped.
type Embed struct {
	ast.Leaf
	Name string
	Args []string
}

// InvalidEmbed marks a directive span whose arguments could not be
// parsed. It renders as a literal error string; a bad embed never
// fails the whole document.
type InvalidEmbed struct {
	ast.Leaf
}
