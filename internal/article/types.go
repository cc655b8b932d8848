package article

import "fmt"

// Document is the fully parsed form of a stored article. A Document is
// built fresh on every parse; Content is final HTML with every deferred
// placeholder resolved, and Metadata text fields (infobox facts, list
// items, image captions) are inline-rendered. Source stays verbatim as
// the authoritative representation.
type Document struct {
	Title    string
	Source   string
	Content  string
	Metadata Metadata
	Links    []Link
}

// Link is a cross-reference collected during rendering, in order of
// first occurrence. Title names the target article, which may not
// exist yet; Label is the display text.
type Link struct {
	Title string
	Label string
}

// Metadata is the front-matter of an article. Missing collections
// default to empty.
type Metadata struct {
	Tags    []string `yaml:"tags"`
	Summary string   `yaml:"summary"`
	Infobox *Infobox `yaml:"infobox"`
	Pins    []MapPin `yaml:"pins"`
	Events  []Event  `yaml:"events"`
}

// MapPin places an article on a named map. Pins are owned by the
// declaring article; their identity is positional, not content-based.
type MapPin struct {
	Map    string    `yaml:"map"`
	Label  string    `yaml:"label"`
	Desc   string    `yaml:"desc"`
	Type   string    `yaml:"type"`
	Coords []float64 `yaml:"coords"`
}

// PinTypes are the allowed values for MapPin.Type.
var PinTypes = []string{"region", "domain", "zone", "capital", "city", "town", "ruin", "poi"}

// Event is a dated timeline entry. Time uses the in-world calendar
// notation "<era>e<year>", e.g. "3e112".
type Event struct {
	Label string `yaml:"label"`
	Time  string `yaml:"time"`
	Desc  string `yaml:"desc"`
}

// Infobox is the structured fact block shown beside an article.
type Infobox struct {
	Title string        `yaml:"title"`
	Items []InfoboxItem `yaml:"items"`
}

// Infobox item kinds.
const (
	InfoboxHeading = "heading"
	InfoboxFact    = "fact"
	InfoboxList    = "list"
	InfoboxImage   = "image"
)

// InfoboxItem is one entry of an infobox. Kind selects which of the
// remaining fields apply: heading{Text}, fact{Label, Content},
// list{Label, Items, Delimited}, image{Alt, Src, Caption}.
type InfoboxItem struct {
	Kind      string   `yaml:"kind"`
	Text      string   `yaml:"text"`
	Label     string   `yaml:"label"`
	Content   string   `yaml:"content"`
	Items     []string `yaml:"items"`
	Delimited bool     `yaml:"delimited"`
	Alt       string   `yaml:"alt"`
	Src       string   `yaml:"src"`
	Caption   string   `yaml:"caption"`
}

// Span locates a structural problem in the source text for UI
// highlighting.
type Span struct {
	Offset int
	Length int
}

// ParseError is a structural failure: wrong number of titles or
// schema-invalid front-matter. It is never retried.
type ParseError struct {
	Span    Span
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (at offset %d)", e.Message, e.Span.Offset)
}
