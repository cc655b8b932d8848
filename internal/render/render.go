package render

import (
	"context"
	"fmt"
	stdhtml "html"
	"io"
	"net/url"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Store gives the renderer read access to the corpus while
// store-attached. Rendering with a nil Store is the detached (preview)
// mode: no lookups, no network, wikilinks styled as existing and
// store-backed embeds replaced by a notice.
type Store interface {
	// ArticleExists reports whether a document with the title is
	// stored. Lookup failures count as absent.
	ArticleExists(ctx context.Context, title string) bool
	// ArticlesByTag lists stored documents carrying a tag.
	ArticlesByTag(ctx context.Context, tag string) ([]TagListing, error)
}

// TagListing is one entry of an ArticlesByTag result.
type TagListing struct {
	Title   string
	Summary string
}

// Link is a collected cross-reference, label already defaulted.
type Link struct {
	Title string
	Label string
}

// Options configures one renderer. Collect, when set, receives every
// wikilink in render order; registration is unconditional, whether or
// not the target exists.
type Options struct {
	Store    Store
	Registry *Registry
	Prefix   string
	Collect  func(Link)
}

// Renderer converts Markdown to HTML with the wikilink and embed
// extension passes applied.
type Renderer struct {
	opts Options
}

func New(opts Options) *Renderer {
	if opts.Prefix == "" {
		opts.Prefix = "/article/"
	}
	return &Renderer{opts: opts}
}

// Render parses source, re-tokenizes the inline extensions, and
// renders HTML. In store-attached mode the output may contain
// placeholder markers; the caller runs the registry's fulfillment
// pass before the text leaves the parser.
func (r *Renderer) Render(ctx context.Context, source string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(source))
	SplitWikilinks(doc)
	SplitEmbeds(doc)

	renderer := html.NewRenderer(html.RendererOptions{
		Flags:          html.CommonFlags,
		RenderNodeHook: r.hook(ctx),
	})
	return strings.TrimSpace(string(markdown.Render(doc, renderer)))
}

// RenderInline renders a metadata text field, dropping the wrapping
// paragraph a single-line input produces.
func (r *Renderer) RenderInline(ctx context.Context, source string) string {
	out := r.Render(ctx, source)
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") {
		inner := out[len("<p>") : len(out)-len("</p>")]
		if !strings.Contains(inner, "<p>") {
			return inner
		}
	}
	return out
}

func (r *Renderer) hook(ctx context.Context) html.RenderNodeFunc {
	return func(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
		switch n := node.(type) {
		case *WikiLink:
			r.renderWikiLink(ctx, w, n)
			return ast.GoToNext, true
		case *Embed:
			r.renderEmbed(ctx, w, n)
			return ast.GoToNext, true
		case *InvalidEmbed:
			fmt.Fprintf(w, "INVALID EMBED %s", stdhtml.EscapeString(string(n.Literal)))
			return ast.GoToNext, true
		}
		return ast.GoToNext, false
	}
}

func (r *Renderer) renderWikiLink(ctx context.Context, w io.Writer, n *WikiLink) {
	label := n.Label
	if label == "" {
		label = n.Title
	}
	if r.opts.Collect != nil {
		r.opts.Collect(Link{Title: n.Title, Label: label})
	}

	href := r.opts.Prefix + pathEscape(n.Title) + n.Fragment
	if r.opts.Store == nil {
		fmt.Fprintf(w, `<a href="%s" class="wikilink">%s</a>`, href, stdhtml.EscapeString(label))
		return
	}

	store := r.opts.Store
	title := n.Title
	marker := r.opts.Registry.Register(ctx, func(ctx context.Context) (string, error) {
		if store.ArticleExists(ctx, title) {
			return "", nil
		}
		return " not-found", nil
	})
	fmt.Fprintf(w, `<a href="%s" class="wikilink%s">%s</a>`, href, marker, stdhtml.EscapeString(label))
}

func (r *Renderer) renderEmbed(ctx context.Context, w io.Writer, n *Embed) {
	def := findEmbed(n.Name)
	if def == nil {
		fmt.Fprintf(w, "INVALID EMBED %s", stdhtml.EscapeString(n.Name))
		return
	}
	if def.pure != nil {
		io.WriteString(w, def.pure(n.Args))
		return
	}
	if r.opts.Store == nil {
		io.WriteString(w, embedPreviewNotice)
		return
	}

	store := r.opts.Store
	args := n.Args
	marker := r.opts.Registry.Register(ctx, func(ctx context.Context) (string, error) {
		return def.query(ctx, store, args)
	})
	io.WriteString(w, marker)
}

func pathEscape(title string) string {
	return url.PathEscape(title)
}
