package wiki

import (
	"context"
	"fmt"
	"log/slog"

	"wikigraph/internal/article"
	"wikigraph/internal/graph"
	"wikigraph/internal/render"
	"wikigraph/internal/storage"
)

// Graph is the slice of the graph client the service needs. The
// connection is injected, never reached for as an ambient singleton,
// so tests can substitute a fake.
type Graph interface {
	MergeArticle(ctx context.Context, doc *article.Document, previousTitle string) error
	RemoveArticle(ctx context.Context, title string) error
	ArticlesByTag(ctx context.Context, tag string) ([]graph.TagArticle, error)
}

// Service orchestrates the document lifecycle: file store writes,
// parsing, and graph synchronization. The file store is authoritative;
// a failed graph merge is surfaced but never rolls the file write
// back, so the graph lags until the next successful sync.
//
// Concurrent edits to the same title are not serialized here: the last
// merge to commit wins. Callers needing stronger ordering serialize
// per title themselves.
type Service struct {
	store *storage.Store
	graph Graph
	log   *slog.Logger
}

func NewService(store *storage.Store, g Graph, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, graph: g, log: logger}
}

// Store exposes the underlying file store.
func (s *Service) Store() *storage.Store {
	return s.store
}

const stubTemplate = `---

---

# %s

This article is an automatically generated stub. Edit it to add content.
`

// ArticleExists implements render.Store against the file store.
func (s *Service) ArticleExists(ctx context.Context, title string) bool {
	_, err := s.store.Get(title)
	return err == nil
}

// ArticlesByTag implements render.Store against the graph.
func (s *Service) ArticlesByTag(ctx context.Context, tag string) ([]render.TagListing, error) {
	articles, err := s.graph.ArticlesByTag(ctx, tag)
	if err != nil {
		return nil, err
	}
	listings := make([]render.TagListing, 0, len(articles))
	for _, a := range articles {
		listings = append(listings, render.TagListing{Title: a.Title, Summary: a.Summary})
	}
	return listings, nil
}

func (s *Service) parser() article.Parser {
	return article.Parser{Store: s}
}

// Get reads and parses a stored article in store-attached mode.
func (s *Service) Get(ctx context.Context, title string) (*article.Document, error) {
	source, err := s.store.Get(title)
	if err != nil {
		return nil, err
	}
	return s.parser().Parse(ctx, source)
}

// Preview parses source in detached mode: no store access, usable for
// live previews of unsaved content.
func (s *Service) Preview(ctx context.Context, source string) (*article.Document, error) {
	p := article.Parser{}
	return p.Parse(ctx, source)
}

// Save writes source under title and syncs the graph.
func (s *Service) Save(ctx context.Context, title, source string) (*article.Document, error) {
	if err := s.store.Write(title, source); err != nil {
		return nil, err
	}
	doc, err := s.parser().Parse(ctx, source)
	if err != nil {
		return nil, err
	}
	if err := s.graph.MergeArticle(ctx, doc, title); err != nil {
		s.log.Error("graph merge failed", slog.String("title", doc.Title), slog.String("error", err.Error()))
		return nil, err
	}
	return doc, nil
}

// Create writes a stub article and registers it in the graph.
func (s *Service) Create(ctx context.Context, title string) (*article.Document, error) {
	if _, err := s.store.Get(title); err == nil {
		return nil, fmt.Errorf("article %q already exists", title)
	}
	return s.Save(ctx, title, fmt.Sprintf(stubTemplate, title))
}

// ApplyPatch applies a unified-diff edit to a stored article. The
// patch header names decide whether this is a plain edit or an atomic
// rename; the graph merge then moves the node key along with the file.
// A patch with no hunks changes nothing and returns the article as
// stored.
func (s *Service) ApplyPatch(ctx context.Context, title, patch string) (*article.Document, error) {
	if article.IsEmptyPatch(patch) {
		return s.Get(ctx, title)
	}

	oldName, newName, err := article.PatchNames(patch)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrPatchFailed, err)
	}

	var content string
	if newName == oldName {
		content, err = s.store.Patch(title, patch)
	} else {
		content, err = s.store.PatchAndRename(title, newName, patch)
	}
	if err != nil {
		return nil, err
	}

	doc, err := s.parser().Parse(ctx, content)
	if err != nil {
		return nil, err
	}
	if err := s.graph.MergeArticle(ctx, doc, oldName); err != nil {
		s.log.Error("graph merge failed", slog.String("title", doc.Title), slog.String("error", err.Error()))
		return nil, err
	}
	return doc, nil
}

// Delete removes an article from the store and the graph.
func (s *Service) Delete(ctx context.Context, title string) error {
	if err := s.store.Delete(title); err != nil {
		return err
	}
	return s.graph.RemoveArticle(ctx, title)
}

// SyncTitle re-parses one stored article and merges it into the graph.
func (s *Service) SyncTitle(ctx context.Context, title string) (*article.Document, error) {
	doc, err := s.Get(ctx, title)
	if err != nil {
		return nil, err
	}
	if err := s.graph.MergeArticle(ctx, doc, title); err != nil {
		return nil, err
	}
	return doc, nil
}
