package wiki

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"wikigraph/internal/article"
	"wikigraph/internal/graph"
	"wikigraph/internal/storage"
)

type mergeCall struct {
	title    string
	previous string
}

type fakeGraph struct {
	mu       sync.Mutex
	merges   []mergeCall
	removals []string
	byTag    map[string][]graph.TagArticle
	mergeErr error
}

func (f *fakeGraph) MergeArticle(ctx context.Context, doc *article.Document, previousTitle string) error {
	if f.mergeErr != nil {
		return f.mergeErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.merges = append(f.merges, mergeCall{title: doc.Title, previous: previousTitle})
	return nil
}

func (f *fakeGraph) RemoveArticle(ctx context.Context, title string) error {
	f.removals = append(f.removals, title)
	return nil
}

func (f *fakeGraph) ArticlesByTag(ctx context.Context, tag string) ([]graph.TagArticle, error) {
	return f.byTag[tag], nil
}

func newTestService(t *testing.T) (*Service, *fakeGraph) {
	t.Helper()
	store, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	g := &fakeGraph{}
	return NewService(store, g, nil), g
}

func TestServiceSave(t *testing.T) {
	t.Run("writes and merges", func(t *testing.T) {
		service, g := newTestService(t)
		doc, err := service.Save(context.Background(), "Anra", "# Anra\n\nA sailor.\n")
		if err != nil {
			t.Fatalf("save: %v", err)
		}
		if doc.Title != "Anra" {
			t.Fatalf("unexpected title: %q", doc.Title)
		}
		if len(g.merges) != 1 || g.merges[0].previous != "Anra" {
			t.Fatalf("unexpected merges: %#v", g.merges)
		}
		if _, err := service.Store().Get("Anra"); err != nil {
			t.Fatalf("expected stored article: %v", err)
		}
	})

	t.Run("merge failure surfaces but file stays", func(t *testing.T) {
		service, g := newTestService(t)
		g.mergeErr = errors.New("down")
		if _, err := service.Save(context.Background(), "Anra", "# Anra\n"); err == nil {
			t.Fatalf("expected error")
		}
		if _, err := service.Store().Get("Anra"); err != nil {
			t.Fatalf("expected file kept: %v", err)
		}
	})

	t.Run("invalid source is not merged", func(t *testing.T) {
		service, g := newTestService(t)
		if _, err := service.Save(context.Background(), "Bad", "no title\n"); err == nil {
			t.Fatalf("expected error")
		}
		if len(g.merges) != 0 {
			t.Fatalf("unexpected merges: %#v", g.merges)
		}
	})
}

func TestServiceCreate(t *testing.T) {
	service, g := newTestService(t)
	doc, err := service.Create(context.Background(), "Anra")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if doc.Title != "Anra" {
		t.Fatalf("unexpected title: %q", doc.Title)
	}
	if len(g.merges) != 1 {
		t.Fatalf("expected one merge, got %#v", g.merges)
	}
	if _, err := service.Create(context.Background(), "Anra"); err == nil {
		t.Fatalf("expected duplicate create to fail")
	}
}

func TestServiceApplyPatch(t *testing.T) {
	t.Run("plain edit", func(t *testing.T) {
		service, g := newTestService(t)
		base := "# Anra\n\nold\n"
		if _, err := service.Save(context.Background(), "Anra", base); err != nil {
			t.Fatalf("save: %v", err)
		}
		patch := article.GeneratePatch("Anra", "Anra", base, "# Anra\n\nnew\n")

		doc, err := service.ApplyPatch(context.Background(), "Anra", patch)
		if err != nil {
			t.Fatalf("apply patch: %v", err)
		}
		if !strings.Contains(doc.Content, "new") {
			t.Fatalf("unexpected content: %q", doc.Content)
		}
		last := g.merges[len(g.merges)-1]
		if last.title != "Anra" || last.previous != "Anra" {
			t.Fatalf("unexpected merge: %+v", last)
		}
	})

	t.Run("rename moves file and graph key", func(t *testing.T) {
		service, g := newTestService(t)
		base := "# Anra\n\nbody\n"
		if _, err := service.Save(context.Background(), "Anra", base); err != nil {
			t.Fatalf("save: %v", err)
		}
		patch := article.GeneratePatch("Anra", "Anra Voss", base, "# Anra Voss\n\nbody\n")

		doc, err := service.ApplyPatch(context.Background(), "Anra", patch)
		if err != nil {
			t.Fatalf("apply patch: %v", err)
		}
		if doc.Title != "Anra Voss" {
			t.Fatalf("unexpected title: %q", doc.Title)
		}
		if _, err := service.Store().Get("Anra"); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected old file gone, got %v", err)
		}
		if _, err := service.Store().Get("Anra Voss"); err != nil {
			t.Fatalf("expected new file: %v", err)
		}
		last := g.merges[len(g.merges)-1]
		if last.title != "Anra Voss" || last.previous != "Anra" {
			t.Fatalf("unexpected merge: %+v", last)
		}
	})

	t.Run("empty patch is a no-op", func(t *testing.T) {
		service, g := newTestService(t)
		base := "# Anra\n\nbody\n"
		if _, err := service.Save(context.Background(), "Anra", base); err != nil {
			t.Fatalf("save: %v", err)
		}
		g.merges = nil

		doc, err := service.ApplyPatch(context.Background(), "Anra", article.GeneratePatch("Anra", "Anra", base, base))
		if err != nil {
			t.Fatalf("apply patch: %v", err)
		}
		if doc.Title != "Anra" {
			t.Fatalf("unexpected title: %q", doc.Title)
		}
		if len(g.merges) != 0 {
			t.Fatalf("expected no merge for a no-op patch, got %#v", g.merges)
		}
	})

	t.Run("garbage patch", func(t *testing.T) {
		service, _ := newTestService(t)
		if _, err := service.Save(context.Background(), "Anra", "# Anra\n"); err != nil {
			t.Fatalf("save: %v", err)
		}
		if _, err := service.ApplyPatch(context.Background(), "Anra", "garbage"); !errors.Is(err, storage.ErrPatchFailed) {
			t.Fatalf("expected ErrPatchFailed, got %v", err)
		}
	})
}

func TestServiceDelete(t *testing.T) {
	service, g := newTestService(t)
	if _, err := service.Save(context.Background(), "Anra", "# Anra\n"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := service.Delete(context.Background(), "Anra"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(g.removals) != 1 || g.removals[0] != "Anra" {
		t.Fatalf("unexpected removals: %#v", g.removals)
	}
	if err := service.Delete(context.Background(), "Anra"); err == nil {
		t.Fatalf("expected delete of missing article to fail")
	}
}

func TestServiceRenderModes(t *testing.T) {
	t.Run("get is store attached", func(t *testing.T) {
		service, _ := newTestService(t)
		if _, err := service.Save(context.Background(), "World", "# World\n"); err != nil {
			t.Fatalf("save: %v", err)
		}
		if _, err := service.Save(context.Background(), "Anra", "# Anra\n\n[[World]] and [[Nowhere]].\n"); err != nil {
			t.Fatalf("save: %v", err)
		}
		doc, err := service.Get(context.Background(), "Anra")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if !strings.Contains(doc.Content, `class="wikilink">World</a>`) {
			t.Fatalf("expected existing link: %q", doc.Content)
		}
		if !strings.Contains(doc.Content, `class="wikilink not-found">Nowhere</a>`) {
			t.Fatalf("expected not-found link: %q", doc.Content)
		}
	})

	t.Run("articles embed queries the graph", func(t *testing.T) {
		service, g := newTestService(t)
		g.byTag = map[string][]graph.TagArticle{
			"people": {{Title: "Anra", Summary: "A sailor."}},
		}
		if _, err := service.Save(context.Background(), "Folk", "# Folk\n\n{% articles people %}\n"); err != nil {
			t.Fatalf("save: %v", err)
		}
		doc, err := service.Get(context.Background(), "Folk")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if !strings.Contains(doc.Content, "<h3>Anra</h3>") {
			t.Fatalf("expected graph-backed listing: %q", doc.Content)
		}
	})

	t.Run("preview is detached", func(t *testing.T) {
		service, _ := newTestService(t)
		doc, err := service.Preview(context.Background(), "# Draft\n\n[[Nowhere]]\n\n{% articles people %}\n")
		if err != nil {
			t.Fatalf("preview: %v", err)
		}
		if !strings.Contains(doc.Content, `class="wikilink">Nowhere</a>`) {
			t.Fatalf("expected unstyled link: %q", doc.Content)
		}
		if !strings.Contains(doc.Content, "embed-notice") {
			t.Fatalf("expected preview notice: %q", doc.Content)
		}
	})
}

func TestSyncAll(t *testing.T) {
	service, g := newTestService(t)
	ctx := context.Background()
	if _, err := service.Save(ctx, "A", "# A\n"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := service.Save(ctx, "B", "# B\n"); err != nil {
		t.Fatalf("save: %v", err)
	}
	// A broken article written behind the service's back still gets
	// reported instead of aborting the run.
	if err := service.Store().Write("Broken", "no title\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	g.merges = nil

	result, err := service.SyncAll(ctx, 2)
	if err != nil {
		t.Fatalf("sync all: %v", err)
	}
	if result.Synced != 2 {
		t.Fatalf("expected 2 synced, got %d", result.Synced)
	}
	if len(result.Errors) != 1 || result.Errors[0].Title != "Broken" {
		t.Fatalf("unexpected errors: %#v", result.Errors)
	}
}
