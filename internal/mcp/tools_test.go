package mcp

import (
	"context"
	"strings"
	"testing"

	"wikigraph/internal/article"
	"wikigraph/internal/graph"
	"wikigraph/internal/storage"
	"wikigraph/internal/wiki"
)

type fakeGraph struct {
	removals []string
	byTag    map[string][]graph.TagArticle
}

func (f *fakeGraph) MergeArticle(ctx context.Context, doc *article.Document, previousTitle string) error {
	return nil
}

func (f *fakeGraph) RemoveArticle(ctx context.Context, title string) error {
	f.removals = append(f.removals, title)
	return nil
}

func (f *fakeGraph) ArticlesByTag(ctx context.Context, tag string) ([]graph.TagArticle, error) {
	return f.byTag[tag], nil
}

type fakeQuerier struct {
	searchResult []string
	tags         []graph.TagCount
	tagArticles  map[string][]graph.TagArticle
	pins         []graph.Pin

	lastQuery string
	lastPage  int
	lastSize  int
	lastMap   string
}

func (f *fakeQuerier) SearchArticles(ctx context.Context, query string) ([]string, error) {
	f.lastQuery = query
	return f.searchResult, nil
}

func (f *fakeQuerier) ListTags(ctx context.Context, page, size int) (int64, []graph.TagCount, error) {
	f.lastPage = page
	f.lastSize = size
	return int64(len(f.tags)), f.tags, nil
}

func (f *fakeQuerier) ArticlesByTag(ctx context.Context, tag string) ([]graph.TagArticle, error) {
	return f.tagArticles[tag], nil
}

func (f *fakeQuerier) PinsForMap(ctx context.Context, name string) ([]graph.Pin, error) {
	f.lastMap = name
	return f.pins, nil
}

func newTestServer(t *testing.T) (*Server, *fakeGraph, *fakeQuerier) {
	t.Helper()
	store, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	g := &fakeGraph{}
	q := &fakeQuerier{}
	service := wiki.NewService(store, g, nil)
	return NewServer(service, q, "test"), g, q
}

func TestSaveAndGetArticle(t *testing.T) {
	server, _, _ := newTestServer(t)
	ctx := context.Background()

	_, saved, err := server.handleSaveArticle(ctx, nil, SaveArticleInput{
		Title:  "Anra",
		Source: "---\ntags: [people]\nsummary: A sailor.\n---\n# Anra\n\nSee [[Gull]].\n",
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.Title != "Anra" || saved.Summary != "A sailor." {
		t.Fatalf("unexpected output: %+v", saved)
	}
	if len(saved.Links) != 1 || saved.Links[0].Title != "Gull" {
		t.Fatalf("unexpected links: %#v", saved.Links)
	}

	_, got, err := server.handleGetArticle(ctx, nil, GetArticleInput{Title: "Anra"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !strings.Contains(got.Content, "wikilink") {
		t.Fatalf("unexpected content: %q", got.Content)
	}
}

func TestGetArticle_Missing(t *testing.T) {
	server, _, _ := newTestServer(t)
	if _, _, err := server.handleGetArticle(context.Background(), nil, GetArticleInput{Title: "Nope"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSaveArticle_Validation(t *testing.T) {
	server, _, _ := newTestServer(t)
	if _, _, err := server.handleSaveArticle(context.Background(), nil, SaveArticleInput{Source: "# X"}); err == nil {
		t.Fatalf("expected error for missing title")
	}
	if _, _, err := server.handleSaveArticle(context.Background(), nil, SaveArticleInput{Title: "X"}); err == nil {
		t.Fatalf("expected error for missing source")
	}
}

func TestPatchArticle_Rename(t *testing.T) {
	server, _, _ := newTestServer(t)
	ctx := context.Background()

	base := "# Anra\n\nbody\n"
	if _, _, err := server.handleSaveArticle(ctx, nil, SaveArticleInput{Title: "Anra", Source: base}); err != nil {
		t.Fatalf("save: %v", err)
	}
	patch := article.GeneratePatch("Anra", "Anra Voss", base, "# Anra Voss\n\nbody\n")

	_, output, err := server.handlePatchArticle(ctx, nil, PatchArticleInput{Title: "Anra", Patch: patch})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if output.Title != "Anra Voss" {
		t.Fatalf("unexpected title: %q", output.Title)
	}
}

func TestDeleteArticle(t *testing.T) {
	server, g, _ := newTestServer(t)
	ctx := context.Background()

	if _, _, err := server.handleSaveArticle(ctx, nil, SaveArticleInput{Title: "Anra", Source: "# Anra\n"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	_, output, err := server.handleDeleteArticle(ctx, nil, DeleteArticleInput{Title: "Anra"})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if output.Deleted != "Anra" {
		t.Fatalf("unexpected output: %+v", output)
	}
	if len(g.removals) != 1 || g.removals[0] != "Anra" {
		t.Fatalf("unexpected removals: %#v", g.removals)
	}
}

func TestSearchArticles(t *testing.T) {
	server, _, q := newTestServer(t)
	q.searchResult = []string{"Anra", "Anra Voss"}

	_, output, err := server.handleSearchArticles(context.Background(), nil, SearchArticlesInput{Query: "anra"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if q.lastQuery != "anra" {
		t.Fatalf("unexpected query: %q", q.lastQuery)
	}
	if len(output.Titles) != 2 {
		t.Fatalf("unexpected titles: %#v", output.Titles)
	}
}

func TestListTags_DefaultSize(t *testing.T) {
	server, _, q := newTestServer(t)
	q.tags = []graph.TagCount{{Label: "people", Usages: 3, Articles: []string{"Anra"}}}

	_, output, err := server.handleListTags(context.Background(), nil, ListTagsInput{})
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if q.lastSize != 25 || q.lastPage != 0 {
		t.Fatalf("unexpected paging: page=%d size=%d", q.lastPage, q.lastSize)
	}
	if output.Total != 1 || output.Tags[0].Label != "people" {
		t.Fatalf("unexpected output: %+v", output)
	}
}

func TestMapPins(t *testing.T) {
	server, _, q := newTestServer(t)
	q.pins = []graph.Pin{{Map: "isles", Label: "Brell", Type: "town", X: 5, Y: 6, Article: "Brell"}}

	_, output, err := server.handleMapPins(context.Background(), nil, MapPinsInput{Map: "isles"})
	if err != nil {
		t.Fatalf("map pins: %v", err)
	}
	if q.lastMap != "isles" {
		t.Fatalf("unexpected map: %q", q.lastMap)
	}
	if len(output.Pins) != 1 || output.Pins[0].Article != "Brell" {
		t.Fatalf("unexpected pins: %+v", output)
	}
}

func TestArticlesByTag(t *testing.T) {
	server, _, q := newTestServer(t)
	q.tagArticles = map[string][]graph.TagArticle{
		"people": {{Title: "Anra", Summary: "A sailor."}},
	}

	_, output, err := server.handleArticlesByTag(context.Background(), nil, ArticlesByTagInput{Tag: "people"})
	if err != nil {
		t.Fatalf("articles by tag: %v", err)
	}
	if len(output.Articles) != 1 || output.Articles[0].Title != "Anra" {
		t.Fatalf("unexpected output: %+v", output)
	}
}
