package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"wikigraph/internal/article"
)

type GetArticleInput struct {
	Title string `json:"title" jsonschema:"article title"`
}

type SaveArticleInput struct {
	Title  string `json:"title" jsonschema:"article title"`
	Source string `json:"source" jsonschema:"full Markdown source including frontmatter"`
}

type PatchArticleInput struct {
	Title string `json:"title" jsonschema:"current article title"`
	Patch string `json:"patch" jsonschema:"unified diff against the stored source"`
}

type DeleteArticleInput struct {
	Title string `json:"title" jsonschema:"article title"`
}

type SearchArticlesInput struct {
	Query string `json:"query" jsonschema:"search terms"`
}

type ListTagsInput struct {
	Page int `json:"page,omitempty" jsonschema:"zero-based page number"`
	Size int `json:"size,omitempty" jsonschema:"page size, default 25"`
}

type ArticlesByTagInput struct {
	Tag string `json:"tag" jsonschema:"tag label"`
}

type MapPinsInput struct {
	Map string `json:"map" jsonschema:"map name"`
}

type LinkOutput struct {
	Title string `json:"title"`
	Label string `json:"label"`
}

type ArticleOutput struct {
	Title   string       `json:"title"`
	Content string       `json:"content"`
	Summary string       `json:"summary,omitempty"`
	Tags    []string     `json:"tags"`
	Links   []LinkOutput `json:"links"`
}

type DeleteArticleOutput struct {
	Deleted string `json:"deleted"`
}

type SearchArticlesOutput struct {
	Titles []string `json:"titles"`
}

type TagOutput struct {
	Label    string   `json:"label"`
	Usages   int64    `json:"usages"`
	Articles []string `json:"articles"`
}

type ListTagsOutput struct {
	Total int64       `json:"total"`
	Tags  []TagOutput `json:"tags"`
}

type TagArticleOutput struct {
	Title   string `json:"title"`
	Summary string `json:"summary,omitempty"`
}

type ArticlesByTagOutput struct {
	Articles []TagArticleOutput `json:"articles"`
}

type PinOutput struct {
	Label   string  `json:"label"`
	Desc    string  `json:"desc,omitempty"`
	Type    string  `json:"type"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Article string  `json:"article"`
}

type MapPinsOutput struct {
	Pins []PinOutput `json:"pins"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_article",
		Description: "Read an article and return its rendered content and outgoing links",
	}, s.handleGetArticle)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "save_article",
		Description: "Write full Markdown source for an article and sync the graph",
	}, s.handleSaveArticle)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "patch_article",
		Description: "Apply a unified diff to an article, renaming it when the patch header names differ",
	}, s.handlePatchArticle)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "delete_article",
		Description: "Delete an article from the store and the graph",
	}, s.handleDeleteArticle)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "search_articles",
		Description: "Fuzzy full-text search over article titles and content",
	}, s.handleSearchArticles)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_tags",
		Description: "List tags in use with usage counts, paginated",
	}, s.handleListTags)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "articles_by_tag",
		Description: "List articles carrying a tag",
	}, s.handleArticlesByTag)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "map_pins",
		Description: "List the pins placed on a named map",
	}, s.handleMapPins)
}

func (s *Server) handleGetArticle(ctx context.Context, req *sdk.CallToolRequest, input GetArticleInput) (*sdk.CallToolResult, ArticleOutput, error) {
	if input.Title == "" {
		return nil, ArticleOutput{}, fmt.Errorf("title is required")
	}
	doc, err := s.wiki.Get(ctx, input.Title)
	if err != nil {
		return nil, ArticleOutput{}, err
	}
	return nil, articleOutputFromDocument(doc), nil
}

func (s *Server) handleSaveArticle(ctx context.Context, req *sdk.CallToolRequest, input SaveArticleInput) (*sdk.CallToolResult, ArticleOutput, error) {
	if input.Title == "" {
		return nil, ArticleOutput{}, fmt.Errorf("title is required")
	}
	if input.Source == "" {
		return nil, ArticleOutput{}, fmt.Errorf("source is required")
	}
	doc, err := s.wiki.Save(ctx, input.Title, input.Source)
	if err != nil {
		return nil, ArticleOutput{}, err
	}
	return nil, articleOutputFromDocument(doc), nil
}

func (s *Server) handlePatchArticle(ctx context.Context, req *sdk.CallToolRequest, input PatchArticleInput) (*sdk.CallToolResult, ArticleOutput, error) {
	if input.Title == "" {
		return nil, ArticleOutput{}, fmt.Errorf("title is required")
	}
	if input.Patch == "" {
		return nil, ArticleOutput{}, fmt.Errorf("patch is required")
	}
	doc, err := s.wiki.ApplyPatch(ctx, input.Title, input.Patch)
	if err != nil {
		return nil, ArticleOutput{}, err
	}
	return nil, articleOutputFromDocument(doc), nil
}

func (s *Server) handleDeleteArticle(ctx context.Context, req *sdk.CallToolRequest, input DeleteArticleInput) (*sdk.CallToolResult, DeleteArticleOutput, error) {
	if input.Title == "" {
		return nil, DeleteArticleOutput{}, fmt.Errorf("title is required")
	}
	if err := s.wiki.Delete(ctx, input.Title); err != nil {
		return nil, DeleteArticleOutput{}, err
	}
	return nil, DeleteArticleOutput{Deleted: input.Title}, nil
}

func (s *Server) handleSearchArticles(ctx context.Context, req *sdk.CallToolRequest, input SearchArticlesInput) (*sdk.CallToolResult, SearchArticlesOutput, error) {
	if input.Query == "" {
		return nil, SearchArticlesOutput{}, fmt.Errorf("query is required")
	}
	titles, err := s.querier.SearchArticles(ctx, input.Query)
	if err != nil {
		return nil, SearchArticlesOutput{}, err
	}
	return nil, SearchArticlesOutput{Titles: titles}, nil
}

func (s *Server) handleListTags(ctx context.Context, req *sdk.CallToolRequest, input ListTagsInput) (*sdk.CallToolResult, ListTagsOutput, error) {
	size := input.Size
	if size <= 0 {
		size = 25
	}
	total, tags, err := s.querier.ListTags(ctx, input.Page, size)
	if err != nil {
		return nil, ListTagsOutput{}, err
	}

	output := make([]TagOutput, 0, len(tags))
	for _, tag := range tags {
		output = append(output, TagOutput{
			Label:    tag.Label,
			Usages:   tag.Usages,
			Articles: append([]string{}, tag.Articles...),
		})
	}
	return nil, ListTagsOutput{Total: total, Tags: output}, nil
}

func (s *Server) handleArticlesByTag(ctx context.Context, req *sdk.CallToolRequest, input ArticlesByTagInput) (*sdk.CallToolResult, ArticlesByTagOutput, error) {
	if input.Tag == "" {
		return nil, ArticlesByTagOutput{}, fmt.Errorf("tag is required")
	}
	articles, err := s.querier.ArticlesByTag(ctx, input.Tag)
	if err != nil {
		return nil, ArticlesByTagOutput{}, err
	}

	output := make([]TagArticleOutput, 0, len(articles))
	for _, a := range articles {
		output = append(output, TagArticleOutput{Title: a.Title, Summary: a.Summary})
	}
	return nil, ArticlesByTagOutput{Articles: output}, nil
}

func (s *Server) handleMapPins(ctx context.Context, req *sdk.CallToolRequest, input MapPinsInput) (*sdk.CallToolResult, MapPinsOutput, error) {
	if input.Map == "" {
		return nil, MapPinsOutput{}, fmt.Errorf("map is required")
	}
	pins, err := s.querier.PinsForMap(ctx, input.Map)
	if err != nil {
		return nil, MapPinsOutput{}, err
	}

	output := make([]PinOutput, 0, len(pins))
	for _, pin := range pins {
		output = append(output, PinOutput{
			Label:   pin.Label,
			Desc:    pin.Desc,
			Type:    pin.Type,
			X:       pin.X,
			Y:       pin.Y,
			Article: pin.Article,
		})
	}
	return nil, MapPinsOutput{Pins: output}, nil
}

func articleOutputFromDocument(doc *article.Document) ArticleOutput {
	out := ArticleOutput{
		Title:   doc.Title,
		Content: doc.Content,
		Summary: doc.Metadata.Summary,
		Tags:    append([]string{}, doc.Metadata.Tags...),
		Links:   make([]LinkOutput, 0, len(doc.Links)),
	}
	for _, link := range doc.Links {
		out.Links = append(out.Links, LinkOutput{Title: link.Title, Label: link.Label})
	}
	return out
}
