package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"wikigraph/internal/graph"
	"wikigraph/internal/wiki"
)

// Querier is the read side of the graph the tools expose.
type Querier interface {
	SearchArticles(ctx context.Context, query string) ([]string, error)
	ListTags(ctx context.Context, page, size int) (int64, []graph.TagCount, error)
	ArticlesByTag(ctx context.Context, tag string) ([]graph.TagArticle, error)
	PinsForMap(ctx context.Context, name string) ([]graph.Pin, error)
}

type Server struct {
	wiki    *wiki.Service
	querier Querier
	mcp     *sdk.Server
}

func NewServer(service *wiki.Service, querier Querier, version string) *Server {
	s := &Server{
		wiki:    service,
		querier: querier,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "wikigraph",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
