package main

import (
	"context"

	"github.com/spf13/cobra"

	"wikigraph/internal/mcp"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := openGraph(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close(ctx)

	service, err := newService(cfg, client)
	if err != nil {
		return err
	}

	server := mcp.NewServer(service, client, version)
	return server.Run(ctx, &sdk.StdioTransport{})
}
