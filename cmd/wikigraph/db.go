package main

import (
	"context"
	"log/slog"
	"os"

	"wikigraph/internal/config"
	"wikigraph/internal/graph"
	"wikigraph/internal/storage"
	"wikigraph/internal/wiki"
)

func loadConfig() (*config.Config, error) {
	return config.Load(config.DefaultFile)
}

func openGraph(ctx context.Context, cfg *config.Config) (*graph.Client, error) {
	return graph.NewClient(ctx, cfg.Neo4j.URI, cfg.Neo4j.Username, cfg.Neo4j.Password, cfg.Neo4j.Database)
}

func newService(cfg *config.Config, client *graph.Client) (*wiki.Service, error) {
	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	return wiki.NewService(store, client, newLogger()), nil
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}
