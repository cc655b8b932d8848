package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wikigraph/internal/config"
	"wikigraph/internal/storage"
)

const defaultConfig = `data_dir: data

neo4j:
  uri: neo4j://localhost
  username: neo4j
  password: changeme
  database: neo4j
`

func initCmd() *cobra.Command {
	var skipIndexes bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a wikigraph project and create graph indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(skipIndexes)
		},
	}
	cmd.Flags().BoolVar(&skipIndexes, "skip-indexes", false, "Do not connect to Neo4j to create indexes")
	return cmd
}

func runInit(skipIndexes bool) error {
	if _, err := os.Stat(config.DefaultFile); err == nil {
		return fmt.Errorf("%s already exists", config.DefaultFile)
	}
	if err := os.WriteFile(config.DefaultFile, []byte(defaultConfig), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", config.DefaultFile, err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := storage.New(cfg.DataDir); err != nil {
		return err
	}

	if skipIndexes {
		return nil
	}

	ctx := context.Background()
	client, err := openGraph(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close(ctx)

	return client.EnsureIndexes(ctx)
}
