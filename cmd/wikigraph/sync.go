package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func syncCmd() *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Push every stored article into the graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(workers)
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 4, "Concurrent merge workers")
	return cmd
}

func runSync(workers int) error {
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

	result, err := service.SyncAll(ctx, workers)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Synced %d articles.\n", result.Synced)
	if len(result.Errors) > 0 {
		fmt.Fprintf(os.Stdout, "\nErrors (%d):\n", len(result.Errors))
		for _, item := range result.Errors {
			fmt.Fprintf(os.Stdout, "  - %v\n", item)
		}
		return fmt.Errorf("sync completed with errors")
	}
	return nil
}
