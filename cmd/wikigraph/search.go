package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "Fuzzy full-text search over article titles and content",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(strings.Join(args, " "))
		},
	}
}

func runSearch(query string) error {
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

	titles, err := client.SearchArticles(ctx, query)
	if err != nil {
		return err
	}
	if len(titles) == 0 {
		fmt.Fprintln(os.Stdout, "No matches found.")
		return nil
	}
	for _, title := range titles {
		fmt.Fprintln(os.Stdout, title)
	}
	return nil
}
