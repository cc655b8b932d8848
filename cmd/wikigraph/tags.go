package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func tagsCmd() *cobra.Command {
	var page int
	var size int
	cmd := &cobra.Command{
		Use:   "tags [tag]",
		Short: "List tags in use, or the articles carrying one tag",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runTagArticles(args[0])
			}
			return runListTags(page, size)
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "Zero-based page number")
	cmd.Flags().IntVar(&size, "size", 25, "Page size")
	return cmd
}

func runListTags(page, size int) error {
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

	total, tags, err := client.ListTags(ctx, page, size)
	if err != nil {
		return err
	}
	for _, tag := range tags {
		fmt.Fprintf(os.Stdout, "%s (%d)\n", tag.Label, tag.Usages)
	}
	fmt.Fprintf(os.Stdout, "\n%d tags total.\n", total)
	return nil
}

func runTagArticles(tag string) error {
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

	articles, err := client.ArticlesByTag(ctx, tag)
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		fmt.Fprintln(os.Stdout, "No articles carry this tag.")
		return nil
	}
	for _, a := range articles {
		if a.Summary != "" {
			fmt.Fprintf(os.Stdout, "%s - %s\n", a.Title, a.Summary)
			continue
		}
		fmt.Fprintln(os.Stdout, a.Title)
	}

	similar, err := client.SimilarTags(ctx, tag)
	if err != nil {
		return err
	}
	if len(similar) > 0 {
		fmt.Fprintln(os.Stdout, "\nRelated tags:")
		for _, s := range similar {
			fmt.Fprintf(os.Stdout, "  %s (%d)\n", s.Label, s.Count)
		}
	}
	return nil
}
