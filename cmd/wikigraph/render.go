package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"wikigraph/internal/article"
)

func renderCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render an article source to HTML without touching the store",
		Long: `Render parses Markdown article source in detached mode: wikilinks come
out unstyled and store-backed embeds render as placeholders. Reads from
stdin when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runRender(path, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the full document as JSON")
	return cmd
}

func runRender(path string, asJSON bool) error {
	var source []byte
	var err error
	if path == "" {
		source, err = io.ReadAll(os.Stdin)
	} else {
		source, err = os.ReadFile(path)
	}
	if err != nil {
		return err
	}

	doc, err := article.Parse(string(source))
	if err != nil {
		return err
	}

	if asJSON {
		payload, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding document: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(payload))
		return nil
	}

	fmt.Fprintln(os.Stdout, doc.Content)
	return nil
}
