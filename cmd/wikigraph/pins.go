package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func pinsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pins <map>",
		Short: "List the pins placed on a named map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPins(args[0])
		},
	}
}

func runPins(name string) error {
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

	pins, err := client.PinsForMap(ctx, name)
	if err != nil {
		return err
	}
	if len(pins) == 0 {
		fmt.Fprintln(os.Stdout, "No pins on this map.")
		return nil
	}
	for _, pin := range pins {
		fmt.Fprintf(os.Stdout, "%s [%s] (%.1f, %.1f) -> %s\n", pin.Label, pin.Type, pin.X, pin.Y, pin.Article)
	}
	return nil
}
