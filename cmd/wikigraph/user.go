package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func userCmd() *cobra.Command {
	var icon string
	var admin bool
	var revoke bool
	cmd := &cobra.Command{
		Use:   "user <name>",
		Short: "Upsert a user node and manage its admin flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if admin && revoke {
				return fmt.Errorf("--admin and --revoke-admin are mutually exclusive")
			}
			return runUser(args[0], icon, admin, revoke)
		},
	}
	cmd.Flags().StringVar(&icon, "icon", "", "Avatar URL")
	cmd.Flags().BoolVar(&admin, "admin", false, "Grant admin rights")
	cmd.Flags().BoolVar(&revoke, "revoke-admin", false, "Revoke admin rights")
	return cmd
}

func runUser(name, icon string, admin, revoke bool) error {
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

	user, err := client.UpsertUser(ctx, name, icon)
	if err != nil {
		return err
	}

	if admin || revoke {
		if err := client.SetAdmin(ctx, name, admin); err != nil {
			return err
		}
		user.IsAdmin = admin
	}

	fmt.Fprintf(os.Stdout, "%s admin=%t\n", user.Name, user.IsAdmin)
	return nil
}
