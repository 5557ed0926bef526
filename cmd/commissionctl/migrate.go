package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eksporyuk/commission/internal/app"
	"github.com/eksporyuk/commission/internal/database"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := database.Migrate(ctx, a.DB); err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")

				return nil
			})
		},
	}
}
