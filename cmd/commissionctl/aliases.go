package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eksporyuk/commission/internal/app"
)

func aliasesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aliases",
		Short: "Map legacy product names to product refs",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add [raw-pattern] [product-ref]",
		Short: "Learn a product alias",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				return a.Aliases.Learn(ctx, args[0], args[1])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List product aliases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				aliases, err := a.Aliases.List(ctx)
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "PATTERN\tPRODUCT")

				for _, al := range aliases {
					fmt.Fprintf(tw, "%s\t%s\n", al.RawPattern, al.ProductRef)
				}

				return tw.Flush()
			})
		},
	})

	return cmd
}
