package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eksporyuk/commission/internal/app"
	"github.com/eksporyuk/commission/internal/money"
)

func recomputeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recompute [affiliate-ref]",
		Short: "Rebuild wallet balances from conversions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if len(args) == 0 {
					n, err := a.Wallets.RecomputeAll(ctx)
					fmt.Fprintf(cmd.OutOrStdout(), "recomputed %d wallets\n", n)

					return err
				}

				b, err := a.Wallets.Recompute(ctx, args[0])
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s pending %s paid %s total %s\n",
					b.AffiliateRef, money.FormatRupiah(b.Pending), money.FormatRupiah(b.Paid), money.FormatRupiah(b.Total))

				return nil
			})
		},
	}
}
