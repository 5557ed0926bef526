package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/eksporyuk/commission/internal/app"
	"github.com/eksporyuk/commission/internal/backfill"
)

func backfillCmd() *cobra.Command {
	var (
		dryRun   bool
		timezone string
	)

	cmd := &cobra.Command{
		Use:   "backfill [sales.csv]",
		Short: "Ingest historical sales and record their conversions",
		Long: `Ingest a sales export and record a conversion for every successful referred sale.

The delimiter, header row and file encoding are detected. Running the same
file again creates nothing new.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := time.LoadLocation(timezone)
			if err != nil {
				return fmt.Errorf("timezone: %w", err)
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				sum, err := a.Backfill.Run(ctx, f, backfill.Options{Location: loc, DryRun: dryRun})
				if sum != nil {
					printSummary(cmd, sum)
				}

				return err
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and resolve aliases without writing")
	cmd.Flags().StringVar(&timezone, "timezone", "Asia/Jakarta", "zone for timestamps without an offset")

	return cmd
}

func printSummary(cmd *cobra.Command, sum *backfill.Summary) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "charset:   %s\n", sum.Charset)
	fmt.Fprintf(out, "rows:      %d\n", sum.Rows)
	fmt.Fprintf(out, "ingested:  %d\n", sum.Ingested)
	fmt.Fprintf(out, "immutable: %d\n", sum.Immutable)

	outcomes := make([]string, 0, len(sum.Outcomes))
	for k := range sum.Outcomes {
		outcomes = append(outcomes, k)
	}

	sort.Strings(outcomes)

	for _, k := range outcomes {
		fmt.Fprintf(out, "  %-20s %d\n", k, sum.Outcomes[k])
	}

	for _, e := range sum.Errors {
		fmt.Fprintln(out, e.Error())
	}
}
