package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eksporyuk/commission/internal/app"
	"github.com/eksporyuk/commission/internal/export"
	"github.com/eksporyuk/commission/internal/jobs"
	"github.com/eksporyuk/commission/internal/money"
	"github.com/eksporyuk/commission/internal/reconcile"
)

func auditCmd() *cobra.Command {
	var xlsxPath string

	cmd := &cobra.Command{
		Use:   "audit [affiliate-ref]",
		Short: "Compare expected commissions with recorded conversions and wallets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				var (
					reports  []*reconcile.Report
					auditErr error
				)

				if len(args) == 1 {
					r, err := a.Auditor.AuditAffiliate(ctx, args[0])
					if err != nil {
						return err
					}

					reports = []*reconcile.Report{r}
				} else {
					reports, auditErr = a.Auditor.AuditAll(ctx)
				}

				printReports(cmd, reports)

				if xlsxPath != "" {
					data, err := export.Audit(reports)
					if err != nil {
						return err
					}

					if err := os.WriteFile(xlsxPath, data, 0o644); err != nil {
						return err
					}
				}

				for _, r := range reports {
					if !r.Balanced() {
						return errors.Join(jobs.ErrDiscrepancies, auditErr)
					}
				}

				return auditErr
			})
		},
	}

	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write the reports to this workbook")

	return cmd
}

func printReports(cmd *cobra.Command, reports []*reconcile.Report) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "AFFILIATE\tEXPECTED\tRECORDED\tWALLET\tMISSING\tORPHANED\tSTATUS")

	for _, r := range reports {
		status := "balanced"
		if !r.Balanced() {
			status = "DISCREPANCY"
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			r.AffiliateRef,
			money.FormatRupiah(r.ExpectedTotal),
			money.FormatRupiah(r.ActualTotal),
			money.FormatRupiah(r.WalletTotal),
			len(r.Missing),
			len(r.Orphaned),
			status,
		)
	}

	_ = tw.Flush()
}
