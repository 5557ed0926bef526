package export

import (
	"context"
	"fmt"
	"time"

	"github.com/eksporyuk/commission/internal/conversion"
	"github.com/eksporyuk/commission/internal/reconcile"
	"github.com/eksporyuk/commission/internal/wallet"
)

type Conversions interface {
	ListByAffiliate(ctx context.Context, affiliateRef string) ([]*conversion.Conversion, error)
}

type Wallets interface {
	Get(ctx context.Context, affiliateRef string) (*wallet.Balance, error)
}

// Service renders affiliate statements and audit results as XLSX workbooks.
type Service struct {
	conversions Conversions
	wallets     Wallets
}

func NewService(conversions Conversions, wallets Wallets) *Service {
	return &Service{conversions: conversions, wallets: wallets}
}

// Statement lists every conversion of the affiliate with a balance summary sheet.
func (s *Service) Statement(ctx context.Context, affiliateRef string) ([]byte, error) {
	convs, err := s.conversions.ListByAffiliate(ctx, affiliateRef)
	if err != nil {
		return nil, fmt.Errorf("listing conversions: %w", err)
	}

	bal, err := s.wallets.Get(ctx, affiliateRef)
	if err != nil {
		return nil, fmt.Errorf("getting wallet: %w", err)
	}

	w, err := newWorkbook()
	if err != nil {
		return nil, err
	}

	summary := [][]any{
		{"Affiliate", bal.AffiliateRef},
		{"Pending", bal.Pending},
		{"Paid", bal.Paid},
		{"Total", bal.Total},
		{"Conversions", bal.Conversions},
	}

	if err := w.sheet("Summary", []string{"Field", "Value"}, summary); err != nil {
		return nil, err
	}

	rows := make([][]any, 0, len(convs))

	for _, c := range convs {
		status := "pending"
		paidAt := ""

		if c.PaidOut {
			status = "paid"
		}

		if c.PaidAt != nil {
			paidAt = c.PaidAt.Format(time.DateTime)
		}

		rows = append(rows, []any{
			c.CreatedAt.Format(time.DateTime),
			c.SaleRef,
			string(c.RuleKind),
			c.RuleValue.String(),
			c.Amount,
			status,
			paidAt,
		})
	}

	headers := []string{"Recorded", "Sale", "Rule", "Rule Value", "Commission", "Status", "Paid At"}
	if err := w.sheet("Conversions", headers, rows, 4); err != nil {
		return nil, err
	}

	return w.bytes()
}

// Audit writes one summary row per report and one sheet per discrepancy kind.
func Audit(reports []*reconcile.Report) ([]byte, error) {
	w, err := newWorkbook()
	if err != nil {
		return nil, err
	}

	var summary, missing, orphaned, unpriced, mismatched [][]any

	for _, r := range reports {
		summary = append(summary, []any{
			r.AffiliateRef, r.ExpectedTotal, r.ActualTotal, r.WalletTotal, r.Gap(), r.Balanced(),
		})

		for _, m := range r.Missing {
			missing = append(missing, []any{r.AffiliateRef, m.SaleRef, m.Expected})
		}

		for _, o := range r.Orphaned {
			orphaned = append(orphaned, []any{r.AffiliateRef, o.ConversionID.String(), o.SaleRef, o.Amount, o.PaidOut})
		}

		for _, u := range r.Unpriced {
			unpriced = append(unpriced, []any{r.AffiliateRef, u.SaleRef, u.ProductRef, u.Reason})
		}

		for _, m := range r.Mismatched {
			mismatched = append(mismatched, []any{r.AffiliateRef, m.ConversionID.String(), m.SaleRef, m.Recorded, m.Expected})
		}
	}

	sheets := []struct {
		name    string
		headers []string
		rows    [][]any
		amounts []int
	}{
		{"Summary", []string{"Affiliate", "Expected", "Recorded", "Wallet", "Gap", "Balanced"}, summary, []int{1, 2, 3, 4}},
		{"Missing", []string{"Affiliate", "Sale", "Expected"}, missing, []int{2}},
		{"Orphaned", []string{"Affiliate", "Conversion", "Sale", "Amount", "Paid"}, orphaned, []int{3}},
		{"Unpriced", []string{"Affiliate", "Sale", "Product", "Reason"}, unpriced, nil},
		{"Mismatched", []string{"Affiliate", "Conversion", "Sale", "Recorded", "Expected"}, mismatched, []int{3, 4}},
	}

	for _, sh := range sheets {
		if err := w.sheet(sh.name, sh.headers, sh.rows, sh.amounts...); err != nil {
			return nil, err
		}
	}

	return w.bytes()
}
