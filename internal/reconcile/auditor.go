package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/eksporyuk/commission/internal/affiliate"
	"github.com/eksporyuk/commission/internal/conversion"
	"github.com/eksporyuk/commission/internal/rule"
	"github.com/eksporyuk/commission/internal/sale"
	"github.com/eksporyuk/commission/internal/wallet"
)

type Sales interface {
	Get(ctx context.Context, id string) (*sale.Sale, error)
	ListSuccessfulByAffiliate(ctx context.Context, affiliateRef string) ([]*sale.Sale, error)
}

type Conversions interface {
	ListByAffiliate(ctx context.Context, affiliateRef string) ([]*conversion.Conversion, error)
	// ListAffiliateRefs returns every affiliate ref credited with a conversion, registered or not.
	ListAffiliateRefs(ctx context.Context) ([]string, error)
}

type Wallets interface {
	Get(ctx context.Context, affiliateRef string) (*wallet.Balance, error)
}

type Rules interface {
	Lookup(ctx context.Context, productRef string) (*rule.Rule, error)
}

type Affiliates interface {
	Get(ctx context.Context, ref string) (*affiliate.Affiliate, error)
	List(ctx context.Context) ([]*affiliate.Affiliate, error)
}

type Metrics interface {
	AuditCompleted(balanced bool)
}

// Auditor is read-only. It never writes conversions or balances.
type Auditor struct {
	sales       Sales
	conversions Conversions
	wallets     Wallets
	rules       Rules
	affiliates  Affiliates
	metrics     Metrics
	logger      *slog.Logger
	now         func() time.Time
}

type Option func(*Auditor)

func WithLogger(l *slog.Logger) Option {
	return func(a *Auditor) { a.logger = l }
}

func NewAuditor(sales Sales, conversions Conversions, wallets Wallets, rules Rules, affiliates Affiliates, metrics Metrics, opts ...Option) *Auditor {
	a := &Auditor{
		sales:       sales,
		conversions: conversions,
		wallets:     wallets,
		rules:       rules,
		affiliates:  affiliates,
		metrics:     metrics,
		logger:      slog.Default(),
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

type ruleResult struct {
	rule *rule.Rule
	err  error
}

// AuditAffiliate compares what the affiliate's successful sales are owed with
// the recorded conversions and the stored wallet. Sales are owed regardless of
// the affiliate's current status. Conversions credited to an unregistered
// affiliate are all orphaned.
func (a *Auditor) AuditAffiliate(ctx context.Context, affiliateRef string) (*Report, error) {
	var registered, active bool

	aff, err := a.affiliates.Get(ctx, affiliateRef)

	switch {
	case err == nil:
		registered = true
		active = aff.Active()
	case !errors.Is(err, affiliate.ErrNotFound):
		return nil, fmt.Errorf("get affiliate: %w", err)
	}

	var sales []*sale.Sale
	if registered {
		sales, err = a.sales.ListSuccessfulByAffiliate(ctx, affiliateRef)
		if err != nil {
			return nil, fmt.Errorf("list sales: %w", err)
		}
	}

	convs, err := a.conversions.ListByAffiliate(ctx, affiliateRef)
	if err != nil {
		return nil, fmt.Errorf("list conversions: %w", err)
	}

	balance, err := a.wallets.Get(ctx, affiliateRef)
	if err != nil {
		return nil, fmt.Errorf("get wallet: %w", err)
	}

	report := &Report{
		AffiliateRef: affiliateRef,
		Registered:   registered,
		Active:       active,
		WalletTotal:  balance.Total,
		AuditedAt:    a.now().UTC(),
	}

	bySale := make(map[string]*conversion.Conversion, len(convs))
	for _, c := range convs {
		bySale[c.SaleRef] = c
		report.ActualTotal += c.Amount
	}

	rules := make(map[string]ruleResult)
	lookup := func(productRef string) (*rule.Rule, error) {
		if rr, ok := rules[productRef]; ok {
			return rr.rule, rr.err
		}

		r, err := a.rules.Lookup(ctx, productRef)
		rules[productRef] = ruleResult{rule: r, err: err}

		return r, err
	}

	backed := make(map[string]struct{}, len(sales))

	for _, s := range sales {
		backed[s.ID] = struct{}{}

		if c, ok := bySale[s.ID]; ok {
			snapshot := rule.Rule{Kind: c.RuleKind, Value: c.RuleValue}

			expected, err := snapshot.Commission(s.Amount)
			if err != nil {
				report.Unpriced = append(report.Unpriced, UnpricedSale{SaleRef: s.ID, ProductRef: s.ProductRef, Reason: err.Error()})
				continue
			}

			report.ExpectedTotal += expected

			if expected != c.Amount {
				report.Mismatched = append(report.Mismatched, Mismatch{ConversionID: c.ID, SaleRef: s.ID, Recorded: c.Amount, Expected: expected})
			}

			continue
		}

		r, err := lookup(s.ProductRef)
		if err != nil {
			if !rule.IsMissing(err) {
				return nil, fmt.Errorf("lookup rule %s: %w", s.ProductRef, err)
			}

			report.Unpriced = append(report.Unpriced, UnpricedSale{SaleRef: s.ID, ProductRef: s.ProductRef, Reason: "no commission rule"})

			continue
		}

		expected, err := r.Commission(s.Amount)
		if err != nil {
			report.Unpriced = append(report.Unpriced, UnpricedSale{SaleRef: s.ID, ProductRef: s.ProductRef, Reason: err.Error()})
			continue
		}

		report.ExpectedTotal += expected
		report.Missing = append(report.Missing, MissingSale{SaleRef: s.ID, Expected: expected})
	}

	for _, c := range convs {
		if _, ok := backed[c.SaleRef]; !ok {
			report.Orphaned = append(report.Orphaned, Orphan{ConversionID: c.ID, SaleRef: c.SaleRef, Amount: c.Amount, PaidOut: c.PaidOut})
		}
	}

	balanced := report.Balanced()
	if !balanced {
		a.logger.WarnContext(ctx, "affiliate ledger out of balance",
			"affiliate_ref", affiliateRef,
			"registered", registered,
			"expected", report.ExpectedTotal,
			"actual", report.ActualTotal,
			"wallet", report.WalletTotal,
			"missing", len(report.Missing),
			"orphaned", len(report.Orphaned),
			"unpriced", len(report.Unpriced),
			"mismatched", len(report.Mismatched),
		)
	}

	if a.metrics != nil {
		a.metrics.AuditCompleted(balanced)
	}

	return report, nil
}

// AuditAll audits every registered affiliate, then every unregistered ref that
// conversions are credited to. Reports for the affiliates that could be audited
// are returned alongside the joined errors of the rest.
func (a *Auditor) AuditAll(ctx context.Context) ([]*Report, error) {
	refs, err := a.auditRefs(ctx)
	if err != nil {
		return nil, err
	}

	var (
		reports []*Report
		errs    []error
	)

	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		r, err := a.AuditAffiliate(ctx, ref)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ref, err))
			continue
		}

		reports = append(reports, r)
	}

	return reports, errors.Join(errs...)
}

func (a *Auditor) auditRefs(ctx context.Context) ([]string, error) {
	affiliates, err := a.affiliates.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list affiliates: %w", err)
	}

	credited, err := a.conversions.ListAffiliateRefs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list credited affiliates: %w", err)
	}

	seen := make(map[string]struct{}, len(affiliates))
	refs := make([]string, 0, len(affiliates))

	for _, aff := range affiliates {
		seen[aff.Ref] = struct{}{}
		refs = append(refs, aff.Ref)
	}

	var unregistered []string

	for _, ref := range credited {
		if _, ok := seen[ref]; ok {
			continue
		}

		seen[ref] = struct{}{}
		unregistered = append(unregistered, ref)
	}

	slices.Sort(unregistered)

	return append(refs, unregistered...), nil
}

// IsOrphan reports whether no successful sale by the conversion's registered
// affiliate backs it.
func (a *Auditor) IsOrphan(ctx context.Context, c *conversion.Conversion) (bool, error) {
	s, err := a.sales.Get(ctx, c.SaleRef)
	if err != nil {
		if errors.Is(err, sale.ErrNotFound) {
			return true, nil
		}

		return false, err
	}

	if !s.Successful() || s.AffiliateRef != c.AffiliateRef {
		return true, nil
	}

	if _, err := a.affiliates.Get(ctx, c.AffiliateRef); err != nil {
		if errors.Is(err, affiliate.ErrNotFound) {
			return true, nil
		}

		return false, err
	}

	return false, nil
}
