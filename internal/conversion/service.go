package conversion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/eksporyuk/commission/internal/affiliate"
	"github.com/eksporyuk/commission/internal/rule"
	"github.com/eksporyuk/commission/internal/sale"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=conversion

type Repository interface {
	GetBySale(ctx context.Context, saleRef string) (*Conversion, error)
	Get(ctx context.Context, id uuid.UUID) (*Conversion, error)
	// Create inserts c unless a conversion for the same sale exists. It reports whether c was written.
	Create(ctx context.Context, c *Conversion) (bool, error)
	ListByAffiliate(ctx context.Context, affiliateRef string) ([]*Conversion, error)
	// Delete removes an unpaid conversion. A paid or missing row yields ErrAlreadyPaid.
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo       Repository
	sales      Sales
	affiliates Affiliates
	rules      Rules
	wallets    Wallets
	notifier   Notifier
	alerter    Alerter
	metrics    Metrics
	orphans    OrphanChecker
	logger     *slog.Logger
	now        func() time.Time
}

type Option func(*Service)

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithAlerter(a Alerter) Option {
	return func(s *Service) { s.alerter = a }
}

func WithMetrics(m Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithOrphanChecker(o OrphanChecker) Option {
	return func(s *Service) { s.orphans = o }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, sales Sales, affiliates Affiliates, rules Rules, wallets Wallets, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		sales:      sales,
		affiliates: affiliates,
		rules:      rules,
		wallets:    wallets,
		logger:     slog.Default(),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Record turns a successful referred sale into exactly one conversion.
// Calling it again for the same sale returns the stored conversion.
func (s *Service) Record(ctx context.Context, sl *sale.Sale) (*Conversion, error) {
	res, err := s.Process(ctx, sl)
	if err != nil {
		return nil, err
	}

	return res.Conversion, nil
}

// RecordSale loads a stored sale and records it.
func (s *Service) RecordSale(ctx context.Context, saleID string) (*Result, error) {
	sl, err := s.sales.Get(ctx, saleID)
	if err != nil {
		return nil, err
	}

	return s.Process(ctx, sl)
}

// Process is Record that also reports whether the conversion is new.
func (s *Service) Process(ctx context.Context, sl *sale.Sale) (*Result, error) {
	res, err := s.process(ctx, sl)

	if s.metrics != nil {
		s.metrics.ConversionOutcome(OutcomeOf(res, err))

		if err == nil && res.Created {
			s.metrics.CommissionAmount(string(res.Conversion.RuleKind), res.Conversion.Amount)
		}
	}

	return res, err
}

func (s *Service) process(ctx context.Context, sl *sale.Sale) (*Result, error) {
	if !sl.Successful() {
		return nil, fmt.Errorf("%w: sale %s is %s", ErrNotEligible, sl.ID, sl.Status)
	}

	existing, err := s.repo.GetBySale(ctx, sl.ID)

	switch {
	case err == nil:
		s.refreshWallet(ctx, existing.AffiliateRef)
		return &Result{Conversion: existing}, nil
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("lookup conversion: %w", err)
	}

	if err := s.checkAffiliate(ctx, sl); err != nil {
		return nil, err
	}

	c, err := s.price(ctx, sl)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("create conversion: %w", err)
	}

	if !created {
		c, err = s.repo.GetBySale(ctx, sl.ID)
		if err != nil {
			return nil, fmt.Errorf("load winning conversion: %w", err)
		}

		s.logger.DebugContext(ctx, "conversion already recorded by concurrent writer", "sale_id", sl.ID)
	}

	s.refreshWallet(ctx, c.AffiliateRef)

	if created {
		s.logger.InfoContext(ctx, "conversion recorded",
			"sale_id", c.SaleRef, "affiliate_ref", c.AffiliateRef, "amount", c.Amount, "rule_kind", c.RuleKind)

		if s.notifier != nil {
			s.notifier.ConversionRecorded(ctx, c)
		}
	}

	return &Result{Conversion: c, Created: created}, nil
}

func (s *Service) checkAffiliate(ctx context.Context, sl *sale.Sale) error {
	if !sl.Referred() {
		s.logger.DebugContext(ctx, "sale has no affiliate", "sale_id", sl.ID)
		return fmt.Errorf("%w: sale %s", ErrNoAffiliate, sl.ID)
	}

	a, err := s.affiliates.Get(ctx, sl.AffiliateRef)
	if err != nil {
		if errors.Is(err, affiliate.ErrNotFound) {
			s.logger.DebugContext(ctx, "sale references unknown affiliate", "sale_id", sl.ID, "affiliate_ref", sl.AffiliateRef)
			return fmt.Errorf("%w: unknown affiliate %s", ErrNoAffiliate, sl.AffiliateRef)
		}

		return fmt.Errorf("lookup affiliate: %w", err)
	}

	if !a.Active() {
		s.logger.DebugContext(ctx, "affiliate not active", "sale_id", sl.ID, "affiliate_ref", a.Ref, "status", a.Status)
		return fmt.Errorf("%w: affiliate %s is %s", ErrNoAffiliate, a.Ref, a.Status)
	}

	return nil
}

func (s *Service) price(ctx context.Context, sl *sale.Sale) (*Conversion, error) {
	tags := map[string]string{"sale_id": sl.ID, "product_ref": sl.ProductRef, "affiliate_ref": sl.AffiliateRef}

	r, err := s.rules.Lookup(ctx, sl.ProductRef)
	if err != nil {
		if rule.IsMissing(err) {
			err = fmt.Errorf("%w: %s", ErrUnknownProduct, sl.ProductRef)
			s.logger.WarnContext(ctx, "no commission rule for product", "sale_id", sl.ID, "product_ref", sl.ProductRef)
			s.alert(ctx, err, tags)

			return nil, err
		}

		return nil, fmt.Errorf("lookup rule: %w", err)
	}

	amount, err := r.Commission(sl.Amount)
	if err != nil {
		err = fmt.Errorf("%w: sale %s: %w", ErrInvalidCommission, sl.ID, err)
		s.logger.ErrorContext(ctx, "commission computation failed", "sale_id", sl.ID, "product_ref", sl.ProductRef, "error", err)
		s.alert(ctx, err, tags)

		return nil, err
	}

	return &Conversion{
		ID:           uuid.New(),
		SaleRef:      sl.ID,
		AffiliateRef: sl.AffiliateRef,
		Amount:       amount,
		RuleKind:     r.Kind,
		RuleValue:    r.Value,
		CreatedAt:    s.now().UTC(),
	}, nil
}

// refreshWallet reports recompute failures to the log and alerter only.
func (s *Service) refreshWallet(ctx context.Context, affiliateRef string) {
	if _, err := s.wallets.Recompute(ctx, affiliateRef); err != nil {
		s.logger.ErrorContext(ctx, "wallet recompute failed", "affiliate_ref", affiliateRef, "error", err)
		s.alert(ctx, fmt.Errorf("wallet recompute for %s: %w", affiliateRef, err), map[string]string{"affiliate_ref": affiliateRef})
	}
}

func (s *Service) alert(ctx context.Context, err error, tags map[string]string) {
	if s.alerter != nil {
		s.alerter.Alert(ctx, err, tags)
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Conversion, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListByAffiliate(ctx context.Context, affiliateRef string) ([]*Conversion, error) {
	return s.repo.ListByAffiliate(ctx, affiliateRef)
}

// DeleteOrphan removes an unpaid conversion that no successful referred sale supports.
func (s *Service) DeleteOrphan(ctx context.Context, id uuid.UUID) error {
	if s.orphans == nil {
		return errors.New("orphan checker not configured")
	}

	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if c.PaidOut {
		return fmt.Errorf("%w: %s", ErrAlreadyPaid, id)
	}

	orphan, err := s.orphans.IsOrphan(ctx, c)
	if err != nil {
		return fmt.Errorf("check orphan: %w", err)
	}

	if !orphan {
		return fmt.Errorf("%w: %s", ErrNotOrphaned, id)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.WarnContext(ctx, "orphaned conversion deleted",
		"conversion_id", id, "sale_id", c.SaleRef, "affiliate_ref", c.AffiliateRef, "amount", c.Amount)

	s.refreshWallet(ctx, c.AffiliateRef)

	return nil
}
