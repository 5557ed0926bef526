package wallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=wallet

type Repository interface {
	GetBalance(ctx context.Context, affiliateRef string) (*Balance, error)
	ListBalances(ctx context.Context) ([]*Balance, error)
	// ListAffiliateRefs returns every affiliate that has conversions or a stored balance.
	ListAffiliateRefs(ctx context.Context) ([]string, error)
	BeginRecompute(ctx context.Context, affiliateRef string) (RecomputeTx, error)
}

// RecomputeTx holds the per-affiliate recompute lock until Commit or Rollback.
type RecomputeTx interface {
	Entries(ctx context.Context) ([]Entry, error)
	SaveBalance(ctx context.Context, b *Balance) error
	Commit() error
	Rollback() error
}

type Metrics interface {
	WalletRecomputed(d time.Duration, err error)
}

type Service struct {
	repo    Repository
	metrics Metrics
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(*Service)

func WithMetrics(m Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Recompute rebuilds the affiliate's balance from all of its conversions and
// overwrites the stored row.
func (s *Service) Recompute(ctx context.Context, affiliateRef string) (*Balance, error) {
	start := time.Now()

	b, err := s.recompute(ctx, affiliateRef)
	if s.metrics != nil {
		s.metrics.WalletRecomputed(time.Since(start), err)
	}

	return b, err
}

func (s *Service) recompute(ctx context.Context, affiliateRef string) (*Balance, error) {
	rtx, err := s.repo.BeginRecompute(ctx, affiliateRef)
	if err != nil {
		return nil, fmt.Errorf("begin recompute: %w", err)
	}
	defer rtx.Rollback()

	entries, err := rtx.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}

	b := Summarize(affiliateRef, entries)
	b.RecomputedAt = s.now().UTC()

	if err := rtx.SaveBalance(ctx, b); err != nil {
		return nil, fmt.Errorf("save balance: %w", err)
	}

	if err := rtx.Commit(); err != nil {
		return nil, fmt.Errorf("commit recompute: %w", err)
	}

	return b, nil
}

// Get returns the stored balance, or a zero balance when none was ever computed.
func (s *Service) Get(ctx context.Context, affiliateRef string) (*Balance, error) {
	b, err := s.repo.GetBalance(ctx, affiliateRef)
	if errors.Is(err, ErrNotFound) {
		return &Balance{AffiliateRef: affiliateRef}, nil
	}

	return b, err
}

func (s *Service) List(ctx context.Context) ([]*Balance, error) {
	return s.repo.ListBalances(ctx)
}

// RecomputeAll sweeps every known affiliate. One failure does not stop the sweep.
func (s *Service) RecomputeAll(ctx context.Context) (int, error) {
	refs, err := s.repo.ListAffiliateRefs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list affiliates: %w", err)
	}

	var (
		done int
		errs []error
	)

	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		if _, err := s.Recompute(ctx, ref); err != nil {
			s.logger.ErrorContext(ctx, "wallet recompute failed", "affiliate_ref", ref, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", ref, err))

			continue
		}

		done++
	}

	return done, errors.Join(errs...)
}
