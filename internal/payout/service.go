package payout

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=payout

type Repository interface {
	GetPayout(ctx context.Context, id uuid.UUID) (*Receipt, error)
	ListPayouts(ctx context.Context, affiliateRef string) ([]*Receipt, error)
	BeginSettlement(ctx context.Context) (SettlementTx, error)
}

// SettlementTx is a single database transaction. LockConversions returns the
// rows that exist, locked in id order.
type SettlementTx interface {
	LockConversions(ctx context.Context, ids []uuid.UUID) ([]Locked, error)
	CreatePayout(ctx context.Context, r *Receipt) error
	// MarkPaid flips only unpaid rows and returns how many it flipped.
	MarkPaid(ctx context.Context, ids []uuid.UUID, payoutID uuid.UUID, paidAt time.Time) (int64, error)
	Commit() error
	Rollback() error
}

type Service struct {
	repo     Repository
	wallets  Wallets
	notifier Notifier
	alerter  Alerter
	metrics  Metrics
	logger   *slog.Logger
	now      func() time.Time
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

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, wallets Wallets, opts ...Option) *Service {
	s := &Service{repo: repo, wallets: wallets, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Settle pays out a batch of the affiliate's conversions atomically. Either
// every conversion flips to paid or none does.
func (s *Service) Settle(ctx context.Context, affiliateRef string, ids []uuid.UUID) (*Receipt, error) {
	r, err := s.settle(ctx, affiliateRef, ids)

	if s.metrics != nil {
		switch {
		case err == nil:
			s.metrics.PayoutCompleted(r.Total, len(r.ConversionIDs))
		case errors.Is(err, ErrInvalidSelection):
			s.metrics.PayoutRejected("invalid_selection")
		case errors.Is(err, ErrAlreadySettled):
			s.metrics.PayoutRejected("already_settled")
		default:
			s.metrics.PayoutRejected("error")
		}
	}

	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "payout settled",
		"payout_id", r.ID, "affiliate_ref", r.AffiliateRef, "total", r.Total, "conversions", len(r.ConversionIDs))

	if _, err := s.wallets.Recompute(ctx, affiliateRef); err != nil {
		s.logger.ErrorContext(ctx, "wallet recompute after payout failed", "affiliate_ref", affiliateRef, "error", err)

		if s.alerter != nil {
			s.alerter.Alert(ctx, fmt.Errorf("wallet recompute for %s: %w", affiliateRef, err), map[string]string{"affiliate_ref": affiliateRef})
		}
	}

	if s.notifier != nil {
		s.notifier.PayoutSettled(ctx, r)
	}

	return r, nil
}

func (s *Service) settle(ctx context.Context, affiliateRef string, ids []uuid.UUID) (*Receipt, error) {
	batch, err := normalize(affiliateRef, ids)
	if err != nil {
		return nil, err
	}

	stx, err := s.repo.BeginSettlement(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin settlement: %w", err)
	}
	defer stx.Rollback()

	locked, err := stx.LockConversions(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("lock conversions: %w", err)
	}

	if len(locked) != len(batch) {
		return nil, fmt.Errorf("%w: %d of %d conversions not found", ErrInvalidSelection, len(batch)-len(locked), len(batch))
	}

	var (
		total int64
		paid  []uuid.UUID
	)

	for _, l := range locked {
		if l.AffiliateRef != affiliateRef {
			return nil, fmt.Errorf("%w: conversion %s belongs to another affiliate", ErrInvalidSelection, l.ID)
		}

		if l.PaidOut {
			paid = append(paid, l.ID)
		}

		total += l.Amount
	}

	if len(paid) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrAlreadySettled, paid)
	}

	r := &Receipt{
		ID:            uuid.New(),
		AffiliateRef:  affiliateRef,
		ConversionIDs: batch,
		Total:         total,
		SettledAt:     s.now().UTC(),
	}

	if err := stx.CreatePayout(ctx, r); err != nil {
		return nil, fmt.Errorf("create payout: %w", err)
	}

	n, err := stx.MarkPaid(ctx, batch, r.ID, r.SettledAt)
	if err != nil {
		return nil, fmt.Errorf("mark paid: %w", err)
	}

	if n != int64(len(batch)) {
		return nil, fmt.Errorf("%w: %d of %d conversions changed under lock", ErrAlreadySettled, int64(len(batch))-n, len(batch))
	}

	if err := stx.Commit(); err != nil {
		return nil, fmt.Errorf("commit settlement: %w", err)
	}

	return r, nil
}

// normalize rejects empty and duplicate selections and sorts ids into lock order.
func normalize(affiliateRef string, ids []uuid.UUID) ([]uuid.UUID, error) {
	if affiliateRef == "" {
		return nil, fmt.Errorf("%w: affiliate is required", ErrInvalidSelection)
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: empty batch", ErrInvalidSelection)
	}

	batch := slices.Clone(ids)
	slices.SortFunc(batch, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })

	for i := 1; i < len(batch); i++ {
		if batch[i] == batch[i-1] {
			return nil, fmt.Errorf("%w: duplicate conversion %s", ErrInvalidSelection, batch[i])
		}
	}

	return batch, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Receipt, error) {
	return s.repo.GetPayout(ctx, id)
}

func (s *Service) List(ctx context.Context, affiliateRef string) ([]*Receipt, error) {
	return s.repo.ListPayouts(ctx, affiliateRef)
}
