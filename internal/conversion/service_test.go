package conversion_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/eksporyuk/commission/internal/affiliate"
	"github.com/eksporyuk/commission/internal/conversion"
	"github.com/eksporyuk/commission/internal/rule"
	"github.com/eksporyuk/commission/internal/sale"
	"github.com/eksporyuk/commission/internal/wallet"
)

type mocks struct {
	repo       *conversion.MockRepository
	affiliates *conversion.MockAffiliates
	rules      *conversion.MockRules
	wallets    *conversion.MockWallets
	notifier   *conversion.MockNotifier
	alerter    *conversion.MockAlerter
	metrics    *conversion.MockMetrics
}

func newMocks(ctrl *gomock.Controller) *mocks {
	return &mocks{
		repo:       conversion.NewMockRepository(ctrl),
		affiliates: conversion.NewMockAffiliates(ctrl),
		rules:      conversion.NewMockRules(ctrl),
		wallets:    conversion.NewMockWallets(ctrl),
		notifier:   conversion.NewMockNotifier(ctrl),
		alerter:    conversion.NewMockAlerter(ctrl),
		metrics:    conversion.NewMockMetrics(ctrl),
	}
}

func (m *mocks) service(opts ...conversion.Option) *conversion.Service {
	opts = append([]conversion.Option{
		conversion.WithNotifier(m.notifier),
		conversion.WithAlerter(m.alerter),
		conversion.WithMetrics(m.metrics),
	}, opts...)

	return conversion.NewService(m.repo, nil, m.affiliates, m.rules, m.wallets, opts...)
}

func successfulSale(amount int64) *sale.Sale {
	completed := time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)

	return &sale.Sale{
		ID:           "INV-7781",
		Amount:       amount,
		ProductRef:   "EKSPOR-PRO",
		AffiliateRef: "RINA",
		Status:       sale.StatusSuccess,
		CompletedAt:  &completed,
	}
}

var activeRina = &affiliate.Affiliate{Ref: "RINA", Status: affiliate.StatusActive}

func TestService_Record(t *testing.T) {
	flat := &rule.Rule{ProductRef: "EKSPOR-PRO", Kind: rule.KindFlat, Value: decimal.NewFromInt(250000)}
	pct := &rule.Rule{ProductRef: "EKSPOR-PRO", Kind: rule.KindPercentage, Value: decimal.NewFromInt(30)}

	type args struct {
		sale *sale.Sale
	}

	type testCase struct {
		name       string
		args       args
		setupMock  func(m *mocks)
		wantAmount int64
		wantErr    error
	}

	tests := []testCase{
		{
			name: "FlatCommission",
			args: args{sale: successfulSale(899000)},
			setupMock: func(m *mocks) {
				m.repo.EXPECT().GetBySale(gomock.Any(), "INV-7781").Return(nil, conversion.ErrNotFound)
				m.affiliates.EXPECT().Get(gomock.Any(), "RINA").Return(activeRina, nil)
				m.rules.EXPECT().Lookup(gomock.Any(), "EKSPOR-PRO").Return(flat, nil)
				m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(true, nil)
				m.wallets.EXPECT().Recompute(gomock.Any(), "RINA").Return(&wallet.Balance{}, nil)
				m.notifier.EXPECT().ConversionRecorded(gomock.Any(), gomock.Any())
				m.metrics.EXPECT().ConversionOutcome(conversion.OutcomeCreated)
				m.metrics.EXPECT().CommissionAmount("FLAT", int64(250000))
			},
			wantAmount: 250000,
		},
		{
			name: "PercentageTruncates",
			args: args{sale: successfulSale(1000001)},
			setupMock: func(m *mocks) {
				m.repo.EXPECT().GetBySale(gomock.Any(), "INV-7781").Return(nil, conversion.ErrNotFound)
				m.affiliates.EXPECT().Get(gomock.Any(), "RINA").Return(activeRina, nil)
				m.rules.EXPECT().Lookup(gomock.Any(), "EKSPOR-PRO").Return(pct, nil)
				m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(true, nil)
				m.wallets.EXPECT().Recompute(gomock.Any(), "RINA").Return(&wallet.Balance{}, nil)
				m.notifier.EXPECT().ConversionRecorded(gomock.Any(), gomock.Any())
				m.metrics.EXPECT().ConversionOutcome(conversion.OutcomeCreated)
				m.metrics.EXPECT().CommissionAmount("PERCENTAGE", int64(300000))
			},
			wantAmount: 300000,
		},
		{
			name: "ExistingConversionReturnedAndWalletHealed",
			args: args{sale: successfulSale(899000)},
			setupMock: func(m *mocks) {
				m.repo.EXPECT().GetBySale(gomock.Any(), "INV-7781").Return(&conversion.Conversion{SaleRef: "INV-7781", AffiliateRef: "RINA", Amount: 250000}, nil)
				m.wallets.EXPECT().Recompute(gomock.Any(), "RINA").Return(&wallet.Balance{}, nil)
				m.metrics.EXPECT().ConversionOutcome(conversion.OutcomeExisting)
			},
			wantAmount: 250000,
		},
		{
			name: "LostInsertRaceReturnsWinner",
			args: args{sale: successfulSale(899000)},
			setupMock: func(m *mocks) {
				gomock.InOrder(
					m.repo.EXPECT().GetBySale(gomock.Any(), "INV-7781").Return(nil, conversion.ErrNotFound),
					m.repo.EXPECT().GetBySale(gomock.Any(), "INV-7781").Return(&conversion.Conversion{SaleRef: "INV-7781", AffiliateRef: "RINA", Amount: 250000}, nil),
				)
				m.affiliates.EXPECT().Get(gomock.Any(), "RINA").Return(activeRina, nil)
				m.rules.EXPECT().Lookup(gomock.Any(), "EKSPOR-PRO").Return(flat, nil)
				m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(false, nil)
				m.wallets.EXPECT().Recompute(gomock.Any(), "RINA").Return(&wallet.Balance{}, nil)
				m.metrics.EXPECT().ConversionOutcome(conversion.OutcomeExisting)
			},
			wantAmount: 250000,
		},
		{
			name: "PendingSaleNotEligible",
			args: args{sale: &sale.Sale{ID: "INV-1", Status: sale.StatusPending, AffiliateRef: "RINA"}},
			setupMock: func(m *mocks) {
				m.metrics.EXPECT().ConversionOutcome(conversion.OutcomeNotEligible)
			},
			wantErr: conversion.ErrNotEligible,
		},
		{
			name: "NoAffiliateOnSale",
			args: args{sale: &sale.Sale{ID: "INV-1", Status: sale.StatusSuccess, Amount: 10, ProductRef: "EKSPOR-PRO"}},
			setupMock: func(m *mocks) {
				m.repo.EXPECT().GetBySale(gomock.Any(), "INV-1").Return(nil, conversion.ErrNotFound)
				m.metrics.EXPECT().ConversionOutcome(conversion.OutcomeNoAffiliate)
			},
			wantErr: conversion.ErrNoAffiliate,
		},
		{
			name: "UnknownAffiliate",
			args: args{sale: successfulSale(899000)},
			setupMock: func(m *mocks) {
				m.repo.EXPECT().GetBySale(gomock.Any(), "INV-7781").Return(nil, conversion.ErrNotFound)
				m.affiliates.EXPECT().Get(gomock.Any(), "RINA").Return(nil, affiliate.ErrNotFound)
				m.metrics.EXPECT().ConversionOutcome(conversion.OutcomeNoAffiliate)
			},
			wantErr: conversion.ErrNoAffiliate,
		},
		{
			name: "SuspendedAffiliate",
			args: args{sale: successfulSale(899000)},
			setupMock: func(m *mocks) {
				m.repo.EXPECT().GetBySale(gomock.Any(), "INV-7781").Return(nil, conversion.ErrNotFound)
				m.affiliates.EXPECT().Get(gomock.Any(), "RINA").Return(&affiliate.Affiliate{Ref: "RINA", Status: affiliate.StatusSuspended}, nil)
				m.metrics.EXPECT().ConversionOutcome(conversion.OutcomeNoAffiliate)
			},
			wantErr: conversion.ErrNoAffiliate,
		},
		{
			name: "UnknownProductAlerts",
			args: args{sale: successfulSale(899000)},
			setupMock: func(m *mocks) {
				m.repo.EXPECT().GetBySale(gomock.Any(), "INV-7781").Return(nil, conversion.ErrNotFound)
				m.affiliates.EXPECT().Get(gomock.Any(), "RINA").Return(activeRina, nil)
				m.rules.EXPECT().Lookup(gomock.Any(), "EKSPOR-PRO").Return(nil, rule.ErrNotFound)
				m.alerter.EXPECT().Alert(gomock.Any(), gomock.Any(), gomock.Any()).Do(func(_ context.Context, err error, tags map[string]string) {
					assert.ErrorIs(t, err, conversion.ErrUnknownProduct)
					assert.Equal(t, "EKSPOR-PRO", tags["product_ref"])
				})
				m.metrics.EXPECT().ConversionOutcome(conversion.OutcomeUnknownProduct)
			},
			wantErr: conversion.ErrUnknownProduct,
		},
		{
			name: "NegativeCommissionIsFatal",
			args: args{sale: successfulSale(899000)},
			setupMock: func(m *mocks) {
				m.repo.EXPECT().GetBySale(gomock.Any(), "INV-7781").Return(nil, conversion.ErrNotFound)
				m.affiliates.EXPECT().Get(gomock.Any(), "RINA").Return(activeRina, nil)
				m.rules.EXPECT().Lookup(gomock.Any(), "EKSPOR-PRO").Return(&rule.Rule{Kind: rule.KindFlat, Value: decimal.NewFromInt(-5)}, nil)
				m.alerter.EXPECT().Alert(gomock.Any(), gomock.Any(), gomock.Any())
				m.metrics.EXPECT().ConversionOutcome(conversion.OutcomeInvalidCommission)
			},
			wantErr: conversion.ErrInvalidCommission,
		},
		{
			name: "WalletFailureDoesNotFailRecord",
			args: args{sale: successfulSale(899000)},
			setupMock: func(m *mocks) {
				m.repo.EXPECT().GetBySale(gomock.Any(), "INV-7781").Return(nil, conversion.ErrNotFound)
				m.affiliates.EXPECT().Get(gomock.Any(), "RINA").Return(activeRina, nil)
				m.rules.EXPECT().Lookup(gomock.Any(), "EKSPOR-PRO").Return(flat, nil)
				m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(true, nil)
				m.wallets.EXPECT().Recompute(gomock.Any(), "RINA").Return(nil, errors.New("lock timeout"))
				m.alerter.EXPECT().Alert(gomock.Any(), gomock.Any(), gomock.Any())
				m.notifier.EXPECT().ConversionRecorded(gomock.Any(), gomock.Any())
				m.metrics.EXPECT().ConversionOutcome(conversion.OutcomeCreated)
				m.metrics.EXPECT().CommissionAmount("FLAT", int64(250000))
			},
			wantAmount: 250000,
		},
		{
			name: "InsertError",
			args: args{sale: successfulSale(899000)},
			setupMock: func(m *mocks) {
				m.repo.EXPECT().GetBySale(gomock.Any(), "INV-7781").Return(nil, conversion.ErrNotFound)
				m.affiliates.EXPECT().Get(gomock.Any(), "RINA").Return(activeRina, nil)
				m.rules.EXPECT().Lookup(gomock.Any(), "EKSPOR-PRO").Return(flat, nil)
				m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(false, errors.New("db error"))
				m.metrics.EXPECT().ConversionOutcome(conversion.OutcomeError)
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := newMocks(ctrl)
			tt.setupMock(m)

			got, err := m.service().Record(context.Background(), tt.args.sale)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Nil(t, got)

				if conversion.OutcomeOf(nil, tt.wantErr) != conversion.OutcomeError {
					assert.ErrorIs(t, err, tt.wantErr)
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantAmount, got.Amount)
			assert.Equal(t, tt.args.sale.ID, got.SaleRef)
		})
	}
}

func TestService_Record_SnapshotsRule(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newMocks(ctrl)
	now := time.Date(2025, 5, 20, 9, 0, 1, 0, time.UTC)
	pct := &rule.Rule{ProductRef: "EKSPOR-PRO", Kind: rule.KindPercentage, Value: decimal.RequireFromString("12.5")}

	m.repo.EXPECT().GetBySale(gomock.Any(), "INV-7781").Return(nil, conversion.ErrNotFound)
	m.affiliates.EXPECT().Get(gomock.Any(), "RINA").Return(activeRina, nil)
	m.rules.EXPECT().Lookup(gomock.Any(), "EKSPOR-PRO").Return(pct, nil)
	m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, c *conversion.Conversion) (bool, error) {
		assert.NotEqual(t, uuid.Nil, c.ID)
		assert.Equal(t, rule.KindPercentage, c.RuleKind)
		assert.True(t, pct.Value.Equal(c.RuleValue))
		assert.Equal(t, now, c.CreatedAt)
		assert.False(t, c.PaidOut)

		return true, nil
	})
	m.wallets.EXPECT().Recompute(gomock.Any(), "RINA").Return(&wallet.Balance{}, nil)
	m.notifier.EXPECT().ConversionRecorded(gomock.Any(), gomock.Any())
	m.metrics.EXPECT().ConversionOutcome(conversion.OutcomeCreated)
	m.metrics.EXPECT().CommissionAmount("PERCENTAGE", int64(99875))

	svc := m.service(conversion.WithClock(func() time.Time { return now }))

	res, err := svc.Process(context.Background(), successfulSale(799000))
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, int64(99875), res.Conversion.Amount)
}

func TestService_RecordSale(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sales := conversion.NewMockSales(ctrl)
	sales.EXPECT().Get(gomock.Any(), "missing").Return(nil, sale.ErrNotFound)

	svc := conversion.NewService(conversion.NewMockRepository(ctrl), sales, nil, nil, nil)

	_, err := svc.RecordSale(context.Background(), "missing")
	assert.ErrorIs(t, err, sale.ErrNotFound)
}

func TestService_DeleteOrphan(t *testing.T) {
	id := uuid.New()
	unpaid := &conversion.Conversion{ID: id, SaleRef: "INV-404", AffiliateRef: "RINA", Amount: 1000}

	type testCase struct {
		name      string
		setupMock func(m *mocks, orphans *conversion.MockOrphanChecker)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "DeletesOrphan",
			setupMock: func(m *mocks, orphans *conversion.MockOrphanChecker) {
				m.repo.EXPECT().Get(gomock.Any(), id).Return(unpaid, nil)
				orphans.EXPECT().IsOrphan(gomock.Any(), unpaid).Return(true, nil)
				m.repo.EXPECT().Delete(gomock.Any(), id).Return(nil)
				m.wallets.EXPECT().Recompute(gomock.Any(), "RINA").Return(&wallet.Balance{}, nil)
			},
		},
		{
			name: "RefusesBackedConversion",
			setupMock: func(m *mocks, orphans *conversion.MockOrphanChecker) {
				m.repo.EXPECT().Get(gomock.Any(), id).Return(unpaid, nil)
				orphans.EXPECT().IsOrphan(gomock.Any(), unpaid).Return(false, nil)
			},
			wantErr: conversion.ErrNotOrphaned,
		},
		{
			name: "RefusesPaidConversion",
			setupMock: func(m *mocks, _ *conversion.MockOrphanChecker) {
				m.repo.EXPECT().Get(gomock.Any(), id).Return(&conversion.Conversion{ID: id, PaidOut: true}, nil)
			},
			wantErr: conversion.ErrAlreadyPaid,
		},
		{
			name: "NotFound",
			setupMock: func(m *mocks, _ *conversion.MockOrphanChecker) {
				m.repo.EXPECT().Get(gomock.Any(), id).Return(nil, conversion.ErrNotFound)
			},
			wantErr: conversion.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := newMocks(ctrl)
			orphans := conversion.NewMockOrphanChecker(ctrl)
			tt.setupMock(m, orphans)

			err := m.service(conversion.WithOrphanChecker(orphans)).DeleteOrphan(context.Background(), id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}
