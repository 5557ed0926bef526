package sale_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/eksporyuk/commission/internal/sale"
)

func TestService_Ingest(t *testing.T) {
	completed := time.Date(2025, 2, 14, 10, 30, 0, 0, time.UTC)

	stored := &sale.Sale{
		ID:           "TX-1001",
		Amount:       899000,
		ProductRef:   "EKSPOR-PRO",
		AffiliateRef: "RINA",
		Status:       sale.StatusSuccess,
		CompletedAt:  &completed,
	}

	type args struct {
		params sale.IngestParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *sale.MockRepository)
		wantErr   error
		check     func(t *testing.T, got *sale.Sale)
	}

	tests := []testCase{
		{
			name: "NewPendingSale",
			args: args{params: sale.IngestParams{ID: "TX-2000", Amount: 500000, ProductRef: "EBOOK", Status: sale.StatusPending}},
			setupMock: func(m *sale.MockRepository) {
				m.EXPECT().GetSale(gomock.Any(), "TX-2000").Return(nil, sale.ErrNotFound)
				m.EXPECT().SaveSale(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, got *sale.Sale) {
				assert.Nil(t, got.CompletedAt)
				assert.False(t, got.Referred())
			},
		},
		{
			name: "SuccessStampsCompletion",
			args: args{params: sale.IngestParams{ID: " TX-2001 ", Amount: 500000, ProductRef: "EBOOK", AffiliateRef: "RINA", Status: sale.StatusSuccess}},
			setupMock: func(m *sale.MockRepository) {
				m.EXPECT().GetSale(gomock.Any(), "TX-2001").Return(nil, sale.ErrNotFound)
				m.EXPECT().SaveSale(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, got *sale.Sale) {
				assert.Equal(t, "TX-2001", got.ID)
				require.NotNil(t, got.CompletedAt)
			},
		},
		{
			name: "PendingToSuccess",
			args: args{params: sale.IngestParams{ID: "TX-2002", Amount: 500000, ProductRef: "EBOOK", Status: sale.StatusSuccess, CompletedAt: &completed}},
			setupMock: func(m *sale.MockRepository) {
				m.EXPECT().GetSale(gomock.Any(), "TX-2002").Return(&sale.Sale{ID: "TX-2002", Status: sale.StatusPending}, nil)
				m.EXPECT().SaveSale(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, got *sale.Sale) {
				assert.Equal(t, &completed, got.CompletedAt)
			},
		},
		{
			name: "ReplayOfSuccessReturnsStored",
			args: args{params: sale.IngestParams{ID: "TX-1001", Amount: 899000, ProductRef: "EKSPOR-PRO", AffiliateRef: "RINA", Status: sale.StatusSuccess}},
			setupMock: func(m *sale.MockRepository) {
				m.EXPECT().GetSale(gomock.Any(), "TX-1001").Return(stored, nil)
			},
			check: func(t *testing.T, got *sale.Sale) {
				assert.Same(t, stored, got)
			},
		},
		{
			name: "RefundAfterSuccessRejected",
			args: args{params: sale.IngestParams{ID: "TX-1001", Amount: 899000, ProductRef: "EKSPOR-PRO", AffiliateRef: "RINA", Status: sale.StatusCancelled}},
			setupMock: func(m *sale.MockRepository) {
				m.EXPECT().GetSale(gomock.Any(), "TX-1001").Return(stored, nil)
			},
			wantErr: sale.ErrImmutable,
		},
		{
			name: "AmountChangeAfterSuccessRejected",
			args: args{params: sale.IngestParams{ID: "TX-1001", Amount: 1, ProductRef: "EKSPOR-PRO", AffiliateRef: "RINA", Status: sale.StatusSuccess}},
			setupMock: func(m *sale.MockRepository) {
				m.EXPECT().GetSale(gomock.Any(), "TX-1001").Return(stored, nil)
			},
			wantErr: sale.ErrImmutable,
		},
		{
			name:    "MissingProduct",
			args:    args{params: sale.IngestParams{ID: "TX-3", Amount: 1, Status: sale.StatusSuccess}},
			wantErr: sale.ErrInvalid,
		},
		{
			name:    "NegativeAmount",
			args:    args{params: sale.IngestParams{ID: "TX-3", Amount: -1, ProductRef: "EBOOK", Status: sale.StatusSuccess}},
			wantErr: sale.ErrInvalid,
		},
		{
			name:    "UnknownStatus",
			args:    args{params: sale.IngestParams{ID: "TX-3", Amount: 1, ProductRef: "EBOOK", Status: "REFUNDED"}},
			wantErr: sale.ErrInvalid,
		},
		{
			name: "LookupError",
			args: args{params: sale.IngestParams{ID: "TX-4", Amount: 1, ProductRef: "EBOOK", Status: sale.StatusPending}},
			setupMock: func(m *sale.MockRepository) {
				m.EXPECT().GetSale(gomock.Any(), "TX-4").Return(nil, errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := sale.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := sale.NewService(repo).Ingest(context.Background(), tt.args.params)
			if tt.wantErr != nil {
				require.Error(t, err)

				if errors.Is(tt.wantErr, sale.ErrImmutable) || errors.Is(tt.wantErr, sale.ErrInvalid) {
					assert.ErrorIs(t, err, tt.wantErr)
				}

				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)

			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}
