package revenue_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eksporyuk/commission/internal/conversion"
	"github.com/eksporyuk/commission/internal/revenue"
	"github.com/eksporyuk/commission/internal/sale"
)

func defaultPolicy(t *testing.T) revenue.Policy {
	t.Helper()

	p, err := revenue.NewPolicy("15", "60", "40")
	require.NoError(t, err)

	return p
}

func TestPolicy_Split(t *testing.T) {
	type testCase struct {
		name       string
		amount     int64
		commission int64
		want       revenue.Breakdown
		wantErr    bool
	}

	tests := []testCase{
		{
			name:       "MembershipWithFlatCommission",
			amount:     899000,
			commission: 250000,
			want:       revenue.Breakdown{Total: 899000, Affiliate: 250000, Company: 97350, Founder: 330990, Cofounder: 220660},
		},
		{
			name:       "NoAffiliate",
			amount:     1000000,
			commission: 0,
			want:       revenue.Breakdown{Total: 1000000, Company: 150000, Founder: 510000, Cofounder: 340000},
		},
		{
			name:       "ResidualGoesToCofounder",
			amount:     1000001,
			commission: 300000,
			want:       revenue.Breakdown{Total: 1000001, Affiliate: 300000, Company: 105000, Founder: 357000, Cofounder: 238001},
		},
		{
			name:       "CommissionExceedsSale",
			amount:     100,
			commission: 101,
			wantErr:    true,
		},
	}

	p := defaultPolicy(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Split(tt.amount, tt.commission)
			if tt.wantErr {
				assert.ErrorIs(t, err, revenue.ErrCommissionExceedsSale)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
			assert.Equal(t, got.Total, got.Affiliate+got.Company+got.Founder+got.Cofounder)
		})
	}
}

func TestNewPolicy_Rejects(t *testing.T) {
	_, err := revenue.NewPolicy("15", "60", "50")
	assert.ErrorIs(t, err, revenue.ErrInvalidPolicy)

	_, err = revenue.NewPolicy("fifteen", "60", "40")
	assert.ErrorIs(t, err, revenue.ErrInvalidPolicy)

	_, err = revenue.NewPolicy("115", "60", "40")
	assert.ErrorIs(t, err, revenue.ErrInvalidPolicy)
}

type stubSales map[string]*sale.Sale

func (s stubSales) Get(_ context.Context, id string) (*sale.Sale, error) {
	if sl, ok := s[id]; ok {
		return sl, nil
	}

	return nil, sale.ErrNotFound
}

type stubConversions map[string]*conversion.Conversion

func (s stubConversions) GetBySale(_ context.Context, id string) (*conversion.Conversion, error) {
	if c, ok := s[id]; ok {
		return c, nil
	}

	return nil, conversion.ErrNotFound
}

func TestService_SplitSale(t *testing.T) {
	sales := stubSales{
		"INV-1": {ID: "INV-1", Amount: 899000, Status: sale.StatusSuccess},
		"INV-2": {ID: "INV-2", Amount: 1000000, Status: sale.StatusSuccess},
		"INV-3": {ID: "INV-3", Amount: 1000000, Status: sale.StatusPending},
	}
	convs := stubConversions{"INV-1": {SaleRef: "INV-1", Amount: 250000}}

	svc := revenue.NewService(defaultPolicy(t), sales, convs)

	got, err := svc.SplitSale(context.Background(), "INV-1")
	require.NoError(t, err)
	assert.Equal(t, int64(250000), got.Affiliate)

	got, err = svc.SplitSale(context.Background(), "INV-2")
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Affiliate)
	assert.Equal(t, int64(150000), got.Company)

	_, err = svc.SplitSale(context.Background(), "INV-3")
	assert.ErrorIs(t, err, conversion.ErrNotEligible)

	_, err = svc.SplitSale(context.Background(), "INV-404")
	assert.ErrorIs(t, err, sale.ErrNotFound)
}
