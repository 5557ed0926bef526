package rule_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eksporyuk/commission/internal/rule"
)

func TestRule_Commission(t *testing.T) {
	type testCase struct {
		name    string
		rule    rule.Rule
		amount  int64
		want    int64
		wantErr bool
	}

	tests := []testCase{
		{
			name:   "FlatIgnoresAmount",
			rule:   rule.Rule{Kind: rule.KindFlat, Value: decimal.NewFromInt(250000)},
			amount: 899000,
			want:   250000,
		},
		{
			name:   "PercentageExact",
			rule:   rule.Rule{Kind: rule.KindPercentage, Value: decimal.NewFromInt(30)},
			amount: 1000000,
			want:   300000,
		},
		{
			name:   "PercentageTruncates",
			rule:   rule.Rule{Kind: rule.KindPercentage, Value: decimal.NewFromInt(30)},
			amount: 1000001,
			want:   300000,
		},
		{
			name:   "FractionalPercentage",
			rule:   rule.Rule{Kind: rule.KindPercentage, Value: decimal.RequireFromString("12.5")},
			amount: 799000,
			want:   99875,
		},
		{
			name:   "ZeroAmount",
			rule:   rule.Rule{Kind: rule.KindPercentage, Value: decimal.NewFromInt(30)},
			amount: 0,
			want:   0,
		},
		{
			name:    "NegativeFlat",
			rule:    rule.Rule{Kind: rule.KindFlat, Value: decimal.NewFromInt(-1)},
			amount:  100,
			wantErr: true,
		},
		{
			name:    "NegativeAmount",
			rule:    rule.Rule{Kind: rule.KindPercentage, Value: decimal.NewFromInt(10)},
			amount:  -5000,
			wantErr: true,
		},
		{
			name:    "FractionalFlat",
			rule:    rule.Rule{Kind: rule.KindFlat, Value: decimal.RequireFromString("10.5")},
			amount:  100,
			wantErr: true,
		},
		{
			name:    "UnknownKind",
			rule:    rule.Rule{Kind: "TIERED", Value: decimal.NewFromInt(10)},
			amount:  100,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.rule.Commission(tt.amount)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, rule.ErrInvalidValue)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRule_Validate(t *testing.T) {
	assert.NoError(t, (&rule.Rule{Kind: rule.KindFlat, Value: decimal.NewFromInt(250000)}).Validate())
	assert.NoError(t, (&rule.Rule{Kind: rule.KindPercentage, Value: decimal.NewFromInt(100)}).Validate())
	assert.ErrorIs(t, (&rule.Rule{Kind: rule.KindPercentage, Value: decimal.NewFromInt(101)}).Validate(), rule.ErrInvalidValue)
	assert.ErrorIs(t, (&rule.Rule{Kind: rule.KindFlat, Value: decimal.RequireFromString("0.5")}).Validate(), rule.ErrInvalidValue)
	assert.ErrorIs(t, (&rule.Rule{Kind: "", Value: decimal.Zero}).Validate(), rule.ErrInvalidValue)
}

func TestRule_ValidateScale(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"FourPlaces", "33.3333", false},
		{"TrailingZeros", "12.50000", false},
		{"FivePlaces", "33.33333", true},
		{"TinyFraction", "0.00001", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&rule.Rule{Kind: rule.KindPercentage, Value: decimal.RequireFromString(tt.value)}).Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, rule.ErrInvalidValue)
				return
			}

			assert.NoError(t, err)
		})
	}
}
