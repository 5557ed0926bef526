package revenue

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrCommissionExceedsSale = errors.New("affiliate commission exceeds sale amount")
	ErrInvalidPolicy         = errors.New("invalid revenue split policy")
)

var hundred = decimal.NewFromInt(100)

// Policy splits what is left of a sale after the affiliate commission. The
// company takes CompanyPercent first; founder and co-founder share the rest.
type Policy struct {
	CompanyPercent   decimal.Decimal
	FounderPercent   decimal.Decimal
	CofounderPercent decimal.Decimal
}

func NewPolicy(company, founder, cofounder string) (Policy, error) {
	var (
		p   Policy
		err error
	)

	if p.CompanyPercent, err = decimal.NewFromString(company); err != nil {
		return Policy{}, fmt.Errorf("%w: company percent: %w", ErrInvalidPolicy, err)
	}

	if p.FounderPercent, err = decimal.NewFromString(founder); err != nil {
		return Policy{}, fmt.Errorf("%w: founder percent: %w", ErrInvalidPolicy, err)
	}

	if p.CofounderPercent, err = decimal.NewFromString(cofounder); err != nil {
		return Policy{}, fmt.Errorf("%w: co-founder percent: %w", ErrInvalidPolicy, err)
	}

	if err := p.Validate(); err != nil {
		return Policy{}, err
	}

	return p, nil
}

func (p Policy) Validate() error {
	for _, v := range []decimal.Decimal{p.CompanyPercent, p.FounderPercent, p.CofounderPercent} {
		if v.IsNegative() || v.GreaterThan(hundred) {
			return fmt.Errorf("%w: percent %s out of range", ErrInvalidPolicy, v)
		}
	}

	if !p.FounderPercent.Add(p.CofounderPercent).Equal(hundred) {
		return fmt.Errorf("%w: founder and co-founder shares must total 100", ErrInvalidPolicy)
	}

	return nil
}

// Breakdown always sums to Total.
type Breakdown struct {
	Total     int64
	Affiliate int64
	Company   int64
	Founder   int64
	Cofounder int64
}

// Split divides amount given the affiliate's commission. Shares truncate to
// the rupiah; the co-founder takes the residual.
func (p Policy) Split(amount, affiliateCommission int64) (*Breakdown, error) {
	if affiliateCommission < 0 || amount < 0 {
		return nil, fmt.Errorf("%w: negative amount", ErrInvalidPolicy)
	}

	if affiliateCommission > amount {
		return nil, fmt.Errorf("%w: %d > %d", ErrCommissionExceedsSale, affiliateCommission, amount)
	}

	remaining := amount - affiliateCommission
	company := share(remaining, p.CompanyPercent)
	remaining -= company
	founder := share(remaining, p.FounderPercent)

	return &Breakdown{
		Total:     amount,
		Affiliate: affiliateCommission,
		Company:   company,
		Founder:   founder,
		Cofounder: remaining - founder,
	}, nil
}

func share(amount int64, percent decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(percent).Div(hundred).Truncate(0).IntPart()
}
