package rule

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound     = errors.New("commission rule not found")
	ErrInvalidValue = errors.New("invalid commission rule value")
)

type Kind string

const (
	KindFlat       Kind = "FLAT"
	KindPercentage Kind = "PERCENTAGE"
)

func (k Kind) Valid() bool {
	return k == KindFlat || k == KindPercentage
}

var hundred = decimal.NewFromInt(100)

// MaxScale is the number of decimal places the rule_value column keeps.
const MaxScale = 4

// Rule prices the commission for one product. Value is in minor units for FLAT
// and a percentage for PERCENTAGE.
type Rule struct {
	ProductRef string
	Kind       Kind
	Value      decimal.Decimal
	UpdatedAt  time.Time
}

func (r *Rule) Validate() error {
	if !r.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidValue, r.Kind)
	}

	if r.Value.IsNegative() {
		return fmt.Errorf("%w: negative value %s", ErrInvalidValue, r.Value)
	}

	if !r.Value.Equal(r.Value.Truncate(MaxScale)) {
		return fmt.Errorf("%w: value %s has more than %d decimal places", ErrInvalidValue, r.Value, MaxScale)
	}

	switch r.Kind {
	case KindFlat:
		if !r.Value.IsInteger() {
			return fmt.Errorf("%w: flat value %s is not a whole amount", ErrInvalidValue, r.Value)
		}
	case KindPercentage:
		if r.Value.GreaterThan(hundred) {
			return fmt.Errorf("%w: percentage %s exceeds 100", ErrInvalidValue, r.Value)
		}
	}

	return nil
}

// Commission prices a sale amount. Percentages truncate toward zero to the minor unit.
func (r *Rule) Commission(amount int64) (int64, error) {
	var c decimal.Decimal

	switch r.Kind {
	case KindFlat:
		if !r.Value.IsInteger() {
			return 0, fmt.Errorf("%w: flat value %s is not a whole amount", ErrInvalidValue, r.Value)
		}

		c = r.Value
	case KindPercentage:
		c = decimal.NewFromInt(amount).Mul(r.Value).Div(hundred).Truncate(0)
	default:
		return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidValue, r.Kind)
	}

	if c.IsNegative() {
		return 0, fmt.Errorf("%w: negative commission %s", ErrInvalidValue, c)
	}

	return c.IntPart(), nil
}
