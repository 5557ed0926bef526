package conversion

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eksporyuk/commission/internal/rule"
)

var (
	// ErrNotEligible means the sale has not reached SUCCESS.
	ErrNotEligible = errors.New("sale is not eligible for commission")

	// ErrNoAffiliate means the sale has no active referring affiliate. It is an expected outcome.
	ErrNoAffiliate = errors.New("sale has no active affiliate")

	// ErrUnknownProduct means no commission rule exists for the sale's product.
	ErrUnknownProduct = errors.New("no commission rule for product")

	// ErrInvalidCommission means the rule produced an unusable commission.
	ErrInvalidCommission = errors.New("invalid commission")

	ErrNotFound    = errors.New("conversion not found")
	ErrAlreadyPaid = errors.New("conversion is already paid out")
	ErrNotOrphaned = errors.New("conversion is backed by a successful referred sale")
)

// Conversion is the commission earned on one successful referred sale.
// SaleRef is unique across all conversions.
type Conversion struct {
	ID           uuid.UUID
	SaleRef      string
	AffiliateRef string
	Amount       int64
	RuleKind     rule.Kind
	RuleValue    decimal.Decimal
	PaidOut      bool
	PayoutID     *uuid.UUID
	CreatedAt    time.Time
	PaidAt       *time.Time
}

// Result reports whether Process wrote a new conversion or found an existing one.
type Result struct {
	Conversion *Conversion
	Created    bool
}

// Outcome labels used for metrics and backfill tallies.
const (
	OutcomeCreated           = "created"
	OutcomeExisting          = "existing"
	OutcomeNotEligible       = "not_eligible"
	OutcomeNoAffiliate       = "no_affiliate"
	OutcomeUnknownProduct    = "unknown_product"
	OutcomeInvalidCommission = "invalid_commission"
	OutcomeError             = "error"
)

// OutcomeOf classifies the result of Process.
func OutcomeOf(res *Result, err error) string {
	switch {
	case err == nil && res != nil && res.Created:
		return OutcomeCreated
	case err == nil:
		return OutcomeExisting
	case errors.Is(err, ErrNotEligible):
		return OutcomeNotEligible
	case errors.Is(err, ErrNoAffiliate):
		return OutcomeNoAffiliate
	case errors.Is(err, ErrUnknownProduct):
		return OutcomeUnknownProduct
	case errors.Is(err, ErrInvalidCommission):
		return OutcomeInvalidCommission
	default:
		return OutcomeError
	}
}
