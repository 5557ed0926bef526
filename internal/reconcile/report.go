package reconcile

import (
	"time"

	"github.com/google/uuid"
)

// Report compares what an affiliate should have earned with what was recorded
// and what the wallet shows.
type Report struct {
	AffiliateRef  string
	Registered    bool
	Active        bool
	ExpectedTotal int64
	ActualTotal   int64
	WalletTotal   int64
	Missing       []MissingSale
	Orphaned      []Orphan
	Unpriced      []UnpricedSale
	Mismatched    []Mismatch
	AuditedAt     time.Time
}

// MissingSale is a successful referred sale without a conversion.
type MissingSale struct {
	SaleRef  string
	Expected int64
}

// Orphan is a conversion with no successful sale by the same registered affiliate behind it.
type Orphan struct {
	ConversionID uuid.UUID
	SaleRef      string
	Amount       int64
	PaidOut      bool
}

// UnpricedSale is a successful referred sale whose commission cannot be computed.
type UnpricedSale struct {
	SaleRef    string
	ProductRef string
	Reason     string
}

// Mismatch is a conversion whose amount differs from its own rule snapshot applied to the sale.
type Mismatch struct {
	ConversionID uuid.UUID
	SaleRef      string
	Recorded     int64
	Expected     int64
}

func (r *Report) Balanced() bool {
	return r.ExpectedTotal == r.ActualTotal &&
		r.ActualTotal == r.WalletTotal &&
		len(r.Missing) == 0 &&
		len(r.Orphaned) == 0 &&
		len(r.Unpriced) == 0 &&
		len(r.Mismatched) == 0
}

// Gap is ExpectedTotal minus ActualTotal.
func (r *Report) Gap() int64 {
	return r.ExpectedTotal - r.ActualTotal
}

func (r *Report) MissingTotal() int64 {
	var total int64
	for _, m := range r.Missing {
		total += m.Expected
	}

	return total
}

func (r *Report) OrphanedTotal() int64 {
	var total int64
	for _, o := range r.Orphaned {
		total += o.Amount
	}

	return total
}
