package wallet

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("wallet balance not found")

// Balance is the derived view of an affiliate's commissions. It is always
// rebuilt from conversions and never adjusted in place.
type Balance struct {
	AffiliateRef string
	Pending      int64
	Paid         int64
	Total        int64
	Conversions  int
	RecomputedAt time.Time
}

// Entry is the part of a conversion the wallet aggregates.
type Entry struct {
	Amount  int64
	PaidOut bool
}

// Summarize folds entries into a balance for ref.
func Summarize(ref string, entries []Entry) *Balance {
	b := &Balance{AffiliateRef: ref, Conversions: len(entries)}

	for _, e := range entries {
		if e.PaidOut {
			b.Paid += e.Amount
		} else {
			b.Pending += e.Amount
		}
	}

	b.Total = b.Pending + b.Paid

	return b
}
