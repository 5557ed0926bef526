package payout

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidSelection covers empty batches, duplicates, unknown conversions and foreign conversions.
	ErrInvalidSelection = errors.New("invalid payout selection")
	// ErrAlreadySettled means at least one conversion in the batch was already paid out.
	ErrAlreadySettled = errors.New("conversion already settled")

	ErrNotFound = errors.New("payout not found")
)

// Receipt records one settled batch.
type Receipt struct {
	ID            uuid.UUID
	AffiliateRef  string
	ConversionIDs []uuid.UUID
	Total         int64
	SettledAt     time.Time
}

// Locked is a conversion row held for update during settlement.
type Locked struct {
	ID           uuid.UUID
	AffiliateRef string
	Amount       int64
	PaidOut      bool
}
