package sale

import (
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("sale not found")
	ErrImmutable = errors.New("sale is already successful and cannot change")
	ErrInvalid   = errors.New("invalid sale")
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusSuccess   Status = "SUCCESS"
	StatusFailed    Status = "FAILED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusSuccess, StatusFailed, StatusCancelled:
		return true
	}

	return false
}

// Sale is a completed or attempted purchase. Amount is in whole rupiah.
type Sale struct {
	ID           string
	Amount       int64
	ProductRef   string
	AffiliateRef string
	Status       Status
	CompletedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

func (s *Sale) Successful() bool {
	return s.Status == StatusSuccess
}

func (s *Sale) Referred() bool {
	return s.AffiliateRef != ""
}

// sameTerms reports whether two sales agree on everything a commission depends on.
func (s *Sale) sameTerms(o *Sale) bool {
	return s.Amount == o.Amount &&
		s.ProductRef == o.ProductRef &&
		s.AffiliateRef == o.AffiliateRef &&
		s.Status == o.Status
}
