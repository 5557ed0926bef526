package affiliate

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("affiliate not found")

// Status is the lifecycle state of an affiliate account.
type Status string

const (
	StatusPending    Status = "pending"
	StatusActive     Status = "active"
	StatusSuspended  Status = "suspended"
	StatusTerminated Status = "terminated"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusSuspended, StatusTerminated:
		return true
	}

	return false
}

// Affiliate is a referring party. Ref is the affiliate code carried on sales.
type Affiliate struct {
	Ref       string
	Name      string
	Email     string
	Status    Status
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Active reports whether the affiliate may earn commission.
func (a *Affiliate) Active() bool {
	return a != nil && a.Status == StatusActive
}
