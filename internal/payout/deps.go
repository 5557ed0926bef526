package payout

import (
	"context"

	"github.com/eksporyuk/commission/internal/wallet"
)

//go:generate mockgen -source=deps.go -destination=deps_mock.go -package=payout

type Wallets interface {
	Recompute(ctx context.Context, affiliateRef string) (*wallet.Balance, error)
}

// Notifier must not block the caller.
type Notifier interface {
	PayoutSettled(ctx context.Context, r *Receipt)
}

type Alerter interface {
	Alert(ctx context.Context, err error, tags map[string]string)
}

type Metrics interface {
	PayoutCompleted(total int64, conversions int)
	PayoutRejected(reason string)
}
