package conversion

import (
	"context"

	"github.com/eksporyuk/commission/internal/affiliate"
	"github.com/eksporyuk/commission/internal/rule"
	"github.com/eksporyuk/commission/internal/sale"
	"github.com/eksporyuk/commission/internal/wallet"
)

//go:generate mockgen -source=deps.go -destination=deps_mock.go -package=conversion

type Sales interface {
	Get(ctx context.Context, id string) (*sale.Sale, error)
}

type Affiliates interface {
	Get(ctx context.Context, ref string) (*affiliate.Affiliate, error)
}

type Rules interface {
	Lookup(ctx context.Context, productRef string) (*rule.Rule, error)
}

type Wallets interface {
	Recompute(ctx context.Context, affiliateRef string) (*wallet.Balance, error)
}

// Notifier must not block the caller.
type Notifier interface {
	ConversionRecorded(ctx context.Context, c *Conversion)
}

type Alerter interface {
	Alert(ctx context.Context, err error, tags map[string]string)
}

type Metrics interface {
	ConversionOutcome(outcome string)
	CommissionAmount(kind string, amount int64)
}

// OrphanChecker confirms that a conversion has no successful referred sale behind it.
type OrphanChecker interface {
	IsOrphan(ctx context.Context, c *Conversion) (bool, error)
}
