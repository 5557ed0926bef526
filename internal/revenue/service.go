package revenue

import (
	"context"
	"errors"
	"fmt"

	"github.com/eksporyuk/commission/internal/conversion"
	"github.com/eksporyuk/commission/internal/sale"
)

type Sales interface {
	Get(ctx context.Context, id string) (*sale.Sale, error)
}

type Conversions interface {
	GetBySale(ctx context.Context, saleRef string) (*conversion.Conversion, error)
}

type Service struct {
	policy      Policy
	sales       Sales
	conversions Conversions
}

func NewService(policy Policy, sales Sales, conversions Conversions) *Service {
	return &Service{policy: policy, sales: sales, conversions: conversions}
}

// SplitSale splits a successful sale using its recorded conversion, if any.
func (s *Service) SplitSale(ctx context.Context, saleID string) (*Breakdown, error) {
	sl, err := s.sales.Get(ctx, saleID)
	if err != nil {
		return nil, err
	}

	if !sl.Successful() {
		return nil, fmt.Errorf("%w: sale %s is %s", conversion.ErrNotEligible, sl.ID, sl.Status)
	}

	var commission int64

	c, err := s.conversions.GetBySale(ctx, sl.ID)

	switch {
	case err == nil:
		commission = c.Amount
	case !errors.Is(err, conversion.ErrNotFound):
		return nil, fmt.Errorf("lookup conversion: %w", err)
	}

	return s.policy.Split(sl.Amount, commission)
}
