package conversion

import (
	"time"

	"github.com/google/uuid"

	"github.com/eksporyuk/commission/internal/conversion"
	"github.com/eksporyuk/commission/internal/rule"
)

type Response struct {
	ID           uuid.UUID  `json:"id"`
	SaleRef      string     `json:"sale_ref"`
	AffiliateRef string     `json:"affiliate_ref"`
	Amount       int64      `json:"amount"`
	RuleKind     rule.Kind  `json:"rule_kind"`
	RuleValue    string     `json:"rule_value"`
	PaidOut      bool       `json:"paid_out"`
	PayoutID     *uuid.UUID `json:"payout_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	PaidAt       *time.Time `json:"paid_at,omitempty"`
}

func ToResponse(c *conversion.Conversion) Response {
	return Response{
		ID:           c.ID,
		SaleRef:      c.SaleRef,
		AffiliateRef: c.AffiliateRef,
		Amount:       c.Amount,
		RuleKind:     c.RuleKind,
		RuleValue:    c.RuleValue.String(),
		PaidOut:      c.PaidOut,
		PayoutID:     c.PayoutID,
		CreatedAt:    c.CreatedAt,
		PaidAt:       c.PaidAt,
	}
}

func toResponseList(cs []*conversion.Conversion) []Response {
	resp := make([]Response, len(cs))
	for i, c := range cs {
		resp[i] = ToResponse(c)
	}

	return resp
}
