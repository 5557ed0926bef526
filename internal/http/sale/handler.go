package sale

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/eksporyuk/commission/internal/conversion"
	conversionhttp "github.com/eksporyuk/commission/internal/http/conversion"
	"github.com/eksporyuk/commission/internal/http/respond"
	"github.com/eksporyuk/commission/internal/revenue"
	"github.com/eksporyuk/commission/internal/sale"
)

type Sales interface {
	Ingest(ctx context.Context, params sale.IngestParams) (*sale.Sale, error)
	Get(ctx context.Context, id string) (*sale.Sale, error)
}

type Recorder interface {
	Process(ctx context.Context, s *sale.Sale) (*conversion.Result, error)
}

type Splitter interface {
	SplitSale(ctx context.Context, saleID string) (*revenue.Breakdown, error)
}

type Handler struct {
	sales    Sales
	recorder Recorder
	splitter Splitter
	validate *validator.Validate
}

func NewHandler(sales Sales, recorder Recorder, splitter Splitter) *Handler {
	return &Handler{
		sales:    sales,
		recorder: recorder,
		splitter: splitter,
		validate: validator.New(),
	}
}

// Routes registers the read endpoints. Ingest is mounted separately so the
// router can rate limit it.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/{id}", h.get)
	r.Get("/{id}/split", h.split)
}

type ingestRequest struct {
	ID           string     `json:"id" validate:"required,max=128"`
	Amount       int64      `json:"amount" validate:"gte=0"`
	ProductRef   string     `json:"product_ref" validate:"required"`
	AffiliateRef string     `json:"affiliate_ref"`
	Status       string     `json:"status" validate:"required,oneof=PENDING SUCCESS FAILED CANCELLED"`
	CompletedAt  *time.Time `json:"completed_at"`
}

type saleResponse struct {
	ID           string      `json:"id"`
	Amount       int64       `json:"amount"`
	ProductRef   string      `json:"product_ref"`
	AffiliateRef string      `json:"affiliate_ref,omitempty"`
	Status       sale.Status `json:"status"`
	CompletedAt  *time.Time  `json:"completed_at,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    *time.Time  `json:"updated_at,omitempty"`
}

func toResponse(s *sale.Sale) saleResponse {
	return saleResponse{
		ID:           s.ID,
		Amount:       s.Amount,
		ProductRef:   s.ProductRef,
		AffiliateRef: s.AffiliateRef,
		Status:       s.Status,
		CompletedAt:  s.CompletedAt,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

type ingestResponse struct {
	Sale       saleResponse             `json:"sale"`
	Outcome    string                   `json:"outcome"`
	Conversion *conversionhttp.Response `json:"conversion"`
}

// Ingest stores the sale and, once it is successful, records its conversion.
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		respond.Error(w, r, err)
		return
	}

	s, err := h.sales.Ingest(r.Context(), sale.IngestParams{
		ID:           req.ID,
		Amount:       req.Amount,
		ProductRef:   req.ProductRef,
		AffiliateRef: req.AffiliateRef,
		Status:       sale.Status(req.Status),
		CompletedAt:  req.CompletedAt,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := ingestResponse{Sale: toResponse(s)}

	if !s.Successful() {
		resp.Outcome = conversion.OutcomeNotEligible
		respond.JSON(w, http.StatusAccepted, resp)

		return
	}

	res, err := h.recorder.Process(r.Context(), s)
	resp.Outcome = conversion.OutcomeOf(res, err)

	switch {
	case err == nil:
		resp.Conversion = new(conversionhttp.ToResponse(res.Conversion))
	case errors.Is(err, conversion.ErrNoAffiliate):
	default:
		respond.Error(w, r, err)
		return
	}

	status := http.StatusOK
	if res != nil && res.Created {
		status = http.StatusCreated
	}

	respond.JSON(w, status, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	s, err := h.sales.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(s))
}

type splitResponse struct {
	SaleID    string `json:"sale_id"`
	Total     int64  `json:"total"`
	Affiliate int64  `json:"affiliate"`
	Company   int64  `json:"company"`
	Founder   int64  `json:"founder"`
	Cofounder int64  `json:"cofounder"`
}

func (h *Handler) split(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	b, err := h.splitter.SplitSale(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, splitResponse{
		SaleID:    id,
		Total:     b.Total,
		Affiliate: b.Affiliate,
		Company:   b.Company,
		Founder:   b.Founder,
		Cofounder: b.Cofounder,
	})
}
