package payout

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/eksporyuk/commission/internal/http/respond"
	"github.com/eksporyuk/commission/internal/payout"
)

type Service interface {
	Settle(ctx context.Context, affiliateRef string, ids []uuid.UUID) (*payout.Receipt, error)
	Get(ctx context.Context, id uuid.UUID) (*payout.Receipt, error)
	List(ctx context.Context, affiliateRef string) ([]*payout.Receipt, error)
}

type Handler struct {
	svc      Service
	validate *validator.Validate
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc, validate: validator.New()}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.settle)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
}

type settleRequest struct {
	AffiliateRef  string      `json:"affiliate_ref" validate:"required"`
	ConversionIDs []uuid.UUID `json:"conversion_ids" validate:"required,min=1"`
}

type receiptResponse struct {
	ID            uuid.UUID   `json:"id"`
	AffiliateRef  string      `json:"affiliate_ref"`
	ConversionIDs []uuid.UUID `json:"conversion_ids"`
	Total         int64       `json:"total"`
	SettledAt     time.Time   `json:"settled_at"`
}

func toResponse(r *payout.Receipt) receiptResponse {
	return receiptResponse{
		ID:            r.ID,
		AffiliateRef:  r.AffiliateRef,
		ConversionIDs: r.ConversionIDs,
		Total:         r.Total,
		SettledAt:     r.SettledAt,
	}
}

func (h *Handler) settle(w http.ResponseWriter, r *http.Request) {
	var req settleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		respond.Error(w, r, err)
		return
	}

	receipt, err := h.svc.Settle(r.Context(), req.AffiliateRef, req.ConversionIDs)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(receipt))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	receipt, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(receipt))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ref := r.URL.Query().Get("affiliate")
	if ref == "" {
		http.Error(w, "affiliate query parameter is required", http.StatusBadRequest)
		return
	}

	receipts, err := h.svc.List(r.Context(), ref)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]receiptResponse, len(receipts))
	for i, rc := range receipts {
		resp[i] = toResponse(rc)
	}

	respond.JSON(w, http.StatusOK, resp)
}
