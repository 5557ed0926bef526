package conversion

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/eksporyuk/commission/internal/conversion"
	"github.com/eksporyuk/commission/internal/http/respond"
)

type Service interface {
	RecordSale(ctx context.Context, saleID string) (*conversion.Result, error)
	ListByAffiliate(ctx context.Context, affiliateRef string) ([]*conversion.Conversion, error)
	DeleteOrphan(ctx context.Context, id uuid.UUID) error
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/record/{saleID}", h.record)
	r.Get("/", h.list)
	r.Delete("/{id}", h.delete)
}

type recordResponse struct {
	Outcome    string    `json:"outcome"`
	Conversion *Response `json:"conversion"`
}

func (h *Handler) record(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.RecordSale(r.Context(), chi.URLParam(r, "saleID"))
	outcome := conversion.OutcomeOf(res, err)

	switch {
	case err == nil:
		status := http.StatusOK
		if res.Created {
			status = http.StatusCreated
		}

		respond.JSON(w, status, recordResponse{Outcome: outcome, Conversion: new(ToResponse(res.Conversion))})
	case errors.Is(err, conversion.ErrNoAffiliate):
		respond.JSON(w, http.StatusOK, recordResponse{Outcome: outcome})
	case errors.Is(err, conversion.ErrNotEligible):
		respond.JSON(w, http.StatusAccepted, recordResponse{Outcome: outcome})
	default:
		respond.Error(w, r, err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ref := r.URL.Query().Get("affiliate")
	if ref == "" {
		http.Error(w, "affiliate query parameter is required", http.StatusBadRequest)
		return
	}

	cs, err := h.svc.ListByAffiliate(r.Context(), ref)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(cs))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteOrphan(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
