package rule

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/eksporyuk/commission/internal/http/respond"
	"github.com/eksporyuk/commission/internal/rule"
)

type Service interface {
	Lookup(ctx context.Context, productRef string) (*rule.Rule, error)
	List(ctx context.Context) ([]*rule.Rule, error)
	Put(ctx context.Context, r *rule.Rule) error
}

type Handler struct {
	svc      Service
	validate *validator.Validate
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc, validate: validator.New()}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{product}", h.get)
	r.Put("/{product}", h.put)
}

type ruleResponse struct {
	ProductRef string     `json:"product_ref"`
	Kind       rule.Kind  `json:"kind"`
	Value      string     `json:"value"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

func toResponse(r *rule.Rule) ruleResponse {
	resp := ruleResponse{
		ProductRef: r.ProductRef,
		Kind:       r.Kind,
		Value:      r.Value.String(),
	}

	if !r.UpdatedAt.IsZero() {
		resp.UpdatedAt = new(r.UpdatedAt)
	}

	return resp
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	rules, err := h.svc.List(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]ruleResponse, len(rules))
	for i, rl := range rules {
		resp[i] = toResponse(rl)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	rl, err := h.svc.Lookup(r.Context(), chi.URLParam(r, "product"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(rl))
}

type putRequest struct {
	Kind  string          `json:"kind" validate:"required,oneof=FLAT PERCENTAGE"`
	Value decimal.Decimal `json:"value"`
}

func (h *Handler) put(w http.ResponseWriter, r *http.Request) {
	var req putRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		respond.Error(w, r, err)
		return
	}

	rl := &rule.Rule{
		ProductRef: chi.URLParam(r, "product"),
		Kind:       rule.Kind(req.Kind),
		Value:      req.Value,
	}

	if err := h.svc.Put(r.Context(), rl); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(rl))
}
