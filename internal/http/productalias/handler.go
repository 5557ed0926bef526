package productalias

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eksporyuk/commission/internal/http/respond"
	"github.com/eksporyuk/commission/internal/productalias"
)

type Service interface {
	Resolve(ctx context.Context, raw string) (string, error)
	Learn(ctx context.Context, rawPattern, productRef string) error
	List(ctx context.Context) ([]productalias.Alias, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/resolve", h.resolve)
	r.Post("/", h.learn)
}

type aliasResponse struct {
	RawPattern string `json:"raw_pattern"`
	ProductRef string `json:"product_ref"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	aliases, err := h.svc.List(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]aliasResponse, len(aliases))
	for i, a := range aliases {
		resp[i] = aliasResponse(a)
	}

	respond.JSON(w, http.StatusOK, resp)
}

type resolveResponse struct {
	Raw        string `json:"raw"`
	ProductRef string `json:"product_ref"`
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("raw")
	if raw == "" {
		http.Error(w, "raw query parameter is required", http.StatusBadRequest)
		return
	}

	ref, err := h.svc.Resolve(r.Context(), raw)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, resolveResponse{Raw: raw, ProductRef: ref})
}

type learnRequest struct {
	RawPattern string `json:"raw_pattern"`
	ProductRef string `json:"product_ref"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.RawPattern == "" || req.ProductRef == "" {
		http.Error(w, "raw_pattern and product_ref are required", http.StatusBadRequest)
		return
	}

	if err := h.svc.Learn(r.Context(), req.RawPattern, req.ProductRef); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}
