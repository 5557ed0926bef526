package affiliate

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/eksporyuk/commission/internal/affiliate"
	"github.com/eksporyuk/commission/internal/http/respond"
	"github.com/eksporyuk/commission/internal/reconcile"
	"github.com/eksporyuk/commission/internal/wallet"
)

type Affiliates interface {
	Register(ctx context.Context, params affiliate.RegisterParams) (*affiliate.Affiliate, error)
	List(ctx context.Context) ([]*affiliate.Affiliate, error)
}

type Wallets interface {
	Get(ctx context.Context, affiliateRef string) (*wallet.Balance, error)
	Recompute(ctx context.Context, affiliateRef string) (*wallet.Balance, error)
}

type Auditor interface {
	AuditAffiliate(ctx context.Context, affiliateRef string) (*reconcile.Report, error)
}

type Handler struct {
	affiliates Affiliates
	wallets    Wallets
	auditor    Auditor
	validate   *validator.Validate
}

func NewHandler(affiliates Affiliates, wallets Wallets, auditor Auditor) *Handler {
	return &Handler{
		affiliates: affiliates,
		wallets:    wallets,
		auditor:    auditor,
		validate:   validator.New(),
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{ref}/wallet", h.wallet)
	r.Post("/{ref}/wallet/recompute", h.recompute)
	r.Get("/{ref}/audit", h.audit)
}

type affiliateResponse struct {
	Ref       string           `json:"ref"`
	Name      string           `json:"name"`
	Email     string           `json:"email,omitempty"`
	Status    affiliate.Status `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt *time.Time       `json:"updated_at,omitempty"`
}

func toAffiliateResponse(a *affiliate.Affiliate) affiliateResponse {
	return affiliateResponse{
		Ref:       a.Ref,
		Name:      a.Name,
		Email:     a.Email,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	as, err := h.affiliates.List(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]affiliateResponse, len(as))
	for i, a := range as {
		resp[i] = toAffiliateResponse(a)
	}

	respond.JSON(w, http.StatusOK, resp)
}

type createRequest struct {
	Ref    string `json:"ref" validate:"required,max=64"`
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"omitempty,email"`
	Status string `json:"status" validate:"omitempty,oneof=pending active suspended terminated"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		respond.Error(w, r, err)
		return
	}

	a, err := h.affiliates.Register(r.Context(), affiliate.RegisterParams{
		Ref:    req.Ref,
		Name:   req.Name,
		Email:  req.Email,
		Status: affiliate.Status(req.Status),
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toAffiliateResponse(a))
}

type walletResponse struct {
	AffiliateRef string    `json:"affiliate_ref"`
	Pending      int64     `json:"pending"`
	Paid         int64     `json:"paid"`
	Total        int64     `json:"total"`
	Conversions  int       `json:"conversions"`
	RecomputedAt time.Time `json:"recomputed_at"`
}

func toWalletResponse(b *wallet.Balance) walletResponse {
	return walletResponse{
		AffiliateRef: b.AffiliateRef,
		Pending:      b.Pending,
		Paid:         b.Paid,
		Total:        b.Total,
		Conversions:  b.Conversions,
		RecomputedAt: b.RecomputedAt,
	}
}

func (h *Handler) wallet(w http.ResponseWriter, r *http.Request) {
	b, err := h.wallets.Get(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toWalletResponse(b))
}

func (h *Handler) recompute(w http.ResponseWriter, r *http.Request) {
	b, err := h.wallets.Recompute(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toWalletResponse(b))
}

type missingResponse struct {
	SaleRef  string `json:"sale_ref"`
	Expected int64  `json:"expected"`
}

type orphanResponse struct {
	ConversionID uuid.UUID `json:"conversion_id"`
	SaleRef      string    `json:"sale_ref"`
	Amount       int64     `json:"amount"`
	PaidOut      bool      `json:"paid_out"`
}

type unpricedResponse struct {
	SaleRef    string `json:"sale_ref"`
	ProductRef string `json:"product_ref"`
	Reason     string `json:"reason"`
}

type mismatchResponse struct {
	ConversionID uuid.UUID `json:"conversion_id"`
	SaleRef      string    `json:"sale_ref"`
	Recorded     int64     `json:"recorded"`
	Expected     int64     `json:"expected"`
}

type auditResponse struct {
	AffiliateRef  string             `json:"affiliate_ref"`
	Balanced      bool               `json:"balanced"`
	ExpectedTotal int64              `json:"expected_total"`
	ActualTotal   int64              `json:"actual_total"`
	WalletTotal   int64              `json:"wallet_total"`
	Gap           int64              `json:"gap"`
	Missing       []missingResponse  `json:"missing"`
	Orphaned      []orphanResponse   `json:"orphaned"`
	Unpriced      []unpricedResponse `json:"unpriced"`
	Mismatched    []mismatchResponse `json:"mismatched"`
	AuditedAt     time.Time          `json:"audited_at"`
}

func toAuditResponse(rep *reconcile.Report) auditResponse {
	resp := auditResponse{
		AffiliateRef:  rep.AffiliateRef,
		Balanced:      rep.Balanced(),
		ExpectedTotal: rep.ExpectedTotal,
		ActualTotal:   rep.ActualTotal,
		WalletTotal:   rep.WalletTotal,
		Gap:           rep.Gap(),
		Missing:       make([]missingResponse, len(rep.Missing)),
		Orphaned:      make([]orphanResponse, len(rep.Orphaned)),
		Unpriced:      make([]unpricedResponse, len(rep.Unpriced)),
		Mismatched:    make([]mismatchResponse, len(rep.Mismatched)),
		AuditedAt:     rep.AuditedAt,
	}

	for i, m := range rep.Missing {
		resp.Missing[i] = missingResponse(m)
	}

	for i, o := range rep.Orphaned {
		resp.Orphaned[i] = orphanResponse(o)
	}

	for i, u := range rep.Unpriced {
		resp.Unpriced[i] = unpricedResponse(u)
	}

	for i, m := range rep.Mismatched {
		resp.Mismatched[i] = mismatchResponse(m)
	}

	return resp
}

func (h *Handler) audit(w http.ResponseWriter, r *http.Request) {
	rep, err := h.auditor.AuditAffiliate(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toAuditResponse(rep))
}
