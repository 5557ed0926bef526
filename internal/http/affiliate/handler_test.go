package affiliate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eksporyuk/commission/internal/affiliate"
	"github.com/eksporyuk/commission/internal/reconcile"
	"github.com/eksporyuk/commission/internal/wallet"
)

type fakeAffiliates struct{}

func (fakeAffiliates) Register(_ context.Context, p affiliate.RegisterParams) (*affiliate.Affiliate, error) {
	return &affiliate.Affiliate{Ref: p.Ref, Name: p.Name, Email: p.Email, Status: affiliate.StatusActive, CreatedAt: time.Now()}, nil
}

func (fakeAffiliates) List(context.Context) ([]*affiliate.Affiliate, error) {
	return []*affiliate.Affiliate{{Ref: "RINA", Name: "Rina", Status: affiliate.StatusActive}}, nil
}

type fakeWallets struct{}

func (fakeWallets) Get(_ context.Context, ref string) (*wallet.Balance, error) {
	return &wallet.Balance{AffiliateRef: ref}, nil
}

func (fakeWallets) Recompute(_ context.Context, ref string) (*wallet.Balance, error) {
	return &wallet.Balance{AffiliateRef: ref, Pending: 250000, Total: 250000, Conversions: 1}, nil
}

type fakeAuditor struct{}

func (fakeAuditor) AuditAffiliate(_ context.Context, ref string) (*reconcile.Report, error) {
	return &reconcile.Report{
		AffiliateRef:  ref,
		ExpectedTotal: 900,
		ActualTotal:   600,
		WalletTotal:   600,
		Missing:       []reconcile.MissingSale{{SaleRef: "INV-9", Expected: 300}},
		Orphaned:      []reconcile.Orphan{{ConversionID: uuid.New(), SaleRef: "INV-X", Amount: 10}},
	}, nil
}

func serve(method, target, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Route("/affiliates", NewHandler(fakeAffiliates{}, fakeWallets{}, fakeAuditor{}).Routes)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func TestCreate(t *testing.T) {
	rec := serve(http.MethodPost, "/affiliates", `{"ref":"RINA","name":"Rina","email":"rina@example.com"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(http.MethodPost, "/affiliates", `{"ref":"RINA","name":"Rina","email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecompute(t *testing.T) {
	rec := serve(http.MethodPost, "/affiliates/RINA/wallet/recompute", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"pending":250000`)
}

func TestAudit(t *testing.T) {
	rec := serve(http.MethodGet, "/affiliates/RINA/audit", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp auditResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.False(t, resp.Balanced)
	assert.Equal(t, int64(300), resp.Gap)
	require.Len(t, resp.Missing, 1)
	assert.Equal(t, "INV-9", resp.Missing[0].SaleRef)
	assert.Len(t, resp.Orphaned, 1)
	assert.Empty(t, resp.Unpriced)
}
