package export

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/eksporyuk/commission/internal/affiliate"
	"github.com/eksporyuk/commission/internal/reconcile"
)

type fakeStatements struct {
	err error
}

func (f fakeStatements) Statement(context.Context, string) ([]byte, error) {
	return []byte("xlsx"), f.err
}

type fakeAuditor struct {
	reports []*reconcile.Report
	err     error
}

func (f fakeAuditor) AuditAll(context.Context) ([]*reconcile.Report, error) {
	return f.reports, f.err
}

func serve(h *Handler, target string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Get("/affiliates/{ref}/statement", h.Statement)
	r.Route("/export", h.Routes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	return rec
}

func TestStatement(t *testing.T) {
	rec := serve(NewHandler(fakeStatements{}, fakeAuditor{}), "/affiliates/AFF-1/statement")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "statement_AFF-1_")
	assert.Equal(t, "xlsx", rec.Body.String())
}

func TestStatement_UnknownAffiliate(t *testing.T) {
	rec := serve(NewHandler(fakeStatements{err: affiliate.ErrNotFound}, fakeAuditor{}), "/affiliates/NOPE/statement")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAudit(t *testing.T) {
	reports := []*reconcile.Report{
		{AffiliateRef: "AFF-1", ExpectedTotal: 100, ActualTotal: 100, WalletTotal: 100},
		{AffiliateRef: "AFF-2", ExpectedTotal: 300, ActualTotal: 200, WalletTotal: 200,
			Missing: []reconcile.MissingSale{{SaleRef: "S-9", Expected: 100}}},
	}

	tests := []struct {
		name    string
		auditor fakeAuditor
		want    int
	}{
		{"Complete", fakeAuditor{reports: reports}, http.StatusOK},
		{"Partial", fakeAuditor{reports: reports, err: errors.New("AFF-3: timeout")}, http.StatusOK},
		{"Failed", fakeAuditor{err: errors.New("list affiliates: timeout")}, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(NewHandler(fakeStatements{}, tc.auditor), "/export/audit")
			require.Equal(t, tc.want, rec.Code)

			if tc.want != http.StatusOK {
				return
			}

			f, err := excelize.OpenReader(rec.Body)
			require.NoError(t, err)
			defer f.Close()

			assert.Contains(t, f.GetSheetList(), "Missing")
		})
	}
}
