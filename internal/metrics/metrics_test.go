package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ConversionOutcome("created")
	m.ConversionOutcome("created")
	m.ConversionOutcome("no_affiliate")
	m.CommissionAmount("FLAT", 250000)
	m.PayoutCompleted(550000, 2)
	m.PayoutRejected("already_settled")
	m.WalletRecomputed(10*time.Millisecond, nil)
	m.WalletRecomputed(10*time.Millisecond, errors.New("boom"))
	m.AuditCompleted(false)

	assert.InDelta(t, 2, testutil.ToFloat64(m.conversions.WithLabelValues("created")), 0)
	assert.InDelta(t, 250000, testutil.ToFloat64(m.commissionRupiah.WithLabelValues("FLAT")), 0)
	assert.InDelta(t, 550000, testutil.ToFloat64(m.payoutRupiah), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.payoutRejects.WithLabelValues("already_settled")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.walletRecomputes.WithLabelValues("error")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.audits.WithLabelValues("discrepancy")), 0)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ConversionOutcome("created")
		m.PayoutCompleted(1, 1)
		m.WalletRecomputed(time.Second, nil)
		m.AuditCompleted(true)
	})
}

func TestMiddleware_LabelsByRoute(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/sales/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", m.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/sales/INV-1", nil))

	assert.InDelta(t, 1, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/sales/{id}", "404")), 0)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "commission_http_requests_total")
}
