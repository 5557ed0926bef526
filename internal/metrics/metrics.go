package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "commission"

// Metrics holds the Prometheus collectors for the commission engine. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	conversions      *prometheus.CounterVec
	commissionRupiah *prometheus.CounterVec

	payouts       prometheus.Counter
	payoutRupiah  prometheus.Counter
	payoutRejects *prometheus.CounterVec

	walletRecomputes *prometheus.CounterVec
	walletDuration   prometheus.Histogram

	audits *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		conversions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "Conversion recording attempts by outcome.",
		}, []string{"outcome"}),
		commissionRupiah: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commission_rupiah_total",
			Help:      "Commission accrued in rupiah by rule kind.",
		}, []string{"kind"}),
		payouts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payouts_total",
			Help:      "Settled payouts.",
		}),
		payoutRupiah: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payout_rupiah_total",
			Help:      "Rupiah paid out.",
		}),
		payoutRejects: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payout_rejections_total",
			Help:      "Rejected payout requests by reason.",
		}, []string{"reason"}),
		walletRecomputes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wallet_recomputes_total",
			Help:      "Wallet recomputations by result.",
		}, []string{"result"}),
		walletDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "wallet_recompute_duration_seconds",
			Help:      "Wallet recomputation latency.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		}),
		audits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audits_total",
			Help:      "Affiliate audits by result.",
		}, []string{"result"}),
	}
}

func (m *Metrics) ConversionOutcome(outcome string) {
	if m == nil {
		return
	}

	m.conversions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) CommissionAmount(kind string, amount int64) {
	if m == nil {
		return
	}

	m.commissionRupiah.WithLabelValues(kind).Add(float64(amount))
}

func (m *Metrics) PayoutCompleted(total int64, _ int) {
	if m == nil {
		return
	}

	m.payouts.Inc()
	m.payoutRupiah.Add(float64(total))
}

func (m *Metrics) PayoutRejected(reason string) {
	if m == nil {
		return
	}

	m.payoutRejects.WithLabelValues(reason).Inc()
}

func (m *Metrics) WalletRecomputed(d time.Duration, err error) {
	if m == nil {
		return
	}

	result := "ok"
	if err != nil {
		result = "error"
	}

	m.walletRecomputes.WithLabelValues(result).Inc()
	m.walletDuration.Observe(d.Seconds())
}

func (m *Metrics) AuditCompleted(balanced bool) {
	if m == nil {
		return
	}

	result := "balanced"
	if !balanced {
		result = "discrepancy"
	}

	m.audits.WithLabelValues(result).Inc()
}

// Middleware records request counts and latency labelled by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}

	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
