package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/eksporyuk/commission/internal/http/affiliate"
	"github.com/eksporyuk/commission/internal/http/backfill"
	"github.com/eksporyuk/commission/internal/http/conversion"
	"github.com/eksporyuk/commission/internal/http/export"
	"github.com/eksporyuk/commission/internal/http/payout"
	"github.com/eksporyuk/commission/internal/http/productalias"
	"github.com/eksporyuk/commission/internal/http/ratelimit"
	"github.com/eksporyuk/commission/internal/http/rule"
	"github.com/eksporyuk/commission/internal/http/sale"
	"github.com/eksporyuk/commission/internal/metrics"
)

type Handlers struct {
	Sales       *sale.Handler
	Conversions *conversion.Handler
	Affiliates  *affiliate.Handler
	Payouts     *payout.Handler
	Rules       *rule.Handler
	Aliases     *productalias.Handler
	Backfill    *backfill.Handler
	Export      *export.Handler
}

type Options struct {
	AllowedOrigins []string
	Webhook        *ratelimit.Limiter
	Metrics        *metrics.Metrics
}

func New(h Handlers, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(opts.Metrics.Middleware)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", opts.Metrics.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/sales", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if opts.Webhook != nil {
					r.Use(opts.Webhook.Middleware)
				}

				r.Use(middleware.AllowContentType("application/json"))
				r.Post("/", h.Sales.Ingest)
			})

			h.Sales.Routes(r)
		})

		r.Route("/conversions", h.Conversions.Routes)

		r.Route("/affiliates", func(r chi.Router) {
			h.Affiliates.Routes(r)
			r.Get("/{ref}/statement", h.Export.Statement)
		})

		r.Route("/payouts", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Payouts.Routes(r)
		})

		r.Route("/rules", h.Rules.Routes)
		r.Route("/aliases", h.Aliases.Routes)
		r.Route("/backfill", h.Backfill.Routes)
		r.Route("/export", h.Export.Routes)
	})

	return router
}
