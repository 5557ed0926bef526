package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/eksporyuk/commission/internal/app"
	"github.com/eksporyuk/commission/internal/config"
	"github.com/eksporyuk/commission/internal/database"
	commissionHttp "github.com/eksporyuk/commission/internal/http"
	affiliateHandler "github.com/eksporyuk/commission/internal/http/affiliate"
	backfillHandler "github.com/eksporyuk/commission/internal/http/backfill"
	conversionHandler "github.com/eksporyuk/commission/internal/http/conversion"
	exportHandler "github.com/eksporyuk/commission/internal/http/export"
	payoutHandler "github.com/eksporyuk/commission/internal/http/payout"
	aliasHandler "github.com/eksporyuk/commission/internal/http/productalias"
	"github.com/eksporyuk/commission/internal/http/ratelimit"
	ruleHandler "github.com/eksporyuk/commission/internal/http/rule"
	saleHandler "github.com/eksporyuk/commission/internal/http/sale"
	"github.com/eksporyuk/commission/internal/jobs"
	"github.com/eksporyuk/commission/internal/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logging.New(cfg.App.LogLevel, cfg.App.LogFormat)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()
	defer a.Alerts.Flush(2 * time.Second)

	if err := database.Migrate(ctx, a.DB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if cfg.Jobs.Enabled {
		if err := a.Jobs.Setup(jobs.Schedule{Sweep: cfg.Jobs.SweepSpec, Audit: cfg.Jobs.AuditSpec}); err != nil {
			return err
		}

		a.Jobs.Start()
	}

	router := commissionHttp.New(commissionHttp.Handlers{
		Sales:       saleHandler.NewHandler(a.Sales, a.Conversions, a.Revenue),
		Conversions: conversionHandler.NewHandler(a.Conversions),
		Affiliates:  affiliateHandler.NewHandler(a.Affiliates, a.Wallets, a.Auditor),
		Payouts:     payoutHandler.NewHandler(a.Payouts),
		Rules:       ruleHandler.NewHandler(a.Rules),
		Aliases:     aliasHandler.NewHandler(a.Aliases),
		Backfill:    backfillHandler.NewHandler(a.Backfill),
		Export:      exportHandler.NewHandler(a.Export, a.Auditor),
	}, commissionHttp.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Webhook:        ratelimit.New(cfg.Server.WebhookRPM, cfg.Server.WebhookBurst),
		Metrics:        a.Metrics,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		log.Info("starting server", "port", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	if cfg.Jobs.Enabled {
		a.Jobs.Stop(shutdownCtx)
	}

	return srv.Shutdown(shutdownCtx)
}
