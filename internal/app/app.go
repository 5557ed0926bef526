package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/eksporyuk/commission/internal/affiliate"
	affiliateStore "github.com/eksporyuk/commission/internal/affiliate/store"
	"github.com/eksporyuk/commission/internal/alert"
	"github.com/eksporyuk/commission/internal/backfill"
	"github.com/eksporyuk/commission/internal/cache"
	"github.com/eksporyuk/commission/internal/config"
	"github.com/eksporyuk/commission/internal/conversion"
	conversionStore "github.com/eksporyuk/commission/internal/conversion/store"
	"github.com/eksporyuk/commission/internal/database"
	"github.com/eksporyuk/commission/internal/export"
	"github.com/eksporyuk/commission/internal/jobs"
	"github.com/eksporyuk/commission/internal/metrics"
	"github.com/eksporyuk/commission/internal/notify"
	"github.com/eksporyuk/commission/internal/payout"
	payoutStore "github.com/eksporyuk/commission/internal/payout/store"
	"github.com/eksporyuk/commission/internal/productalias"
	aliasStore "github.com/eksporyuk/commission/internal/productalias/store"
	"github.com/eksporyuk/commission/internal/reconcile"
	"github.com/eksporyuk/commission/internal/reportstore"
	"github.com/eksporyuk/commission/internal/revenue"
	"github.com/eksporyuk/commission/internal/rule"
	ruleStore "github.com/eksporyuk/commission/internal/rule/store"
	"github.com/eksporyuk/commission/internal/sale"
	saleStore "github.com/eksporyuk/commission/internal/sale/store"
	"github.com/eksporyuk/commission/internal/wallet"
	walletStore "github.com/eksporyuk/commission/internal/wallet/store"
)

// App holds the wired services shared by the API server, the CLI and the TUI.
type App struct {
	Config  *config.Config
	Log     *slog.Logger
	DB      *sql.DB
	Redis   *cache.Client
	Metrics *metrics.Metrics
	Alerts  *alert.Reporter
	Mail    *notify.Service
	Reports *reportstore.Store

	Affiliates  *affiliate.Service
	Rules       *rule.Service
	Sales       *sale.Service
	Wallets     *wallet.Service
	Conversions *conversion.Service
	Payouts     *payout.Service
	Auditor     *reconcile.Auditor
	Revenue     *revenue.Service
	Aliases     *productalias.Service
	Backfill    *backfill.Service
	Export      *export.Service
	Jobs        *jobs.Manager
}

func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log, Metrics: metrics.New()}

	if err := a.initInfrastructure(ctx); err != nil {
		a.Close()
		return nil, err
	}

	if err := a.initServices(); err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

func (a *App) initInfrastructure(ctx context.Context) error {
	db, err := database.New(a.Config.ConnectionString())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	a.DB = db

	if a.Config.Redis.URL != "" {
		client, err := cache.NewClient(a.Config.Redis.URL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}

		a.Redis = client
	}

	if err := alert.Init(a.Config.Sentry.DSN, a.Config.Sentry.Environment, a.Config.App.Name); err != nil {
		a.Log.Warn("sentry disabled", "error", err)
	}

	a.Alerts = alert.NewReporter(nil, a.Log)

	var mailer notify.Mailer = notify.NewLogMailer(a.Log)
	if a.Config.SendGrid.APIKey != "" {
		mailer = notify.NewSendGridMailer(a.Config.SendGrid.APIKey, a.Config.SendGrid.FromEmail, a.Config.SendGrid.FromName)
	}

	a.Affiliates = affiliate.NewService(affiliateStore.New(db))
	a.Mail = notify.NewService(mailer, a.Affiliates, a.Log)

	if a.Config.Reports.Bucket != "" {
		store, err := reportstore.New(ctx, reportstore.Config{
			Bucket:          a.Config.Reports.Bucket,
			Region:          a.Config.Reports.Region,
			Prefix:          a.Config.Reports.Prefix,
			AccessKeyID:     a.Config.Reports.AccessKeyID,
			SecretAccessKey: a.Config.Reports.SecretAccessKey,
		})
		if err != nil {
			return err
		}

		a.Reports = store
	}

	return nil
}

func (a *App) initServices() error {
	var ruleCache rule.Cache
	if a.Redis != nil {
		ruleCache = cache.NewRuleCache(a.Redis, a.Config.Redis.RuleTTL)
	}

	convStore := conversionStore.New(a.DB)

	a.Rules = rule.NewService(ruleStore.New(a.DB), ruleCache, rule.WithLogger(a.Log))
	a.Sales = sale.NewService(saleStore.New(a.DB))
	a.Wallets = wallet.NewService(walletStore.New(a.DB), wallet.WithMetrics(a.Metrics), wallet.WithLogger(a.Log))
	a.Auditor = reconcile.NewAuditor(a.Sales, convStore, a.Wallets, a.Rules, a.Affiliates, a.Metrics,
		reconcile.WithLogger(a.Log))

	a.Conversions = conversion.NewService(convStore, a.Sales, a.Affiliates, a.Rules, a.Wallets,
		conversion.WithNotifier(a.Mail),
		conversion.WithAlerter(a.Alerts),
		conversion.WithMetrics(a.Metrics),
		conversion.WithOrphanChecker(a.Auditor),
		conversion.WithLogger(a.Log),
	)

	a.Payouts = payout.NewService(payoutStore.New(a.DB), a.Wallets,
		payout.WithNotifier(a.Mail),
		payout.WithAlerter(a.Alerts),
		payout.WithMetrics(a.Metrics),
		payout.WithLogger(a.Log),
	)

	policy, err := revenue.NewPolicy(a.Config.Revenue.CompanyPercent, a.Config.Revenue.FounderPercent, a.Config.Revenue.CofounderPercent)
	if err != nil {
		return err
	}

	a.Revenue = revenue.NewService(policy, a.Sales, convStore)
	a.Aliases = productalias.NewService(aliasStore.New(a.DB))
	a.Backfill = backfill.NewService(a.Sales, a.Aliases, a.Conversions, backfill.WithLogger(a.Log))
	a.Export = export.NewService(a.Conversions, a.Wallets)

	var archive jobs.Archive
	if a.Reports != nil {
		archive = a.Reports
	}

	a.Jobs = jobs.NewManager(a.Wallets, a.Auditor, archive, a.Alerts, a.Log)

	return nil
}

// Close waits for pending notifications and releases connections.
func (a *App) Close() {
	if a.Mail != nil {
		a.Mail.Close()
	}

	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Log.Warn("close redis", "error", err)
		}
	}

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Log.Warn("close database", "error", err)
		}
	}
}
