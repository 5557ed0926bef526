package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/eksporyuk/commission/internal/export"
	"github.com/eksporyuk/commission/internal/reconcile"
)

//go:generate mockgen -source=jobs.go -destination=jobs_mock.go -package=jobs

var ErrDiscrepancies = errors.New("audit found discrepancies")

type Wallets interface {
	RecomputeAll(ctx context.Context) (int, error)
}

type Auditor interface {
	AuditAll(ctx context.Context) ([]*reconcile.Report, error)
}

type Archive interface {
	Archive(ctx context.Context, name string, body []byte) (string, error)
}

type Alerter interface {
	Alert(ctx context.Context, err error, tags map[string]string)
}

type Schedule struct {
	Sweep string
	Audit string
}

// Manager runs the nightly wallet sweep and affiliate audit.
type Manager struct {
	cron    *cron.Cron
	wallets Wallets
	auditor Auditor
	archive Archive
	alerter Alerter
	log     *slog.Logger
	timeout time.Duration
	now     func() time.Time
}

// NewManager builds a Manager. archive and alerter may be nil.
func NewManager(wallets Wallets, auditor Auditor, archive Archive, alerter Alerter, log *slog.Logger) *Manager {
	return &Manager{
		cron:    cron.New(),
		wallets: wallets,
		auditor: auditor,
		archive: archive,
		alerter: alerter,
		log:     log,
		timeout: time.Hour,
		now:     time.Now,
	}
}

func (m *Manager) Setup(s Schedule) error {
	if _, err := m.cron.AddFunc(s.Sweep, m.job("wallet sweep", m.RunSweep)); err != nil {
		return fmt.Errorf("schedule wallet sweep: %w", err)
	}

	if _, err := m.cron.AddFunc(s.Audit, m.job("audit", m.RunAudit)); err != nil {
		return fmt.Errorf("schedule audit: %w", err)
	}

	return nil
}

func (m *Manager) Start() {
	m.cron.Start()
}

// Stop prevents new runs and waits for a running job until ctx is done.
func (m *Manager) Stop(ctx context.Context) {
	select {
	case <-m.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (m *Manager) job(name string, run func(context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()

		start := m.now()
		m.log.Info("job started", "job", name)

		if err := run(ctx); err != nil {
			m.log.Error("job failed", "job", name, "error", err, "duration", time.Since(start))
			return
		}

		m.log.Info("job finished", "job", name, "duration", time.Since(start))
	}
}

// RunSweep recomputes every wallet.
func (m *Manager) RunSweep(ctx context.Context) error {
	n, err := m.wallets.RecomputeAll(ctx)
	m.log.InfoContext(ctx, "wallet sweep", "recomputed", n)

	if err != nil {
		m.alert(ctx, fmt.Errorf("wallet sweep: %w", err), map[string]string{"job": "wallet_sweep"})
		return err
	}

	return nil
}

// RunAudit audits every affiliate, archives the workbook and alerts on
// unbalanced reports. It returns ErrDiscrepancies when any report is unbalanced.
func (m *Manager) RunAudit(ctx context.Context) error {
	reports, auditErr := m.auditor.AuditAll(ctx)
	if auditErr != nil {
		m.alert(ctx, fmt.Errorf("audit: %w", auditErr), map[string]string{"job": "audit"})
	}

	unbalanced := 0

	for _, r := range reports {
		if r.Balanced() {
			continue
		}

		unbalanced++

		m.log.WarnContext(ctx, "affiliate out of balance",
			"affiliate_ref", r.AffiliateRef,
			"expected", r.ExpectedTotal,
			"recorded", r.ActualTotal,
			"wallet", r.WalletTotal,
			"missing", len(r.Missing),
			"orphaned", len(r.Orphaned),
		)
	}

	if m.archive != nil && len(reports) > 0 {
		if err := m.archiveReports(ctx, reports); err != nil {
			m.log.ErrorContext(ctx, "archive audit failed", "error", err)
		}
	}

	if unbalanced > 0 {
		err := fmt.Errorf("%w: %d of %d affiliates", ErrDiscrepancies, unbalanced, len(reports))
		m.alert(ctx, err, map[string]string{"job": "audit"})

		return errors.Join(err, auditErr)
	}

	return auditErr
}

func (m *Manager) archiveReports(ctx context.Context, reports []*reconcile.Report) error {
	body, err := export.Audit(reports)
	if err != nil {
		return err
	}

	key, err := m.archive.Archive(ctx, fmt.Sprintf("audit-%s.xlsx", m.now().UTC().Format("20060102-150405")), body)
	if err != nil {
		return err
	}

	m.log.InfoContext(ctx, "audit archived", "key", key)

	return nil
}

func (m *Manager) alert(ctx context.Context, err error, tags map[string]string) {
	if m.alerter != nil {
		m.alerter.Alert(ctx, err, tags)
	}
}
