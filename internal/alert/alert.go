package alert

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
)

// Init configures the global Sentry client. An empty DSN leaves Sentry
// disabled and every alert is only logged.
func Init(dsn, environment, release string) error {
	if dsn == "" {
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		Release:          release,
		AttachStacktrace: true,
	})
	if err != nil {
		return fmt.Errorf("init sentry: %w", err)
	}

	return nil
}

// Reporter raises operator alerts for conditions that need a human: missing
// rules, invalid commission values and failed recomputes.
type Reporter struct {
	hub *sentry.Hub
	log *slog.Logger
}

func NewReporter(hub *sentry.Hub, log *slog.Logger) *Reporter {
	if hub == nil {
		hub = sentry.CurrentHub()
	}

	return &Reporter{hub: hub, log: log}
}

func (r *Reporter) Alert(ctx context.Context, err error, tags map[string]string) {
	attrs := make([]any, 0, 2*len(tags)+2)
	attrs = append(attrs, "error", err)

	for k, v := range tags {
		attrs = append(attrs, k, v)
	}

	r.log.ErrorContext(ctx, "operator alert", attrs...)

	hub := r.hub.Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		hub.CaptureException(err)
	})
}

func (r *Reporter) Flush(timeout time.Duration) bool {
	return r.hub.Flush(timeout)
}
