package backfill

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/eksporyuk/commission/internal/conversion"
	"github.com/eksporyuk/commission/internal/sale"
)

type Sales interface {
	Ingest(ctx context.Context, params sale.IngestParams) (*sale.Sale, error)
}

type Aliases interface {
	Resolve(ctx context.Context, raw string) (string, error)
}

type Recorder interface {
	Process(ctx context.Context, s *sale.Sale) (*conversion.Result, error)
}

type Service struct {
	sales    Sales
	aliases  Aliases
	recorder Recorder
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(sales Sales, aliases Aliases, recorder Recorder, opts ...Option) *Service {
	s := &Service{sales: sales, aliases: aliases, recorder: recorder, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

type Options struct {
	// Location interprets timestamps that carry no zone. Defaults to UTC.
	Location *time.Location
	// DryRun parses and resolves aliases without writing anything.
	DryRun bool
}

// Summary tallies a backfill run. Outcomes is keyed by conversion outcome.
type Summary struct {
	Charset   string
	Rows      int
	Ingested  int
	Immutable int
	Outcomes  map[string]int
	Errors    []RowError
}

// Run ingests every sale in the export and records conversions for the
// successful ones. It is safe to run the same file repeatedly.
func (s *Service) Run(ctx context.Context, r io.Reader, opts Options) (*Summary, error) {
	parsed, err := Parse(r, opts.Location)
	if err != nil {
		return nil, err
	}

	sum := &Summary{
		Charset:  parsed.Charset,
		Rows:     len(parsed.Rows) + len(parsed.Errors),
		Outcomes: make(map[string]int),
		Errors:   parsed.Errors,
	}

	for _, row := range parsed.Rows {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		params := row.Sale

		product, err := s.aliases.Resolve(ctx, params.ProductRef)
		if err != nil {
			return sum, fmt.Errorf("line %d: resolve product: %w", row.Line, err)
		}

		params.ProductRef = product

		if opts.DryRun {
			continue
		}

		stored, err := s.sales.Ingest(ctx, params)
		if err != nil {
			if errors.Is(err, sale.ErrImmutable) {
				sum.Immutable++
				sum.Errors = append(sum.Errors, RowError{Line: row.Line, Err: err})

				continue
			}

			if errors.Is(err, sale.ErrInvalid) {
				sum.Errors = append(sum.Errors, RowError{Line: row.Line, Err: err})
				continue
			}

			return sum, fmt.Errorf("line %d: ingest sale: %w", row.Line, err)
		}

		sum.Ingested++

		if !stored.Successful() {
			sum.Outcomes[conversion.OutcomeNotEligible]++
			continue
		}

		res, err := s.recorder.Process(ctx, stored)
		outcome := conversion.OutcomeOf(res, err)
		sum.Outcomes[outcome]++

		if outcome == conversion.OutcomeError {
			return sum, fmt.Errorf("line %d: record conversion: %w", row.Line, err)
		}

		if outcome == conversion.OutcomeUnknownProduct || outcome == conversion.OutcomeInvalidCommission {
			sum.Errors = append(sum.Errors, RowError{Line: row.Line, Err: err})
		}
	}

	s.logger.InfoContext(ctx, "backfill finished",
		"rows", sum.Rows,
		"ingested", sum.Ingested,
		"created", sum.Outcomes[conversion.OutcomeCreated],
		"existing", sum.Outcomes[conversion.OutcomeExisting],
		"errors", len(sum.Errors),
		"dry_run", opts.DryRun,
	)

	return sum, nil
}
