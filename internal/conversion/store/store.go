package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eksporyuk/commission/internal/conversion"
	"github.com/eksporyuk/commission/internal/rule"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectConversionColumns = `id, sale_id, affiliate_ref, amount, rule_kind, rule_value::text, paid_out, payout_id, created_at, paid_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanConversion(s scanner) (*conversion.Conversion, error) {
	var (
		c     conversion.Conversion
		kind  string
		value string
	)

	err := s.Scan(&c.ID, &c.SaleRef, &c.AffiliateRef, &c.Amount, &kind, &value, &c.PaidOut, &c.PayoutID, &c.CreatedAt, &c.PaidAt)
	if err != nil {
		return nil, err
	}

	v, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("parsing rule value %q: %w", value, err)
	}

	c.RuleKind = rule.Kind(kind)
	c.RuleValue = v

	return &c, nil
}

func (s *Store) GetBySale(ctx context.Context, saleRef string) (*conversion.Conversion, error) {
	query := `SELECT ` + selectConversionColumns + ` FROM conversions WHERE sale_id = $1`

	c, err := scanConversion(s.db.QueryRowContext(ctx, query, saleRef))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, conversion.ErrNotFound
		}

		return nil, fmt.Errorf("getting conversion by sale: %w", err)
	}

	return c, nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*conversion.Conversion, error) {
	query := `SELECT ` + selectConversionColumns + ` FROM conversions WHERE id = $1`

	c, err := scanConversion(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, conversion.ErrNotFound
		}

		return nil, fmt.Errorf("getting conversion: %w", err)
	}

	return c, nil
}

// Create relies on the sale_id unique constraint; a losing writer inserts nothing.
func (s *Store) Create(ctx context.Context, c *conversion.Conversion) (bool, error) {
	query := `
		INSERT INTO conversions (id, sale_id, affiliate_ref, amount, rule_kind, rule_value, paid_out, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, false, $7)
		ON CONFLICT (sale_id) DO NOTHING
	`

	res, err := s.db.ExecContext(ctx, query,
		c.ID, c.SaleRef, c.AffiliateRef, c.Amount, c.RuleKind, c.RuleValue.String(), c.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("inserting conversion: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading rows affected: %w", err)
	}

	return n == 1, nil
}

func (s *Store) ListByAffiliate(ctx context.Context, affiliateRef string) ([]*conversion.Conversion, error) {
	query := `SELECT ` + selectConversionColumns + ` FROM conversions WHERE affiliate_ref = $1 ORDER BY created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, affiliateRef)
	if err != nil {
		return nil, fmt.Errorf("listing conversions: %w", err)
	}
	defer rows.Close()

	var out []*conversion.Conversion

	for rows.Next() {
		c, err := scanConversion(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning conversion: %w", err)
		}

		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating conversions: %w", err)
	}

	return out, nil
}

func (s *Store) ListAffiliateRefs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT affiliate_ref FROM conversions ORDER BY affiliate_ref`)
	if err != nil {
		return nil, fmt.Errorf("listing credited affiliates: %w", err)
	}
	defer rows.Close()

	var refs []string

	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("scanning affiliate ref: %w", err)
		}

		refs = append(refs, ref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating affiliate refs: %w", err)
	}

	return refs, nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM conversions WHERE id = $1 AND paid_out = false`, id)
	if err != nil {
		return fmt.Errorf("deleting conversion: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}

	if n == 0 {
		return fmt.Errorf("%w: %s", conversion.ErrAlreadyPaid, id)
	}

	return nil
}
