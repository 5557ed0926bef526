package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/eksporyuk/commission/internal/rule"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRule(s scanner) (*rule.Rule, error) {
	var (
		r     rule.Rule
		kind  string
		value string
	)

	if err := s.Scan(&r.ProductRef, &kind, &value, &r.UpdatedAt); err != nil {
		return nil, err
	}

	v, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("parsing rule value %q: %w", value, err)
	}

	r.Kind = rule.Kind(kind)
	r.Value = v

	return &r, nil
}

func (s *Store) GetRule(ctx context.Context, productRef string) (*rule.Rule, error) {
	query := `SELECT product_ref, kind, value::text, updated_at FROM commission_rules WHERE product_ref = $1`

	r, err := scanRule(s.db.QueryRowContext(ctx, query, productRef))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, rule.ErrNotFound
		}

		return nil, fmt.Errorf("getting rule: %w", err)
	}

	return r, nil
}

func (s *Store) ListRules(ctx context.Context) ([]*rule.Rule, error) {
	query := `SELECT product_ref, kind, value::text, updated_at FROM commission_rules ORDER BY product_ref ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}
	defer rows.Close()

	var out []*rule.Rule

	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning rule: %w", err)
		}

		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rules: %w", err)
	}

	return out, nil
}

func (s *Store) UpsertRule(ctx context.Context, r *rule.Rule) error {
	query := `
		INSERT INTO commission_rules (product_ref, kind, value, updated_at)
		VALUES ($1, $2, $3::numeric, NOW())
		ON CONFLICT (product_ref) DO UPDATE
		SET kind = EXCLUDED.kind, value = EXCLUDED.value, updated_at = NOW()
		RETURNING updated_at
	`

	if err := s.db.QueryRowContext(ctx, query, r.ProductRef, r.Kind, r.Value.String()).Scan(&r.UpdatedAt); err != nil {
		return fmt.Errorf("upserting rule: %w", err)
	}

	return nil
}
