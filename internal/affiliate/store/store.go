package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eksporyuk/commission/internal/affiliate"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectAffiliateColumns = `ref, name, email, status, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanAffiliate(s scanner) (*affiliate.Affiliate, error) {
	var a affiliate.Affiliate

	var status string

	if err := s.Scan(&a.Ref, &a.Name, &a.Email, &status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}

	a.Status = affiliate.Status(status)

	return &a, nil
}

func (s *Store) GetAffiliate(ctx context.Context, ref string) (*affiliate.Affiliate, error) {
	query := `SELECT ` + selectAffiliateColumns + ` FROM affiliates WHERE ref = $1`

	a, err := scanAffiliate(s.db.QueryRowContext(ctx, query, ref))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, affiliate.ErrNotFound
		}

		return nil, fmt.Errorf("getting affiliate: %w", err)
	}

	return a, nil
}

func (s *Store) ListAffiliates(ctx context.Context) ([]*affiliate.Affiliate, error) {
	query := `SELECT ` + selectAffiliateColumns + ` FROM affiliates ORDER BY ref ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing affiliates: %w", err)
	}
	defer rows.Close()

	var out []*affiliate.Affiliate

	for rows.Next() {
		a, err := scanAffiliate(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning affiliate: %w", err)
		}

		out = append(out, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating affiliates: %w", err)
	}

	return out, nil
}

func (s *Store) UpsertAffiliate(ctx context.Context, a *affiliate.Affiliate) error {
	query := `
		INSERT INTO affiliates (ref, name, email, status, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (ref) DO UPDATE
		SET name = EXCLUDED.name, email = EXCLUDED.email, status = EXCLUDED.status, updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query, a.Ref, a.Name, a.Email, a.Status).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting affiliate: %w", err)
	}

	return nil
}
