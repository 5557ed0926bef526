package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/eksporyuk/commission/internal/sale"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectSaleColumns = `id, amount, product_ref, affiliate_ref, status, completed_at, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanSale(s scanner) (*sale.Sale, error) {
	var (
		out    sale.Sale
		status string
	)

	err := s.Scan(&out.ID, &out.Amount, &out.ProductRef, &out.AffiliateRef, &status, &out.CompletedAt, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, err
	}

	out.Status = sale.Status(status)

	return &out, nil
}

func (s *Store) GetSale(ctx context.Context, id string) (*sale.Sale, error) {
	query := `SELECT ` + selectSaleColumns + ` FROM sales WHERE id = $1`

	out, err := scanSale(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sale.ErrNotFound
		}

		return nil, fmt.Errorf("getting sale: %w", err)
	}

	return out, nil
}

// SaveSale refuses to overwrite a row that already reached SUCCESS.
func (s *Store) SaveSale(ctx context.Context, in *sale.Sale) error {
	query := `
		INSERT INTO sales (id, amount, product_ref, affiliate_ref, status, completed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (id) DO UPDATE
		SET amount = EXCLUDED.amount,
			product_ref = EXCLUDED.product_ref,
			affiliate_ref = EXCLUDED.affiliate_ref,
			status = EXCLUDED.status,
			completed_at = EXCLUDED.completed_at,
			updated_at = NOW()
		WHERE sales.status <> 'SUCCESS'
		RETURNING created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		in.ID, in.Amount, in.ProductRef, in.AffiliateRef, in.Status, in.CompletedAt,
	).Scan(&in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", sale.ErrImmutable, in.ID)
		}

		return fmt.Errorf("saving sale: %w", err)
	}

	return nil
}

func (s *Store) ListSuccessfulByAffiliate(ctx context.Context, affiliateRef string) ([]*sale.Sale, error) {
	return s.ListSales(ctx, sale.ListFilter{AffiliateRef: affiliateRef, Status: sale.StatusSuccess})
}

func (s *Store) ListSales(ctx context.Context, filter sale.ListFilter) ([]*sale.Sale, error) {
	var (
		conditions []string
		args       []any
	)

	if filter.AffiliateRef != "" {
		args = append(args, filter.AffiliateRef)
		conditions = append(conditions, fmt.Sprintf("affiliate_ref = $%d", len(args)))
	}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + selectSaleColumns + ` FROM sales`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY completed_at ASC NULLS LAST, id ASC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}
	defer rows.Close()

	var out []*sale.Sale

	for rows.Next() {
		item, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sale: %w", err)
		}

		out = append(out, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sales: %w", err)
	}

	return out, nil
}
