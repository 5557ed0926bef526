package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eksporyuk/commission/internal/productalias"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindProduct(ctx context.Context, raw string) (string, error) {
	query := `
		SELECT product_ref
		FROM product_aliases
		WHERE $1 ILIKE '%' || raw_pattern || '%'
		ORDER BY LENGTH(raw_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var ref string

	err := s.db.QueryRowContext(ctx, query, raw).Scan(&ref)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("finding product alias: %w", err)
	}

	return ref, nil
}

func (s *Store) CreateAlias(ctx context.Context, rawPattern, productRef string) error {
	query := `
		INSERT INTO product_aliases (raw_pattern, product_ref, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (raw_pattern) DO UPDATE SET product_ref = EXCLUDED.product_ref
	`

	if _, err := s.db.ExecContext(ctx, query, rawPattern, productRef); err != nil {
		return fmt.Errorf("creating product alias: %w", err)
	}

	return nil
}

func (s *Store) ListAliases(ctx context.Context) ([]productalias.Alias, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT raw_pattern, product_ref FROM product_aliases ORDER BY raw_pattern`)
	if err != nil {
		return nil, fmt.Errorf("listing product aliases: %w", err)
	}
	defer rows.Close()

	var out []productalias.Alias

	for rows.Next() {
		var a productalias.Alias
		if err := rows.Scan(&a.RawPattern, &a.ProductRef); err != nil {
			return nil, fmt.Errorf("scanning product alias: %w", err)
		}

		out = append(out, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product aliases: %w", err)
	}

	return out, nil
}
