package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/eksporyuk/commission/internal/wallet"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectBalanceColumns = `affiliate_ref, pending, paid, total, conversions, recomputed_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanBalance(s scanner) (*wallet.Balance, error) {
	var b wallet.Balance
	if err := s.Scan(&b.AffiliateRef, &b.Pending, &b.Paid, &b.Total, &b.Conversions, &b.RecomputedAt); err != nil {
		return nil, err
	}

	return &b, nil
}

func (s *Store) GetBalance(ctx context.Context, affiliateRef string) (*wallet.Balance, error) {
	query := `SELECT ` + selectBalanceColumns + ` FROM wallet_balances WHERE affiliate_ref = $1`

	b, err := scanBalance(s.db.QueryRowContext(ctx, query, affiliateRef))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wallet.ErrNotFound
		}

		return nil, fmt.Errorf("getting balance: %w", err)
	}

	return b, nil
}

func (s *Store) ListBalances(ctx context.Context) ([]*wallet.Balance, error) {
	query := `SELECT ` + selectBalanceColumns + ` FROM wallet_balances ORDER BY total DESC, affiliate_ref ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing balances: %w", err)
	}
	defer rows.Close()

	var out []*wallet.Balance

	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning balance: %w", err)
		}

		out = append(out, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating balances: %w", err)
	}

	return out, nil
}

func (s *Store) ListAffiliateRefs(ctx context.Context) ([]string, error) {
	query := `
		SELECT affiliate_ref FROM conversions
		UNION
		SELECT affiliate_ref FROM wallet_balances
		ORDER BY 1
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing wallet affiliates: %w", err)
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

func recomputeLockKey(affiliateRef string) int64 {
	h := fnv.New64a()
	h.Write([]byte("wallet:"))
	h.Write([]byte(affiliateRef))

	return int64(h.Sum64())
}

type recomputeTx struct {
	tx           *sql.Tx
	affiliateRef string
}

func (s *Store) BeginRecompute(ctx context.Context, affiliateRef string) (wallet.RecomputeTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", recomputeLockKey(affiliateRef)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring wallet lock: %w", err)
	}

	return &recomputeTx{tx: dbTx, affiliateRef: affiliateRef}, nil
}

func (rtx *recomputeTx) Commit() error   { return rtx.tx.Commit() }
func (rtx *recomputeTx) Rollback() error { return rtx.tx.Rollback() }

func (rtx *recomputeTx) Entries(ctx context.Context) ([]wallet.Entry, error) {
	rows, err := rtx.tx.QueryContext(ctx, `SELECT amount, paid_out FROM conversions WHERE affiliate_ref = $1`, rtx.affiliateRef)
	if err != nil {
		return nil, fmt.Errorf("querying conversions: %w", err)
	}
	defer rows.Close()

	var entries []wallet.Entry

	for rows.Next() {
		var e wallet.Entry
		if err := rows.Scan(&e.Amount, &e.PaidOut); err != nil {
			return nil, fmt.Errorf("scanning conversion: %w", err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating conversions: %w", err)
	}

	return entries, nil
}

func (rtx *recomputeTx) SaveBalance(ctx context.Context, b *wallet.Balance) error {
	query := `
		INSERT INTO wallet_balances (affiliate_ref, pending, paid, total, conversions, recomputed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (affiliate_ref) DO UPDATE
		SET pending = EXCLUDED.pending,
			paid = EXCLUDED.paid,
			total = EXCLUDED.total,
			conversions = EXCLUDED.conversions,
			recomputed_at = EXCLUDED.recomputed_at
	`

	if _, err := rtx.tx.ExecContext(ctx, query, b.AffiliateRef, b.Pending, b.Paid, b.Total, b.Conversions, b.RecomputedAt); err != nil {
		return fmt.Errorf("saving balance: %w", err)
	}

	return nil
}
