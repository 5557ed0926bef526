package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eksporyuk/commission/internal/payout"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectReceipt = `
	SELECT p.id, p.affiliate_ref, p.total, p.settled_at,
		COALESCE(string_agg(c.id::text, ',' ORDER BY c.id), '')
	FROM payouts p
	LEFT JOIN conversions c ON c.payout_id = p.id
`

type scanner interface {
	Scan(dest ...any) error
}

func scanReceipt(s scanner) (*payout.Receipt, error) {
	var (
		r   payout.Receipt
		ids string
	)

	if err := s.Scan(&r.ID, &r.AffiliateRef, &r.Total, &r.SettledAt, &ids); err != nil {
		return nil, err
	}

	if ids != "" {
		for _, raw := range strings.Split(ids, ",") {
			id, err := uuid.Parse(raw)
			if err != nil {
				return nil, fmt.Errorf("parsing conversion id %q: %w", raw, err)
			}

			r.ConversionIDs = append(r.ConversionIDs, id)
		}
	}

	return &r, nil
}

func (s *Store) GetPayout(ctx context.Context, id uuid.UUID) (*payout.Receipt, error) {
	query := selectReceipt + ` WHERE p.id = $1 GROUP BY p.id`

	r, err := scanReceipt(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, payout.ErrNotFound
		}

		return nil, fmt.Errorf("getting payout: %w", err)
	}

	return r, nil
}

func (s *Store) ListPayouts(ctx context.Context, affiliateRef string) ([]*payout.Receipt, error) {
	query := selectReceipt + ` WHERE p.affiliate_ref = $1 GROUP BY p.id ORDER BY p.settled_at DESC`

	rows, err := s.db.QueryContext(ctx, query, affiliateRef)
	if err != nil {
		return nil, fmt.Errorf("listing payouts: %w", err)
	}
	defer rows.Close()

	var out []*payout.Receipt

	for rows.Next() {
		r, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning payout: %w", err)
		}

		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating payouts: %w", err)
	}

	return out, nil
}

type settlementTx struct {
	tx *sql.Tx
}

func (s *Store) BeginSettlement(ctx context.Context) (payout.SettlementTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}

	return &settlementTx{tx: dbTx}, nil
}

func (stx *settlementTx) Commit() error   { return stx.tx.Commit() }
func (stx *settlementTx) Rollback() error { return stx.tx.Rollback() }

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}

	return out
}

func (stx *settlementTx) LockConversions(ctx context.Context, ids []uuid.UUID) ([]payout.Locked, error) {
	query := `
		SELECT id, affiliate_ref, amount, paid_out
		FROM conversions
		WHERE id = ANY($1::uuid[])
		ORDER BY id
		FOR UPDATE
	`

	rows, err := stx.tx.QueryContext(ctx, query, idStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("locking conversions: %w", err)
	}
	defer rows.Close()

	var out []payout.Locked

	for rows.Next() {
		var l payout.Locked
		if err := rows.Scan(&l.ID, &l.AffiliateRef, &l.Amount, &l.PaidOut); err != nil {
			return nil, fmt.Errorf("scanning locked conversion: %w", err)
		}

		out = append(out, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating locked conversions: %w", err)
	}

	return out, nil
}

func (stx *settlementTx) CreatePayout(ctx context.Context, r *payout.Receipt) error {
	query := `
		INSERT INTO payouts (id, affiliate_ref, total, conversion_count, settled_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := stx.tx.ExecContext(ctx, query, r.ID, r.AffiliateRef, r.Total, len(r.ConversionIDs), r.SettledAt); err != nil {
		return fmt.Errorf("inserting payout: %w", err)
	}

	return nil
}

func (stx *settlementTx) MarkPaid(ctx context.Context, ids []uuid.UUID, payoutID uuid.UUID, paidAt time.Time) (int64, error) {
	query := `
		UPDATE conversions
		SET paid_out = true, payout_id = $2, paid_at = $3
		WHERE id = ANY($1::uuid[]) AND paid_out = false
	`

	res, err := stx.tx.ExecContext(ctx, query, idStrings(ids), payoutID, paidAt)
	if err != nil {
		return 0, fmt.Errorf("marking conversions paid: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading rows affected: %w", err)
	}

	return n, nil
}
