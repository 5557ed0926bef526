package conversion_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eksporyuk/commission/internal/affiliate"
	"github.com/eksporyuk/commission/internal/conversion"
	"github.com/eksporyuk/commission/internal/rule"
	"github.com/eksporyuk/commission/internal/sale"
	"github.com/eksporyuk/commission/internal/wallet"
)

// memRepo enforces sale uniqueness the way the conversions table does.
type memRepo struct {
	mu     sync.Mutex
	bySale map[string]*conversion.Conversion
}

func newMemRepo() *memRepo {
	return &memRepo{bySale: map[string]*conversion.Conversion{}}
}

func (r *memRepo) GetBySale(_ context.Context, saleRef string) (*conversion.Conversion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.bySale[saleRef]
	if !ok {
		return nil, conversion.ErrNotFound
	}

	return c, nil
}

func (r *memRepo) Get(_ context.Context, id uuid.UUID) (*conversion.Conversion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.bySale {
		if c.ID == id {
			return c, nil
		}
	}

	return nil, conversion.ErrNotFound
}

func (r *memRepo) Create(_ context.Context, c *conversion.Conversion) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bySale[c.SaleRef]; ok {
		return false, nil
	}

	r.bySale[c.SaleRef] = c

	return true, nil
}

func (r *memRepo) ListByAffiliate(_ context.Context, ref string) ([]*conversion.Conversion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*conversion.Conversion

	for _, c := range r.bySale {
		if c.AffiliateRef == ref {
			out = append(out, c)
		}
	}

	return out, nil
}

func (r *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for k, c := range r.bySale {
		if c.ID == id && !c.PaidOut {
			delete(r.bySale, k)
			return nil
		}
	}

	return conversion.ErrAlreadyPaid
}

type staticAffiliates map[string]*affiliate.Affiliate

func (s staticAffiliates) Get(_ context.Context, ref string) (*affiliate.Affiliate, error) {
	a, ok := s[ref]
	if !ok {
		return nil, affiliate.ErrNotFound
	}

	return a, nil
}

type staticRules map[string]*rule.Rule

func (s staticRules) Lookup(_ context.Context, ref string) (*rule.Rule, error) {
	r, ok := s[ref]
	if !ok {
		return nil, rule.ErrNotFound
	}

	return r, nil
}

// summingWallets recomputes from memRepo the way wallet.Service does.
type summingWallets struct {
	repo  *memRepo
	calls atomic.Int64
}

func (w *summingWallets) Recompute(ctx context.Context, ref string) (*wallet.Balance, error) {
	w.calls.Add(1)

	convs, err := w.repo.ListByAffiliate(ctx, ref)
	if err != nil {
		return nil, err
	}

	entries := make([]wallet.Entry, 0, len(convs))
	for _, c := range convs {
		entries = append(entries, wallet.Entry{Amount: c.Amount, PaidOut: c.PaidOut})
	}

	return wallet.Summarize(ref, entries), nil
}

type countingNotifier struct {
	n atomic.Int64
}

func (c *countingNotifier) ConversionRecorded(context.Context, *conversion.Conversion) {
	c.n.Add(1)
}

func newIdempotencyFixture() (*conversion.Service, *memRepo, *summingWallets, *countingNotifier) {
	repo := newMemRepo()
	wallets := &summingWallets{repo: repo}
	notifier := &countingNotifier{}

	svc := conversion.NewService(repo, nil,
		staticAffiliates{"RINA": {Ref: "RINA", Status: affiliate.StatusActive}},
		staticRules{"EKSPOR-PRO": {ProductRef: "EKSPOR-PRO", Kind: rule.KindFlat, Value: decimal.NewFromInt(250000)}},
		wallets,
		conversion.WithNotifier(notifier),
	)

	return svc, repo, wallets, notifier
}

func TestService_Record_RepeatedCallsYieldOneConversion(t *testing.T) {
	svc, repo, _, notifier := newIdempotencyFixture()
	s := successfulSale(899000)

	first, err := svc.Record(context.Background(), s)
	require.NoError(t, err)

	for range 5 {
		again, err := svc.Record(context.Background(), s)
		require.NoError(t, err)
		assert.Equal(t, first.ID, again.ID)
	}

	convs, err := repo.ListByAffiliate(context.Background(), "RINA")
	require.NoError(t, err)
	assert.Len(t, convs, 1)
	assert.Equal(t, int64(1), notifier.n.Load())
}

func TestService_Record_ConcurrentCallsYieldOneConversion(t *testing.T) {
	svc, repo, wallets, notifier := newIdempotencyFixture()
	s := successfulSale(899000)

	const callers = 32

	var (
		wg  sync.WaitGroup
		ids sync.Map
	)

	for range callers {
		wg.Go(func() {
			c, err := svc.Record(context.Background(), s)
			if assert.NoError(t, err) {
				ids.Store(c.ID, struct{}{})
			}
		})
	}

	wg.Wait()

	distinct := 0

	ids.Range(func(any, any) bool {
		distinct++
		return true
	})

	assert.Equal(t, 1, distinct)
	assert.Equal(t, int64(1), notifier.n.Load())
	assert.Equal(t, int64(callers), wallets.calls.Load())

	b, err := wallets.Recompute(context.Background(), "RINA")
	require.NoError(t, err)
	assert.Equal(t, int64(250000), b.Total)

	convs, err := repo.ListByAffiliate(context.Background(), "RINA")
	require.NoError(t, err)
	assert.Len(t, convs, 1)
}

func TestService_Record_DistinctSalesAccumulate(t *testing.T) {
	svc, _, wallets, _ := newIdempotencyFixture()

	for _, id := range []string{"INV-1", "INV-2", "INV-3"} {
		s := successfulSale(899000)
		s.ID = id

		_, err := svc.Record(context.Background(), s)
		require.NoError(t, err)
	}

	b, err := wallets.Recompute(context.Background(), "RINA")
	require.NoError(t, err)
	assert.Equal(t, int64(750000), b.Pending)
	assert.Equal(t, 3, b.Conversions)

	_, err = svc.Record(context.Background(), &sale.Sale{ID: "INV-4", Status: sale.StatusFailed})
	assert.ErrorIs(t, err, conversion.ErrNotEligible)
}
