package reconcile_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eksporyuk/commission/internal/affiliate"
	"github.com/eksporyuk/commission/internal/conversion"
	"github.com/eksporyuk/commission/internal/reconcile"
	"github.com/eksporyuk/commission/internal/rule"
	"github.com/eksporyuk/commission/internal/sale"
	"github.com/eksporyuk/commission/internal/wallet"
)

type fixture struct {
	sales       map[string]*sale.Sale
	conversions []*conversion.Conversion
	balances    map[string]*wallet.Balance
	rules       map[string]*rule.Rule
	affiliates  map[string]*affiliate.Affiliate
	audits      []bool
}

func newFixture() *fixture {
	return &fixture{
		sales:    map[string]*sale.Sale{},
		balances: map[string]*wallet.Balance{},
		rules: map[string]*rule.Rule{
			"EKSPOR-PRO":   {ProductRef: "EKSPOR-PRO", Kind: rule.KindFlat, Value: decimal.NewFromInt(250000)},
			"KELAS-EKSPOR": {ProductRef: "KELAS-EKSPOR", Kind: rule.KindPercentage, Value: decimal.NewFromInt(30)},
		},
		affiliates: map[string]*affiliate.Affiliate{
			"RINA": {Ref: "RINA", Status: affiliate.StatusActive},
			"BUDI": {Ref: "BUDI", Status: affiliate.StatusSuspended},
		},
	}
}

func (f *fixture) Get(_ context.Context, id string) (*sale.Sale, error) {
	s, ok := f.sales[id]
	if !ok {
		return nil, sale.ErrNotFound
	}

	return s, nil
}

func (f *fixture) ListSuccessfulByAffiliate(_ context.Context, ref string) ([]*sale.Sale, error) {
	var out []*sale.Sale

	for _, s := range f.sales {
		if s.AffiliateRef == ref && s.Successful() {
			out = append(out, s)
		}
	}

	return out, nil
}

func (f *fixture) ListByAffiliate(_ context.Context, ref string) ([]*conversion.Conversion, error) {
	var out []*conversion.Conversion

	for _, c := range f.conversions {
		if c.AffiliateRef == ref {
			out = append(out, c)
		}
	}

	return out, nil
}

func (f *fixture) ListAffiliateRefs(context.Context) ([]string, error) {
	seen := map[string]bool{}

	var refs []string

	for _, c := range f.conversions {
		if !seen[c.AffiliateRef] {
			seen[c.AffiliateRef] = true
			refs = append(refs, c.AffiliateRef)
		}
	}

	slices.Sort(refs)

	return refs, nil
}

type fixtureWallets struct{ f *fixture }

func (w fixtureWallets) Get(_ context.Context, ref string) (*wallet.Balance, error) {
	if b, ok := w.f.balances[ref]; ok {
		return b, nil
	}

	return &wallet.Balance{AffiliateRef: ref}, nil
}

type fixtureRules struct{ f *fixture }

func (r fixtureRules) Lookup(_ context.Context, ref string) (*rule.Rule, error) {
	if rl, ok := r.f.rules[ref]; ok {
		return rl, nil
	}

	return nil, rule.ErrNotFound
}

type fixtureAffiliates struct{ f *fixture }

func (a fixtureAffiliates) Get(_ context.Context, ref string) (*affiliate.Affiliate, error) {
	if af, ok := a.f.affiliates[ref]; ok {
		return af, nil
	}

	return nil, affiliate.ErrNotFound
}

func (a fixtureAffiliates) List(context.Context) ([]*affiliate.Affiliate, error) {
	return []*affiliate.Affiliate{a.f.affiliates["BUDI"], a.f.affiliates["RINA"]}, nil
}

func (f *fixture) AuditCompleted(balanced bool) {
	f.audits = append(f.audits, balanced)
}

func (f *fixture) auditor(opts ...reconcile.Option) *reconcile.Auditor {
	return reconcile.NewAuditor(f, f, fixtureWallets{f}, fixtureRules{f}, fixtureAffiliates{f}, f, opts...)
}

// addSale records a SUCCESS sale and, when convert is set, its correct conversion.
func (f *fixture) addSale(t *testing.T, id, affiliateRef, product string, amount int64, convert bool) int64 {
	t.Helper()

	f.sales[id] = &sale.Sale{ID: id, Amount: amount, ProductRef: product, AffiliateRef: affiliateRef, Status: sale.StatusSuccess}

	r := f.rules[product]
	commission, err := r.Commission(amount)
	require.NoError(t, err)

	if convert {
		f.conversions = append(f.conversions, &conversion.Conversion{
			ID:           uuid.New(),
			SaleRef:      id,
			AffiliateRef: affiliateRef,
			Amount:       commission,
			RuleKind:     r.Kind,
			RuleValue:    r.Value,
		})
		b := f.balances[affiliateRef]
		if b == nil {
			b = &wallet.Balance{AffiliateRef: affiliateRef}
			f.balances[affiliateRef] = b
		}
		b.Pending += commission
		b.Total += commission
	}

	return commission
}

func TestAuditor_DetectsMissingConversions(t *testing.T) {
	gofakeit.Seed(42)

	f := newFixture()
	products := []string{"EKSPOR-PRO", "KELAS-EKSPOR"}

	var missingSum int64

	for i := range 10 {
		amount := int64(gofakeit.Number(100, 5000)) * 1000
		product := products[i%2]
		convert := i < 7

		c := f.addSale(t, fmt.Sprintf("INV-%03d", i), "RINA", product, amount, convert)
		if !convert {
			missingSum += c
		}
	}

	report, err := f.auditor().AuditAffiliate(context.Background(), "RINA")
	require.NoError(t, err)

	assert.Len(t, report.Missing, 3)
	assert.Equal(t, missingSum, report.Gap())
	assert.Equal(t, missingSum, report.MissingTotal())
	assert.Equal(t, report.ActualTotal, report.WalletTotal)
	assert.Empty(t, report.Orphaned)
	assert.False(t, report.Balanced())
	assert.Equal(t, []bool{false}, f.audits)
}

func TestAuditor_Balanced(t *testing.T) {
	f := newFixture()
	f.addSale(t, "INV-1", "RINA", "EKSPOR-PRO", 899000, true)
	f.addSale(t, "INV-2", "RINA", "KELAS-EKSPOR", 1000001, true)

	report, err := f.auditor().AuditAffiliate(context.Background(), "RINA")
	require.NoError(t, err)

	assert.True(t, report.Balanced())
	assert.Equal(t, int64(550000), report.ExpectedTotal)
}

func TestAuditor_FindsOrphans(t *testing.T) {
	f := newFixture()
	f.addSale(t, "INV-1", "RINA", "EKSPOR-PRO", 899000, true)
	f.addSale(t, "INV-2", "RINA", "EKSPOR-PRO", 899000, true)

	// INV-2 is later reported as cancelled upstream, INV-9 never existed.
	f.sales["INV-2"].Status = sale.StatusCancelled
	ghost := &conversion.Conversion{ID: uuid.New(), SaleRef: "INV-9", AffiliateRef: "RINA", Amount: 5000}
	f.conversions = append(f.conversions, ghost)

	report, err := f.auditor().AuditAffiliate(context.Background(), "RINA")
	require.NoError(t, err)

	require.Len(t, report.Orphaned, 2)
	assert.Equal(t, int64(255000), report.OrphanedTotal())
	assert.Equal(t, -report.OrphanedTotal(), report.Gap())

	orphan, err := f.auditor().IsOrphan(context.Background(), ghost)
	require.NoError(t, err)
	assert.True(t, orphan)

	backed, err := f.auditor().IsOrphan(context.Background(), f.conversions[0])
	require.NoError(t, err)
	assert.False(t, backed)
}

func TestAuditor_UnpricedAndMismatched(t *testing.T) {
	f := newFixture()
	f.addSale(t, "INV-1", "RINA", "EKSPOR-PRO", 899000, true)
	f.sales["INV-2"] = &sale.Sale{ID: "INV-2", Amount: 10000, ProductRef: "WEBINAR", AffiliateRef: "RINA", Status: sale.StatusSuccess}
	f.conversions[0].Amount = 1

	report, err := f.auditor().AuditAffiliate(context.Background(), "RINA")
	require.NoError(t, err)

	require.Len(t, report.Unpriced, 1)
	assert.Equal(t, "WEBINAR", report.Unpriced[0].ProductRef)
	require.Len(t, report.Mismatched, 1)
	assert.Equal(t, int64(250000), report.Mismatched[0].Expected)
	assert.False(t, report.Balanced())
}

func TestAuditor_SuspendedAffiliateStillOwed(t *testing.T) {
	f := newFixture()
	owed := f.addSale(t, "INV-1", "BUDI", "EKSPOR-PRO", 899000, false)

	report, err := f.auditor().AuditAffiliate(context.Background(), "BUDI")
	require.NoError(t, err)

	assert.True(t, report.Registered)
	assert.False(t, report.Active)
	require.Len(t, report.Missing, 1)
	assert.Equal(t, "INV-1", report.Missing[0].SaleRef)
	assert.Equal(t, owed, report.ExpectedTotal)
	assert.False(t, report.Balanced())
}

func TestAuditor_UnregisteredAffiliate(t *testing.T) {
	f := newFixture()
	f.addSale(t, "INV-1", "GHOST", "EKSPOR-PRO", 899000, true)

	report, err := f.auditor().AuditAffiliate(context.Background(), "GHOST")
	require.NoError(t, err)

	assert.False(t, report.Registered)
	require.Len(t, report.Orphaned, 1)
	assert.Equal(t, "INV-1", report.Orphaned[0].SaleRef)
	assert.Empty(t, report.Missing)
	assert.Zero(t, report.ExpectedTotal)
	assert.Equal(t, int64(250000), report.ActualTotal)
	assert.False(t, report.Balanced())

	orphan, err := f.auditor().IsOrphan(context.Background(), f.conversions[0])
	require.NoError(t, err)
	assert.True(t, orphan)
}

func TestAuditor_AuditAll(t *testing.T) {
	f := newFixture()
	f.addSale(t, "INV-1", "RINA", "EKSPOR-PRO", 899000, true)
	f.addSale(t, "INV-2", "RINA", "EKSPOR-PRO", 899000, false)

	reports, err := f.auditor().AuditAll(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.True(t, reports[0].Balanced())
	assert.Equal(t, "RINA", reports[1].AffiliateRef)
	assert.Len(t, reports[1].Missing, 1)
}

func TestAuditor_AuditAllCoversCreditedRefs(t *testing.T) {
	f := newFixture()
	f.addSale(t, "INV-1", "RINA", "EKSPOR-PRO", 899000, true)
	f.addSale(t, "INV-2", "GHOST", "KELAS-EKSPOR", 1000000, true)

	reports, err := f.auditor().AuditAll(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 3)

	refs := make([]string, len(reports))
	for i, r := range reports {
		refs[i] = r.AffiliateRef
	}

	assert.Equal(t, []string{"BUDI", "RINA", "GHOST"}, refs)

	ghost := reports[2]
	assert.False(t, ghost.Registered)
	require.Len(t, ghost.Orphaned, 1)
	assert.Equal(t, int64(300000), ghost.OrphanedTotal())
	assert.False(t, ghost.Balanced())
	assert.True(t, reports[1].Balanced())
}

func TestAuditor_LogsImbalanceToInjectedLogger(t *testing.T) {
	f := newFixture()
	f.addSale(t, "INV-1", "RINA", "EKSPOR-PRO", 899000, false)

	var buf bytes.Buffer

	_, err := f.auditor(reconcile.WithLogger(slog.New(slog.NewTextHandler(&buf, nil)))).
		AuditAffiliate(context.Background(), "RINA")
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "affiliate ledger out of balance")
	assert.Contains(t, buf.String(), "affiliate_ref=RINA")
}
