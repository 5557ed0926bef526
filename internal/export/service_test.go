package export_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/eksporyuk/commission/internal/conversion"
	"github.com/eksporyuk/commission/internal/export"
	"github.com/eksporyuk/commission/internal/reconcile"
	"github.com/eksporyuk/commission/internal/rule"
	"github.com/eksporyuk/commission/internal/wallet"
)

type fakeConversions []*conversion.Conversion

func (f fakeConversions) ListByAffiliate(context.Context, string) ([]*conversion.Conversion, error) {
	return f, nil
}

type fakeWallets struct{ bal *wallet.Balance }

func (f fakeWallets) Get(context.Context, string) (*wallet.Balance, error) {
	return f.bal, nil
}

func open(t *testing.T, data []byte) *excelize.File {
	t.Helper()

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	return f
}

func TestStatement(t *testing.T) {
	created := time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)
	paidAt := created.Add(48 * time.Hour)

	convs := fakeConversions{
		{ID: uuid.New(), SaleRef: "INV-1", AffiliateRef: "RINA", Amount: 250000, RuleKind: rule.KindFlat, RuleValue: decimal.NewFromInt(250000), CreatedAt: created},
		{ID: uuid.New(), SaleRef: "INV-2", AffiliateRef: "RINA", Amount: 300000, RuleKind: rule.KindPercentage, RuleValue: decimal.NewFromInt(30), PaidOut: true, PaidAt: &paidAt, CreatedAt: created},
	}
	bal := &wallet.Balance{AffiliateRef: "RINA", Pending: 250000, Paid: 300000, Total: 550000, Conversions: 2}

	data, err := export.NewService(convs, fakeWallets{bal}).Statement(context.Background(), "RINA")
	require.NoError(t, err)

	f := open(t, data)
	assert.Equal(t, []string{"Summary", "Conversions"}, f.GetSheetList())

	rows, err := f.GetRows("Conversions")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Sale", rows[0][1])
	assert.Equal(t, "INV-2", rows[2][1])
	assert.Equal(t, "PERCENTAGE", rows[2][2])
	assert.Equal(t, "paid", rows[2][5])

	raw, err := f.GetCellValue("Conversions", "E2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "250000", raw)

	total, err := f.GetCellValue("Summary", "B4", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "550000", total)
}

func TestAudit(t *testing.T) {
	reports := []*reconcile.Report{
		{AffiliateRef: "RINA", ExpectedTotal: 100, ActualTotal: 100, WalletTotal: 100},
		{
			AffiliateRef:  "BUDI",
			ExpectedTotal: 900,
			ActualTotal:   600,
			WalletTotal:   600,
			Missing:       []reconcile.MissingSale{{SaleRef: "INV-8", Expected: 300}},
			Orphaned:      []reconcile.Orphan{{ConversionID: uuid.New(), SaleRef: "INV-X", Amount: 50}},
		},
	}

	data, err := export.Audit(reports)
	require.NoError(t, err)

	f := open(t, data)
	assert.Equal(t, []string{"Summary", "Missing", "Orphaned", "Unpriced", "Mismatched"}, f.GetSheetList())

	rows, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "TRUE", rows[1][5])
	assert.Equal(t, "FALSE", rows[2][5])

	gap, err := f.GetCellValue("Summary", "E3", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "300", gap)

	missing, err := f.GetRows("Missing")
	require.NoError(t, err)
	require.Len(t, missing, 2)
	assert.Equal(t, "INV-8", missing[1][1])
}
