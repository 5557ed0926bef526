package backfill

import "strings"

// column is one logical field of a sales export and the header names it may appear under.
type column struct {
	name     string
	headers  []string
	required bool
}

const (
	colSaleID      = "sale_id"
	colAmount      = "amount"
	colProduct     = "product"
	colAffiliate   = "affiliate"
	colStatus      = "status"
	colCompletedAt = "completed_at"
)

var columns = []column{
	{name: colSaleID, headers: []string{"sale_id", "invoice", "invoice_id", "transaction_id", "order_id"}, required: true},
	{name: colAmount, headers: []string{"amount", "total", "price", "nominal"}, required: true},
	{name: colProduct, headers: []string{"product", "product_ref", "product_name", "produk"}, required: true},
	{name: colAffiliate, headers: []string{"affiliate", "affiliate_ref", "affiliate_code", "kode_affiliate"}},
	{name: colStatus, headers: []string{"status", "payment_status"}},
	{name: colCompletedAt, headers: []string{"completed_at", "paid_at", "date", "tanggal"}},
}

type colIndex map[string]int

// matchHeader maps logical columns to their position in row. It reports
// false when any required column is missing.
func matchHeader(row []string) (colIndex, bool) {
	positions := make(map[string]int, len(row))
	for i, cell := range row {
		name := strings.ToLower(strings.TrimSpace(cell))
		if name != "" {
			positions[name] = i
		}
	}

	idx := make(colIndex, len(columns))

	for _, c := range columns {
		for _, h := range c.headers {
			if i, ok := positions[h]; ok {
				idx[c.name] = i
				break
			}
		}

		if _, ok := idx[c.name]; !ok && c.required {
			return nil, false
		}
	}

	return idx, true
}

func (c colIndex) value(row []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[i])
}
