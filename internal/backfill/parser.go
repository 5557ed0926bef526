package backfill

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/eksporyuk/commission/internal/money"
	"github.com/eksporyuk/commission/internal/sale"
)

var ErrNoHeader = errors.New("no header row with sale id, amount and product columns")

// Row is one parsed sale. Line is 1-based in the source file.
type Row struct {
	Line int
	Sale sale.IngestParams
}

type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Parsed is the result of reading a sales export.
type Parsed struct {
	Charset string
	Rows    []Row
	Errors  []RowError
}

var statuses = map[string]sale.Status{
	"success":    sale.StatusSuccess,
	"completed":  sale.StatusSuccess,
	"complete":   sale.StatusSuccess,
	"paid":       sale.StatusSuccess,
	"settlement": sale.StatusSuccess,
	"lunas":      sale.StatusSuccess,
	"pending":    sale.StatusPending,
	"waiting":    sale.StatusPending,
	"unpaid":     sale.StatusPending,
	"failed":     sale.StatusFailed,
	"expired":    sale.StatusFailed,
	"error":      sale.StatusFailed,
	"cancelled":  sale.StatusCancelled,
	"canceled":   sale.StatusCancelled,
	"refunded":   sale.StatusCancelled,
	"batal":      sale.StatusCancelled,
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
	"02/01/2006 15:04",
	"02/01/2006",
	"02-01-2006",
}

// Parse reads a delimited sales export. The delimiter (';', ',' or tab) and
// the header row are detected; rows before the header are ignored. Bad rows
// are collected in Errors and do not stop parsing.
func Parse(r io.Reader, loc *time.Location) (*Parsed, error) {
	utf8r, charset, err := utf8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	br := bufio.NewReaderSize(utf8r, sniffSize)

	head, _ := br.Peek(sniffSize)

	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(string(head))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	type record struct {
		line   int
		fields []string
	}

	var records []record

	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		line, _ := reader.FieldPos(0)
		records = append(records, record{line: line, fields: fields})
	}

	headerIdx := -1

	var idx colIndex

	for i, rec := range records {
		if m, ok := matchHeader(rec.fields); ok {
			idx, headerIdx = m, i
			break
		}
	}

	if headerIdx < 0 {
		return nil, ErrNoHeader
	}

	out := &Parsed{Charset: charset}

	for _, rec := range records[headerIdx+1:] {
		if blank(rec.fields) {
			continue
		}

		params, err := parseRow(idx, rec.fields, loc)
		if err != nil {
			out.Errors = append(out.Errors, RowError{Line: rec.line, Err: err})
			continue
		}

		out.Rows = append(out.Rows, Row{Line: rec.line, Sale: params})
	}

	return out, nil
}

func parseRow(idx colIndex, rec []string, loc *time.Location) (sale.IngestParams, error) {
	p := sale.IngestParams{
		ID:           idx.value(rec, colSaleID),
		ProductRef:   idx.value(rec, colProduct),
		AffiliateRef: idx.value(rec, colAffiliate),
		Status:       sale.StatusSuccess,
	}

	if p.ID == "" {
		return p, errors.New("missing sale id")
	}

	amount, err := money.ParseRupiah(idx.value(rec, colAmount))
	if err != nil {
		return p, err
	}

	if amount < 0 {
		return p, fmt.Errorf("negative amount %d", amount)
	}

	p.Amount = amount

	if raw := idx.value(rec, colStatus); raw != "" {
		st, ok := statuses[strings.ToLower(raw)]
		if !ok {
			return p, fmt.Errorf("unknown status %q", raw)
		}

		p.Status = st
	}

	if raw := idx.value(rec, colCompletedAt); raw != "" {
		t, err := parseTime(raw, loc)
		if err != nil {
			return p, err
		}

		p.CompletedAt = &t
	}

	return p, nil
}

func parseTime(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// sniffDelimiter picks the separator that occurs most on the first non-empty lines.
func sniffDelimiter(head string) rune {
	best, bestCount := ';', 0

	lines := strings.SplitN(head, "\n", 6)

	for _, d := range []rune{';', ',', '\t'} {
		n := 0
		for _, l := range lines {
			n += strings.Count(l, string(d))
		}

		if n > bestCount {
			best, bestCount = d, n
		}
	}

	return best
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}
