package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const rupiahFormat = `"Rp" #,##0`

// workbook wraps an excelize file with the header and amount styles shared by every sheet.
type workbook struct {
	f      *excelize.File
	header int
	amount int
	sheets int
}

func newWorkbook() (*workbook, error) {
	f := excelize.NewFile()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	numFmt := rupiahFormat

	amount, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return nil, fmt.Errorf("create amount style: %w", err)
	}

	return &workbook{f: f, header: header, amount: amount}, nil
}

// sheet writes a table. amountCols are zero-based column indexes formatted as rupiah.
func (w *workbook) sheet(name string, headers []string, rows [][]any, amountCols ...int) error {
	if w.sheets == 0 {
		if err := w.f.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("rename sheet: %w", err)
		}
	} else if _, err := w.f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}

	w.sheets++

	if err := w.f.SetSheetRow(name, "A1", &headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := w.f.SetCellStyle(name, "A1", last, w.header); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := w.f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	for _, c := range amountCols {
		col, _ := excelize.ColumnNumberToName(c + 1)
		if len(rows) > 0 {
			if err := w.f.SetCellStyle(name, fmt.Sprintf("%s2", col), fmt.Sprintf("%s%d", col, len(rows)+1), w.amount); err != nil {
				return fmt.Errorf("style amounts: %w", err)
			}
		}
	}

	startCol, _ := excelize.ColumnNumberToName(1)
	endCol, _ := excelize.ColumnNumberToName(len(headers))

	return w.f.SetColWidth(name, startCol, endCol, 18)
}

func (w *workbook) bytes() ([]byte, error) {
	defer w.f.Close()

	var buf bytes.Buffer
	if err := w.f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	return buf.Bytes(), nil
}
