package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

type Sheet struct {
	Title  string
	Header []string
	Rows   [][]string
}

// Workbook renders the sheets into a single xlsx file: bold filtered
// header row, column widths sized from the first rows.
func Workbook(sheets []Sheet) ([]byte, error) {
	f := excelize.NewFile()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for i, sheet := range sheets {
		name := sheet.Title
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return nil, fmt.Errorf("new sheet: %w", err)
			}
		}

		for col, h := range sheet.Header {
			cell := fmt.Sprintf("%s1", colName(col+1))
			if err := f.SetCellStr(name, cell, h); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
		end := colName(len(sheet.Header)) + "1"
		_ = f.SetCellStyle(name, "A1", end, bold)
		_ = f.AutoFilter(name, "A1:"+end, nil)

		for r, row := range sheet.Rows {
			for c, val := range row {
				cell := fmt.Sprintf("%s%d", colName(c+1), r+2)
				if err := f.SetCellStr(name, cell, val); err != nil {
					return nil, fmt.Errorf("set cell %s: %w", cell, err)
				}
			}
		}

		for c := 1; c <= len(sheet.Header); c++ {
			width := len(sheet.Header[c-1])
			for r := 0; r < len(sheet.Rows) && r < 50; r++ {
				if c-1 >= len(sheet.Rows[r]) {
					continue
				}
				if l := len(sheet.Rows[r][c-1]); l > width {
					width = l
				}
			}
			w := float64(width)
			if w < 12 {
				w = 12
			}
			if w > 60 {
				w = 60
			}
			_ = f.SetColWidth(name, colName(c), colName(c), w)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func colName(n int) string {
	name, _ := excelize.ColumnNumberToName(n)
	return name
}
