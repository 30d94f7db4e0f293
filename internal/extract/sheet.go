package extract

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/hpungsan/cardex/internal/errors"
)

func extractXLSX(data []byte) ([]Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewExtractionFailed(string(FormatXLSX), fmt.Errorf("open workbook: %w", err))
	}
	defer f.Close()

	var sheets []Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, errors.NewExtractionFailed(string(FormatXLSX), fmt.Errorf("read sheet %q: %w", name, err))
		}
		sheets = append(sheets, Sheet{Name: name, Rows: rows})
	}
	return sheets, nil
}

// xlsCharset is the fallback code page for legacy workbooks without one.
const xlsCharset = "utf-8"

func extractXLS(data []byte) (sheets []Sheet, err error) {
	// the BIFF parser panics on truncated records
	defer func() {
		if r := recover(); r != nil {
			sheets, err = nil, errors.NewExtractionFailed(string(FormatXLS), fmt.Errorf("malformed workbook: %v", r))
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), xlsCharset)
	if err != nil {
		return nil, errors.NewExtractionFailed(string(FormatXLS), fmt.Errorf("open workbook: %w", err))
	}

	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}
		sheet := Sheet{Name: ws.Name}
		if ws.MaxRow > 0 || ws.Row(0) != nil {
			for r := 0; r <= int(ws.MaxRow); r++ {
				sheet.Rows = append(sheet.Rows, xlsRow(ws.Row(r)))
			}
		}
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}

func xlsRow(row *xls.Row) []string {
	if row == nil {
		return nil
	}
	last := row.LastCol()
	cells := make([]string, 0, last)
	for c := 0; c < last; c++ {
		cells = append(cells, row.Col(c))
	}
	return cells
}
