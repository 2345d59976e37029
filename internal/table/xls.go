// =============================================================================
// Cartera Report - XLS Reader
// =============================================================================
//
// Reads the first worksheet of a legacy BIFF8 (.xls) workbook with
// github.com/extrame/xls.
//
// LIMITATIONS:
//   The library renders every cell to text, so typing is done with the same
//   rules as CSV input. Dates stored with a built-in format do not survive
//   that rendering as full dates and reach the report as text.
//
// =============================================================================

package table

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"
)

// readXLS returns the raw records of the first sheet.
func readXLS(data []byte) (records [][]Value, err error) {
	// The library panics on some malformed records.
	defer func() {
		if r := recover(); r != nil {
			records, err = nil, fmt.Errorf("malformed xls workbook: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheet := wb.GetSheet(0)
	if sheet == nil || sheet.MaxRow == 0 {
		// MaxRow 0 means a single header row at most; no data to report.
		return nil, nil
	}

	// ReadAllCells spills into later sheets once the limit is not reached,
	// so cap it at the first sheet's row count.
	rows := wb.ReadAllCells(int(sheet.MaxRow) + 1)

	records = make([][]Value, len(rows))
	for i, row := range rows {
		record := make([]Value, len(row))
		for j, cell := range row {
			record[j] = parseScalar(cell)
		}
		records[i] = record
	}

	return records, nil
}
