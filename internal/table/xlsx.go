// =============================================================================
// Cartera Report - XLSX Reader
// =============================================================================
//
// Reads the first worksheet of an Office Open XML workbook with excelize.
//
// CELL TYPING:
//   Values are read raw (no number formatting applied) and typed from the
//   cell's type attribute and style:
//     - shared/inline/formula strings -> String
//     - ISO 8601 date cells (t="d")   -> Time
//     - booleans                       -> String ("TRUE" / "FALSE")
//     - numbers with a date format     -> Time (serial converted)
//     - other numbers                  -> Number
//
// =============================================================================

package table

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// readXLSX returns the raw records of the first sheet.
func readXLSX(data []byte) ([][]Value, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheet, err)
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	r := &xlsxCellReader{f: f, sheet: sheet, date1904: date1904, dateStyles: map[int]bool{}}

	records := make([][]Value, len(rows))
	for i, row := range rows {
		record := make([]Value, len(row))
		for j, raw := range row {
			v, err := r.value(j+1, i+1, raw)
			if err != nil {
				return nil, err
			}
			record[j] = v
		}
		records[i] = record
	}

	return records, nil
}

// xlsxCellReader types raw cell values, caching the date check per style.
type xlsxCellReader struct {
	f          *excelize.File
	sheet      string
	date1904   bool
	dateStyles map[int]bool
}

// value types one raw cell at (col, row), both 1-based.
func (r *xlsxCellReader) value(col, row int, raw string) (Value, error) {
	if strings.TrimSpace(raw) == "" {
		return NullValue(), nil
	}

	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return Value{}, err
	}

	cellType, err := r.f.GetCellType(r.sheet, cell)
	if err != nil {
		return Value{}, fmt.Errorf("failed to read type of cell %s: %w", cell, err)
	}

	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula, excelize.CellTypeError:
		return StringValue(raw), nil
	case excelize.CellTypeBool:
		if raw == "1" || strings.EqualFold(raw, "true") {
			return StringValue("TRUE"), nil
		}
		return StringValue("FALSE"), nil
	case excelize.CellTypeDate:
		if t, ok := parseTextDate(strings.TrimSuffix(raw, "Z")); ok {
			return TimeValue(t), nil
		}
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return TimeValue(t), nil
		}
		return StringValue(raw), nil
	}

	// Unset or number: a numeric literal.
	num, err := decimal.NewFromString(raw)
	if err != nil {
		return StringValue(raw), nil
	}

	isDate, err := r.isDateStyled(cell)
	if err != nil {
		return Value{}, err
	}
	if isDate {
		serial, _ := strconv.ParseFloat(raw, 64)
		if t, err := excelize.ExcelDateToTime(serial, r.date1904); err == nil {
			return TimeValue(t), nil
		}
	}

	return NumberValue(num), nil
}

// isDateStyled reports whether the cell's number format renders a date.
func (r *xlsxCellReader) isDateStyled(cell string) (bool, error) {
	idx, err := r.f.GetCellStyle(r.sheet, cell)
	if err != nil {
		return false, fmt.Errorf("failed to read style of cell %s: %w", cell, err)
	}
	if cached, ok := r.dateStyles[idx]; ok {
		return cached, nil
	}

	style, err := r.f.GetStyle(idx)
	if err != nil {
		return false, fmt.Errorf("failed to read style %d: %w", idx, err)
	}

	var isDate bool
	if style.CustomNumFmt != nil {
		isDate = isDateFormatCode(*style.CustomNumFmt)
	} else {
		isDate = isBuiltInDateFormat(style.NumFmt)
	}

	r.dateStyles[idx] = isDate
	return isDate, nil
}

// isBuiltInDateFormat covers the built-in date and date-time format ids,
// including the East Asian ranges.
func isBuiltInDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 17, id == 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

var (
	quotedSection  = regexp.MustCompile(`"[^"]*"`)
	bracketSection = regexp.MustCompile(`\[[^\]]*\]`)
	escapedChar    = regexp.MustCompile(`\\.`)
)

// isDateFormatCode reports whether a custom format code has a year or day
// token outside literals, e.g. "dd/mm/yyyy" or "d-mmm-yy".
func isDateFormatCode(code string) bool {
	code = quotedSection.ReplaceAllString(code, "")
	code = bracketSection.ReplaceAllString(code, "")
	code = escapedChar.ReplaceAllString(code, "")
	code = strings.ToLower(code)
	return strings.ContainsAny(code, "yd")
}
