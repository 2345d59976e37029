// =============================================================================
// Cartera Report - Tabular Reader
// =============================================================================
//
// This module turns the raw bytes of an uploaded spreadsheet into a Table.
// The container format is detected from the leading bytes:
//
//   PK\x03\x04        -> xlsx (Office Open XML, read with excelize)
//   D0 CF 11 E0 ...   -> xls  (BIFF8 compound file, read with extrame/xls)
//   anything else     -> delimited text (CSV)
//
// HEADER HANDLING:
//   - HeaderRow rows are skipped before the header (used to skip a banner row)
//   - Header names are trimmed and normalized to Unicode NFC
//   - Blank header cells are named Column_N
//
// DATA ROWS:
//   - Rows where every cell is empty are skipped
//   - Short rows are padded with Null, cells past the header are dropped
//
// =============================================================================

package table

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options controls how the input is read.
type Options struct {
	// HeaderRow is the number of rows to skip before the header row.
	// 0 means the header is the first row; 1 skips a single banner row.
	HeaderRow int

	// Delimiter is the CSV field separator. Empty or "auto" sniffs it
	// from the first line. Ignored for xlsx and xls input.
	Delimiter string

	// Encoding is the CSV character set: UTF-8, ISO-8859-1 or Windows-1252.
	// Ignored for xlsx and xls input.
	Encoding string
}

// Format is a detected input container format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatCSV  Format = "csv"
)

// ErrUnsupportedFormat is returned for input that is empty or clearly binary
// but not a recognized spreadsheet.
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

var (
	zipMagic = []byte("PK\x03\x04")
	cfbMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// =============================================================================
// READ
// =============================================================================

// Detect reports the container format of data.
func Detect(data []byte) (Format, error) {
	switch {
	case len(data) == 0:
		return "", fmt.Errorf("%w: empty input", ErrUnsupportedFormat)
	case bytes.HasPrefix(data, zipMagic):
		return FormatXLSX, nil
	case bytes.HasPrefix(data, cfbMagic):
		return FormatXLS, nil
	case bytes.IndexByte(data[:min(len(data), 512)], 0) >= 0:
		return "", fmt.Errorf("%w: binary content", ErrUnsupportedFormat)
	default:
		return FormatCSV, nil
	}
}

// Read parses data into a Table using the first sheet of a workbook.
//
// PARAMETERS:
//   - data: The raw file contents.
//   - opts: Header offset and CSV settings.
//
// RETURNS:
//   - The parsed table.
//   - An error if the format is unsupported or the content cannot be read.
func Read(data []byte, opts Options) (*Table, error) {
	if opts.HeaderRow < 0 {
		return nil, fmt.Errorf("header row must not be negative, got %d", opts.HeaderRow)
	}

	format, err := Detect(data)
	if err != nil {
		return nil, err
	}

	var records [][]Value
	switch format {
	case FormatXLSX:
		records, err = readXLSX(data)
	case FormatXLS:
		records, err = readXLS(data)
	default:
		records, err = readCSV(data, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s input: %w", format, err)
	}

	return buildTable(records, opts.HeaderRow)
}

// =============================================================================
// TABLE ASSEMBLY
// =============================================================================

// buildTable splits raw records into header and data rows.
func buildTable(records [][]Value, headerRow int) (*Table, error) {
	if headerRow >= len(records) {
		return nil, fmt.Errorf("header row %d not found: input has %d row(s)", headerRow+1, len(records))
	}

	header := records[headerRow]
	names := make([]string, len(header))
	for i, cell := range header {
		names[i] = cell.String()
	}
	columns := cleanHeaders(names)

	t := &Table{Columns: columns}
	for _, record := range records[headerRow+1:] {
		if isRowEmpty(record) {
			continue
		}
		row := make([]Value, len(columns))
		copy(row, record)
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// cleanHeaders trims, NFC-normalizes and fills in blank header names.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		header = norm.NFC.String(strings.TrimSpace(header))
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}

	return cleaned
}

// isRowEmpty reports whether every cell in the row is Null.
func isRowEmpty(row []Value) bool {
	for _, cell := range row {
		if !cell.IsNull() {
			return false
		}
	}
	return true
}

// =============================================================================
// SCALAR PARSING
// =============================================================================

// textDateLayouts are the unambiguous date forms recognized in text cells.
var textDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// parseScalar types a text cell coming from a CSV or xls source.
// Numbers with a leading zero ("00123") stay text so identifiers keep
// their digits.
func parseScalar(s string) Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return NullValue()
	}

	if looksNumeric(s) {
		if d, err := decimal.NewFromString(s); err == nil {
			return NumberValue(d)
		}
	}

	if t, ok := parseTextDate(s); ok {
		return TimeValue(t)
	}

	return StringValue(s)
}

// parseTextDate tries the ISO date layouts.
func parseTextDate(s string) (time.Time, bool) {
	for _, layout := range textDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// looksNumeric accepts an optional sign, digits and at most one dot, and
// rejects zero-padded integers.
func looksNumeric(s string) bool {
	digits := strings.TrimLeft(s, "+-")
	if digits == "" || len(s)-len(digits) > 1 {
		return false
	}

	dots := 0
	for _, r := range digits {
		switch {
		case r == '.':
			dots++
		case r < '0' || r > '9':
			return false
		}
	}
	if dots > 1 || digits == "." {
		return false
	}

	if len(digits) > 1 && digits[0] == '0' && digits[1] != '.' {
		return false
	}
	return true
}
