// =============================================================================
// Cartera Report - CSV Reader
// =============================================================================
//
// Reads delimited text exports. Spanish-locale spreadsheet tools usually
// export with ';' and Latin-1 or Windows-1252, so both the delimiter and the
// character set are configurable.
//
// SUPPORTED ENCODINGS:
//   UTF-8 (BOM stripped), ISO-8859-1 / LATIN1, WINDOWS-1252 / CP1252
//
// =============================================================================

package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readCSV returns the raw records of a delimited text file.
func readCSV(data []byte, opts Options) ([][]Value, error) {
	text, err := decodeText(data, opts.Encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(text))
	configureReader(reader, opts.Delimiter, text)

	var records [][]Value
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}

		record := make([]Value, len(row))
		for i, cell := range row {
			record[i] = parseScalar(cell)
		}
		records = append(records, record)
	}

	return records, nil
}

// decodeText converts data to UTF-8 according to the configured encoding.
func decodeText(data []byte, encoding string) ([]byte, error) {
	switch strings.ToUpper(strings.TrimSpace(encoding)) {
	case "", "UTF-8", "UTF8":
		return bytes.TrimPrefix(data, utf8BOM), nil
	case "ISO-8859-1", "ISO8859-1", "LATIN1", "LATIN-1":
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode ISO-8859-1 input: %w", err)
		}
		return out, nil
	case "WINDOWS-1252", "CP1252":
		out, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode Windows-1252 input: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported csv encoding %q", encoding)
	}
}

// configureReader sets the delimiter and relaxes the csv parser for
// hand-edited exports.
func configureReader(reader *csv.Reader, delimiter string, text []byte) {
	switch delimiter {
	case "\\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	case "", "auto":
		reader.Comma = sniffDelimiter(text)
	default:
		reader.Comma = []rune(delimiter)[0]
	}

	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// sniffDelimiter picks the most frequent candidate separator on the first line.
func sniffDelimiter(text []byte) rune {
	line := text
	if i := bytes.IndexByte(text, '\n'); i >= 0 {
		line = text[:i]
	}

	best, bestCount := ',', 0
	for _, candidate := range []rune{',', ';', '\t', '|'} {
		if n := strings.Count(string(line), string(candidate)); n > bestCount {
			best, bestCount = candidate, n
		}
	}
	return best
}
