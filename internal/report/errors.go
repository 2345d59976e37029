package report

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyDataset is returned when the input has a valid header but no rows.
// The cover slide needs the first row, so an empty report cannot be built.
var ErrEmptyDataset = errors.New("dataset has no rows")

// SchemaError reports required columns missing from the input table.
type SchemaError struct {
	// Missing lists every absent column in schema order.
	Missing []string
}

func (e *SchemaError) Error() string {
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}

// FormatError reports a value that cannot be rendered for its column.
// It is only produced in strict mode.
type FormatError struct {
	Column Column
	Row    int
	Value  string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d, column %q: cannot format %q: %s", e.Row, e.Column.Name(), e.Value, e.Reason)
	}
	return fmt.Sprintf("column %q: cannot format %q: %s", e.Column.Name(), e.Value, e.Reason)
}
