// =============================================================================
// Cartera Report - Column Validator
// =============================================================================
//
// Checks that the input table carries every report column and projects it
// onto exactly that column set, in schema order. Extra input columns are
// dropped. Validation is all-or-nothing: every missing column is reported
// in a single SchemaError and nothing downstream runs.
//
// =============================================================================

package report

import (
	"github.com/ginjaninja78/cartera-report/internal/table"
)

// Row is one record projected onto the report columns.
// Rows are values; indexing by Column never goes out of range.
type Row [NumColumns]table.Value

// Get returns the value of column c.
func (r Row) Get(c Column) table.Value { return r[c] }

// Dataset is the validated, ordered, non-empty set of report rows.
type Dataset struct {
	rows []Row
}

// NewDataset wraps rows that already follow the report schema.
func NewDataset(rows []Row) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}
	owned := make([]Row, len(rows))
	copy(owned, rows)
	return &Dataset{rows: owned}, nil
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.rows) }

// Row returns the i-th row.
func (d *Dataset) Row(i int) Row { return d.rows[i] }

// Rows returns a copy of all rows in order.
func (d *Dataset) Rows() []Row {
	out := make([]Row, len(d.rows))
	copy(out, d.rows)
	return out
}

// MissingColumns lists the report columns absent from t, in schema order.
func MissingColumns(t *table.Table) []string {
	var missing []string
	for _, c := range AllColumns() {
		if t.Index(c.Name()) < 0 {
			missing = append(missing, c.Name())
		}
	}
	return missing
}

// Validate checks the column set of t and returns the projected Dataset.
//
// RETURNS:
//   - The dataset with one Row per input row.
//   - *SchemaError naming every missing column, or ErrEmptyDataset.
func Validate(t *table.Table) (*Dataset, error) {
	if missing := MissingColumns(t); len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	var index [NumColumns]int
	for _, c := range AllColumns() {
		index[c] = t.Index(c.Name())
	}

	rows := make([]Row, 0, len(t.Rows))
	for _, src := range t.Rows {
		var row Row
		for c, i := range index {
			if i < len(src) {
				row[c] = src[i]
			}
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}
	return &Dataset{rows: rows}, nil
}
