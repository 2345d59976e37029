package report

import (
	"github.com/ginjaninja78/cartera-report/internal/table"
	"github.com/shopspring/decimal"
)

// Totals holds the whole-dataset sums of the monetary columns.
//
// Only Number cells are summed. Null cells and non-numeric cells (text,
// dates) contribute zero; the non-numeric ones are counted in Skipped so
// callers can report them.
type Totals struct {
	columns []Column
	sums    map[Column]decimal.Decimal

	// Skipped counts non-null, non-numeric cells per column.
	Skipped map[Column]int
}

// ComputeTotals sums each of columns over every row of ds.
func ComputeTotals(ds *Dataset, columns []Column) Totals {
	t := Totals{
		columns: append([]Column(nil), columns...),
		sums:    make(map[Column]decimal.Decimal, len(columns)),
		Skipped: make(map[Column]int),
	}

	for _, c := range columns {
		t.sums[c] = decimal.Zero
	}

	for i := 0; i < ds.Len(); i++ {
		row := ds.Row(i)
		for _, c := range columns {
			v := row.Get(c)
			switch v.Kind {
			case table.Number:
				t.sums[c] = t.sums[c].Add(v.Num)
			case table.Null:
			default:
				t.Skipped[c]++
			}
		}
	}

	return t
}

// Columns returns the summed columns in configured order.
func (t Totals) Columns() []Column {
	return append([]Column(nil), t.columns...)
}

// Sum returns the total of c and whether c is a summed column.
func (t Totals) Sum(c Column) (decimal.Decimal, bool) {
	d, ok := t.sums[c]
	return d, ok
}

// SkippedCells returns the total number of non-numeric cells ignored.
func (t Totals) SkippedCells() int {
	n := 0
	for _, k := range t.Skipped {
		n += k
	}
	return n
}
