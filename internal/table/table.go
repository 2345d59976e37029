// =============================================================================
// Cartera Report - Tabular Data Model
// =============================================================================
//
// This module defines the in-memory table produced by the readers in this
// package. Cells keep their source type so later stages can tell a real date
// from text that merely looks like one.
//
// CELL KINDS:
//   - Null:   empty or absent cell
//   - String: text
//   - Number: exact decimal number (shopspring/decimal)
//   - Time:   date or date-time
//
// =============================================================================

package table

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// VALUE
// =============================================================================

// Kind identifies the type of a cell value.
type Kind int

const (
	Null Kind = iota
	String
	Number
	Time
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case String:
		return "string"
	case Number:
		return "number"
	case Time:
		return "time"
	default:
		return "unknown"
	}
}

// timeLayout is the plain string form of a Time value.
const timeLayout = "2006-01-02 15:04:05"

// Value is a single typed cell. The zero Value is Null.
type Value struct {
	Kind Kind
	Str  string
	Num  decimal.Decimal
	Time time.Time
}

// NullValue returns an empty cell.
func NullValue() Value { return Value{} }

// StringValue returns a text cell.
func StringValue(s string) Value { return Value{Kind: String, Str: s} }

// NumberValue returns a numeric cell.
func NumberValue(d decimal.Decimal) Value { return Value{Kind: Number, Num: d} }

// TimeValue returns a date cell.
func TimeValue(t time.Time) Value { return Value{Kind: Time, Time: t} }

// IsNull reports whether the cell is empty.
func (v Value) IsNull() bool { return v.Kind == Null }

// String is the plain string conversion of the value.
// Null converts to "", numbers use their shortest exact decimal form.
func (v Value) String() string {
	switch v.Kind {
	case String:
		return v.Str
	case Number:
		return v.Num.String()
	case Time:
		return v.Time.Format(timeLayout)
	default:
		return ""
	}
}

// =============================================================================
// TABLE
// =============================================================================

// Table is a header plus data rows. Every row has len(Columns) cells.
type Table struct {
	// Columns holds the cleaned header names in source order.
	Columns []string

	// Rows holds the data rows, excluding the header and any skipped rows.
	Rows [][]Value
}

// Index returns the position of the named column, or -1.
// The first occurrence wins when a header is repeated.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }
