// =============================================================================
// Cartera Report - Value Formatter
// =============================================================================
//
// Renders one cell's display string from its raw value and column.
//
// RULES (first match wins):
//   1. Null                 -> ""
//   2. KindName column      -> title case of the plain string ("MARIA PEREZ" -> "Maria Perez",
//                              "BERNARDO O'HIGGINS" -> "Bernardo O'Higgins")
//   3. KindDate column      -> DD-MM-YYYY for typed dates, plain string otherwise
//   4. anything else        -> plain string, amounts are NOT reformatted
//
// Only totals are formatted with thousands separators, see FormatAmount.
//
// =============================================================================

package report

import (
	"unicode"

	"github.com/dustin/go-humanize"
	"github.com/ginjaninja78/cartera-report/internal/table"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DateLayout is the display layout of date columns.
const DateLayout = "02-01-2006"

// Formatter renders cell values. A Formatter holds a stateful caser and
// must not be shared between goroutines.
type Formatter struct {
	// Strict turns the date fallback into a FormatError.
	Strict bool

	lower cases.Caser
}

// NewFormatter creates a Formatter.
func NewFormatter(strict bool) *Formatter {
	return &Formatter{Strict: strict, lower: cases.Lower(language.Spanish)}
}

// titleCase lowercases s and upper-cases every letter that does not follow
// another letter, so words split by apostrophes, hyphens or digits each
// start with a capital.
func (f *Formatter) titleCase(s string) string {
	runes := []rune(f.lower.String(s))
	prevLetter := false
	for i, r := range runes {
		if !prevLetter {
			runes[i] = unicode.ToTitle(r)
		}
		prevLetter = unicode.IsLetter(r)
	}
	return string(runes)
}

// Format returns the display string of v in column c.
// An error is only possible in strict mode.
func (f *Formatter) Format(c Column, v table.Value) (string, error) {
	if v.IsNull() {
		return "", nil
	}

	switch c.Kind() {
	case KindName:
		return f.titleCase(v.String()), nil
	case KindDate:
		if v.Kind == table.Time {
			return v.Time.Format(DateLayout), nil
		}
		if f.Strict {
			return "", &FormatError{Column: c, Value: v.String(), Reason: "expected a date, got " + v.Kind.String()}
		}
		return v.String(), nil
	default:
		return v.String(), nil
	}
}

// FormatAmount renders a total with thousands separators and two decimals,
// e.g. 1234.5 -> "1,234.50". Halves round away from zero.
func FormatAmount(d decimal.Decimal) string {
	rounded := d.Round(2)
	abs := rounded.Abs()
	whole := abs.Truncate(0)
	frac := abs.Sub(whole).StringFixed(2) // "0.xx"

	s := humanize.Comma(whole.IntPart()) + frac[1:]
	if rounded.IsNegative() {
		s = "-" + s
	}
	return s
}
