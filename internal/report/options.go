package report

import (
	"errors"
	"fmt"
)

// Options is the immutable configuration of a report build.
type Options struct {
	// PageSize is the number of body rows per slide.
	PageSize int

	// Columns are the rendered columns, in display order.
	Columns []Column

	// Monetary are the columns summed on the totals row.
	Monetary []Column

	// Canvas is the slide size. Zero uses the size declared by the document.
	Canvas Size

	// Box is the table bounding box.
	Box Size

	Styles Styles

	// CoverSlide and CoverShape locate the client header box.
	// An empty CoverShape skips the cover text.
	CoverSlide int
	CoverShape string

	// StrictDates rejects non-date values in date columns.
	StrictDates bool

	// TotalLabel is written into the first rendered column of the totals row.
	TotalLabel string
}

// DefaultOptions returns the standard report: 10 rows per page, the client
// columns left to the cover slide and a 12.3 x 5.2 inch table on a 16:9 slide.
func DefaultOptions() Options {
	return Options{
		PageSize:   10,
		Columns:    RenderedColumns(true),
		Monetary:   DefaultMonetaryColumns(),
		Canvas:     Size{Width: 12188952, Height: 6858000},
		Box:        Size{Width: Inches(12.3), Height: Inches(5.2)},
		Styles:     DefaultStyles(),
		CoverShape: "info_cliente",
		TotalLabel: "TOTAL",
	}
}

// Validate checks the options for consistency.
func (o Options) Validate() error {
	var errs []error

	if o.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("page size must be positive, got %d", o.PageSize))
	}
	if len(o.Columns) == 0 {
		errs = append(errs, errors.New("at least one rendered column is required"))
	}

	seen := make(map[Column]bool, len(o.Columns))
	for _, c := range o.Columns {
		if !c.Valid() {
			errs = append(errs, fmt.Errorf("unknown rendered column %d", int(c)))
			continue
		}
		if seen[c] {
			errs = append(errs, fmt.Errorf("column %q rendered twice", c.Name()))
		}
		seen[c] = true
	}

	for _, c := range o.Monetary {
		if !c.Valid() {
			errs = append(errs, fmt.Errorf("unknown monetary column %d", int(c)))
		}
		if len(o.Columns) > 0 && c == o.Columns[0] {
			errs = append(errs, fmt.Errorf("monetary column %q cannot be the first rendered column", c.Name()))
		}
	}

	if o.Box.Width <= 0 || o.Box.Height <= 0 {
		errs = append(errs, fmt.Errorf("table box must be positive, got %dx%d", o.Box.Width, o.Box.Height))
	}
	if o.Canvas.Width < 0 || o.Canvas.Height < 0 {
		errs = append(errs, fmt.Errorf("canvas must not be negative, got %dx%d", o.Canvas.Width, o.Canvas.Height))
	}
	if o.CoverSlide < 0 {
		errs = append(errs, fmt.Errorf("cover slide must not be negative, got %d", o.CoverSlide))
	}

	for _, role := range []struct {
		name  string
		style Style
	}{
		{"cover", o.Styles.Cover},
		{"header", o.Styles.Header},
		{"body", o.Styles.Body},
		{"total", o.Styles.Total},
	} {
		if role.style.Size <= 0 {
			errs = append(errs, fmt.Errorf("%s font size must be positive, got %g", role.name, role.style.Size))
		}
	}

	return errors.Join(errs...)
}
