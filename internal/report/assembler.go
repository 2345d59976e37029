// =============================================================================
// Cartera Report - Report Assembler
// =============================================================================
//
// Builds one report document from a table. The build is strictly linear:
//
//   validate -> cover header -> totals -> per page {layout, header row,
//   body rows, totals row on the last page} -> save
//
// Any failure aborts the build and no document bytes are returned. The
// Assembler keeps no state between builds; every build opens its own
// Document, so one Assembler may serve concurrent callers.
//
// =============================================================================

package report

import (
	"errors"
	"fmt"

	"github.com/ginjaninja78/cartera-report/internal/logger"
	"github.com/ginjaninja78/cartera-report/internal/table"
)

// Result is a finished report.
type Result struct {
	// Data is the serialized document.
	Data []byte

	Rows   int
	Pages  int
	Totals Totals
}

// Assembler builds reports with a fixed configuration.
type Assembler struct {
	opts Options
	open DocumentOpener
	log  logger.Logger
}

// NewAssembler creates an Assembler.
//
// PARAMETERS:
//   - opts: The report configuration, checked with Options.Validate.
//   - open: Returns a fresh output document for each build.
//   - log:  Logger for build diagnostics. Nil discards them.
func NewAssembler(opts Options, open DocumentOpener, log logger.Logger) (*Assembler, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report options: %w", err)
	}
	if open == nil {
		return nil, errors.New("document opener is required")
	}
	if log == nil {
		log = logger.Nop()
	}

	opts.Columns = append([]Column(nil), opts.Columns...)
	opts.Monetary = append([]Column(nil), opts.Monetary...)

	return &Assembler{opts: opts, open: open, log: log}, nil
}

// Options returns the configuration of the Assembler.
func (a *Assembler) Options() Options {
	o := a.opts
	o.Columns = append([]Column(nil), o.Columns...)
	o.Monetary = append([]Column(nil), o.Monetary...)
	return o
}

// Build validates t and renders it.
func (a *Assembler) Build(t *table.Table) (*Result, error) {
	ds, err := Validate(t)
	if err != nil {
		return nil, err
	}
	return a.BuildDataset(ds)
}

// BuildDataset renders an already validated dataset.
func (a *Assembler) BuildDataset(ds *Dataset) (*Result, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, ErrEmptyDataset
	}

	doc, err := a.open()
	if err != nil {
		return nil, err
	}

	// Cover page
	if a.opts.CoverShape != "" {
		first := ds.Row(0)
		header := []string{first.Get(Cliente).String(), first.Get(RUTCliente).String()}
		if err := doc.SetCoverText(a.opts.CoverSlide, a.opts.CoverShape, header, a.opts.Styles.Cover); err != nil {
			return nil, fmt.Errorf("failed to write client header: %w", err)
		}
	}

	// Totals over the whole dataset
	totals := ComputeTotals(ds, a.opts.Monetary)
	for _, c := range totals.Columns() {
		if n := totals.Skipped[c]; n > 0 {
			a.log.Warn("Column %q: %d non-numeric value(s) counted as zero in the total", c.Name(), n)
		}
	}

	canvas := a.opts.Canvas
	if canvas == (Size{}) {
		canvas = doc.SlideSize()
	}
	layout, err := ComputeLayout(canvas, a.opts.Box, len(a.opts.Columns), a.opts.PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to compute table layout: %w", err)
	}

	paginator, err := NewPaginator(ds, a.opts.PageSize)
	if err != nil {
		return nil, err
	}

	formatter := NewFormatter(a.opts.StrictDates)
	for page := range paginator.Pages() {
		if err := a.writePage(doc, layout, formatter, page, totals); err != nil {
			return nil, fmt.Errorf("failed to write page %d: %w", page.Index+1, err)
		}
	}

	data, err := doc.Save()
	if err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	a.log.Debug("Built report: %d row(s), %d page(s), %d byte(s)", ds.Len(), paginator.Count(), len(data))

	return &Result{
		Data:   data,
		Rows:   ds.Len(),
		Pages:  paginator.Count(),
		Totals: totals,
	}, nil
}

// writePage adds one table slide for page.
func (a *Assembler) writePage(doc Document, layout Layout, f *Formatter, page Page, totals Totals) error {
	columns := a.opts.Columns
	styles := a.opts.Styles

	rows := len(page.Rows) + 1
	if page.IsLast {
		rows++
	}

	tw, err := doc.AddTableSlide(rows, len(columns), layout)
	if err != nil {
		return err
	}

	put := func(row, col int, text string, style Style) error {
		if err := tw.SetCellText(row, col, text); err != nil {
			return err
		}
		return tw.SetCellFont(row, col, style)
	}

	for j, c := range columns {
		if err := put(0, j, c.Name(), styles.Header); err != nil {
			return err
		}
	}

	for i, row := range page.Rows {
		for j, c := range columns {
			text, err := f.Format(c, row.Get(c))
			if err != nil {
				var fe *FormatError
				if errors.As(err, &fe) {
					fe.Row = page.Index*a.opts.PageSize + i + 1
				}
				return err
			}
			if err := put(i+1, j, text, styles.Body); err != nil {
				return err
			}
		}
	}

	if !page.IsLast {
		return nil
	}

	last := rows - 1
	for j, c := range columns {
		var text string
		if j == 0 {
			text = a.opts.TotalLabel
		} else if sum, ok := totals.Sum(c); ok {
			text = FormatAmount(sum)
		}
		if err := put(last, j, text, styles.Total); err != nil {
			return err
		}
	}
	return nil
}
