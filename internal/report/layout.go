// =============================================================================
// Cartera Report - Table Layout
// =============================================================================
//
// Computes the geometry of a page table on a slide. All lengths are integer
// EMU (914400 per inch) and every division truncates.
//
//   left       = (canvas.W - box.W) / 2      horizontally centered
//   top        = (canvas.H - box.H) / 4      upper part of the slide
//   colWidth   = box.W / columns
//   rowHeight  = box.H / pageSize            configured page size, even on
//                                            a shorter last page
//
// =============================================================================

package report

import "fmt"

// EMUPerInch is the number of English Metric Units in one inch.
const EMUPerInch = 914400

// Inches converts inches to EMU, truncating.
func Inches(in float64) int64 {
	return int64(in * EMUPerInch)
}

// Size is a width and height in EMU.
type Size struct {
	Width  int64
	Height int64
}

// Point is a position in EMU from the top-left corner of the slide.
type Point struct {
	X int64
	Y int64
}

// Layout is the geometry shared by every page table of a report.
type Layout struct {
	Origin      Point
	Box         Size
	Columns     int
	ColumnWidth int64
	RowHeight   int64
}

// ComputeLayout derives the table geometry from the canvas and box sizes.
func ComputeLayout(canvas, box Size, columns, pageSize int) (Layout, error) {
	if columns <= 0 {
		return Layout{}, fmt.Errorf("column count must be positive, got %d", columns)
	}
	if pageSize <= 0 {
		return Layout{}, fmt.Errorf("page size must be positive, got %d", pageSize)
	}
	if box.Width > canvas.Width || box.Height > canvas.Height {
		return Layout{}, fmt.Errorf("table box %dx%d does not fit canvas %dx%d",
			box.Width, box.Height, canvas.Width, canvas.Height)
	}

	return Layout{
		Origin: Point{
			X: (canvas.Width - box.Width) / 2,
			Y: (canvas.Height - box.Height) / 4,
		},
		Box:         box,
		Columns:     columns,
		ColumnWidth: box.Width / int64(columns),
		RowHeight:   box.Height / int64(pageSize),
	}, nil
}
