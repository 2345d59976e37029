package report

import (
	"fmt"

	"github.com/ginjaninja78/cartera-report/internal/pptx"
)

// Document is the output document the Assembler writes into.
type Document interface {
	// SlideSize returns the canvas size declared by the document.
	SlideSize() Size

	// SetCoverText writes lines into a named shape of an existing slide.
	SetCoverText(slide int, shape string, lines []string, style Style) error

	// AddTableSlide appends a slide holding an empty rows x cols table.
	AddTableSlide(rows, cols int, l Layout) (TableWriter, error)

	// Save serializes the document.
	Save() ([]byte, error)
}

// TableWriter fills the cells of a table created by AddTableSlide.
type TableWriter interface {
	SetCellText(row, col int, text string) error
	SetCellFont(row, col int, style Style) error
}

// DocumentOpener returns a fresh Document for one build.
type DocumentOpener func() (Document, error)

// PPTXOpener opens a new presentation per build. With a nil template the
// built-in deck described by builtin is used; otherwise the template bytes
// are parsed again on every call and never modified.
func PPTXOpener(template []byte, builtin pptx.Options, layoutIndex int) DocumentOpener {
	return func() (Document, error) {
		var (
			p   *pptx.Presentation
			err error
		)
		if len(template) == 0 {
			p, err = pptx.New(builtin)
		} else {
			p, err = pptx.Open(template)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to open presentation template: %w", err)
		}
		return &pptxDocument{p: p, layout: layoutIndex}, nil
	}
}

type pptxDocument struct {
	p      *pptx.Presentation
	layout int
}

func (d *pptxDocument) SlideSize() Size {
	w, h := d.p.SlideSize()
	return Size{Width: w, Height: h}
}

func (d *pptxDocument) SetCoverText(slide int, shape string, lines []string, style Style) error {
	return d.p.SetShapeText(slide, shape, lines, pptxFont(style))
}

func (d *pptxDocument) AddTableSlide(rows, cols int, l Layout) (TableWriter, error) {
	s, err := d.p.AddSlide(d.layout)
	if err != nil {
		return nil, err
	}
	t, err := s.AddTable(rows, cols, pptx.Frame{
		X:           l.Origin.X,
		Y:           l.Origin.Y,
		ColumnWidth: l.ColumnWidth,
		RowHeight:   l.RowHeight,
	})
	if err != nil {
		return nil, err
	}
	return pptxTable{t}, nil
}

func (d *pptxDocument) Save() ([]byte, error) {
	return d.p.Save()
}

type pptxTable struct {
	t *pptx.Table
}

func (t pptxTable) SetCellText(row, col int, text string) error {
	return t.t.SetCellText(row, col, text)
}

func (t pptxTable) SetCellFont(row, col int, style Style) error {
	return t.t.SetCellFont(row, col, pptxFont(style))
}

func pptxFont(s Style) pptx.Font {
	return pptx.Font{Size: s.Size, Bold: s.Bold}
}
