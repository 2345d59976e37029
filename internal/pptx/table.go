package pptx

import (
	"fmt"
	"strconv"
	"strings"

	ppt "github.com/VantageDataChat/GoPPT"
)

// Frame positions a table on a slide. All values are EMU.
type Frame struct {
	X           int64
	Y           int64
	ColumnWidth int64
	RowHeight   int64
}

// Table is a grid of text cells on an added slide.
type Table struct {
	shape *ppt.TableShape
}

// AddTable places a rows x cols table on the slide. GoPPT spreads the frame
// evenly, so every column is ColumnWidth wide and every row RowHeight high.
func (s *Slide) AddTable(rows, cols int, frame Frame) (*Table, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid table size %dx%d", rows, cols)
	}
	if frame.ColumnWidth <= 0 || frame.RowHeight <= 0 {
		return nil, fmt.Errorf("invalid table cell size %dx%d EMU", frame.ColumnWidth, frame.RowHeight)
	}

	s.tables++
	shape := s.slide.AddTable(rows, cols)
	shape.SetName("Tabla " + strconv.Itoa(s.tables))
	shape.SetOffsetX(frame.X)
	shape.SetOffsetY(frame.Y)
	shape.SetWidth(frame.ColumnWidth * int64(cols)).SetHeight(frame.RowHeight * int64(rows))

	return &Table{shape: shape}, nil
}

// Rows returns the number of rows.
func (t *Table) Rows() int { return t.shape.GetNumRows() }

// Cols returns the number of columns.
func (t *Table) Cols() int { return t.shape.GetNumCols() }

// run returns the single text run of a cell, creating it on first use.
func (t *Table) run(row, col int) (*ppt.TextRun, error) {
	c := t.shape.GetCell(row, col)
	if c == nil {
		return nil, fmt.Errorf("cell (%d,%d) out of range for %dx%d table", row, col, t.Rows(), t.Cols())
	}
	if tr := firstRun(c); tr != nil {
		return tr, nil
	}
	c.SetText("")
	return firstRun(c), nil
}

func firstRun(c *ppt.TableCell) *ppt.TextRun {
	for _, p := range c.GetParagraphs() {
		for _, e := range p.GetElements() {
			if tr, ok := e.(*ppt.TextRun); ok {
				return tr
			}
		}
	}
	return nil
}

// SetCellText sets the text of a cell.
func (t *Table) SetCellText(row, col int, text string) error {
	tr, err := t.run(row, col)
	if err != nil {
		return err
	}
	tr.SetText(text)
	return nil
}

// SetCellFont sets the run formatting of a cell.
func (t *Table) SetCellFont(row, col int, font Font) error {
	tr, err := t.run(row, col)
	if err != nil {
		return err
	}
	font.apply(tr.GetFont())
	return nil
}

// CellText returns the text of a cell, or "" when out of range.
func (t *Table) CellText(row, col int) string {
	c := t.shape.GetCell(row, col)
	if c == nil {
		return ""
	}
	if tr := firstRun(c); tr != nil {
		return tr.GetText()
	}
	return ""
}

// CellFont returns the formatting of a cell's text.
func (t *Table) CellFont(row, col int) Font {
	c := t.shape.GetCell(row, col)
	if c == nil {
		return Font{}
	}
	tr := firstRun(c)
	if tr == nil {
		return Font{}
	}
	f := tr.GetFont()
	return Font{Size: float64(f.Size), Bold: f.Bold}
}

// Tables returns the tables found on a slide, in shape order.
func (p *Presentation) Tables(slide int) []*Table {
	s, err := p.deck.GetSlide(slide)
	if err != nil {
		return nil
	}
	var out []*Table
	for _, sh := range s.GetShapes() {
		if ts, ok := sh.(*ppt.TableShape); ok {
			out = append(out, &Table{shape: ts})
		}
	}
	return out
}

// ShapeText returns the text of a named shape, lines joined by "\n", and
// whether the shape exists.
func (p *Presentation) ShapeText(slide int, shape string) (string, bool) {
	s, err := p.deck.GetSlide(slide)
	if err != nil {
		return "", false
	}
	for _, sh := range s.GetShapes() {
		if sh.GetName() != shape {
			continue
		}
		var text strings.Builder
		var paragraphs []*ppt.Paragraph
		switch rt := sh.(type) {
		case *ppt.RichTextShape:
			paragraphs = rt.GetParagraphs()
		case *ppt.PlaceholderShape:
			paragraphs = rt.GetParagraphs()
		}
		for _, para := range paragraphs {
			if len(para.GetElements()) == 0 {
				continue
			}
			if text.Len() > 0 {
				text.WriteByte('\n')
			}
			for _, e := range para.GetElements() {
				switch el := e.(type) {
				case *ppt.TextRun:
					text.WriteString(el.GetText())
				case *ppt.BreakElement:
					text.WriteByte('\n')
				}
			}
		}
		return text.String(), true
	}
	return "", false
}
