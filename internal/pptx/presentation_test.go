package pptx

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	ppt "github.com/VantageDataChat/GoPPT"
)

func newDeck(t *testing.T) *Presentation {
	t.Helper()

	p, err := New(DefaultOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestNewBuiltinTemplate(t *testing.T) {
	p := newDeck(t)

	if w, h := p.SlideSize(); w != 12188952 || h != 6858000 {
		t.Errorf("SlideSize = %dx%d, want 12188952x6858000", w, h)
	}
	if p.SlideCount() != 1 {
		t.Errorf("SlideCount = %d, want 1", p.SlideCount())
	}
	if p.Layouts() != 1 {
		t.Errorf("Layouts = %d, want 1", p.Layouts())
	}

	if text, ok := p.ShapeText(0, "Titulo"); !ok || text != "Reporte Cartera Vigente" {
		t.Errorf("title = %q (found %v)", text, ok)
	}
	if text, ok := p.ShapeText(0, "info_cliente"); !ok || text != "" {
		t.Errorf("cover box = %q (found %v), want an empty box", text, ok)
	}
}

func TestNewFillsZeroOptions(t *testing.T) {
	p, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if w, h := p.SlideSize(); w != 12188952 || h != 6858000 {
		t.Errorf("SlideSize = %dx%d", w, h)
	}
	if _, ok := p.ShapeText(0, "Titulo"); !ok {
		t.Error("title box missing")
	}
	if err := p.SetShapeText(0, "info_cliente", []string{"x"}, Font{Size: 12}); err != nil {
		t.Errorf("SetShapeText on default cover shape: %v", err)
	}
}

func TestSetShapeText(t *testing.T) {
	p := newDeck(t)

	lines := []string{"Cliente", "RUT"}
	if err := p.SetShapeText(0, "info_cliente", lines, Font{Size: 20, Bold: true}); err != nil {
		t.Fatalf("SetShapeText: %v", err)
	}
	if text, _ := p.ShapeText(0, "info_cliente"); text != "Cliente\nRUT" {
		t.Errorf("cover text = %q", text)
	}

	shapes := p.deck.GetActiveSlide().GetShapes()
	if len(shapes) != 2 || shapes[1].GetName() != "info_cliente" {
		t.Fatalf("cover shapes changed: %d shape(s)", len(shapes))
	}
	box := shapes[1].(*ppt.RichTextShape)
	para := box.GetParagraphs()[0]
	if para.GetAlignment().Horizontal != ppt.HorizontalCenter {
		t.Errorf("alignment = %q, want centered", para.GetAlignment().Horizontal)
	}
	for _, e := range para.GetElements() {
		if tr, ok := e.(*ppt.TextRun); ok {
			if f := tr.GetFont(); f.Size != 20 || !f.Bold {
				t.Errorf("run %q font = %d pt bold=%v", tr.GetText(), f.Size, f.Bold)
			}
		}
	}

	// Replacing again leaves the new text only.
	if err := p.SetShapeText(0, "info_cliente", []string{"Otro"}, Font{Size: 20}); err != nil {
		t.Fatalf("SetShapeText again: %v", err)
	}
	if text, _ := p.ShapeText(0, "info_cliente"); text != "Otro" {
		t.Errorf("replacement text = %q", text)
	}
	if text, _ := p.ShapeText(0, "Titulo"); text != "Reporte Cartera Vigente" {
		t.Errorf("title shape was modified: %q", text)
	}
}

func TestSetShapeTextErrors(t *testing.T) {
	p := newDeck(t)

	if err := p.SetShapeText(0, "no_existe", []string{"x"}, Font{}); !errors.Is(err, ErrShapeNotFound) {
		t.Errorf("unknown shape: err = %v, want ErrShapeNotFound", err)
	}
	if err := p.SetShapeText(3, "info_cliente", []string{"x"}, Font{}); err == nil {
		t.Error("slide out of range: expected error")
	}
}

func TestAddSlideAndTable(t *testing.T) {
	p := newDeck(t)

	s, err := p.AddSlide(0)
	if err != nil {
		t.Fatalf("AddSlide: %v", err)
	}
	frame := Frame{X: 100, Y: 200, ColumnWidth: 1000, RowHeight: 300}
	tbl, err := s.AddTable(3, 2, frame)
	if err != nil {
		t.Fatalf("AddTable: %v", err)
	}
	if tbl.Rows() != 3 || tbl.Cols() != 2 {
		t.Errorf("table = %dx%d, want 3x2", tbl.Rows(), tbl.Cols())
	}

	shape := tbl.shape
	if shape.GetOffsetX() != 100 || shape.GetOffsetY() != 200 {
		t.Errorf("offset = (%d,%d)", shape.GetOffsetX(), shape.GetOffsetY())
	}
	if shape.GetWidth() != 2000 || shape.GetHeight() != 900 {
		t.Errorf("size = %dx%d, want 2000x900", shape.GetWidth(), shape.GetHeight())
	}
	if shape.GetName() != "Tabla 1" {
		t.Errorf("name = %q", shape.GetName())
	}

	if err := tbl.SetCellText(0, 1, "Monto"); err != nil {
		t.Fatalf("SetCellText: %v", err)
	}
	if err := tbl.SetCellFont(0, 1, Font{Size: 9.6, Bold: true}); err != nil {
		t.Fatalf("SetCellFont: %v", err)
	}
	if err := tbl.SetCellText(0, 1, "Monto Saldo"); err != nil {
		t.Fatalf("SetCellText again: %v", err)
	}
	if got := tbl.CellText(0, 1); got != "Monto Saldo" {
		t.Errorf("CellText = %q", got)
	}
	if got := tbl.CellFont(0, 1); got != (Font{Size: 10, Bold: true}) {
		t.Errorf("CellFont = %+v, want 10 pt bold", got)
	}
	runs := 0
	for _, para := range shape.GetCell(0, 1).GetParagraphs() {
		runs += len(para.GetElements())
	}
	if runs != 1 {
		t.Errorf("cell holds %d run(s), want 1", runs)
	}

	if err := tbl.SetCellText(3, 0, "x"); err == nil {
		t.Error("row out of range: expected error")
	}
	if err := tbl.SetCellFont(0, 2, Font{}); err == nil {
		t.Error("column out of range: expected error")
	}
	if tbl.CellText(9, 9) != "" {
		t.Error("CellText out of range should be empty")
	}

	if p.SlideCount() != 2 {
		t.Errorf("SlideCount = %d, want 2", p.SlideCount())
	}
	if got := len(p.Tables(1)); got != 1 {
		t.Errorf("tables on slide 2 = %d, want 1", got)
	}
}

func TestAddSlideErrors(t *testing.T) {
	p := newDeck(t)

	if _, err := p.AddSlide(1); err == nil {
		t.Error("layout out of range: expected error")
	}

	s, err := p.AddSlide(0)
	if err != nil {
		t.Fatalf("AddSlide: %v", err)
	}
	if _, err := s.AddTable(0, 3, Frame{ColumnWidth: 1, RowHeight: 1}); err == nil {
		t.Error("zero rows: expected error")
	}
	if _, err := s.AddTable(2, 3, Frame{}); err == nil {
		t.Error("zero cell size: expected error")
	}
}

func buildDeck(t *testing.T) *Presentation {
	t.Helper()

	p := newDeck(t)
	if err := p.SetShapeText(0, "info_cliente", []string{"ACME SPA", "76.123.456-7"}, Font{Size: 20, Bold: true}); err != nil {
		t.Fatalf("SetShapeText: %v", err)
	}
	for page := 0; page < 2; page++ {
		s, err := p.AddSlide(0)
		if err != nil {
			t.Fatalf("AddSlide: %v", err)
		}
		tbl, err := s.AddTable(2, 2, Frame{ColumnWidth: 1000, RowHeight: 300})
		if err != nil {
			t.Fatalf("AddTable: %v", err)
		}
		if err := tbl.SetCellText(1, 1, "1,500.00"); err != nil {
			t.Fatalf("SetCellText: %v", err)
		}
	}
	return p
}

func TestSaveIsDeterministic(t *testing.T) {
	p := buildDeck(t)

	first, err := p.Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	second, err := p.Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("saving the same deck twice produced different bytes")
	}

	other, err := buildDeck(t).Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !bytes.Equal(first, other) {
		t.Error("two identical decks produced different bytes")
	}
}

func TestOpenSavedDeck(t *testing.T) {
	data, err := buildDeck(t).Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	p, err := Open(data)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if p.SlideCount() != 3 {
		t.Errorf("SlideCount = %d, want 3", p.SlideCount())
	}
	if w, h := p.SlideSize(); w != 12188952 || h != 6858000 {
		t.Errorf("SlideSize = %dx%d", w, h)
	}
	if text, ok := p.ShapeText(0, "info_cliente"); !ok || !strings.Contains(text, "ACME SPA") {
		t.Errorf("cover text after reopening = %q (found %v)", text, ok)
	}
	tables := p.Tables(2)
	if len(tables) != 1 || tables[0].CellText(1, 1) != "1,500.00" {
		t.Errorf("table on slide 3 not read back: %d table(s)", len(tables))
	}

	if _, err := p.AddSlide(0); err != nil {
		t.Fatalf("AddSlide: %v", err)
	}
	if p.SlideCount() != 4 {
		t.Errorf("SlideCount after AddSlide = %d, want 4", p.SlideCount())
	}
	if _, err := p.Save(); err != nil {
		t.Errorf("Save of reopened deck: %v", err)
	}
}

func TestOpenRejectsInvalidPackages(t *testing.T) {
	if _, err := Open([]byte("not a zip")); err == nil {
		t.Error("expected error for non-zip input")
	}
	if _, err := Open(nil); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestFontRoundsToWholePoints(t *testing.T) {
	tests := []struct {
		size float64
		want int
	}{
		{9, 9},
		{10.5, 11},
		{12.4, 12},
		{0, 1},
	}
	for _, tt := range tests {
		f := ppt.NewFont()
		Font{Size: tt.size}.apply(f)
		if f.Size != tt.want {
			t.Errorf("size %v -> %d, want %d", tt.size, f.Size, tt.want)
		}
	}
}
