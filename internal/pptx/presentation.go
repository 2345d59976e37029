// =============================================================================
// Cartera Report - Presentation Builder
// =============================================================================
//
// Builds .pptx decks on top of GoPPT. The starting deck is either the
// built-in cover (New) or a user supplied .pptx template (Open).
//
// OPERATIONS:
//   - SetShapeText: replace the text of a named shape on an existing slide
//   - AddSlide:     append a slide based on one of the deck's layouts
//   - AddTable:     place a table on an added slide
//   - Save:         serialize the deck to bytes
//
// Save does not modify the deck, so it can be called more than once and
// always returns the same bytes for the same content.
//
// =============================================================================

package pptx

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"time"

	ppt "github.com/VantageDataChat/GoPPT"
)

// ErrShapeNotFound is returned when a named shape does not exist on a slide.
var ErrShapeNotFound = errors.New("shape not found")

// documentTime is stamped as the created and modified date of every deck.
var documentTime = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

// =============================================================================
// TYPES
// =============================================================================

// Font is the run formatting applied to text.
type Font struct {
	// Size is the font size in points. GoPPT stores whole points.
	Size float64
	Bold bool
}

func (f Font) apply(pf *ppt.Font) {
	pf.SetSize(int(math.Round(f.Size))).SetBold(f.Bold)
}

// Options configures the built-in deck.
type Options struct {
	// SlideWidth and SlideHeight are the canvas size in EMU.
	SlideWidth  int64
	SlideHeight int64

	// Title is written on the cover slide. Empty leaves it blank.
	Title string

	// CoverShape names the cover text box that receives the client header.
	CoverShape string
}

// DefaultOptions returns a 13.33 x 7.5 inch deck with an "info_cliente" cover box.
func DefaultOptions() Options {
	return Options{
		SlideWidth:  12188952,
		SlideHeight: 6858000,
		Title:       "Reporte Cartera Vigente",
		CoverShape:  "info_cliente",
	}
}

// Presentation is a deck being built. It is not safe for concurrent use.
type Presentation struct {
	deck *ppt.Presentation
}

// =============================================================================
// CONSTRUCTORS
// =============================================================================

// New creates a deck holding one cover slide with a title box and the
// (empty) client header box.
func New(opts Options) (*Presentation, error) {
	def := DefaultOptions()
	if opts.SlideWidth <= 0 || opts.SlideHeight <= 0 {
		opts.SlideWidth, opts.SlideHeight = def.SlideWidth, def.SlideHeight
	}
	if opts.CoverShape == "" {
		opts.CoverShape = def.CoverShape
	}

	deck := ppt.New()
	deck.GetLayout().SetCustomLayout(opts.SlideWidth, opts.SlideHeight)
	deck.GetDocumentProperties().Title = opts.Title
	deck.GetDocumentProperties().Creator = "Cartera Report"
	deck.GetDocumentProperties().LastModifiedBy = "Cartera Report"

	cover := deck.GetActiveSlide()
	margin := ppt.Inch(0.5)
	width := opts.SlideWidth - 2*margin

	title := cover.CreateRichTextShape()
	title.SetName("Titulo")
	title.SetOffsetX(margin).SetOffsetY(opts.SlideHeight / 5)
	title.SetWidth(width).SetHeight(opts.SlideHeight / 6)
	centered(title.GetActiveParagraph())
	if opts.Title != "" {
		title.CreateTextRun(opts.Title).GetFont().SetSize(32).SetBold(true)
	}

	header := cover.CreateRichTextShape()
	header.SetName(opts.CoverShape)
	header.SetOffsetX(margin).SetOffsetY(opts.SlideHeight * 2 / 5)
	header.SetWidth(width).SetHeight(opts.SlideHeight / 4)
	centered(header.GetActiveParagraph())

	return wrap(deck), nil
}

// Open creates a deck from the bytes of a .pptx template. The slides of the
// template are kept; the bytes are only read.
func Open(data []byte) (*Presentation, error) {
	deck, err := ppt.ReadFrom(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("invalid presentation: %w", err)
	}
	if deck.GetSlideCount() == 0 {
		return nil, fmt.Errorf("invalid presentation: template has no slides")
	}
	return wrap(deck), nil
}

func wrap(deck *ppt.Presentation) *Presentation {
	props := deck.GetDocumentProperties()
	props.Created = documentTime
	props.Modified = documentTime
	return &Presentation{deck: deck}
}

func centered(p *ppt.Paragraph) {
	p.SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalCenter))
}

// =============================================================================
// ACCESSORS
// =============================================================================

// SlideSize returns the canvas size in EMU.
func (p *Presentation) SlideSize() (width, height int64) {
	l := p.deck.GetLayout()
	return l.CX, l.CY
}

// SlideCount returns the number of slides, added ones included.
func (p *Presentation) SlideCount() int {
	return p.deck.GetSlideCount()
}

// Layouts returns the number of layouts AddSlide accepts. Decks without
// named layouts expose the single blank layout GoPPT writes.
func (p *Presentation) Layouts() int {
	if n := len(p.deck.GetSlideLayouts()); n > 0 {
		return n
	}
	return 1
}

// =============================================================================
// SHAPE TEXT
// =============================================================================

// SetShapeText replaces a named shape on an existing slide with a text box
// of the same name, position and size holding one paragraph whose lines are
// separated by line breaks. The paragraph takes the alignment of the shape's
// first non-empty paragraph; shapes without text are centered.
//
// PARAMETERS:
//   - slide: 0-based index of the slide.
//   - shape: The shape name.
//   - lines: The text lines.
//   - font:  The run formatting.
func (p *Presentation) SetShapeText(slide int, shape string, lines []string, font Font) error {
	s, err := p.deck.GetSlide(slide)
	if err != nil {
		return fmt.Errorf("slide %d out of range: deck has %d slide(s)", slide, p.deck.GetSlideCount())
	}

	shapes := s.GetShapes()
	idx := -1
	for i, sh := range shapes {
		if sh.GetName() == shape {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %q on slide %d", ErrShapeNotFound, shape, slide+1)
	}
	old := shapes[idx]

	box := ppt.NewRichTextShape()
	box.SetName(shape)
	box.SetOffsetX(old.GetOffsetX()).SetOffsetY(old.GetOffsetY())
	box.SetWidth(old.GetWidth()).SetHeight(old.GetHeight())

	para := box.GetActiveParagraph()
	if prev := firstParagraph(old); prev != nil && prev.GetAlignment() != nil {
		para.SetAlignment(prev.GetAlignment())
	} else {
		centered(para)
	}
	for i, line := range lines {
		if i > 0 {
			para.CreateBreak()
		}
		font.apply(para.CreateTextRun(line).GetFont())
	}

	// Replaced in place so the shape keeps its z-order.
	shapes[idx] = box
	return nil
}

func firstParagraph(sh ppt.Shape) *ppt.Paragraph {
	var paragraphs []*ppt.Paragraph
	switch s := sh.(type) {
	case *ppt.RichTextShape:
		paragraphs = s.GetParagraphs()
	case *ppt.PlaceholderShape:
		paragraphs = s.GetParagraphs()
	}
	for _, para := range paragraphs {
		if len(para.GetElements()) > 0 {
			return para
		}
	}
	return nil
}

// =============================================================================
// SLIDES
// =============================================================================

// Slide is a slide appended by AddSlide.
type Slide struct {
	slide  *ppt.Slide
	tables int
}

// AddSlide appends a slide that uses the layout at index layout.
func (p *Presentation) AddSlide(layout int) (*Slide, error) {
	if layout < 0 || layout >= p.Layouts() {
		return nil, fmt.Errorf("layout %d out of range: template has %d layout(s)", layout, p.Layouts())
	}

	layouts := p.deck.GetSlideLayouts()
	if len(layouts) == 0 {
		return &Slide{slide: p.deck.CreateSlide()}, nil
	}
	s, err := p.deck.AddSlideWithLayout(layouts[layout].Name)
	if err != nil {
		return nil, fmt.Errorf("failed to add slide: %w", err)
	}
	return &Slide{slide: s}, nil
}

// =============================================================================
// SAVE
// =============================================================================

// Save serializes the deck.
func (p *Presentation) Save() ([]byte, error) {
	w, err := ppt.NewWriter(p.deck, ppt.WriterPowerPoint2007)
	if err != nil {
		return nil, fmt.Errorf("failed to create presentation writer: %w", err)
	}

	var buf bytes.Buffer
	if err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to save presentation: %w", err)
	}
	return buf.Bytes(), nil
}
