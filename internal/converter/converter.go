// =============================================================================
// Cartera Report - Converter Module
// =============================================================================
//
// This module contains the single-file pipeline. It takes the raw bytes of an
// uploaded or discovered spreadsheet and returns a finished report.
//
// CONVERSION PIPELINE:
//   1. Read the spreadsheet (xlsx, xls or csv) into a table
//   2. Check the required columns and build the dataset
//   3. Assemble the deck (cover, paged tables, totals row)
//   4. Optionally convert the deck to PDF
//   5. Write the output file (file-based use only)
//
// CONCURRENCY:
//   A Converter holds only immutable settings. Every call builds its own
//   document, so one Converter can serve concurrent requests and the
//   batch workers at the same time.
//
// =============================================================================

package converter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/cartera-report/internal/config"
	"github.com/ginjaninja78/cartera-report/internal/logger"
	"github.com/ginjaninja78/cartera-report/internal/office"
	"github.com/ginjaninja78/cartera-report/internal/report"
	"github.com/ginjaninja78/cartera-report/internal/table"
)

// Content types of generated reports.
const (
	ContentTypePPTX = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	ContentTypePDF  = "application/pdf"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents a generated report.
type Result struct {
	// Data is the report file content.
	Data []byte

	// FileName is the suggested download name.
	FileName string

	// ContentType is the MIME type of Data.
	ContentType string

	// Stats contains processing statistics.
	Stats Stats
}

// Stats contains statistics about one build.
type Stats struct {
	// Rows is the number of data rows rendered.
	Rows int

	// Pages is the number of table slides.
	Pages int

	// SkippedCells is the number of non-numeric cells counted as zero in
	// the totals row.
	SkippedCells int

	// Duration is the time taken by the whole pipeline.
	Duration time.Duration
}

// InputError reports an upload that could not be read as a spreadsheet.
type InputError struct {
	Err error
}

func (e *InputError) Error() string { return "failed to read input: " + e.Err.Error() }

func (e *InputError) Unwrap() error { return e.Err }

// PDFConverter turns a deck into a PDF.
type PDFConverter interface {
	ConvertBytes(ctx context.Context, deck []byte) ([]byte, error)
	ToPDF(ctx context.Context, deck []byte, finalPath string) error
	Available() bool
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter runs the pipeline with a fixed configuration.
type Converter struct {
	assembler *report.Assembler
	input     table.Options
	pdf       PDFConverter
	pdfName   string
	log       logger.Logger
}

// New creates a Converter from the application configuration.
//
// PARAMETERS:
//   - cfg: A loaded and validated configuration.
//   - log: Logger for pipeline diagnostics. Nil discards them.
//
// RETURNS:
//   - The Converter.
//   - An error if the report options are invalid or the template
//     cannot be read.
func New(cfg *config.Config, log logger.Logger) (*Converter, error) {
	if log == nil {
		log = logger.Nop()
	}

	opts, err := cfg.ReportOptions()
	if err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}

	tmpl, err := cfg.Template()
	if err != nil {
		return nil, err
	}
	if tmpl != nil {
		log.Debug("Using template %s", cfg.Report.TemplatePath)
	}

	open := report.PPTXOpener(tmpl, cfg.PresentationOptions(), cfg.Report.LayoutIndex)
	assembler, err := report.NewAssembler(opts, open, log)
	if err != nil {
		return nil, err
	}

	return &Converter{
		assembler: assembler,
		input: table.Options{
			HeaderRow: cfg.Input.HeaderRow,
			Delimiter: cfg.Input.CSVDelimiter,
			Encoding:  cfg.Input.CSVEncoding,
		},
		pdf: office.New(office.Options{
			Binary:  cfg.Converter.Binary,
			Timeout: cfg.Converter.Timeout,
			Log:     log,
		}),
		pdfName: cfg.Converter.PDFFilename,
		log:     log,
	}, nil
}

// DefaultHeaderRow is the configured number of banner rows above the header.
func (c *Converter) DefaultHeaderRow() int { return c.input.HeaderRow }

// PDFAvailable reports whether the PDF converter binary can be found.
func (c *Converter) PDFAvailable() bool { return c.pdf.Available() }

// PDFFileName is the download name of PDF reports.
func (c *Converter) PDFFileName() string { return c.pdfName }

// PPTXFileName is the download name of deck reports.
func (c *Converter) PPTXFileName() string {
	return strings.TrimSuffix(c.pdfName, filepath.Ext(c.pdfName)) + ".pptx"
}

// =============================================================================
// MAIN PROCESSING FUNCTIONS
// =============================================================================

// Check reads data and verifies the required columns without building a
// report.
//
// RETURNS:
//   - The validated dataset.
//   - An *InputError if data is not a readable spreadsheet, or the
//     *report.SchemaError / report.ErrEmptyDataset from validation.
func (c *Converter) Check(data []byte, headerRow int) (*report.Dataset, error) {
	t, err := c.read(data, headerRow)
	if err != nil {
		return nil, err
	}
	return report.Validate(t)
}

// Generate builds the deck for data.
//
// PARAMETERS:
//   - ctx:       Checked before the build starts.
//   - data:      The raw spreadsheet.
//   - headerRow: Banner rows above the header.
func (c *Converter) Generate(ctx context.Context, data []byte, headerRow int) (*Result, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t, err := c.read(data, headerRow)
	if err != nil {
		return nil, err
	}
	c.log.Debug("Read %d row(s) and %d column(s)", t.Len(), len(t.Columns))

	built, err := c.assembler.Build(t)
	if err != nil {
		return nil, err
	}

	skipped := 0
	for _, n := range built.Totals.Skipped {
		skipped += n
	}

	return &Result{
		Data:        built.Data,
		FileName:    c.PPTXFileName(),
		ContentType: ContentTypePPTX,
		Stats: Stats{
			Rows:         built.Rows,
			Pages:        built.Pages,
			SkippedCells: skipped,
			Duration:     time.Since(start),
		},
	}, nil
}

// GeneratePDF builds the deck for data and converts it to PDF.
func (c *Converter) GeneratePDF(ctx context.Context, data []byte, headerRow int) (*Result, error) {
	start := time.Now()

	res, err := c.Generate(ctx, data, headerRow)
	if err != nil {
		return nil, err
	}

	pdf, err := c.pdf.ConvertBytes(ctx, res.Data)
	if err != nil {
		return nil, err
	}

	res.Data = pdf
	res.FileName = c.pdfName
	res.ContentType = ContentTypePDF
	res.Stats.Duration = time.Since(start)
	return res, nil
}

// RunFile builds the report for the spreadsheet at in and writes it to out.
//
// PARAMETERS:
//   - in:  Path of the spreadsheet.
//   - out: Path of the report. Its directory is created if needed.
//   - pdf: Convert the deck to PDF instead of writing the .pptx.
//
// RETURNS:
//   - The Result. Data holds the deck even when a PDF was written.
//   - An error if any step fails. No output file is left behind then.
func (c *Converter) RunFile(ctx context.Context, in, out string, pdf bool) (*Result, error) {
	start := time.Now()
	log := c.log.With("file", filepath.Base(in))
	log.Info("Processing file: %s", in)

	data, err := os.ReadFile(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", in, err)
	}

	res, err := c.Generate(ctx, data, c.input.HeaderRow)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	if pdf {
		if err := c.pdf.ToPDF(ctx, res.Data, out); err != nil {
			return nil, err
		}
		res.FileName = filepath.Base(out)
		res.ContentType = ContentTypePDF
	} else {
		if err := os.WriteFile(out, res.Data, 0644); err != nil {
			os.Remove(out)
			return nil, fmt.Errorf("failed to write output: %w", err)
		}
		res.FileName = filepath.Base(out)
	}

	res.Stats.Duration = time.Since(start)
	log.Info("Wrote %s (%d row(s), %d page(s)) in %s",
		out, res.Stats.Rows, res.Stats.Pages, res.Stats.Duration.Round(time.Millisecond))
	return res, nil
}

// read parses data with the configured CSV settings and the given header offset.
func (c *Converter) read(data []byte, headerRow int) (*table.Table, error) {
	opts := c.input
	opts.HeaderRow = headerRow

	t, err := table.Read(data, opts)
	if err != nil {
		return nil, &InputError{Err: err}
	}
	return t, nil
}
