// =============================================================================
// Cartera Report - PDF Conversion
// =============================================================================
//
// Converts generated decks to PDF with LibreOffice in headless mode:
//
//   soffice --headless --convert-to pdf --outdir <tmp> <tmp>/<uuid>.pptx
//
// Every conversion works in its own temporary directory, which is removed on
// every exit path. Each run also gets its own LibreOffice profile inside that
// directory, so concurrent conversions do not contend for the user profile.
//
// =============================================================================

package office

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/cartera-report/internal/logger"
	"github.com/ginjaninja78/cartera-report/pkg/utils"
	"github.com/google/uuid"
)

// ErrBinaryNotFound is returned when the converter executable cannot be located.
var ErrBinaryNotFound = errors.New("office converter binary not found")

// Conversion stages reported by ConversionError.
const (
	StagePrepare = "prepare"
	StageRun     = "run"
	StageOutput  = "output"
	StageMove    = "move"
)

// ConversionError reports a failed PDF conversion.
type ConversionError struct {
	// Stage is where the conversion failed.
	Stage string

	// Output holds what the converter printed, if anything.
	Output string

	Err error
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("pdf conversion failed (%s): %v", e.Stage, e.Err)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Options configures a Converter.
type Options struct {
	// Binary is the executable name or path. Default: "soffice".
	Binary string

	// Timeout bounds one conversion. Default: 2 minutes.
	Timeout time.Duration

	// TempDir is the parent of the per-conversion directories.
	// Default: os.TempDir().
	TempDir string

	Log logger.Logger
}

// Converter runs LibreOffice conversions. It is safe for concurrent use.
type Converter struct {
	binary  string
	timeout time.Duration
	tempDir string
	log     logger.Logger
}

// New creates a Converter. The binary is resolved on each conversion so a
// server can start before LibreOffice is installed.
func New(opts Options) *Converter {
	if opts.Binary == "" {
		opts.Binary = "soffice"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Minute
	}
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	return &Converter{
		binary:  opts.Binary,
		timeout: opts.Timeout,
		tempDir: opts.TempDir,
		log:     opts.Log,
	}
}

// Available reports whether the converter executable can be found.
func (c *Converter) Available() bool {
	_, ok := findBinary(c.binary)
	return ok
}

// ConvertBytes converts a deck and returns the PDF bytes.
func (c *Converter) ConvertBytes(ctx context.Context, deck []byte) ([]byte, error) {
	var pdf []byte
	err := c.convert(ctx, deck, func(path string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return &ConversionError{Stage: StageOutput, Err: err}
		}
		pdf = data
		return nil
	})
	return pdf, err
}

// ToPDF converts a deck and moves the PDF to finalPath.
//
// PARAMETERS:
//   - ctx:       Cancels the conversion.
//   - deck:      The .pptx bytes.
//   - finalPath: Destination of the PDF. Its directory must exist.
func (c *Converter) ToPDF(ctx context.Context, deck []byte, finalPath string) error {
	return c.convert(ctx, deck, func(path string) error {
		if err := utils.MoveFile(path, finalPath); err != nil {
			return &ConversionError{Stage: StageMove, Err: err}
		}
		return nil
	})
}

// convert runs one conversion in a private temporary directory and hands
// the produced PDF to done before the directory is removed.
func (c *Converter) convert(ctx context.Context, deck []byte, done func(pdfPath string) error) error {
	bin, ok := findBinary(c.binary)
	if !ok {
		return &ConversionError{Stage: StagePrepare, Err: fmt.Errorf("%w: %s", ErrBinaryNotFound, c.binary)}
	}

	dir, err := os.MkdirTemp(c.tempDir, "cartera-pdf-*")
	if err != nil {
		return &ConversionError{Stage: StagePrepare, Err: err}
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			c.log.Warn("Failed to remove temporary directory %s: %v", dir, err)
		}
	}()

	name := uuid.NewString()
	input := filepath.Join(dir, name+".pptx")
	if err := os.WriteFile(input, deck, 0600); err != nil {
		return &ConversionError{Stage: StagePrepare, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	profile := "file://" + filepath.ToSlash(filepath.Join(dir, "profile"))
	cmd := exec.CommandContext(ctx, bin,
		"-env:UserInstallation="+profile,
		"--headless",
		"--convert-to", "pdf",
		"--outdir", dir,
		input,
	)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	start := time.Now()
	c.log.Debug("Running %s on %d byte(s)", bin, len(deck))

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			err = fmt.Errorf("%w after %s", ctx.Err(), c.timeout)
		}
		return &ConversionError{Stage: StageRun, Output: strings.TrimSpace(output.String()), Err: err}
	}

	pdfPath := filepath.Join(dir, name+".pdf")
	if _, err := os.Stat(pdfPath); err != nil {
		return &ConversionError{
			Stage:  StageOutput,
			Output: strings.TrimSpace(output.String()),
			Err:    fmt.Errorf("converter produced no %s", filepath.Base(pdfPath)),
		}
	}

	c.log.Debug("Converted to PDF in %s", time.Since(start).Round(time.Millisecond))
	return done(pdfPath)
}
