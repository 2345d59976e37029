// =============================================================================
// Cartera Report - Process Command
// =============================================================================
//
// This file defines the 'process' command, which builds a report for every
// spreadsheet waiting in the input directory.
//
// COMMAND USAGE:
//   cartera process [flags]
//
// FLAGS:
//   --dry-run : Check the inputs without writing reports or archiving
//   --pdf     : Write PDF reports instead of decks
//   --file    : Process a single file instead of the input directory
//
// PROCESSING PIPELINE:
//   1. Discover *.xlsx, *.xls and *.csv files in the input directory
//   2. For each file (concurrently, at most process.max_concurrency at once):
//      a. Read the spreadsheet and check the required columns
//      b. Build the deck (and the PDF with --pdf)
//      c. Write the report to the output directory
//      d. Archive the input and a copy of the report
//   3. Write the processing summary
//
// Each file is built independently: a failure leaves that input in place
// and does not stop the others.
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/ginjaninja78/cartera-report/internal/config"
	"github.com/ginjaninja78/cartera-report/internal/converter"
	"github.com/ginjaninja78/cartera-report/internal/logger"
	"github.com/ginjaninja78/cartera-report/internal/office"
	"github.com/ginjaninja78/cartera-report/internal/report"
	"github.com/ginjaninja78/cartera-report/pkg/utils"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	// dryRun checks inputs without writing output files.
	dryRun bool

	// processPDF writes PDF reports.
	processPDF bool

	// filePath processes a single file instead of the input directory.
	filePath string
)

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Build reports for every spreadsheet in the input directory",
	Long: `The process command scans the input directory for spreadsheets and builds
one report per file. Files are processed concurrently and independently.

On success:
  - The report is placed in the output directory
  - The input is moved to the input archive
  - A copy of the report goes to the output archive

On error:
  - The input remains in the input directory
  - The failure is listed in the processing summary`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if processPDF {
			cfg.Process.PDF = true
		}
		summary, err := runProcess(ctx, cfg, log, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if summary.FailedFiles > 0 {
			return fmt.Errorf("%d of %d file(s) failed", summary.FailedFiles, summary.TotalFiles)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Check the inputs without writing reports")
	processCmd.Flags().BoolVar(&processPDF, "pdf", false, "Write PDF reports (default: process.pdf)")
	processCmd.Flags().StringVar(&filePath, "file", "", "Process a single file instead of the input directory")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// fileResult is the outcome of one input file.
type fileResult struct {
	input   string
	output  string
	archive string
	result  *converter.Result
	err     error
	elapsed time.Duration
}

// runProcess builds every discovered input and writes the summary.
func runProcess(ctx context.Context, cfg *config.Config, log logger.Logger, out io.Writer) (utils.ProcessingSummary, error) {
	summary := utils.ProcessingSummary{StartTime: time.Now()}
	p := cfg.Process

	fm := utils.NewFileManager(p.InputDir, p.OutputDir, p.ArchiveDir, p.OutputArchiveDir)
	fm.ArchiveOnSuccess = *p.ArchiveOnSuccess && !dryRun
	fm.UseTimestampSubdirs = p.UseTimestampSubdirs
	if err := fm.EnsureDirectories(); err != nil {
		return summary, err
	}

	conv, err := converter.New(cfg, log)
	if err != nil {
		return summary, err
	}
	if p.PDF && !conv.PDFAvailable() && !dryRun {
		return summary, fmt.Errorf("%w: %s (needed for process.pdf)", office.ErrBinaryNotFound, cfg.Converter.Binary)
	}

	// =========================================================================
	// STEP 1: DISCOVER INPUT FILES
	// =========================================================================

	var inputFiles []string
	if filePath != "" {
		inputFiles = []string{filePath}
	} else {
		inputFiles, err = fm.DiscoverInputFiles()
		if err != nil {
			return summary, fmt.Errorf("failed to discover input files: %w", err)
		}
	}

	if len(inputFiles) == 0 {
		fmt.Fprintf(out, "No spreadsheets found in %s\n", p.InputDir)
		return summary, nil
	}
	log.Info("Found %d file(s) to process", len(inputFiles))

	// =========================================================================
	// STEP 2: PROCESS FILES CONCURRENTLY
	// =========================================================================
	// A buffered channel works as a semaphore bounding the number of builds
	// in flight. Results are collected on a channel sized for every file.

	var wg sync.WaitGroup
	results := make(chan fileResult, len(inputFiles))
	slots := make(chan struct{}, p.MaxConcurrency)

	for _, file := range inputFiles {
		wg.Add(1)
		go func(input string) {
			defer wg.Done()

			select {
			case slots <- struct{}{}:
				defer func() { <-slots }()
			case <-ctx.Done():
				results <- fileResult{input: input, err: ctx.Err()}
				return
			}

			results <- processFile(ctx, conv, fm, p, log, input)
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// =========================================================================
	// STEP 3: COLLECT RESULTS
	// =========================================================================

	for r := range results {
		summary.TotalFiles++
		name := filepath.Base(r.input)

		if r.err != nil {
			summary.FailedFiles++
			summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
				InputFile:    r.input,
				ErrorType:    errorType(r.err),
				ErrorMessage: r.err.Error(),
			})
			log.Error("%s: %v", name, r.err)
			fmt.Fprintf(out, "  ✗ %s: %v\n", name, r.err)
			continue
		}

		summary.SuccessfulFiles++
		summary.TotalRows += r.result.Stats.Rows
		summary.TotalPages += r.result.Stats.Pages

		info := utils.ProcessedFileInfo{
			InputFile:   r.input,
			OutputFile:  r.output,
			ArchivePath: r.archive,
			Rows:        r.result.Stats.Rows,
			Pages:       r.result.Stats.Pages,
			ProcessTime: r.elapsed,
		}
		if st, err := os.Stat(r.output); err == nil {
			info.OutputBytes = st.Size()
		}
		summary.ProcessedFiles = append(summary.ProcessedFiles, info)

		target := r.output
		if dryRun {
			target = "(dry run)"
		}
		fmt.Fprintf(out, "  ✓ %s -> %s (%d row(s), %d page(s))\n", name, target, r.result.Stats.Rows, r.result.Stats.Pages)
	}

	// =========================================================================
	// STEP 4: SUMMARY
	// =========================================================================

	summary.EndTime = time.Now()
	fmt.Fprintf(out, "\nTotal files: %d, successful: %d, failed: %d, time elapsed: %s\n",
		summary.TotalFiles, summary.SuccessfulFiles, summary.FailedFiles,
		summary.EndTime.Sub(summary.StartTime).Round(time.Millisecond))

	if !dryRun {
		path, err := utils.WriteSummaryLog(summary, p.OutputDir)
		if err != nil {
			log.Warn("Failed to write summary log: %v", err)
		} else {
			fmt.Fprintf(out, "Summary written to %s\n", path)
		}
	}

	return summary, nil
}

// processFile builds the report of one input and archives it.
func processFile(ctx context.Context, conv *converter.Converter, fm *utils.FileManager, p config.ProcessConfig, log logger.Logger, input string) fileResult {
	start := time.Now()
	r := fileResult{input: input}

	if dryRun {
		data, err := os.ReadFile(input)
		if err != nil {
			r.err = fmt.Errorf("failed to read %s: %w", input, err)
			return r
		}
		r.result, r.err = conv.Generate(ctx, data, conv.DefaultHeaderRow())
		r.elapsed = time.Since(start)
		return r
	}

	ext := ".pptx"
	if p.PDF {
		ext = ".pdf"
	}
	name := utils.GenerateOutputFileName(p.OutputNameFormat, ext, map[string]string{
		"original": utils.OriginalName(input),
	})
	r.output = filepath.Join(p.OutputDir, name)

	r.result, r.err = conv.RunFile(ctx, input, r.output, p.PDF)
	r.elapsed = time.Since(start)
	if r.err != nil {
		return r
	}

	// Archival problems do not undo a finished report.
	archived, err := fm.ArchiveInputFile(input)
	if err != nil {
		log.Warn("%s: %v", filepath.Base(input), err)
	} else {
		r.archive = archived
	}
	if _, err := fm.ArchiveOutputFile(r.output); err != nil {
		log.Warn("%s: %v", filepath.Base(r.output), err)
	}

	return r
}

// errorType classifies a build error for the summary log.
func errorType(err error) string {
	var (
		se *report.SchemaError
		fe *report.FormatError
		ie *converter.InputError
		ce *office.ConversionError
	)
	switch {
	case errors.As(err, &se), errors.Is(err, report.ErrEmptyDataset):
		return "schema"
	case errors.As(err, &fe):
		return "format"
	case errors.As(err, &ie):
		return "input"
	case errors.As(err, &ce):
		return "conversion"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "internal"
	}
}
