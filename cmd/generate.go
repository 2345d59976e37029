// =============================================================================
// Cartera Report - Generate Command
// =============================================================================
//
// COMMAND USAGE:
//   cartera generate --input cartera.xlsx [--output out.pptx] [--pdf] [--header-row N]
//
// The output defaults to the input name with a .pptx (or .pdf) extension,
// next to the input file.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/ginjaninja78/cartera-report/internal/converter"
	"github.com/spf13/cobra"
)

var (
	generateInput     string
	generateOutput    string
	generatePDF       bool
	generateHeaderRow int
)

// generateCmd represents the 'generate' command.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Build the report of one spreadsheet",
	Long: `Reads one spreadsheet, checks the required columns and writes the report
deck. With --pdf the deck is converted to PDF with LibreOffice.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runGenerate(ctx, cmd)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&generateInput, "input", "i", "", "Spreadsheet to read (.xlsx, .xls or .csv)")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Report file to write (default: input name with .pptx or .pdf)")
	generateCmd.Flags().BoolVar(&generatePDF, "pdf", false, "Convert the deck to PDF")
	generateCmd.Flags().IntVar(&generateHeaderRow, "header-row", -1, "Banner rows above the header (default: input.header_row)")
	generateCmd.MarkFlagRequired("input")
}

func runGenerate(ctx context.Context, cmd *cobra.Command) error {
	if cmd.Flags().Changed("header-row") {
		if generateHeaderRow < 0 {
			return fmt.Errorf("--header-row must not be negative, got %d", generateHeaderRow)
		}
		cfg.Input.HeaderRow = generateHeaderRow
	}

	out := generateOutput
	if out == "" {
		out = defaultOutputPath(generateInput, generatePDF)
	}

	conv, err := converter.New(cfg, log)
	if err != nil {
		return err
	}

	res, err := conv.RunFile(ctx, generateInput, out, generatePDF)
	if err != nil {
		return describeBuildError(err)
	}

	size := int64(len(res.Data))
	if info, err := os.Stat(out); err == nil {
		size = info.Size()
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d row(s), %d slide(s) of table, %s\n",
		out, res.Stats.Rows, res.Stats.Pages, humanize.Bytes(uint64(size)))
	if res.Stats.SkippedCells > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "warning: %d non-numeric amount(s) counted as zero in the totals\n", res.Stats.SkippedCells)
	}
	return nil
}

// defaultOutputPath replaces the extension of in.
func defaultOutputPath(in string, pdf bool) string {
	ext := ".pptx"
	if pdf {
		ext = ".pdf"
	}
	return strings.TrimSuffix(in, filepath.Ext(in)) + ext
}
