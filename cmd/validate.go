// =============================================================================
// Cartera Report - Validate Command
// =============================================================================
//
// Reads a spreadsheet and checks the required columns without building a
// report.
//
// COMMAND USAGE:
//   cartera validate --input cartera.xlsx [--header-row N]
//
// EXIT STATUS:
//   0 when every required column is present and the sheet has data rows,
//   1 otherwise. Missing columns are listed one per line.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ginjaninja78/cartera-report/internal/converter"
	"github.com/ginjaninja78/cartera-report/internal/report"
	"github.com/spf13/cobra"
)

var (
	validateInput     string
	validateHeaderRow int
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a spreadsheet for the required columns",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "", "Spreadsheet to check (.xlsx, .xls or .csv)")
	validateCmd.Flags().IntVar(&validateHeaderRow, "header-row", -1, "Banner rows above the header (default: input.header_row)")
	validateCmd.MarkFlagRequired("input")
}

func runValidate(cmd *cobra.Command) error {
	conv, err := converter.New(cfg, log)
	if err != nil {
		return err
	}

	headerRow := conv.DefaultHeaderRow()
	if cmd.Flags().Changed("header-row") {
		if validateHeaderRow < 0 {
			return fmt.Errorf("--header-row must not be negative, got %d", validateHeaderRow)
		}
		headerRow = validateHeaderRow
	}

	data, err := os.ReadFile(validateInput)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", validateInput, err)
	}

	ds, err := conv.Check(data, headerRow)
	if err != nil {
		reportMissing(cmd.OutOrStdout(), err)
		return describeBuildError(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: OK, %d row(s)\n", validateInput, ds.Len())
	return nil
}

// reportMissing lists the missing columns of a schema error.
func reportMissing(w io.Writer, err error) {
	var se *report.SchemaError
	if !errors.As(err, &se) {
		return
	}
	fmt.Fprintln(w, "Missing columns:")
	for _, name := range se.Missing {
		fmt.Fprintf(w, "  - %s\n", name)
	}
}

// describeBuildError rewords pipeline errors for the terminal.
func describeBuildError(err error) error {
	var ie *converter.InputError
	switch {
	case errors.Is(err, report.ErrEmptyDataset):
		return errors.New("the sheet has a header but no data rows")
	case errors.As(err, &ie):
		return fmt.Errorf("%w (is it an xlsx, xls or csv file?)", err)
	default:
		return err
	}
}
