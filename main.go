// =============================================================================
// Cartera Report - Main Entry Point
// =============================================================================
//
// USAGE:
//   cartera generate   - Build the report of one spreadsheet
//   cartera validate   - Check a spreadsheet for the required columns
//   cartera process    - Build every spreadsheet in the input directory
//   cartera serve      - Start the upload web app
//   cartera version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Report engine, readers, deck writer, PDF conversion, HTTP
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/cartera-report/cmd"
)

func main() {
	cmd.Execute()
}
