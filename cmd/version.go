// =============================================================================
// Cartera Report - Version Command
// =============================================================================
//
// COMMAND USAGE:
//   cartera version
//
// OUTPUT:
//   Cartera Report
//   Version:    1.0.0
//   Commit:     3f2c1ab
//   Build Date: 2024-03-05
//   Go Version: go1.24.0
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
)

// These variables are set at build time using ldflags:
//
//	go build -ldflags "-X 'github.com/ginjaninja78/cartera-report/cmd.Version=1.0.0'"
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// versionCmd represents the 'version' command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version",
	Long:  `Display the application version, commit, build date and Go runtime version.`,
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(cmd.OutOrStdout())
	},
}

func printVersion(w io.Writer) {
	fmt.Fprintln(w, "Cartera Report")
	fmt.Fprintf(w, "Version:    %s\n", Version)
	fmt.Fprintf(w, "Commit:     %s\n", Commit)
	fmt.Fprintf(w, "Build Date: %s\n", BuildDate)
	fmt.Fprintf(w, "Go Version: %s\n", runtime.Version())
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
