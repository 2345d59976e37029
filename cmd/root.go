// =============================================================================
// Cartera Report - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// (generate, validate, process, serve, version) is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (cartera)
//   ├── generateCmd (cartera generate)
//   ├── validateCmd (cartera validate)
//   ├── processCmd  (cartera process)
//   ├── serveCmd    (cartera serve)
//   └── versionCmd  (cartera version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads .env (if present) into the environment
//   2. Loads the YAML configuration and applies CARTERA_* overrides
//   3. Sets up logging (--verbose forces debug level)
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/ginjaninja78/cartera-report/internal/config"
	"github.com/ginjaninja78/cartera-report/internal/logger"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// cfg and log are initialized by the root command before a subcommand runs.
var (
	cfg *config.Config
	log logger.Logger
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "cartera",
	Short: "Cartera Report - Build loan-receivables slide reports from spreadsheets",
	Long: `Cartera Report turns a receivables spreadsheet (xlsx, xls or csv) into a
slide deck: a cover slide with the client header, followed by paginated
tables of the portfolio and a totals row on the last slide. The deck can
be converted to PDF with LibreOffice.

Example Usage:
  cartera generate --input cartera.xlsx           # Build cartera.pptx
  cartera generate --input cartera.xlsx --pdf     # Build cartera.pdf
  cartera validate --input cartera.xlsx           # Check the required columns
  cartera process                                 # Build every file in the input directory
  cartera serve                                   # Start the upload web app`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		return initialize()
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultPath,
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// initialize loads the environment, the configuration and the logger.
// A missing default config file is not an error; an explicitly named one is.
func initialize() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	path := cfgFile
	if path == config.DefaultPath {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			path = ""
		}
	}

	loaded, err := config.Load(path)
	if err != nil {
		return err
	}

	opts := loaded.LoggerOptions()
	if verbose {
		opts.Level = "debug"
	}
	l, err := logger.New(opts)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	cfg, log = loaded, l
	if path != "" {
		log.Debug("Loaded configuration from %s", path)
	}
	return nil
}
