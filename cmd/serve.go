// =============================================================================
// Cartera Report - Serve Command
// =============================================================================
//
// Starts the upload web app. SIGINT or SIGTERM stops accepting connections
// and waits for open requests up to server.shutdown_timeout.
//
// COMMAND USAGE:
//   cartera serve [--addr :8080]
//
// =============================================================================

package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/ginjaninja78/cartera-report/internal/converter"
	"github.com/ginjaninja78/cartera-report/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

// serveCmd represents the 'serve' command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the upload web app",
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}

		conv, err := converter.New(cfg, log)
		if err != nil {
			return err
		}
		if !conv.PDFAvailable() {
			log.Warn("LibreOffice (%s) not found: /generar-pdf will fail until it is installed", cfg.Converter.Binary)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.New(conv, cfg.Server, log).ListenAndServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: server.addr)")
}
