package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/uae-einvoice/internal/server"
)

var (
	serverAddr     string
	serverDebug    bool
	readTimeout    time.Duration
	writeTimeout   time.Duration
	requestTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for e-invoice generation.

The API provides endpoints for:
  - POST /api/v1/einvoice/send      - Generate and attach a document
  - GET  /api/v1/einvoice/:invoice  - Preview a document
  - POST /api/v1/einvoice/build     - Build a document from a snapshot
  - POST /api/v1/einvoice/validate  - List every violation
  - GET  /health                    - Health check

Examples:
  # Start server on the configured address
  uae-einvoice serve --data dataset.json

  # Start on a custom port in debug mode
  uae-einvoice serve --address :9090 --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", "", "Server listen address (env: EINVOICE_ADDRESS)")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", time.Minute, "HTTP write timeout")
	serveCmd.Flags().DurationVar(&requestTimeout, "request-timeout", 30*time.Second, "Per-request assembly timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serverAddr == "" {
		serverAddr = cfg.Address
	}

	pipeline, err := newPipeline()
	if err != nil {
		return err
	}

	config := &server.Config{
		Address:        serverAddr,
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		RequestTimeout: requestTimeout,
		Debug:          serverDebug,
	}

	srv := server.NewServer(config, pipeline)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		fmt.Println("\nShutting down server...")
		os.Exit(0)
	}()

	fmt.Printf("Starting server on %s\n", serverAddr)
	fmt.Printf("Attachments stored in %s\n", cfg.AttachmentDir)

	return srv.Run()
}
