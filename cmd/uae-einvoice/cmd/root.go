package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/uae-einvoice/internal/assembler"
	"github.com/rezonia/uae-einvoice/internal/attachment"
	"github.com/rezonia/uae-einvoice/internal/config"
	"github.com/rezonia/uae-einvoice/internal/logger"
	"github.com/rezonia/uae-einvoice/internal/processor"
	"github.com/rezonia/uae-einvoice/internal/store/memory"
)

var (
	version = "1.0.0"

	// Global flags
	verbose   bool
	dataFile  string
	logLevel  string
	logFormat string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "uae-einvoice",
	Short: "Generate UAE e-invoice JSON from sales invoices",
	Long: `uae-einvoice assembles the UAE PINT-AE e-invoice document for a sales
invoice and attaches the rendered JSON to it.

Invoices, companies, customers, addresses, bank accounts and item tax
templates are read from a JSON dataset (--data or EINVOICE_DATA).

Examples:
  # Print the document for an invoice without storing it
  uae-einvoice build ACC-SINV-2025-00042 --data dataset.json

  # Build from a self-contained snapshot
  uae-einvoice build --snapshot snapshot.json

  # Generate and attach the document
  uae-einvoice send ACC-SINV-2025-00042 --data dataset.json

  # List every violation of an invoice
  uae-einvoice validate ACC-SINV-2025-00042 --data dataset.json

  # Serve the HTTP API
  uae-einvoice serve --data dataset.json`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&dataFile, "data", "", "JSON dataset to load (env: EINVOICE_DATA)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (env: LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format, json or console (env: LOG_FORMAT)")
}

// initConfig loads the environment and lets flags override it
func initConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		return err
	}
	if dataFile != "" {
		loaded.DataFile = dataFile
	}
	if logLevel != "" {
		loaded.LogLevel = logLevel
	}
	if logFormat != "" {
		loaded.LogFormat = logFormat
	}
	if verbose && logLevel == "" {
		loaded.LogLevel = "debug"
	}
	cfg = loaded

	return logger.Setup(cfg.GetLoggerConfig())
}

func loadStore() (*memory.Store, error) {
	if cfg.DataFile == "" {
		return nil, fmt.Errorf("no dataset configured: pass --data or set EINVOICE_DATA")
	}
	printVerbose("Loading dataset %s\n", cfg.DataFile)
	return memory.LoadFile(cfg.DataFile)
}

// newPipeline wires the dataset to a file-backed attachment store
func newPipeline() (*processor.Pipeline, error) {
	repo, err := loadStore()
	if err != nil {
		return nil, err
	}
	files, err := attachment.NewFileStore(cfg.AttachmentDir, cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	return processor.NewPipeline(
		assembler.New(repo),
		processor.WithAttachmentWriter(attachment.NewWriter(files)),
	), nil
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
