package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/uae-einvoice/internal/assembler"
	"github.com/rezonia/uae-einvoice/internal/attachment"
	"github.com/rezonia/uae-einvoice/internal/model"
	"github.com/rezonia/uae-einvoice/internal/processor"
	"github.com/rezonia/uae-einvoice/internal/store/memory"
)

var (
	snapshotFile string
	outputFile   string
	timeout      time.Duration
)

var buildCmd = &cobra.Command{
	Use:   "build [invoice]",
	Short: "Print the e-invoice document without storing it",
	Long: `Assemble the e-invoice document and print it.

The source is either a sales invoice in the dataset or a snapshot file
holding the invoice and every record it refers to.

Examples:
  uae-einvoice build ACC-SINV-2025-00042 --data dataset.json
  uae-einvoice build --snapshot snapshot.json -o invoice.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVar(&snapshotFile, "snapshot", "", "Build from a snapshot file instead of the dataset")
	buildCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	buildCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Assembly timeout")
}

func runBuild(cmd *cobra.Command, args []string) error {
	var (
		doc *model.Document
		err error
	)
	switch {
	case snapshotFile != "":
		doc, err = buildSnapshot(snapshotFile)
	case len(args) == 1:
		doc, err = buildStored(args[0])
	default:
		return fmt.Errorf("pass an invoice name or --snapshot")
	}
	if err != nil {
		return err
	}

	data, err := attachment.Render(doc)
	if err != nil {
		return err
	}
	return writeOutput(append(data, '\n'))
}

func buildStored(name string) (*model.Document, error) {
	pipeline, err := newPipeline()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return pipeline.Preview(ctx, name)
}

func buildSnapshot(path string) (*model.Document, error) {
	snap, err := readSnapshot(path)
	if err != nil {
		return nil, err
	}
	printVerbose("Building %s from snapshot\n", snap.Invoice.Name)

	return snapshotPipeline().Build(snap)
}

// snapshotPipeline serves snapshot input, which carries every record it
// needs, so the repository behind it stays empty.
func snapshotPipeline() *processor.Pipeline {
	return processor.NewPipeline(assembler.New(memory.New()))
}

func readSnapshot(path string) (*assembler.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var snap assembler.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, model.NewMalformedInputError("snapshot", path, err.Error())
	}
	if snap.Invoice == nil {
		return nil, model.NewMissingFieldError("invoice", "Sales Invoice not provided")
	}
	return &snap, nil
}

func writeOutput(data []byte) error {
	if outputFile == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outputFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	printVerbose("Wrote %s\n", outputFile)
	return nil
}
