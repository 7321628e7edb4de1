package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/uae-einvoice/internal/processor"
)

var jsonOutput bool

var validateCmd = &cobra.Command{
	Use:   "validate [invoices...]",
	Short: "Report every violation of sales invoices",
	Long: `Assemble each sales invoice and list the data problems that block it.

Checks performed:
  - Buyer name, address, e-mail and identifiers
  - Invoice type, currency, dates and invoice period
  - Payment means and bank details
  - Line quantities, item types, HS/SAC codes and tax templates

Examples:
  uae-einvoice validate ACC-SINV-2025-00042 --data dataset.json
  uae-einvoice validate --snapshot snapshot.json --json`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print reports as JSON")
	validateCmd.Flags().StringVar(&snapshotFile, "snapshot", "", "Validate a snapshot file instead of the dataset")
}

func runValidate(cmd *cobra.Command, args []string) error {
	reports, err := collectReports(args)
	if err != nil {
		return err
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(reports); err != nil {
			return err
		}
	} else {
		for _, r := range reports {
			if r.Valid {
				fmt.Printf("✓ %s: VALID\n", r.Invoice)
				continue
			}
			fmt.Printf("✗ %s: INVALID\n", r.Invoice)
			for _, e := range r.Errors {
				fmt.Printf("  - %s\n", e)
			}
		}
	}

	for _, r := range reports {
		if !r.Valid {
			return fmt.Errorf("validation failed for some invoices")
		}
	}
	return nil
}

func collectReports(args []string) ([]*processor.ValidationReport, error) {
	if snapshotFile != "" {
		snap, err := readSnapshot(snapshotFile)
		if err != nil {
			return nil, err
		}
		report, err := snapshotPipeline().ValidateSnapshot(snap)
		if err != nil {
			return nil, err
		}
		return []*processor.ValidationReport{report}, nil
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("pass at least one invoice name or --snapshot")
	}
	pipeline, err := newPipeline()
	if err != nil {
		return nil, err
	}

	reports := make([]*processor.ValidationReport, 0, len(args))
	for _, name := range args {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		report, err := pipeline.Validate(ctx, name)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}
