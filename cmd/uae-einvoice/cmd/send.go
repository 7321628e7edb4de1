package cmd

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send [invoices...]",
	Short: "Generate and attach e-invoice documents",
	Long: `Assemble the e-invoice document for each sales invoice and attach it,
replacing any document attached earlier under the same name.

Files are written below EINVOICE_ATTACHMENT_DIR.

Examples:
  uae-einvoice send ACC-SINV-2025-00042 --data dataset.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	pipeline, err := newPipeline()
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	for _, name := range args {
		printVerbose("Sending: %s\n", name)

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		result, err := pipeline.Send(ctx, name)
		cancel()
		if err != nil {
			return err
		}
		if err := encoder.Encode(result); err != nil {
			return err
		}
	}
	return nil
}
