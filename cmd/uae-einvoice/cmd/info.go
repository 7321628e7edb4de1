package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rezonia/uae-einvoice/internal/resolver"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the sales invoices in the dataset",
	Long: `List the sales invoices of the dataset with the codes the e-invoice
will carry, without assembling the documents.

Shows:
  - Invoice type code (380, 381, 480 or 81)
  - Transaction type flags
  - Currency and grand total

Examples:
  uae-einvoice info --data dataset.json`,
	Args: cobra.NoArgs,
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	repo, err := loadStore()
	if err != nil {
		return err
	}

	invoices := repo.Invoices()
	if len(invoices) == 0 {
		return fmt.Errorf("no sales invoices in %s", cfg.DataFile)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "INVOICE\tDATE\tCUSTOMER\tTYPE\tTRANSACTION\tCURRENCY\tGRAND TOTAL")
	fmt.Fprintln(tw, "-------\t----\t--------\t----\t-----------\t--------\t-----------")

	for _, inv := range invoices {
		txn := resolver.ParseTransactionType(inv.TransactionType)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			inv.Name,
			inv.PostingDate.String(),
			inv.Customer,
			resolver.InvoiceTypeCode(inv),
			transactionFlags(txn),
			inv.Currency,
			inv.GrandTotal.StringFixed(2),
		)
	}

	return tw.Flush()
}

func transactionFlags(txn resolver.TransactionType) string {
	if txn.Code() == "" {
		return "-"
	}
	flags := txn.Code()
	if txn.IsFreeZone() {
		flags += " free-zone"
	}
	if txn.IsDeemedSupply() {
		flags += " deemed-supply"
	}
	if txn.IsExport() {
		flags += " export"
	}
	return flags
}
