// Package einvoicelib provides a public API for generating UAE PINT-AE
// e-invoice documents from sales invoices.
//
// Example usage:
//
//	engine, err := einvoicelib.NewEngineFromDataset(f, einvoicelib.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc, err := engine.Preview(ctx, "ACC-SINV-2025-00042")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(doc.LegalMonetaryTotal.PayableAmount)
package einvoicelib

import (
	"github.com/rezonia/uae-einvoice/internal/assembler"
	"github.com/rezonia/uae-einvoice/internal/attachment"
	"github.com/rezonia/uae-einvoice/internal/model"
	"github.com/rezonia/uae-einvoice/internal/processor"
	"github.com/rezonia/uae-einvoice/internal/store"
)

// Re-export core types for public API
type (
	Document      = model.Document
	SourceInvoice = model.SourceInvoice
	Company       = model.Company
	Customer      = model.Customer
	Address       = model.Address
	BankAccount   = model.BankAccount
	TaxTemplate   = model.ItemTaxTemplate
	Snapshot      = assembler.Snapshot

	SendResult       = processor.SendResult
	ValidationReport = processor.ValidationReport
	Attachment       = attachment.Attachment
)

// Collaborators a caller may supply
type (
	Repository      = store.Repository
	AttachmentStore = attachment.Store
)

// Re-export invoice type codes
const (
	InvoiceTypeStandard             = model.InvoiceTypeStandard
	InvoiceTypeCreditNote           = model.InvoiceTypeCreditNote
	InvoiceTypeCreditNoteOutOfScope = model.InvoiceTypeCreditNoteOutOfScope
	InvoiceTypeOutOfScopeOfTax      = model.InvoiceTypeOutOfScopeOfTax
)

// Re-export error kinds, matched with errors.Is
var (
	ErrMissingRequiredField = model.ErrMissingRequiredField
	ErrInvalidFieldValue    = model.ErrInvalidFieldValue
	ErrNotFound             = model.ErrNotFound
	ErrMalformedInput       = model.ErrMalformedInput
)

// Re-export error types
type (
	FieldError       = model.FieldError
	ValidationErrors = model.ValidationErrors
)

// Messages flattens an engine error into one line per violation
func Messages(err error) []string {
	return model.Messages(err)
}
