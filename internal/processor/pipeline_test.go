package processor_test

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/uae-einvoice/internal/assembler"
	"github.com/rezonia/uae-einvoice/internal/attachment"
	"github.com/rezonia/uae-einvoice/internal/model"
	"github.com/rezonia/uae-einvoice/internal/processor"
	"github.com/rezonia/uae-einvoice/internal/store/memory"
)

const invoiceName = "SINV-0007"

func seed() (*memory.Store, *model.SourceInvoice) {
	s := memory.New()
	s.PutCompany(&model.Company{Name: "ACME", TaxID: "100000000000003"})
	s.PutAddress(&model.Address{
		Name: "ACME-HQ", AddressLine1: "Street 1", City: "Dubai", Country: "United Arab Emirates",
		IsYourCompanyAddress: true, Links: []model.Link{{Doctype: model.DoctypeCompany, Name: "ACME"}},
	})
	s.PutAddress(&model.Address{
		Name: "Buyer-Billing", AddressLine1: "Street 2", City: "Sharjah", Pincode: "00000",
		State: "Sharjah", Country: "United Arab Emirates", EmailID: "ap@buyer.ae",
	})
	s.PutCustomer(&model.Customer{
		Name: "Buyer", CustomerName: "Buyer Co", TaxID: "100000000000099", PrimaryAddress: "Buyer-Billing",
	})
	inv := &model.SourceInvoice{
		Name:         invoiceName,
		Company:      "ACME",
		Customer:     "Buyer",
		PostingDate:  civil.Date{Year: 2025, Month: time.May, Day: 2},
		Currency:     "AED",
		PaymentMeans: "10 - In cash",
		Taxes:        []model.TaxLine{{Rate: decimal.NewFromInt(5)}},
		Items: []model.ItemLine{{
			ItemCode: "CONSULT", Qty: decimal.NewFromInt(2), Rate: decimal.NewFromInt(50),
			Amount: decimal.NewFromInt(100), ItemType: model.ItemTypeServices, SACCode: "998311",
		}},
	}
	s.PutInvoice(inv)
	return s, inv
}

func newPipeline(s *memory.Store, files attachment.Store) *processor.Pipeline {
	asm := assembler.New(s, assembler.WithLogger(zerolog.Nop()))
	w := attachment.NewWriter(files)
	return processor.NewPipeline(asm, processor.WithAttachmentWriter(w), processor.WithLogger(zerolog.Nop()))
}

func TestSend(t *testing.T) {
	s, _ := seed()
	files := attachment.NewMemoryStore()
	p := newPipeline(s, files)

	result, err := p.Send(context.Background(), invoiceName)
	require.NoError(t, err)
	assert.Equal(t, processor.SuccessMessage, result.Message)
	assert.Equal(t, "SINV-0007_uae_invoice.json", result.FileName)
	assert.NotEmpty(t, result.FileURL)

	// sending again replaces the stored document
	_, err = p.Send(context.Background(), invoiceName)
	require.NoError(t, err)
	assert.Len(t, files.All(), 1)
}

func TestSend_EmptyInvoiceNumber(t *testing.T) {
	s, _ := seed()
	p := newPipeline(s, attachment.NewMemoryStore())

	_, err := p.Send(context.Background(), "  ")
	require.ErrorIs(t, err, model.ErrMissingRequiredField)
	assert.Contains(t, err.Error(), "Sales Invoice not provided")
}

func TestSend_AssemblyFailureStoresNothing(t *testing.T) {
	s, inv := seed()
	inv.OutstandingAmount = decimal.NewFromInt(105)
	files := attachment.NewMemoryStore()
	p := newPipeline(s, files)

	_, err := p.Send(context.Background(), invoiceName)
	require.ErrorIs(t, err, model.ErrMissingRequiredField)
	assert.Empty(t, files.All())
}

func TestPreview(t *testing.T) {
	s, _ := seed()
	p := newPipeline(s, attachment.NewMemoryStore())

	doc, err := p.Preview(context.Background(), invoiceName)
	require.NoError(t, err)
	assert.Equal(t, "105.00", doc.LegalMonetaryTotal.PayableAmount)
	assert.Equal(t, "S", doc.InvoiceLines[0].Item.CommodityClassification.NatureCode)

	_, err = p.Preview(context.Background(), "SINV-404")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestValidate(t *testing.T) {
	s, inv := seed()
	p := newPipeline(s, attachment.NewMemoryStore())

	report, err := p.Validate(context.Background(), invoiceName)
	require.NoError(t, err)
	assert.True(t, report.Valid)
	assert.Empty(t, report.Errors)

	inv.TransactionType = "10000000 : Free zone"
	customer, err := s.GetCustomer(context.Background(), "Buyer")
	require.NoError(t, err)
	customer.TaxID = ""

	report, err = p.Validate(context.Background(), invoiceName)
	require.NoError(t, err)
	assert.False(t, report.Valid)
	assert.Len(t, report.Errors, 2)

	_, err = p.Validate(context.Background(), "SINV-404")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestValidateSnapshot(t *testing.T) {
	s, _ := seed()
	p := newPipeline(s, attachment.NewMemoryStore())
	asm := assembler.New(s, assembler.WithLogger(zerolog.Nop()))

	snap, err := asm.Load(context.Background(), invoiceName)
	require.NoError(t, err)
	snap.Invoice.Currency = "DIRHAM"

	report, err := p.ValidateSnapshot(snap)
	require.NoError(t, err)
	assert.False(t, report.Valid)
	assert.Equal(t, invoiceName, report.Invoice)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "currency")
}
