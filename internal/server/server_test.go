package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
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
	"github.com/rezonia/uae-einvoice/internal/server"
	"github.com/rezonia/uae-einvoice/internal/store/memory"
)

const invoiceName = "SINV-0100"

func newRepo() *memory.Store {
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
		Name: "Buyer", CustomerName: "Buyer & Sons", TaxID: "100000000000099", PrimaryAddress: "Buyer-Billing",
	})
	s.PutInvoice(&model.SourceInvoice{
		Name:         invoiceName,
		Company:      "ACME",
		Customer:     "Buyer",
		PostingDate:  civil.Date{Year: 2025, Month: time.June, Day: 1},
		Currency:     "AED",
		PaymentMeans: "10 - In cash",
		Taxes:        []model.TaxLine{{Rate: decimal.NewFromInt(5)}},
		Items: []model.ItemLine{{
			ItemCode: "WIDGET", Qty: decimal.NewFromInt(4), Rate: decimal.NewFromInt(25),
			Amount: decimal.NewFromInt(100), ItemType: model.ItemTypeGoods, HSCode: "847130",
		}},
	})
	return s
}

func newTestServer(repo *memory.Store) (*server.Server, *attachment.MemoryStore) {
	files := attachment.NewMemoryStore()
	asm := assembler.New(repo, assembler.WithLogger(zerolog.Nop()))
	pipeline := processor.NewPipeline(asm,
		processor.WithAttachmentWriter(attachment.NewWriter(files)),
		processor.WithLogger(zerolog.Nop()),
	)
	config := &server.Config{
		Address: ":8080",
		Debug:   false,
	}
	return server.NewServer(config, pipeline), files
}

func do(t *testing.T, srv *server.Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(newRepo())

	w := do(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ok", response["status"])
	assert.NotEmpty(t, response["time"])
}

func TestSendEndpoint(t *testing.T) {
	srv, files := newTestServer(newRepo())

	w := do(t, srv, http.MethodPost, "/api/v1/einvoice/send", `{"invoice_number": "SINV-0100"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response server.SendResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, processor.SuccessMessage, response.Message)
	assert.Equal(t, "SINV-0100_uae_invoice.json", response.FileName)
	assert.NotEmpty(t, response.FileURL)
	assert.Len(t, files.All(), 1)
}

func TestSendEndpoint_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		kind   string
	}{
		{"malformed json", `{"invoice_number":`, http.StatusBadRequest, ""},
		{"missing invoice number", `{}`, http.StatusUnprocessableEntity, "missing_required_field"},
		{"unknown invoice", `{"invoice_number": "SINV-404"}`, http.StatusNotFound, "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, files := newTestServer(newRepo())

			w := do(t, srv, http.MethodPost, "/api/v1/einvoice/send", tt.body)
			assert.Equal(t, tt.status, w.Code)

			var response server.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.NotEmpty(t, response.Error)
			assert.Equal(t, tt.kind, response.Kind)
			assert.Empty(t, files.All())
		})
	}
}

func TestPreviewEndpoint(t *testing.T) {
	srv, files := newTestServer(newRepo())

	w := do(t, srv, http.MethodGet, "/api/v1/einvoice/SINV-0100", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Buyer & Sons")

	var doc model.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "SINV-0100", doc.InvoiceID)
	assert.Equal(t, "105.00", doc.LegalMonetaryTotal.PayableAmount)
	assert.Empty(t, files.All())
}

func TestBuildEndpoint(t *testing.T) {
	repo := newRepo()
	asm := assembler.New(repo, assembler.WithLogger(zerolog.Nop()))
	snap, err := asm.Load(context.Background(), invoiceName)
	require.NoError(t, err)
	body, err := json.Marshal(snap)
	require.NoError(t, err)

	// build is stateless: an empty repository still works
	srv, _ := newTestServer(memory.New())

	w := do(t, srv, http.MethodPost, "/api/v1/einvoice/build", string(body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var doc model.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "SINV-0100", doc.InvoiceID)
	assert.Equal(t, "100.00", doc.LegalMonetaryTotal.TaxExclusiveAmount)

	w = do(t, srv, http.MethodPost, "/api/v1/einvoice/build", `{"invoice": {"qty": "abc"`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodPost, "/api/v1/einvoice/build", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestValidateEndpoint(t *testing.T) {
	repo := newRepo()
	srv, _ := newTestServer(repo)

	w := do(t, srv, http.MethodPost, "/api/v1/einvoice/validate", `{"invoice_number": "SINV-0100"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var ok server.ValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ok))
	assert.True(t, ok.Valid)

	addr, err := repo.GetAddress(context.Background(), "Buyer-Billing")
	require.NoError(t, err)
	addr.EmailID = ""
	addr.City = ""

	w = do(t, srv, http.MethodPost, "/api/v1/einvoice/validate", `{"invoice_number": "SINV-0100"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var bad server.ValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bad))
	assert.False(t, bad.Valid)
	require.Len(t, bad.Errors, 2)
	assert.True(t, strings.Contains(bad.Errors[0], "city"))
	assert.True(t, strings.Contains(bad.Errors[1], "email"))

	w = do(t, srv, http.MethodPost, "/api/v1/einvoice/validate", `{"invoice_number": "SINV-404"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
