// Package attachment renders e-invoice documents and stores them as files
// attached to their sales invoice.
package attachment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rezonia/uae-einvoice/internal/logger"
	"github.com/rezonia/uae-einvoice/internal/model"
)

// DoctypeSalesInvoice is the record type documents are attached to
const DoctypeSalesInvoice = "Sales Invoice"

const fileSuffix = "_uae_invoice.json"

// Attachment is a stored file linked to a record
type Attachment struct {
	ID                string    `json:"id"`
	FileName          string    `json:"file_name"`
	FileURL           string    `json:"file_url"`
	AttachedToDoctype string    `json:"attached_to_doctype"`
	AttachedToName    string    `json:"attached_to_name"`
	IsPrivate         bool      `json:"is_private"`
	Size              int       `json:"size"`
	Created           time.Time `json:"created"`
	Content           []byte    `json:"-"`
}

// Store persists attachments
type Store interface {
	// List returns attachments of the record matching fileName
	List(ctx context.Context, doctype, docName, fileName string) ([]*Attachment, error)
	Delete(ctx context.Context, id string) error
	Create(ctx context.Context, a *Attachment) (*Attachment, error)
}

// FileName is the deterministic artifact name for an invoice
func FileName(invoice string) string {
	return invoice + fileSuffix
}

// Render encodes doc as 4-space indented JSON. HTML characters and
// non-ASCII text are written as is.
func Render(doc *model.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Writer replaces the stored document of an invoice
type Writer struct {
	store  Store
	logger zerolog.Logger
}

// NewWriter creates a writer on top of store
func NewWriter(store Store) *Writer {
	return &Writer{
		store:  store,
		logger: logger.WithComponent("attachment"),
	}
}

// Save renders doc and attaches it to its invoice. Every prior attachment
// with the same name is deleted before the new private file is created.
func (w *Writer) Save(ctx context.Context, doc *model.Document) (*Attachment, error) {
	invoice := strings.TrimSpace(doc.InvoiceID)
	if invoice == "" {
		return nil, model.NewMissingFieldError("invoice_id", "document has no invoice id")
	}

	content, err := Render(doc)
	if err != nil {
		return nil, err
	}
	name := FileName(invoice)

	existing, err := w.store.List(ctx, DoctypeSalesInvoice, invoice, name)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	for _, old := range existing {
		if err := w.store.Delete(ctx, old.ID); err != nil {
			return nil, fmt.Errorf("delete attachment %s: %w", old.ID, err)
		}
	}

	created, err := w.store.Create(ctx, &Attachment{
		FileName:          name,
		AttachedToDoctype: DoctypeSalesInvoice,
		AttachedToName:    invoice,
		IsPrivate:         true,
		Content:           content,
	})
	if err != nil {
		return nil, fmt.Errorf("create attachment: %w", err)
	}

	w.logger.Info().
		Str("invoice", invoice).
		Str("file_url", created.FileURL).
		Int("replaced", len(existing)).
		Int("bytes", len(content)).
		Msg("Document attached")

	return created, nil
}
