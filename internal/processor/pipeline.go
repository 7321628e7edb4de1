// Package processor is the request entry point: it assembles the e-invoice
// for a sales invoice and attaches the rendered document to it.
package processor

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rezonia/uae-einvoice/internal/assembler"
	"github.com/rezonia/uae-einvoice/internal/attachment"
	"github.com/rezonia/uae-einvoice/internal/logger"
	"github.com/rezonia/uae-einvoice/internal/model"
)

// SuccessMessage is returned after a document was stored
const SuccessMessage = "Invoice JSON generated and attached successfully"

// SendResult is the outcome of Send
type SendResult struct {
	Message  string `json:"message"`
	FileName string `json:"file_name"`
	FileURL  string `json:"file_url"`
}

// ValidationReport lists every business-rule violation of an invoice
type ValidationReport struct {
	Invoice string   `json:"invoice"`
	Valid   bool     `json:"valid"`
	Errors  []string `json:"errors,omitempty"`
}

// Pipeline wires the assembler to the attachment writer
type Pipeline struct {
	assembler *assembler.Assembler
	writer    *attachment.Writer
	logger    zerolog.Logger
}

// Option configures the pipeline
type Option func(*Pipeline)

// WithAttachmentWriter sets where Send stores documents
func WithAttachmentWriter(w *attachment.Writer) Option {
	return func(p *Pipeline) {
		p.writer = w
	}
}

// WithLogger overrides the component logger
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// NewPipeline creates a pipeline around asm. Without an attachment writer
// Send stores documents in memory.
func NewPipeline(asm *assembler.Assembler, opts ...Option) *Pipeline {
	p := &Pipeline{
		assembler: asm,
		logger:    logger.WithComponent("processor"),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.writer == nil {
		p.writer = attachment.NewWriter(attachment.NewMemoryStore())
	}
	return p
}

// Send assembles the document for invoiceNumber and attaches it
func (p *Pipeline) Send(ctx context.Context, invoiceNumber string) (*SendResult, error) {
	invoiceNumber = strings.TrimSpace(invoiceNumber)
	if invoiceNumber == "" {
		return nil, model.NewMissingFieldError("invoice_number", "Sales Invoice not provided")
	}
	log := p.logger.With().Str("invoice", invoiceNumber).Logger()

	doc, err := p.assembler.Assemble(ctx, invoiceNumber)
	if err != nil {
		log.Warn().Err(err).Msg("Assembly failed")
		return nil, err
	}

	stored, err := p.writer.Save(ctx, doc)
	if err != nil {
		log.Error().Err(err).Msg("Attachment failed")
		return nil, err
	}

	log.Info().Str("file_url", stored.FileURL).Msg("E-invoice sent")
	return &SendResult{
		Message:  SuccessMessage,
		FileName: stored.FileName,
		FileURL:  stored.FileURL,
	}, nil
}

// Preview assembles the document without storing it
func (p *Pipeline) Preview(ctx context.Context, invoiceNumber string) (*model.Document, error) {
	invoiceNumber = strings.TrimSpace(invoiceNumber)
	if invoiceNumber == "" {
		return nil, model.NewMissingFieldError("invoice_number", "Sales Invoice not provided")
	}
	return p.assembler.Assemble(ctx, invoiceNumber)
}

// Build assembles a document from a caller-supplied snapshot
func (p *Pipeline) Build(snap *assembler.Snapshot) (*model.Document, error) {
	return p.assembler.Build(snap)
}

// Validate assembles the invoice and reports its violations. Only lookup
// and infrastructure failures are returned as errors.
func (p *Pipeline) Validate(ctx context.Context, invoiceNumber string) (*ValidationReport, error) {
	_, err := p.Preview(ctx, invoiceNumber)
	return report(invoiceNumber, err)
}

// ValidateSnapshot is Validate for a caller-supplied snapshot
func (p *Pipeline) ValidateSnapshot(snap *assembler.Snapshot) (*ValidationReport, error) {
	_, err := p.assembler.Build(snap)
	name := ""
	if snap != nil && snap.Invoice != nil {
		name = snap.Invoice.Name
	}
	return report(name, err)
}

func report(invoice string, err error) (*ValidationReport, error) {
	r := &ValidationReport{Invoice: invoice, Valid: err == nil}
	if err == nil {
		return r, nil
	}
	if !IsBusinessError(err) {
		return nil, err
	}
	r.Errors = model.Messages(err)
	return r, nil
}

// IsBusinessError reports failures caused by the invoice data itself
func IsBusinessError(err error) bool {
	return errors.Is(err, model.ErrMissingRequiredField) ||
		errors.Is(err, model.ErrInvalidFieldValue) ||
		errors.Is(err, model.ErrMalformedInput)
}
