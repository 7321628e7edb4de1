package einvoicelib

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rezonia/uae-einvoice/internal/assembler"
	"github.com/rezonia/uae-einvoice/internal/attachment"
	"github.com/rezonia/uae-einvoice/internal/processor"
	"github.com/rezonia/uae-einvoice/internal/store/memory"
)

// Options configures an Engine
type Options struct {
	// AttachmentDir stores documents on disk; empty keeps them in memory
	AttachmentDir string
	// BaseURL prefixes the file URLs of disk attachments
	BaseURL string
	// Attachments overrides AttachmentDir with a caller-supplied store
	Attachments AttachmentStore

	Logger *zerolog.Logger
}

// DefaultOptions keeps attachments in memory
func DefaultOptions() Options {
	return Options{
		BaseURL: "/private/files",
	}
}

// Engine generates, validates and stores e-invoice documents
type Engine struct {
	pipeline *processor.Pipeline
}

// NewEngine creates an engine reading records from repo
func NewEngine(repo Repository, opts Options) (*Engine, error) {
	files := opts.Attachments
	if files == nil && opts.AttachmentDir != "" {
		fs, err := attachment.NewFileStore(opts.AttachmentDir, opts.BaseURL)
		if err != nil {
			return nil, err
		}
		files = fs
	}
	if files == nil {
		files = attachment.NewMemoryStore()
	}

	var asmOpts []assembler.Option
	pipeOpts := []processor.Option{processor.WithAttachmentWriter(attachment.NewWriter(files))}
	if opts.Logger != nil {
		asmOpts = append(asmOpts, assembler.WithLogger(*opts.Logger))
		pipeOpts = append(pipeOpts, processor.WithLogger(*opts.Logger))
	}

	return &Engine{
		pipeline: processor.NewPipeline(assembler.New(repo, asmOpts...), pipeOpts...),
	}, nil
}

// NewEngineFromDataset creates an engine over a JSON dataset
func NewEngineFromDataset(r io.Reader, opts Options) (*Engine, error) {
	repo, err := memory.Load(r)
	if err != nil {
		return nil, err
	}
	return NewEngine(repo, opts)
}

// Send generates the document for invoice and attaches it
func (e *Engine) Send(ctx context.Context, invoice string) (*SendResult, error) {
	return e.pipeline.Send(ctx, invoice)
}

// Preview generates the document without storing it
func (e *Engine) Preview(ctx context.Context, invoice string) (*Document, error) {
	return e.pipeline.Preview(ctx, invoice)
}

// Build generates a document from a self-contained snapshot
func (e *Engine) Build(snap *Snapshot) (*Document, error) {
	return e.pipeline.Build(snap)
}

// Validate lists every violation of invoice
func (e *Engine) Validate(ctx context.Context, invoice string) (*ValidationReport, error) {
	return e.pipeline.Validate(ctx, invoice)
}

// ValidateBatch validates invoices concurrently. Reports keep the input
// order; the first lookup or infrastructure error is returned.
func (e *Engine) ValidateBatch(ctx context.Context, invoices []string) ([]*ValidationReport, error) {
	reports := make([]*ValidationReport, len(invoices))
	errs := make([]error, len(invoices))

	var wg sync.WaitGroup
	for i, name := range invoices {
		wg.Add(1)
		go func(idx int, invoice string) {
			defer wg.Done()
			reports[idx], errs[idx] = e.pipeline.Validate(ctx, invoice)
		}(i, name)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return reports, err
		}
	}
	return reports, nil
}

// Render encodes doc the way it is stored
func Render(doc *Document) ([]byte, error) {
	return attachment.Render(doc)
}
