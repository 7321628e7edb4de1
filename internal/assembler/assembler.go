// Package assembler builds the UAE e-invoice document for one sales
// invoice. It loads the source records, runs the field resolvers, the line
// classifier and the party validator, and returns a complete document or
// the first failure.
package assembler

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/rezonia/uae-einvoice/internal/logger"
	"github.com/rezonia/uae-einvoice/internal/model"
	"github.com/rezonia/uae-einvoice/internal/store"
)

// Snapshot is every record a document is built from
type Snapshot struct {
	Invoice          *model.SourceInvoice             `json:"invoice"`
	Company          *model.Company                   `json:"company"`
	CompanyAddress   *model.Address                   `json:"company_address"`
	Customer         *model.Customer                  `json:"customer"`
	CustomerAddress  *model.Address                   `json:"customer_address"`
	BankAccount      *model.BankAccount               `json:"bank_account,omitempty"`
	ItemTaxTemplates map[string]model.ItemTaxTemplate `json:"item_tax_templates,omitempty"`
	CountryCodes     map[string]string                `json:"country_codes,omitempty"`
}

// Assembler turns sales invoices into e-invoice documents
type Assembler struct {
	repo   store.Repository
	logger zerolog.Logger
}

// Option configures the assembler
type Option func(*Assembler)

// WithLogger overrides the component logger
func WithLogger(l zerolog.Logger) Option {
	return func(a *Assembler) {
		a.logger = l
	}
}

// New creates an assembler reading from repo. repo may be nil when only
// Build is used.
func New(repo store.Repository, opts ...Option) *Assembler {
	a := &Assembler{
		repo:   repo,
		logger: logger.WithComponent("assembler"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble loads the invoice named invoiceName and builds its document
func (a *Assembler) Assemble(ctx context.Context, invoiceName string) (*model.Document, error) {
	snap, err := a.Load(ctx, invoiceName)
	if err != nil {
		return nil, err
	}
	return a.Build(snap)
}

// Load gathers the snapshot for invoiceName from the repository
func (a *Assembler) Load(ctx context.Context, invoiceName string) (*Snapshot, error) {
	if a.repo == nil {
		return nil, fmt.Errorf("assembler has no repository")
	}
	if strings.TrimSpace(invoiceName) == "" {
		return nil, model.NewMissingFieldError("invoice_number", "Sales Invoice not provided")
	}

	inv, err := a.repo.GetInvoice(ctx, invoiceName)
	if err != nil {
		return nil, err
	}
	company, err := a.repo.GetCompany(ctx, inv.Company)
	if err != nil {
		return nil, err
	}
	customer, err := a.repo.GetCustomer(ctx, inv.Customer)
	if err != nil {
		return nil, err
	}
	companyAddr, err := a.companyAddress(ctx, inv.Company)
	if err != nil {
		return nil, err
	}
	customerAddr, err := a.customerAddress(ctx, inv, customer)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Invoice:         inv,
		Company:         company,
		CompanyAddress:  companyAddr,
		Customer:        customer,
		CustomerAddress: customerAddr,
	}

	if name := strings.TrimSpace(inv.BankAccount); name != "" {
		bank, err := a.repo.GetBankAccount(ctx, name)
		if err != nil {
			return nil, err
		}
		snap.BankAccount = bank
	}

	templateNames := lo.Uniq(lo.FilterMap(inv.Items, func(item model.ItemLine, _ int) (string, bool) {
		name := strings.TrimSpace(item.ItemTaxTemplate)
		return name, name != ""
	}))
	if len(templateNames) > 0 {
		snap.ItemTaxTemplates = make(map[string]model.ItemTaxTemplate, len(templateNames))
		for _, name := range templateNames {
			tmpl, err := a.repo.GetItemTaxTemplate(ctx, name)
			if err != nil {
				return nil, err
			}
			snap.ItemTaxTemplates[name] = *tmpl
		}
	}

	snap.CountryCodes, err = a.repo.CountryCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load country codes: %w", err)
	}

	a.logger.Debug().
		Str("invoice", inv.Name).
		Str("company_address", companyAddr.Name).
		Str("customer_address", customerAddr.Name).
		Int("item_tax_templates", len(templateNames)).
		Msg("Snapshot loaded")

	return snap, nil
}

// companyAddress returns the oldest address flagged as the company's own
func (a *Assembler) companyAddress(ctx context.Context, company string) (*model.Address, error) {
	addrs, err := a.repo.ListCompanyAddresses(ctx, company)
	if err != nil {
		return nil, fmt.Errorf("list company addresses: %w", err)
	}
	addr, ok := lo.Find(addrs, func(candidate *model.Address) bool {
		return candidate.IsYourCompanyAddress
	})
	if !ok {
		return nil, model.NewNotFoundError("company_address",
			fmt.Sprintf("No company address found for Company '%s'. Please add and mark an address as 'Your Company Address'.", company))
	}
	return addr, nil
}

// customerAddress prefers the address set on the invoice, then the
// customer's primary address.
func (a *Assembler) customerAddress(ctx context.Context, inv *model.SourceInvoice, customer *model.Customer) (*model.Address, error) {
	name := strings.TrimSpace(inv.CustomerAddress)
	if name == "" {
		name = strings.TrimSpace(customer.PrimaryAddress)
	}
	if name == "" {
		return nil, model.NewNotFoundError("customer_address",
			fmt.Sprintf("Customer address not found for Customer '%s'", customer.Name))
	}
	return a.repo.GetAddress(ctx, name)
}
