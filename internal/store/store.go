// Package store defines the read-only repository the assembler loads
// source records from.
package store

import (
	"context"

	"github.com/rezonia/uae-einvoice/internal/model"
)

// Repository gives access to the records an e-invoice is built from. Every
// Get method returns an error matching model.ErrNotFound when the record
// does not exist.
type Repository interface {
	GetInvoice(ctx context.Context, name string) (*model.SourceInvoice, error)
	GetCompany(ctx context.Context, name string) (*model.Company, error)
	GetCustomer(ctx context.Context, name string) (*model.Customer, error)
	GetAddress(ctx context.Context, name string) (*model.Address, error)
	// ListCompanyAddresses returns the addresses linked to company, oldest first
	ListCompanyAddresses(ctx context.Context, company string) ([]*model.Address, error)
	GetBankAccount(ctx context.Context, name string) (*model.BankAccount, error)
	GetItemTaxTemplate(ctx context.Context, name string) (*model.ItemTaxTemplate, error)
	// CountryCodes maps lower-cased country names to ISO alpha-2 codes
	CountryCodes(ctx context.Context) (map[string]string, error)
}
