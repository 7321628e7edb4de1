// Package memory is an in-memory store.Repository, optionally seeded from
// a JSON dataset.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/rezonia/uae-einvoice/internal/model"
	"github.com/rezonia/uae-einvoice/internal/store"
)

var _ store.Repository = (*Store)(nil)

type Store struct {
	mu sync.RWMutex

	invoices  map[string]*model.SourceInvoice
	companies map[string]*model.Company
	customers map[string]*model.Customer
	addresses map[string]*model.Address
	banks     map[string]*model.BankAccount
	templates map[string]*model.ItemTaxTemplate

	// Country name (lower-cased) to ISO code
	countries map[string]string
}

func New() *Store {
	return &Store{
		invoices:  make(map[string]*model.SourceInvoice),
		companies: make(map[string]*model.Company),
		customers: make(map[string]*model.Customer),
		addresses: make(map[string]*model.Address),
		banks:     make(map[string]*model.BankAccount),
		templates: make(map[string]*model.ItemTaxTemplate),
		countries: make(map[string]string),
	}
}

// Put methods replace any record stored under the same name

func (s *Store) PutInvoice(inv *model.SourceInvoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[inv.Name] = inv
}

func (s *Store) PutCompany(c *model.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies[c.Name] = c
}

func (s *Store) PutCustomer(c *model.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[c.Name] = c
}

func (s *Store) PutAddress(a *model.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addresses[a.Name] = a
}

func (s *Store) PutBankAccount(b *model.BankAccount) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.banks[b.Name] = b
}

func (s *Store) PutItemTaxTemplate(t *model.ItemTaxTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[t.Name] = t
}

func (s *Store) PutCountryCode(name, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countries[name] = code
}

func (s *Store) GetInvoice(_ context.Context, name string) (*model.SourceInvoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if inv, ok := s.invoices[name]; ok {
		return inv, nil
	}
	return nil, notFound("sales_invoice", "Sales Invoice", name)
}

func (s *Store) GetCompany(_ context.Context, name string) (*model.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.companies[name]; ok {
		return c, nil
	}
	return nil, notFound("company", "Company", name)
}

func (s *Store) GetCustomer(_ context.Context, name string) (*model.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.customers[name]; ok {
		return c, nil
	}
	return nil, notFound("customer", "Customer", name)
}

func (s *Store) GetAddress(_ context.Context, name string) (*model.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if a, ok := s.addresses[name]; ok {
		return a, nil
	}
	return nil, notFound("address", "Address", name)
}

// Invoices returns every stored sales invoice ordered by name
func (s *Store) Invoices() []*model.SourceInvoice {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := lo.Values(s.invoices)
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

func (s *Store) ListCompanyAddresses(_ context.Context, company string) ([]*model.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Address, 0)
	for _, a := range s.addresses {
		if a.LinkedTo(model.DoctypeCompany, company) {
			result = append(result, a)
		}
	}

	// map order is random; creation then name keeps the listing stable
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Created.Equal(result[j].Created) {
			return result[i].Created.Before(result[j].Created)
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (s *Store) GetBankAccount(_ context.Context, name string) (*model.BankAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if b, ok := s.banks[name]; ok {
		return b, nil
	}
	return nil, notFound("bank_account", "Bank Account", name)
}

func (s *Store) GetItemTaxTemplate(_ context.Context, name string) (*model.ItemTaxTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if t, ok := s.templates[name]; ok {
		return t, nil
	}
	return nil, notFound("item_tax_template", "Item Tax Template", name)
}

func (s *Store) CountryCodes(_ context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.countries))
	for k, v := range s.countries {
		out[k] = v
	}
	return out, nil
}

func notFound(field, doctype, name string) error {
	return model.NewNotFoundError(field, doctype+" "+name+" not found")
}
