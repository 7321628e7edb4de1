package memory

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rezonia/uae-einvoice/internal/model"
)

// Dataset is the JSON layout accepted by Load
type Dataset struct {
	Invoices         []*model.SourceInvoice   `json:"sales_invoices"`
	Companies        []*model.Company         `json:"companies"`
	Customers        []*model.Customer        `json:"customers"`
	Addresses        []*model.Address         `json:"addresses"`
	BankAccounts     []*model.BankAccount     `json:"bank_accounts"`
	ItemTaxTemplates []*model.ItemTaxTemplate `json:"item_tax_templates"`
	CountryCodes     map[string]string        `json:"country_codes"`
}

// Load decodes a dataset and returns a store seeded with it
func Load(r io.Reader) (*Store, error) {
	var ds Dataset
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&ds); err != nil {
		return nil, model.NewMalformedInputError("dataset", nil, err.Error())
	}
	return FromDataset(&ds), nil
}

// LoadFile reads a dataset from path
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", path, err)
	}
	return s, nil
}

// FromDataset seeds a new store. Records without a name are skipped.
func FromDataset(ds *Dataset) *Store {
	s := New()
	for _, inv := range ds.Invoices {
		if inv != nil && inv.Name != "" {
			s.PutInvoice(inv)
		}
	}
	for _, c := range ds.Companies {
		if c != nil && c.Name != "" {
			s.PutCompany(c)
		}
	}
	for _, c := range ds.Customers {
		if c != nil && c.Name != "" {
			s.PutCustomer(c)
		}
	}
	for _, a := range ds.Addresses {
		if a != nil && a.Name != "" {
			s.PutAddress(a)
		}
	}
	for _, b := range ds.BankAccounts {
		if b != nil && b.Name != "" {
			s.PutBankAccount(b)
		}
	}
	for _, t := range ds.ItemTaxTemplates {
		if t != nil && t.Name != "" {
			s.PutItemTaxTemplate(t)
		}
	}
	for name, code := range ds.CountryCodes {
		s.PutCountryCode(name, code)
	}
	return s
}
