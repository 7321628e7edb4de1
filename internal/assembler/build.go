package assembler

import (
	"strings"

	"github.com/rezonia/uae-einvoice/internal/country"
	"github.com/rezonia/uae-einvoice/internal/lineitem"
	"github.com/rezonia/uae-einvoice/internal/model"
	"github.com/rezonia/uae-einvoice/internal/party"
	"github.com/rezonia/uae-einvoice/internal/resolver"
)

// scheme agency names by legal registration type
var registrationAgencies = map[string]string{
	model.DefaultRegType: model.TradeLicenseAgent,
	"EID":                "Emirates ID issuing Authority",
	"PAS":                "Passport issuing Authority",
	"CD":                 "Cabinet Decision",
}

// Build assembles the document from a loaded snapshot. It performs no I/O
// and returns either a complete document or an error.
func (a *Assembler) Build(snap *Snapshot) (*model.Document, error) {
	if err := checkSnapshot(snap); err != nil {
		return nil, err
	}
	inv := snap.Invoice
	log := a.logger.With().Str("invoice", inv.Name).Logger()

	typeCode := resolver.InvoiceTypeCode(inv)
	txn := resolver.ParseTransactionType(inv.TransactionType)
	countries := country.NewLookup(snap.CountryCodes)

	supplier := supplierParty(snap.Company, snap.CompanyAddress, countries)
	customer := customerParty(snap.Customer, snap.CustomerAddress, txn, countries)

	if err := party.Validate(party.Input{
		Party:           customer,
		Customer:        *snap.Customer,
		InvoiceTypeCode: typeCode,
		TransactionType: txn,
	}); err != nil {
		log.Debug().Strs("violations", model.Messages(err)).Msg("Customer party rejected")
		return nil, err
	}
	log.Debug().Str("type_code", typeCode).Str("transaction_type", txn.Code()).Msg("Party validated")

	doc, err := buildHeader(inv, typeCode, txn, snap.BankAccount)
	if err != nil {
		return nil, err
	}
	doc.AccountingSupplierParty = model.PartyBlock{Party: supplier}
	doc.AccountingCustomerParty = model.PartyBlock{Party: customer}

	lines, err := lineitem.NewClassifier(snap.ItemTaxTemplates).Classify(inv)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Int("lines", len(lines.Lines)).
		Str("total_net", lines.TotalNet.String()).
		Str("total_tax", lines.TotalTax.String()).
		Msg("Lines classified")

	doc.InvoiceLines = lines.Lines
	doc.TaxTotal = lines.TaxTotal(doc.DocumentCurrencyCode)
	doc.LegalMonetaryTotal = resolver.LegalMonetaryTotals(inv, lines.TotalNet, lines.TotalTax, doc.DocumentCurrencyCode)
	doc.InvoiceTotals = resolver.InvoiceTotals(inv, lines.TotalNet, lines.TotalTax)

	log.Debug().
		Str("payable", doc.LegalMonetaryTotal.PayableAmount).
		Msg("Document assembled")

	return doc, nil
}

func checkSnapshot(snap *Snapshot) error {
	switch {
	case snap == nil || snap.Invoice == nil:
		return model.NewMissingFieldError("invoice", "Sales Invoice not provided")
	case snap.Company == nil:
		return model.NewNotFoundError("company", "Company not provided")
	case snap.Customer == nil:
		return model.NewNotFoundError("customer", "Customer not provided")
	case snap.CompanyAddress == nil:
		return model.NewNotFoundError("company_address",
			"No company address found. Please add and mark an address as 'Your Company Address'.")
	case snap.CustomerAddress == nil:
		return model.NewNotFoundError("customer_address", "Customer address not found")
	}
	return nil
}

// buildHeader resolves every header field, failing on the first error
func buildHeader(inv *model.SourceInvoice, typeCode string, txn resolver.TransactionType, bank *model.BankAccount) (*model.Document, error) {
	issueDate, err := resolver.IssueDate(inv)
	if err != nil {
		return nil, err
	}
	currency, err := resolver.DocumentCurrency(inv.Currency)
	if err != nil {
		return nil, err
	}
	exchangeRate, err := resolver.ExchangeRate(inv)
	if err != nil {
		return nil, err
	}
	dueDate, err := resolver.DueDate(inv, txn)
	if err != nil {
		return nil, err
	}
	taxPoint, err := resolver.TaxPointDate(inv, dueDate)
	if err != nil {
		return nil, err
	}
	period, err := resolver.InvoicePeriod(inv, txn)
	if err != nil {
		return nil, err
	}
	note, err := resolver.InvoiceNote(inv)
	if err != nil {
		return nil, err
	}
	means, err := resolver.PaymentMeans(inv, txn, bank)
	if err != nil {
		return nil, err
	}

	doc := &model.Document{
		InvoiceID:            inv.Name,
		IssueDate:            issueDate,
		IssueTime:            resolver.IssueTime(inv.PostingTime),
		DueDate:              dueDate,
		InvoiceTypeCode:      typeCode,
		TransactionTypeCode:  txn.Ptr(),
		DocumentCurrencyCode: currency,
		TaxCurrencyCode:      model.LocalCurrency,
		ExchangeRate:         exchangeRate,
		Note:                 note,
		TaxPointDate:         taxPoint,
		AccountingCost:       strings.TrimSpace(inv.CostCenter),
		BuyerReference:       resolver.BuyerReference(inv.Name),
		InvoicePeriod:        period,
		PaymentMeans:         means,
	}

	if po := strings.TrimSpace(inv.PONumber); po != "" {
		doc.OrderReference = &model.OrderReference{ID: po}
	}
	if against := strings.TrimSpace(inv.ReturnAgainst); against != "" && (inv.IsReturn || inv.OutOfScopeCreditNote) {
		doc.BillingReference = &model.BillingReference{
			InvoiceDocumentReference: model.DocumentReference{ID: against},
		}
	}

	return doc, nil
}

func supplierParty(company *model.Company, addr *model.Address, countries *country.Lookup) model.Party {
	legalName := company.LegalName
	if legalName == "" {
		legalName = company.Name
	}
	return model.Party{
		EndpointID:    endpoint(company.TaxID),
		PartyName:     model.StringPtr(company.Name),
		PostalAddress: postalAddress(addr, countries),
		PartyTaxScheme: model.PartyTaxScheme{
			CompanyID: model.StringPtr(company.TaxID),
			TaxScheme: model.TaxScheme{ID: model.TaxSchemeVAT},
		},
		PartyLegalEntity: model.PartyLegalEntity{
			RegistrationName: model.StringPtr(legalName),
			CompanyID:        legalCompanyID(company.TradeLicense, company.LegalRegistrationType),
		},
		Contact: model.Contact{
			Name:  model.StringPtr(company.Name),
			Phone: model.StringPtr(addr.Phone),
			Email: model.StringPtr(addr.EmailID),
		},
	}
}

// customerParty builds the receiving party. The free-zone block is added
// only for free-zone transactions with a beneficiary id on file.
func customerParty(customer *model.Customer, addr *model.Address, txn resolver.TransactionType, countries *country.Lookup) model.Party {
	p := model.Party{
		EndpointID:    endpoint(customer.TaxID),
		PartyName:     model.StringPtr(customer.CustomerName),
		PostalAddress: postalAddress(addr, countries),
		PartyTaxScheme: model.PartyTaxScheme{
			CompanyID: model.StringPtr(customer.TaxID),
			TaxScheme: model.TaxScheme{ID: model.TaxSchemeVAT},
		},
		PartyLegalEntity: model.PartyLegalEntity{
			RegistrationName: model.StringPtr(customer.RegistrationName()),
			CompanyID:        legalCompanyID(customer.TradeLicense, customer.LegalRegistrationType),
		},
		Contact: model.Contact{
			Name:  model.StringPtr(customer.CustomerName),
			Phone: model.StringPtr(addr.Phone),
			Email: model.StringPtr(addr.EmailID),
		},
	}

	if fz := strings.TrimSpace(customer.FreeZoneBeneficiaryID); fz != "" && txn.IsFreeZone() {
		p.PartyIdentification = &model.PartyIdentification{ID: fz, SchemeID: model.FreeZoneSchemeID}
	}
	return p
}

func endpoint(taxID string) model.EndpointID {
	return model.EndpointID{
		Value:    model.StringPtr(taxID),
		SchemeID: model.EndpointSchemeID,
	}
}

func postalAddress(addr *model.Address, countries *country.Lookup) model.PostalAddress {
	return model.PostalAddress{
		StreetName:           model.StringPtr(addr.AddressLine1),
		AdditionalStreetName: model.StringPtr(addr.AddressLine2),
		CityName:             model.StringPtr(addr.City),
		PostalZone:           model.StringPtr(addr.Pincode),
		CountrySubentity:     model.StringPtr(addr.State),
		AddressLine:          model.StringPtr(addr.AddressLine2),
		Country:              model.Country{IdentificationCode: countries.Code(addr.Country)},
	}
}

// legalCompanyID returns nil when no trade license is on file
func legalCompanyID(tradeLicense, regType string) *model.LegalCompanyID {
	tradeLicense = strings.TrimSpace(tradeLicense)
	if tradeLicense == "" {
		return nil
	}
	regType = strings.ToUpper(strings.TrimSpace(regType))
	if regType == "" {
		regType = model.DefaultRegType
	}
	agency, ok := registrationAgencies[regType]
	if !ok {
		agency = model.TradeLicenseAgent
	}
	return &model.LegalCompanyID{
		Value:            tradeLicense,
		SchemeAgencyID:   regType,
		SchemeAgencyName: agency,
	}
}
