package model

// Fixed identifiers used across the document
const (
	LocalCurrency     = "AED"
	LocalCountryCode  = "AE"
	TaxSchemeVAT      = "VAT"
	EndpointSchemeID  = "0235"
	DefaultRegType    = "TL"
	TradeLicenseAgent = "Trade License issuing Authority"
	FreeZoneSchemeID  = "FZ"
)

// Invoice type codes
const (
	InvoiceTypeStandard             = "380"
	InvoiceTypeCreditNote           = "381"
	InvoiceTypeCreditNoteOutOfScope = "81"
	InvoiceTypeOutOfScopeOfTax      = "480"
)

// Document is the assembled UAE e-invoice. Pointer fields without
// omitempty serialize as null when unresolved; omitempty fields are
// optional header blocks dropped entirely when not applicable.
type Document struct {
	InvoiceID               string             `json:"invoice_id"`
	IssueDate               string             `json:"issue_date"`
	IssueTime               *string            `json:"issue_time"`
	DueDate                 *string            `json:"due_date"`
	InvoiceTypeCode         string             `json:"invoice_type_code"`
	TransactionTypeCode     *string            `json:"invoice_transaction_type_code"`
	DocumentCurrencyCode    string             `json:"document_currency_code"`
	TaxCurrencyCode         string             `json:"tax_currency_code"`
	ExchangeRate            string             `json:"exchange_rate,omitempty"`
	Note                    *string            `json:"note"`
	TaxPointDate            *string            `json:"tax_point_date"`
	AccountingCost          string             `json:"accounting_cost,omitempty"`
	BuyerReference          *string            `json:"buyer_reference"`
	InvoicePeriod           *InvoicePeriod     `json:"invoice_period,omitempty"`
	OrderReference          *OrderReference    `json:"order_reference,omitempty"`
	BillingReference        *BillingReference  `json:"billing_reference,omitempty"`
	AccountingSupplierParty PartyBlock         `json:"accounting_supplier_party"`
	AccountingCustomerParty PartyBlock         `json:"accounting_customer_party"`
	PaymentMeans            *PaymentMeans      `json:"payment_means"`
	TaxTotal                TaxTotal           `json:"tax_total"`
	LegalMonetaryTotal      LegalMonetaryTotal `json:"legal_monetary_total"`
	InvoiceLines            []InvoiceLine      `json:"invoice_line"`
	InvoiceTotals           InvoiceTotals      `json:"invoice_totals"`
}

// InvoicePeriod is the billing period block
type InvoicePeriod struct {
	StartDate       *string `json:"start_date"`
	EndDate         *string `json:"end_date"`
	DescriptionCode *string `json:"description_code"`
}

// OrderReference points at the buyer's purchase order
type OrderReference struct {
	ID string `json:"id"`
}

// BillingReference points a credit note at the invoice it corrects
type BillingReference struct {
	InvoiceDocumentReference DocumentReference `json:"invoice_document_reference"`
}

// DocumentReference identifies a prior document
type DocumentReference struct {
	ID string `json:"id"`
}

// PartyBlock wraps a party the way PEPPOL nests it
type PartyBlock struct {
	Party Party `json:"party"`
}

// Party is a supplier or customer party
type Party struct {
	EndpointID          EndpointID           `json:"endpoint_id"`
	PartyIdentification *PartyIdentification `json:"party_identification,omitempty"`
	PartyName           *string              `json:"party_name"`
	PostalAddress       PostalAddress        `json:"postal_address"`
	PartyTaxScheme      PartyTaxScheme       `json:"party_tax_scheme"`
	PartyLegalEntity    PartyLegalEntity     `json:"party_legal_entity"`
	Contact             Contact              `json:"contact"`
}

// EndpointID is the electronic address of a party
type EndpointID struct {
	Value    *string `json:"value"`
	SchemeID string  `json:"scheme_id"`
}

// PartyIdentification carries the free-zone beneficiary id
type PartyIdentification struct {
	ID       string `json:"id"`
	SchemeID string `json:"scheme_id"`
}

// PostalAddress is a party address
type PostalAddress struct {
	StreetName           *string `json:"street_name"`
	AdditionalStreetName *string `json:"additional_street_name"`
	CityName             *string `json:"city_name"`
	PostalZone           *string `json:"postal_zone"`
	CountrySubentity     *string `json:"country_subentity"`
	AddressLine          *string `json:"address_line"`
	Country              Country `json:"country"`
}

// Country holds the ISO 3166 alpha-2 code
type Country struct {
	IdentificationCode string `json:"identification_code"`
}

// PartyTaxScheme is the party's VAT registration
type PartyTaxScheme struct {
	CompanyID *string   `json:"company_id"`
	TaxScheme TaxScheme `json:"tax_scheme"`
}

// TaxScheme identifies the tax
type TaxScheme struct {
	ID string `json:"id"`
}

// PartyLegalEntity is the party's legal registration
type PartyLegalEntity struct {
	RegistrationName *string         `json:"registration_name"`
	CompanyID        *LegalCompanyID `json:"company_id,omitempty"`
}

// LegalCompanyID is the trade-license (or other legal registration) identifier
type LegalCompanyID struct {
	Value            string `json:"value"`
	SchemeAgencyID   string `json:"scheme_agency_id"`
	SchemeAgencyName string `json:"scheme_agency_name"`
}

// Contact is the party contact
type Contact struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
}

// PaymentMeans is the payment instructions block
type PaymentMeans struct {
	PaymentMeansCode      string            `json:"payment_means_code"`
	PaymentMeansName      string            `json:"payment_means_name"`
	PayeeFinancialAccount *FinancialAccount `json:"payee_financial_account,omitempty"`
	CardAccount           *CardAccount      `json:"card_account,omitempty"`
}

// FinancialAccount is the payee bank account for credit transfers
type FinancialAccount struct {
	ID                         string  `json:"id"`
	Name                       string  `json:"name"`
	FinancialInstitutionBranch *string `json:"financial_institution_branch"`
}

// CardAccount is the masked card used for payment
type CardAccount struct {
	PrimaryAccountNumberID string  `json:"primary_account_number_id"`
	NetworkID              *string `json:"network_id"`
	HolderName             *string `json:"holder_name"`
}

// TaxTotal is the document-level VAT breakdown
type TaxTotal struct {
	TaxAmount    string        `json:"tax_amount"`
	CurrencyID   string        `json:"currency_id"`
	TaxSubtotals []TaxSubtotal `json:"tax_subtotal"`
}

// TaxSubtotal is VAT per category and rate
type TaxSubtotal struct {
	TaxableAmount string      `json:"taxable_amount"`
	TaxAmount     string      `json:"tax_amount"`
	TaxCategory   TaxCategory `json:"tax_category"`
}

// TaxCategory is a VAT category with its rate
type TaxCategory struct {
	ID        string    `json:"id"`
	Percent   string    `json:"percent"`
	TaxScheme TaxScheme `json:"tax_scheme"`
}

// LegalMonetaryTotal is the policy-derived totals block
type LegalMonetaryTotal struct {
	LineExtensionAmount   string `json:"line_extension_amount"`
	TaxExclusiveAmount    string `json:"tax_exclusive_amount"`
	TaxInclusiveAmount    string `json:"tax_inclusive_amount"`
	AllowanceTotalAmount  string `json:"allowance_total_amount"`
	PayableRoundingAmount string `json:"payable_rounding_amount"`
	PayableAmount         string `json:"payable_amount"`
	CurrencyID            string `json:"currency_id"`
}

// InvoiceTotals is the raw recomputation from invoice lines
type InvoiceTotals struct {
	LineExtensionAmount  string `json:"line_extension_amount"`
	TaxExclusiveAmount   string `json:"tax_exclusive_amount"`
	TaxInclusiveAmount   string `json:"tax_inclusive_amount"`
	AllowanceTotalAmount string `json:"allowance_total_amount"`
	PayableAmount        string `json:"payable_amount"`
}

// InvoiceLine is one classified line of the document
type InvoiceLine struct {
	ID                  string   `json:"id"`
	InvoicedQuantity    string   `json:"invoiced_quantity"`
	UnitCode            *string  `json:"unit_code"`
	LineExtensionAmount string   `json:"line_extension_amount"`
	TaxAmount           string   `json:"tax_amount"`
	AccountingCost      *string  `json:"accounting_cost"`
	Item                LineItem `json:"item"`
	Price               Price    `json:"price"`
}

// LineItem describes the product or service on a line
type LineItem struct {
	Name                      *string                 `json:"name"`
	Description               *string                 `json:"description"`
	SellersItemIdentification *string                 `json:"sellers_item_identification"`
	CommodityClassification   CommodityClassification `json:"commodity_classification"`
	ClassifiedTaxCategory     TaxCategory             `json:"classified_tax_category"`
}

// CommodityClassification mirrors the item type (G, S or B) and carries
// the matching HS and/or SAC codes.
type CommodityClassification struct {
	NatureCode              string               `json:"nature_code"`
	ItemClassificationCodes []ClassificationCode `json:"item_classification_code"`
}

// ClassificationCode is an HS or SAC code
type ClassificationCode struct {
	Code   string `json:"code"`
	ListID string `json:"list_id"`
}

// Price is the unit price of a line
type Price struct {
	PriceAmount  string `json:"price_amount"`
	BaseQuantity string `json:"base_quantity"`
}

// StringPtr returns nil for empty strings so the field serializes as null
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
