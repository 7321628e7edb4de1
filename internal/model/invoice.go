package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Item type classifiers
const (
	ItemTypeGoods    = "Goods"
	ItemTypeServices = "Services"
	ItemTypeBoth     = "Both"
)

// SourceInvoice is a read-only snapshot of a Sales Invoice record
type SourceInvoice struct {
	Name            string `json:"name"`
	Company         string `json:"company"`
	Customer        string `json:"customer"`
	CustomerAddress string `json:"customer_address,omitempty"`

	PostingDate civil.Date  `json:"posting_date"`
	PostingTime TimeOfDay   `json:"posting_time"`
	DueDate     *civil.Date `json:"due_date,omitempty"`

	Currency       string          `json:"currency"`
	ConversionRate decimal.Decimal `json:"conversion_rate"`

	IsReturn             bool   `json:"is_return"`
	ReturnAgainst        string `json:"return_against,omitempty"`
	OutOfScopeCreditNote bool   `json:"out_of_scope_credit_note"`
	OutOfScopeOfTax      bool   `json:"out_of_scope_of_tax"`

	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
	DiscountAmount    decimal.Decimal `json:"discount_amount"`
	Total             decimal.Decimal `json:"total"`
	NetTotal          decimal.Decimal `json:"net_total"`
	GrandTotal        decimal.Decimal `json:"grand_total"`
	RoundedTotal      decimal.Decimal `json:"rounded_total"`

	// TransactionType is free text of the form "code : description"
	TransactionType string `json:"transaction_type,omitempty"`

	InvoicePeriodStart *civil.Date `json:"invoice_period_start,omitempty"`
	InvoicePeriodEnd   *civil.Date `json:"invoice_period_end,omitempty"`
	PeriodCode         string      `json:"period_code,omitempty"`
	Note               *string     `json:"note,omitempty"`

	VATCategory string     `json:"vat_category,omitempty"`
	Taxes       []TaxLine  `json:"taxes"`
	Items       []ItemLine `json:"items"`

	// PaymentMeans is free text of the form "code - name"
	PaymentMeans string       `json:"payment_means,omitempty"`
	BankAccount  string       `json:"bank_account,omitempty"`
	Card         *CardDetails `json:"card,omitempty"`

	CostCenter string `json:"cost_center,omitempty"`
	PONumber   string `json:"po_no,omitempty"`
}

// TaxLine is one row of the invoice's taxes table
type TaxLine struct {
	AccountHead         string          `json:"account_head,omitempty"`
	Rate                decimal.Decimal `json:"rate"`
	IncludedInPrintRate bool            `json:"included_in_print_rate"`
}

// ItemLine is one row of the invoice's items table
type ItemLine struct {
	ItemCode        string          `json:"item_code"`
	ItemName        string          `json:"item_name"`
	Description     string          `json:"description,omitempty"`
	Qty             decimal.Decimal `json:"qty"`
	UOM             string          `json:"uom"`
	Rate            decimal.Decimal `json:"rate"`
	Amount          decimal.Decimal `json:"amount"`
	NetAmount       decimal.Decimal `json:"net_amount"`
	ItemType        string          `json:"item_type,omitempty"`
	HSCode          string          `json:"hs_code,omitempty"`
	SACCode         string          `json:"sac_code,omitempty"`
	ItemTaxTemplate string          `json:"item_tax_template,omitempty"`
	CostCenter      string          `json:"cost_center,omitempty"`
}

// TaxableAmount is the net amount the line is taxed on
func (l ItemLine) TaxableAmount() decimal.Decimal {
	if !l.NetAmount.IsZero() {
		return l.NetAmount
	}
	return l.Amount
}

// Label names the line in error messages
func (l ItemLine) Label() string {
	if l.ItemCode != "" {
		return l.ItemCode
	}
	return l.ItemName
}

// CardDetails is the card metadata captured at payment
type CardDetails struct {
	Last4      string `json:"last4,omitempty"`
	NetworkID  string `json:"network_id,omitempty"`
	HolderName string `json:"holder_name,omitempty"`
}

// Company is the supplier party record
type Company struct {
	Name                  string `json:"name"`
	LegalName             string `json:"legal_name,omitempty"`
	TaxID                 string `json:"tax_id,omitempty"`
	TradeLicense          string `json:"trade_license,omitempty"`
	LegalRegistrationType string `json:"legal_registration_type,omitempty"`
	DefaultCurrency       string `json:"default_currency,omitempty"`
}

// Customer is the receiving party record
type Customer struct {
	Name                  string `json:"name"`
	CustomerName          string `json:"customer_name"`
	LegalName             string `json:"legal_name,omitempty"`
	TaxID                 string `json:"tax_id,omitempty"`
	TradeLicense          string `json:"trade_license,omitempty"`
	FreeZoneBeneficiaryID string `json:"free_zone_beneficiary_id,omitempty"`
	LegalRegistrationType string `json:"legal_registration_type,omitempty"`
	PrimaryAddress        string `json:"customer_primary_address,omitempty"`
}

// RegistrationName returns the legal name, falling back to the display name
func (c Customer) RegistrationName() string {
	if c.LegalName != "" {
		return c.LegalName
	}
	return c.CustomerName
}

// Address is an address record linked to a company or customer
type Address struct {
	Name                 string    `json:"name"`
	AddressLine1         string    `json:"address_line1"`
	AddressLine2         string    `json:"address_line2,omitempty"`
	City                 string    `json:"city"`
	Pincode              string    `json:"pincode,omitempty"`
	State                string    `json:"state,omitempty"`
	Country              string    `json:"country"`
	Phone                string    `json:"phone,omitempty"`
	EmailID              string    `json:"email_id,omitempty"`
	IsYourCompanyAddress bool      `json:"is_your_company_address"`
	Created              time.Time `json:"creation"`
	Links                []Link    `json:"links,omitempty"`
}

// Link ties an address to the record it belongs to
type Link struct {
	Doctype string `json:"link_doctype"`
	Name    string `json:"link_name"`
}

// Link doctypes
const (
	DoctypeCompany  = "Company"
	DoctypeCustomer = "Customer"
)

// LinkedTo reports whether the address is linked to the given record
func (a Address) LinkedTo(doctype, name string) bool {
	for _, l := range a.Links {
		if l.Doctype == doctype && l.Name == name {
			return true
		}
	}
	return false
}

// BankAccount holds the payee account used for credit transfers
type BankAccount struct {
	Name        string `json:"name"`
	AccountName string `json:"account_name"`
	IBAN        string `json:"iban"`
	Bank        string `json:"bank,omitempty"`
	BranchCode  string `json:"branch_code,omitempty"`
}

// ItemTaxTemplate is an item-level tax template
type ItemTaxTemplate struct {
	Name        string           `json:"name"`
	VATCategory string           `json:"vat_category,omitempty"`
	Rate        *decimal.Decimal `json:"rate,omitempty"`
}

// TimeOfDay is a posting time. Frappe hands it over either as a clock
// value or as a duration since midnight.
type TimeOfDay struct {
	Clock         *civil.Time
	SinceMidnight *time.Duration
}

// ClockTime wraps a clock value
func ClockTime(t civil.Time) TimeOfDay {
	return TimeOfDay{Clock: &t}
}

// SinceMidnight wraps a duration since midnight
func SinceMidnight(d time.Duration) TimeOfDay {
	return TimeOfDay{SinceMidnight: &d}
}

// IsZero reports whether no time was supplied
func (t TimeOfDay) IsZero() bool {
	return t.Clock == nil && t.SinceMidnight == nil
}

// UnmarshalJSON accepts null, "HH:MM:SS[.ffffff]" or a number of seconds
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	*t = TimeOfDay{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] != '"' {
		secs, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return NewMalformedInputError("posting_time", string(data), "not a number of seconds")
		}
		d := time.Duration(secs * float64(time.Second))
		t.SinceMidnight = &d
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if ct, err := civil.ParseTime(s); err == nil {
		t.Clock = &ct
		return nil
	}

	// timedelta strings may run past 23 hours
	d, err := parseClockDuration(s)
	if err != nil {
		return err
	}
	t.SinceMidnight = &d
	return nil
}

// MarshalJSON writes the clock form or the number of seconds
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	switch {
	case t.Clock != nil:
		return json.Marshal(t.Clock.String())
	case t.SinceMidnight != nil:
		return json.Marshal(t.SinceMidnight.Seconds())
	default:
		return []byte("null"), nil
	}
}

func parseClockDuration(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, NewMalformedInputError("posting_time", s, "expected HH:MM:SS")
	}
	h, errH := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	sec, errS := strconv.ParseFloat(parts[2], 64)
	if errH != nil || errM != nil || errS != nil {
		return 0, NewMalformedInputError("posting_time", s, "expected HH:MM:SS")
	}
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(sec*float64(time.Second)), nil
}

// String renders the time for logs
func (t TimeOfDay) String() string {
	switch {
	case t.Clock != nil:
		return t.Clock.String()
	case t.SinceMidnight != nil:
		return fmt.Sprintf("+%s", t.SinceMidnight.String())
	default:
		return ""
	}
}
