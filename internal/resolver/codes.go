// Package resolver derives individual e-invoice fields from a source
// invoice. Every resolver is a pure function that applies the business
// rule of the field it owns and fails fast with a typed model error.
package resolver

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	money "github.com/rezonia/uae-einvoice/internal/decimal"
	"github.com/rezonia/uae-einvoice/internal/model"
)

// InvoiceTypeCode picks the document type. The return flag wins over the
// out-of-scope flags.
func InvoiceTypeCode(inv *model.SourceInvoice) string {
	switch {
	case inv.IsReturn:
		return model.InvoiceTypeCreditNote
	case inv.OutOfScopeCreditNote:
		return model.InvoiceTypeCreditNoteOutOfScope
	case inv.OutOfScopeOfTax:
		return model.InvoiceTypeOutOfScopeOfTax
	default:
		return model.InvoiceTypeStandard
	}
}

// DocumentCurrency validates and upper-cases an ISO 4217 code (IBT-005)
func DocumentCurrency(code string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if len(normalized) != 3 {
		return "", model.NewInvalidFieldError("currency", code, "document currency must be a 3-letter ISO code (IBT-005)")
	}
	for _, r := range normalized {
		if r < 'A' || r > 'Z' {
			return "", model.NewInvalidFieldError("currency", code, "document currency must be alphabetic (IBT-005)")
		}
	}
	return normalized, nil
}

// ExchangeRate returns "" for local-currency invoices. Foreign-currency
// invoices must carry a conversion rate, rounded to 6 decimals.
func ExchangeRate(inv *model.SourceInvoice) (string, error) {
	if strings.EqualFold(strings.TrimSpace(inv.Currency), model.LocalCurrency) {
		return "", nil
	}
	if inv.ConversionRate.IsZero() {
		return "", model.NewMissingFieldError("conversion_rate", "exchange rate is mandatory for invoices not in "+model.LocalCurrency)
	}
	if inv.ConversionRate.IsNegative() {
		return "", model.NewInvalidFieldError("conversion_rate", inv.ConversionRate.String(), "exchange rate must be positive")
	}
	return money.R6(money.Round(inv.ConversionRate, money.RatePlaces)), nil
}

// TransactionType is the leading code of the "code : description"
// transaction-type field. Each position is a flag.
type TransactionType string

// ParseTransactionType extracts the code before the first ':'
func ParseTransactionType(raw string) TransactionType {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	code, _, _ := strings.Cut(raw, ":")
	return TransactionType(strings.TrimSpace(code))
}

// Code returns the raw code
func (t TransactionType) Code() string {
	return string(t)
}

// Ptr returns nil when no transaction type was set
func (t TransactionType) Ptr() *string {
	return model.StringPtr(string(t))
}

// IsFreeZone reports a free-zone transaction (first flag)
func (t TransactionType) IsFreeZone() bool {
	return strings.HasPrefix(string(t), "1")
}

// IsDeemedSupply reports a deemed-supply transaction (second flag)
func (t TransactionType) IsDeemedSupply() bool {
	return t.flag(1)
}

// IsExport reports an export transaction (eighth flag, XXXXXXX1)
func (t TransactionType) IsExport() bool {
	return t.flag(7)
}

func (t TransactionType) flag(pos int) bool {
	return len(t) > pos && t[pos] == '1'
}

// BuyerReference is the numeric part of the invoice number (ICV)
func BuyerReference(invoiceName string) *string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, invoiceName)
	return model.StringPtr(digits)
}

// DocumentVATRate is the rate of the first tax row, zero when untaxed
func DocumentVATRate(inv *model.SourceInvoice) decimal.Decimal {
	if len(inv.Taxes) == 0 {
		return money.Zero
	}
	return inv.Taxes[0].Rate
}

// IsTaxInclusive reports whether item prices already embed VAT
func IsTaxInclusive(inv *model.SourceInvoice) bool {
	return len(inv.Taxes) > 0 && inv.Taxes[0].IncludedInPrintRate
}
