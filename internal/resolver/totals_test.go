package resolver_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rezonia/uae-einvoice/internal/model"
	"github.com/rezonia/uae-einvoice/internal/resolver"
)

func TestLegalMonetaryTotals(t *testing.T) {
	tests := []struct {
		name      string
		inclusive bool
		discount  string
		rounded   string
		expected  model.LegalMonetaryTotal
	}{
		{
			name: "exclusive without discount",
			expected: model.LegalMonetaryTotal{
				LineExtensionAmount: "100.00", TaxExclusiveAmount: "100.00", TaxInclusiveAmount: "105.00",
				AllowanceTotalAmount: "0.00", PayableRoundingAmount: "0.00", PayableAmount: "105.00", CurrencyID: "AED",
			},
		},
		{
			name:     "exclusive with discount",
			discount: "10",
			expected: model.LegalMonetaryTotal{
				LineExtensionAmount: "100.00", TaxExclusiveAmount: "90.00", TaxInclusiveAmount: "94.50",
				AllowanceTotalAmount: "10.00", PayableRoundingAmount: "0.00", PayableAmount: "94.50", CurrencyID: "AED",
			},
		},
		{
			name:      "inclusive without discount",
			inclusive: true,
			expected: model.LegalMonetaryTotal{
				LineExtensionAmount: "100.00", TaxExclusiveAmount: "100.00", TaxInclusiveAmount: "105.00",
				AllowanceTotalAmount: "0.00", PayableRoundingAmount: "0.00", PayableAmount: "105.00", CurrencyID: "AED",
			},
		},
		{
			name:      "inclusive with discount",
			inclusive: true,
			discount:  "10.50",
			expected: model.LegalMonetaryTotal{
				LineExtensionAmount: "100.00", TaxExclusiveAmount: "90.00", TaxInclusiveAmount: "94.50",
				AllowanceTotalAmount: "10.00", PayableRoundingAmount: "0.00", PayableAmount: "94.50", CurrencyID: "AED",
			},
		},
		{
			name:     "rounded total sets payable",
			discount: "10",
			rounded:  "95",
			expected: model.LegalMonetaryTotal{
				LineExtensionAmount: "100.00", TaxExclusiveAmount: "90.00", TaxInclusiveAmount: "94.50",
				AllowanceTotalAmount: "10.00", PayableRoundingAmount: "0.50", PayableAmount: "95.00", CurrencyID: "AED",
			},
		},
		{
			name:    "negative rounded total on returns",
			rounded: "-105",
			expected: model.LegalMonetaryTotal{
				LineExtensionAmount: "100.00", TaxExclusiveAmount: "100.00", TaxInclusiveAmount: "105.00",
				AllowanceTotalAmount: "0.00", PayableRoundingAmount: "0.00", PayableAmount: "105.00", CurrencyID: "AED",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := baseInvoice()
			inv.Taxes[0].IncludedInPrintRate = tt.inclusive
			if tt.discount != "" {
				inv.DiscountAmount = decimal.RequireFromString(tt.discount)
			}
			if tt.rounded != "" {
				inv.RoundedTotal = decimal.RequireFromString(tt.rounded)
			}

			got := resolver.LegalMonetaryTotals(inv, decimal.NewFromInt(100), decimal.NewFromInt(5), "AED")
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLegalMonetaryTotals_RoundsOnce(t *testing.T) {
	inv := baseInvoice()
	// three lines of 33.33 at 5%: per-line tax 1.6665 each
	net := decimal.RequireFromString("99.99")
	tax := decimal.RequireFromString("4.9995")

	got := resolver.LegalMonetaryTotals(inv, net, tax, "AED")
	assert.Equal(t, "99.99", got.LineExtensionAmount)
	assert.Equal(t, "104.99", got.TaxInclusiveAmount)
	assert.Equal(t, "104.99", got.PayableAmount)
}

func TestInvoiceTotals(t *testing.T) {
	inv := baseInvoice()
	inv.DiscountAmount = decimal.NewFromInt(10)

	got := resolver.InvoiceTotals(inv, decimal.NewFromInt(100), decimal.NewFromInt(5))
	assert.Equal(t, model.InvoiceTotals{
		LineExtensionAmount:  "100.00",
		TaxExclusiveAmount:   "90.00",
		TaxInclusiveAmount:   "105.00",
		AllowanceTotalAmount: "10.00",
		PayableAmount:        "105.00",
	}, got)
}
