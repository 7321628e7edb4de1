package resolver

import (
	"github.com/shopspring/decimal"

	money "github.com/rezonia/uae-einvoice/internal/decimal"
	"github.com/rezonia/uae-einvoice/internal/model"
)

// LegalMonetaryTotals resolves IBG-22 from the line totals. net and tax are
// the unrounded sums of the invoice lines. Each amount is rounded once.
func LegalMonetaryTotals(inv *model.SourceInvoice, net, tax decimal.Decimal, currency string) model.LegalMonetaryTotal {
	discount := inv.DiscountAmount.Abs()
	rate := DocumentVATRate(inv)

	allowance := money.Zero
	exclusive := net
	inclusive := net.Add(tax)

	if !discount.IsZero() {
		if IsTaxInclusive(inv) {
			// discount was taken off the VAT-inclusive grand total
			allowance = money.ExclusiveShare(discount, rate)
			exclusive = net.Sub(allowance)
			inclusive = net.Add(tax).Sub(discount)
		} else {
			allowance = discount
			exclusive = net.Sub(discount)
			inclusive = exclusive.Add(tax.Sub(money.Percent(discount, rate)))
		}
	}

	payable := inclusive
	if !inv.RoundedTotal.IsZero() {
		payable = inv.RoundedTotal.Abs()
	}

	inclusive = money.Round(inclusive, money.AmountPlaces)
	payable = money.Round(payable, money.AmountPlaces)

	return model.LegalMonetaryTotal{
		LineExtensionAmount:   money.R2(net),
		TaxExclusiveAmount:    money.R2(exclusive),
		TaxInclusiveAmount:    money.R2(inclusive),
		AllowanceTotalAmount:  money.R2(allowance),
		PayableRoundingAmount: money.R2(payable.Sub(inclusive)),
		PayableAmount:         money.R2(payable),
		CurrencyID:            currency,
	}
}

// InvoiceTotals recomputes the totals straight from the lines, ignoring
// the pricing mode. It is emitted alongside the legal totals unreconciled.
func InvoiceTotals(inv *model.SourceInvoice, net, tax decimal.Decimal) model.InvoiceTotals {
	discount := inv.DiscountAmount
	return model.InvoiceTotals{
		LineExtensionAmount:  money.R2(net),
		TaxExclusiveAmount:   money.R2(net.Sub(discount)),
		TaxInclusiveAmount:   money.R2(net.Add(tax)),
		AllowanceTotalAmount: money.R2(discount.Abs()),
		PayableAmount:        money.R2(net.Add(tax)),
	}
}
