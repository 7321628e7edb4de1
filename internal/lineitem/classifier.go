// Package lineitem classifies invoice items by VAT treatment and commodity
// code and accumulates the document's net and tax totals.
package lineitem

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	money "github.com/rezonia/uae-einvoice/internal/decimal"
	"github.com/rezonia/uae-einvoice/internal/model"
)

// VAT category codes
const (
	CategoryStandard = "S"
	CategoryZero     = "Z"
)

// Commodity classification list identifiers
const (
	ListHS  = "HS"
	ListSAC = "SAC"
)

var itemTypes = []string{model.ItemTypeGoods, model.ItemTypeServices, model.ItemTypeBoth}

// nature codes by item type
var natureCodes = map[string]string{
	model.ItemTypeGoods:    "G",
	model.ItemTypeServices: "S",
	model.ItemTypeBoth:     "B",
}

// Result holds the classified lines and their unrounded totals
type Result struct {
	Lines     []model.InvoiceLine
	TotalNet  decimal.Decimal
	TotalTax  decimal.Decimal
	Subtotals []model.TaxSubtotal
}

// TaxTotal builds the document-level VAT block from the result
func (r *Result) TaxTotal(currency string) model.TaxTotal {
	return model.TaxTotal{
		TaxAmount:    money.R2(r.TotalTax),
		CurrencyID:   currency,
		TaxSubtotals: r.Subtotals,
	}
}

type treatment struct {
	category string
	rate     decimal.Decimal
}

type subtotal struct {
	treatment
	taxable decimal.Decimal
	tax     decimal.Decimal
}

// Classifier turns source item lines into document lines
type Classifier struct {
	templates map[string]model.ItemTaxTemplate
}

// NewClassifier creates a classifier. templates maps template name to the
// loaded template and may be nil when no line uses one.
func NewClassifier(templates map[string]model.ItemTaxTemplate) *Classifier {
	if templates == nil {
		templates = map[string]model.ItemTaxTemplate{}
	}
	return &Classifier{templates: templates}
}

// Classify processes every item line in source order. It fails on the
// first violation.
func (c *Classifier) Classify(inv *model.SourceInvoice) (*Result, error) {
	if err := checkTemplateConsistency(inv.Items); err != nil {
		return nil, err
	}

	docRate := money.Zero
	if len(inv.Taxes) > 0 {
		docRate = inv.Taxes[0].Rate
	}
	docTreatment := treatment{category: documentCategory(inv.VATCategory, docRate), rate: docRate}

	result := &Result{
		Lines:    make([]model.InvoiceLine, 0, len(inv.Items)),
		TotalNet: money.Zero,
		TotalTax: money.Zero,
	}
	var groups []*subtotal

	for i, item := range inv.Items {
		lineNo := i + 1
		if !money.IsPositive(item.Qty) {
			return nil, model.NewMissingFieldError("qty",
				fmt.Sprintf("quantity must be greater than zero for item %s (line %d)", item.Label(), lineNo))
		}

		nature, codes, err := classifyCommodity(item, lineNo)
		if err != nil {
			return nil, err
		}

		vat, err := c.resolveTreatment(item, docTreatment)
		if err != nil {
			return nil, err
		}

		net := item.TaxableAmount()
		tax := money.Percent(net, vat.rate)
		result.TotalNet = result.TotalNet.Add(net)
		result.TotalTax = result.TotalTax.Add(tax)

		group, found := lo.Find(groups, func(g *subtotal) bool {
			return g.category == vat.category && g.rate.Equal(vat.rate)
		})
		if !found {
			group = &subtotal{treatment: vat, taxable: money.Zero, tax: money.Zero}
			groups = append(groups, group)
		}
		group.taxable = group.taxable.Add(net)
		group.tax = group.tax.Add(tax)

		result.Lines = append(result.Lines, model.InvoiceLine{
			ID:                  strconv.Itoa(lineNo),
			InvoicedQuantity:    item.Qty.String(),
			UnitCode:            model.StringPtr(item.UOM),
			LineExtensionAmount: money.R2(net),
			TaxAmount:           money.R2(tax),
			AccountingCost:      model.StringPtr(item.CostCenter),
			Item: model.LineItem{
				Name:                      model.StringPtr(item.ItemName),
				Description:               model.StringPtr(item.Description),
				SellersItemIdentification: model.StringPtr(item.ItemCode),
				CommodityClassification: model.CommodityClassification{
					NatureCode:              nature,
					ItemClassificationCodes: codes,
				},
				ClassifiedTaxCategory: vat.taxCategory(),
			},
			Price: model.Price{
				PriceAmount:  money.R2(item.Rate),
				BaseQuantity: "1",
			},
		})
	}

	result.Subtotals = lo.Map(groups, func(g *subtotal, _ int) model.TaxSubtotal {
		return model.TaxSubtotal{
			TaxableAmount: money.R2(g.taxable),
			TaxAmount:     money.R2(g.tax),
			TaxCategory:   g.taxCategory(),
		}
	})

	return result, nil
}

func (t treatment) taxCategory() model.TaxCategory {
	return model.TaxCategory{
		ID:        t.category,
		Percent:   money.R2(t.rate),
		TaxScheme: model.TaxScheme{ID: model.TaxSchemeVAT},
	}
}

// documentCategory falls back to standard rated, or zero rated when the
// invoice carries no VAT.
func documentCategory(category string, rate decimal.Decimal) string {
	if c := strings.ToUpper(strings.TrimSpace(category)); c != "" {
		return c
	}
	if money.IsPositive(rate) {
		return CategoryStandard
	}
	return CategoryZero
}

// checkTemplateConsistency enforces that item tax templates are used on
// every line or on none.
func checkTemplateConsistency(items []model.ItemLine) error {
	withTemplate := lo.CountBy(items, func(item model.ItemLine) bool {
		return strings.TrimSpace(item.ItemTaxTemplate) != ""
	})
	if withTemplate == 0 || withTemplate == len(items) {
		return nil
	}
	missing := lo.FilterMap(items, func(item model.ItemLine, _ int) (string, bool) {
		return item.Label(), strings.TrimSpace(item.ItemTaxTemplate) == ""
	})
	return model.NewMissingFieldError("item_tax_template",
		"item tax template must be set on every line when any line uses one (missing on: "+strings.Join(missing, ", ")+")")
}

func classifyCommodity(item model.ItemLine, lineNo int) (string, []model.ClassificationCode, error) {
	raw := strings.TrimSpace(item.ItemType)
	if raw == "" {
		return "", nil, model.NewMissingFieldError("item_type",
			fmt.Sprintf("item type (Goods, Services or Both) is mandatory for item %s (line %d)", item.Label(), lineNo))
	}
	itemType, ok := lo.Find(itemTypes, func(t string) bool {
		return strings.EqualFold(t, raw)
	})
	if !ok {
		return "", nil, model.NewInvalidFieldError("item_type", item.ItemType,
			fmt.Sprintf("item type must be Goods, Services or Both for item %s (line %d)", item.Label(), lineNo))
	}

	hs := strings.TrimSpace(item.HSCode)
	sac := strings.TrimSpace(item.SACCode)
	needHS := itemType == model.ItemTypeGoods || itemType == model.ItemTypeBoth
	needSAC := itemType == model.ItemTypeServices || itemType == model.ItemTypeBoth

	codes := make([]model.ClassificationCode, 0, 2)
	if needHS {
		if hs == "" {
			return "", nil, model.NewMissingFieldError("hs_code",
				fmt.Sprintf("HS code is mandatory for %s item %s (line %d)", itemType, item.Label(), lineNo))
		}
		codes = append(codes, model.ClassificationCode{Code: hs, ListID: ListHS})
	}
	if needSAC {
		if sac == "" {
			return "", nil, model.NewMissingFieldError("sac_code",
				fmt.Sprintf("SAC code is mandatory for %s item %s (line %d)", itemType, item.Label(), lineNo))
		}
		codes = append(codes, model.ClassificationCode{Code: sac, ListID: ListSAC})
	}

	return natureCodes[itemType], codes, nil
}

// resolveTreatment takes category and rate from the item tax template,
// falling back to the document-level values.
func (c *Classifier) resolveTreatment(item model.ItemLine, doc treatment) (treatment, error) {
	name := strings.TrimSpace(item.ItemTaxTemplate)
	if name == "" {
		return doc, nil
	}
	tmpl, ok := c.templates[name]
	if !ok {
		return treatment{}, model.NewNotFoundError("item_tax_template",
			fmt.Sprintf("item tax template %q for item %s not found", name, item.Label()))
	}

	vat := doc
	if tmpl.Rate != nil {
		vat.rate = *tmpl.Rate
	}
	if category := strings.ToUpper(strings.TrimSpace(tmpl.VATCategory)); category != "" {
		vat.category = category
	}
	return vat, nil
}
