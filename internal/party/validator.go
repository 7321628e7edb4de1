// Package party validates the receiving party of an e-invoice. Unlike the
// field resolvers it reports every violation at once.
package party

import (
	"strings"

	"github.com/samber/lo"

	"github.com/rezonia/uae-einvoice/internal/model"
	"github.com/rezonia/uae-einvoice/internal/resolver"
)

// Scope labels the combined validation failure
const Scope = "customer party"

// registrationRequired lists the invoice types that must carry a legal
// registration identifier for the buyer
var registrationRequired = []string{
	model.InvoiceTypeCreditNote,
	model.InvoiceTypeCreditNoteOutOfScope,
	model.InvoiceTypeOutOfScopeOfTax,
}

// Input is what the validator needs to judge the receiving party
type Input struct {
	Party           model.Party
	Customer        model.Customer
	InvoiceTypeCode string
	TransactionType resolver.TransactionType
}

// Validate returns nil or a *model.ValidationErrors listing every
// violation. errors.Is matches each violated kind.
func Validate(in Input) error {
	errs := &model.ValidationErrors{Scope: Scope}
	p := in.Party

	if blank(p.PartyLegalEntity.RegistrationName) {
		errs.Add(model.NewMissingFieldError("legal_name", "buyer legal registration name is mandatory"))
	}

	addr := p.PostalAddress
	required := []struct {
		value *string
		field string
		label string
	}{
		{addr.StreetName, "address_line1", "address line 1"},
		{addr.CityName, "city", "city"},
		{addr.CountrySubentity, "state", "emirate"},
		{addr.PostalZone, "pincode", "postal code"},
		{model.StringPtr(addr.Country.IdentificationCode), "country", "country"},
		{p.Contact.Email, "email_id", "email"},
	}
	for _, r := range required {
		if blank(r.value) {
			errs.Add(model.NewMissingFieldError(r.field, "buyer "+r.label+" is mandatory"))
		}
	}

	if lo.Contains(registrationRequired, in.InvoiceTypeCode) && p.PartyLegalEntity.CompanyID == nil {
		errs.Add(model.NewMissingFieldError("trade_license",
			"buyer legal registration identifier is mandatory for invoice type "+in.InvoiceTypeCode))
	}

	if !in.TransactionType.IsExport() &&
		blank(p.PartyTaxScheme.CompanyID) && strings.TrimSpace(in.Customer.TradeLicense) == "" {
		errs.Add(model.NewMissingFieldError("tax_id", "buyer tax identifier or trade license number is mandatory"))
	}

	if in.TransactionType.IsFreeZone() && strings.TrimSpace(in.Customer.FreeZoneBeneficiaryID) == "" {
		errs.Add(model.NewMissingFieldError("free_zone_beneficiary_id",
			"free-zone beneficiary id is mandatory for free-zone transactions"))
	}

	return errs.ErrorOrNil()
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
