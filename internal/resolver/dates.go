package resolver

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	money "github.com/rezonia/uae-einvoice/internal/decimal"
	"github.com/rezonia/uae-einvoice/internal/model"
)

// PeriodCodeOther requires a free-text note describing the period
const PeriodCodeOther = "OTH"

// PeriodCodes are the accepted invoice period frequency codes
var PeriodCodes = []string{"DLY", "WKY", "Q15", "MTH", "Q45", "Q60", "QTR", "YRL", "HYR", PeriodCodeOther}

// IssueDate formats the posting date as YYYY-MM-DD (IBT-002)
func IssueDate(inv *model.SourceInvoice) (string, error) {
	if !inv.PostingDate.IsValid() {
		return "", model.NewMissingFieldError("posting_date", "issue date is mandatory (IBT-002)")
	}
	return inv.PostingDate.String(), nil
}

// IssueTime renders the posting time as HH:MM:SS. Sub-second precision is
// dropped. Durations are taken modulo one day.
func IssueTime(t model.TimeOfDay) *string {
	switch {
	case t.Clock != nil:
		s := fmt.Sprintf("%02d:%02d:%02d", t.Clock.Hour, t.Clock.Minute, t.Clock.Second)
		return &s
	case t.SinceMidnight != nil:
		secs := int64(t.SinceMidnight.Truncate(time.Second)/time.Second) % 86400
		if secs < 0 {
			secs += 86400
		}
		s := fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
		return &s
	default:
		return nil
	}
}

// DueDate resolves IBT-009. It is absent for credit notes and deemed
// supply, and mandatory while an amount is outstanding.
func DueDate(inv *model.SourceInvoice, txn TransactionType) (*string, error) {
	if inv.IsReturn || inv.OutOfScopeCreditNote || txn.IsDeemedSupply() {
		return nil, nil
	}
	if !money.IsPositive(inv.OutstandingAmount) {
		return nil, nil
	}
	if inv.DueDate == nil {
		return nil, model.NewMissingFieldError("due_date", "payment due date is mandatory when an amount is outstanding (IBT-009)")
	}
	if inv.DueDate.Before(inv.PostingDate) {
		return nil, model.NewInvalidFieldError("due_date", inv.DueDate.String(),
			fmt.Sprintf("payment due date must not be before the issue date %s", inv.PostingDate))
	}
	s := inv.DueDate.String()
	return &s, nil
}

// TaxPointDate resolves IBT-007 as the day before the issue date. It is
// only emitted for invoices that carry a due date.
func TaxPointDate(inv *model.SourceInvoice, dueDate *string) (*string, error) {
	if inv.IsReturn || inv.OutOfScopeCreditNote || dueDate == nil {
		return nil, nil
	}
	point := inv.PostingDate.AddDays(-1)
	// always true for a valid posting date
	if !point.Before(inv.PostingDate) {
		return nil, model.NewInvalidFieldError("tax_point_date", point.String(), "tax point date must be before the issue date")
	}
	s := point.String()
	return &s, nil
}

// InvoicePeriod resolves the IBG-14 block. Deemed supply requires start,
// end and frequency code together.
func InvoicePeriod(inv *model.SourceInvoice, txn TransactionType) (*model.InvoicePeriod, error) {
	start, end := inv.InvoicePeriodStart, inv.InvoicePeriodEnd
	code := strings.ToUpper(strings.TrimSpace(inv.PeriodCode))

	if txn.IsDeemedSupply() {
		var missing []string
		if start == nil {
			missing = append(missing, "start date")
		}
		if end == nil {
			missing = append(missing, "end date")
		}
		if code == "" {
			missing = append(missing, "frequency code")
		}
		if len(missing) > 0 {
			return nil, model.NewMissingFieldError("invoice_period",
				"deemed supply requires the invoice period "+strings.Join(missing, ", "))
		}
	}

	if start == nil && end == nil {
		return nil, nil
	}
	if start == nil {
		return nil, model.NewMissingFieldError("invoice_period_start", "invoice period start date is mandatory when an end date is given (IBT-073)")
	}
	if end != nil && code == "" {
		return nil, model.NewMissingFieldError("period_code", "invoice period frequency code is mandatory when start and end dates are given")
	}
	if code != "" && !lo.Contains(PeriodCodes, code) {
		return nil, model.NewInvalidFieldError("period_code", inv.PeriodCode,
			"must be one of "+strings.Join(PeriodCodes, ", "))
	}
	period := &model.InvoicePeriod{
		StartDate:       model.StringPtr(start.String()),
		DescriptionCode: model.StringPtr(code),
	}
	if end != nil {
		period.EndDate = model.StringPtr(end.String())
	}
	return period, nil
}

// InvoiceNote resolves IBT-022. A note is mandatory for the OTH period code.
func InvoiceNote(inv *model.SourceInvoice) (*string, error) {
	code := strings.ToUpper(strings.TrimSpace(inv.PeriodCode))
	if code == PeriodCodeOther && (inv.Note == nil || strings.TrimSpace(*inv.Note) == "") {
		return nil, model.NewMissingFieldError("note", "invoice note is mandatory when the period frequency code is OTH")
	}
	return inv.Note, nil
}
