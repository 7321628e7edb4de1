package resolver

import (
	"strings"
	"unicode"

	"github.com/samber/lo"

	"github.com/rezonia/uae-einvoice/internal/model"
)

// ApprovedPaymentMeansCodes is the UN/ECE 4461 subset accepted in the UAE
var ApprovedPaymentMeansCodes = []string{
	"1", "10", "20", "30", "31", "42", "48", "49",
	"54", "55", "57", "58", "59", "68", "97", "ZZZ",
}

var (
	creditTransferCodes = []string{"30", "31", "42", "58"}
	cardCodes           = []string{"48", "54", "55"}
)

const maskedPANPrefix = "XXXXXXXXXXXX"

// ParsePaymentMeans splits "code - name" into its parts
func ParsePaymentMeans(raw string) (code, name string) {
	code, name, _ = strings.Cut(strings.TrimSpace(raw), "-")
	return strings.ToUpper(strings.TrimSpace(code)), strings.TrimSpace(name)
}

// IsCreditTransfer reports codes that need a payee bank account
func IsCreditTransfer(code string) bool {
	return lo.Contains(creditTransferCodes, code)
}

// IsCardPayment reports codes that carry a card account
func IsCardPayment(code string) bool {
	return lo.Contains(cardCodes, code)
}

// PaymentMeans resolves IBG-16. It is absent for credit notes and deemed
// supply. bank may be nil when the invoice links no bank account.
func PaymentMeans(inv *model.SourceInvoice, txn TransactionType, bank *model.BankAccount) (*model.PaymentMeans, error) {
	if inv.IsReturn || txn.IsDeemedSupply() {
		return nil, nil
	}
	if strings.TrimSpace(inv.PaymentMeans) == "" {
		return nil, model.NewMissingFieldError("payment_means", "payment means code is mandatory (IBT-081)")
	}

	code, name := ParsePaymentMeans(inv.PaymentMeans)
	if !lo.Contains(ApprovedPaymentMeansCodes, code) {
		return nil, model.NewInvalidFieldError("payment_means", inv.PaymentMeans, "payment means code is not an approved UN/ECE 4461 code")
	}

	means := &model.PaymentMeans{
		PaymentMeansCode: code,
		PaymentMeansName: name,
	}

	if IsCreditTransfer(code) {
		account, err := payeeAccount(bank)
		if err != nil {
			return nil, err
		}
		means.PayeeFinancialAccount = account
	}

	if IsCardPayment(code) {
		card := model.CardDetails{}
		if inv.Card != nil {
			card = *inv.Card
		}
		means.CardAccount = &model.CardAccount{
			PrimaryAccountNumberID: MaskPAN(card.Last4),
			NetworkID:              model.StringPtr(card.NetworkID),
			HolderName:             model.StringPtr(card.HolderName),
		}
	}

	return means, nil
}

func payeeAccount(bank *model.BankAccount) (*model.FinancialAccount, error) {
	if bank == nil {
		return nil, model.NewMissingFieldError("bank_account", "credit transfer requires a payee bank account (IBG-17)")
	}
	iban := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(bank.IBAN), " ", ""))
	if iban == "" {
		return nil, model.NewMissingFieldError("iban", "payment account identifier is mandatory for credit transfer (IBT-084)")
	}
	if strings.TrimSpace(bank.AccountName) == "" {
		return nil, model.NewMissingFieldError("account_name", "payment account name is mandatory for credit transfer (IBT-085)")
	}
	return &model.FinancialAccount{
		ID:                         iban,
		Name:                       strings.TrimSpace(bank.AccountName),
		FinancialInstitutionBranch: model.StringPtr(strings.TrimSpace(bank.BranchCode)),
	}, nil
}

// MaskPAN keeps only the last four digits of a card number
func MaskPAN(last4 string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, last4)
	if len(digits) < 4 {
		return maskedPANPrefix + "0000"
	}
	return maskedPANPrefix + digits[len(digits)-4:]
}
