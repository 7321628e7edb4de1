package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/uae-einvoice/internal/model"
	"github.com/rezonia/uae-einvoice/internal/resolver"
)

func TestParsePaymentMeans(t *testing.T) {
	code, name := resolver.ParsePaymentMeans(" 30 - Credit transfer ")
	assert.Equal(t, "30", code)
	assert.Equal(t, "Credit transfer", name)

	code, name = resolver.ParsePaymentMeans("zzz")
	assert.Equal(t, "ZZZ", code)
	assert.Empty(t, name)
}

func TestPaymentMeans_Cash(t *testing.T) {
	got, err := resolver.PaymentMeans(baseInvoice(), "", nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "10", got.PaymentMeansCode)
	assert.Equal(t, "In cash", got.PaymentMeansName)
	assert.Nil(t, got.PayeeFinancialAccount)
	assert.Nil(t, got.CardAccount)
}

func TestPaymentMeans_AbsentForReturnsAndDeemedSupply(t *testing.T) {
	inv := baseInvoice()
	inv.IsReturn = true
	got, err := resolver.PaymentMeans(inv, "", nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	inv.IsReturn = false
	inv.PaymentMeans = ""
	got, err = resolver.PaymentMeans(inv, resolver.ParseTransactionType("01000000"), nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPaymentMeans_Errors(t *testing.T) {
	tests := []struct {
		name  string
		means string
		bank  *model.BankAccount
		kind  error
		field string
	}{
		{"missing", "", nil, model.ErrMissingRequiredField, "payment_means"},
		{"not approved", "99 - Barter", nil, model.ErrInvalidFieldValue, "payment_means"},
		{"credit transfer without bank", "30 - Credit transfer", nil, model.ErrMissingRequiredField, "bank_account"},
		{"credit transfer without iban", "31 - Debit transfer",
			&model.BankAccount{AccountName: "Acme Trading"}, model.ErrMissingRequiredField, "iban"},
		{"credit transfer without account name", "58 - SEPA credit transfer",
			&model.BankAccount{IBAN: "AE070331234567890123456"}, model.ErrMissingRequiredField, "account_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := baseInvoice()
			inv.PaymentMeans = tt.means
			_, err := resolver.PaymentMeans(inv, "", tt.bank)
			require.ErrorIs(t, err, tt.kind)

			var fieldErr *model.FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.field, fieldErr.Field)
		})
	}
}

func TestPaymentMeans_CreditTransfer(t *testing.T) {
	inv := baseInvoice()
	inv.PaymentMeans = "42 - Payment to bank account"
	bank := &model.BankAccount{
		AccountName: "Acme Trading LLC",
		IBAN:        "ae07 0331 2345 6789 0123 456",
		BranchCode:  "EBILAEAD",
	}

	got, err := resolver.PaymentMeans(inv, "", bank)
	require.NoError(t, err)
	require.NotNil(t, got.PayeeFinancialAccount)
	assert.Equal(t, "AE070331234567890123456", got.PayeeFinancialAccount.ID)
	assert.Equal(t, "Acme Trading LLC", got.PayeeFinancialAccount.Name)
	assert.Equal(t, "EBILAEAD", *got.PayeeFinancialAccount.FinancialInstitutionBranch)
	assert.Nil(t, got.CardAccount)
}

func TestPaymentMeans_Card(t *testing.T) {
	inv := baseInvoice()
	inv.PaymentMeans = "54 - Credit card"
	inv.Card = &model.CardDetails{Last4: "4242", NetworkID: "VISA", HolderName: "J Smith"}

	got, err := resolver.PaymentMeans(inv, "", nil)
	require.NoError(t, err)
	require.NotNil(t, got.CardAccount)
	assert.Equal(t, "XXXXXXXXXXXX4242", got.CardAccount.PrimaryAccountNumberID)
	assert.Equal(t, "VISA", *got.CardAccount.NetworkID)
	assert.Equal(t, "J Smith", *got.CardAccount.HolderName)

	inv.Card = nil
	got, err = resolver.PaymentMeans(inv, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "XXXXXXXXXXXX0000", got.CardAccount.PrimaryAccountNumberID)
	assert.Nil(t, got.CardAccount.NetworkID)
}

func TestMaskPAN(t *testing.T) {
	assert.Equal(t, "XXXXXXXXXXXX1234", resolver.MaskPAN("1234"))
	assert.Equal(t, "XXXXXXXXXXXX1234", resolver.MaskPAN("4111 1111 1111 1234"))
	assert.Equal(t, "XXXXXXXXXXXX0000", resolver.MaskPAN("12"))
	assert.Equal(t, "XXXXXXXXXXXX0000", resolver.MaskPAN(""))
}
