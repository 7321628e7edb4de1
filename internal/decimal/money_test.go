package decimal_test

import (
	"encoding/json"
	"math"
	"testing"

	dec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/uae-einvoice/internal/decimal"
	"github.com/rezonia/uae-einvoice/internal/model"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{"int", 100, "100"},
		{"int64", int64(-42), "-42"},
		{"uint64", uint64(7), "7"},
		{"float keeps shortest repr", 2.005, "2.005"},
		{"float32", float32(1.5), "1.5"},
		{"string", " 123456.78 ", "123456.78"},
		{"json number", json.Number("0.125"), "0.125"},
		{"decimal", dec.RequireFromString("9.99"), "9.99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := decimal.Parse(tt.input)
			require.NoError(t, err)
			assert.True(t, d.Equal(dec.RequireFromString(tt.expected)),
				"got %s, want %s", d.String(), tt.expected)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	inputs := []interface{}{"not-a-number", "", math.NaN(), math.Inf(1), []int{1}, nil, (*dec.Decimal)(nil)}

	for _, in := range inputs {
		_, err := decimal.Parse(in)
		require.Error(t, err, "input %v", in)
		assert.ErrorIs(t, err, model.ErrMalformedInput)
	}
}

func TestAmount_RoundsHalfUp(t *testing.T) {
	tests := []struct {
		input    interface{}
		expected string
	}{
		{2.005, "2.01"},
		{"2.005", "2.01"},
		{"2.004", "2.00"},
		{"0.125", "0.13"},
		{"0.135", "0.14"},
		{"-2.005", "-2.01"},
		{100, "100.00"},
		{"105", "105.00"},
	}

	for _, tt := range tests {
		got, err := decimal.Amount(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got, "input %v", tt.input)
	}
}

func TestExchangeRate_SixPlaces(t *testing.T) {
	got, err := decimal.ExchangeRate("3.6725005")
	require.NoError(t, err)
	assert.Equal(t, "3.672501", got)

	got, err = decimal.ExchangeRate(3.6725)
	require.NoError(t, err)
	assert.Equal(t, "3.672500", got)

	_, err = decimal.ExchangeRate("abc")
	assert.ErrorIs(t, err, model.ErrMalformedInput)
}

func TestPercent(t *testing.T) {
	result := decimal.Percent(dec.NewFromInt(100), dec.NewFromInt(5))
	assert.True(t, result.Equal(dec.NewFromInt(5)))

	result = decimal.Percent(dec.RequireFromString("33.33"), dec.NewFromInt(5))
	assert.Equal(t, "1.6665", result.String())
	assert.Equal(t, "1.67", decimal.R2(result))

	assert.True(t, decimal.Percent(dec.NewFromInt(100), dec.Zero).IsZero())
}

func TestExclusiveShare(t *testing.T) {
	result := decimal.ExclusiveShare(dec.NewFromInt(105), dec.NewFromInt(5))
	assert.True(t, result.Equal(dec.NewFromInt(100)))
}

func TestSum(t *testing.T) {
	values := []dec.Decimal{
		dec.NewFromInt(100),
		dec.NewFromInt(200),
		dec.NewFromInt(300),
	}
	result := decimal.Sum(values)
	assert.True(t, result.Equal(dec.NewFromInt(600)))
	assert.True(t, decimal.Sum(nil).IsZero())
}

func TestIsPositive(t *testing.T) {
	assert.True(t, decimal.IsPositive(dec.NewFromInt(1)))
	assert.False(t, decimal.IsPositive(dec.Zero))
	assert.False(t, decimal.IsPositive(dec.NewFromInt(-1)))
}

func TestIsNonNegative(t *testing.T) {
	assert.True(t, decimal.IsNonNegative(dec.NewFromInt(1)))
	assert.True(t, decimal.IsNonNegative(dec.Zero))
	assert.False(t, decimal.IsNonNegative(dec.NewFromInt(-1)))
}
