package decimal

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rezonia/uae-einvoice/internal/model"
)

const (
	// AmountPlaces is the precision of every money amount in the document
	AmountPlaces int32 = 2
	// RatePlaces is the precision of the exchange rate
	RatePlaces int32 = 6
)

// Zero is decimal zero
var Zero = decimal.Zero

var hundred = decimal.NewFromInt(100)

// Parse converts integer, floating, string or decimal input into an exact
// decimal. Floats go through their shortest decimal representation so
// 2.005 stays 2.005 instead of 2.00499999...
func Parse(v interface{}) (decimal.Decimal, error) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, nil
	case *decimal.Decimal:
		if n == nil {
			return Zero, malformed(v, "nil decimal")
		}
		return *n, nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int32:
		return decimal.NewFromInt32(n), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case uint:
		return parseString(strconv.FormatUint(uint64(n), 10))
	case uint32:
		return parseString(strconv.FormatUint(uint64(n), 10))
	case uint64:
		return parseString(strconv.FormatUint(n, 10))
	case float32:
		if math.IsNaN(float64(n)) || math.IsInf(float64(n), 0) {
			return Zero, malformed(v, "not a finite number")
		}
		return decimal.NewFromFloat32(n), nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return Zero, malformed(v, "not a finite number")
		}
		return decimal.NewFromFloat(n), nil
	case json.Number:
		return parseString(string(n))
	case string:
		return parseString(n)
	default:
		return Zero, malformed(v, fmt.Sprintf("unsupported numeric type %T", v))
	}
}

func parseString(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Zero, malformed(s, "cannot be parsed as a number")
	}
	return d, nil
}

func malformed(v interface{}, msg string) error {
	return model.NewMalformedInputError("numeric value", v, msg)
}

// Round rounds half away from zero (ROUND_HALF_UP), never half-even
func Round(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Round(places)
}

// R2 formats a money amount with exactly 2 decimals
func R2(d decimal.Decimal) string {
	return d.StringFixed(AmountPlaces)
}

// R6 formats an exchange rate with exactly 6 decimals
func R6(d decimal.Decimal) string {
	return d.StringFixed(RatePlaces)
}

// Amount parses v and formats it as a 2-decimal money string
func Amount(v interface{}) (string, error) {
	d, err := Parse(v)
	if err != nil {
		return "", err
	}
	return R2(d), nil
}

// ExchangeRate parses v and formats it as a 6-decimal rate string
func ExchangeRate(v interface{}) (string, error) {
	d, err := Parse(v)
	if err != nil {
		return "", err
	}
	return R6(d), nil
}

// Percent computes amount * rate / 100 without rounding
func Percent(amount, ratePercent decimal.Decimal) decimal.Decimal {
	if ratePercent.IsZero() {
		return Zero
	}
	return amount.Mul(ratePercent).Div(hundred)
}

// ExclusiveShare strips VAT at ratePercent from a VAT-inclusive amount:
// amount * 100 / (100 + rate)
func ExclusiveShare(amount, ratePercent decimal.Decimal) decimal.Decimal {
	return amount.Mul(hundred).Div(hundred.Add(ratePercent))
}

// Sum sums a slice of decimals
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}

// IsPositive returns true if decimal is greater than zero
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(Zero)
}

// IsNonNegative returns true if decimal is >= zero
func IsNonNegative(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(Zero)
}
