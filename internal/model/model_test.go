package model_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/uae-einvoice/internal/model"
)

func TestFieldError(t *testing.T) {
	err := model.NewInvalidFieldError("currency", "DIRHAM", "unsupported currency")

	assert.True(t, errors.Is(err, model.ErrInvalidFieldValue))
	assert.False(t, errors.Is(err, model.ErrNotFound))
	assert.Equal(t, "invalid field value: currency: unsupported currency (value=DIRHAM)", err.Error())

	wrapped := fmt.Errorf("assemble: %w", model.NewMissingFieldError("posting_date", "posting date is mandatory"))
	var fe *model.FieldError
	require.True(t, errors.As(wrapped, &fe))
	assert.Equal(t, "posting_date", fe.Field)
	assert.True(t, errors.Is(wrapped, model.ErrMissingRequiredField))
}

func TestValidationErrors(t *testing.T) {
	errs := &model.ValidationErrors{Scope: "customer party"}
	assert.NoError(t, errs.ErrorOrNil())

	errs.Add(nil)
	errs.Add(model.NewMissingFieldError("city", "buyer city is mandatory"))
	errs.Add(model.NewNotFoundError("customer", "Customer not found"))

	err := errs.ErrorOrNil()
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrMissingRequiredField))
	assert.True(t, errors.Is(err, model.ErrNotFound))
	assert.False(t, errors.Is(err, model.ErrMalformedInput))
	assert.Contains(t, err.Error(), "customer party: 2 violation(s)")

	assert.Equal(t, []string{
		"missing required field: city: buyer city is mandatory",
		"not found: customer: Customer not found",
	}, model.Messages(err))
}

func TestMessages(t *testing.T) {
	assert.Nil(t, model.Messages(nil))
	assert.Equal(t, []string{"boom"}, model.Messages(errors.New("boom")))
}

func TestTimeOfDay_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		clock *civil.Time
		since *time.Duration
	}{
		{"null", `null`, nil, nil},
		{"empty string", `""`, nil, nil},
		{"clock", `"14:05:09"`, &civil.Time{Hour: 14, Minute: 5, Second: 9}, nil},
		{"clock with fraction", `"14:05:09.125000"`, &civil.Time{Hour: 14, Minute: 5, Second: 9, Nanosecond: 125000000}, nil},
		{"seconds", `3600.5`, nil, durationPtr(time.Hour + 500*time.Millisecond)},
		{"timedelta past a day", `"25:30:00"`, nil, durationPtr(25*time.Hour + 30*time.Minute)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got model.TimeOfDay
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.clock, got.Clock)
			assert.Equal(t, tt.since, got.SinceMidnight)
			assert.Equal(t, tt.clock == nil && tt.since == nil, got.IsZero())
		})
	}
}

func TestTimeOfDay_Malformed(t *testing.T) {
	for _, input := range []string{`"noon"`, `"12:xx:00"`, `true`} {
		var got model.TimeOfDay
		err := json.Unmarshal([]byte(input), &got)
		assert.ErrorIs(t, err, model.ErrMalformedInput, input)
	}
}

func TestTimeOfDay_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(model.ClockTime(civil.Time{Hour: 9, Minute: 3}))
	require.NoError(t, err)
	assert.JSONEq(t, `"09:03:00"`, string(data))

	data, err = json.Marshal(model.SinceMidnight(90 * time.Second))
	require.NoError(t, err)
	assert.JSONEq(t, `90`, string(data))

	data, err = json.Marshal(model.TimeOfDay{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestAddress_LinkedTo(t *testing.T) {
	addr := model.Address{Links: []model.Link{{Doctype: model.DoctypeCompany, Name: "ACME"}}}

	assert.True(t, addr.LinkedTo(model.DoctypeCompany, "ACME"))
	assert.False(t, addr.LinkedTo(model.DoctypeCustomer, "ACME"))
	assert.False(t, addr.LinkedTo(model.DoctypeCompany, "Other"))
}

func TestStringPtr(t *testing.T) {
	assert.Nil(t, model.StringPtr(""))
	require.NotNil(t, model.StringPtr("AE"))
	assert.Equal(t, "AE", *model.StringPtr("AE"))
}

func durationPtr(d time.Duration) *time.Duration {
	return &d
}
