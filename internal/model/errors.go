package model

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every failure raised by the engine matches exactly one of
// these through errors.Is.
var (
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidFieldValue    = errors.New("invalid field value")
	ErrNotFound             = errors.New("not found")
	ErrMalformedInput       = errors.New("malformed input")
)

// FieldError is a single business-rule failure on one field
type FieldError struct {
	Kind    error
	Field   string
	Value   interface{}
	Message string
}

func (e *FieldError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("%s: %s: %s (value=%v)", e.Kind, e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

// NewMissingFieldError creates a MissingRequiredField error
func NewMissingFieldError(field, message string) *FieldError {
	return &FieldError{
		Kind:    ErrMissingRequiredField,
		Field:   field,
		Message: message,
	}
}

// NewInvalidFieldError creates an InvalidFieldValue error
func NewInvalidFieldError(field string, value interface{}, message string) *FieldError {
	return &FieldError{
		Kind:    ErrInvalidFieldValue,
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// NewNotFoundError creates a NotFound error
func NewNotFoundError(field, message string) *FieldError {
	return &FieldError{
		Kind:    ErrNotFound,
		Field:   field,
		Message: message,
	}
}

// NewMalformedInputError creates a MalformedInput error
func NewMalformedInputError(field string, value interface{}, message string) *FieldError {
	return &FieldError{
		Kind:    ErrMalformedInput,
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ValidationErrors collects several violations so they can be reported in
// one pass.
type ValidationErrors struct {
	Scope  string
	Errors []error
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("%s: no errors", e.Scope)
	}
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%s: %d violation(s): %s", e.Scope, len(e.Errors), strings.Join(msgs, "; "))
}

// Unwrap exposes every violation to errors.Is / errors.As
func (e *ValidationErrors) Unwrap() []error {
	return e.Errors
}

// Add appends err when non-nil
func (e *ValidationErrors) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors returns true if any violation was recorded
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// Messages returns one human-readable line per violation
func (e *ValidationErrors) Messages() []string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return msgs
}

// ErrorOrNil returns nil when nothing was recorded
func (e *ValidationErrors) ErrorOrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

// Messages flattens err into human-readable lines, expanding collected
// violations.
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	var ve *ValidationErrors
	if errors.As(err, &ve) {
		return ve.Messages()
	}
	return []string{err.Error()}
}
