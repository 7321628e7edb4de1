package server

import "github.com/rezonia/uae-einvoice/internal/assembler"

// SendRequest is the body of the send endpoint
type SendRequest struct {
	InvoiceNumber string `json:"invoice_number"`
}

// SendResponse is the response for the send endpoint
type SendResponse struct {
	Message  string `json:"message"`
	FileName string `json:"file_name"`
	FileURL  string `json:"file_url"`
}

// ValidateRequest names a stored invoice or carries a full snapshot
type ValidateRequest struct {
	InvoiceNumber string              `json:"invoice_number"`
	Snapshot      *assembler.Snapshot `json:"snapshot,omitempty"`
}

// ValidationResponse is the response for validate endpoint
type ValidationResponse struct {
	Invoice string   `json:"invoice,omitempty"`
	Valid   bool     `json:"valid"`
	Errors  []string `json:"errors,omitempty"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error      string   `json:"error"`
	Kind       string   `json:"kind,omitempty"`
	Details    string   `json:"details,omitempty"`
	Violations []string `json:"violations,omitempty"`
}
