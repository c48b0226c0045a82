package server

import (
	"github.com/rezonia/einvoice-engine/internal/model"
)

// GenerateResponse is the response for the generate endpoint. XML and PDF
// content arrive base64-encoded in JSON.
type GenerateResponse struct {
	FileName         string            `json:"fileName"`
	FileSize         int               `json:"fileSize"`
	ValidationStatus string            `json:"validationStatus"`
	ValidationErrors []model.Violation `json:"validationErrors,omitempty"`
	XMLContent       []byte            `json:"xmlContent"`
	PDFContent       []byte            `json:"pdfContent,omitempty"`
}

// ValidationResponse is the response for the validate endpoint
type ValidationResponse struct {
	Valid   bool              `json:"valid"`
	Profile string            `json:"profile"`
	Errors  []model.Violation `json:"errors,omitempty"`
}

// FormatOutput describes one supported output format
type FormatOutput struct {
	Format    string   `json:"format"`
	Name      string   `json:"name"`
	Countries []string `json:"countries"`
	Syntax    string   `json:"syntax"`
	MimeType  string   `json:"mimeType"`
	Extension string   `json:"extension"`
}

// FormatsResponse is the response for the formats endpoint
type FormatsResponse struct {
	Formats []FormatOutput `json:"formats"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
