// Package einvoice provides a public API for converting canonical invoice
// records into European electronic invoice formats.
//
// Example usage:
//
//	engine := einvoice.NewEngine()
//	result, err := engine.Generate(&einvoice.Invoice{
//	    OutputFormat:  "xrechnung-ubl",
//	    InvoiceNumber: "RE-2024-0815",
//	    // ...
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(result.FileName, result.XMLContent, 0o644)
package einvoice

import (
	"github.com/rezonia/einvoice-engine/internal/format"
	"github.com/rezonia/einvoice-engine/internal/model"
)

// Re-export core types for public API
type (
	Invoice          = model.CanonicalInvoice
	Party            = model.Party
	Payment          = model.Payment
	LineItem         = model.LineItem
	Totals           = model.Totals
	Violation        = model.Violation
	ValidationResult = model.ValidationResult
	GenerationResult = model.GenerationResult
	FormatInfo       = format.Info
)

// Re-export document type codes
const (
	DocTypeInvoice    = model.DocTypeInvoice
	DocTypeCreditNote = model.DocTypeCreditNote
)

// Re-export validation status values
const (
	StatusValid   = model.StatusValid
	StatusInvalid = model.StatusInvalid
)

// Re-export error types
type (
	ConfigError = model.ConfigError
	DateError   = model.DateError
)

// Formats returns the supported output formats in stable order.
func Formats() []FormatInfo {
	return format.All()
}
