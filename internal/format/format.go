// Package format defines the closed set of output-format identifiers and
// their static metadata. The table is built once and never mutated, so it
// is safe for concurrent readers.
package format

import (
	"sort"

	"github.com/rezonia/einvoice-engine/internal/model"
)

// Format identifies one of the nine supported output formats.
type Format string

// The nine supported output formats.
const (
	XRechnungCII   Format = "xrechnung-cii"
	XRechnungUBL   Format = "xrechnung-ubl"
	PeppolBIS      Format = "peppol-bis"
	FacturXEN16931 Format = "facturx-en16931"
	FacturXBasic   Format = "facturx-basic"
	FatturaPA      Format = "fatturapa"
	KSeF           Format = "ksef"
	NLCIUS         Format = "nlcius"
	CIUSRO         Format = "cius-ro"
)

// Syntax is the serialization family a format belongs to.
type Syntax string

// Syntax families.
const (
	SyntaxUBL       Syntax = "UBL"
	SyntaxCII       Syntax = "CII"
	SyntaxFatturaPA Syntax = "FatturaPA"
	SyntaxKSeF      Syntax = "KSeF"
	SyntaxPDFCII    Syntax = "PDF+CII"
)

// Info is the static metadata attached to a format.
type Info struct {
	Format    Format
	Name      string
	Countries []string
	Syntax    Syntax
	MimeType  string
	Extension string
	EUScope   bool
}

var registry = map[Format]Info{
	XRechnungCII: {
		Format:    XRechnungCII,
		Name:      "XRechnung (UN/CEFACT CII)",
		Countries: []string{"DE"},
		Syntax:    SyntaxCII,
		MimeType:  "application/xml",
		Extension: ".xml",
	},
	XRechnungUBL: {
		Format:    XRechnungUBL,
		Name:      "XRechnung (UBL)",
		Countries: []string{"DE"},
		Syntax:    SyntaxUBL,
		MimeType:  "application/xml",
		Extension: ".xml",
	},
	PeppolBIS: {
		Format:    PeppolBIS,
		Name:      "Peppol BIS Billing 3.0",
		Countries: []string{"EU"},
		Syntax:    SyntaxUBL,
		MimeType:  "application/xml",
		Extension: ".xml",
		EUScope:   true,
	},
	FacturXEN16931: {
		Format:    FacturXEN16931,
		Name:      "Factur-X / ZUGFeRD (EN 16931, PDF/A-3)",
		Countries: []string{"FR", "DE"},
		Syntax:    SyntaxPDFCII,
		MimeType:  "application/pdf",
		Extension: ".pdf",
	},
	FacturXBasic: {
		Format:    FacturXBasic,
		Name:      "Factur-X / ZUGFeRD (Basic, PDF/A-3)",
		Countries: []string{"FR", "DE"},
		Syntax:    SyntaxPDFCII,
		MimeType:  "application/pdf",
		Extension: ".pdf",
	},
	FatturaPA: {
		Format:    FatturaPA,
		Name:      "FatturaPA 1.2",
		Countries: []string{"IT"},
		Syntax:    SyntaxFatturaPA,
		MimeType:  "application/xml",
		Extension: ".xml",
	},
	KSeF: {
		Format:    KSeF,
		Name:      "KSeF FA(2)",
		Countries: []string{"PL"},
		Syntax:    SyntaxKSeF,
		MimeType:  "application/xml",
		Extension: ".xml",
	},
	NLCIUS: {
		Format:    NLCIUS,
		Name:      "NLCIUS",
		Countries: []string{"NL"},
		Syntax:    SyntaxUBL,
		MimeType:  "application/xml",
		Extension: ".xml",
	},
	CIUSRO: {
		Format:    CIUSRO,
		Name:      "CIUS-RO (RO e-Factura)",
		Countries: []string{"RO"},
		Syntax:    SyntaxUBL,
		MimeType:  "application/xml",
		Extension: ".xml",
	},
}

// Parse converts an identifier arriving from untyped external input (CLI
// flags, deserialized JSON) into a Format.
func Parse(s string) (Format, error) {
	f := Format(s)
	if _, ok := registry[f]; !ok {
		return "", model.NewConfigError("format", s)
	}
	return f, nil
}

// InfoFor returns the metadata for a format.
func InfoFor(f Format) (Info, bool) {
	info, ok := registry[f]
	return info, ok
}

// MustInfo returns the metadata for a format known at compile time.
// Passing an unknown format is a programming error and panics.
func MustInfo(f Format) Info {
	info, ok := registry[f]
	if !ok {
		panic(model.NewConfigError("format", string(f)))
	}
	return info
}

// All returns the nine formats in stable order.
func All() []Info {
	infos := make([]Info, 0, len(registry))
	for _, info := range registry {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Format < infos[j].Format })
	return infos
}
