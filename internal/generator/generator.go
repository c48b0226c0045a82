// Package generator serializes the canonical invoice into the nine target
// document dialects. Every generator validates through its matching
// profile validator before returning, so a GenerationResult always carries
// a validation verdict alongside the document; the caller decides whether
// a non-clean verdict blocks delivery.
package generator

import (
	"github.com/rezonia/einvoice-engine/internal/format"
	"github.com/rezonia/einvoice-engine/internal/model"
	"github.com/rezonia/einvoice-engine/internal/profile"
	"github.com/rezonia/einvoice-engine/internal/rules"
)

// Generator serializes an invoice into one target format.
type Generator interface {
	// Format returns the output format this generator produces.
	Format() format.Format

	// Generate serializes the invoice. Rule violations never abort
	// generation; only configuration and date errors do.
	Generate(inv *model.CanonicalInvoice) (*model.GenerationResult, error)
}

var generators = map[format.Format]Generator{
	format.XRechnungUBL: newUBL(format.XRechnungUBL,
		"urn:cen.eu:en16931:2017#compliant#urn:xeinkauf.de:kosit:xrechnung_3.0",
		"urn:fdc:peppol.eu:2017:poacc:billing:01:1.0"),
	format.PeppolBIS: newUBL(format.PeppolBIS,
		"urn:cen.eu:en16931:2017#compliant#urn:fdc:peppol.eu:2017:poacc:billing:3.0",
		"urn:fdc:peppol.eu:2017:poacc:billing:01:1.0"),
	format.NLCIUS: newUBL(format.NLCIUS,
		"urn:cen.eu:en16931:2017#compliant#urn:fdc:nen.nl:nlcius:v1.0",
		"urn:fdc:peppol.eu:2017:poacc:billing:01:1.0"),
	format.CIUSRO: newUBL(format.CIUSRO,
		"urn:cen.eu:en16931:2017#compliant#urn:efactura.mfinante.ro:CIUS-RO:1.0.1",
		"urn:fdc:peppol.eu:2017:poacc:billing:01:1.0"),
	format.XRechnungCII: newCII(format.XRechnungCII,
		"urn:cen.eu:en16931:2017#compliant#urn:xeinkauf.de:kosit:xrechnung_3.0", false),
	format.FacturXEN16931: newCII(format.FacturXEN16931,
		"urn:cen.eu:en16931:2017", true),
	format.FacturXBasic: newCII(format.FacturXBasic,
		"urn:factur-x.eu:1p0:basic", true),
	format.FatturaPA: newFatturaPA(),
	format.KSeF:      newKSeF(),
}

// ForFormat resolves a format known at compile time to its generator.
// Unknown formats are a programming error and panic.
func ForFormat(f format.Format) Generator {
	g, ok := generators[f]
	if !ok {
		panic(model.NewConfigError("format", string(f)))
	}
	return g
}

// Lookup is the error-returning variant for identifiers arriving from
// untyped external input.
func Lookup(s string) (Generator, error) {
	f, err := format.Parse(s)
	if err != nil {
		return nil, err
	}
	return ForFormat(f), nil
}

// emittedTotals returns the totals written into the document. The emitted
// document always reflects the totals recomputed from the line items, not
// a mis-set input; the discrepancy itself is reported as a violation.
func emittedTotals(inv *model.CanonicalInvoice) model.Totals {
	if len(inv.LineItems) == 0 {
		return inv.Totals
	}
	return rules.RecomputeTotals(inv.LineItems, nil)
}

// packageResult assembles the GenerationResult for one document.
func packageResult(f format.Format, inv *model.CanonicalInvoice, xmlContent, pdfContent []byte) *model.GenerationResult {
	vr := profile.ForFormat(f).Validate(inv)
	status := model.StatusValid
	if !vr.Valid {
		status = model.StatusInvalid
	}

	info := format.MustInfo(f)
	size := len(xmlContent)
	if pdfContent != nil {
		size = len(pdfContent)
	}

	return &model.GenerationResult{
		XMLContent:       xmlContent,
		PDFContent:       pdfContent,
		FileName:         fileBase(inv.InvoiceNumber) + info.Extension,
		FileSize:         size,
		ValidationStatus: status,
		ValidationErrors: vr.Errors,
	}
}
