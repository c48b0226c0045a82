package generator

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/rezonia/einvoice-engine/internal/model"
)

// facturXAttachmentName is the attachment file name mandated by the
// Factur-X specification.
const facturXAttachmentName = "factur-x.xml"

// embedInPDF renders a human-readable invoice page and embeds the CII XML
// as a PDF/A-3 style attachment. Timestamps are derived from the invoice
// date so identical input produces identical bytes.
func embedInPDF(inv *model.CanonicalInvoice, xmlContent []byte) ([]byte, error) {
	stamp, err := documentTime(inv.InvoiceDate)
	if err != nil {
		return nil, err
	}

	page, err := renderInvoicePage(inv, stamp)
	if err != nil {
		return nil, fmt.Errorf("rendering invoice page: %w", err)
	}

	conf := pdfmodel.NewDefaultConfiguration()
	ctx, err := api.ReadContext(bytes.NewReader(page), conf)
	if err != nil {
		return nil, fmt.Errorf("reading rendered PDF: %w", err)
	}

	attachment := pdfmodel.Attachment{
		Reader:   bytes.NewReader(xmlContent),
		ID:       facturXAttachmentName,
		FileName: facturXAttachmentName,
		Desc:     "Factur-X invoice data",
		ModTime:  &stamp,
	}
	if err := ctx.AddAttachment(attachment, false); err != nil {
		return nil, fmt.Errorf("embedding invoice XML: %w", err)
	}

	var out bytes.Buffer
	if err := api.WriteContext(ctx, &out); err != nil {
		return nil, fmt.Errorf("writing hybrid PDF: %w", err)
	}
	return pinWriteMetadata(out.Bytes(), stamp, inv.InvoiceNumber), nil
}

var (
	pdfDatePattern = regexp.MustCompile(`D:\d{14}[+-]\d{2}'\d{2}'`)
	pdfIDPattern   = regexp.MustCompile(`/ID\s*\[\s*<[0-9a-fA-F]+>\s*<[0-9a-fA-F]+>\s*\]`)
	pdfHexPattern  = regexp.MustCompile(`<[0-9a-fA-F]+>`)
)

// pinWriteMetadata overwrites the metadata pdfcpu stamps from the wall
// clock on every serialization: the Info dict CreationDate/ModDate and the
// trailer file identifier. Replacements are the same length as the
// originals so cross-reference offsets stay valid.
func pinWriteMetadata(pdf []byte, stamp time.Time, seed string) []byte {
	date := []byte(pdfDateString(stamp))
	out := pdfDatePattern.ReplaceAllFunc(pdf, func(m []byte) []byte {
		if len(m) != len(date) {
			return m
		}
		return date
	})

	sum := md5.Sum([]byte(seed + "|" + pdfDateString(stamp)))
	idHex := hex.EncodeToString(sum[:])
	return pdfIDPattern.ReplaceAllFunc(out, func(m []byte) []byte {
		return pdfHexPattern.ReplaceAllFunc(m, func(run []byte) []byte {
			n := len(run) - 2
			fill := strings.Repeat(idHex, n/len(idHex)+1)[:n]
			return []byte("<" + fill + ">")
		})
	})
}

// pdfDateString renders a UTC timestamp in the PDF date format.
func pdfDateString(t time.Time) string {
	return "D:" + t.UTC().Format("20060102150405") + "+00'00'"
}

func documentTime(invoiceDate string) (time.Time, error) {
	iso, err := NormalizeDate(invoiceDate)
	if err != nil {
		return time.Time{}, err
	}
	if iso == "" {
		return time.Unix(0, 0).UTC(), nil
	}
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// renderInvoicePage draws a minimal one-page representation of the
// invoice. The embedded XML is the legally relevant payload; the page is
// for human readers.
func renderInvoicePage(inv *model.CanonicalInvoice, stamp time.Time) ([]byte, error) {
	totals := emittedTotals(inv)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(stamp)
	pdf.SetModificationDate(stamp)
	pdf.SetTitle("Invoice "+inv.InvoiceNumber, true)
	pdf.SetAuthor(inv.Seller.Name, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	title := "Invoice"
	if documentTypeCode(inv) == model.DocTypeCreditNote {
		title = "Credit Note"
	}
	pdf.Cell(0, 10, fmt.Sprintf("%s %s", title, inv.InvoiceNumber))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", inv.InvoiceDate))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Seller: %s", inv.Seller.Name))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Buyer: %s", inv.Buyer.Name))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(90, 7, "Description", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Unit Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Net Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range inv.LineItems {
		pdf.CellFormat(90, 7, item.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, Quantity(item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, Amount(item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, Amount(item.TotalPrice), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(150, 7, "Subtotal (net)", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, Amount(totals.Subtotal)+" "+inv.Currency, "", 1, "R", false, 0, "")
	pdf.CellFormat(150, 7, "VAT", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, Amount(totals.TaxAmount)+" "+inv.Currency, "", 1, "R", false, 0, "")
	pdf.CellFormat(150, 7, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, Amount(totals.TotalAmount)+" "+inv.Currency, "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
