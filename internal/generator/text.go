package generator

import (
	"fmt"
	"strings"

	"github.com/rezonia/einvoice-engine/internal/money"
)

// Sanitize strips control characters that are illegal in XML 1.0, keeping
// tab, LF and CR. Entity escaping of & < > " ' is handled by the document
// serializer.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

// Amount formats a monetary amount with exactly 2 decimal places.
func Amount(v float64) string {
	return fmt.Sprintf("%.2f", money.Round2(v))
}

// Quantity formats a quantity, trimming to at most 4 decimal places.
func Quantity(v float64) string {
	s := fmt.Sprintf("%.4f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s
}

// Rate formats a percentage rate with exactly 2 decimal places.
func Rate(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// fileBase derives a file-system safe base name from the invoice number.
func fileBase(invoiceNumber string) string {
	if invoiceNumber == "" {
		return "invoice"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, invoiceNumber)
}
