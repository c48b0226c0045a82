package generator

import (
	"strconv"

	"github.com/beevik/etree"

	"github.com/rezonia/einvoice-engine/internal/model"
)

// text creates a child element with sanitized text content.
func text(parent *etree.Element, tag, value string) *etree.Element {
	el := parent.CreateElement(tag)
	el.SetText(Sanitize(value))
	return el
}

// amount creates a child element holding a 2-decimal amount with its
// currency attribute.
func amount(parent *etree.Element, tag string, v float64, currency string) *etree.Element {
	el := parent.CreateElement(tag)
	el.SetText(Amount(v))
	el.CreateAttr("currencyID", currency)
	return el
}

func documentTypeCode(inv *model.CanonicalInvoice) string {
	if inv.DocumentTypeCode == "" {
		return model.DocTypeInvoice
	}
	return inv.DocumentTypeCode
}

func lineID(i int) string {
	return strconv.Itoa(i + 1)
}

// unitCode returns the UN/ECE Recommendation 20 unit for a line item,
// defaulting to C62 (one unit).
func unitCode(item model.LineItem) string {
	if item.UnitCode != "" {
		return item.UnitCode
	}
	return "C62"
}
