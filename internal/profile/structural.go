package profile

import (
	"fmt"
	"math"

	"github.com/rezonia/einvoice-engine/internal/model"
)

func violation(ruleID, msg string, args ...interface{}) []model.Violation {
	return []model.Violation{{RuleID: ruleID, Message: fmt.Sprintf(msg, args...)}}
}

// structuralRules are the shared EN 16931 structural checks every profile
// composes before its own rules.
var structuralRules = []Rule{
	checkInvoiceNumber,
	checkInvoiceDate,
	checkSellerName,
	checkBuyerName,
	checkLineItems,
	checkCurrency,
	checkTotals,
}

func checkInvoiceNumber(inv *model.CanonicalInvoice) []model.Violation {
	if inv.InvoiceNumber == "" {
		return violation("SCHEMA-001", "invoice number is required")
	}
	return nil
}

func checkInvoiceDate(inv *model.CanonicalInvoice) []model.Violation {
	if inv.InvoiceDate == "" {
		return violation("SCHEMA-002", "invoice date is required")
	}
	return nil
}

func checkSellerName(inv *model.CanonicalInvoice) []model.Violation {
	if inv.Seller.Name == "" {
		return violation("SCHEMA-003", "seller name is required")
	}
	return nil
}

func checkBuyerName(inv *model.CanonicalInvoice) []model.Violation {
	if inv.Buyer.Name == "" {
		return violation("SCHEMA-004", "buyer name is required")
	}
	return nil
}

func checkLineItems(inv *model.CanonicalInvoice) []model.Violation {
	if len(inv.LineItems) == 0 {
		return violation("SCHEMA-005", "invoice must contain at least one line item")
	}
	return nil
}

func checkCurrency(inv *model.CanonicalInvoice) []model.Violation {
	if inv.Currency == "" {
		return violation("SCHEMA-006", "currency code is required")
	}
	return nil
}

// checkTotals enforces the numeric sanity of the grand total. A credit
// note (381) may carry a negative total; an invoice (380) must be strictly
// positive. NaN and infinity fail for either type regardless of sign.
func checkTotals(inv *model.CanonicalInvoice) []model.Violation {
	total := inv.Totals.TotalAmount
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return violation("SCHEMA-010", "total amount must be a valid number")
	}
	if inv.DocumentTypeCode != model.DocTypeCreditNote && total <= 0 {
		return violation("SCHEMA-011", "total amount must be positive for document type %s", inv.DocumentTypeCode)
	}
	return nil
}
