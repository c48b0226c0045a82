package pipeline

import (
	"math"

	"github.com/rezonia/einvoice-engine/internal/model"
	"github.com/rezonia/einvoice-engine/internal/rules"
)

// LegacyInvoice is the flat record shape still produced by the older
// review flow. It predates the nested canonical model and only ever
// targets the default XRechnung CII profile.
//
// TODO: consolidate with the xrechnung-cii profile validator once the
// review flow emits the canonical model; the rule sets are kept in sync by
// TestValidateXRechnung_MatchesProfileValidator.
type LegacyInvoice struct {
	InvoiceNumber    string  `json:"invoiceNumber"`
	InvoiceDate      string  `json:"invoiceDate"`
	DocumentTypeCode string  `json:"documentTypeCode"`
	Currency         string  `json:"currency"`
	SellerName       string  `json:"sellerName"`
	SellerCity       string  `json:"sellerCity"`
	SellerPostalCode string  `json:"sellerPostalCode"`
	SellerPhone      string  `json:"sellerPhone"`
	SellerEmail      string  `json:"sellerEmail"`
	SellerEAddress   string  `json:"sellerElectronicAddress"`
	BuyerName        string  `json:"buyerName"`
	BuyerEAddress    string  `json:"buyerElectronicAddress"`
	BuyerEAddrScheme string  `json:"buyerElectronicAddressScheme"`
	IBAN             string  `json:"iban"`
	PaymentTerms     string  `json:"paymentTerms"`
	DueDate          string  `json:"dueDate"`
	LineItems        []model.LineItem `json:"lineItems"`
	Subtotal         float64 `json:"subtotal"`
	TaxAmount        float64 `json:"taxAmount"`
	TotalAmount      float64 `json:"totalAmount"`
}

const legacyProfileID = "xrechnung-cii"

// ValidateXRechnung validates the flat legacy record against the default
// XRechnung CII rule set. Every applicable violation is collected in a
// single pass; nothing stops at the first failure.
func ValidateXRechnung(rec *LegacyInvoice) model.ValidationResult {
	var violations []model.Violation

	add := func(ruleID, msg string) {
		violations = append(violations, model.Violation{RuleID: ruleID, Message: msg})
	}

	if rec.InvoiceNumber == "" {
		add("SCHEMA-001", "invoice number is required")
	}
	if rec.InvoiceDate == "" {
		add("SCHEMA-002", "invoice date is required")
	}
	if rec.SellerName == "" {
		add("SCHEMA-003", "seller name is required")
	}
	if rec.BuyerName == "" {
		add("SCHEMA-004", "buyer name is required")
	}
	if len(rec.LineItems) == 0 {
		add("SCHEMA-005", "invoice must contain at least one line item")
	}
	if rec.Currency == "" {
		add("SCHEMA-006", "currency code is required")
	}
	if math.IsNaN(rec.TotalAmount) || math.IsInf(rec.TotalAmount, 0) {
		add("SCHEMA-010", "total amount must be a valid number")
	} else if rec.DocumentTypeCode != model.DocTypeCreditNote && rec.TotalAmount <= 0 {
		add("SCHEMA-011", "total amount must be positive for document type "+rec.DocumentTypeCode)
	}

	if rec.SellerPhone == "" && rec.SellerEmail == "" {
		add("BR-DE-2", "seller contact phone or email is required")
	}
	if rec.SellerCity == "" {
		add("BR-DE-3", "seller city is required")
	}
	if rec.SellerPostalCode == "" {
		add("BR-DE-4", "seller postal code is required")
	}
	if rec.IBAN == "" {
		add("BR-DE-23-a", "payment account IBAN is required for credit transfer")
	}
	// Any scheme is accepted here, not only email.
	if rec.BuyerEAddress == "" {
		add("PEPPOL-EN16931-R010", "buyer electronic address is required")
	}
	if rec.SellerEAddress == "" {
		add("BR-DE-SELLER-EADDR", "seller electronic address is required")
	}
	if rec.PaymentTerms == "" && rec.DueDate == "" {
		add("BR-CO-25", "payment terms or a due date is required")
	}

	totals := model.Totals{Subtotal: rec.Subtotal, TaxAmount: rec.TaxAmount, TotalAmount: rec.TotalAmount}
	violations = append(violations, rules.CrossChecks(rec.LineItems, totals)...)

	return model.NewValidationResult(legacyProfileID, violations)
}
