// Package model defines the canonical invoice record consumed by every
// validator and generator in the engine, plus the result and error types
// shared across packages.
package model

// Document type codes per UNTDID 1001.
const (
	DocTypeInvoice    = "380"
	DocTypeCreditNote = "381"
)

// Electronic address scheme for email addresses (EAS code list).
const SchemeEmail = "EM"

// CanonicalInvoice is the format-agnostic invoice record. It is produced
// once per conversion request by the upstream extraction/review layer,
// treated as immutable here, and consumed exactly once by the pipeline.
type CanonicalInvoice struct {
	OutputFormat string `json:"outputFormat"`

	InvoiceNumber    string `json:"invoiceNumber"`
	InvoiceDate      string `json:"invoiceDate"`
	DocumentTypeCode string `json:"documentTypeCode"`
	Currency         string `json:"currency"`
	BuyerReference   string `json:"buyerReference,omitempty"`
	Notes            string `json:"notes,omitempty"`

	BillingPeriodStart string `json:"billingPeriodStart,omitempty"`
	BillingPeriodEnd   string `json:"billingPeriodEnd,omitempty"`
	PrecedingInvoice   string `json:"precedingInvoice,omitempty"`

	Seller Party `json:"seller"`
	Buyer  Party `json:"buyer"`

	Payment Payment `json:"payment"`

	LineItems []LineItem `json:"lineItems"`
	Totals    Totals     `json:"totals"`
}

// Party is a seller or buyer.
type Party struct {
	Name       string `json:"name"`
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"` // ISO 3166-1 alpha-2

	VATID string `json:"vatId,omitempty"`
	TaxID string `json:"taxId,omitempty"`

	ContactName  string `json:"contactName,omitempty"`
	ContactPhone string `json:"contactPhone,omitempty"`
	ContactEmail string `json:"contactEmail,omitempty"`

	// Electronic address used for Peppol-style routing, with its EAS
	// scheme code (e.g. "EM" for email, "0204" for Leitweg-ID).
	ElectronicAddress       string `json:"electronicAddress,omitempty"`
	ElectronicAddressScheme string `json:"electronicAddressScheme,omitempty"`
}

// Payment holds payment instructions.
type Payment struct {
	IBAN     string `json:"iban,omitempty"`
	BIC      string `json:"bic,omitempty"`
	BankName string `json:"bankName,omitempty"`
	Terms    string `json:"terms,omitempty"`
	DueDate  string `json:"dueDate,omitempty"`
}

// LineItem is a single invoice position. UnitPrice and TotalPrice are
// always NET amounts; TotalPrice never includes VAT.
type LineItem struct {
	Description     string  `json:"description"`
	Quantity        float64 `json:"quantity"`
	UnitPrice       float64 `json:"unitPrice"`
	TotalPrice      float64 `json:"totalPrice"`
	TaxRate         float64 `json:"taxRate"`
	TaxCategoryCode string  `json:"taxCategoryCode,omitempty"` // derived when empty
	UnitCode        string  `json:"unitCode,omitempty"`        // UN/ECE rec 20, defaults to C62
}

// Totals are the document-level monetary totals.
type Totals struct {
	Subtotal    float64 `json:"subtotal"`    // NET
	TaxAmount   float64 `json:"taxAmount"`   // sum of per-rate VAT
	TotalAmount float64 `json:"totalAmount"` // gross
}

// AllowanceCharge is a document-level allowance (negative adjustment) or
// charge (positive adjustment) applied before tax.
type AllowanceCharge struct {
	Charge  bool    `json:"charge"`
	Amount  float64 `json:"amount"`
	Reason  string  `json:"reason,omitempty"`
	TaxRate float64 `json:"taxRate"`
}
