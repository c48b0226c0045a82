package profile

import (
	"github.com/rezonia/einvoice-engine/internal/model"
)

// German CIUS rules (BR-DE-*). XRechnung requires a reachable seller, a
// routable buyer reference and a credit-transfer account; these apply to
// both the CII and the UBL syntax binding.
var xrechnungRules = []Rule{
	checkSellerContact,
	checkSellerCity,
	checkSellerPostCode,
	checkBuyerReference,
	checkIBAN,
	checkSellerElectronicAddress,
	checkPaymentTermsOrDueDate,
}

func newXRechnungCII() Validator {
	return &validator{
		id:    "xrechnung-cii",
		name:  "XRechnung 3.0 (CII)",
		rules: xrechnungRules,
	}
}

func newXRechnungUBL() Validator {
	return &validator{
		id:    "xrechnung-ubl",
		name:  "XRechnung 3.0 (UBL)",
		rules: xrechnungRules,
	}
}

func checkSellerContact(inv *model.CanonicalInvoice) []model.Violation {
	if inv.Seller.ContactPhone == "" && inv.Seller.ContactEmail == "" {
		return violation("BR-DE-2", "seller contact phone or email is required")
	}
	return nil
}

func checkSellerCity(inv *model.CanonicalInvoice) []model.Violation {
	if inv.Seller.City == "" {
		return violation("BR-DE-3", "seller city is required")
	}
	return nil
}

func checkSellerPostCode(inv *model.CanonicalInvoice) []model.Violation {
	if inv.Seller.PostalCode == "" {
		return violation("BR-DE-4", "seller postal code is required")
	}
	return nil
}

func checkBuyerReference(inv *model.CanonicalInvoice) []model.Violation {
	if inv.BuyerReference == "" {
		return violation("BR-DE-15", "buyer reference (Leitweg-ID) is required")
	}
	return nil
}

func checkIBAN(inv *model.CanonicalInvoice) []model.Violation {
	if inv.Payment.IBAN == "" {
		return violation("BR-DE-23-a", "payment account IBAN is required for credit transfer")
	}
	return nil
}

func checkSellerElectronicAddress(inv *model.CanonicalInvoice) []model.Violation {
	if inv.Seller.ElectronicAddress == "" {
		return violation("BR-DE-SELLER-EADDR", "seller electronic address is required")
	}
	return nil
}

func checkPaymentTermsOrDueDate(inv *model.CanonicalInvoice) []model.Violation {
	if inv.Payment.Terms == "" && inv.Payment.DueDate == "" {
		return violation("BR-CO-25", "payment terms or a due date is required")
	}
	return nil
}
