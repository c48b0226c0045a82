package profile

import (
	"github.com/rezonia/einvoice-engine/internal/model"
)

// Peppol BIS Billing 3.0. Routing over the Peppol network needs an
// electronic address with its EAS scheme code on both endpoints.
func newPeppolBIS() Validator {
	return &validator{
		id:   "peppol-bis",
		name: "Peppol BIS Billing 3.0",
		rules: []Rule{
			checkSellerEndpoint,
			checkBuyerEndpoint,
			checkSellerCountry,
			checkBuyerCountry,
		},
	}
}

func checkSellerEndpoint(inv *model.CanonicalInvoice) []model.Violation {
	var v []model.Violation
	if inv.Seller.ElectronicAddress == "" {
		v = append(v, model.Violation{RuleID: "PEPPOL-EN16931-R020", Message: "seller electronic address is required"})
	} else if inv.Seller.ElectronicAddressScheme == "" {
		v = append(v, model.Violation{RuleID: "PEPPOL-EN16931-R020", Message: "seller electronic address scheme code is required"})
	}
	return v
}

func checkBuyerEndpoint(inv *model.CanonicalInvoice) []model.Violation {
	var v []model.Violation
	if inv.Buyer.ElectronicAddress == "" {
		v = append(v, model.Violation{RuleID: "PEPPOL-EN16931-R010", Message: "buyer electronic address is required"})
	} else if inv.Buyer.ElectronicAddressScheme == "" {
		v = append(v, model.Violation{RuleID: "PEPPOL-EN16931-R010", Message: "buyer electronic address scheme code is required"})
	}
	return v
}

func checkSellerCountry(inv *model.CanonicalInvoice) []model.Violation {
	if inv.Seller.Country == "" {
		return violation("BR-09", "seller country code is required")
	}
	return nil
}

func checkBuyerCountry(inv *model.CanonicalInvoice) []model.Violation {
	if inv.Buyer.Country == "" {
		return violation("BR-11", "buyer country code is required")
	}
	return nil
}
