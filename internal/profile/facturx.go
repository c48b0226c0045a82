package profile

import (
	"github.com/rezonia/einvoice-engine/internal/model"
)

// Factur-X (FX-COMMON-*). Both conformance levels need a complete seller
// postal address and a seller tax identifier; the EN 16931 level
// additionally requires the buyer address to be complete. The two variants
// are near-identical on purpose and still must stay distinct profiles.
func newFacturXEN16931() Validator {
	return &validator{
		id:   "facturx-en16931",
		name: "Factur-X EN 16931",
		rules: []Rule{
			checkFacturXSellerAddress,
			checkFacturXSellerTaxID,
			checkFacturXBuyerAddress,
		},
	}
}

func newFacturXBasic() Validator {
	return &validator{
		id:   "facturx-basic",
		name: "Factur-X Basic",
		rules: []Rule{
			checkFacturXSellerAddress,
			checkFacturXSellerTaxID,
		},
	}
}

func checkFacturXSellerAddress(inv *model.CanonicalInvoice) []model.Violation {
	var v []model.Violation
	if inv.Seller.Street == "" {
		v = append(v, model.Violation{RuleID: "FX-COMMON-01", Message: "seller street address is required"})
	}
	if inv.Seller.City == "" {
		v = append(v, model.Violation{RuleID: "FX-COMMON-02", Message: "seller city is required"})
	}
	if inv.Seller.PostalCode == "" {
		v = append(v, model.Violation{RuleID: "FX-COMMON-03", Message: "seller postal code is required"})
	}
	if inv.Seller.Country == "" {
		v = append(v, model.Violation{RuleID: "FX-COMMON-04", Message: "seller country code is required"})
	}
	return v
}

func checkFacturXSellerTaxID(inv *model.CanonicalInvoice) []model.Violation {
	if inv.Seller.VATID == "" && inv.Seller.TaxID == "" {
		return violation("FX-COMMON-05", "seller VAT or tax identifier is required")
	}
	return nil
}

func checkFacturXBuyerAddress(inv *model.CanonicalInvoice) []model.Violation {
	var v []model.Violation
	if inv.Buyer.City == "" {
		v = append(v, model.Violation{RuleID: "FX-EN16931-01", Message: "buyer city is required"})
	}
	if inv.Buyer.PostalCode == "" {
		v = append(v, model.Violation{RuleID: "FX-EN16931-02", Message: "buyer postal code is required"})
	}
	return v
}
