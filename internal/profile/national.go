package profile

import (
	"regexp"
	"strings"

	"github.com/rezonia/einvoice-engine/internal/model"
)

// FatturaPA, KSeF, NLCIUS and CIUS-RO. The national profiles deliberately
// do not require an IBAN or seller contact details; they carry their own
// identifier checks instead.

func newFatturaPA() Validator {
	return &validator{
		id:   "fatturapa",
		name: "FatturaPA 1.2",
		rules: []Rule{
			checkCodiceDestinatario,
			checkPartitaIVA,
		},
	}
}

var codiceDestinatarioRe = regexp.MustCompile(`^[A-Z0-9]{6,7}$`)

// checkCodiceDestinatario verifies the SdI routing code carried as the
// buyer electronic address: a 7-character code (6 for public bodies) or a
// PEC mail address as fallback.
func checkCodiceDestinatario(inv *model.CanonicalInvoice) []model.Violation {
	addr := inv.Buyer.ElectronicAddress
	if addr == "" {
		return violation("FPA-01", "CodiceDestinatario or PEC address is required for SdI routing")
	}
	if strings.Contains(addr, "@") {
		return nil // PEC address
	}
	if !codiceDestinatarioRe.MatchString(strings.ToUpper(addr)) {
		return violation("FPA-02", "CodiceDestinatario %q must be a 6 or 7 character alphanumeric code", addr)
	}
	return nil
}

func checkPartitaIVA(inv *model.CanonicalInvoice) []model.Violation {
	if inv.Seller.VATID == "" {
		return violation("FPA-03", "seller Partita IVA is required")
	}
	return nil
}

func newKSeF() Validator {
	return &validator{
		id:   "ksef",
		name: "KSeF FA(2)",
		rules: []Rule{
			checkSellerNIP,
			checkBuyerNIP,
		},
	}
}

var nipRe = regexp.MustCompile(`^\d{10}$`)

// nipOf strips the PL prefix and any separators from a Polish tax number.
func nipOf(p model.Party) string {
	id := p.TaxID
	if id == "" {
		id = p.VATID
	}
	id = strings.ToUpper(strings.TrimSpace(id))
	id = strings.TrimPrefix(id, "PL")
	return strings.NewReplacer("-", "", " ", "").Replace(id)
}

func checkSellerNIP(inv *model.CanonicalInvoice) []model.Violation {
	nip := nipOf(inv.Seller)
	if nip == "" {
		return violation("KSEF-NIP-01", "seller NIP is required")
	}
	if !nipRe.MatchString(nip) {
		return violation("KSEF-NIP-01", "seller NIP %q must be 10 digits", nip)
	}
	return nil
}

func checkBuyerNIP(inv *model.CanonicalInvoice) []model.Violation {
	// Only domestic buyers carry a NIP; foreign buyers pass.
	if inv.Buyer.Country != "" && inv.Buyer.Country != "PL" {
		return nil
	}
	nip := nipOf(inv.Buyer)
	if nip != "" && !nipRe.MatchString(nip) {
		return violation("KSEF-NIP-02", "buyer NIP %q must be 10 digits", nip)
	}
	return nil
}

func newNLCIUS() Validator {
	return &validator{
		id:   "nlcius",
		name: "NLCIUS",
		rules: []Rule{
			checkNLSellerStreet,
			checkNLSellerRegistration,
		},
	}
}

func checkNLSellerStreet(inv *model.CanonicalInvoice) []model.Violation {
	if inv.Seller.Street == "" {
		return violation("BR-NL-1", "seller street address is required")
	}
	return nil
}

// checkNLSellerRegistration approximates BR-NL-10: a Dutch seller must be
// identifiable by a registration (KvK/OIN) or VAT identifier.
func checkNLSellerRegistration(inv *model.CanonicalInvoice) []model.Violation {
	if inv.Seller.VATID == "" && inv.Seller.TaxID == "" {
		return violation("BR-NL-10", "seller registration or VAT identifier is required")
	}
	return nil
}

func newCIUSRO() Validator {
	return &validator{
		id:   "cius-ro",
		name: "CIUS-RO (RO e-Factura)",
		rules: []Rule{
			checkROSellerCity,
			checkROBuyerCity,
			checkROSellerTaxID,
		},
	}
}

func checkROSellerCity(inv *model.CanonicalInvoice) []model.Violation {
	var v []model.Violation
	if inv.Seller.City == "" {
		v = append(v, model.Violation{RuleID: "BR-RO-020", Message: "seller city is required"})
	}
	if inv.Seller.Country == "" {
		v = append(v, model.Violation{RuleID: "BR-RO-030", Message: "seller country code is required"})
	}
	return v
}

func checkROBuyerCity(inv *model.CanonicalInvoice) []model.Violation {
	if inv.Buyer.City == "" {
		return violation("BR-RO-040", "buyer city is required")
	}
	return nil
}

func checkROSellerTaxID(inv *model.CanonicalInvoice) []model.Violation {
	if inv.Seller.VATID == "" && inv.Seller.TaxID == "" {
		return violation("BR-RO-050", "seller tax identifier (CUI/CIF) is required")
	}
	return nil
}
