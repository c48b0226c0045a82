package generator

import (
	"github.com/beevik/etree"

	"github.com/rezonia/einvoice-engine/internal/format"
	"github.com/rezonia/einvoice-engine/internal/model"
	"github.com/rezonia/einvoice-engine/internal/rules"
)

// UBL namespaces per OASIS UBL 2.1.
const (
	ublInvoiceNS = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	ublCacNS     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	ublCbcNS     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
)

// ublGenerator serializes into UBL 2.1. The four UBL-family formats differ
// only in their CustomizationID/ProfileID pair and the business rules their
// profile validator applies.
type ublGenerator struct {
	format          format.Format
	customizationID string
	profileID       string
}

func newUBL(f format.Format, customizationID, profileID string) *ublGenerator {
	return &ublGenerator{format: f, customizationID: customizationID, profileID: profileID}
}

func (g *ublGenerator) Format() format.Format { return g.format }

func (g *ublGenerator) Generate(inv *model.CanonicalInvoice) (*model.GenerationResult, error) {
	xmlContent, err := g.buildXML(inv)
	if err != nil {
		return nil, err
	}
	return packageResult(g.format, inv, xmlContent, nil), nil
}

func (g *ublGenerator) buildXML(inv *model.CanonicalInvoice) ([]byte, error) {
	issueDate, err := NormalizeDate(inv.InvoiceDate)
	if err != nil {
		return nil, err
	}
	dueDate, err := NormalizeDate(inv.Payment.DueDate)
	if err != nil {
		return nil, err
	}
	periodStart, err := NormalizeDate(inv.BillingPeriodStart)
	if err != nil {
		return nil, err
	}
	periodEnd, err := NormalizeDate(inv.BillingPeriodEnd)
	if err != nil {
		return nil, err
	}

	totals := emittedTotals(inv)
	currency := inv.Currency

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Invoice")
	root.CreateAttr("xmlns", ublInvoiceNS)
	root.CreateAttr("xmlns:cac", ublCacNS)
	root.CreateAttr("xmlns:cbc", ublCbcNS)

	text(root, "cbc:CustomizationID", g.customizationID)
	text(root, "cbc:ProfileID", g.profileID)
	text(root, "cbc:ID", inv.InvoiceNumber)
	text(root, "cbc:IssueDate", issueDate)
	if dueDate != "" {
		text(root, "cbc:DueDate", dueDate)
	}
	text(root, "cbc:InvoiceTypeCode", documentTypeCode(inv))
	if inv.Notes != "" {
		text(root, "cbc:Note", inv.Notes)
	}
	text(root, "cbc:DocumentCurrencyCode", currency)
	if inv.BuyerReference != "" {
		text(root, "cbc:BuyerReference", inv.BuyerReference)
	}

	if periodStart != "" || periodEnd != "" {
		period := root.CreateElement("cac:InvoicePeriod")
		if periodStart != "" {
			text(period, "cbc:StartDate", periodStart)
		}
		if periodEnd != "" {
			text(period, "cbc:EndDate", periodEnd)
		}
	}

	if inv.PrecedingInvoice != "" {
		ref := root.CreateElement("cac:BillingReference")
		docRef := ref.CreateElement("cac:InvoiceDocumentReference")
		text(docRef, "cbc:ID", inv.PrecedingInvoice)
	}

	g.addParty(root, "cac:AccountingSupplierParty", inv.Seller)
	g.addParty(root, "cac:AccountingCustomerParty", inv.Buyer)

	if inv.Payment.IBAN != "" {
		means := root.CreateElement("cac:PaymentMeans")
		text(means, "cbc:PaymentMeansCode", "30") // credit transfer
		account := means.CreateElement("cac:PayeeFinancialAccount")
		text(account, "cbc:ID", inv.Payment.IBAN)
		if inv.Payment.BankName != "" {
			text(account, "cbc:Name", inv.Payment.BankName)
		}
		if inv.Payment.BIC != "" {
			branch := account.CreateElement("cac:FinancialInstitutionBranch")
			text(branch, "cbc:ID", inv.Payment.BIC)
		}
	}
	if inv.Payment.Terms != "" {
		terms := root.CreateElement("cac:PaymentTerms")
		text(terms, "cbc:Note", inv.Payment.Terms)
	}

	taxTotal := root.CreateElement("cac:TaxTotal")
	amount(taxTotal, "cbc:TaxAmount", totals.TaxAmount, currency)
	for _, group := range rules.GroupByTaxRate(inv.LineItems) {
		sub := taxTotal.CreateElement("cac:TaxSubtotal")
		amount(sub, "cbc:TaxableAmount", group.TaxableAmount, currency)
		amount(sub, "cbc:TaxAmount", group.TaxAmount, currency)
		category := sub.CreateElement("cac:TaxCategory")
		text(category, "cbc:ID", group.CategoryCode)
		text(category, "cbc:Percent", Rate(group.Rate))
		scheme := category.CreateElement("cac:TaxScheme")
		text(scheme, "cbc:ID", "VAT")
	}

	monetary := root.CreateElement("cac:LegalMonetaryTotal")
	amount(monetary, "cbc:LineExtensionAmount", totals.Subtotal, currency)
	amount(monetary, "cbc:TaxExclusiveAmount", totals.Subtotal, currency)
	amount(monetary, "cbc:TaxInclusiveAmount", totals.TotalAmount, currency)
	amount(monetary, "cbc:PayableAmount", totals.TotalAmount, currency)

	for i, item := range inv.LineItems {
		line := root.CreateElement("cac:InvoiceLine")
		text(line, "cbc:ID", lineID(i))
		qty := text(line, "cbc:InvoicedQuantity", Quantity(item.Quantity))
		qty.CreateAttr("unitCode", unitCode(item))
		amount(line, "cbc:LineExtensionAmount", item.TotalPrice, currency)

		itemEl := line.CreateElement("cac:Item")
		text(itemEl, "cbc:Name", item.Description)
		category := itemEl.CreateElement("cac:ClassifiedTaxCategory")
		text(category, "cbc:ID", rules.CategoryFor(item))
		text(category, "cbc:Percent", Rate(item.TaxRate))
		scheme := category.CreateElement("cac:TaxScheme")
		text(scheme, "cbc:ID", "VAT")

		price := line.CreateElement("cac:Price")
		amount(price, "cbc:PriceAmount", item.UnitPrice, currency)
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}

func (g *ublGenerator) addParty(root *etree.Element, name string, party model.Party) {
	wrapper := root.CreateElement(name)
	p := wrapper.CreateElement("cac:Party")

	if party.ElectronicAddress != "" {
		endpoint := text(p, "cbc:EndpointID", party.ElectronicAddress)
		if party.ElectronicAddressScheme != "" {
			endpoint.CreateAttr("schemeID", party.ElectronicAddressScheme)
		}
	}

	partyName := p.CreateElement("cac:PartyName")
	text(partyName, "cbc:Name", party.Name)

	address := p.CreateElement("cac:PostalAddress")
	if party.Street != "" {
		text(address, "cbc:StreetName", party.Street)
	}
	if party.City != "" {
		text(address, "cbc:CityName", party.City)
	}
	if party.PostalCode != "" {
		text(address, "cbc:PostalZone", party.PostalCode)
	}
	if party.Country != "" {
		country := address.CreateElement("cac:Country")
		text(country, "cbc:IdentificationCode", party.Country)
	}

	if party.VATID != "" {
		taxScheme := p.CreateElement("cac:PartyTaxScheme")
		text(taxScheme, "cbc:CompanyID", party.VATID)
		scheme := taxScheme.CreateElement("cac:TaxScheme")
		text(scheme, "cbc:ID", "VAT")
	}

	legal := p.CreateElement("cac:PartyLegalEntity")
	text(legal, "cbc:RegistrationName", party.Name)

	if party.ContactName != "" || party.ContactPhone != "" || party.ContactEmail != "" {
		contact := p.CreateElement("cac:Contact")
		if party.ContactName != "" {
			text(contact, "cbc:Name", party.ContactName)
		}
		if party.ContactPhone != "" {
			text(contact, "cbc:Telephone", party.ContactPhone)
		}
		if party.ContactEmail != "" {
			text(contact, "cbc:ElectronicMail", party.ContactEmail)
		}
	}
}
