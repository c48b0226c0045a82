package generator

import (
	"github.com/beevik/etree"

	"github.com/rezonia/einvoice-engine/internal/format"
	"github.com/rezonia/einvoice-engine/internal/model"
	"github.com/rezonia/einvoice-engine/internal/rules"
)

// UN/CEFACT CII namespaces.
const (
	ciiRsmNS = "urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"
	ciiRamNS = "urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:100"
	ciiUdtNS = "urn:un:unece:uncefact:data:standard:UnqualifiedDataType:100"
)

// ciiGenerator serializes into UN/CEFACT Cross-Industry Invoice. The
// Factur-X variants reuse the same element tree under their own guideline
// identifier and additionally embed the XML into a PDF/A-3 container.
type ciiGenerator struct {
	format      format.Format
	guidelineID string
	hybridPDF   bool
}

func newCII(f format.Format, guidelineID string, hybridPDF bool) *ciiGenerator {
	return &ciiGenerator{format: f, guidelineID: guidelineID, hybridPDF: hybridPDF}
}

func (g *ciiGenerator) Format() format.Format { return g.format }

func (g *ciiGenerator) Generate(inv *model.CanonicalInvoice) (*model.GenerationResult, error) {
	xmlContent, err := g.buildXML(inv)
	if err != nil {
		return nil, err
	}

	var pdfContent []byte
	if g.hybridPDF {
		pdfContent, err = embedInPDF(inv, xmlContent)
		if err != nil {
			return nil, err
		}
	}

	return packageResult(g.format, inv, xmlContent, pdfContent), nil
}

func (g *ciiGenerator) buildXML(inv *model.CanonicalInvoice) ([]byte, error) {
	issueDate, err := CIIDate(inv.InvoiceDate)
	if err != nil {
		return nil, err
	}
	dueDate, err := CIIDate(inv.Payment.DueDate)
	if err != nil {
		return nil, err
	}
	periodStart, err := CIIDate(inv.BillingPeriodStart)
	if err != nil {
		return nil, err
	}
	periodEnd, err := CIIDate(inv.BillingPeriodEnd)
	if err != nil {
		return nil, err
	}

	totals := emittedTotals(inv)
	currency := inv.Currency

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("rsm:CrossIndustryInvoice")
	root.CreateAttr("xmlns:rsm", ciiRsmNS)
	root.CreateAttr("xmlns:ram", ciiRamNS)
	root.CreateAttr("xmlns:udt", ciiUdtNS)

	context := root.CreateElement("rsm:ExchangedDocumentContext")
	guideline := context.CreateElement("ram:GuidelineSpecifiedDocumentContextParameter")
	text(guideline, "ram:ID", g.guidelineID)

	document := root.CreateElement("rsm:ExchangedDocument")
	text(document, "ram:ID", inv.InvoiceNumber)
	text(document, "ram:TypeCode", documentTypeCode(inv))
	issue := document.CreateElement("ram:IssueDateTime")
	ciiDate(issue, issueDate)
	if inv.Notes != "" {
		note := document.CreateElement("ram:IncludedNote")
		text(note, "ram:Content", inv.Notes)
	}

	transaction := root.CreateElement("rsm:SupplyChainTradeTransaction")

	for i, item := range inv.LineItems {
		line := transaction.CreateElement("ram:IncludedSupplyChainTradeLineItem")

		lineDoc := line.CreateElement("ram:AssociatedDocumentLineDocument")
		text(lineDoc, "ram:LineID", lineID(i))

		product := line.CreateElement("ram:SpecifiedTradeProduct")
		text(product, "ram:Name", item.Description)

		agreement := line.CreateElement("ram:SpecifiedLineTradeAgreement")
		price := agreement.CreateElement("ram:NetPriceProductTradePrice")
		text(price, "ram:ChargeAmount", Amount(item.UnitPrice))

		delivery := line.CreateElement("ram:SpecifiedLineTradeDelivery")
		qty := text(delivery, "ram:BilledQuantity", Quantity(item.Quantity))
		qty.CreateAttr("unitCode", unitCode(item))

		settlement := line.CreateElement("ram:SpecifiedLineTradeSettlement")
		tax := settlement.CreateElement("ram:ApplicableTradeTax")
		text(tax, "ram:TypeCode", "VAT")
		text(tax, "ram:CategoryCode", rules.CategoryFor(item))
		text(tax, "ram:RateApplicablePercent", Rate(item.TaxRate))
		lineSum := settlement.CreateElement("ram:SpecifiedTradeSettlementLineMonetarySummation")
		text(lineSum, "ram:LineTotalAmount", Amount(item.TotalPrice))
	}

	agreement := transaction.CreateElement("ram:ApplicableHeaderTradeAgreement")
	if inv.BuyerReference != "" {
		text(agreement, "ram:BuyerReference", inv.BuyerReference)
	}
	g.addParty(agreement, "ram:SellerTradeParty", inv.Seller)
	g.addParty(agreement, "ram:BuyerTradeParty", inv.Buyer)

	transaction.CreateElement("ram:ApplicableHeaderTradeDelivery")

	settlement := transaction.CreateElement("ram:ApplicableHeaderTradeSettlement")
	text(settlement, "ram:InvoiceCurrencyCode", currency)

	if inv.Payment.IBAN != "" {
		means := settlement.CreateElement("ram:SpecifiedTradeSettlementPaymentMeans")
		text(means, "ram:TypeCode", "30")
		account := means.CreateElement("ram:PayeePartyCreditorFinancialAccount")
		text(account, "ram:IBANID", inv.Payment.IBAN)
		if inv.Payment.BIC != "" {
			institution := means.CreateElement("ram:PayeeSpecifiedCreditorFinancialInstitution")
			text(institution, "ram:BICID", inv.Payment.BIC)
		}
	}

	for _, group := range rules.GroupByTaxRate(inv.LineItems) {
		tax := settlement.CreateElement("ram:ApplicableTradeTax")
		text(tax, "ram:CalculatedAmount", Amount(group.TaxAmount))
		text(tax, "ram:TypeCode", "VAT")
		text(tax, "ram:BasisAmount", Amount(group.TaxableAmount))
		text(tax, "ram:CategoryCode", group.CategoryCode)
		text(tax, "ram:RateApplicablePercent", Rate(group.Rate))
	}

	if periodStart != "" || periodEnd != "" {
		period := settlement.CreateElement("ram:BillingSpecifiedPeriod")
		if periodStart != "" {
			ciiDate(period.CreateElement("ram:StartDateTime"), periodStart)
		}
		if periodEnd != "" {
			ciiDate(period.CreateElement("ram:EndDateTime"), periodEnd)
		}
	}

	if inv.Payment.Terms != "" || dueDate != "" {
		terms := settlement.CreateElement("ram:SpecifiedTradePaymentTerms")
		if inv.Payment.Terms != "" {
			text(terms, "ram:Description", inv.Payment.Terms)
		}
		if dueDate != "" {
			ciiDate(terms.CreateElement("ram:DueDateDateTime"), dueDate)
		}
	}

	summation := settlement.CreateElement("ram:SpecifiedTradeSettlementHeaderMonetarySummation")
	text(summation, "ram:LineTotalAmount", Amount(totals.Subtotal))
	text(summation, "ram:TaxBasisTotalAmount", Amount(totals.Subtotal))
	taxTotal := text(summation, "ram:TaxTotalAmount", Amount(totals.TaxAmount))
	taxTotal.CreateAttr("currencyID", currency)
	text(summation, "ram:GrandTotalAmount", Amount(totals.TotalAmount))
	text(summation, "ram:DuePayableAmount", Amount(totals.TotalAmount))

	if inv.PrecedingInvoice != "" {
		ref := settlement.CreateElement("ram:InvoiceReferencedDocument")
		text(ref, "ram:IssuerAssignedID", inv.PrecedingInvoice)
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}

func (g *ciiGenerator) addParty(parent *etree.Element, name string, party model.Party) {
	p := parent.CreateElement(name)
	text(p, "ram:Name", party.Name)

	if party.ContactName != "" || party.ContactPhone != "" || party.ContactEmail != "" {
		contact := p.CreateElement("ram:DefinedTradeContact")
		if party.ContactName != "" {
			text(contact, "ram:PersonName", party.ContactName)
		}
		if party.ContactPhone != "" {
			phone := contact.CreateElement("ram:TelephoneUniversalCommunication")
			text(phone, "ram:CompleteNumber", party.ContactPhone)
		}
		if party.ContactEmail != "" {
			email := contact.CreateElement("ram:EmailURIUniversalCommunication")
			text(email, "ram:URIID", party.ContactEmail)
		}
	}

	address := p.CreateElement("ram:PostalTradeAddress")
	if party.PostalCode != "" {
		text(address, "ram:PostcodeCode", party.PostalCode)
	}
	if party.Street != "" {
		text(address, "ram:LineOne", party.Street)
	}
	if party.City != "" {
		text(address, "ram:CityName", party.City)
	}
	if party.Country != "" {
		text(address, "ram:CountryID", party.Country)
	}

	if party.ElectronicAddress != "" {
		uri := p.CreateElement("ram:URIUniversalCommunication")
		uriID := text(uri, "ram:URIID", party.ElectronicAddress)
		if party.ElectronicAddressScheme != "" {
			uriID.CreateAttr("schemeID", party.ElectronicAddressScheme)
		}
	}

	if party.VATID != "" {
		reg := p.CreateElement("ram:SpecifiedTaxRegistration")
		id := text(reg, "ram:ID", party.VATID)
		id.CreateAttr("schemeID", "VA")
	}
	if party.TaxID != "" {
		reg := p.CreateElement("ram:SpecifiedTaxRegistration")
		id := text(reg, "ram:ID", party.TaxID)
		id.CreateAttr("schemeID", "FC")
	}
}

// ciiDate fills a date container with a format 102 date string.
func ciiDate(parent *etree.Element, yyyymmdd string) {
	el := text(parent, "udt:DateTimeString", yyyymmdd)
	el.CreateAttr("format", "102")
}
