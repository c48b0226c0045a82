package generator

import (
	"github.com/beevik/etree"

	"github.com/rezonia/einvoice-engine/internal/format"
	"github.com/rezonia/einvoice-engine/internal/model"
	"github.com/rezonia/einvoice-engine/internal/rules"
)

const ksefNS = "http://crd.gov.pl/wzor/2023/06/29/12648/"

// ksefGenerator serializes into the Polish KSeF FA(2) schema.
type ksefGenerator struct{}

func newKSeF() *ksefGenerator { return &ksefGenerator{} }

func (g *ksefGenerator) Format() format.Format { return format.KSeF }

func (g *ksefGenerator) Generate(inv *model.CanonicalInvoice) (*model.GenerationResult, error) {
	xmlContent, err := g.buildXML(inv)
	if err != nil {
		return nil, err
	}
	return packageResult(format.KSeF, inv, xmlContent, nil), nil
}

func (g *ksefGenerator) buildXML(inv *model.CanonicalInvoice) ([]byte, error) {
	issueDate, err := NormalizeDate(inv.InvoiceDate)
	if err != nil {
		return nil, err
	}
	dueDate, err := NormalizeDate(inv.Payment.DueDate)
	if err != nil {
		return nil, err
	}

	totals := emittedTotals(inv)

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Faktura")
	root.CreateAttr("xmlns", ksefNS)

	header := root.CreateElement("Naglowek")
	kod := text(header, "KodFormularza", "FA")
	kod.CreateAttr("kodSystemowy", "FA (2)")
	kod.CreateAttr("wersjaSchemy", "1-0E")
	text(header, "WariantFormularza", "2")
	// Derived from the invoice date so identical input yields identical
	// bytes; wall-clock timestamps would break that.
	text(header, "DataWytworzeniaFa", issueDate+"T00:00:00Z")
	text(header, "SystemInfo", "einvoice-engine")

	g.addParty(root, "Podmiot1", inv.Seller)
	g.addParty(root, "Podmiot2", inv.Buyer)

	fa := root.CreateElement("Fa")
	text(fa, "KodWaluty", inv.Currency)
	text(fa, "P_1", issueDate)
	text(fa, "P_2", inv.InvoiceNumber)

	for _, group := range rules.GroupByTaxRate(inv.LineItems) {
		summary := fa.CreateElement("PodsumowanieStawki")
		text(summary, "StawkaPodatku", Rate(group.Rate))
		text(summary, "KwotaNetto", Amount(group.TaxableAmount))
		text(summary, "KwotaPodatku", Amount(group.TaxAmount))
	}

	text(fa, "P_13_1", Amount(totals.Subtotal))
	text(fa, "P_14_1", Amount(totals.TaxAmount))
	text(fa, "P_15", Amount(totals.TotalAmount))

	annotations := fa.CreateElement("Adnotacje")
	text(annotations, "P_16", "2")
	text(annotations, "P_17", "2")
	text(annotations, "P_18", "2")

	rodzaj := "VAT"
	if documentTypeCode(inv) == model.DocTypeCreditNote {
		rodzaj = "KOR"
	}
	text(fa, "RodzajFaktury", rodzaj)

	for i, item := range inv.LineItems {
		line := fa.CreateElement("FaWiersz")
		text(line, "NrWierszaFa", lineID(i))
		text(line, "P_7", item.Description)
		text(line, "P_8A", unitCode(item))
		text(line, "P_8B", Quantity(item.Quantity))
		text(line, "P_9A", Amount(item.UnitPrice))
		text(line, "P_11", Amount(item.TotalPrice))
		text(line, "P_12", Rate(item.TaxRate))
	}

	if dueDate != "" || inv.Payment.IBAN != "" {
		payment := fa.CreateElement("Platnosc")
		if dueDate != "" {
			term := payment.CreateElement("TerminPlatnosci")
			text(term, "Termin", dueDate)
		}
		if inv.Payment.IBAN != "" {
			account := payment.CreateElement("RachunekBankowy")
			text(account, "NrRB", inv.Payment.IBAN)
			if inv.Payment.BankName != "" {
				text(account, "NazwaBanku", inv.Payment.BankName)
			}
		}
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}

func (g *ksefGenerator) addParty(root *etree.Element, name string, party model.Party) {
	wrapper := root.CreateElement(name)

	ident := wrapper.CreateElement("DaneIdentyfikacyjne")
	nip := party.TaxID
	if nip == "" {
		nip = party.VATID
	}
	if nip != "" {
		text(ident, "NIP", nip)
	}
	text(ident, "Nazwa", party.Name)

	address := wrapper.CreateElement("Adres")
	country := party.Country
	if country == "" {
		country = "PL"
	}
	text(address, "KodKraju", country)
	text(address, "AdresL1", party.Street)
	text(address, "AdresL2", party.PostalCode+" "+party.City)
}
