package generator

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/rezonia/einvoice-engine/internal/format"
	"github.com/rezonia/einvoice-engine/internal/model"
	"github.com/rezonia/einvoice-engine/internal/rules"
)

const fatturaPANS = "http://ivaservizi.agenziaentrate.gov.it/docs/xsd/fatture/v1.2"

// fatturaPAGenerator serializes into FatturaPA 1.2 for the Italian SdI
// exchange system.
type fatturaPAGenerator struct{}

func newFatturaPA() *fatturaPAGenerator { return &fatturaPAGenerator{} }

func (g *fatturaPAGenerator) Format() format.Format { return format.FatturaPA }

func (g *fatturaPAGenerator) Generate(inv *model.CanonicalInvoice) (*model.GenerationResult, error) {
	xmlContent, err := g.buildXML(inv)
	if err != nil {
		return nil, err
	}
	return packageResult(format.FatturaPA, inv, xmlContent, nil), nil
}

// splitVATID splits a VAT identifier into country prefix and national code.
func splitVATID(vatID, fallbackCountry string) (string, string) {
	vatID = strings.TrimSpace(vatID)
	if len(vatID) > 2 && vatID[0] >= 'A' && vatID[0] <= 'Z' && vatID[1] >= 'A' && vatID[1] <= 'Z' {
		return vatID[:2], vatID[2:]
	}
	country := fallbackCountry
	if country == "" {
		country = "IT"
	}
	return country, vatID
}

func (g *fatturaPAGenerator) buildXML(inv *model.CanonicalInvoice) ([]byte, error) {
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

	root := doc.CreateElement("p:FatturaElettronica")
	root.CreateAttr("versione", "FPR12")
	root.CreateAttr("xmlns:p", fatturaPANS)

	header := root.CreateElement("FatturaElettronicaHeader")

	transmission := header.CreateElement("DatiTrasmissione")
	transmitter := transmission.CreateElement("IdTrasmittente")
	country, code := splitVATID(inv.Seller.VATID, inv.Seller.Country)
	text(transmitter, "IdPaese", country)
	text(transmitter, "IdCodice", code)
	text(transmission, "ProgressivoInvio", "1")
	text(transmission, "FormatoTrasmissione", "FPR12")
	if addr := inv.Buyer.ElectronicAddress; strings.Contains(addr, "@") {
		// PEC routing: the destination code is all zeroes.
		text(transmission, "CodiceDestinatario", "0000000")
		text(transmission, "PECDestinatario", addr)
	} else {
		text(transmission, "CodiceDestinatario", strings.ToUpper(addr))
	}

	g.addParty(header, "CedentePrestatore", inv.Seller)
	g.addParty(header, "CessionarioCommittente", inv.Buyer)

	body := root.CreateElement("FatturaElettronicaBody")

	general := body.CreateElement("DatiGenerali")
	docData := general.CreateElement("DatiGeneraliDocumento")
	tipo := "TD01"
	if documentTypeCode(inv) == model.DocTypeCreditNote {
		tipo = "TD04"
	}
	text(docData, "TipoDocumento", tipo)
	text(docData, "Divisa", inv.Currency)
	text(docData, "Data", issueDate)
	text(docData, "Numero", inv.InvoiceNumber)
	if inv.Notes != "" {
		text(docData, "Causale", inv.Notes)
	}

	goods := body.CreateElement("DatiBeniServizi")
	for i, item := range inv.LineItems {
		line := goods.CreateElement("DettaglioLinee")
		text(line, "NumeroLinea", lineID(i))
		text(line, "Descrizione", item.Description)
		text(line, "Quantita", Quantity(item.Quantity))
		text(line, "PrezzoUnitario", Amount(item.UnitPrice))
		text(line, "PrezzoTotale", Amount(item.TotalPrice))
		text(line, "AliquotaIVA", Rate(item.TaxRate))
	}
	for _, group := range rules.GroupByTaxRate(inv.LineItems) {
		summary := goods.CreateElement("DatiRiepilogo")
		text(summary, "AliquotaIVA", Rate(group.Rate))
		text(summary, "ImponibileImporto", Amount(group.TaxableAmount))
		text(summary, "Imposta", Amount(group.TaxAmount))
	}

	payment := body.CreateElement("DatiPagamento")
	text(payment, "CondizioniPagamento", "TP02")
	detail := payment.CreateElement("DettaglioPagamento")
	text(detail, "ModalitaPagamento", "MP05") // bank transfer
	text(detail, "ImportoPagamento", Amount(totals.TotalAmount))
	if dueDate != "" {
		text(detail, "DataScadenzaPagamento", dueDate)
	}
	if inv.Payment.IBAN != "" {
		text(detail, "IBAN", inv.Payment.IBAN)
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}

func (g *fatturaPAGenerator) addParty(header *etree.Element, name string, party model.Party) {
	wrapper := header.CreateElement(name)

	registry := wrapper.CreateElement("DatiAnagrafici")
	if party.VATID != "" {
		fiscal := registry.CreateElement("IdFiscaleIVA")
		country, code := splitVATID(party.VATID, party.Country)
		text(fiscal, "IdPaese", country)
		text(fiscal, "IdCodice", code)
	} else if party.TaxID != "" {
		text(registry, "CodiceFiscale", party.TaxID)
	}
	anagraphic := registry.CreateElement("Anagrafica")
	text(anagraphic, "Denominazione", party.Name)
	if name == "CedentePrestatore" {
		text(registry, "RegimeFiscale", "RF01")
	}

	seat := wrapper.CreateElement("Sede")
	text(seat, "Indirizzo", party.Street)
	text(seat, "CAP", party.PostalCode)
	text(seat, "Comune", party.City)
	nation := party.Country
	if nation == "" {
		nation = "IT"
	}
	text(seat, "Nazione", nation)
}
