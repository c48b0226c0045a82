package generator_test

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/einvoice-engine/internal/format"
	"github.com/rezonia/einvoice-engine/internal/generator"
	"github.com/rezonia/einvoice-engine/internal/model"
)

func fixture(f format.Format) *model.CanonicalInvoice {
	return &model.CanonicalInvoice{
		OutputFormat:     string(f),
		InvoiceNumber:    "RE-2024-010",
		InvoiceDate:      "2024-01-30",
		DocumentTypeCode: model.DocTypeInvoice,
		Currency:         "EUR",
		BuyerReference:   "04011000-12345-67",
		Notes:            "Lieferung & Montage",
		Seller: model.Party{
			Name: "Muster GmbH", Street: "Musterstr. 1", City: "Berlin",
			PostalCode: "10115", Country: "DE", VATID: "DE123456789",
			TaxID: "1234563218", ContactName: "A. Muster",
			ContactPhone: "+49 30 1234567", ContactEmail: "rechnung@muster.example",
			ElectronicAddress: "rechnung@muster.example", ElectronicAddressScheme: "EM",
		},
		Buyer: model.Party{
			Name: "Beispiel AG", Street: "Beispielweg 2", City: "Hamburg",
			PostalCode: "20095", Country: "DE", VATID: "DE987654321",
			ElectronicAddress: "ap@beispiel.example", ElectronicAddressScheme: "EM",
		},
		Payment: model.Payment{
			IBAN: "DE89370400440532013000", BIC: "COBADEFFXXX",
			BankName: "Commerzbank", Terms: "30 Tage netto", DueDate: "2024-02-29",
		},
		LineItems: []model.LineItem{
			{Description: "Beratung", Quantity: 10, UnitPrice: 20, TotalPrice: 200, TaxRate: 19},
			{Description: "Fachbuch", Quantity: 2, UnitPrice: 50, TotalPrice: 100, TaxRate: 7},
		},
		Totals: model.Totals{Subtotal: 300, TaxAmount: 45, TotalAmount: 345},
	}
}

func TestGenerate_AllFormatsDeterministic(t *testing.T) {
	for _, info := range format.All() {
		t.Run(string(info.Format), func(t *testing.T) {
			g := generator.ForFormat(info.Format)

			first, err := g.Generate(fixture(info.Format))
			require.NoError(t, err)
			second, err := g.Generate(fixture(info.Format))
			require.NoError(t, err)

			require.NotEmpty(t, first.XMLContent)
			assert.True(t, bytes.Equal(first.XMLContent, second.XMLContent),
				"XML output must be byte-identical across runs")
			assert.True(t, bytes.Equal(first.PDFContent, second.PDFContent),
				"PDF output must be byte-identical across runs")
			assert.Equal(t, model.StatusValid, first.ValidationStatus,
				"violations: %v", first.ValidationErrors)
		})
	}
}

func TestGenerate_FacturXPDFTimestampsPinnedToInvoiceDate(t *testing.T) {
	for _, f := range []format.Format{format.FacturXEN16931, format.FacturXBasic} {
		result, err := generator.ForFormat(f).Generate(fixture(f))
		require.NoError(t, err)

		// Every PDF date in the output, including the ones pdfcpu stamps
		// at write time, must come from the invoice date, not the clock.
		pdf := string(result.PDFContent)
		assert.Contains(t, pdf, "D:20240130000000+00'00'", f)
		for _, m := range regexp.MustCompile(`D:\d{14}[+-]\d{2}'\d{2}'`).FindAllString(pdf, -1) {
			assert.Equal(t, "D:20240130000000+00'00'", m, f)
		}
	}
}

func TestGenerate_FileNaming(t *testing.T) {
	for _, info := range format.All() {
		result, err := generator.ForFormat(info.Format).Generate(fixture(info.Format))
		require.NoError(t, err)
		assert.Equal(t, "RE-2024-010"+info.Extension, result.FileName)
		assert.Greater(t, result.FileSize, 0)
	}
}

func TestGenerate_FacturXCarriesPDF(t *testing.T) {
	for _, f := range []format.Format{format.FacturXEN16931, format.FacturXBasic} {
		result, err := generator.ForFormat(f).Generate(fixture(f))
		require.NoError(t, err)

		require.NotEmpty(t, result.PDFContent, f)
		assert.True(t, bytes.HasPrefix(result.PDFContent, []byte("%PDF")), f)
		assert.NotEmpty(t, result.XMLContent, f)
		assert.Equal(t, len(result.PDFContent), result.FileSize, f)
	}
}

func TestGenerate_NonPDFFormatsCarryNoPDF(t *testing.T) {
	result, err := generator.ForFormat(format.XRechnungUBL).Generate(fixture(format.XRechnungUBL))
	require.NoError(t, err)
	assert.Empty(t, result.PDFContent)
	assert.Equal(t, len(result.XMLContent), result.FileSize)
}

func TestGenerate_UBLStructure(t *testing.T) {
	result, err := generator.ForFormat(format.PeppolBIS).Generate(fixture(format.PeppolBIS))
	require.NoError(t, err)

	xml := string(result.XMLContent)
	assert.Contains(t, xml, `urn:fdc:peppol.eu:2017:poacc:billing:3.0`)
	assert.Contains(t, xml, "<cbc:ID>RE-2024-010</cbc:ID>")
	assert.Contains(t, xml, "<cbc:IssueDate>2024-01-30</cbc:IssueDate>")
	assert.Contains(t, xml, `<cbc:EndpointID schemeID="EM">`)
	assert.Contains(t, xml, "<cbc:PayableAmount")
	assert.Contains(t, xml, ">345.00</")
	// two tax subtotals, one per rate
	assert.Equal(t, 2, strings.Count(xml, "<cac:TaxSubtotal>"))
}

func TestGenerate_XRechnungUBLCustomization(t *testing.T) {
	result, err := generator.ForFormat(format.XRechnungUBL).Generate(fixture(format.XRechnungUBL))
	require.NoError(t, err)
	assert.Contains(t, string(result.XMLContent), "urn:xeinkauf.de:kosit:xrechnung_3.0")
}

func TestGenerate_CIIStructure(t *testing.T) {
	result, err := generator.ForFormat(format.XRechnungCII).Generate(fixture(format.XRechnungCII))
	require.NoError(t, err)

	xml := string(result.XMLContent)
	assert.Contains(t, xml, "rsm:CrossIndustryInvoice")
	assert.Contains(t, xml, `<udt:DateTimeString format="102">20240130</udt:DateTimeString>`)
	assert.Contains(t, xml, "<ram:GrandTotalAmount>345.00</ram:GrandTotalAmount>")
	assert.Contains(t, xml, "<ram:IBANID>DE89370400440532013000</ram:IBANID>")
}

func TestGenerate_FacturXGuidelinesDiffer(t *testing.T) {
	en, err := generator.ForFormat(format.FacturXEN16931).Generate(fixture(format.FacturXEN16931))
	require.NoError(t, err)
	basic, err := generator.ForFormat(format.FacturXBasic).Generate(fixture(format.FacturXBasic))
	require.NoError(t, err)

	assert.Contains(t, string(en.XMLContent), "<ram:ID>urn:cen.eu:en16931:2017</ram:ID>")
	assert.Contains(t, string(basic.XMLContent), "urn:factur-x.eu:1p0:basic")
}

func TestGenerate_FatturaPAStructure(t *testing.T) {
	inv := fixture(format.FatturaPA)
	inv.Seller.VATID = "IT01234567890"
	inv.Buyer.ElectronicAddress = "ABC1234"

	result, err := generator.ForFormat(format.FatturaPA).Generate(inv)
	require.NoError(t, err)

	xml := string(result.XMLContent)
	assert.Contains(t, xml, "<CodiceDestinatario>ABC1234</CodiceDestinatario>")
	assert.Contains(t, xml, "<IdPaese>IT</IdPaese>")
	assert.Contains(t, xml, "<IdCodice>01234567890</IdCodice>")
	assert.Contains(t, xml, "<TipoDocumento>TD01</TipoDocumento>")
	assert.Equal(t, 2, strings.Count(xml, "<DatiRiepilogo>"))
}

func TestGenerate_FatturaPAPECRouting(t *testing.T) {
	inv := fixture(format.FatturaPA)
	inv.Seller.VATID = "IT01234567890"
	inv.Buyer.ElectronicAddress = "fatture@pec.example.it"

	result, err := generator.ForFormat(format.FatturaPA).Generate(inv)
	require.NoError(t, err)

	xml := string(result.XMLContent)
	assert.Contains(t, xml, "<CodiceDestinatario>0000000</CodiceDestinatario>")
	assert.Contains(t, xml, "<PECDestinatario>fatture@pec.example.it</PECDestinatario>")
}

func TestGenerate_KSeFStructure(t *testing.T) {
	inv := fixture(format.KSeF)
	inv.Seller.TaxID = "1234563218"
	inv.Buyer.TaxID = "5270103391"
	inv.Buyer.Country = "PL"
	inv.Currency = "PLN"

	result, err := generator.ForFormat(format.KSeF).Generate(inv)
	require.NoError(t, err)

	xml := string(result.XMLContent)
	assert.Contains(t, xml, "<NIP>1234563218</NIP>")
	assert.Contains(t, xml, "<KodWaluty>PLN</KodWaluty>")
	assert.Contains(t, xml, "<RodzajFaktury>VAT</RodzajFaktury>")
	assert.Contains(t, xml, "<P_15>345.00</P_15>")
}

func TestGenerate_EmitsRecomputedTotalsOnMismatch(t *testing.T) {
	inv := fixture(format.XRechnungUBL)
	inv.Totals.Subtotal = 350 // mis-set upstream

	result, err := generator.ForFormat(format.XRechnungUBL).Generate(inv)
	require.NoError(t, err)

	// Generation proceeds, the verdict carries the violation, and the
	// document shows the recomputed canonical totals.
	assert.Equal(t, model.StatusInvalid, result.ValidationStatus)
	require.Len(t, result.ValidationErrors, 1)
	assert.Equal(t, "BR-CO-10", result.ValidationErrors[0].RuleID)

	xml := string(result.XMLContent)
	assert.Contains(t, xml, ">300.00</")
	assert.NotContains(t, xml, ">350.00</")
}

func TestGenerate_AmbiguousDateAborts(t *testing.T) {
	inv := fixture(format.XRechnungUBL)
	inv.InvoiceDate = "01/02/2024"

	_, err := generator.ForFormat(format.XRechnungUBL).Generate(inv)
	require.Error(t, err)

	var dateErr *model.DateError
	require.ErrorAs(t, err, &dateErr)
}

func TestGenerate_EscapesMarkup(t *testing.T) {
	inv := fixture(format.XRechnungUBL)
	inv.LineItems[0].Description = `Kabel <5m> & "Stecker"`

	result, err := generator.ForFormat(format.XRechnungUBL).Generate(inv)
	require.NoError(t, err)

	xml := string(result.XMLContent)
	assert.Contains(t, xml, "&lt;5m&gt;")
	assert.Contains(t, xml, "&amp;")
	assert.NotContains(t, xml, "<5m>")
}

func TestForFormat_UnknownPanics(t *testing.T) {
	assert.Panics(t, func() {
		generator.ForFormat(format.Format("ebinterface"))
	})
}

func TestLookup(t *testing.T) {
	g, err := generator.Lookup("ksef")
	require.NoError(t, err)
	assert.Equal(t, format.KSeF, g.Format())

	_, err = generator.Lookup("ebinterface")
	require.Error(t, err)

	var cfgErr *model.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}
