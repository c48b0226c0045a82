package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/einvoice-engine/internal/model"
	"github.com/rezonia/einvoice-engine/internal/server"
)

func newTestServer() *server.Server {
	config := &server.Config{
		Address: ":8080",
		Debug:   true,
	}
	return server.NewServer(config, nil)
}

func testInvoice() *model.CanonicalInvoice {
	return &model.CanonicalInvoice{
		OutputFormat:     "xrechnung-ubl",
		InvoiceNumber:    "RE-2024-0815",
		InvoiceDate:      "2024-06-15",
		DocumentTypeCode: model.DocTypeInvoice,
		Currency:         "EUR",
		BuyerReference:   "04011000-12345-67",
		Seller: model.Party{
			Name:                    "Muster GmbH",
			Street:                  "Musterstr. 1",
			City:                    "Berlin",
			PostalCode:              "10115",
			Country:                 "DE",
			VATID:                   "DE123456789",
			ContactName:             "Erika Muster",
			ContactPhone:            "+49 30 1234567",
			ContactEmail:            "rechnung@muster.example",
			ElectronicAddress:       "rechnung@muster.example",
			ElectronicAddressScheme: model.SchemeEmail,
		},
		Buyer: model.Party{
			Name:                    "Beispiel AG",
			Street:                  "Beispielweg 2",
			City:                    "Hamburg",
			PostalCode:              "20095",
			Country:                 "DE",
			VATID:                   "DE987654321",
			ElectronicAddress:       "ap@beispiel.example",
			ElectronicAddressScheme: model.SchemeEmail,
		},
		Payment: model.Payment{
			IBAN:  "DE89370400440532013000",
			BIC:   "COBADEFFXXX",
			Terms: "Zahlbar innerhalb von 30 Tagen",
		},
		LineItems: []model.LineItem{
			{Description: "Beratung", Quantity: 10, UnitPrice: 30, TotalPrice: 300, TaxRate: 19},
		},
		Totals: model.Totals{Subtotal: 300, TaxAmount: 57, TotalAmount: 357},
	}
}

func postJSON(t *testing.T, srv *server.Server, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "ok", response["status"])
	assert.NotEmpty(t, response["time"])
}

func TestFormatsEndpoint(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/formats", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response server.FormatsResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	require.Len(t, response.Formats, 9)

	names := make([]string, 0, len(response.Formats))
	for _, f := range response.Formats {
		names = append(names, f.Format)
	}
	assert.Contains(t, names, "xrechnung-cii")
	assert.Contains(t, names, "facturx-en16931")
	assert.Contains(t, names, "ksef")
}

func TestGenerateEndpoint(t *testing.T) {
	srv := newTestServer()

	w := postJSON(t, srv, "/api/v1/generate", testInvoice())

	assert.Equal(t, http.StatusOK, w.Code)

	var response server.GenerateResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, model.StatusValid, response.ValidationStatus)
	assert.Equal(t, "RE-2024-0815.xml", response.FileName)
	assert.Contains(t, string(response.XMLContent), "<Invoice")
	assert.Empty(t, response.PDFContent)
}

func TestGenerateEndpoint_InvalidInvoiceStillGenerates(t *testing.T) {
	srv := newTestServer()

	inv := testInvoice()
	inv.BuyerReference = ""

	w := postJSON(t, srv, "/api/v1/generate", inv)

	assert.Equal(t, http.StatusOK, w.Code)

	var response server.GenerateResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, model.StatusInvalid, response.ValidationStatus)
	assert.NotEmpty(t, response.XMLContent)
	assert.NotEmpty(t, response.ValidationErrors)
}

func TestGenerateEndpoint_UnknownFormat(t *testing.T) {
	srv := newTestServer()

	inv := testInvoice()
	inv.OutputFormat = "edifact"

	w := postJSON(t, srv, "/api/v1/generate", inv)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateEndpoint_EmptyBody(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateFileEndpoint_XML(t *testing.T) {
	srv := newTestServer()

	w := postJSON(t, srv, "/api/v1/generate/file", testInvoice())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "RE-2024-0815.xml")
	assert.Equal(t, model.StatusValid, w.Header().Get("X-Validation-Status"))
	assert.Contains(t, w.Body.String(), "<cbc:ID>RE-2024-0815</cbc:ID>")
}

func TestGenerateFileEndpoint_PDF(t *testing.T) {
	srv := newTestServer()

	inv := testInvoice()
	inv.OutputFormat = "facturx-en16931"

	w := postJSON(t, srv, "/api/v1/generate/file", inv)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "RE-2024-0815.pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestGenerateFileEndpoint_UnknownFormat(t *testing.T) {
	srv := newTestServer()

	inv := testInvoice()
	inv.OutputFormat = "edifact"

	w := postJSON(t, srv, "/api/v1/generate/file", inv)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response server.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Contains(t, response.Error, "edifact")
}

func TestValidateEndpoint(t *testing.T) {
	srv := newTestServer()

	w := postJSON(t, srv, "/api/v1/validate", testInvoice())

	assert.Equal(t, http.StatusOK, w.Code)

	var response server.ValidationResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.True(t, response.Valid)
	assert.Equal(t, "xrechnung-ubl", response.Profile)
}

func TestValidateEndpoint_ReportsViolations(t *testing.T) {
	srv := newTestServer()

	inv := testInvoice()
	inv.Payment.IBAN = ""

	w := postJSON(t, srv, "/api/v1/validate", inv)

	assert.Equal(t, http.StatusOK, w.Code)

	var response server.ValidationResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.False(t, response.Valid)

	ids := make([]string, 0, len(response.Errors))
	for _, v := range response.Errors {
		ids = append(ids, v.RuleID)
	}
	assert.Contains(t, ids, "BR-DE-23-a")
}

// Benchmark tests

func BenchmarkGenerate(b *testing.B) {
	srv := newTestServer()
	body, _ := json.Marshal(testInvoice())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
	}
}

func BenchmarkHealth(b *testing.B) {
	srv := newTestServer()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
	}
}
