package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/einvoice-engine/internal/format"
	"github.com/rezonia/einvoice-engine/internal/model"
)

func TestParse_Known(t *testing.T) {
	f, err := format.Parse("xrechnung-cii")
	require.NoError(t, err)
	assert.Equal(t, format.XRechnungCII, f)
}

func TestParse_Unknown(t *testing.T) {
	_, err := format.Parse("edifact")
	require.Error(t, err)

	var cfgErr *model.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "format", cfgErr.Kind)
}

func TestMustInfo_PanicsOnUnknown(t *testing.T) {
	assert.Panics(t, func() {
		format.MustInfo(format.Format("bogus"))
	})
}

func TestAll_NineFormats(t *testing.T) {
	infos := format.All()
	require.Len(t, infos, 9)

	// deterministic order
	again := format.All()
	assert.Equal(t, infos, again)
}

func TestMimeAndExtensionPairs(t *testing.T) {
	pdfFormats := map[format.Format]bool{
		format.FacturXEN16931: true,
		format.FacturXBasic:   true,
	}

	for _, info := range format.All() {
		if pdfFormats[info.Format] {
			assert.Equal(t, "application/pdf", info.MimeType, info.Format)
			assert.Equal(t, ".pdf", info.Extension, info.Format)
			assert.Equal(t, format.SyntaxPDFCII, info.Syntax, info.Format)
		} else {
			assert.Equal(t, "application/xml", info.MimeType, info.Format)
			assert.Equal(t, ".xml", info.Extension, info.Format)
		}
	}
}
