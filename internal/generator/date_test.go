package generator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/einvoice-engine/internal/generator"
	"github.com/rezonia/einvoice-engine/internal/model"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"iso passes through", "2024-01-30", "2024-01-30"},
		{"german layout", "30.01.2024", "2024-01-30"},
		{"compact layout", "20240130", "2024-01-30"},
		{"empty stays empty", "", ""},
		{"surrounding whitespace", " 2024-01-30 ", "2024-01-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := generator.NormalizeDate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalizeDate_AmbiguousSlashRejected(t *testing.T) {
	_, err := generator.NormalizeDate("01/02/2024")
	require.Error(t, err)

	var dateErr *model.DateError
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, "01/02/2024", dateErr.Value)
}

func TestNormalizeDate_GarbageRejected(t *testing.T) {
	_, err := generator.NormalizeDate("Jan 30, 2024")
	require.Error(t, err)
}

func TestCIIDate(t *testing.T) {
	got, err := generator.CIIDate("20240130")
	require.NoError(t, err)
	assert.Equal(t, "20240130", got, "compact input passes through unchanged")

	got, err = generator.CIIDate("30.01.2024")
	require.NoError(t, err)
	assert.Equal(t, "20240130", got)

	got, err = generator.CIIDate("2024-01-30")
	require.NoError(t, err)
	assert.Equal(t, "20240130", got)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "a\tb\nc", generator.Sanitize("a\tb\nc"))
	assert.Equal(t, "ab", generator.Sanitize("a\x00\x08b"))
	assert.Equal(t, "Müller & Söhne", generator.Sanitize("Müller & Söhne"))
}

func TestAmountFormatting(t *testing.T) {
	assert.Equal(t, "345.00", generator.Amount(345))
	assert.Equal(t, "0.10", generator.Amount(0.1))
	assert.Equal(t, "-119.00", generator.Amount(-119))
}

func TestQuantityFormatting(t *testing.T) {
	assert.Equal(t, "10", generator.Quantity(10))
	assert.Equal(t, "2.5", generator.Quantity(2.5))
	assert.Equal(t, "0.125", generator.Quantity(0.125))
}
