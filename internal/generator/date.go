package generator

import (
	"strings"
	"time"

	"github.com/rezonia/einvoice-engine/internal/model"
)

// Accepted date layouts. Slash-delimited dates like 01/02/2024 are
// ambiguous between day-first and month-first reading and are rejected:
// misinterpreting day/month order on a legal document is worse than
// refusing to generate one.
var dateLayouts = []string{
	"2006-01-02", // ISO
	"02.01.2006", // German
	"20060102",   // CII format 102
}

// NormalizeDate parses a date in any accepted layout and returns it in ISO
// YYYY-MM-DD form. Empty input stays empty; the structural rules report
// missing dates, the generator must not fail on them.
func NormalizeDate(s string) (string, error) {
	t, err := parseDate(s)
	if err != nil {
		return "", err
	}
	if t.IsZero() {
		return "", nil
	}
	return t.Format("2006-01-02"), nil
}

// CIIDate returns the date in UN/CEFACT format 102 (YYYYMMDD). Compact
// input passes through unchanged.
func CIIDate(s string) (string, error) {
	t, err := parseDate(s)
	if err != nil {
		return "", err
	}
	if t.IsZero() {
		return "", nil
	}
	return t.Format("20060102"), nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if strings.Contains(s, "/") {
		return time.Time{}, model.NewDateError(s, "slash-delimited dates are ambiguous and are not guessed", nil)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, model.NewDateError(s, "unrecognized date layout", nil)
}
