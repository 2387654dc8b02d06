package dataset

import (
	"regexp"
	"strings"
	"time"
)

// Portal exports use these strings where a date should be. They mean
// "no value", not a parse failure.
var invalidDateMarkers = []string{
	"indisponível",
	"não encontrado",
	"inválido",
	"null",
	"none",
	"n/a",
	"na",
}

var (
	brDatePattern  = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})(?:\s+\d{2}:\d{2}:\d{2})?$`)
	isoDatePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})(?:T\d{2}:\d{2}:\d{2})?`)
)

var fallbackDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006",
	"02/01/2006 15:04:05",
	"02-01-2006",
	"2006/01/02",
}

// NormalizeDate reduces a portal date string to the ISO 8601 calendar date
// (YYYY-MM-DD) expected by xsd:date. It accepts Brazilian DD/MM/YYYY,
// ISO dates, and both with a trailing time. The second return is false
// when the input is empty, a known placeholder, or not a real date.
func NormalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	lower := strings.ToLower(s)
	for _, marker := range invalidDateMarkers {
		if strings.Contains(lower, marker) {
			return "", false
		}
	}

	if m := brDatePattern.FindStringSubmatch(s); m != nil {
		day, month, year := m[1], m[2], m[3]
		iso := year + "-" + month + "-" + day
		if _, err := time.Parse("2006-01-02", iso); err != nil {
			return "", false
		}
		return iso, true
	}

	if m := isoDatePattern.FindStringSubmatch(s); m != nil {
		iso := m[1] + "-" + m[2] + "-" + m[3]
		if _, err := time.Parse("2006-01-02", iso); err != nil {
			return "", false
		}
		return iso, true
	}

	for _, layout := range fallbackDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// IsValidDate reports whether NormalizeDate would accept s.
func IsValidDate(s string) bool {
	_, ok := NormalizeDate(s)
	return ok
}
