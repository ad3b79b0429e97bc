package ingest

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// moneyRe matches the first US-style dollar figure in free text, e.g.
// "$25,533" or "$1,234,567.89". Cents are optional.
var moneyRe = regexp.MustCompile(`\$([\d,]+(?:\.\d{2})?)`)

// parseMoney extracts the first dollar amount from text, or nil when no
// amount is present or the match does not parse as a number.
func parseMoney(text string) *decimal.Decimal {
	m := moneyRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	raw := strings.ReplaceAll(m[1], ",", "")
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}

var timeAttrLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimeAttr parses the datetime attribute of a <time> element. News
// sites emit a few variants; anything unrecognized is dropped rather
// than guessed at.
func parseTimeAttr(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range timeAttrLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

// sameHost reports whether two already-lowercased hostnames refer to the
// same site, treating a leading "www." as insignificant.
func sameHost(a, b string) bool {
	return strings.TrimPrefix(a, "www.") == strings.TrimPrefix(b, "www.")
}
