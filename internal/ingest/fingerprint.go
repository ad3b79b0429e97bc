package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Fingerprint derives the stable identity of a jackpot event from its
// normalized fields. Two records that differ only in casing, surrounding
// whitespace, or numeric representation ("1500" vs "1500.00") produce the
// same digest. Missing fields normalize to the empty string, so the
// function never fails on partial records.
func Fingerprint(sourceURL string, postedDate *time.Time, amount *decimal.Decimal, winnerName, game string) string {
	key := strings.Join([]string{
		normText(sourceURL),
		normDate(postedDate),
		normAmount(amount),
		normText(winnerName),
		normText(game),
	}, "|")
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

func normText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// normAmount renders a decimal without trailing fractional zeros so that
// equal monetary values always serialize identically.
func normAmount(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	s := d.String()
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	return s
}
