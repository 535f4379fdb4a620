// Package price turns the prices people type into decimals and back.
//
// Shop staff enter prices the way they read them on supplier invoices:
// "47.473,63", "47473,63", "47.473.63" or plain "47473.63". Normalize accepts
// all of them; a comma, when present, is always the decimal marker.
package price

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Normalize parses a human-entered price. It never fails: anything it cannot
// make sense of is zero.
func Normalize(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}

	s = strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' {
			return r
		}
		return -1
	}, s)

	if strings.Count(s, ".") > 1 {
		parts := strings.Split(s, ".")
		last := len(parts) - 1
		s = strings.Join(parts[:last], "") + "." + parts[last]
	}

	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
