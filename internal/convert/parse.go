package convert

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses free-text numeric input leniently: every character
// outside [0-9.] is stripped, the first decimal point is kept and later
// ones are dropped ("12.3.4" → 12.34). Malformed or empty input yields
// zero rather than an error, keeping input flows responsive.
func ParseAmount(s string) decimal.Decimal {
	var b strings.Builder
	seenDot := false

	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && !seenDot:
			seenDot = true
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if cleaned == "" || cleaned == "." {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}
