package parser

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a raw cell value like "1,234.56", "(500.00)" or a
// numeric cell rendered as text into a decimal amount.
//
// The statement exports are inconsistent about formatting, so this is
// deliberately forgiving: whitespace and thousands separators are stripped,
// a parenthesized value is negative, and anything that still does not parse
// is zero rather than an error. Zero amounts are suppressed downstream, so
// an unreadable cell simply contributes nothing.
func ParseAmount(val string) decimal.Decimal {
	s := val
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "\u00A0", "") // non-breaking space
	s = strings.Join(strings.Fields(s), "")

	if s == "" {
		return decimal.Zero
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	num, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	if negative {
		return num.Neg()
	}
	return num
}
