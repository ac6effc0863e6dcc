package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount reads a money-like value tolerantly. Everything except digits,
// '.' and '-' is dropped ("$1,200.50" -> 1200.50). Unparseable input is zero.
func ParseAmount(s string) decimal.Decimal {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}
