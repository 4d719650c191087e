// Package core holds the domain types shared by the contact book and the finance ledger.
//
// This file contains amount parsing and display helpers. Amounts are kept as
// decimal.Decimal end to end so that rollups never accumulate float error.
package core

import (
	"math/big"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// ParseAmount converts user input such as "12.34" or "12,34" into a positive decimal.
//
// Signs, exponents, thousands separators and zero are rejected with ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("3000")   -> 3000, nil
//	ParseAmount("12,50")  -> 12.5, nil
//	ParseAmount("-1")     -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return decimal.Zero, ErrInvalidAmount
	}
	for _, p := range parts {
		for _, r := range p {
			if !unicode.IsDigit(r) {
				return decimal.Zero, ErrInvalidAmount
			}
		}
	}
	if parts[0] == "" {
		s = "0" + s
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders an amount with the currency symbol and thousands grouping,
// e.g. "₹2,950.00".
func FormatAmount(amount decimal.Decimal, c Currency) string {
	amount = amount.Round(2)
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	whole, frac, _ := strings.Cut(amount.StringFixed(2), ".")
	n, _ := new(big.Int).SetString(whole, 10)
	return sign + c.Symbol() + humanize.BigComma(n) + "." + frac
}
