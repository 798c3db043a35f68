// Package core provides money parsing and formatting utilities.
//
// Amounts are whole won. There is no minor unit.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseWon converts a form value to a whole-won amount.
//
// It tolerates thousands separators and a trailing 원, so "500,000원",
// "500000" and " 1,000,000 " are all accepted. Negative values, decimals and
// anything non-numeric are rejected with ErrInvalidAmount.
//
// Examples:
//
//	ParseWon("500000")    -> 500000, nil
//	ParseWon("500,000원") -> 500000, nil
//	ParseWon("0")         -> 0, nil
//	ParseWon("-1")        -> 0, ErrInvalidAmount
func ParseWon(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "원")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// FormatWon renders an amount with thousands separators, e.g. "1,500,000원".
func FormatWon(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString("원")
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
