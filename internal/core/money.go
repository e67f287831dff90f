// Package core provides the ledger domain model and money handling.
//
// This file contains functions for parsing monetary amounts from strings
// and converting between cents and display representations.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParseDecimalToCents converts a decimal string to cents with half-up
// rounding on the third decimal place.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// The result is always positive cents; invalid formats, negative values
// and zero amounts return an error.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive values allowed
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracCents = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracCents += d2
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// ParseDisplayToCents parses an amount as stored by the persistence
// collaborator: currency symbol and thousands markers stripped, decimal
// comma converted to dot, then parsed as a decimal.
//
// Accepted shapes include "R$ 1.234,56", "1234.56", "1234,56" and "25".
func ParseDisplayToCents(s string) (int64, error) {
	cleaned := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsDigit(r) || r == '.' || r == ',' || r == '-' {
			cleaned = append(cleaned, r)
		}
	}
	v := string(cleaned)
	if v == "" {
		return 0, ErrInvalidAmount
	}
	if strings.Contains(v, ",") {
		// Comma is the decimal separator; dots are thousands markers.
		v = strings.ReplaceAll(v, ".", "")
		v = strings.ReplaceAll(v, ",", ".")
	}
	return ParseDecimalToCents(v)
}

// Decimal returns the canonical wire encoding with a dot separator and
// two decimal places (e.g. "25.00").
func (m Money) Decimal() string {
	return fmt.Sprintf("%d.%02d", m.Cents/100, m.Cents%100)
}

// Display formats cents as a currency string with a decimal comma
// (e.g. "R$ 12,34"), matching the ledger's textual amount encoding.
func (m Money) Display() string {
	return fmt.Sprintf("R$ %d,%02d", m.Cents/100, m.Cents%100)
}
