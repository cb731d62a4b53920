// Package core provides amount parsing and formatting utilities.
//
// Amounts are plain float64 values; the tracker has no notion of currency
// beyond the dollar sign used for display.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount converts a decimal string to a float64 amount.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted. The
// sign is kept: positivity is a validation rule of the ledger, not a parse
// error, so "-10" parses and is rejected later with ErrInvalidAmount.
//
// Examples:
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("-5")    -> -5, nil
//	ParseAmount("abc")   -> 0, error
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}

// FormatAmount renders an amount for display, e.g. "$20.00".
func FormatAmount(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatCSVAmount renders an amount in its shortest exact decimal form.
func FormatCSVAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
