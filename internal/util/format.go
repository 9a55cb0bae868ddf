// Package util provides shared formatting helpers for the dashboard and reports.
package util

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// USD formats a dollar amount rounded to whole dollars, e.g. "$21,451".
func USD(v float64) string {
	return printer.Sprintf("$%v", number.Decimal(math.Round(v), number.MaxFractionDigits(0)))
}

// Percent formats a 0-100 value with one decimal, e.g. "92.1%".
func Percent(v float64) string {
	return printer.Sprintf("%v%%", number.Decimal(v, number.MaxFractionDigits(1), number.MinFractionDigits(1)))
}

// Grams formats a mass in grams with thousands separators.
func Grams(v float64) string {
	return printer.Sprintf("%v g", number.Decimal(math.Round(v), number.MaxFractionDigits(0)))
}

// Decimal formats v with up to digits fraction digits and grouping.
func Decimal(v float64, digits int) string {
	return printer.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(digits)))
}

// Title capitalises each word, e.g. "high risk" -> "High Risk".
func Title(s string) string {
	return cases.Title(language.English).String(strings.ToLower(s))
}

// Truncate shortens s to at most n runes, ending with an ellipsis when cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
