// Package currencyutils parses and formats money amounts as they appear in
// Russian bank statements: grouping spaces, decimal comma, explicit sign.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Sign records whether the source text carried an explicit sign.
type Sign int

const (
	SignNone Sign = iota
	SignPlus
	SignMinus
)

// AmountPattern matches one amount token with optional sign, grouped
// thousands and two fractional digits, e.g. "+8 000,00" or "-1 234.56".
const AmountPattern = `[+\-−]?\d{1,3}(?:[ \x{00A0}\x{202F}\x{2009}]?\d{3})*[.,]\d{2}`

var (
	currencyRe = regexp.MustCompile(`(?i)(руб\.?|rur|rub|₽|€|\$|usd|eur)`)
	spaceRe    = regexp.MustCompile(`[\s\x{00A0}\x{202F}\x{2009}']+`)
)

// SplitSign strips a leading sign character and reports which one it was.
// The Unicode minus and en dash count as minus.
func SplitSign(s string) (Sign, string) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "+"):
		return SignPlus, strings.TrimSpace(s[1:])
	case strings.HasPrefix(s, "-"):
		return SignMinus, strings.TrimSpace(s[1:])
	case strings.HasPrefix(s, "−"), strings.HasPrefix(s, "–"):
		_, size := utf8.DecodeRuneInString(s)
		return SignMinus, strings.TrimSpace(s[size:])
	}
	return SignNone, s
}

// StandardizeAmount turns "8 000,00 ₽" into "8000.00". The sign, if any, is
// kept in ASCII form.
func StandardizeAmount(amountStr string) string {
	sign, rest := SplitSign(amountStr)
	rest = currencyRe.ReplaceAllString(rest, "")
	rest = spaceRe.ReplaceAllString(rest, "")

	lastComma := strings.LastIndex(rest, ",")
	lastDot := strings.LastIndex(rest, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		// The later separator is the decimal one.
		if lastComma > lastDot {
			rest = strings.ReplaceAll(rest, ".", "")
			rest = strings.ReplaceAll(rest, ",", ".")
		} else {
			rest = strings.ReplaceAll(rest, ",", "")
		}
	case lastComma >= 0:
		if len(rest)-lastComma-1 <= 2 {
			rest = strings.Replace(rest, ",", ".", 1)
		} else {
			rest = strings.ReplaceAll(rest, ",", "")
		}
	}

	if sign == SignMinus {
		return "-" + rest
	}
	return rest
}

// ParseAmount parses a signed amount. Empty input is an error: callers drop
// rows without an amount instead of defaulting to zero.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	if strings.TrimSpace(amountStr) == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	standardized := StandardizeAmount(amountStr)
	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// ParseMagnitude returns the absolute value of the amount together with the
// explicit sign found in the text.
func ParseMagnitude(amountStr string) (decimal.Decimal, Sign, error) {
	sign, _ := SplitSign(amountStr)
	amount, err := ParseAmount(amountStr)
	if err != nil {
		return decimal.Zero, SignNone, err
	}
	if sign == SignNone && amount.IsNegative() {
		sign = SignMinus
	}
	return amount.Abs(), sign, nil
}

// FormatAmount renders an amount with two decimals and the currency marker.
func FormatAmount(amount decimal.Decimal, currency string) string {
	formatted := amount.StringFixed(2)
	switch strings.ToUpper(currency) {
	case "":
		return formatted
	case "RUB", "RUR":
		return formatted + " ₽"
	case "EUR":
		return "€" + formatted
	case "USD":
		return "$" + formatted
	default:
		return currency + " " + formatted
	}
}
