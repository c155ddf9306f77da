// Package textutils holds the text helpers shared by the statement parsers.
package textutils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var whitespaceRe = regexp.MustCompile(`[\s\x{00A0}\x{202F}\x{2009}]+`)

// NormalizeSpaces collapses all whitespace runs, NBSP included, into one
// ASCII space and trims the result.
func NormalizeSpaces(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// SplitLines splits extracted text into trimmed, non-empty lines.
func SplitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = NormalizeSpaces(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// HasLower reports whether s contains at least one lower-case letter.
func HasLower(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}

// CapitalizeWords lower-cases s and upper-cases the first letter of every
// word. Words start at the beginning of the string and after a space or a
// hyphen; "TIMEWEB.CLOUD" becomes "Timeweb.cloud".
func CapitalizeWords(s string) string {
	runes := []rune(strings.ToLower(s))
	start := true
	for i, r := range runes {
		if start && unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
		}
		start = r == ' ' || r == '-'
	}
	return string(runes)
}

// RecaseShouting applies CapitalizeWords only when s has no lower-case
// letters, leaving mixed-case merchant names alone.
func RecaseShouting(s string) string {
	if s == "" || HasLower(s) {
		return s
	}
	return CapitalizeWords(s)
}

// TitleName re-cases an owner name such as "ИВАНОВ ИВАН ИВАНОВИЧ" into
// "Иванов Иван Иванович". Mixed-case input is returned unchanged.
func TitleName(s string) string {
	s = NormalizeSpaces(s)
	if HasLower(s) {
		return s
	}
	// Casers are stateful, so one per call.
	return cases.Title(language.Russian).String(strings.ToLower(s))
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}

// ContainsAny reports whether the lower-cased haystack contains any of the
// needles, compared case-insensitively.
func ContainsAny(haystack string, needles ...string) bool {
	lower := strings.ToLower(haystack)
	for _, n := range needles {
		if n != "" && strings.Contains(lower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

// CountContains returns how many needles occur in haystack.
func CountContains(haystack string, needles ...string) int {
	lower := strings.ToLower(haystack)
	count := 0
	for _, n := range needles {
		if n != "" && strings.Contains(lower, strings.ToLower(n)) {
			count++
		}
	}
	return count
}

// FirstMatch runs patterns in order and returns the first non-empty first
// capture group, trimmed. Each pattern targets one observed layout variant.
func FirstMatch(text string, patterns ...*regexp.Regexp) string {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if len(m) > 1 {
			if v := NormalizeSpaces(m[1]); v != "" {
				return v
			}
		}
	}
	return ""
}

// DigitsOnly strips everything but ASCII digits.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
