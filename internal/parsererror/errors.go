// Package parsererror holds the typed errors raised while detecting, parsing
// and categorizing statements.
package parsererror

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks across package boundaries.
var (
	ErrUnsupportedFormat   = errors.New("unsupported statement format")
	ErrNoTransactions      = errors.New("no transactions recognized")
	ErrProviderUnavailable = errors.New("no AI provider available")
	ErrProviderCallFailed  = errors.New("AI provider call failed")
)

// UnsupportedFormatError means no detector claimed the file. It is the only
// parse-phase failure surfaced to callers.
type UnsupportedFormatError struct {
	FileType string
	Snippet  string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("unsupported %s statement format (content starts with '%s')", e.FileType, e.Snippet)
	}
	return fmt.Sprintf("unsupported %s statement format", e.FileType)
}

func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// ParseError describes a single malformed record. Parsers log and skip these.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NoTransactionsError is returned when a bank was detected but none of its
// recognizers produced a single record. It keeps "nothing matched" apart
// from a statement that legitimately lists zero operations.
type NoTransactionsError struct {
	Bank     string
	FileType string
	Lines    int
}

func (e *NoTransactionsError) Error() string {
	return fmt.Sprintf("%s %s statement: no transactions recognized in %d lines", e.Bank, e.FileType, e.Lines)
}

func (e *NoTransactionsError) Is(target error) bool {
	return target == ErrNoTransactions
}

// ProviderError wraps a failed AI call. Kind is ErrProviderUnavailable or
// ErrProviderCallFailed.
type ProviderError struct {
	Provider string
	Kind     error
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Provider, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Is(target error) bool {
	return target == e.Kind
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// InvalidFormatError is an upstream file-validation failure: unreadable,
// empty, or of a kind the importer does not accept at all.
type InvalidFormatError struct {
	FilePath       string
	ExpectedFormat string
	Msg            string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

// Snippet returns at most n runes of content with line breaks flattened, for
// error messages.
func Snippet(content string, n int) string {
	r := []rune(content)
	if len(r) > n {
		r = r[:n]
	}
	out := make([]rune, 0, len(r))
	for _, c := range r {
		if c == '\n' || c == '\r' || c == '\t' {
			c = ' '
		}
		out = append(out, c)
	}
	return string(out)
}
