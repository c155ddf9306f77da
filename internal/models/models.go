// Package models provides the data structures shared by parsers, the
// categorizer and the import orchestrator.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells whether money came in or went out.
type Direction string

const (
	DirectionIncome  Direction = "INCOME"
	DirectionExpense Direction = "EXPENSE"
)

// Valid reports whether d is one of the two known directions.
func (d Direction) Valid() bool {
	return d == DirectionIncome || d == DirectionExpense
}

// ParseDirection accepts the canonical names case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToUpper(strings.TrimSpace(s))) {
	case DirectionIncome:
		return DirectionIncome, nil
	case DirectionExpense:
		return DirectionExpense, nil
	}
	return "", fmt.Errorf("unknown direction %q", s)
}

// FileType is the container of an uploaded statement.
type FileType string

const (
	FileTypeCSV FileType = "csv"
	FileTypePDF FileType = "pdf"
)

// MaxDescriptionLength bounds ParsedTransaction.Description, in runes.
const MaxDescriptionLength = 255

// ParsedTransaction is what every parser emits. Amount is always a positive
// magnitude; the sign lives in Direction.
type ParsedTransaction struct {
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Direction   Direction       `json:"direction"`
	Description string          `json:"description"`
	RawCategory string          `json:"raw_category,omitempty"`
}

// Validate checks the invariants a parser must uphold before emitting.
func (t ParsedTransaction) Validate() error {
	if t.Date.IsZero() {
		return fmt.Errorf("transaction date is missing")
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("transaction amount must be positive, got %s", t.Amount.String())
	}
	if !t.Direction.Valid() {
		return fmt.Errorf("invalid direction %q", t.Direction)
	}
	return nil
}

// DateKey is the calendar-date form used for deduplication and storage.
func (t ParsedTransaction) DateKey() string {
	return t.Date.Format("2006-01-02")
}
