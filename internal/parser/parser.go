package parser

import (
	"fjacquet/statement-import/internal/models"
)

// Detector decides from text alone whether a bank produced the content.
// Implementations must be pure: no I/O and no state.
type Detector interface {
	Bank() models.BankName
	CanParse(content string) bool
}

// StatementParser turns decoded statement text into transactions.
//
// Parse returns every record it could recover; malformed rows are skipped
// and logged, never fatal. When the document matched the detector but not a
// single record was recognized, Parse returns a *parsererror.NoTransactionsError.
type StatementParser interface {
	Detector
	FileType() models.FileType
	Parse(content string) ([]models.ParsedTransaction, error)
}

// RequisitesParser extracts account identity from a requisites PDF. Parse
// returns nil when the mandatory card digits are missing.
type RequisitesParser interface {
	Detector
	Parse(content string) *models.AccountRequisites
}
