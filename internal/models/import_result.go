package models

import (
	"fjacquet/statement-import/internal/logging"
)

// CategorizationBreakdown counts where each imported row's category came from.
type CategorizationBreakdown struct {
	ByKeyword int `json:"by_keyword"`
	ByAI      int `json:"by_ai"`
	ByDefault int `json:"by_default"`
}

// Total is the number of categorized rows.
func (b CategorizationBreakdown) Total() int {
	return b.ByKeyword + b.ByAI + b.ByDefault
}

// ImportResult is returned once per import call and is never persisted.
type ImportResult struct {
	Imported  int                      `json:"imported"`
	Skipped   int                      `json:"skipped"`
	Bank      BankName                 `json:"bank"`
	Breakdown *CategorizationBreakdown `json:"breakdown,omitempty"`
}

// LogSummary writes the import counters at info level.
func (r ImportResult) LogSummary(logger logging.Logger) {
	if logger == nil {
		return
	}
	fields := []logging.Field{
		{Key: logging.FieldBank, Value: string(r.Bank)},
		{Key: logging.FieldImported, Value: r.Imported},
		{Key: logging.FieldSkipped, Value: r.Skipped},
	}
	if r.Breakdown != nil {
		fields = append(fields,
			logging.Field{Key: "by_keyword", Value: r.Breakdown.ByKeyword},
			logging.Field{Key: "by_ai", Value: r.Breakdown.ByAI},
			logging.Field{Key: "by_default", Value: r.Breakdown.ByDefault},
		)
	}
	logger.Info("Import summary", fields...)
}

// DetectResult is the answer of the detect-only entry point.
type DetectResult struct {
	Bank           BankName           `json:"bank"`
	FileType       FileType           `json:"file_type"`
	Requisites     *AccountRequisites `json:"requisites,omitempty"`
	AccountNumber  string             `json:"account_number,omitempty"`
	MatchedAccount *Account           `json:"matched_account,omitempty"`
}
