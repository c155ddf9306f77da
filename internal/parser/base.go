// Package parser defines the detector and parser contracts, the shared
// BaseParser and the ordered registry the orchestrator dispatches through.
package parser

import (
	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/textutils"
)

// BaseParser carries the logger and the emit rules every bank parser shares.
// Bank parsers embed it:
//
//	type Parser struct {
//		parser.BaseParser
//	}
type BaseParser struct {
	logger logging.Logger
	name   string
}

// NewBaseParser returns a BaseParser that tags its log entries with name.
// A nil logger gets a default text logger.
func NewBaseParser(name string, logger logging.Logger) BaseParser {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return BaseParser{
		logger: logger.WithField(logging.FieldParser, name),
		name:   name,
	}
}

// SetLogger replaces the logger; nil is ignored.
func (b *BaseParser) SetLogger(logger logging.Logger) {
	if logger != nil {
		b.logger = logger.WithField(logging.FieldParser, b.name)
	}
}

// GetLogger returns the parser's logger.
func (b *BaseParser) GetLogger() logging.Logger {
	return b.logger
}

// Name identifies the parser in log entries and errors.
func (b *BaseParser) Name() string {
	return b.name
}

// Accept normalizes tx in place and reports whether it may be emitted.
// Zero or negative amounts and missing dates are dropped, not defaulted.
func (b *BaseParser) Accept(tx *models.ParsedTransaction) bool {
	tx.Description = textutils.Truncate(textutils.NormalizeSpaces(tx.Description), models.MaxDescriptionLength)
	tx.RawCategory = textutils.NormalizeSpaces(tx.RawCategory)
	if err := tx.Validate(); err != nil {
		b.logger.Debug("Dropping record",
			logging.Field{Key: logging.FieldReason, Value: err.Error()})
		return false
	}
	return true
}
