// Package factory builds the bank parsers and the default detection registry.
package factory

import (
	"fmt"

	"fjacquet/statement-import/internal/alfaparser"
	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/parser"
	"fjacquet/statement-import/internal/sberparser"
	"fjacquet/statement-import/internal/tinkoffparser"
	"fjacquet/statement-import/internal/vtbparser"
)

// ParserType names a statement parser for callers that bypass detection.
type ParserType string

const (
	SberbankPDF ParserType = "sberbank-pdf"
	TinkoffCSV  ParserType = "tinkoff-csv"
	TinkoffPDF  ParserType = "tinkoff-pdf"
	AlfaCSV     ParserType = "alfabank-csv"
	VTBCSV      ParserType = "vtb-csv"
)

// ParserTypes lists every type GetParserWithLogger accepts.
var ParserTypes = []ParserType{SberbankPDF, TinkoffCSV, TinkoffPDF, AlfaCSV, VTBCSV}

// GetParserWithLogger returns a new instance of the parser for parserType.
func GetParserWithLogger(parserType ParserType, logger logging.Logger) (parser.StatementParser, error) {
	switch parserType {
	case SberbankPDF:
		return sberparser.NewStatementParser(logger), nil
	case TinkoffCSV:
		return tinkoffparser.NewCSVParser(logger), nil
	case TinkoffPDF:
		return tinkoffparser.NewStatementParser(logger), nil
	case AlfaCSV:
		return alfaparser.NewParser(logger), nil
	case VTBCSV:
		return vtbparser.NewParser(logger), nil
	default:
		return nil, fmt.Errorf("unknown parser type: %s", parserType)
	}
}

// NewRegistry returns the registry in detection priority order.
//
// CSV: T-Bank, Alfa-Bank, VTB. PDF statements and requisites: T-Bank before
// Sberbank, since T-Bank documents name Sberbank as a transfer counterparty.
func NewRegistry(logger logging.Logger) *parser.Registry {
	r := parser.NewRegistry()

	r.RegisterStatement(tinkoffparser.NewCSVParser(logger))
	r.RegisterStatement(alfaparser.NewParser(logger))
	r.RegisterStatement(vtbparser.NewParser(logger))

	r.RegisterStatement(tinkoffparser.NewStatementParser(logger))
	r.RegisterStatement(sberparser.NewStatementParser(logger))

	r.RegisterRequisites(tinkoffparser.NewRequisitesParser(logger))
	r.RegisterRequisites(sberparser.NewRequisitesParser(logger))
	return r
}
