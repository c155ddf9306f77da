// Package alfaparser reads Alfa-Bank CSV exports, which book credits and
// debits in two separate columns.
package alfaparser

import (
	"errors"
	"fmt"
	"strings"

	"fjacquet/statement-import/internal/common"
	"fjacquet/statement-import/internal/currencyutils"
	"fjacquet/statement-import/internal/dateutils"
	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/parser"
	"fjacquet/statement-import/internal/parsererror"

	"github.com/shopspring/decimal"
)

var (
	errBothSides    = errors.New("both credit and debit populated")
	errNeitherSide  = errors.New("neither credit nor debit populated")
	cancelledStatus = []string{"отменена", "отклонена"}

	// T-Bank export headers; their presence vetoes detection.
	competitorHeaders = []string{"Кэшбэк", "MCC"}
)

// Parser reads the "Выписка по счёту" CSV.
type Parser struct {
	parser.BaseParser
}

// NewParser returns a parser logging through logger.
func NewParser(logger logging.Logger) *Parser {
	return &Parser{BaseParser: parser.NewBaseParser("alfabank-csv", logger)}
}

func (p *Parser) Bank() models.BankName     { return models.BankAlfa }
func (p *Parser) FileType() models.FileType { return models.FileTypeCSV }

// CanParse requires a date column, an operation description and both the
// credit and debit columns.
func (p *Parser) CanParse(content string) bool {
	table, err := common.ReadTable(content, 3)
	if err != nil {
		return false
	}
	for _, h := range competitorHeaders {
		if common.FindColumn(table.Headers, h) >= 0 {
			return false
		}
	}
	return table.Column("Дата операции", "Дата") >= 0 &&
		table.Column("Приход") >= 0 &&
		table.Column("Расход") >= 0 &&
		table.Column("Описание операции", "Описание") >= 0
}

type columns struct {
	date, description, credit, debit, status, category int
}

// Parse returns every usable row. A row with both sides or neither side
// populated is malformed and skipped.
func (p *Parser) Parse(content string) ([]models.ParsedTransaction, error) {
	table, err := common.ReadTable(content, 3)
	if err != nil {
		return nil, fmt.Errorf("alfabank csv: %w", err)
	}
	cols := columns{
		date:        table.Column("Дата операции", "Дата"),
		description: table.Column("Описание операции", "Описание"),
		credit:      table.Column("Приход"),
		debit:       table.Column("Расход"),
		status:      table.Column("Статус"),
		category:    table.Column("Категория"),
	}
	if cols.date < 0 || cols.credit < 0 || cols.debit < 0 {
		return nil, fmt.Errorf("alfabank csv: required columns missing (date=%d, credit=%d, debit=%d)",
			cols.date, cols.credit, cols.debit)
	}

	txs := make([]models.ParsedTransaction, 0, len(table.Rows))
	for i, row := range table.Rows {
		if isCancelled(common.Field(row, cols.status)) {
			continue
		}
		tx, err := p.parseRow(row, cols)
		if err != nil {
			p.GetLogger().WithError(err).Debug("Skipping malformed row",
				logging.Field{Key: logging.FieldRow, Value: i + 2})
			continue
		}
		if p.Accept(tx) {
			txs = append(txs, *tx)
		}
	}
	return txs, nil
}

func (p *Parser) parseRow(row []string, cols columns) (*models.ParsedTransaction, error) {
	rawDate := common.Field(row, cols.date)
	date, err := dateutils.ParseDate(rawDate)
	if err != nil {
		return nil, &parsererror.ParseError{Parser: p.Name(), Field: "date", Value: rawDate, Err: err}
	}

	credit, err := side(common.Field(row, cols.credit))
	if err != nil {
		return nil, &parsererror.ParseError{Parser: p.Name(), Field: "credit", Value: common.Field(row, cols.credit), Err: err}
	}
	debit, err := side(common.Field(row, cols.debit))
	if err != nil {
		return nil, &parsererror.ParseError{Parser: p.Name(), Field: "debit", Value: common.Field(row, cols.debit), Err: err}
	}

	tx := &models.ParsedTransaction{
		Date:        date,
		Description: common.Field(row, cols.description),
		RawCategory: common.Field(row, cols.category),
	}
	switch {
	case credit.IsPositive() && debit.IsPositive():
		return nil, errBothSides
	case credit.IsPositive():
		tx.Amount, tx.Direction = credit, models.DirectionIncome
	case debit.IsPositive():
		tx.Amount, tx.Direction = debit, models.DirectionExpense
	default:
		return nil, errNeitherSide
	}
	return tx, nil
}

// side parses one of the split columns; blank and "0" both mean unpopulated.
func side(raw string) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, nil
	}
	amount, err := currencyutils.ParseAmount(raw)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Abs(), nil
}

func isCancelled(status string) bool {
	status = strings.ToLower(strings.TrimSpace(status))
	for _, s := range cancelledStatus {
		if status == s {
			return true
		}
	}
	return false
}
