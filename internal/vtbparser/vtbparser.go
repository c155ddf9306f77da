// Package vtbparser reads VTB CSV exports: an unsigned amount plus a
// textual operation type.
package vtbparser

import (
	"fmt"
	"strings"

	"fjacquet/statement-import/internal/common"
	"fjacquet/statement-import/internal/currencyutils"
	"fjacquet/statement-import/internal/dateutils"
	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/parser"
	"fjacquet/statement-import/internal/parsererror"
)

var (
	incomeTypes  = []string{"зачисление", "поступление", "пополнение", "возврат"}
	expenseTypes = []string{"списание", "оплата", "снятие", "перевод"}

	cancelledStatus = []string{"отменена", "отклонена"}

	// Headers of the other banks' exports; any of them vetoes detection.
	competitorHeaders = []string{"Приход", "Расход", "MCC", "Кэшбэк"}
)

// Parser reads the VTB-Online operations CSV.
type Parser struct {
	parser.BaseParser
}

// NewParser returns a parser logging through logger.
func NewParser(logger logging.Logger) *Parser {
	return &Parser{BaseParser: parser.NewBaseParser("vtb-csv", logger)}
}

func (p *Parser) Bank() models.BankName     { return models.BankVTB }
func (p *Parser) FileType() models.FileType { return models.FileTypeCSV }

// CanParse requires the date, amount and operation-type columns.
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
	return table.Column("Дата операции") >= 0 &&
		table.Column("Сумма операции") >= 0 &&
		table.Column("Тип операции") >= 0
}

type columns struct {
	date, amount, kind, description, status int
}

// Parse returns every usable row.
func (p *Parser) Parse(content string) ([]models.ParsedTransaction, error) {
	table, err := common.ReadTable(content, 3)
	if err != nil {
		return nil, fmt.Errorf("vtb csv: %w", err)
	}
	cols := columns{
		date:        table.Column("Дата операции", "Дата"),
		amount:      table.Column("Сумма операции", "Сумма"),
		kind:        table.Column("Тип операции"),
		description: table.Column("Описание", "Назначение платежа"),
		status:      table.Column("Статус"),
	}
	if cols.date < 0 || cols.amount < 0 {
		return nil, fmt.Errorf("vtb csv: required columns missing (date=%d, amount=%d)", cols.date, cols.amount)
	}

	txs := make([]models.ParsedTransaction, 0, len(table.Rows))
	for i, row := range table.Rows {
		if matchesAny(common.Field(row, cols.status), cancelledStatus) {
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
	rawAmount := common.Field(row, cols.amount)
	amount, sign, err := currencyutils.ParseMagnitude(rawAmount)
	if err != nil {
		return nil, &parsererror.ParseError{Parser: p.Name(), Field: "amount", Value: rawAmount, Err: err}
	}

	return &models.ParsedTransaction{
		Date:        date,
		Amount:      amount,
		Direction:   direction(common.Field(row, cols.kind), sign),
		Description: common.Field(row, cols.description),
	}, nil
}

// direction trusts the operation type; the amount sign decides only when
// the type is missing or not one the bank uses.
func direction(kind string, sign currencyutils.Sign) models.Direction {
	switch {
	case containsAny(kind, incomeTypes):
		return models.DirectionIncome
	case containsAny(kind, expenseTypes):
		return models.DirectionExpense
	case sign == currencyutils.SignMinus:
		return models.DirectionExpense
	default:
		return models.DirectionIncome
	}
}

func matchesAny(value string, candidates []string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, c := range candidates {
		if value == c {
			return true
		}
	}
	return false
}

func containsAny(value string, candidates []string) bool {
	value = strings.ToLower(value)
	for _, c := range candidates {
		if strings.Contains(value, c) {
			return true
		}
	}
	return false
}
