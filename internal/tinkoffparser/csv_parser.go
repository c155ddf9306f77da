package tinkoffparser

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

// Statuses marking a declined or reversed operation.
var cancelledStatuses = []string{"FAILED", "CANCELED", "CANCELLED"}

// CSVParser reads the "operations" CSV export: one signed amount column,
// a status column and the bank's own category label.
type CSVParser struct {
	parser.BaseParser
}

// NewCSVParser returns a parser logging through logger.
func NewCSVParser(logger logging.Logger) *CSVParser {
	return &CSVParser{BaseParser: parser.NewBaseParser("tinkoff-csv", logger)}
}

func (p *CSVParser) Bank() models.BankName        { return models.BankTinkoff }
func (p *CSVParser) FileType() models.FileType    { return models.FileTypeCSV }
func (p *CSVParser) CanParse(content string) bool { return CanParseCSV(content) }

type columns struct {
	date, status, amount, category, description int
}

// Parse returns every usable row. A missing date or amount column is a
// structural error; a bad value in one row only skips that row.
func (p *CSVParser) Parse(content string) ([]models.ParsedTransaction, error) {
	table, err := common.ReadTable(content, 4)
	if err != nil {
		return nil, fmt.Errorf("tinkoff csv: %w", err)
	}
	cols := columns{
		date:        table.Column("Дата операции", "Дата"),
		status:      table.Column("Статус"),
		amount:      table.Column("Сумма операции", "Сумма платежа", "Сумма"),
		category:    table.Column("Категория"),
		description: table.Column("Описание"),
	}
	if cols.date < 0 || cols.amount < 0 {
		return nil, fmt.Errorf("tinkoff csv: required columns missing (date=%d, amount=%d)", cols.date, cols.amount)
	}

	logger := p.GetLogger().WithField(logging.FieldDelimiter, string(table.Delimiter))
	txs := make([]models.ParsedTransaction, 0, len(table.Rows))
	for i, row := range table.Rows {
		tx, err := p.parseRow(row, cols)
		if err != nil {
			logger.WithError(err).Debug("Skipping malformed row", logging.Field{Key: logging.FieldRow, Value: i + 2})
			continue
		}
		if tx == nil || !p.Accept(tx) {
			continue
		}
		txs = append(txs, *tx)
	}

	if table.Skipped > 0 {
		logger.Debug("CSV reader rejected records", logging.Field{Key: logging.FieldSkipped, Value: table.Skipped})
	}
	return txs, nil
}

// parseRow returns nil, nil for rows that are valid but must be dropped.
func (p *CSVParser) parseRow(row []string, cols columns) (*models.ParsedTransaction, error) {
	status := strings.ToUpper(common.Field(row, cols.status))
	for _, s := range cancelledStatuses {
		if status == s {
			return nil, nil
		}
	}

	rawDate := common.Field(row, cols.date)
	date, err := dateutils.ParseDate(rawDate)
	if err != nil {
		return nil, &parsererror.ParseError{Parser: p.Name(), Field: "date", Value: rawDate, Err: err}
	}
	rawAmount := common.Field(row, cols.amount)
	amount, err := currencyutils.ParseAmount(rawAmount)
	if err != nil {
		return nil, &parsererror.ParseError{Parser: p.Name(), Field: "amount", Value: rawAmount, Err: err}
	}

	direction := models.DirectionExpense
	if amount.IsPositive() {
		direction = models.DirectionIncome
	}
	return &models.ParsedTransaction{
		Date:        date,
		Amount:      amount.Abs(),
		Direction:   direction,
		Description: common.Field(row, cols.description),
		RawCategory: common.Field(row, cols.category),
	}, nil
}
