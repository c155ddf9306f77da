package tinkoffparser

import (
	"regexp"
	"strings"

	"fjacquet/statement-import/internal/currencyutils"
	"fjacquet/statement-import/internal/dateutils"
	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/parser"
	"fjacquet/statement-import/internal/parsererror"
	"fjacquet/statement-import/internal/textutils"
)

// 05.01.2026 12:31 06.01.2026 03:10 -1 250,00 ₽ -1 250,00 ₽ Оплата в PYATEROCHKA Москва 8227
var operationRe = regexp.MustCompile(`^(\d{2}\.\d{2}\.\d{4})(?:\s+\d{2}:\d{2})?\s+` +
	`\d{2}\.\d{2}\.\d{4}(?:\s+\d{2}:\d{2})?\s+` +
	`(` + currencyutils.AmountPattern + `)\s*₽\s+` +
	`(` + currencyutils.AmountPattern + `)\s*₽\s+` +
	`(.+?)(?:\s+(\d{4}))?\s*$`)

// StatementParser reads "Справка о движении средств" PDF statements. Each
// operation is one line: operation date, posting date, amount in the
// operation currency, amount in the card currency, description and card.
type StatementParser struct {
	parser.BaseParser
}

// NewStatementParser returns a parser logging through logger.
func NewStatementParser(logger logging.Logger) *StatementParser {
	return &StatementParser{BaseParser: parser.NewBaseParser("tinkoff-pdf", logger)}
}

func (p *StatementParser) Bank() models.BankName        { return models.BankTinkoff }
func (p *StatementParser) FileType() models.FileType    { return models.FileTypePDF }
func (p *StatementParser) CanParse(content string) bool { return CanParsePDF(content) }

// Parse reads every operation line. The card-currency amount is used so
// foreign purchases are booked in roubles.
func (p *StatementParser) Parse(content string) ([]models.ParsedTransaction, error) {
	lines := textutils.SplitLines(content)
	var txs []models.ParsedTransaction
	for i, line := range lines {
		m := operationRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		date, err := dateutils.ParseDate(m[1])
		if err != nil {
			continue
		}
		amount, sign, err := currencyutils.ParseMagnitude(m[3])
		if err != nil {
			p.GetLogger().WithError(err).Debug("Skipping line with bad amount",
				logging.Field{Key: logging.FieldLine, Value: i + 1})
			continue
		}
		direction := models.DirectionExpense
		if sign == currencyutils.SignPlus {
			direction = models.DirectionIncome
		}
		tx := models.ParsedTransaction{
			Date:        date,
			Amount:      amount,
			Direction:   direction,
			Description: strings.TrimRight(m[4], " ."),
		}
		if p.Accept(&tx) {
			txs = append(txs, tx)
		}
	}
	if len(txs) == 0 {
		return nil, &parsererror.NoTransactionsError{
			Bank:     string(models.BankTinkoff),
			FileType: string(models.FileTypePDF),
			Lines:    len(lines),
		}
	}
	return txs, nil
}
