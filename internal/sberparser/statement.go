package sberparser

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

var (
	// 09.01.2026 01:52 294976 <category> 400,00 13,72
	headerRe = regexp.MustCompile(`^(\d{2}\.\d{2}\.\d{4})\s+(\d{2}:\d{2})\s+(\d{4,8})\s+(.+)$`)
	// The amount pair that must follow the category: operation, then balance.
	amountPairRe = regexp.MustCompile(`^\s*(` + currencyutils.AmountPattern + `)\s+(` + currencyutils.AmountPattern + `)\s*$`)
	// 09.01.2026 TIMEWEB.CLOUD SANKT-PETERBU RUS. Операция по карте ****8227
	descriptionRe = regexp.MustCompile(`^(\d{2}\.\d{2}\.\d{4})\s+(.+)$`)
	// Single-line fallback: date, optional time, auth code, free text, amount pair.
	fallbackRe = regexp.MustCompile(`^(\d{2}\.\d{2}\.\d{4})(?:\s+\d{2}:\d{2})?\s+(\d{4,8})\s+(.*?)\s*(` +
		currencyutils.AmountPattern + `)\s+(` + currencyutils.AmountPattern + `)$`)

	cardMaskTailRe = regexp.MustCompile(`\s*\*{2,}\s*\d{0,4}\s*$`)
)

// cardOperationSuffix is the boilerplate closing every card description.
// Extraction clips it anywhere after "Опер".
const cardOperationSuffix = "Операция по карте"

// StatementParser reads Sberbank PDF card statements.
type StatementParser struct {
	parser.BaseParser
}

// NewStatementParser returns a parser logging through logger.
func NewStatementParser(logger logging.Logger) *StatementParser {
	return &StatementParser{BaseParser: parser.NewBaseParser("sberbank-pdf", logger)}
}

func (p *StatementParser) Bank() models.BankName        { return models.BankSberbank }
func (p *StatementParser) FileType() models.FileType    { return models.FileTypePDF }
func (p *StatementParser) CanParse(content string) bool { return CanParseStatement(content) }

// Parse runs the two-line recognizer and, only if it finds nothing, the
// single-line fallback.
func (p *StatementParser) Parse(content string) ([]models.ParsedTransaction, error) {
	lines := textutils.SplitLines(content)

	txs := p.parseTwoLine(lines)
	if len(txs) == 0 {
		p.GetLogger().Debug("Two-line recognizer found nothing, trying single-line fallback",
			logging.Field{Key: logging.FieldCount, Value: len(lines)})
		txs = p.parseSingleLine(lines)
	}
	if len(txs) == 0 {
		return nil, &parsererror.NoTransactionsError{
			Bank:     string(models.BankSberbank),
			FileType: string(models.FileTypePDF),
			Lines:    len(lines),
		}
	}
	return txs, nil
}

// matchHeader applies the line-1 rules: date-time, auth code, longest known
// category, then exactly an amount pair.
func (p *StatementParser) matchHeader(line string) (models.ParsedTransaction, bool) {
	m := headerRe.FindStringSubmatch(line)
	if m == nil {
		return models.ParsedTransaction{}, false
	}
	rest := m[4]
	category, idx := longestCategory(rest)
	if idx < 0 {
		return models.ParsedTransaction{}, false
	}
	pair := amountPairRe.FindStringSubmatch(rest[idx+len(category):])
	if pair == nil {
		return models.ParsedTransaction{}, false
	}
	date, err := dateutils.ParseDate(m[1])
	if err != nil {
		p.GetLogger().Debug("Skipping line with bad date",
			logging.Field{Key: logging.FieldLine, Value: line})
		return models.ParsedTransaction{}, false
	}
	amount, sign, err := currencyutils.ParseMagnitude(pair[1])
	if err != nil {
		p.GetLogger().WithError(err).Debug("Skipping line with bad amount",
			logging.Field{Key: logging.FieldLine, Value: line})
		return models.ParsedTransaction{}, false
	}
	return models.ParsedTransaction{
		Date:        date,
		Amount:      amount,
		Direction:   directionFromSign(sign),
		Description: category,
		RawCategory: category,
	}, true
}

func (p *StatementParser) parseTwoLine(lines []string) []models.ParsedTransaction {
	var txs []models.ParsedTransaction
	for i := 0; i < len(lines); i++ {
		tx, ok := p.matchHeader(lines[i])
		if !ok {
			continue
		}
		if i+1 < len(lines) {
			if _, next := p.matchHeader(lines[i+1]); !next {
				if d := descriptionRe.FindStringSubmatch(lines[i+1]); d != nil {
					if desc := cleanDescription(d[2]); desc != "" {
						tx.Description = desc
					}
					i++
				}
			}
		}
		if p.Accept(&tx) {
			txs = append(txs, tx)
		}
	}
	return txs
}

func (p *StatementParser) parseSingleLine(lines []string) []models.ParsedTransaction {
	var txs []models.ParsedTransaction
	for _, line := range lines {
		m := fallbackRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		date, err := dateutils.ParseDate(m[1])
		if err != nil {
			continue
		}
		amount, sign, err := currencyutils.ParseMagnitude(m[4])
		if err != nil {
			continue
		}
		text := m[3]
		category, idx := longestCategory(text)
		desc := text
		if idx >= 0 {
			desc = strings.TrimSpace(text[:idx] + " " + text[idx+len(category):])
		}
		desc = cleanDescription(desc)
		if desc == "" {
			desc = category
		}
		tx := models.ParsedTransaction{
			Date:        date,
			Amount:      amount,
			Direction:   directionFromSign(sign),
			Description: desc,
			RawCategory: category,
		}
		if p.Accept(&tx) {
			txs = append(txs, tx)
		}
	}
	return txs
}

// Only a leading "+" marks income in these statements.
func directionFromSign(sign currencyutils.Sign) models.Direction {
	if sign == currencyutils.SignPlus {
		return models.DirectionIncome
	}
	return models.DirectionExpense
}

// cleanDescription strips the card boilerplate in any clipped form and
// re-cases all-caps merchant names.
func cleanDescription(s string) string {
	s = cardMaskTailRe.ReplaceAllString(s, "")
	if idx := strings.LastIndex(s, "Опер"); idx >= 0 {
		tail := strings.TrimSpace(s[idx:])
		if strings.HasPrefix(cardOperationSuffix, tail) {
			s = s[:idx]
		}
	}
	s = strings.TrimRight(strings.TrimSpace(s), " .,")
	return textutils.RecaseShouting(s)
}
