package sberparser

import (
	"regexp"

	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/parser"
	"fjacquet/statement-import/internal/textutils"
)

// Each field has several layouts depending on the app version that rendered
// the document; they are tried in order and the first non-empty wins.
var (
	ownerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^Получатель:?\s+([А-ЯЁA-Zа-яёa-z][А-ЯЁа-яёA-Za-z\- .]+?)\s*$`),
		regexp.MustCompile(`(?mi)ФИО получателя:?\s+([А-ЯЁа-яё\- .]+?)\s*$`),
		regexp.MustCompile(`(?mi)Владелец сч[её]та:?\s+([А-ЯЁа-яё\- .]+?)\s*$`),
	}

	accountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Сч[её]т получателя:?\s*(\d[\d ]{19,28})`),
		regexp.MustCompile(`(?i)Номер сч[её]та:?\s*(\d[\d ]{19,28})`),
		regexp.MustCompile(`(?m)^Сч[её]т:?\s*(\d[\d ]{19,28})`),
	}

	// 220220******1234, 2202 20** **** 1234, •••• 1234 / **** 1234
	cardPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{6}\*{6}(\d{4})\b`),
		regexp.MustCompile(`\b\d{4}\s?\d{2}\*{2}\s?\*{4}\s?(\d{4})\b`),
		regexp.MustCompile(`(?:\*{4}|•{4})\s?(\d{4})\b`),
	}

	currencyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?mi)Валюта(?: сч[её]та)?:?\s+([^\n]+?)\s*$`),
	}
)

// RequisitesParser reads Sberbank "Реквизиты для перевода" documents.
type RequisitesParser struct {
	logger logging.Logger
}

// NewRequisitesParser returns a parser logging through logger.
func NewRequisitesParser(logger logging.Logger) *RequisitesParser {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &RequisitesParser{logger: logger.WithField(logging.FieldParser, "sberbank-requisites")}
}

func (p *RequisitesParser) Bank() models.BankName        { return models.BankSberbank }
func (p *RequisitesParser) CanParse(content string) bool { return CanParseRequisites(content) }

// Parse returns nil unless card last-four digits are found.
func (p *RequisitesParser) Parse(content string) *models.AccountRequisites {
	lastFour := textutils.FirstMatch(content, cardPatterns...)
	if lastFour == "" {
		p.logger.Debug("No card number in requisites document")
		return nil
	}
	return parser.NewRequisites(
		models.BankSberbank,
		lastFour,
		textutils.FirstMatch(content, accountPatterns...),
		parser.NormalizeCurrency(textutils.FirstMatch(content, currencyPatterns...)),
		textutils.FirstMatch(content, ownerPatterns...),
	)
}
