package tinkoffparser

import (
	"regexp"

	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/parser"
	"fjacquet/statement-import/internal/textutils"
)

var (
	ownerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^Получатель:?\s+([А-ЯЁа-яёA-Za-z][А-ЯЁа-яёA-Za-z\- .]+?)\s*$`),
		regexp.MustCompile(`(?m)^Клиент:?\s+([А-ЯЁа-яёA-Za-z][А-ЯЁа-яёA-Za-z\- .]+?)\s*$`),
		regexp.MustCompile(`(?mi)Держатель карты:?\s+([А-ЯЁа-яёA-Za-z\- .]+?)\s*$`),
	}

	accountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Номер лицевого сч[её]та:?\s*(\d[\d ]{19,28})`),
		regexp.MustCompile(`(?i)Сч[её]т получателя:?\s*(\d[\d ]{19,28})`),
		regexp.MustCompile(`(?i)Номер сч[её]та:?\s*(\d[\d ]{19,28})`),
	}

	// 553691******1234, Номер карты: ...1234, **** 1234
	cardPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{6}\*{6}(\d{4})\b`),
		regexp.MustCompile(`(?i)Номер карты:?\s*(?:\.{3}|…|\*+)\s?(\d{4})\b`),
		regexp.MustCompile(`(?:\*{4}|•{4})\s?(\d{4})\b`),
	}

	currencyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?mi)Валюта(?: сч[её]та)?:?\s+([^\n]+?)\s*$`),
	}
)

// RequisitesParser reads T-Bank "Справка о реквизитах" documents.
type RequisitesParser struct {
	logger logging.Logger
}

// NewRequisitesParser returns a parser logging through logger.
func NewRequisitesParser(logger logging.Logger) *RequisitesParser {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &RequisitesParser{logger: logger.WithField(logging.FieldParser, "tinkoff-requisites")}
}

func (p *RequisitesParser) Bank() models.BankName        { return models.BankTinkoff }
func (p *RequisitesParser) CanParse(content string) bool { return CanParseRequisites(content) }

// Parse returns nil unless card last-four digits are found.
func (p *RequisitesParser) Parse(content string) *models.AccountRequisites {
	lastFour := textutils.FirstMatch(content, cardPatterns...)
	if lastFour == "" {
		p.logger.Debug("No card number in requisites document")
		return nil
	}
	return parser.NewRequisites(
		models.BankTinkoff,
		lastFour,
		textutils.FirstMatch(content, accountPatterns...),
		parser.NormalizeCurrency(textutils.FirstMatch(content, currencyPatterns...)),
		textutils.FirstMatch(content, ownerPatterns...),
	)
}
