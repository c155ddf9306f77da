// Package tinkoffparser reads T-Bank (formerly Tinkoff) CSV exports, PDF
// statements and requisites documents.
package tinkoffparser

import (
	"strings"

	"fjacquet/statement-import/internal/common"
	"fjacquet/statement-import/internal/textutils"
)

var (
	bankMarkers = []string{"тбанк", "т-банк", "тинькофф", "tinkoff", "tbank"}

	// Sberbank issuer markers. The legal name only counts in the header,
	// where the issuing bank is printed; in the body it is a counterparty.
	competitorHeaderMarkers = []string{"пао сбербанк"}
	competitorSite          = "www.sberbank.ru"

	csvHeaders = []string{
		"Дата операции",
		"Дата платежа",
		"Номер карты",
		"Статус",
		"Сумма операции",
		"Валюта операции",
		"Сумма платежа",
		"Кэшбэк",
		"Категория",
		"MCC",
		"Описание",
		"Бонусы (включая кэшбэк)",
	}

	pdfStatementMarkers = []string{
		"справка о движении средств",
		"о движении средств",
		"дата списания",
		"сумма в валюте операции",
		"описание операции",
		"номер карты",
	}

	requisitesMarkers = []string{
		"справка о реквизитах",
		"реквизиты для пополнения",
		"реквизиты для перевода",
		"номер договора",
		"бик",
		"корр. сч",
	}
)

// CanParseCSV requires at least six of the export's signature headers.
// Split credit/debit columns belong to another bank's export and veto.
func CanParseCSV(content string) bool {
	table, err := common.ReadTable(firstLine(content), 4)
	if err != nil {
		return false
	}
	hits := 0
	for _, h := range csvHeaders {
		if common.FindColumn(table.Headers, h) >= 0 {
			hits++
		}
	}
	if common.FindColumn(table.Headers, "Приход") >= 0 && common.FindColumn(table.Headers, "Расход") >= 0 {
		return false
	}
	return hits >= 6
}

// headerLines is how many leading non-empty lines identify the issuer.
const headerLines = 3

// CanParsePDF requires the bank name, two statement phrases and no
// Sberbank issuer marker.
func CanParsePDF(content string) bool {
	return textutils.ContainsAny(content, bankMarkers...) &&
		!issuedBySberbank(content) &&
		textutils.CountContains(content, pdfStatementMarkers...) >= 2
}

// CanParseRequisites is CanParsePDF for requisites documents; movement
// phrases veto so statements are not mistaken for requisites.
func CanParseRequisites(content string) bool {
	return textutils.ContainsAny(content, bankMarkers...) &&
		!issuedBySberbank(content) &&
		textutils.CountContains(content, requisitesMarkers...) >= 2 &&
		!textutils.ContainsAny(content, "о движении средств", "дата списания")
}

func issuedBySberbank(content string) bool {
	if textutils.ContainsAny(content, competitorSite) {
		return true
	}
	return textutils.ContainsAny(header(content, headerLines), competitorHeaderMarkers...)
}

func header(content string, n int) string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == n {
			break
		}
	}
	return strings.Join(lines, "\n")
}

func firstLine(content string) string {
	for i, r := range content {
		if r == '\n' {
			return content[:i]
		}
	}
	return content
}
