// Package sberparser reads Sberbank PDF card statements and requisites
// documents.
package sberparser

import (
	"fjacquet/statement-import/internal/textutils"
)

var (
	bankMarkers = []string{"сбербанк", "sberbank", "www.sberbank.ru"}

	statementMarkers = []string{
		"выписка по счёту",
		"выписка по счету",
		"остаток средств",
		"код авторизации",
		"дата операции (мск)",
		"расшифровка операций",
	}

	requisitesMarkers = []string{
		"реквизиты для перевода",
		"реквизиты счёта",
		"реквизиты счета",
		"бик",
		"корр. счёт",
		"корр. счет",
	}

	// Legal names of the competing bank. Its statements mention Sberbank as
	// a transfer counterparty, so the bare word is not enough to claim a file.
	competitorMarkers = []string{"ао «тбанк»", "ао \"тбанк\"", "ао «тинькофф банк»", "тинькофф банк", "tbank.ru", "tinkoff.ru"}
)

func isSberbank(content string) bool {
	return textutils.ContainsAny(content, bankMarkers...) &&
		!textutils.ContainsAny(content, competitorMarkers...)
}

// CanParseStatement reports whether content is a Sberbank PDF statement:
// bank name plus at least two statement phrases, and no T-Bank legal name.
func CanParseStatement(content string) bool {
	return isSberbank(content) && textutils.CountContains(content, statementMarkers...) >= 2
}

// CanParseRequisites reports whether content is a Sberbank requisites
// document. Statements also carry BIK and account numbers, so statement
// phrases veto the match.
func CanParseRequisites(content string) bool {
	return isSberbank(content) &&
		textutils.CountContains(content, requisitesMarkers...) >= 2 &&
		textutils.CountContains(content, statementMarkers...) < 2
}
