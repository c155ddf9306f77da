package parser

import (
	"fmt"

	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/textutils"
)

// Russian account numbers carry the ISO 4217 numeric code in digits 6-8.
var accountCurrencyCodes = map[string]string{
	"810": "RUB",
	"643": "RUB",
	"840": "USD",
	"978": "EUR",
	"156": "CNY",
}

// CurrencyFromAccount derives the currency from a 20-digit account number.
// Empty when the number is too short or the code unknown.
func CurrencyFromAccount(accountNumber string) string {
	digits := textutils.DigitsOnly(accountNumber)
	if len(digits) != 20 {
		return ""
	}
	return accountCurrencyCodes[digits[5:8]]
}

// NormalizeCurrency maps the spellings seen in requisites documents to ISO codes.
func NormalizeCurrency(raw string) string {
	switch textutils.NormalizeSpaces(raw) {
	case "RUB", "RUR", "₽", "Рубль", "Российский рубль", "рубль", "российский рубль", "руб.", "руб":
		return "RUB"
	case "USD", "Доллар США", "доллар США":
		return "USD"
	case "EUR", "Евро", "евро":
		return "EUR"
	case "CNY", "Китайский юань", "юань":
		return "CNY"
	}
	return ""
}

// NewRequisites assembles the result shared by all requisites parsers.
// It returns nil when lastFour is missing: a partial record is worse than
// none, since callers then fall back to manual account selection.
func NewRequisites(bank models.BankName, lastFour, account, currency, owner string) *models.AccountRequisites {
	if len(lastFour) != 4 {
		return nil
	}
	account = textutils.DigitsOnly(account)
	if currency == "" {
		currency = CurrencyFromAccount(account)
	}
	if currency == "" {
		currency = "RUB"
	}
	if owner != "" {
		owner = textutils.TitleName(owner)
	}
	return &models.AccountRequisites{
		BankName:      bank,
		DisplayName:   fmt.Sprintf("%s *%s", bank.DisplayName(), lastFour),
		CardLastFour:  lastFour,
		AccountNumber: account,
		Currency:      currency,
		OwnerName:     owner,
	}
}
