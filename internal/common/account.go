package common

import (
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/textutils"
)

// NormalizeAccountNumber keeps only digits so "4081 7810 ..." and
// "40817810..." compare equal.
func NormalizeAccountNumber(number string) string {
	return textutils.DigitsOnly(number)
}

// MatchAccount returns the account whose number equals number exactly after
// normalization, or nil.
func MatchAccount(accounts []models.Account, number string) *models.Account {
	want := NormalizeAccountNumber(number)
	if want == "" {
		return nil
	}
	for i := range accounts {
		if NormalizeAccountNumber(accounts[i].AccountNumber) == want {
			return &accounts[i]
		}
	}
	return nil
}
