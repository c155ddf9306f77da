package parser

import (
	"testing"

	"fjacquet/statement-import/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrencyFromAccount(t *testing.T) {
	assert.Equal(t, "RUB", CurrencyFromAccount("40817810938160123456"))
	assert.Equal(t, "USD", CurrencyFromAccount("40817 840 1 0000 0000001"))
	assert.Equal(t, "EUR", CurrencyFromAccount("40817978000000000001"))
	assert.Equal(t, "", CurrencyFromAccount("408178"))
	assert.Equal(t, "", CurrencyFromAccount("40817999000000000001"))
}

func TestNormalizeCurrency(t *testing.T) {
	assert.Equal(t, "RUB", NormalizeCurrency("Российский рубль"))
	assert.Equal(t, "USD", NormalizeCurrency(" USD "))
	assert.Equal(t, "", NormalizeCurrency("тугрик"))
}

func TestNewRequisites(t *testing.T) {
	assert.Nil(t, NewRequisites(models.BankSberbank, "", "40817810938160123456", "", "ИВАНОВ ИВАН"))
	assert.Nil(t, NewRequisites(models.BankSberbank, "12", "", "", ""))

	req := NewRequisites(models.BankSberbank, "1234", "4081 7810 9381 6012 3456", "", "ИВАНОВ ИВАН ИВАНОВИЧ")
	require.NotNil(t, req)
	assert.Equal(t, "Сбербанк *1234", req.DisplayName)
	assert.Equal(t, "40817810938160123456", req.AccountNumber)
	assert.Equal(t, "RUB", req.Currency)
	assert.Equal(t, "Иванов Иван Иванович", req.OwnerName)

	noAccount := NewRequisites(models.BankTinkoff, "9876", "", "", "")
	require.NotNil(t, noAccount)
	assert.Equal(t, "RUB", noAccount.Currency)
	assert.Empty(t, noAccount.OwnerName)
}
