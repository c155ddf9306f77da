package common

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTable_DelimiterFallback(t *testing.T) {
	semicolon := "Дата;Сумма;Описание\n09.01.2026;-400,00;Магазин\n10.01.2026;1 000,00;Зарплата\n"
	comma := "Дата,Сумма,Описание\n09.01.2026,\"-400,00\",Магазин\n10.01.2026,\"1 000,00\",Зарплата\n"

	a, err := ReadTable(semicolon, 2)
	require.NoError(t, err)
	b, err := ReadTable(comma, 2)
	require.NoError(t, err)

	assert.Equal(t, ';', a.Delimiter)
	assert.Equal(t, ',', b.Delimiter)
	assert.Equal(t, a.Headers, b.Headers)
	assert.Equal(t, a.Rows, b.Rows)
}

func TestReadTable_BOMAndBlankRows(t *testing.T) {
	table, err := ReadTable("\ufeffA;B\n1;2\n;\n\n3;4\n", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, table.Headers)
	assert.Len(t, table.Rows, 2)
}

func TestReadTable_StructuralFailure(t *testing.T) {
	_, err := ReadTable("just one column\nvalue\n", 2)
	assert.ErrorIs(t, err, ErrStructure)

	_, err = ReadTable("", 2)
	assert.Error(t, err)
}

func TestFindColumn_Priority(t *testing.T) {
	headers := []string{"Сумма операции с учетом комиссии", "сумма", "Сумма операции", "Описание"}

	assert.Equal(t, 2, FindColumn(headers, "Сумма операции"), "exact beats substring")
	assert.Equal(t, 1, FindColumn(headers, "СУММА"), "case-insensitive beats substring")
	assert.Equal(t, 3, FindColumn(headers, "описан"), "substring is the last resort")
	assert.Equal(t, -1, FindColumn(headers, "MCC"))
	assert.Equal(t, 2, FindColumn(headers, "Missing", "Сумма операции"), "later candidate exact match")
}

func TestField(t *testing.T) {
	row := []string{"a", "b"}
	assert.Equal(t, "b", Field(row, 1))
	assert.Equal(t, "", Field(row, 2))
	assert.Equal(t, "", Field(row, -1))
}

func TestWriteTransactionsToCSV(t *testing.T) {
	txs := []models.ParsedTransaction{
		{
			Date:        time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC),
			Amount:      decimal.RequireFromString("400"),
			Direction:   models.DirectionExpense,
			Description: "Timeweb.cloud",
			RawCategory: "Прочие расходы",
		},
	}
	rows := ToExportRows(txs, []string{models.CategorySubscriptions})

	dir := t.TempDir()
	out := filepath.Join(dir, "nested", "out.csv")
	logger := logging.NewMockLogger()
	require.NoError(t, WriteTransactionsToCSV(rows, out, ';', logger))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "date;direction;amount;description;raw_category;category", lines[0])
	assert.Equal(t, "2026-01-09;EXPENSE;400.00;Timeweb.cloud;Прочие расходы;Подписки", lines[1])
	assert.True(t, logger.HasEntry("INFO", "Wrote transactions to CSV file"))

	assert.Error(t, WriteTransactionsToCSV(nil, out, ';', logger))
}

func TestWriteRows_Comma(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRows(&buf, []ExportRow{{Date: "2026-01-01", Description: "a, b"}}, ','))
	assert.Contains(t, buf.String(), `"a, b"`)
}

func TestMatchAccount(t *testing.T) {
	accounts := []models.Account{
		{ID: "1", AccountNumber: "40817810000000000001"},
		{ID: "2", AccountNumber: "4081 7810 0000 0000 0002"},
	}
	match := MatchAccount(accounts, "40817810000000000002")
	require.NotNil(t, match)
	assert.Equal(t, "2", match.ID)
	assert.Nil(t, MatchAccount(accounts, "40817810000000000009"))
	assert.Nil(t, MatchAccount(accounts, ""))
}
