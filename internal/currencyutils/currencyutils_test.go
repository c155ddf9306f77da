package currencyutils

import (
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name      string
		amountStr string
		expected  string
		hasError  bool
	}{
		{"plain", "8000.00", "8000", false},
		{"grouping space and comma", "8 000,00", "8000", false},
		{"nbsp grouping", "8\u00a0000,00", "8000", false},
		{"narrow nbsp grouping", "1\u202f234\u202f567,89", "1234567.89", false},
		{"explicit plus", "+8 000,00", "8000", false},
		{"minus", "-1 234,56", "-1234.56", false},
		{"unicode minus", "−400,00", "-400", false},
		{"rouble sign", "1 500,50 ₽", "1500.5", false},
		{"rub suffix", "15,00 руб.", "15", false},
		{"dot decimal", "13.72", "13.72", false},
		{"european thousands", "1.234,56", "1234.56", false},
		{"comma thousands", "1,234.56", "1234.56", false},
		{"comma as thousands only", "1,234", "1234", false},
		{"integer", "400", "400", false},
		{"empty", "", "", true},
		{"blank", "   ", "", true},
		{"text", "abc", "", true},
		{"double dot", "1.2.3", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseAmount(tc.amountStr)
			if tc.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			expected := decimal.RequireFromString(tc.expected)
			assert.True(t, expected.Equal(result), "expected %s, got %s", expected, result)
		})
	}
}

func TestGroupedAndPlainFormsAgree(t *testing.T) {
	pairs := [][2]string{
		{"8 000,00", "8000.00"},
		{"12 345,67", "12345.67"},
		{"1 000 000,01", "1000000.01"},
	}
	for _, p := range pairs {
		grouped, err := ParseAmount(p[0])
		require.NoError(t, err)
		plain, err := ParseAmount(p[1])
		require.NoError(t, err)
		assert.True(t, grouped.Equal(plain), "%s vs %s", p[0], p[1])
	}
}

func TestParseMagnitude(t *testing.T) {
	amount, sign, err := ParseMagnitude("+8 000,00")
	require.NoError(t, err)
	assert.Equal(t, SignPlus, sign)
	assert.Equal(t, "8000.00", amount.StringFixed(2))

	amount, sign, err = ParseMagnitude("400,00")
	require.NoError(t, err)
	assert.Equal(t, SignNone, sign)
	assert.Equal(t, "400.00", amount.StringFixed(2))

	amount, sign, err = ParseMagnitude("−12,50")
	require.NoError(t, err)
	assert.Equal(t, SignMinus, sign)
	assert.Equal(t, "12.50", amount.StringFixed(2))
}

func TestAmountPattern(t *testing.T) {
	re := regexp.MustCompile(AmountPattern)
	assert.Equal(t, "+8 000,00", re.FindString("Зарплата +8 000,00 12 013,72"))
	assert.Equal(t, "400,00", re.FindString("Прочие расходы 400,00 13,72"))
	assert.Equal(t, []string{"400,00", "13,72"}, re.FindAllString("400,00 13,72", -1))
}

func TestFormatAmount(t *testing.T) {
	amount := decimal.RequireFromString("1234.5")
	assert.Equal(t, "1234.50 ₽", FormatAmount(amount, "RUB"))
	assert.Equal(t, "€1234.50", FormatAmount(amount, "eur"))
	assert.Equal(t, "1234.50", FormatAmount(amount, ""))
	assert.Equal(t, "KZT 1234.50", FormatAmount(amount, "KZT"))
}
