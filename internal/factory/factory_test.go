package factory_test

import (
	"testing"

	"fjacquet/statement-import/internal/factory"
	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetParserWithLogger(t *testing.T) {
	tests := []struct {
		name        string
		parserType  factory.ParserType
		bank        models.BankName
		fileType    models.FileType
		expectError bool
	}{
		{name: "Sberbank PDF", parserType: factory.SberbankPDF, bank: models.BankSberbank, fileType: models.FileTypePDF},
		{name: "T-Bank CSV", parserType: factory.TinkoffCSV, bank: models.BankTinkoff, fileType: models.FileTypeCSV},
		{name: "T-Bank PDF", parserType: factory.TinkoffPDF, bank: models.BankTinkoff, fileType: models.FileTypePDF},
		{name: "Alfa CSV", parserType: factory.AlfaCSV, bank: models.BankAlfa, fileType: models.FileTypeCSV},
		{name: "VTB CSV", parserType: factory.VTBCSV, bank: models.BankVTB, fileType: models.FileTypeCSV},
		{name: "Unknown Parser Type", parserType: "unknown", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := factory.GetParserWithLogger(tt.parserType, logging.NewMockLogger())
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bank, p.Bank())
			assert.Equal(t, tt.fileType, p.FileType())
		})
	}
}

func TestNewRegistry_Detect(t *testing.T) {
	r := factory.NewRegistry(logging.NewMockLogger())

	tests := []struct {
		name     string
		fileType models.FileType
		content  string
		want     models.BankName
	}{
		{
			name:     "T-Bank CSV",
			fileType: models.FileTypeCSV,
			content:  "Дата операции;Дата платежа;Номер карты;Статус;Сумма операции;Валюта операции;Сумма платежа;Кэшбэк;Категория;MCC;Описание\n",
			want:     models.BankTinkoff,
		},
		{
			name:     "Alfa CSV",
			fileType: models.FileTypeCSV,
			content:  "Дата операции;Описание операции;Приход;Расход\n",
			want:     models.BankAlfa,
		},
		{
			name:     "VTB CSV",
			fileType: models.FileTypeCSV,
			content:  "Дата операции;Сумма операции;Тип операции;Описание\n",
			want:     models.BankVTB,
		},
		{
			name:     "T-Bank PDF mentioning Sberbank counterparty",
			fileType: models.FileTypePDF,
			content: "АО «ТБанк»\nСправка о движении средств\nДата списания Описание операции\n" +
				"09.01.2026 10.01.2026 -300,00 ₽ -300,00 ₽ Перевод в СберБанк 8227\n",
			want: models.BankTinkoff,
		},
		{
			name:     "T-Bank PDF with Sberbank legal name in a transfer line",
			fileType: models.FileTypePDF,
			content: "АО «ТБанк»\nСправка о движении средств\nДата списания Описание операции\n" +
				"09.01.2026 10.01.2026 -300,00 ₽ -300,00 ₽ Перевод клиенту ПАО Сбербанк 8227\n",
			want: models.BankTinkoff,
		},
		{
			name:     "Sberbank PDF",
			fileType: models.FileTypePDF,
			content:  "ПАО Сбербанк\nВыписка по счёту дебетовой карты\nОстаток средств\n",
			want:     models.BankSberbank,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := r.Detect(tt.fileType, tt.content)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Bank())
		})
	}
}

func TestNewRegistry_Unsupported(t *testing.T) {
	r := factory.NewRegistry(logging.NewMockLogger())
	_, err := r.Detect(models.FileTypeCSV, "date,amount,payee\n2026-01-01,1.00,x\n")
	assert.ErrorIs(t, err, parsererror.ErrUnsupportedFormat)

	_, err = r.Detect(models.FileTypePDF, "Some other bank statement")
	assert.ErrorIs(t, err, parsererror.ErrUnsupportedFormat)
}

func TestNewRegistry_DetectRequisites(t *testing.T) {
	r := factory.NewRegistry(logging.NewMockLogger())
	p := r.DetectRequisites("ПАО Сбербанк\nРеквизиты для перевода\nБИК: 044525225\nКорр. счёт: 30101810400000000225\n")
	require.NotNil(t, p)
	assert.Equal(t, models.BankSberbank, p.Bank())

	assert.Nil(t, r.DetectRequisites("nothing here"))
}
