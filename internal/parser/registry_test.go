package parser

import (
	"strings"
	"testing"

	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubParser struct {
	bank     models.BankName
	fileType models.FileType
	marker   string
}

func (s stubParser) Bank() models.BankName        { return s.bank }
func (s stubParser) FileType() models.FileType    { return s.fileType }
func (s stubParser) CanParse(content string) bool { return strings.Contains(content, s.marker) }
func (s stubParser) Parse(string) ([]models.ParsedTransaction, error) {
	return nil, nil
}

type stubRequisites struct{ stubParser }

func (s stubRequisites) Parse(string) *models.AccountRequisites { return nil }

func TestRegistry_FirstMatchWins(t *testing.T) {
	r := NewRegistry()
	r.RegisterStatement(stubParser{bank: "first", fileType: models.FileTypeCSV, marker: "shared"})
	r.RegisterStatement(stubParser{bank: "second", fileType: models.FileTypeCSV, marker: "shared"})
	r.RegisterStatement(stubParser{bank: "pdf-only", fileType: models.FileTypePDF, marker: "shared"})

	p, err := r.Detect(models.FileTypeCSV, "a shared header")
	require.NoError(t, err)
	assert.Equal(t, models.BankName("first"), p.Bank())

	p, err = r.Detect(models.FileTypePDF, "shared")
	require.NoError(t, err)
	assert.Equal(t, models.BankName("pdf-only"), p.Bank())
	assert.Len(t, r.Statements(models.FileTypeCSV), 2)
}

func TestRegistry_Unsupported(t *testing.T) {
	r := NewRegistry()
	r.RegisterStatement(stubParser{bank: "x", fileType: models.FileTypeCSV, marker: "x-bank"})

	_, err := r.Detect(models.FileTypeCSV, "Date,Amount\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, parsererror.ErrUnsupportedFormat)

	var ufe *parsererror.UnsupportedFormatError
	require.ErrorAs(t, err, &ufe)
	assert.Equal(t, "csv", ufe.FileType)
}

func TestRegistry_DetectRequisites(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.DetectRequisites("anything"))

	r.RegisterRequisites(stubRequisites{stubParser{bank: "sber", marker: "Реквизиты"}})
	got := r.DetectRequisites("Реквизиты счёта")
	require.NotNil(t, got)
	assert.Equal(t, models.BankName("sber"), got.Bank())
}
