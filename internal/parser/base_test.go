package parser

import (
	"strings"
	"testing"
	"time"

	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBaseParser_Accept(t *testing.T) {
	logger := logging.NewMockLogger()
	b := NewBaseParser("test", logger)

	tx := models.ParsedTransaction{
		Date:        time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromInt(10),
		Direction:   models.DirectionExpense,
		Description: "  many   spaces " + strings.Repeat("я", 300),
	}
	assert.True(t, b.Accept(&tx))
	assert.True(t, strings.HasPrefix(tx.Description, "many spaces "))
	assert.Equal(t, models.MaxDescriptionLength, len([]rune(tx.Description)))

	zero := models.ParsedTransaction{Date: tx.Date, Amount: decimal.Zero, Direction: models.DirectionIncome}
	assert.False(t, b.Accept(&zero))

	debug := logger.GetEntriesByLevel("DEBUG")
	if assert.Len(t, debug, 1) {
		assert.Equal(t, "Dropping record", debug[0].Message)
		assert.Contains(t, debug[0].Fields, logging.Field{Key: logging.FieldParser, Value: "test"})
	}
}

func TestBaseParser_SetLogger(t *testing.T) {
	b := NewBaseParser("x", nil)
	assert.NotNil(t, b.GetLogger())
	b.SetLogger(nil)
	assert.NotNil(t, b.GetLogger())
	assert.Equal(t, "x", b.Name())
}
