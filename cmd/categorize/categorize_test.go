package categorize_test

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"fjacquet/statement-import/cmd/categorize"
	"fjacquet/statement-import/cmd/root"
	"fjacquet/statement-import/internal/categorizer"
	"fjacquet/statement-import/internal/config"
	"fjacquet/statement-import/internal/container"
	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTestContainer(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Log:        config.LogConfig{Level: "info", Format: "text"},
		AI:         config.AIConfig{BatchSize: 100, CacheTTLHours: 168, TimeoutSeconds: 30},
		Database:   config.DatabaseConfig{Path: filepath.Join(dir, "test.db")},
		Categories: config.CategoriesConfig{RulesFile: filepath.Join(dir, "categories.yaml")},
		Import:     config.ImportConfig{DescriptionMaxLen: 255},
	}
	c, err := container.NewContainer(cfg, container.WithLogger(logging.NewDiscardLogger()))
	require.NoError(t, err)

	prev := root.AppContainer
	root.AppContainer = c
	t.Cleanup(func() {
		_ = c.Close()
		root.AppContainer = prev
	})
}

func run(t *testing.T, flags map[string]string) (categorizer.Result, error) {
	t.Helper()
	for k, v := range flags {
		require.NoError(t, categorize.Cmd.Flags().Set(k, v))
	}
	var out bytes.Buffer
	categorize.Cmd.SetOut(&out)
	categorize.Cmd.SetContext(context.Background())

	err := categorize.Cmd.RunE(categorize.Cmd, nil)
	var result categorizer.Result
	if err == nil {
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	}
	return result, err
}

func TestCategorizeCommand_Metadata(t *testing.T) {
	assert.Equal(t, "categorize", categorize.Cmd.Use)
	assert.Contains(t, categorize.Cmd.Short, "Categorize")
	assert.NotNil(t, categorize.Cmd.RunE)
}

func TestCategorizeCommand_Flags(t *testing.T) {
	descFlag := categorize.Cmd.Flags().Lookup("description")
	require.NotNil(t, descFlag)
	assert.Equal(t, "d", descFlag.Shorthand)

	dirFlag := categorize.Cmd.Flags().Lookup("direction")
	require.NotNil(t, dirFlag)
	assert.Equal(t, "expense", dirFlag.DefValue)

	aiFlag := categorize.Cmd.Flags().Lookup("ai")
	require.NotNil(t, aiFlag)
	assert.Equal(t, "false", aiFlag.DefValue)
}

func TestCategorizeCommand_Run(t *testing.T) {
	useTestContainer(t)

	result, err := run(t, map[string]string{"description": "Пятёрочка", "direction": "expense"})
	require.NoError(t, err)
	assert.Equal(t, categorizer.Result{Category: models.CategoryGroceries, Source: categorizer.SourceKeyword}, result)

	result, err = run(t, map[string]string{"description": "ООО Ромашка", "direction": "income", "ai": "true"})
	require.NoError(t, err)
	assert.Equal(t, categorizer.Result{Category: models.CategoryOtherIncome, Source: categorizer.SourceDefault}, result)
}

func TestCategorizeCommand_InvalidDirection(t *testing.T) {
	useTestContainer(t)

	_, err := run(t, map[string]string{"description": "Пятёрочка", "direction": "sideways"})
	assert.Error(t, err)
}

func TestCategorizeCommand_DefaultDirectionIsExpense(t *testing.T) {
	useTestContainer(t)
	def := categorize.Cmd.Flags().Lookup("direction").DefValue

	result, err := run(t, map[string]string{"description": "Пятёрочка", "direction": def})
	require.NoError(t, err)
	assert.Equal(t, categorizer.Result{Category: models.CategoryGroceries, Source: categorizer.SourceKeyword}, result)
}
