package parse_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/statement-import/cmd/parse"
	"fjacquet/statement-import/cmd/root"
	"fjacquet/statement-import/internal/config"
	"fjacquet/statement-import/internal/container"
	"fjacquet/statement-import/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const alfaCSV = "Дата операции;Описание операции;Приход;Расход;Категория\n" +
	"10.02.2026;Яндекс Такси;;350,00;Транспорт\n" +
	"11.02.2026;Заработная плата;80 000,00;;Зарплата\n"

func useTestContainer(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Log:        config.LogConfig{Level: "info", Format: "text"},
		AI:         config.AIConfig{BatchSize: 100},
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

func setFlags(t *testing.T, flags map[string]string) {
	t.Helper()
	defaults := map[string]string{"input": "", "output": "", "type": "", "delimiter": ",", "no-ai": "false"}
	for k, v := range flags {
		defaults[k] = v
	}
	for k, v := range defaults {
		require.NoError(t, parse.Cmd.Flags().Set(k, v))
	}
	parse.Cmd.SetContext(context.Background())
}

func writeStatement(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "alfa.csv")
	require.NoError(t, os.WriteFile(path, []byte(alfaCSV), 0600))
	return path
}

func TestParseCommand_Metadata(t *testing.T) {
	assert.Equal(t, "parse", parse.Cmd.Use)
	outputFlag := parse.Cmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)
	assert.Equal(t, ",", parse.Cmd.Flags().Lookup("delimiter").DefValue)
}

func TestParseCommand_Stdout(t *testing.T) {
	useTestContainer(t)
	setFlags(t, map[string]string{"input": writeStatement(t), "no-ai": "true"})
	var out bytes.Buffer
	parse.Cmd.SetOut(&out)

	require.NoError(t, parse.Cmd.RunE(parse.Cmd, nil))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,direction,amount,description,raw_category,category", lines[0])
	assert.Equal(t, "2026-02-10,EXPENSE,350.00,Яндекс Такси,Транспорт,Такси", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "2026-02-11,INCOME,80000.00,Заработная плата,"))
}

func TestParseCommand_OutputFile(t *testing.T) {
	useTestContainer(t)
	output := filepath.Join(t.TempDir(), "out", "alfa.csv")
	setFlags(t, map[string]string{"input": writeStatement(t), "output": output, "delimiter": ";"})

	require.NoError(t, parse.Cmd.RunE(parse.Cmd, nil))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "date;direction;amount;description;raw_category;category")
}

func TestParseCommand_BadDelimiter(t *testing.T) {
	useTestContainer(t)
	setFlags(t, map[string]string{"input": writeStatement(t), "delimiter": ";;"})

	assert.Error(t, parse.Cmd.RunE(parse.Cmd, nil))
}
