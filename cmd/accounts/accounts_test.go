package accounts_test

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"fjacquet/statement-import/cmd/accounts"
	"fjacquet/statement-import/cmd/root"
	"fjacquet/statement-import/internal/config"
	"fjacquet/statement-import/internal/container"
	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func subcommand(t *testing.T, name string) *cobra.Command {
	t.Helper()
	for _, c := range accounts.Cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}
	t.Fatalf("subcommand %q not registered", name)
	return nil
}

func execute(t *testing.T, cmd *cobra.Command, flags map[string]string) (*bytes.Buffer, error) {
	t.Helper()
	for k, v := range flags {
		flags := cmd.Flags()
		if k == "user" {
			flags = accounts.Cmd.PersistentFlags()
		}
		require.NoError(t, flags.Set(k, v))
	}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	return &out, cmd.RunE(cmd, nil)
}

func TestAccountsCommand_Subcommands(t *testing.T) {
	assert.Equal(t, "accounts", accounts.Cmd.Use)
	assert.NotNil(t, subcommand(t, "add").RunE)
	assert.NotNil(t, subcommand(t, "list").RunE)
	assert.NotNil(t, accounts.Cmd.PersistentFlags().Lookup("user"))
}

func TestAccountsCommand_AddAndList(t *testing.T) {
	useTestContainer(t)
	add := subcommand(t, "add")

	out, err := execute(t, add, map[string]string{"user": "u1", "bank": "sberbank", "number": "40817810938160123456", "card": "1234"})
	require.NoError(t, err)
	var created models.Account
	require.NoError(t, json.Unmarshal(out.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Сбербанк", created.Name, "name defaults to the bank display name")
	assert.Equal(t, "RUB", created.Currency)

	out, err = execute(t, subcommand(t, "list"), map[string]string{"user": "u1"})
	require.NoError(t, err)
	var listed []models.Account
	require.NoError(t, json.Unmarshal(out.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
	assert.Equal(t, "1234", listed[0].CardLastFour)
}

func TestAccountsCommand_AddValidation(t *testing.T) {
	useTestContainer(t)
	add := subcommand(t, "add")

	_, err := execute(t, add, map[string]string{"user": "u1", "bank": "monzo", "card": ""})
	assert.Error(t, err)

	_, err = execute(t, add, map[string]string{"user": "u1", "bank": "vtb", "card": "12345"})
	assert.ErrorContains(t, err, "four digits")
}
