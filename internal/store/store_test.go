package store

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	err := os.WriteFile(path, []byte(content), 0600)
	require.NoError(t, err)
}

func TestNewCategoryStore(t *testing.T) {
	store := NewCategoryStore("categories.yaml", nil)
	assert.Equal(t, "categories.yaml", store.CategoriesFile)
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	testFile := filepath.Join(dir, "test.yaml")
	writeFile(t, testFile, "test content")

	store := NewCategoryStore("", nil)

	file, err := store.FindConfigFile(testFile)
	assert.NoError(t, err)
	assert.Equal(t, testFile, file)

	_, err = store.FindConfigFile(filepath.Join(dir, "nonexistent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadCategories_ValidAndMissing(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "categories.yaml")
	writeFile(t, file, `expense:
  - name: Такси
    keywords: ["yandex go", "такси"]
  - name: Продукты
    keywords: ["пятёрочка", "magnit"]
income:
  - name: Зарплата
    keywords: ["заработная плата"]
`)
	store := NewCategoryStore(file, logging.NewMockLogger())
	cfg, err := store.LoadCategories()
	require.NoError(t, err)
	require.Len(t, cfg.Expense, 2)
	assert.Equal(t, "Такси", cfg.Expense[0].Name)
	assert.Equal(t, []string{"yandex go", "такси"}, cfg.Expense[0].Keywords)
	assert.Equal(t, cfg.Income, cfg.Rules(models.DirectionIncome))

	missing := NewCategoryStore(filepath.Join(dir, "missing.yaml"), nil)
	cfg, err = missing.LoadCategories()
	assert.NoError(t, err)
	assert.True(t, cfg.Empty())
}

func TestLoadCategories_Malformed(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "categories.yaml")
	writeFile(t, file, `{malformed: yaml: content}`)
	_, err := NewCategoryStore(file, nil).LoadCategories()
	assert.Error(t, err)
}

func TestSaveCategories(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "nested", "categories.yaml")
	store := NewCategoryStore(file, nil)

	cfg := models.CategoriesConfig{
		Expense: []models.CategoryConfig{{Name: "Связь и интернет", Keywords: []string{"мтс", "timeweb"}}},
	}
	require.NoError(t, store.SaveCategories(cfg))

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	var decoded models.CategoriesConfig
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, cfg, decoded)

	loaded, err := store.LoadCategories()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestMockCategoryStore(t *testing.T) {
	m := &MockCategoryStore{LoadCategoriesError: os.ErrPermission}
	_, err := m.LoadCategories()
	assert.ErrorIs(t, err, os.ErrPermission)

	m = &MockCategoryStore{}
	require.NoError(t, m.SaveCategories(models.CategoriesConfig{}))
	assert.NotNil(t, m.Saved)
}
