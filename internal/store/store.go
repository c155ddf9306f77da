// Package store loads and saves the keyword rules used by the category mapper.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"

	"gopkg.in/yaml.v3"
)

// DefaultCategoriesFile is looked up when no path is configured.
const DefaultCategoriesFile = "categories.yaml"

// CategoryStore manages loading and saving of the rule file.
type CategoryStore struct {
	CategoriesFile string
	logger         logging.Logger
}

// NewCategoryStore creates a store for categoriesFile. A nil logger discards.
func NewCategoryStore(categoriesFile string, logger logging.Logger) *CategoryStore {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &CategoryStore{CategoriesFile: categoriesFile, logger: logger}
}

// FindConfigFile looks for filename in the standard locations.
func (s *CategoryStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join("database", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".config", "statement-import", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

func (s *CategoryStore) filename() string {
	if s.CategoriesFile == "" {
		return DefaultCategoriesFile
	}
	return s.CategoriesFile
}

// LoadCategories reads the rule file. A missing file is not an error: the
// result is empty and callers fall back to built-in rules.
func (s *CategoryStore) LoadCategories() (models.CategoriesConfig, error) {
	filename := s.filename()
	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("Categories file not found", logging.F(logging.FieldFile, filename))
			return models.CategoriesConfig{}, nil
		}
		return models.CategoriesConfig{}, fmt.Errorf("error resolving categories file: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return models.CategoriesConfig{}, fmt.Errorf("error reading categories file: %w", err)
	}

	var cfg models.CategoriesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return models.CategoriesConfig{}, fmt.Errorf("error parsing categories file %s: %w", filePath, err)
	}

	s.logger.Debug("Loaded category rules",
		logging.F(logging.FieldFile, filePath),
		logging.F("expense_rules", len(cfg.Expense)),
		logging.F("income_rules", len(cfg.Income)))
	return cfg, nil
}

// SaveCategories writes cfg to the configured path, creating parent
// directories as needed.
func (s *CategoryStore) SaveCategories(cfg models.CategoriesConfig) error {
	filePath := s.filename()
	if found, err := s.FindConfigFile(filePath); err == nil {
		filePath = found
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling categories: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0600); err != nil {
		return fmt.Errorf("error writing categories: %w", err)
	}

	s.logger.Debug("Saved category rules", logging.F(logging.FieldFile, filePath))
	return nil
}
