package store

import "fjacquet/statement-import/internal/models"

// MockCategoryStore is an in-memory CategoryStore for tests.
type MockCategoryStore struct {
	Categories models.CategoriesConfig
	Saved      *models.CategoriesConfig

	LoadCategoriesError error
	SaveCategoriesError error
}

// LoadCategories returns the configured rules.
func (m *MockCategoryStore) LoadCategories() (models.CategoriesConfig, error) {
	if m.LoadCategoriesError != nil {
		return models.CategoriesConfig{}, m.LoadCategoriesError
	}
	return m.Categories, nil
}

// SaveCategories records cfg.
func (m *MockCategoryStore) SaveCategories(cfg models.CategoriesConfig) error {
	if m.SaveCategoriesError != nil {
		return m.SaveCategoriesError
	}
	m.Saved = &cfg
	return nil
}
