package categorizer

import "fjacquet/statement-import/internal/models"

// CategoryStoreInterface is the source of keyword rules.
type CategoryStoreInterface interface {
	LoadCategories() (models.CategoriesConfig, error)
}
