package repository

import (
	"context"
	"database/sql"
	"fmt"

	"fjacquet/statement-import/internal/models"

	"github.com/google/uuid"
)

// CategoryRepo handles categories.
type CategoryRepo struct {
	db *sql.DB
}

func NewCategoryRepo(db *sql.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// Create inserts c, assigning an id when empty. A category with the same
// user, name and direction is reported as ErrDuplicate.
func (r *CategoryRepo) Create(ctx context.Context, c models.Category) (models.Category, error) {
	if !c.Direction.Valid() {
		return models.Category{}, fmt.Errorf("category %q: invalid direction %q", c.Name, c.Direction)
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO categories(id, user_id, name, direction, is_default, created_at)
	VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
	`, c.ID, c.UserID, c.Name, string(c.Direction), c.IsDefault)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Category{}, fmt.Errorf("category %q: %w", c.Name, ErrDuplicate)
		}
		return models.Category{}, err
	}
	return c, nil
}

func (r *CategoryRepo) ListByUser(ctx context.Context, userID string) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, user_id, name, direction, is_default, created_at
	FROM categories WHERE user_id = ? ORDER BY direction, name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Category
	for rows.Next() {
		var c models.Category
		var direction string
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &direction, &c.IsDefault, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Direction = models.Direction(direction)
		out = append(out, c)
	}
	return out, rows.Err()
}
