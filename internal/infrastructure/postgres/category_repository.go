package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"penny/internal/domain/budget"
)

type CategoryRepository struct {
	db *DB
}

func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// FindOrCreateByName returns the category, creating it lazily on first
// reference, and bumps its usage counter in the same statement.
func (r *CategoryRepository) FindOrCreateByName(ctx context.Context, name string) (*budget.Category, error) {
	query := `
		INSERT INTO categories (name, usage_count)
		VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET
		    usage_count = categories.usage_count + 1,
		    updated_at = CURRENT_TIMESTAMP
		RETURNING id, name, icon, color, usage_count, created_at, updated_at
	`

	var cat budget.Category
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&cat.ID, &cat.Name, &cat.Icon, &cat.Color, &cat.UsageCount,
		&cat.CreatedAt, &cat.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find or create category: %w", err)
	}

	return &cat, nil
}

func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*budget.Category, error) {
	query := `
		SELECT id, name, icon, color, usage_count, created_at, updated_at
		FROM categories
		WHERE name = $1
	`

	var cat budget.Category
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&cat.ID, &cat.Name, &cat.Icon, &cat.Color, &cat.UsageCount,
		&cat.CreatedAt, &cat.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return &cat, nil
}

func (r *CategoryRepository) ListAll(ctx context.Context) ([]*budget.Category, error) {
	query := `
		SELECT id, name, icon, color, usage_count, created_at, updated_at
		FROM categories
		ORDER BY usage_count DESC, name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*budget.Category
	for rows.Next() {
		var cat budget.Category
		err := rows.Scan(
			&cat.ID, &cat.Name, &cat.Icon, &cat.Color, &cat.UsageCount,
			&cat.CreatedAt, &cat.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, &cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}
