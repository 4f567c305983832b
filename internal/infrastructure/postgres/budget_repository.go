package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"penny/internal/domain/budget"
)

type BudgetRepository struct {
	db *DB
}

func NewBudgetRepository(db *DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

func (r *BudgetRepository) Create(ctx context.Context, params budget.CreateBudgetParams) (*budget.Budget, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", budget.ErrInvalidInput, err)
	}

	query := `
		INSERT INTO budgets (category, weekly_limit, period_start, period_end)
		VALUES ($1, $2, $3, $4)
		RETURNING id, category, weekly_limit, period_start, period_end, created_at, updated_at
	`

	var b budget.Budget
	var periodEnd sql.NullTime
	err := r.db.QueryRowContext(
		ctx, query,
		params.Category, params.WeeklyLimit, params.PeriodStart, params.PeriodEnd,
	).Scan(
		&b.ID, &b.Category, &b.WeeklyLimit, &b.PeriodStart, &periodEnd,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}
	if periodEnd.Valid {
		b.PeriodEnd = &periodEnd.Time
	}

	return &b, nil
}

func (r *BudgetRepository) GetByID(ctx context.Context, id int64) (*budget.Budget, error) {
	query := `
		SELECT id, category, weekly_limit, period_start, period_end, created_at, updated_at
		FROM budgets
		WHERE id = $1
	`

	b, err := scanBudget(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return b, nil
}

// ListLatestPeriods resolves the budget snapshot for a week: for each
// category (and the nil-category general row) the period with the latest
// start on or before asOf. Older periods stay in the table as history.
func (r *BudgetRepository) ListLatestPeriods(ctx context.Context, asOf time.Time) ([]*budget.Budget, error) {
	query := `
		SELECT DISTINCT ON (category) id, category, weekly_limit, period_start, period_end, created_at, updated_at
		FROM budgets
		WHERE period_start <= $1
		  AND (period_end IS NULL OR period_end >= $1)
		ORDER BY category, period_start DESC
	`

	rows, err := r.db.QueryContext(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest budget periods: %w", err)
	}
	defer rows.Close()

	return collectBudgets(rows)
}

func (r *BudgetRepository) ListByCategory(ctx context.Context, category string) ([]*budget.Budget, error) {
	query := `
		SELECT id, category, weekly_limit, period_start, period_end, created_at, updated_at
		FROM budgets
		WHERE category = $1
		ORDER BY period_start DESC
	`

	rows, err := r.db.QueryContext(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets by category: %w", err)
	}
	defer rows.Close()

	return collectBudgets(rows)
}

func (r *BudgetRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM budgets WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return budget.ErrBudgetNotFound
	}

	return nil
}

func scanBudget(scan func(dest ...any) error) (*budget.Budget, error) {
	var b budget.Budget
	var periodEnd sql.NullTime
	err := scan(
		&b.ID, &b.Category, &b.WeeklyLimit, &b.PeriodStart, &periodEnd,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if periodEnd.Valid {
		b.PeriodEnd = &periodEnd.Time
	}
	return &b, nil
}

func collectBudgets(rows *sql.Rows) ([]*budget.Budget, error) {
	var budgets []*budget.Budget
	for rows.Next() {
		b, err := scanBudget(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}
	return budgets, nil
}
