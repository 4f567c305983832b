package budget

import (
	"context"
	"time"
)

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	// FindOrCreateByName returns the category with the given name, creating it
	// if it does not exist, and increments its usage counter.
	FindOrCreateByName(ctx context.Context, name string) (*Category, error)
	GetByName(ctx context.Context, name string) (*Category, error)
	ListAll(ctx context.Context) ([]*Category, error)
}

// Repository defines the interface for budget data access.
type Repository interface {
	Create(ctx context.Context, params CreateBudgetParams) (*Budget, error)
	GetByID(ctx context.Context, id int64) (*Budget, error)
	// ListLatestPeriods returns, for each category, the budget with the latest
	// period start that is on or before asOf. Older periods are history and
	// never drive live aggregation.
	ListLatestPeriods(ctx context.Context, asOf time.Time) ([]*Budget, error)
	ListByCategory(ctx context.Context, category string) ([]*Budget, error)
	Delete(ctx context.Context, id int64) error
}
