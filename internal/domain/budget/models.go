package budget

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrBudgetNotFound   = errors.New("budget not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidInput     = errors.New("invalid input")
)

// Category represents a spending category referenced by ledger records and budgets.
// Categories are created lazily the first time a record resolves to them.
type Category struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Icon       *string   `json:"icon,omitempty"`
	Color      *string   `json:"color,omitempty"`
	UsageCount int64     `json:"usageCount"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Budget represents a weekly spending limit for a category over a period.
// A nil Category means the general budget row, which tracks fixed recurring
// transfers and is never compared against uncategorized spend.
type Budget struct {
	ID          int64      `json:"id"`
	Category    *string    `json:"category,omitempty"`
	WeeklyLimit float64    `json:"weeklyLimit"`
	PeriodStart time.Time  `json:"periodStart"` // Monday of the first week the limit applies to
	PeriodEnd   *time.Time `json:"periodEnd,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CreateBudgetParams contains parameters for creating a new budget period.
type CreateBudgetParams struct {
	Category    *string
	WeeklyLimit float64
	PeriodStart time.Time
	PeriodEnd   *time.Time
}

// Validate validates the create parameters.
func (p CreateBudgetParams) Validate() error {
	if p.WeeklyLimit < 0 {
		return errors.New("weekly limit must not be negative")
	}
	if p.PeriodStart.IsZero() {
		return errors.New("period start is required")
	}
	if p.PeriodEnd != nil && p.PeriodEnd.Before(p.PeriodStart) {
		return errors.New("period end must not precede period start")
	}
	return nil
}
