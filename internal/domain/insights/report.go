package insights

import (
	"context"
	"time"

	"penny/internal/domain/goal"
)

// WeeklyReport is the immutable-once-written snapshot for one week. At most
// one report exists per week start; recomputation replaces it wholesale.
type WeeklyReport struct {
	WeekStart          time.Time      `json:"weekStart"`
	Categories         []CategoryLine `json:"categories"`
	UncategorizedSpent float64        `json:"uncategorizedSpent"`
	TotalBudget        float64        `json:"totalBudget"`
	TotalSpent         float64        `json:"totalSpent"`
	TotalIncome        float64        `json:"totalIncome"`
	Discretionary      float64        `json:"discretionary"`
	LeftToSpend        float64        `json:"leftToSpend"`
	MetBudget          bool           `json:"metBudget"`
	GoalOutcomes       []goal.Outcome `json:"goalOutcomes"`
	GeneratedAt        time.Time      `json:"generatedAt"`
}

// Archive defines the interface for report persistence. Upsert replaces any
// existing row for the same week start (replace, not merge).
type Archive interface {
	Upsert(ctx context.Context, report *WeeklyReport) error
	GetByWeek(ctx context.Context, weekStart time.Time) (*WeeklyReport, error)
	// GetAll returns all reports ordered by week start descending.
	GetAll(ctx context.Context) ([]*WeeklyReport, error)
}
