package goal

import (
	"context"
	"time"
)

// Repository defines the interface for goal and progress-log data access.
type Repository interface {
	Create(ctx context.Context, params CreateGoalParams) (*Goal, error)
	GetByID(ctx context.Context, id int64) (*Goal, error)
	// ListActive returns goals not yet marked complete.
	ListActive(ctx context.Context) ([]*Goal, error)
	ListAll(ctx context.Context) ([]*Goal, error)
	// CreditSaved adds delta to the goal's saved amount and optionally marks
	// it complete, in one statement.
	CreditSaved(ctx context.Context, id int64, delta float64, completed bool) (*Goal, error)

	// GetProgressEntry returns the log entry for (goalID, weekStart), or nil
	// when the week has not been evaluated yet.
	GetProgressEntry(ctx context.Context, goalID int64, weekStart time.Time) (*ProgressEntry, error)
	// InsertProgressEntry writes the entry unless one already exists for the
	// same (goal, week start); it reports whether the insert happened.
	InsertProgressEntry(ctx context.Context, entry ProgressEntry) (bool, error)
	ListProgress(ctx context.Context, goalID int64) ([]*ProgressEntry, error)
	// ListProgressByWeek returns all entries logged for one week start.
	ListProgressByWeek(ctx context.Context, weekStart time.Time) ([]*ProgressEntry, error)
}
