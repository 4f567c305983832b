package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"penny/internal/domain/goal"
)

type GoalRepository struct {
	db *DB
}

func NewGoalRepository(db *DB) *GoalRepository {
	return &GoalRepository{db: db}
}

const goalColumns = `id, name, amount, weekly_contribution, saved, kind, recovery, completed, created_at, updated_at`

func scanGoal(scan func(dest ...any) error) (*goal.Goal, error) {
	var g goal.Goal
	var recoveryJSON []byte
	err := scan(
		&g.ID, &g.Name, &g.Amount, &g.WeeklyContribution, &g.Saved,
		&g.Kind, &recoveryJSON, &g.Completed, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(recoveryJSON) > 0 {
		var plan goal.RecoveryPlan
		if err := json.Unmarshal(recoveryJSON, &plan); err != nil {
			return nil, fmt.Errorf("failed to decode recovery plan: %w", err)
		}
		g.Recovery = &plan
	}
	return &g, nil
}

func (r *GoalRepository) Create(ctx context.Context, params goal.CreateGoalParams) (*goal.Goal, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", goal.ErrInvalidInput, err)
	}

	var recoveryJSON []byte
	if params.Recovery != nil {
		var err error
		recoveryJSON, err = json.Marshal(params.Recovery)
		if err != nil {
			return nil, fmt.Errorf("failed to encode recovery plan: %w", err)
		}
	}

	query := `
		INSERT INTO goals (name, amount, weekly_contribution, saved, kind, recovery, completed)
		VALUES ($1, $2, $3, 0, $4, $5, FALSE)
		RETURNING ` + goalColumns + `
	`

	g, err := scanGoal(r.db.QueryRowContext(
		ctx, query,
		params.Name, params.Amount, params.WeeklyContribution, params.Kind, recoveryJSON,
	).Scan)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	return g, nil
}

func (r *GoalRepository) GetByID(ctx context.Context, id int64) (*goal.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1`

	g, err := scanGoal(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return g, nil
}

func (r *GoalRepository) ListActive(ctx context.Context) ([]*goal.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE NOT completed ORDER BY id`
	return r.listGoals(ctx, query)
}

func (r *GoalRepository) ListAll(ctx context.Context) ([]*goal.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals ORDER BY id`
	return r.listGoals(ctx, query)
}

func (r *GoalRepository) listGoals(ctx context.Context, query string) ([]*goal.Goal, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var goals []*goal.Goal
	for rows.Next() {
		g, err := scanGoal(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}
	return goals, nil
}

// CreditSaved adds delta to the saved amount and optionally marks the goal
// complete. The saved amount never decreases through this path.
func (r *GoalRepository) CreditSaved(ctx context.Context, id int64, delta float64, completed bool) (*goal.Goal, error) {
	query := `
		UPDATE goals
		SET saved = saved + $1,
		    completed = completed OR $2,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
		RETURNING ` + goalColumns + `
	`

	g, err := scanGoal(r.db.QueryRowContext(ctx, query, delta, completed, id).Scan)
	if err == sql.ErrNoRows {
		return nil, goal.ErrGoalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to credit goal: %w", err)
	}
	return g, nil
}

func (r *GoalRepository) GetProgressEntry(ctx context.Context, goalID int64, weekStart time.Time) (*goal.ProgressEntry, error) {
	query := `
		SELECT id, goal_id, week_start, credited, delta, rationale, created_at
		FROM goal_progress_log
		WHERE goal_id = $1 AND week_start = $2
	`

	var entry goal.ProgressEntry
	err := r.db.QueryRowContext(ctx, query, goalID, weekStart).Scan(
		&entry.ID, &entry.GoalID, &entry.WeekStart, &entry.Credited,
		&entry.Delta, &entry.Rationale, &entry.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // Week not evaluated yet
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress entry: %w", err)
	}
	entry.WeekStart = entry.WeekStart.UTC()

	return &entry, nil
}

// InsertProgressEntry writes the decision for (goal, week start) unless one
// already exists. The unique index makes the decision terminal even under
// concurrent evaluation.
func (r *GoalRepository) InsertProgressEntry(ctx context.Context, entry goal.ProgressEntry) (bool, error) {
	query := `
		INSERT INTO goal_progress_log (id, goal_id, week_start, credited, delta, rationale)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (goal_id, week_start) DO NOTHING
	`

	result, err := r.db.ExecContext(
		ctx, query,
		entry.ID, entry.GoalID, entry.WeekStart, entry.Credited, entry.Delta, entry.Rationale,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert progress entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows > 0, nil
}

func (r *GoalRepository) ListProgress(ctx context.Context, goalID int64) ([]*goal.ProgressEntry, error) {
	query := `
		SELECT id, goal_id, week_start, credited, delta, rationale, created_at
		FROM goal_progress_log
		WHERE goal_id = $1
		ORDER BY week_start DESC
	`
	return r.listProgress(ctx, query, goalID)
}

func (r *GoalRepository) ListProgressByWeek(ctx context.Context, weekStart time.Time) ([]*goal.ProgressEntry, error) {
	query := `
		SELECT id, goal_id, week_start, credited, delta, rationale, created_at
		FROM goal_progress_log
		WHERE week_start = $1
		ORDER BY goal_id
	`
	return r.listProgress(ctx, query, weekStart)
}

func (r *GoalRepository) listProgress(ctx context.Context, query string, arg any) ([]*goal.ProgressEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress entries: %w", err)
	}
	defer rows.Close()

	var entries []*goal.ProgressEntry
	for rows.Next() {
		var entry goal.ProgressEntry
		err := rows.Scan(
			&entry.ID, &entry.GoalID, &entry.WeekStart, &entry.Credited,
			&entry.Delta, &entry.Rationale, &entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress entry: %w", err)
		}
		entry.WeekStart = entry.WeekStart.UTC()
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating progress entries: %w", err)
	}
	return entries, nil
}
