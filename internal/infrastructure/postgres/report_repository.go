package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"penny/internal/domain/goal"
	"penny/internal/domain/insights"
)

type ReportRepository struct {
	db *DB
}

func NewReportRepository(db *DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Upsert stores one report row keyed by week start. Conflict policy is
// replace, not merge: every column takes the newly computed value.
func (r *ReportRepository) Upsert(ctx context.Context, report *insights.WeeklyReport) error {
	categoriesJSON, err := json.Marshal(report.Categories)
	if err != nil {
		return fmt.Errorf("failed to encode category lines: %w", err)
	}
	outcomesJSON, err := json.Marshal(report.GoalOutcomes)
	if err != nil {
		return fmt.Errorf("failed to encode goal outcomes: %w", err)
	}

	query := `
		INSERT INTO weekly_reports (week_start, categories, uncategorized_spent, total_budget,
		                            total_spent, total_income, discretionary, left_to_spend,
		                            met_budget, goal_outcomes, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (week_start) DO UPDATE SET
		    categories = EXCLUDED.categories,
		    uncategorized_spent = EXCLUDED.uncategorized_spent,
		    total_budget = EXCLUDED.total_budget,
		    total_spent = EXCLUDED.total_spent,
		    total_income = EXCLUDED.total_income,
		    discretionary = EXCLUDED.discretionary,
		    left_to_spend = EXCLUDED.left_to_spend,
		    met_budget = EXCLUDED.met_budget,
		    goal_outcomes = EXCLUDED.goal_outcomes,
		    generated_at = EXCLUDED.generated_at
	`

	_, err = r.db.ExecContext(
		ctx, query,
		report.WeekStart, categoriesJSON, report.UncategorizedSpent, report.TotalBudget,
		report.TotalSpent, report.TotalIncome, report.Discretionary, report.LeftToSpend,
		report.MetBudget, outcomesJSON, report.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert report: %w", err)
	}

	return nil
}

func (r *ReportRepository) GetByWeek(ctx context.Context, weekStart time.Time) (*insights.WeeklyReport, error) {
	query := `
		SELECT week_start, categories, uncategorized_spent, total_budget, total_spent,
		       total_income, discretionary, left_to_spend, met_budget, goal_outcomes, generated_at
		FROM weekly_reports
		WHERE week_start = $1
	`

	report, err := scanReport(r.db.QueryRowContext(ctx, query, weekStart).Scan)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return report, nil
}

func (r *ReportRepository) GetAll(ctx context.Context) ([]*insights.WeeklyReport, error) {
	query := `
		SELECT week_start, categories, uncategorized_spent, total_budget, total_spent,
		       total_income, discretionary, left_to_spend, met_budget, goal_outcomes, generated_at
		FROM weekly_reports
		ORDER BY week_start DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*insights.WeeklyReport
	for rows.Next() {
		report, err := scanReport(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}

	return reports, nil
}

func scanReport(scan func(dest ...any) error) (*insights.WeeklyReport, error) {
	var report insights.WeeklyReport
	var categoriesJSON, outcomesJSON []byte

	err := scan(
		&report.WeekStart, &categoriesJSON, &report.UncategorizedSpent, &report.TotalBudget,
		&report.TotalSpent, &report.TotalIncome, &report.Discretionary, &report.LeftToSpend,
		&report.MetBudget, &outcomesJSON, &report.GeneratedAt,
	)
	if err != nil {
		return nil, err
	}
	report.WeekStart = report.WeekStart.UTC()

	if len(categoriesJSON) > 0 {
		if err := json.Unmarshal(categoriesJSON, &report.Categories); err != nil {
			return nil, fmt.Errorf("failed to decode category lines: %w", err)
		}
	}
	if len(outcomesJSON) > 0 {
		if err := json.Unmarshal(outcomesJSON, &report.GoalOutcomes); err != nil {
			return nil, fmt.Errorf("failed to decode goal outcomes: %w", err)
		}
	}
	if report.GoalOutcomes == nil {
		report.GoalOutcomes = []goal.Outcome{}
	}

	return &report, nil
}
