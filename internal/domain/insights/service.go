package insights

import (
	"context"
	"fmt"
	"log"
	"time"

	"penny/internal/domain/budget"
	"penny/internal/domain/goal"
	"penny/internal/domain/ledger"
)

// Service computes weekly summaries and archives weekly reports. It reads the
// ledger and budget snapshot, hands the closed-week net delta to the goal
// crediting engine, and replaces the archived report for the window's week.
type Service struct {
	ledgerRepo ledger.Repository
	budgetRepo budget.Repository
	goalRepo   goal.Repository
	crediting  *goal.CreditingService
	archive    Archive
}

// NewService creates a new insights service.
func NewService(
	ledgerRepo ledger.Repository,
	budgetRepo budget.Repository,
	goalRepo goal.Repository,
	crediting *goal.CreditingService,
	archive Archive,
) *Service {
	return &Service{
		ledgerRepo: ledgerRepo,
		budgetRepo: budgetRepo,
		goalRepo:   goalRepo,
		crediting:  crediting,
		archive:    archive,
	}
}

// Summarize aggregates one window without side effects. Used for the live
// partial-week view.
func (s *Service) Summarize(ctx context.Context, win Window) (*Summary, error) {
	records, err := s.ledgerRepo.ListByDayRange(ctx, win.Start, win.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list records for window: %w", err)
	}

	budgets, err := s.budgetRepo.ListLatestPeriods(ctx, win.Start)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve budget snapshot: %w", err)
	}

	return Aggregate(win, records, budgets), nil
}

// CloseWeek builds and archives the report for the closed week containing
// ref. The goal crediting engine runs exactly here: closed weeks are the only
// windows whose net delta is final. Recomputing an already-closed week
// replaces the archived report and leaves the terminal goal decisions intact.
func (s *Service) CloseWeek(ctx context.Context, ref time.Time, now time.Time) (*WeeklyReport, error) {
	win := ClosedWeek(ref)

	summary, err := s.Summarize(ctx, win)
	if err != nil {
		return nil, err
	}

	netDelta := summary.TotalIncome - summary.TotalSpent
	outcomes, err := s.crediting.EvaluateWeek(ctx, win.Start, netDelta)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate goals: %w", err)
	}

	report := reportFromSummary(summary, outcomes, now)
	if err := s.archive.Upsert(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to archive report: %w", err)
	}

	log.Printf("Closed week %s: spent=%.2f, budget=%.2f, income=%.2f, metBudget=%t, goals=%d",
		win.Start.Format("2006-01-02"), report.TotalSpent, report.TotalBudget,
		report.TotalIncome, report.MetBudget, len(outcomes))

	return report, nil
}

// CloseWeeksThrough closes every week from the newest archived week through
// the closed week containing ref, oldest first. The newest archived week is
// re-closed so late-arriving records are folded in and so a stale
// partial-week snapshot whose goal crediting never ran is finalized; weeks
// with no report at all, missed because no refresh ran, are backfilled. On an
// empty archive only the week containing ref is closed.
func (s *Service) CloseWeeksThrough(ctx context.Context, ref time.Time, now time.Time) ([]*WeeklyReport, error) {
	last := ClosedWeek(ref)

	from := last.Start
	reports, err := s.archive.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived reports: %w", err)
	}
	if len(reports) > 0 {
		// GetAll is ordered newest first.
		if newest := WeekStart(reports[0].WeekStart); newest.Before(from) {
			from = newest
		}
	}

	var closed []*WeeklyReport
	for start := from; !start.After(last.Start); start = start.AddDate(0, 0, 7) {
		report, err := s.CloseWeek(ctx, start, now)
		if err != nil {
			return nil, err
		}
		closed = append(closed, report)
	}
	return closed, nil
}

// SnapshotCurrentWeek archives a report for the in-progress week without
// running goal crediting; already-logged decisions for the week, if any, are
// carried through. Each refresh replaces the snapshot with fresher numbers.
func (s *Service) SnapshotCurrentWeek(ctx context.Context, now time.Time) (*WeeklyReport, error) {
	win := PartialWeek(now)

	summary, err := s.Summarize(ctx, win)
	if err != nil {
		return nil, err
	}

	entries, err := s.goalRepo.ListProgressByWeek(ctx, win.Start)
	if err != nil {
		return nil, fmt.Errorf("failed to list goal progress: %w", err)
	}

	outcomes := make([]goal.Outcome, 0, len(entries))
	for _, entry := range entries {
		g, err := s.goalRepo.GetByID(ctx, entry.GoalID)
		if err != nil || g == nil {
			log.Printf("Warning: progress entry %s references missing goal %d", entry.ID, entry.GoalID)
			continue
		}
		outcomes = append(outcomes, goal.Outcome{
			GoalID:    g.ID,
			GoalName:  g.Name,
			Credited:  entry.Credited,
			Delta:     entry.Delta,
			Rationale: entry.Rationale,
		})
	}

	report := reportFromSummary(summary, outcomes, now)
	if err := s.archive.Upsert(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to archive report: %w", err)
	}

	return report, nil
}

func reportFromSummary(summary *Summary, outcomes []goal.Outcome, now time.Time) *WeeklyReport {
	return &WeeklyReport{
		WeekStart:          summary.Window.Start,
		Categories:         summary.Categories,
		UncategorizedSpent: summary.UncategorizedSpent,
		TotalBudget:        summary.TotalBudget,
		TotalSpent:         summary.TotalSpent,
		TotalIncome:        summary.TotalIncome,
		Discretionary:      summary.Discretionary,
		LeftToSpend:        summary.LeftToSpend,
		MetBudget:          summary.MetBudget,
		GoalOutcomes:       outcomes,
		GeneratedAt:        now,
	}
}
