package goal

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// Outcome is the crediting decision for one goal in one week, as embedded in
// the weekly report.
type Outcome struct {
	GoalID    int64   `json:"goalId"`
	GoalName  string  `json:"goalName"`
	Credited  bool    `json:"credited"`
	Delta     float64 `json:"delta"`
	Rationale string  `json:"rationale"`
}

// CreditingService decides, once per closed week, whether each goal receives
// its planned contribution. Decisions are terminal: re-evaluating a week that
// already has a log entry is a no-op returning the logged outcome.
type CreditingService struct {
	repo Repository
}

// NewCreditingService creates a new crediting service.
func NewCreditingService(repo Repository) *CreditingService {
	return &CreditingService{repo: repo}
}

// EvaluateWeek evaluates all active goals against the week's net savings
// delta (income minus total spend). A goal whose weekly target is covered by
// the delta is credited the full target, clamped so the saved amount never
// exceeds the goal target; otherwise the week is logged as skipped with the
// shortfall as rationale.
func (s *CreditingService) EvaluateWeek(ctx context.Context, weekStart time.Time, netDelta float64) ([]Outcome, error) {
	goals, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active goals: %w", err)
	}

	outcomes := make([]Outcome, 0, len(goals))
	for _, g := range goals {
		outcome, err := s.evaluateGoal(ctx, g, weekStart, netDelta)
		if err != nil {
			log.Printf("Failed to evaluate goal %d for week %s: %v", g.ID, weekStart.Format("2006-01-02"), err)
			continue
		}
		outcomes = append(outcomes, outcome)
	}

	log.Printf("Goal evaluation completed for week %s: goals=%d, netDelta=%.2f",
		weekStart.Format("2006-01-02"), len(goals), netDelta)

	return outcomes, nil
}

func (s *CreditingService) evaluateGoal(ctx context.Context, g *Goal, weekStart time.Time, netDelta float64) (Outcome, error) {
	existing, err := s.repo.GetProgressEntry(ctx, g.ID, weekStart)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to check progress log: %w", err)
	}
	if existing != nil {
		// Already terminal for this week.
		return outcomeFromEntry(g, existing), nil
	}

	target := g.WeeklyTarget()

	entry := ProgressEntry{
		ID:        uuid.NewString(),
		GoalID:    g.ID,
		WeekStart: weekStart,
	}

	if netDelta >= target {
		delta := target
		completed := false
		if remaining := g.Amount - g.Saved; delta >= remaining {
			delta = remaining
			completed = true
		}
		entry.Credited = true
		entry.Delta = delta
		entry.Rationale = fmt.Sprintf("net savings %.2f covered the planned contribution %.2f", netDelta, target)

		inserted, err := s.repo.InsertProgressEntry(ctx, entry)
		if err != nil {
			return Outcome{}, fmt.Errorf("failed to insert progress entry: %w", err)
		}
		if !inserted {
			// Lost the race to a concurrent evaluation; the logged decision wins.
			logged, err := s.repo.GetProgressEntry(ctx, g.ID, weekStart)
			if err != nil || logged == nil {
				return Outcome{}, fmt.Errorf("progress entry vanished after conflict: %v", err)
			}
			return outcomeFromEntry(g, logged), nil
		}

		if _, err := s.repo.CreditSaved(ctx, g.ID, delta, completed); err != nil {
			return Outcome{}, fmt.Errorf("failed to credit goal: %w", err)
		}
	} else {
		entry.Credited = false
		entry.Delta = 0
		entry.Rationale = fmt.Sprintf("net savings %.2f fell short of the planned contribution %.2f by %.2f",
			netDelta, target, target-netDelta)

		if _, err := s.repo.InsertProgressEntry(ctx, entry); err != nil {
			return Outcome{}, fmt.Errorf("failed to insert progress entry: %w", err)
		}
	}

	return outcomeFromEntry(g, &entry), nil
}

func outcomeFromEntry(g *Goal, entry *ProgressEntry) Outcome {
	return Outcome{
		GoalID:    g.ID,
		GoalName:  g.Name,
		Credited:  entry.Credited,
		Delta:     entry.Delta,
		Rationale: entry.Rationale,
	}
}
