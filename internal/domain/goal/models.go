package goal

import (
	"errors"
	"time"
)

// Goal kinds
const (
	KindSavings  = "SAVINGS"
	KindRecovery = "RECOVERY"
)

// Domain errors
var (
	ErrGoalNotFound = errors.New("goal not found")
	ErrInvalidInput = errors.New("invalid input")
)

// RecoveryPlan carries the creation-time shape of a deficit payback goal.
// Both values are fixed when the goal is created and are never recomputed
// from current spend; they exist for display math only.
type RecoveryPlan struct {
	OriginalDeficit float64 `json:"originalDeficit"`
	RecoveryWeeks   int     `json:"recoveryWeeks"`
}

// Goal represents a savings target or a deficit-recovery plan. Saved is
// monotonically non-decreasing except via explicit user withdrawal, which is
// handled outside this core.
type Goal struct {
	ID                 int64         `json:"id"`
	Name               string        `json:"name"`
	Amount             float64       `json:"amount"` // target
	WeeklyContribution float64       `json:"weeklyContribution"`
	Saved              float64       `json:"saved"`
	Kind               string        `json:"kind"`
	Recovery           *RecoveryPlan `json:"recovery,omitempty"`
	Completed          bool          `json:"completed"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

// WeeklyTarget returns the contribution the goal expects from one week.
// Savings goals use the planned weekly contribution; recovery goals derive it
// from the immutable original deficit and chosen recovery-week count.
func (g *Goal) WeeklyTarget() float64 {
	if g.Kind == KindRecovery && g.Recovery != nil && g.Recovery.RecoveryWeeks > 0 {
		return g.Recovery.OriginalDeficit / float64(g.Recovery.RecoveryWeeks)
	}
	return g.WeeklyContribution
}

// ProgressEntry is the audit log for one (goal, week) crediting decision.
// At most one entry exists per goal and week start; once written the decision
// is terminal.
type ProgressEntry struct {
	ID        string    `json:"id"`
	GoalID    int64     `json:"goalId"`
	WeekStart time.Time `json:"weekStart"`
	Credited  bool      `json:"credited"`
	Delta     float64   `json:"delta"`
	Rationale string    `json:"rationale"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateGoalParams contains parameters for creating a new goal.
type CreateGoalParams struct {
	Name               string
	Amount             float64
	WeeklyContribution float64
	Kind               string
	Recovery           *RecoveryPlan
}

// Validate validates the create parameters.
func (p CreateGoalParams) Validate() error {
	if p.Name == "" {
		return errors.New("goal name is required")
	}
	if p.Amount <= 0 {
		return errors.New("goal amount must be positive")
	}
	switch p.Kind {
	case KindSavings:
		if p.WeeklyContribution <= 0 {
			return errors.New("weekly contribution must be positive")
		}
	case KindRecovery:
		if p.Recovery == nil {
			return errors.New("recovery plan is required for recovery goals")
		}
		if p.Recovery.OriginalDeficit <= 0 {
			return errors.New("original deficit must be positive")
		}
		if p.Recovery.RecoveryWeeks <= 0 {
			return errors.New("recovery weeks must be positive")
		}
	default:
		return errors.New("invalid goal kind")
	}
	return nil
}
