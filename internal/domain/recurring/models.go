package recurring

import (
	"errors"
	"time"
)

// Obligation frequencies
var frequencies = map[string]struct{}{
	"WEEKLY":    {},
	"FORTNIGHT": {},
	"MONTHLY":   {},
	"QUARTERLY": {},
	"YEARLY":    {},
}

// Domain errors
var (
	ErrObligationNotFound = errors.New("obligation not found")
	ErrInvalidFrequency   = errors.New("invalid obligation frequency")
)

// Obligation represents a known recurring payment (rent, utilities,
// subscriptions). This core only reads it to compute due-date proximity;
// advancing NextDue after the matching transaction lands is an external
// collaborator's job, so the raw stored string is kept as-is and parsed at
// projection time.
type Obligation struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Category  *string   `json:"category,omitempty"`
	Amount    float64   `json:"amount"`
	Frequency string    `json:"frequency"`
	NextDue   string    `json:"nextDue"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateParams contains parameters for creating a new obligation.
type CreateParams struct {
	Label     string
	Category  *string
	Amount    float64
	Frequency string
	NextDue   string
}

// Validate validates the create parameters.
func (p CreateParams) Validate() error {
	if p.Label == "" {
		return errors.New("label is required")
	}
	if p.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	if !IsValidFrequency(p.Frequency) {
		return ErrInvalidFrequency
	}
	return nil
}

// IsValidFrequency checks if the provided frequency is valid.
func IsValidFrequency(f string) bool {
	_, ok := frequencies[f]
	return ok
}
