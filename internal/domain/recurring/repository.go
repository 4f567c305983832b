package recurring

import (
	"context"
)

// Repository defines the interface for obligation data access.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Obligation, error)
	GetByID(ctx context.Context, id string) (*Obligation, error)
	ListAll(ctx context.Context) ([]*Obligation, error)
	Delete(ctx context.Context, id string) error
}
