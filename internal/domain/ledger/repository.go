package ledger

import (
	"context"
	"time"
)

// Repository defines the interface for ledger data access. The fingerprint is
// the single source of truth for duplicate detection, independent of the
// storage engine's own key.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Record, error)
	// UpsertBatch upserts all records inside one transaction so a
	// re-ingestion is never partially visible. For each input, a row with
	// the same fingerprint is updated on its mapper-derived fields only
	// (the stored Excluded flag survives) or inserted when absent. The
	// returned slice reports, per input, whether a new row was created.
	UpsertBatch(ctx context.Context, batch []UpsertParams) ([]bool, error)
	// ListByDayRange returns records with from <= day <= to, ordered by day.
	ListByDayRange(ctx context.Context, from, to time.Time) ([]*Record, error)
	List(ctx context.Context, limit, offset int) ([]*Record, error)
	// SetExcluded flips the user-controlled exclusion flag.
	SetExcluded(ctx context.Context, id int64, excluded bool) (*Record, error)
}
