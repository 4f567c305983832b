package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"penny/internal/domain/recurring"
)

type RecurringRepository struct {
	db *DB
}

func NewRecurringRepository(db *DB) *RecurringRepository {
	return &RecurringRepository{db: db}
}

func (r *RecurringRepository) Create(ctx context.Context, params recurring.CreateParams) (*recurring.Obligation, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO recurring_obligations (id, label, category, amount, frequency, next_due)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, label, category, amount, frequency, next_due, created_at, updated_at
	`

	var ob recurring.Obligation
	err := r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), params.Label, params.Category, params.Amount, params.Frequency, params.NextDue,
	).Scan(
		&ob.ID, &ob.Label, &ob.Category, &ob.Amount, &ob.Frequency, &ob.NextDue,
		&ob.CreatedAt, &ob.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create obligation: %w", err)
	}

	return &ob, nil
}

func (r *RecurringRepository) GetByID(ctx context.Context, id string) (*recurring.Obligation, error) {
	query := `
		SELECT id, label, category, amount, frequency, next_due, created_at, updated_at
		FROM recurring_obligations
		WHERE id = $1
	`

	var ob recurring.Obligation
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&ob.ID, &ob.Label, &ob.Category, &ob.Amount, &ob.Frequency, &ob.NextDue,
		&ob.CreatedAt, &ob.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get obligation: %w", err)
	}

	return &ob, nil
}

func (r *RecurringRepository) ListAll(ctx context.Context) ([]*recurring.Obligation, error) {
	query := `
		SELECT id, label, category, amount, frequency, next_due, created_at, updated_at
		FROM recurring_obligations
		ORDER BY next_due, label
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list obligations: %w", err)
	}
	defer rows.Close()

	var obligations []*recurring.Obligation
	for rows.Next() {
		var ob recurring.Obligation
		err := rows.Scan(
			&ob.ID, &ob.Label, &ob.Category, &ob.Amount, &ob.Frequency, &ob.NextDue,
			&ob.CreatedAt, &ob.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan obligation: %w", err)
		}
		obligations = append(obligations, &ob)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating obligations: %w", err)
	}

	return obligations, nil
}

func (r *RecurringRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM recurring_obligations WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete obligation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return recurring.ErrObligationNotFound
	}

	return nil
}
