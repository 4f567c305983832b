package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"penny/internal/domain/ledger"
)

type LedgerRepository struct {
	db *DB
}

func NewLedgerRepository(db *DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

const recordColumns = `id, external_id, account_id, connection_id, fingerprint, amount,
	       description, day, kind, category, merchant, excluded, created_at, updated_at`

func scanRecord(scan func(dest ...any) error) (*ledger.Record, error) {
	var rec ledger.Record
	err := scan(
		&rec.ID, &rec.ExternalID, &rec.AccountID, &rec.ConnectionID,
		&rec.Fingerprint, &rec.Amount, &rec.Description, &rec.Day, &rec.Kind,
		&rec.Category, &rec.Merchant, &rec.Excluded,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Day = rec.Day.UTC()
	return &rec, nil
}

func (r *LedgerRepository) GetByID(ctx context.Context, id int64) (*ledger.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM ledger_records WHERE id = $1`

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return rec, nil
}

const upsertRecordQuery = `
	INSERT INTO ledger_records (external_id, account_id, connection_id, fingerprint,
	                            amount, description, day, kind, category, merchant, excluded)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, FALSE)
	ON CONFLICT (fingerprint) DO UPDATE SET
	    external_id = EXCLUDED.external_id,
	    account_id = EXCLUDED.account_id,
	    connection_id = EXCLUDED.connection_id,
	    amount = EXCLUDED.amount,
	    description = EXCLUDED.description,
	    day = EXCLUDED.day,
	    kind = EXCLUDED.kind,
	    category = EXCLUDED.category,
	    merchant = EXCLUDED.merchant,
	    updated_at = CURRENT_TIMESTAMP
`

// UpsertBatch upserts the whole batch inside one transaction so a
// re-ingestion is never partially visible. Only mapper-derived fields are
// written on conflict; the stored excluded flag is never touched, so an
// exclusion set between two ingestions of the same payload survives.
func (r *LedgerRepository) UpsertBatch(ctx context.Context, batch []ledger.UpsertParams) ([]bool, error) {
	created := make([]bool, len(batch))
	if len(batch) == 0 {
		return created, nil
	}

	err := r.db.WithinTx(ctx, func(tx *sql.Tx) error {
		for i, params := range batch {
			var id int64
			err := tx.QueryRowContext(ctx,
				`SELECT id FROM ledger_records WHERE fingerprint = $1`,
				params.Fingerprint,
			).Scan(&id)
			if err == sql.ErrNoRows {
				created[i] = true
			} else if err != nil {
				return fmt.Errorf("failed to check fingerprint: %w", err)
			}

			if _, err := tx.ExecContext(ctx, upsertRecordQuery,
				params.ExternalID, params.AccountID, params.ConnectionID, params.Fingerprint,
				params.Amount, params.Description, params.Day, params.Kind,
				params.Category, params.Merchant,
			); err != nil {
				return fmt.Errorf("failed to upsert record: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *LedgerRepository) ListByDayRange(ctx context.Context, from, to time.Time) ([]*ledger.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM ledger_records
		WHERE day >= $1 AND day <= $2
		ORDER BY day, id
	`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

func (r *LedgerRepository) List(ctx context.Context, limit, offset int) ([]*ledger.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM ledger_records
		ORDER BY day DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

func (r *LedgerRepository) SetExcluded(ctx context.Context, id int64, excluded bool) (*ledger.Record, error) {
	query := `
		UPDATE ledger_records
		SET excluded = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
		RETURNING ` + recordColumns + `
	`

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, excluded, id).Scan)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set excluded flag: %w", err)
	}
	return rec, nil
}

func collectRecords(rows *sql.Rows) ([]*ledger.Record, error) {
	var records []*ledger.Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}
	return records, nil
}
