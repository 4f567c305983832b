package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"penny/internal/domain/budget"
)

// IngestResult contains the results of ingesting one batch of raw payloads.
// Surfaced to callers as the user-visible batch summary.
type IngestResult struct {
	PayloadsFound int
	Created       int
	Updated       int
	Skipped       int // malformed payloads that could not produce a record
	Errors        []string
}

// IngestService maps raw upstream payloads into canonical records and upserts
// them idempotently. Ingesting the same batch any number of times yields
// exactly one row per distinct fingerprint.
type IngestService struct {
	repo       Repository
	categories budget.CategoryRepository
}

// NewIngestService creates a new ingest service.
func NewIngestService(repo Repository, categories budget.CategoryRepository) *IngestService {
	return &IngestService{
		repo:       repo,
		categories: categories,
	}
}

// IngestBatch processes one batch of raw payloads. Malformed payloads are
// skipped and reported without aborting the rest; everything that mapped
// cleanly is upserted inside one transaction so a re-ingestion is never
// partially visible. now is the substitute timestamp for payloads that carry
// none.
func (s *IngestService) IngestBatch(ctx context.Context, payloads []map[string]any, now time.Time) *IngestResult {
	result := &IngestResult{
		PayloadsFound: len(payloads),
		Errors:        []string{},
	}

	var batch []UpsertParams
	var categories []*string // aligned with batch
	for i, payload := range payloads {
		rec, err := MapPayload(payload, now)
		if err != nil {
			if errors.Is(err, ErrMalformedPayload) {
				result.Skipped++
			}
			errMsg := fmt.Sprintf("failed to ingest payload %d: %v", i, err)
			result.Errors = append(result.Errors, errMsg)
			log.Printf("Error: %s", errMsg)
			continue
		}

		batch = append(batch, UpsertParams{
			ExternalID:   rec.ExternalID,
			AccountID:    rec.AccountID,
			ConnectionID: rec.ConnectionID,
			Fingerprint:  Fingerprint(rec),
			Amount:       rec.Amount,
			Description:  rec.Description,
			Day:          rec.Day,
			Kind:         rec.Kind,
			Category:     rec.Category,
			Merchant:     rec.Merchant,
		})
		categories = append(categories, rec.Category)
	}

	created, err := s.repo.UpsertBatch(ctx, batch)
	if err != nil {
		errMsg := fmt.Sprintf("failed to upsert batch: %v", err)
		result.Errors = append(result.Errors, errMsg)
		log.Printf("Error: %s", errMsg)
		return result
	}

	for i, isNew := range created {
		if !isNew {
			result.Updated++
			continue
		}
		result.Created++
		// Usage counters track first references only, so re-ingestion of the
		// same payload never inflates them.
		if cat := categories[i]; cat != nil {
			if _, err := s.categories.FindOrCreateByName(ctx, *cat); err != nil {
				log.Printf("Warning: failed to record category %q usage: %v", *cat, err)
			}
		}
	}

	log.Printf("Ingest completed: found=%d, created=%d, updated=%d, skipped=%d, errors=%d",
		result.PayloadsFound, result.Created, result.Updated, result.Skipped, len(result.Errors))

	return result
}
