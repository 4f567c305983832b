package ledger

import (
	"context"
	"testing"
	"time"

	"penny/internal/domain/budget"
)

// MockLedgerRepo implements Repository for testing
type MockLedgerRepo struct {
	GetByIDFunc        func(ctx context.Context, id int64) (*Record, error)
	UpsertBatchFunc    func(ctx context.Context, batch []UpsertParams) ([]bool, error)
	ListByDayRangeFunc func(ctx context.Context, from, to time.Time) ([]*Record, error)
	ListFunc           func(ctx context.Context, limit, offset int) ([]*Record, error)
	SetExcludedFunc    func(ctx context.Context, id int64, excluded bool) (*Record, error)
}

func (m *MockLedgerRepo) GetByID(ctx context.Context, id int64) (*Record, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockLedgerRepo) UpsertBatch(ctx context.Context, batch []UpsertParams) ([]bool, error) {
	return m.UpsertBatchFunc(ctx, batch)
}

func (m *MockLedgerRepo) ListByDayRange(ctx context.Context, from, to time.Time) ([]*Record, error) {
	return m.ListByDayRangeFunc(ctx, from, to)
}

func (m *MockLedgerRepo) List(ctx context.Context, limit, offset int) ([]*Record, error) {
	return m.ListFunc(ctx, limit, offset)
}

func (m *MockLedgerRepo) SetExcluded(ctx context.Context, id int64, excluded bool) (*Record, error) {
	return m.SetExcludedFunc(ctx, id, excluded)
}

// MockCategoryRepo implements budget.CategoryRepository for testing
type MockCategoryRepo struct {
	FindOrCreateByNameFunc func(ctx context.Context, name string) (*budget.Category, error)
	GetByNameFunc          func(ctx context.Context, name string) (*budget.Category, error)
	ListAllFunc            func(ctx context.Context) ([]*budget.Category, error)
}

func (m *MockCategoryRepo) FindOrCreateByName(ctx context.Context, name string) (*budget.Category, error) {
	return m.FindOrCreateByNameFunc(ctx, name)
}

func (m *MockCategoryRepo) GetByName(ctx context.Context, name string) (*budget.Category, error) {
	return m.GetByNameFunc(ctx, name)
}

func (m *MockCategoryRepo) ListAll(ctx context.Context) ([]*budget.Category, error) {
	return m.ListAllFunc(ctx)
}

// ingestFixture builds an ingest service over an in-memory fingerprint map so
// repeated batches exercise the created/updated split. batchCalls counts
// UpsertBatch invocations: one ingested batch means one call.
func ingestFixture() (*IngestService, map[string]*Record, *[]string, *int) {
	store := make(map[string]*Record)
	var categoryCalls []string
	var batchCalls int

	repo := &MockLedgerRepo{
		UpsertBatchFunc: func(ctx context.Context, batch []UpsertParams) ([]bool, error) {
			batchCalls++
			created := make([]bool, len(batch))
			for i, params := range batch {
				existing, ok := store[params.Fingerprint]
				rec := &Record{
					ID:          int64(len(store) + 1),
					Fingerprint: params.Fingerprint,
					AccountID:   params.AccountID,
					Amount:      params.Amount,
					Description: params.Description,
					Day:         params.Day,
					Kind:        params.Kind,
					Category:    params.Category,
				}
				if ok {
					rec.ID = existing.ID
					rec.Excluded = existing.Excluded
				} else {
					created[i] = true
				}
				store[params.Fingerprint] = rec
			}
			return created, nil
		},
	}

	categories := &MockCategoryRepo{
		FindOrCreateByNameFunc: func(ctx context.Context, name string) (*budget.Category, error) {
			categoryCalls = append(categoryCalls, name)
			return &budget.Category{ID: 1, Name: name}, nil
		},
	}

	return NewIngestService(repo, categories), store, &categoryCalls, &batchCalls
}

func TestIngestBatch_CreatesRecords(t *testing.T) {
	svc, store, categoryCalls, batchCalls := ingestFixture()

	payloads := []map[string]any{
		{"id": "tx-1", "accountId": "acc-1", "amount": -20.0, "description": "groceries", "date": "2025-03-03", "category": map[string]any{"name": "Food"}},
		{"id": "tx-2", "accountId": "acc-1", "amount": 1500.0, "description": "salary", "date": "2025-03-04"},
	}

	result := svc.IngestBatch(context.Background(), payloads, testNow)

	if result.PayloadsFound != 2 {
		t.Errorf("PayloadsFound = %d, want 2", result.PayloadsFound)
	}
	if result.Created != 2 {
		t.Errorf("Created = %d, want 2", result.Created)
	}
	if result.Updated != 0 {
		t.Errorf("Updated = %d, want 0", result.Updated)
	}
	if len(result.Errors) != 0 {
		t.Errorf("Errors = %v, want none", result.Errors)
	}
	if len(store) != 2 {
		t.Errorf("store size = %d, want 2", len(store))
	}
	if len(*categoryCalls) != 1 || (*categoryCalls)[0] != "Food" {
		t.Errorf("category usage calls = %v, want [Food]", *categoryCalls)
	}
	if *batchCalls != 1 {
		t.Errorf("UpsertBatch calls = %d, want the whole batch in one transaction", *batchCalls)
	}
}

func TestIngestBatch_IsIdempotent(t *testing.T) {
	svc, store, categoryCalls, _ := ingestFixture()

	payloads := []map[string]any{
		{"id": "tx-1", "accountId": "acc-1", "amount": -20.0, "description": "groceries", "date": "2025-03-03", "category": map[string]any{"name": "Food"}},
	}

	first := svc.IngestBatch(context.Background(), payloads, testNow)
	second := svc.IngestBatch(context.Background(), payloads, testNow)

	if first.Created != 1 || first.Updated != 0 {
		t.Errorf("first pass: created=%d updated=%d, want 1/0", first.Created, first.Updated)
	}
	if second.Created != 0 || second.Updated != 1 {
		t.Errorf("second pass: created=%d updated=%d, want 0/1", second.Created, second.Updated)
	}
	if len(store) != 1 {
		t.Errorf("store size = %d, want exactly one row per fingerprint", len(store))
	}
	// Usage counters track first references only
	if len(*categoryCalls) != 1 {
		t.Errorf("category usage calls = %d, want 1", len(*categoryCalls))
	}
}

func TestIngestBatch_ExclusionSurvivesReingestion(t *testing.T) {
	svc, store, _, _ := ingestFixture()

	payloads := []map[string]any{
		{"id": "tx-1", "accountId": "acc-1", "amount": -20.0, "description": "groceries", "date": "2025-03-03"},
	}

	svc.IngestBatch(context.Background(), payloads, testNow)

	// User excludes the record between pulls.
	for _, rec := range store {
		rec.Excluded = true
	}

	svc.IngestBatch(context.Background(), payloads, testNow)

	for _, rec := range store {
		if !rec.Excluded {
			t.Error("exclusion flag should survive re-ingestion")
		}
	}
}

func TestIngestBatch_MalformedPayloadSkipped(t *testing.T) {
	svc, store, _, batchCalls := ingestFixture()

	payloads := []map[string]any{
		{"id": "tx-1", "amount": "not a number", "description": "broken"},
		{"id": "tx-2", "accountId": "acc-1", "amount": -5.0, "description": "ok", "date": "2025-03-03"},
	}

	result := svc.IngestBatch(context.Background(), payloads, testNow)

	if result.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", result.Skipped)
	}
	if result.Created != 1 {
		t.Errorf("Created = %d, want 1", result.Created)
	}
	if len(result.Errors) != 1 {
		t.Errorf("Errors = %v, want one entry", result.Errors)
	}
	if len(store) != 1 {
		t.Errorf("store size = %d, want 1; bad payloads must not abort the batch", len(store))
	}
	if *batchCalls != 1 {
		t.Errorf("UpsertBatch calls = %d, want 1; malformed payloads are dropped before the transaction", *batchCalls)
	}
}
