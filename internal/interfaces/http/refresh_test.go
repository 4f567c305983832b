package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"penny/internal/domain/budget"
	"penny/internal/domain/goal"
	"penny/internal/domain/insights"
	"penny/internal/domain/ledger"
	"penny/internal/infrastructure/feed"
)

// MockFeedClient implements feed.ClientInterface for testing
type MockFeedClient struct {
	GetTransactionsFunc func(ctx context.Context, apiKey string, page int) (*feed.TransactionPage, error)
}

func (m *MockFeedClient) GetTransactions(ctx context.Context, apiKey string, page int) (*feed.TransactionPage, error) {
	return m.GetTransactionsFunc(ctx, apiKey, page)
}

// MockCategoryRepo implements budget.CategoryRepository for testing
type MockCategoryRepo struct{}

func (m *MockCategoryRepo) FindOrCreateByName(ctx context.Context, name string) (*budget.Category, error) {
	return &budget.Category{ID: 1, Name: name}, nil
}

func (m *MockCategoryRepo) GetByName(ctx context.Context, name string) (*budget.Category, error) {
	return nil, nil
}

func (m *MockCategoryRepo) ListAll(ctx context.Context) ([]*budget.Category, error) {
	return nil, nil
}

// MockBudgetRepo implements budget.Repository for testing
type MockBudgetRepo struct{}

func (m *MockBudgetRepo) Create(ctx context.Context, params budget.CreateBudgetParams) (*budget.Budget, error) {
	return nil, nil
}

func (m *MockBudgetRepo) GetByID(ctx context.Context, id int64) (*budget.Budget, error) {
	return nil, nil
}

func (m *MockBudgetRepo) ListLatestPeriods(ctx context.Context, asOf time.Time) ([]*budget.Budget, error) {
	return nil, nil
}

func (m *MockBudgetRepo) ListByCategory(ctx context.Context, category string) ([]*budget.Budget, error) {
	return nil, nil
}

func (m *MockBudgetRepo) Delete(ctx context.Context, id int64) error {
	return nil
}

// MockGoalRepo implements goal.Repository with an in-memory progress log
type MockGoalRepo struct {
	mu      sync.Mutex
	entries map[string]*goal.ProgressEntry
}

func NewMockGoalRepo() *MockGoalRepo {
	return &MockGoalRepo{entries: make(map[string]*goal.ProgressEntry)}
}

func (m *MockGoalRepo) Create(ctx context.Context, params goal.CreateGoalParams) (*goal.Goal, error) {
	return nil, nil
}

func (m *MockGoalRepo) GetByID(ctx context.Context, id int64) (*goal.Goal, error) {
	return nil, nil
}

func (m *MockGoalRepo) ListActive(ctx context.Context) ([]*goal.Goal, error) {
	return nil, nil
}

func (m *MockGoalRepo) ListAll(ctx context.Context) ([]*goal.Goal, error) {
	return nil, nil
}

func (m *MockGoalRepo) CreditSaved(ctx context.Context, id int64, delta float64, completed bool) (*goal.Goal, error) {
	return nil, nil
}

func (m *MockGoalRepo) GetProgressEntry(ctx context.Context, goalID int64, weekStart time.Time) (*goal.ProgressEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[weekStart.Format("2006-01-02")], nil
}

func (m *MockGoalRepo) InsertProgressEntry(ctx context.Context, entry goal.ProgressEntry) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := entry.WeekStart.Format("2006-01-02")
	if _, ok := m.entries[key]; ok {
		return false, nil
	}
	e := entry
	m.entries[key] = &e
	return true, nil
}

func (m *MockGoalRepo) ListProgress(ctx context.Context, goalID int64) ([]*goal.ProgressEntry, error) {
	return nil, nil
}

func (m *MockGoalRepo) ListProgressByWeek(ctx context.Context, weekStart time.Time) ([]*goal.ProgressEntry, error) {
	return nil, nil
}

// MockArchive implements insights.Archive for testing
type MockArchive struct {
	reports map[string]*insights.WeeklyReport
}

func NewMockArchive() *MockArchive {
	return &MockArchive{reports: make(map[string]*insights.WeeklyReport)}
}

func (m *MockArchive) Upsert(ctx context.Context, report *insights.WeeklyReport) error {
	m.reports[report.WeekStart.Format("2006-01-02")] = report
	return nil
}

func (m *MockArchive) GetByWeek(ctx context.Context, weekStart time.Time) (*insights.WeeklyReport, error) {
	return m.reports[weekStart.Format("2006-01-02")], nil
}

func (m *MockArchive) GetAll(ctx context.Context) ([]*insights.WeeklyReport, error) {
	var out []*insights.WeeklyReport
	for _, report := range m.reports {
		out = append(out, report)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart.After(out[j].WeekStart) })
	return out, nil
}

func newRefreshFixture(feedClient feed.ClientInterface, apiKey string) (*RefreshHandler, *MockArchive) {
	store := make(map[string]*ledger.Record)
	ledgerRepo := &MockLedgerRepo{
		UpsertBatchFunc: func(ctx context.Context, batch []ledger.UpsertParams) ([]bool, error) {
			created := make([]bool, len(batch))
			for i, params := range batch {
				if _, ok := store[params.Fingerprint]; !ok {
					created[i] = true
				}
				store[params.Fingerprint] = &ledger.Record{ID: int64(len(store) + 1), Fingerprint: params.Fingerprint, Amount: params.Amount, Day: params.Day, Kind: params.Kind}
			}
			return created, nil
		},
		ListByDayRangeFunc: func(ctx context.Context, from, to time.Time) ([]*ledger.Record, error) {
			var out []*ledger.Record
			for _, rec := range store {
				out = append(out, rec)
			}
			return out, nil
		},
	}

	ingest := ledger.NewIngestService(ledgerRepo, &MockCategoryRepo{})
	goalRepo := NewMockGoalRepo()
	archive := NewMockArchive()
	insightsService := insights.NewService(ledgerRepo, &MockBudgetRepo{}, goalRepo, goal.NewCreditingService(goalRepo), archive)

	return NewRefreshHandler(feedClient, ingest, insightsService, apiKey, 10), archive
}

func TestHandleRefresh(t *testing.T) {
	today := time.Now().UTC().Format("2006-01-02")

	feedClient := &MockFeedClient{
		GetTransactionsFunc: func(ctx context.Context, apiKey string, page int) (*feed.TransactionPage, error) {
			switch page {
			case 1:
				return &feed.TransactionPage{
					Success: true,
					Data: []map[string]any{
						{"id": "tx-1", "accountId": "acc-1", "amount": -9.5, "description": "lunch", "date": today},
					},
					HasMore: true,
				}, nil
			default:
				return &feed.TransactionPage{
					Success: true,
					Data: []map[string]any{
						{"id": "tx-2", "accountId": "acc-1", "amount": 100.0, "description": "refund", "date": today},
					},
					HasMore: false,
				}, nil
			}
		},
	}

	handler, archive := newRefreshFixture(feedClient, "key-1")

	req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	rr := httptest.NewRecorder()
	handler.HandleRefresh(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var resp RefreshResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.PagesFetched != 2 {
		t.Errorf("PagesFetched = %d, want 2", resp.PagesFetched)
	}
	if resp.Created != 2 {
		t.Errorf("Created = %d, want 2", resp.Created)
	}
	if len(resp.ClosedWeeks) != 1 {
		t.Errorf("ClosedWeeks = %v, want only the previous week on an empty archive", resp.ClosedWeeks)
	}

	// Both the freshly closed previous week and the current-week snapshot are
	// archived.
	if len(archive.reports) != 2 {
		t.Errorf("archived reports = %d, want 2", len(archive.reports))
	}
}

func TestHandleRefresh_BackfillsMissedWeeks(t *testing.T) {
	feedClient := &MockFeedClient{
		GetTransactionsFunc: func(ctx context.Context, apiKey string, page int) (*feed.TransactionPage, error) {
			return &feed.TransactionPage{Success: true, HasMore: false}, nil
		},
	}

	handler, archive := newRefreshFixture(feedClient, "key-1")

	// The last refresh ran three weeks ago and left a current-week snapshot
	// behind; the two weeks since then were never closed.
	now := time.Now().UTC()
	staleWeek := insights.WeekStart(now.AddDate(0, 0, -21))
	archive.reports[staleWeek.Format("2006-01-02")] = &insights.WeeklyReport{WeekStart: staleWeek}

	req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	rr := httptest.NewRecorder()
	handler.HandleRefresh(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var resp RefreshResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	// Weeks -3 (re-closed), -2 and -1 each get a close, oldest first.
	want := []string{
		staleWeek.Format("2006-01-02"),
		staleWeek.AddDate(0, 0, 7).Format("2006-01-02"),
		staleWeek.AddDate(0, 0, 14).Format("2006-01-02"),
	}
	if len(resp.ClosedWeeks) != len(want) {
		t.Fatalf("ClosedWeeks = %v, want %v", resp.ClosedWeeks, want)
	}
	for i, week := range want {
		if resp.ClosedWeeks[i] != week {
			t.Errorf("ClosedWeeks[%d] = %s, want %s", i, resp.ClosedWeeks[i], week)
		}
	}

	// Three closed weeks plus the current-week snapshot.
	if len(archive.reports) != 4 {
		t.Errorf("archived reports = %d, want 4", len(archive.reports))
	}
}

func TestHandleRefresh_NoAPIKey(t *testing.T) {
	handler, _ := newRefreshFixture(&MockFeedClient{}, "")

	req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	rr := httptest.NewRecorder()
	handler.HandleRefresh(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestHandleRefresh_FeedError(t *testing.T) {
	feedClient := &MockFeedClient{
		GetTransactionsFunc: func(ctx context.Context, apiKey string, page int) (*feed.TransactionPage, error) {
			return nil, context.DeadlineExceeded
		},
	}
	handler, _ := newRefreshFixture(feedClient, "key-1")

	req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	rr := httptest.NewRecorder()
	handler.HandleRefresh(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rr.Code)
	}
}
