package http

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"penny/internal/domain/insights"
	"penny/internal/domain/ledger"
	"penny/internal/infrastructure/feed"
)

type RefreshHandler struct {
	feedClient feed.ClientInterface
	ingest     *ledger.IngestService
	insights   *insights.Service
	apiKey     string
	maxPages   int
}

func NewRefreshHandler(feedClient feed.ClientInterface, ingest *ledger.IngestService, insightsService *insights.Service, apiKey string, maxPages int) *RefreshHandler {
	return &RefreshHandler{
		feedClient: feedClient,
		ingest:     ingest,
		insights:   insightsService,
		apiKey:     apiKey,
		maxPages:   maxPages,
	}
}

type RefreshResponse struct {
	PagesFetched  int      `json:"pagesFetched"`
	PayloadsFound int      `json:"payloadsFound"`
	Created       int      `json:"created"`
	Updated       int      `json:"updated"`
	Skipped       int      `json:"skipped"`
	ClosedWeeks   []string `json:"closedWeeks"`
	CurrentWeek   string   `json:"currentWeek"`
	Errors        []string `json:"errors"`
}

// HandleRefresh pulls all pending pages from the upstream feed, ingests them,
// re-closes the previous week, and refreshes the current-week snapshot.
func (h *RefreshHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.apiKey == "" {
		http.Error(w, "No feed API key configured", http.StatusBadRequest)
		return
	}

	now := time.Now().UTC()
	var payloads []map[string]any
	pagesFetched := 0

	for page := 1; page <= h.maxPages; page++ {
		pageResp, err := h.feedClient.GetTransactions(r.Context(), h.apiKey, page)
		if err != nil {
			log.Printf("Error fetching feed page %d: %v", page, err)
			http.Error(w, "Failed to fetch transactions from feed", http.StatusBadGateway)
			return
		}

		payloads = append(payloads, pageResp.Data...)
		pagesFetched++

		if !pageResp.HasMore {
			break
		}
	}

	result := h.ingest.IngestBatch(r.Context(), payloads, now)

	// Every closed week since the last archived one is (re-)closed, so a
	// refresh after a long gap still logs crediting decisions for the weeks
	// in between, and late arrivals for the newest archived week fold in.
	previousWeek := now.AddDate(0, 0, -7)
	closedReports, err := h.insights.CloseWeeksThrough(r.Context(), previousWeek, now)
	if err != nil {
		log.Printf("Error closing weeks through %s: %v", previousWeek.Format("2006-01-02"), err)
		http.Error(w, "Failed to close previous weeks", http.StatusInternalServerError)
		return
	}

	currentReport, err := h.insights.SnapshotCurrentWeek(r.Context(), now)
	if err != nil {
		log.Printf("Error snapshotting current week: %v", err)
		http.Error(w, "Failed to snapshot current week", http.StatusInternalServerError)
		return
	}

	closedWeeks := make([]string, 0, len(closedReports))
	for _, report := range closedReports {
		closedWeeks = append(closedWeeks, report.WeekStart.Format("2006-01-02"))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(RefreshResponse{
		PagesFetched:  pagesFetched,
		PayloadsFound: result.PayloadsFound,
		Created:       result.Created,
		Updated:       result.Updated,
		Skipped:       result.Skipped,
		ClosedWeeks:   closedWeeks,
		CurrentWeek:   currentReport.WeekStart.Format("2006-01-02"),
		Errors:        result.Errors,
	})
}
