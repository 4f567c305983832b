package http

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"penny/internal/domain/insights"
)

type InsightsHandler struct {
	insights *insights.Service
	archive  insights.Archive
}

func NewInsightsHandler(insightsService *insights.Service, archive insights.Archive) *InsightsHandler {
	return &InsightsHandler{
		insights: insightsService,
		archive:  archive,
	}
}

// HandleCurrentWeek returns the live summary for the in-progress week,
// computed from the ledger on every call.
func (h *InsightsHandler) HandleCurrentWeek(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	win := insights.PartialWeek(time.Now().UTC())
	summary, err := h.insights.Summarize(r.Context(), win)
	if err != nil {
		log.Printf("Error summarizing current week: %v", err)
		http.Error(w, "Failed to summarize current week", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// HandleListReports returns all archived weekly reports, newest first.
func (h *InsightsHandler) HandleListReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	reports, err := h.archive.GetAll(r.Context())
	if err != nil {
		log.Printf("Error listing reports: %v", err)
		http.Error(w, "Failed to list reports", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reports)
}

// HandleReportByWeek returns the archived report for one week start
// (YYYY-MM-DD, a Monday).
func (h *InsightsHandler) HandleReportByWeek(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	weekParam := r.PathValue("weekStart")
	if weekParam == "" {
		http.Error(w, "Week start is required", http.StatusBadRequest)
		return
	}

	weekStart, err := time.Parse("2006-01-02", weekParam)
	if err != nil {
		http.Error(w, "Invalid week start format (use YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	report, err := h.archive.GetByWeek(r.Context(), weekStart)
	if err != nil {
		log.Printf("Error getting report for week %s: %v", weekParam, err)
		http.Error(w, "Failed to get report", http.StatusInternalServerError)
		return
	}
	if report == nil {
		http.Error(w, "Report not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}
