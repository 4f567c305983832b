package main

import (
	"log"
	"net/http"

	httphandlers "penny/internal/interfaces/http"
	"penny/internal/shared/config"
	"penny/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", httphandlers.HandleHealth)

	// Ingestion
	mux.HandleFunc("/api/refresh", deps.RefreshHandler.HandleRefresh)

	// Insights and report archive
	mux.HandleFunc("/api/insights/current", deps.InsightsHandler.HandleCurrentWeek)
	mux.HandleFunc("/api/reports/", deps.InsightsHandler.HandleListReports)
	mux.HandleFunc("/api/reports/{weekStart}", deps.InsightsHandler.HandleReportByWeek)

	// Ledger records
	mux.HandleFunc("/api/transactions/", deps.TransactionHandler.HandleListTransactions)
	mux.HandleFunc("/api/transactions/{id}/exclude", deps.TransactionHandler.HandleExcludeTransaction)

	// Goals
	mux.HandleFunc("/api/goals/", deps.GoalHandler.HandleGoals)
	mux.HandleFunc("/api/goals/{id}/progress", deps.GoalHandler.HandleGoalProgress)

	// Recurring obligations
	mux.HandleFunc("/api/obligations/", deps.ObligationHandler.HandleObligations)
	mux.HandleFunc("/api/obligations/due", deps.ObligationHandler.HandleDueObligations)
	mux.HandleFunc("/api/obligations/{id}", deps.ObligationHandler.HandleDeleteObligation)

	// Budgets and categories
	mux.HandleFunc("/api/budgets/", deps.BudgetHandler.HandleBudgets)
	mux.HandleFunc("/api/budgets/{id}", deps.BudgetHandler.HandleDeleteBudget)
	mux.HandleFunc("/api/categories/", deps.BudgetHandler.HandleListCategories)

	// Apply global middleware
	var handler http.Handler = mux
	if cfg.Telemetry.Enabled {
		handler = middleware.Telemetry(middleware.Tracing(handler))
	}
	handler = middleware.Logging(middleware.CORS(cfg.Server.AllowedHosts)(handler))

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(handler)
		log.Println("TLS security middleware enabled (HSTS)")
	}

	return handler
}
