package main

import (
	"log"

	"penny/internal/domain/goal"
	"penny/internal/domain/insights"
	"penny/internal/domain/ledger"
	"penny/internal/infrastructure/feed"
	"penny/internal/infrastructure/postgres"
	httphandlers "penny/internal/interfaces/http"
	"penny/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	RefreshHandler     *httphandlers.RefreshHandler
	InsightsHandler    *httphandlers.InsightsHandler
	GoalHandler        *httphandlers.GoalHandler
	ObligationHandler  *httphandlers.ObligationHandler
	TransactionHandler *httphandlers.TransactionHandler
	BudgetHandler      *httphandlers.BudgetHandler
}

// NewDependencies initializes all application dependencies.
func NewDependencies(cfg *config.Config) (*Dependencies, error) {
	// Connect to database
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	// Initialize repositories
	ledgerRepo := postgres.NewLedgerRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	budgetRepo := postgres.NewBudgetRepository(db)
	goalRepo := postgres.NewGoalRepository(db)
	obligationRepo := postgres.NewRecurringRepository(db)
	reportRepo := postgres.NewReportRepository(db)

	// Initialize domain services
	ingestService := ledger.NewIngestService(ledgerRepo, categoryRepo)
	creditingService := goal.NewCreditingService(goalRepo)
	insightsService := insights.NewService(ledgerRepo, budgetRepo, goalRepo, creditingService, reportRepo)

	// Initialize feed client
	feedClient := feed.NewClient(cfg.Feed.BaseURL)

	// Initialize handlers
	refreshHandler := httphandlers.NewRefreshHandler(feedClient, ingestService, insightsService, cfg.Feed.APIKey, cfg.Feed.MaxPages)
	insightsHandler := httphandlers.NewInsightsHandler(insightsService, reportRepo)
	goalHandler := httphandlers.NewGoalHandler(goalRepo)
	obligationHandler := httphandlers.NewObligationHandler(obligationRepo)
	transactionHandler := httphandlers.NewTransactionHandler(ledgerRepo)
	budgetHandler := httphandlers.NewBudgetHandler(budgetRepo, categoryRepo)

	return &Dependencies{
		DB:                 db,
		RefreshHandler:     refreshHandler,
		InsightsHandler:    insightsHandler,
		GoalHandler:        goalHandler,
		ObligationHandler:  obligationHandler,
		TransactionHandler: transactionHandler,
		BudgetHandler:      budgetHandler,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
