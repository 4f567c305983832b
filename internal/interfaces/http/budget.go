package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"penny/internal/domain/budget"
)

type BudgetHandler struct {
	budgetRepo   budget.Repository
	categoryRepo budget.CategoryRepository
}

func NewBudgetHandler(budgetRepo budget.Repository, categoryRepo budget.CategoryRepository) *BudgetHandler {
	return &BudgetHandler{
		budgetRepo:   budgetRepo,
		categoryRepo: categoryRepo,
	}
}

type CreateBudgetRequest struct {
	Category    *string `json:"category,omitempty"`
	WeeklyLimit float64 `json:"weeklyLimit"`
	PeriodStart string  `json:"periodStart"`
	PeriodEnd   *string `json:"periodEnd,omitempty"`
}

// HandleBudgets routes requests to the appropriate handler based on method
func (h *BudgetHandler) HandleBudgets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleListBudgets(w, r)
	case http.MethodPost:
		h.handleCreateBudget(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleListBudgets returns the effective budget snapshot: the latest period
// per category as of today.
func (h *BudgetHandler) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := h.budgetRepo.ListLatestPeriods(r.Context(), time.Now().UTC())
	if err != nil {
		log.Printf("Error listing budgets: %v", err)
		http.Error(w, "Failed to list budgets", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(budgets)
}

func (h *BudgetHandler) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req CreateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding create budget request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	periodStart, err := time.Parse("2006-01-02", req.PeriodStart)
	if err != nil {
		http.Error(w, "Invalid periodStart format (use YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	var periodEnd *time.Time
	if req.PeriodEnd != nil {
		parsed, err := time.Parse("2006-01-02", *req.PeriodEnd)
		if err != nil {
			http.Error(w, "Invalid periodEnd format (use YYYY-MM-DD)", http.StatusBadRequest)
			return
		}
		periodEnd = &parsed
	}

	params := budget.CreateBudgetParams{
		Category:    req.Category,
		WeeklyLimit: req.WeeklyLimit,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
	}

	b, err := h.budgetRepo.Create(r.Context(), params)
	if err != nil {
		if errors.Is(err, budget.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error creating budget: %v", err)
		http.Error(w, "Failed to create budget", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(b)
}

// HandleDeleteBudget deletes a budget period
func (h *BudgetHandler) HandleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	budgetID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid budget ID", http.StatusBadRequest)
		return
	}

	b, err := h.budgetRepo.GetByID(r.Context(), budgetID)
	if err != nil {
		log.Printf("Error getting budget %d for deletion: %v", budgetID, err)
		http.Error(w, "Failed to get budget", http.StatusInternalServerError)
		return
	}
	if b == nil {
		http.Error(w, "Budget not found", http.StatusNotFound)
		return
	}

	if err := h.budgetRepo.Delete(r.Context(), budgetID); err != nil {
		log.Printf("Error deleting budget %d: %v", budgetID, err)
		http.Error(w, "Failed to delete budget", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleListCategories returns all known categories with usage counts.
func (h *BudgetHandler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	categories, err := h.categoryRepo.ListAll(r.Context())
	if err != nil {
		log.Printf("Error listing categories: %v", err)
		http.Error(w, "Failed to list categories", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(categories)
}
