package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"penny/internal/domain/goal"
)

type GoalHandler struct {
	goalRepo goal.Repository
}

func NewGoalHandler(goalRepo goal.Repository) *GoalHandler {
	return &GoalHandler{goalRepo: goalRepo}
}

type CreateGoalRequest struct {
	Name               string             `json:"name"`
	Amount             float64            `json:"amount"`
	WeeklyContribution float64            `json:"weeklyContribution"`
	Kind               string             `json:"kind"`
	Recovery           *goal.RecoveryPlan `json:"recovery,omitempty"`
}

// HandleGoals routes requests to the appropriate handler based on method
func (h *GoalHandler) HandleGoals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleListGoals(w, r)
	case http.MethodPost:
		h.handleCreateGoal(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *GoalHandler) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.goalRepo.ListAll(r.Context())
	if err != nil {
		log.Printf("Error listing goals: %v", err)
		http.Error(w, "Failed to list goals", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(goals)
}

func (h *GoalHandler) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding create goal request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	params := goal.CreateGoalParams{
		Name:               req.Name,
		Amount:             req.Amount,
		WeeklyContribution: req.WeeklyContribution,
		Kind:               req.Kind,
		Recovery:           req.Recovery,
	}

	if err := params.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g, err := h.goalRepo.Create(r.Context(), params)
	if err != nil {
		log.Printf("Error creating goal %q: %v", req.Name, err)
		http.Error(w, "Failed to create goal", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(g)
}

type GoalProgressResponse struct {
	Goal         *goal.Goal            `json:"goal"`
	WeeklyTarget float64               `json:"weeklyTarget"`
	Entries      []*goal.ProgressEntry `json:"entries"`
}

// HandleGoalProgress returns a goal with its full week-by-week crediting log.
func (h *GoalHandler) HandleGoalProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	goalID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid goal ID", http.StatusBadRequest)
		return
	}

	g, err := h.goalRepo.GetByID(r.Context(), goalID)
	if err != nil {
		log.Printf("Error getting goal %d: %v", goalID, err)
		http.Error(w, "Failed to get goal", http.StatusInternalServerError)
		return
	}
	if g == nil {
		http.Error(w, "Goal not found", http.StatusNotFound)
		return
	}

	entries, err := h.goalRepo.ListProgress(r.Context(), goalID)
	if err != nil {
		log.Printf("Error listing progress for goal %d: %v", goalID, err)
		http.Error(w, "Failed to list goal progress", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(GoalProgressResponse{
		Goal:         g,
		WeeklyTarget: g.WeeklyTarget(),
		Entries:      entries,
	})
}
