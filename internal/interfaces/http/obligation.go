package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"penny/internal/domain/recurring"
)

type ObligationHandler struct {
	obligationRepo recurring.Repository
}

func NewObligationHandler(obligationRepo recurring.Repository) *ObligationHandler {
	return &ObligationHandler{obligationRepo: obligationRepo}
}

type CreateObligationRequest struct {
	Label     string  `json:"label"`
	Category  *string `json:"category,omitempty"`
	Amount    float64 `json:"amount"`
	Frequency string  `json:"frequency"`
	NextDue   string  `json:"nextDue"`
}

// HandleObligations routes requests to the appropriate handler based on method
func (h *ObligationHandler) HandleObligations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleListObligations(w, r)
	case http.MethodPost:
		h.handleCreateObligation(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ObligationHandler) handleListObligations(w http.ResponseWriter, r *http.Request) {
	obligations, err := h.obligationRepo.ListAll(r.Context())
	if err != nil {
		log.Printf("Error listing obligations: %v", err)
		http.Error(w, "Failed to list obligations", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(obligations)
}

func (h *ObligationHandler) handleCreateObligation(w http.ResponseWriter, r *http.Request) {
	var req CreateObligationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding create obligation request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	params := recurring.CreateParams{
		Label:     req.Label,
		Category:  req.Category,
		Amount:    req.Amount,
		Frequency: req.Frequency,
		NextDue:   req.NextDue,
	}

	if err := params.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ob, err := h.obligationRepo.Create(r.Context(), params)
	if err != nil {
		log.Printf("Error creating obligation %q: %v", req.Label, err)
		http.Error(w, "Failed to create obligation", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ob)
}

// HandleDeleteObligation deletes an obligation
func (h *ObligationHandler) HandleDeleteObligation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	obligationID := r.PathValue("id")
	if obligationID == "" {
		http.Error(w, "Obligation ID is required", http.StatusBadRequest)
		return
	}

	ob, err := h.obligationRepo.GetByID(r.Context(), obligationID)
	if err != nil {
		log.Printf("Error getting obligation %s for deletion: %v", obligationID, err)
		http.Error(w, "Failed to get obligation", http.StatusInternalServerError)
		return
	}
	if ob == nil {
		http.Error(w, "Obligation not found", http.StatusNotFound)
		return
	}

	if err := h.obligationRepo.Delete(r.Context(), obligationID); err != nil {
		log.Printf("Error deleting obligation %s: %v", obligationID, err)
		http.Error(w, "Failed to delete obligation", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDueObligations returns obligations due within the requested number of
// calendar days (default 7).
func (h *ObligationHandler) HandleDueObligations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	within := 7
	if withinStr := r.URL.Query().Get("within"); withinStr != "" {
		parsed, err := strconv.Atoi(withinStr)
		if err != nil || parsed < 0 {
			http.Error(w, "Invalid within parameter", http.StatusBadRequest)
			return
		}
		within = parsed
	}

	obligations, err := h.obligationRepo.ListAll(r.Context())
	if err != nil {
		log.Printf("Error listing obligations for due check: %v", err)
		http.Error(w, "Failed to list obligations", http.StatusInternalServerError)
		return
	}

	upcoming := recurring.DueWithin(obligations, within, time.Now().UTC())
	if upcoming == nil {
		upcoming = []recurring.Upcoming{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(upcoming)
}
