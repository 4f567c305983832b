package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"penny/internal/domain/ledger"
)

type TransactionHandler struct {
	ledgerRepo ledger.Repository
}

func NewTransactionHandler(ledgerRepo ledger.Repository) *TransactionHandler {
	return &TransactionHandler{ledgerRepo: ledgerRepo}
}

// HandleListTransactions returns canonical ledger records, newest first.
func (h *TransactionHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Parse pagination parameters
	limit := 50
	offset := 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if parsedOffset, err := strconv.Atoi(offsetStr); err == nil && parsedOffset >= 0 {
			offset = parsedOffset
		}
	}

	records, err := h.ledgerRepo.List(r.Context(), limit, offset)
	if err != nil {
		log.Printf("Error listing ledger records: %v", err)
		http.Error(w, "Failed to list transactions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

type ExcludeTransactionRequest struct {
	Excluded bool `json:"excluded"`
}

// HandleExcludeTransaction flips the user-controlled exclusion flag on one
// record. Excluded records stay in the ledger but drop out of weekly math.
func (h *TransactionHandler) HandleExcludeTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	recordID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid transaction ID", http.StatusBadRequest)
		return
	}

	var req ExcludeTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding exclude transaction request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	record, err := h.ledgerRepo.SetExcluded(r.Context(), recordID, req.Excluded)
	if err != nil {
		if errors.Is(err, ledger.ErrRecordNotFound) {
			http.Error(w, "Transaction not found", http.StatusNotFound)
			return
		}
		log.Printf("Error setting exclusion on record %d: %v", recordID, err)
		http.Error(w, "Failed to update transaction", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record)
}
