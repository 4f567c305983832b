package ledger

import (
	"errors"
	"time"
)

// Record kinds
const (
	KindIncome   = "INCOME"
	KindExpense  = "EXPENSE"
	KindTransfer = "TRANSFER"
)

// Domain errors
var (
	// ErrMalformedPayload marks an upstream payload that cannot produce a
	// record (the amount is missing or unparseable). Malformed payloads are
	// skipped and counted; they never abort a batch.
	ErrMalformedPayload = errors.New("malformed payload")

	ErrRecordNotFound = errors.New("record not found")
)

// Record represents one canonical ledger transaction. Immutable once ingested
// except for the user-controlled Excluded flag and category corrections.
type Record struct {
	ID           int64     `json:"id"`
	ExternalID   string    `json:"externalId"`
	AccountID    string    `json:"accountId"`
	ConnectionID string    `json:"connectionId"`
	Fingerprint  string    `json:"fingerprint"`
	Amount       float64   `json:"amount"` // signed: negative for outflows
	Description  string    `json:"description"`
	Day          time.Time `json:"day"` // calendar day, UTC midnight
	Kind         string    `json:"kind"`
	Category     *string   `json:"category,omitempty"`
	Merchant     *string   `json:"merchant,omitempty"`
	Excluded     bool      `json:"excluded"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UpsertParams contains the mapper-derived fields stored for a record. The
// Excluded flag is deliberately absent: re-ingestion must never touch it.
type UpsertParams struct {
	ExternalID   string
	AccountID    string
	ConnectionID string
	Fingerprint  string
	Amount       float64
	Description  string
	Day          time.Time
	Kind         string
	Category     *string
	Merchant     *string
}
