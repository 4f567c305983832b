package feed

import (
	"context"
)

// ClientInterface defines the methods required from the upstream feed client
type ClientInterface interface {
	GetTransactions(ctx context.Context, apiKey string, page int) (*TransactionPage, error)
}
