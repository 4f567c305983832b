package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL   = "https://api.bankfeeds.dev/v1"
	defaultTimeout   = 180 * time.Second // large pulls can be slow upstream
	transactionsPath = "/transactions"
)

// Client handles communication with the upstream bank-transaction feed. The
// payload schema is opaque and heterogeneous across providers, so pages are
// returned as raw maps for the mapper to resolve.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a new feed client. An empty baseURL uses the default.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: baseURL,
	}
}

// TransactionPage represents one page of raw transaction payloads.
type TransactionPage struct {
	Success   bool             `json:"success"`
	Data      []map[string]any `json:"data"`
	Count     int              `json:"count"`
	Page      int              `json:"page"`
	HasMore   bool             `json:"hasMore"`
	Timestamp string           `json:"timestamp"`
}

// ErrorResponse represents an error response from the API.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// GetTransactions fetches one page of raw transaction payloads using the
// user's API key. Pages start at 1.
func (c *Client) GetTransactions(ctx context.Context, apiKey string, page int) (*TransactionPage, error) {
	url := fmt.Sprintf("%s%s?page=%d", c.baseURL, transactionsPath, page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", apiKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("API error (status %d): %s - %s", resp.StatusCode, errResp.Error, errResp.Message)
	}

	var pageResp TransactionPage
	if err := json.Unmarshal(body, &pageResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if !pageResp.Success {
		return nil, fmt.Errorf("API returned success=false")
	}

	return &pageResp, nil
}
