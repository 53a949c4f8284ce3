package crm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TokenProvider supplies an access token for the CRM's reporting API.
// How the token is obtained (OAuth, session, service account) is not the
// pipeline's concern.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenProvider backed by a fixed token
type StaticToken string

// Token returns the fixed token
func (s StaticToken) Token(context.Context) (string, error) {
	return string(s), nil
}

// Client fetches tabular reports from the CRM's reporting API
type Client struct {
	baseURL    string
	tokens     TokenProvider
	httpClient *http.Client
}

// NewClient creates a new CRM report client
func NewClient(baseURL string, tokens TokenProvider) *Client {
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchReport fetches a report by ID. Any transport or non-2xx failure
// is returned as an error; the caller treats it as fatal for the run.
func (c *Client) FetchReport(ctx context.Context, reportID string) (*ReportPayload, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain CRM token: %w", err)
	}

	url := fmt.Sprintf("%s/services/reports/%s", c.baseURL, reportID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch report %s: %w", reportID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("report %s fetch returned status %d: %s", reportID, resp.StatusCode, string(body))
	}

	var payload ReportPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", reportID, err)
	}

	payload.ReportID = reportID

	return &payload, nil
}
