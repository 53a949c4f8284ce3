package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// EmailGateway sends email through an HTTP messaging gateway
type EmailGateway struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewEmailGateway creates a new EmailGateway
func NewEmailGateway(baseURL, apiKey string) *EmailGateway {
	return &EmailGateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// SendEmail delivers one email via the gateway
func (g *EmailGateway) SendEmail(ctx context.Context, to, subject, body string) error {
	payload := map[string]string{
		"to":      to,
		"subject": subject,
		"body":    body,
	}

	return postJSON(ctx, g.httpClient, g.baseURL+"/v1/messages", g.apiKey, payload)
}

// SMSGateway sends SMS through an HTTP messaging gateway
type SMSGateway struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewSMSGateway creates a new SMSGateway
func NewSMSGateway(baseURL, apiKey string) *SMSGateway {
	return &SMSGateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// SendSMS delivers one SMS via the gateway
func (g *SMSGateway) SendSMS(ctx context.Context, to, message string) error {
	payload := map[string]string{
		"to":      to,
		"message": message,
	}

	return postJSON(ctx, g.httpClient, g.baseURL+"/v1/sms", g.apiKey, payload)
}

func postJSON(ctx context.Context, client *http.Client, url, apiKey string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
