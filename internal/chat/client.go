// ABOUTME: HTTP client for the assistant's streaming completion endpoint
// ABOUTME: Sends the query with stream mode on and classifies upstream failures
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ClientConfig holds configuration for the streaming chat client.
// Endpoint and token are passed explicitly so the client stays
// testable in isolation.
type ClientConfig struct {
	Endpoint   string
	Token      string
	HTTPClient *http.Client
}

// Client issues streaming completion requests
type Client struct {
	endpoint string
	token    string
	http     *http.Client
}

// NewClient creates a streaming chat client
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("chat: endpoint is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		// No client timeout: stream reads are long-lived. Callers bound
		// latency with their own context deadline.
		httpClient = &http.Client{}
	}
	return &Client{
		endpoint: cfg.Endpoint,
		token:    cfg.Token,
		http:     httpClient,
	}, nil
}

// streamRequest is the JSON body sent to the completion endpoint
type streamRequest struct {
	Query  string `json:"query"`
	Stream bool   `json:"stream"`
}

// Open issues the streaming request and returns the response body on
// success. Non-success statuses are classified: 429 and 402 map to
// their sentinel errors, anything else to *RequestError.
func (c *Client) Open(ctx context.Context, message string) (io.ReadCloser, error) {
	body, err := json.Marshal(streamRequest{Query: message, Stream: true})
	if err != nil {
		return nil, fmt.Errorf("chat: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("chat: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat: send request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		switch resp.StatusCode {
		case http.StatusTooManyRequests:
			return nil, ErrRateLimited
		case http.StatusPaymentRequired:
			return nil, ErrPaymentRequired
		}
		// Failure bodies are not required to be JSON; keep a short excerpt.
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &RequestError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(excerpt)),
		}
	}

	return resp.Body, nil
}
