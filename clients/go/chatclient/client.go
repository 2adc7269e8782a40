// Package chatclient provides a client for the chat service HTTP API.
package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the address of a locally started server.
const DefaultBaseURL = "http://localhost:3000"

// Client is a chat service API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new client.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// APIError is returned for responses with a status of 400 or above.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chat API error %d: %s", e.StatusCode, e.Message)
}

// doRequest performs an HTTP request.
func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		json.Unmarshal(respBody, &errResp)
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
	}

	return respBody, nil
}

func (c *Client) get(ctx context.Context, path string, v interface{}) error {
	respBody, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(respBody, v)
}

// ChatResponse is the reply to a chat message.
type ChatResponse struct {
	Response string `json:"response"`
	ID       string `json:"id"`
}

// Chat sends a message and returns the reply and the id it was indexed under.
func (c *Client) Chat(ctx context.Context, message string) (*ChatResponse, error) {
	body, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return nil, err
	}

	respBody, err := c.doRequest(ctx, http.MethodPost, "/chat", body)
	if err != nil {
		return nil, err
	}

	var resp ChatResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchResult is a single search hit. Text is a placeholder.
type SearchResult struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// SearchResponse is the response of the search endpoint.
type SearchResponse struct {
	Messages []SearchResult `json:"messages"`
}

// Search returns the messages whose keywords match query.
func (c *Client) Search(ctx context.Context, query string) (*SearchResponse, error) {
	var resp SearchResponse
	if err := c.get(ctx, "/search?query="+url.QueryEscape(query), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Check is the status of one health check.
type Check struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is the health endpoint response.
type HealthResponse struct {
	Status    string           `json:"status"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
	Timestamp string           `json:"timestamp"`
}

// Health checks server health. A degraded server answers 503, which is
// returned as an *APIError.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.get(ctx, "/health", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StatsResponse is the stats endpoint response.
type StatsResponse struct {
	TotalMessages int64  `json:"total_messages"`
	IndexDriver   string `json:"index_driver"`
	LedgerDriver  string `json:"ledger_driver"`
}

// Stats returns index statistics.
func (c *Client) Stats(ctx context.Context) (*StatsResponse, error) {
	var resp StatsResponse
	if err := c.get(ctx, "/stats", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
