// FlowState - AI-coached habit tracking companion
// License: MIT
//
// Copyright (c) 2026 FlowState contributors

package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"flowstate/pkg/config"
)

// Response is the envelope every hosted agent returns. Result is either a
// JSON-encoded string or an already-structured object; ParseResult
// normalizes it.
type Response struct {
	Success  bool    `json:"success"`
	Response *Result `json:"response,omitempty"`
	Error    string  `json:"error,omitempty"`
}

type Result struct {
	Result json.RawMessage `json:"result"`
}

// Client invokes the hosted inference endpoint. The call shape is identical
// for all three agents; only the agent id differs.
type Client struct {
	apiKey     string
	apiBase    string
	httpClient *http.Client
}

func NewClient(apiKey, apiBase string) *Client {
	return &Client{
		apiKey:     apiKey,
		apiBase:    strings.TrimRight(apiBase, "/"),
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func CreateClient(cfg *config.Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.GetAPIKey())
	if apiKey == "" {
		return nil, fmt.Errorf("provider API key is required (set provider.api_key or FLOWSTATE_PROVIDER_API_KEY)")
	}
	return NewClient(apiKey, cfg.GetAPIBase()), nil
}

// Call sends message to the agent identified by agentID within sessionID.
// A non-nil error means transport failure; agent-level failures come back
// as Success=false with an Error string.
func (c *Client) Call(ctx context.Context, message, agentID, sessionID string) (*Response, error) {
	if c.apiBase == "" {
		return nil, fmt.Errorf("agent API base not configured")
	}

	requestBody := map[string]any{
		"message":    message,
		"agent_id":   agentID,
		"session_id": sessionID,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/v3/inference/chat/", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("agent API request failed:\n  Status: %d\n  Body:   %s", resp.StatusCode, string(body))
	}

	var parsed Response
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &parsed, nil
}
