// Package reasoning wraps the external reasoning service: a messages API
// with tool-call and web-search capability. The client sends one logical
// research question per call, rides out mid-turn pauses, and extracts the
// structured payload the declared output tool describes.
package reasoning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.anthropic.com/v1/messages"
	defaultModel   = "claude-sonnet-4-5"
	apiVersion     = "2023-06-01"

	// maxTurns bounds the pause/continue loop: 5 requests total, however
	// often the service pauses mid-turn.
	maxTurns = 5
)

// Stop reasons the service reports. Only stopPaused is non-terminal.
const (
	stopPaused = "pause_turn"
)

// ContentBlock is one segment of a service response: plain text or a
// structured tool call.
type ContentBlock struct {
	Type  string          `json:"type"`
	Text  string          `json:"text,omitempty"`
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
}

// Message is one conversation turn. Content is either a string or a slice
// of ContentBlock.
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// Tool declares a capability to the service: either a structured-output
// schema (Name + InputSchema) or a built-in capability selected by Type.
type Tool struct {
	Type        string         `json:"type,omitempty"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"input_schema,omitempty"`
	MaxUses     int            `json:"max_uses,omitempty"`
}

// webSearchTool is the generic search capability attached in live mode.
var webSearchTool = Tool{
	Type:    "web_search_20250305",
	Name:    "web_search",
	MaxUses: 5,
}

type apiRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	Messages    []Message `json:"messages"`
	Tools       []Tool    `json:"tools,omitempty"`
}

type apiResponse struct {
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

// Caller is the single-call contract the orchestrator depends on. Tests
// inject a stub; the HTTP client below is the production implementation.
type Caller interface {
	Call(ctx context.Context, prompt string, budget int, useSearch bool, output Tool) (map[string]any, error)
}

// Client talks to the reasoning service over HTTP. Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	onPause    func()
}

// Option adjusts client construction.
type Option func(*Client)

// WithBaseURL overrides the service endpoint, used by tests and proxies.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithModel overrides the model id.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithPauseHook registers a callback invoked once per pause/continue turn,
// used for metrics.
func WithPauseHook(fn func()) Option {
	return func(c *Client) { c.onPause = fn }
}

// NewClient creates a reasoning-service client with the given credential.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		apiKey:     apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// turnState models the pause/continue loop explicitly. The only transition
// back into sending is statePaused; everything else is terminal.
type turnState int

const (
	stateSending turnState = iota
	statePaused
	stateDone
	stateFailed
)

// Call sends a single-turn conversation with the declared structured-output
// tool (plus the search tool when useSearch is set) and returns the tool's
// payload. When the service pauses mid-turn it is prompted to continue, up
// to maxTurns requests total. Without a structured call the final response's
// text is scanned for an embedded JSON object.
//
// Every failure mode is reported through the returned error; Call never
// panics and never retries transport failures.
func (c *Client) Call(ctx context.Context, prompt string, budget int, useSearch bool, output Tool) (map[string]any, error) {
	tools := []Tool{output}
	if useSearch {
		tools = append(tools, webSearchTool)
	}

	messages := []Message{{Role: "user", Content: prompt}}

	state := stateSending
	turns := 0
	var last *apiResponse

	for state == stateSending || state == statePaused {
		if state == statePaused {
			// Non-terminal: carry the partial assistant turn forward and
			// nudge the service to finish.
			messages = append(messages,
				Message{Role: "assistant", Content: last.Content},
				Message{Role: "user", Content: "continue"},
			)
			state = stateSending
		}

		turns++
		resp, err := c.send(ctx, apiRequest{
			Model:       c.model,
			MaxTokens:   budget,
			Temperature: 0.3,
			Messages:    messages,
			Tools:       tools,
		})
		if err != nil {
			return nil, err
		}
		last = resp

		if payload, ok := structuredPayload(resp, output.Name); ok {
			state = stateDone
			return payload, nil
		}

		if resp.StopReason == stopPaused && turns < maxTurns {
			if c.onPause != nil {
				c.onPause()
			}
			state = statePaused
			continue
		}

		state = stateFailed
	}

	// Fallback: the service answered in prose. Scan the final response for
	// an embedded JSON object.
	if payload, ok := ExtractJSON(textOf(last)); ok {
		return payload, nil
	}
	return nil, fmt.Errorf("no structured %s payload in response (stop_reason=%s, %d turns)",
		output.Name, last.StopReason, turns)
}

func (c *Client) send(ctx context.Context, reqBody apiRequest) (*apiResponse, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reasoning service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("reasoning service error: status %d, body: %s", resp.StatusCode, string(detail))
	}

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

// structuredPayload returns the input of the first tool_use block matching
// the declared output tool.
func structuredPayload(resp *apiResponse, toolName string) (map[string]any, bool) {
	for _, block := range resp.Content {
		if block.Type != "tool_use" || block.Name != toolName {
			continue
		}
		var payload map[string]any
		if err := json.Unmarshal(block.Input, &payload); err != nil {
			return nil, false
		}
		return payload, true
	}
	return nil, false
}

// textOf concatenates the plain-text segments of a response.
func textOf(resp *apiResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
			b.WriteString("\n")
		}
	}
	return b.String()
}
