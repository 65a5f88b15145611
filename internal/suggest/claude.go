package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dgallion1/freewrite/internal/editor"
)

const (
	DefaultClaudeModel = "claude-haiku-4-5"
	anthropicURL       = "https://api.anthropic.com/v1/messages"
	anthropicVersion   = "2023-06-01"
)

// ErrMissingAPIKey is returned when neither the request nor the client
// carries an API key.
var ErrMissingAPIKey = errors.New("api key is missing")

// MissingKeyNotice is shown to the user for ErrMissingAPIKey.
const MissingKeyNotice = "Anthropic API key is missing. Add one in Settings."

type apiKeyCtxKey struct{}

// WithAPIKey returns a context whose requests use key instead of the
// client's configured key.
func WithAPIKey(ctx context.Context, key string) context.Context {
	if key == "" {
		return ctx
	}
	return context.WithValue(ctx, apiKeyCtxKey{}, key)
}

// APIKeyFrom returns the per-request key stored by WithAPIKey.
func APIKeyFrom(ctx context.Context) string {
	key, _ := ctx.Value(apiKeyCtxKey{}).(string)
	return key
}

// ClaudeClient calls the Anthropic Messages API for edit suggestions.
type ClaudeClient struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

func NewClaudeClient(apiKey, model string, timeout time.Duration) *ClaudeClient {
	if model == "" {
		model = DefaultClaudeModel
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &ClaudeClient{
		apiKey:   apiKey,
		model:    model,
		endpoint: anthropicURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// HasKey reports whether a default key is configured.
func (c *ClaudeClient) HasKey() bool { return c.apiKey != "" }

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Suggest asks Claude for edits to the request's document.
func (c *ClaudeClient) Suggest(ctx context.Context, req editor.Request) ([]editor.Suggestion, error) {
	key := APIKeyFrom(ctx)
	if key == "" {
		key = c.apiKey
	}
	if key == "" {
		return nil, ErrMissingAPIKey
	}

	reqBody := anthropicRequest{
		Model:     c.model,
		MaxTokens: maxTokensFor(req),
		System:    BuildSystemPrompt(req),
		Messages: []anthropicMessage{
			{Role: "user", Content: BuildUserPrompt(req)},
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", key)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("claude api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var apiResp anthropicResponse
	jsonErr := json.Unmarshal(respBody, &apiResp)

	if resp.StatusCode != http.StatusOK {
		msg := string(respBody)
		if jsonErr == nil && apiResp.Error != nil {
			msg = apiResp.Error.Message
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: msg}
	}
	if jsonErr != nil {
		return nil, fmt.Errorf("decode response: %w", jsonErr)
	}
	if apiResp.Error != nil {
		return nil, fmt.Errorf("claude error: %s: %s", apiResp.Error.Type, apiResp.Error.Message)
	}

	var text strings.Builder
	for _, part := range apiResp.Content {
		if part.Type == "text" {
			text.WriteString(part.Text)
		}
	}
	return Parse(text.String()), nil
}

// Close releases resources.
func (c *ClaudeClient) Close() {
	c.httpClient.CloseIdleConnections()
}

// StatusError is a non-200 answer from a model provider.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider status %d: %s", e.StatusCode, truncate(e.Message, 200))
}

// Notice maps the failure to the message shown in the editor.
func (e *StatusError) Notice() string {
	msg := strings.ToLower(e.Message)
	switch {
	case e.StatusCode == http.StatusUnauthorized,
		strings.Contains(msg, "invalid x-api-key"),
		strings.Contains(msg, "authentication"):
		return "Invalid API key. Please check your API key in Settings."
	case e.StatusCode == http.StatusTooManyRequests, strings.Contains(msg, "rate limit"):
		return "Rate limit exceeded. Please try again later."
	}
	return "Failed to get edits. Please try again."
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
