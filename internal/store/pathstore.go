package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Pathstore keeps values in a remote pathstore service.
type Pathstore struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewPathstore(baseURL, apiKey string, timeout time.Duration) *Pathstore {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Pathstore{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// nodeRequest is the body for PUT /kv/{key}.
type nodeRequest struct {
	Value      any    `json:"value"`
	MemoryType string `json:"memory_type,omitempty"`
	Source     string `json:"source,omitempty"`
}

// nodeResponse is the response from GET /kv/{key}.
type nodeResponse struct {
	Key   string `json:"key_path"`
	Value any    `json:"value"`
}

func (c *Pathstore) nodeURL(key string) string {
	return c.baseURL + "/kv/" + url.PathEscape(key)
}

func (c *Pathstore) Put(ctx context.Context, key, value string) error {
	body, err := json.Marshal(nodeRequest{Value: value, MemoryType: "document", Source: "freewrite"})
	if err != nil {
		return fmt.Errorf("marshal node: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, c.nodeURL(key), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("put node: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("put node %s: status %d: %s", key, resp.StatusCode, string(respBody))
	}
	return nil
}

func (c *Pathstore) Get(ctx context.Context, key string) (string, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.nodeURL(key), nil)
	if err != nil {
		return "", false, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", false, fmt.Errorf("get node: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return "", false, nil
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", false, fmt.Errorf("get node %s: status %d: %s", key, resp.StatusCode, string(respBody))
	}

	var node nodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&node); err != nil {
		return "", false, fmt.Errorf("decode node: %w", err)
	}
	s, ok := node.Value.(string)
	if !ok {
		return "", false, fmt.Errorf("node %s holds %T, not text", key, node.Value)
	}
	return s, true, nil
}

func (c *Pathstore) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
