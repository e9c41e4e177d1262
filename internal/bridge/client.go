package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is the typed HTTP client for the supervisor's bridge API. All
// outbound traffic goes through it; the socket in this package is inbound
// only.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the given origin, e.g. "http://127.0.0.1:9013".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// BaseURL returns the configured origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Send posts a user action to /send. The response body is advisory: it is
// parsed for logging when possible and ignored otherwise.
func (c *Client) Send(ctx context.Context, out Outbound) (SendResult, error) {
	body, err := json.Marshal(out)
	if err != nil {
		return SendResult{}, fmt.Errorf("bridge: send: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/send", nil), bytes.NewReader(body))
	if err != nil {
		return SendResult{}, fmt.Errorf("bridge: send: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SendResult{}, fmt.Errorf("bridge: send: request failed (is the supervisor running?): %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return SendResult{}, c.parseErrorResponse("send", resp)
	}

	var result SendResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return SendResult{}, nil
	}
	return result, nil
}

// History fetches the replayable message log.
func (c *Client) History(ctx context.Context, limit int) ([]Message, error) {
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/history", q), nil)
	if err != nil {
		return nil, fmt.Errorf("bridge: history: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bridge: history: request failed (is the supervisor running?): %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.parseErrorResponse("history", resp)
	}

	var out historyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("bridge: history: decode response: %w", err)
	}
	if out.Status != StatusOK {
		return nil, fmt.Errorf("bridge: history: %s", statusMessage(out.Status, out.Message))
	}
	return out.Messages, nil
}

// InitTree fetches the initial workspace forest. The tri-state status is
// returned to the caller rather than converted to an error: "empty" and
// server-reported failures render as distinct tree states.
func (c *Client) InitTree(ctx context.Context) (TreeResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/init_tree", nil), nil)
	if err != nil {
		return TreeResult{}, fmt.Errorf("bridge: init tree: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return TreeResult{}, fmt.Errorf("bridge: init tree: request failed (is the supervisor running?): %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return TreeResult{}, c.parseErrorResponse("init tree", resp)
	}

	var out initTreeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return TreeResult{}, fmt.Errorf("bridge: init tree: decode response: %w", err)
	}

	result := TreeResult{Status: out.Status, Message: out.Message}
	switch {
	case len(out.Trees) > 0:
		result.Roots = out.Trees
	case out.Tree != nil:
		result.Roots = []TreeNode{*out.Tree}
	}
	return result, nil
}

// Subtree fetches the children of the folder at path.
func (c *Client) Subtree(ctx context.Context, path string) ([]TreeNode, error) {
	q := url.Values{"path": {path}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/tree", q), nil)
	if err != nil {
		return nil, fmt.Errorf("bridge: subtree %q: %w", path, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bridge: subtree %q: request failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.parseErrorResponse("subtree", resp)
	}

	var out subtreeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("bridge: subtree %q: decode response: %w", path, err)
	}
	if out.Status != StatusOK {
		return nil, fmt.Errorf("bridge: subtree %q: %s", path, statusMessage(out.Status, out.Message))
	}
	if out.Tree == nil {
		return nil, nil
	}
	return out.Tree.Children, nil
}

// File fetches a file's content. Server-reported failures (missing file,
// directory, read error) come back as errors carrying the server message;
// the caller substitutes them as the previewed content.
func (c *Client) File(ctx context.Context, path string) (string, error) {
	q := url.Values{"path": {path}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/file", q), nil)
	if err != nil {
		return "", fmt.Errorf("bridge: file %q: %w", path, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("bridge: file %q: request failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", c.parseErrorResponse("file", resp)
	}

	var out fileResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("bridge: file %q: decode response: %w", path, err)
	}
	if out.Status != StatusOK {
		return "", fmt.Errorf("bridge: file %q: %s", path, statusMessage(out.Status, out.Message))
	}
	return out.Content, nil
}

// ResetDB truncates the supervisor's tables. The result is returned even
// when the server reports failure; the caller presents it either way.
func (c *Client) ResetDB(ctx context.Context) (ResetResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/reset_db", nil), nil)
	if err != nil {
		return ResetResult{}, fmt.Errorf("bridge: reset db: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ResetResult{}, fmt.Errorf("bridge: reset db: request failed (is the supervisor running?): %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ResetResult{}, c.parseErrorResponse("reset db", resp)
	}

	var result ResetResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil && err != io.EOF {
		return ResetResult{}, fmt.Errorf("bridge: reset db: decode response: %w", err)
	}
	return result, nil
}

func (c *Client) parseErrorResponse(operation string, resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("bridge: %s: status %d: read error body: %w", operation, resp.StatusCode, err)
	}

	var apiErr struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil {
		switch {
		case apiErr.Message != "":
			return fmt.Errorf("bridge: %s: status %d: %s", operation, resp.StatusCode, apiErr.Message)
		case apiErr.Detail != "":
			return fmt.Errorf("bridge: %s: status %d: %s", operation, resp.StatusCode, apiErr.Detail)
		}
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Errorf("bridge: %s: status %d", operation, resp.StatusCode)
	}
	return fmt.Errorf("bridge: %s: status %d: %s", operation, resp.StatusCode, msg)
}

func (c *Client) url(path string, q url.Values) string {
	if len(q) == 0 {
		return c.baseURL + path
	}
	return c.baseURL + path + "?" + q.Encode()
}

func statusMessage(status, message string) string {
	if message != "" {
		return message
	}
	return "status " + strconv.Quote(status)
}
