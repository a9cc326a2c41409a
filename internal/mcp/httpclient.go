package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/claude/rpecalc/internal/models"
	"github.com/claude/rpecalc/internal/storage"
)

// HTTPClient implements storage.PreferenceStore by calling the RPECalc REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// preferences live on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies PreferenceStore.
var _ storage.PreferenceStore = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

const preferencesPath = "/api/v1/preferences"

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("httpclient: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidPreferences, errorMessage(respBody))
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, respBody)
	}

	return respBody, nil
}

// errorMessage pulls the message out of a {"error": "..."} body, falling back
// to the raw body.
func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}

func (c *HTTPClient) GetPreferences(ctx context.Context) (models.Preferences, error) {
	body, err := c.do(ctx, http.MethodGet, preferencesPath, nil)
	if err != nil {
		return models.Preferences{}, err
	}

	var p models.Preferences
	if err := json.Unmarshal(body, &p); err != nil {
		return models.Preferences{}, fmt.Errorf("httpclient: decode preferences: %w", err)
	}
	p.Normalize()
	return p, nil
}

func (c *HTTPClient) SavePreferences(ctx context.Context, p models.Preferences) (models.Preferences, error) {
	body, err := c.do(ctx, http.MethodPut, preferencesPath, p)
	if err != nil {
		return models.Preferences{}, err
	}

	var saved models.Preferences
	if err := json.Unmarshal(body, &saved); err != nil {
		return models.Preferences{}, fmt.Errorf("httpclient: decode preferences: %w", err)
	}
	return saved, nil
}
