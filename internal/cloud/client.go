// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultBaseURL is the base URL for the OpenRouter API.
	DefaultBaseURL = "https://openrouter.ai/api/v1"

	// DefaultTimeout is the timeout for non-streaming API requests.
	// Streaming requests carry no timeout and are context-controlled.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize caps non-streaming response bodies.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024

	// errorBodyPrefixLen is how much of an HTTP error body is kept for
	// display in notices.
	errorBodyPrefixLen = 512

	// requestsPerSecond throttles outbound API calls client-side so a
	// runaway trigger loop cannot hammer the endpoint.
	requestsPerSecond = 2
	requestBurst      = 3
)

var (
	// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
	// Shared HTTP client for unary requests.
	sharedHTTPClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		Timeout: DefaultTimeout,
	}

	// sharedStreamingClient has no timeout; streaming lifetime is
	// controlled via context.
	sharedStreamingClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotConfigured indicates the API key is not set. Checked before
	// any network call; a caller must surface a notice and perform no
	// buffer mutation.
	ErrNotConfigured = errors.New("API key not configured")

	// ErrEmptyBody indicates a successful response carried no readable
	// stream.
	ErrEmptyBody = errors.New("response has no readable body")
)

// APIError is a non-2xx response from the completion endpoint. Body
// holds a bounded prefix of the response body for display.
type APIError struct {
	Status int
	Body   string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("API error (HTTP %d): %s", e.Status, e.Body)
	}
	return fmt.Sprintf("API error (HTTP %d)", e.Status)
}

// =============================================================================
// TYPES
// =============================================================================

// ChatMessage is a single message in a chat conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Plugin selects an OpenRouter plugin. Engine is omitted to let the
// backend choose.
type Plugin struct {
	ID     string `json:"id"`
	Engine string `json:"engine,omitempty"`
}

// chatRequest is the JSON body for the chat completions endpoint.
type chatRequest struct {
	Model    string        `json:"model"`
	Stream   bool          `json:"stream"`
	Messages []ChatMessage `json:"messages"`
	Plugins  []Plugin      `json:"plugins,omitempty"`
}

// ModelInfo describes an available model. Consumed by configuration
// tooling only, never by the inline engine itself.
type ModelInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// modelsResponse is the wire shape of the models listing endpoint.
type modelsResponse struct {
	Data []ModelInfo `json:"data"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client communicates with an OpenRouter-compatible completions API.
type Client struct {
	apiKey   string
	baseURL  string
	siteURL  string
	siteName string
	limiter  *rate.Limiter
}

// NewClient creates a client for the given API key. An empty key is
// allowed; requests will fail with ErrNotConfigured before touching
// the network.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:   strings.TrimSpace(apiKey),
		baseURL:  DefaultBaseURL,
		siteURL:  "https://rigwrite.local",
		siteName: "rigwrite",
		limiter:  rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
	}
}

// WithBaseURL sets a custom base URL for the API.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimSuffix(url, "/")
	return c
}

// IsConfigured returns true if the client has an API key.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// APIKeyMasked returns a display-safe description of the API key.
// SECURITY: Never expose key fragments; use a fingerprint instead.
func (c *Client) APIKeyMasked() string {
	if c.apiKey == "" {
		return "[not set]"
	}
	h := sha256.Sum256([]byte(c.apiKey))
	return fmt.Sprintf("[set, fingerprint=%s]", hex.EncodeToString(h[:4]))
}

// setHeaders sets the required headers for API requests.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "rigwrite/0.1.0")

	if c.siteURL != "" {
		req.Header.Set("HTTP-Referer", c.siteURL)
	}
	if c.siteName != "" {
		req.Header.Set("X-Title", c.siteName)
	}
}

// =============================================================================
// MODEL LISTING
// =============================================================================

// ListModels retrieves the available models. Used by the settings
// surface to populate the enabled-model list.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := sharedHTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Body: bodyPrefix(body)}
	}

	var models modelsResponse
	if err := json.Unmarshal(body, &models); err != nil {
		return nil, fmt.Errorf("failed to parse models response: %w", err)
	}
	return models.Data, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// readResponse reads a response body with the size limit applied.
func readResponse(resp *http.Response) ([]byte, error) {
	if resp.Body == nil {
		return nil, ErrEmptyBody
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// bodyPrefix bounds an error body for display in a notice.
func bodyPrefix(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > errorBodyPrefixLen {
		s = s[:errorBodyPrefixLen]
	}
	return s
}
