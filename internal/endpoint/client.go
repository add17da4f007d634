// Package endpoint is the HTTP client for the remote chat backend.
// It speaks exactly two routes: POST /chat and GET /health.
package endpoint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"missionchat/internal/logging"

	"golang.org/x/sync/singleflight"
)

// DefaultUserID identifies this client to the backend when none is configured.
const DefaultUserID = "frontend_user"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// Config configures a Client.
type Config struct {
	BaseURL string
	UserID  string
	// Timeout bounds a single HTTP exchange. Zero leaves the transport defaults in place.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to the chat backend.
type Client struct {
	baseURL    string
	userID     string
	httpClient *http.Client
	health     singleflight.Group
}

// New creates a client for the backend at cfg.BaseURL.
func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	userID := cfg.UserID
	if userID == "" {
		userID = DefaultUserID
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userID:     userID,
		httpClient: hc,
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ChatURL returns the full URL of the chat route.
func (c *Client) ChatURL() string {
	return c.baseURL + "/chat"
}

// HealthURL returns the full URL of the health route.
func (c *Client) HealthURL() string {
	return c.baseURL + "/health"
}

// Send posts query to the chat route and decodes the reply.
// It fails on transport errors, non-2xx statuses and bodies that are not JSON
// or are JSON null.
func (c *Client) Send(ctx context.Context, query string) (Reply, error) {
	log := logging.Get(logging.CategoryAPI)

	payload, err := json.Marshal(ChatRequest{Query: query, UserID: c.userID})
	if err != nil {
		return Reply{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ChatURL(), bytes.NewReader(payload))
	if err != nil {
		return Reply{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("chat request failed after %v: %v", time.Since(start), err)
		return Reply{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Reply{}, fmt.Errorf("failed to read response: %w", err)
	}
	logging.APIDebug("chat response status=%d bytes=%d elapsed=%v", resp.StatusCode, len(body), time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Reply{}, newStatusError(resp.StatusCode, body)
	}

	return decodeReply(body)
}

// HealthCheck probes the health route. It never returns an error: transport
// failures and undecodable bodies degrade to a HealthStatus with Status HealthError.
// Concurrent probes share one in-flight request.
func (c *Client) HealthCheck(ctx context.Context) HealthStatus {
	v, _, _ := c.health.Do("health", func() (any, error) {
		return c.probe(ctx), nil
	})
	return v.(HealthStatus)
}

func (c *Client) probe(ctx context.Context) HealthStatus {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.HealthURL(), nil)
	if err != nil {
		return HealthStatus{Status: HealthError, Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.Get(logging.CategoryAPI).Debug("health check failed: %v", err)
		return HealthStatus{Status: HealthError, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return HealthStatus{Status: HealthError, Message: err.Error()}
	}

	var decoded map[string]any
	decodeErr := json.Unmarshal(body, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return HealthStatus{
			Status:  HealthError,
			Message: fmt.Sprintf("HTTP error! status: %d", resp.StatusCode),
			Body:    decoded,
		}
	}
	if decodeErr != nil {
		return HealthStatus{Status: HealthError, Message: fmt.Sprintf("invalid health response: %v", decodeErr)}
	}

	status := HealthOK
	if s, ok := decoded["status"].(string); ok && s != "" {
		status = s
	}
	msg, _ := decoded["message"].(string)
	return HealthStatus{Status: status, Message: msg, Body: decoded}
}
