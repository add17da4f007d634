package endpoint

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ChatRequest is the JSON body sent to POST /chat.
type ChatRequest struct {
	Query  string `json:"query"`
	UserID string `json:"user_id"`
}

// Reply is the decoded body of a successful /chat call.
// Response is nil when the payload carries no string "response" field.
type Reply struct {
	Response *string
}

// Text returns the reply text, or "" when no usable response was returned.
func (r Reply) Text() string {
	if r.Response == nil {
		return ""
	}
	return *r.Response
}

// HasResponse reports whether the backend returned a non-blank response string.
func (r Reply) HasResponse() bool {
	return strings.TrimSpace(r.Text()) != ""
}

// decodeReply parses a /chat success body. Bodies that are not JSON, or are
// JSON null, are errors. Any other JSON value yields a Reply; only an object
// with a string "response" field carries text.
func decodeReply(body []byte) (Reply, error) {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return Reply{}, fmt.Errorf("malformed response body: %w", err)
	}
	if decoded == nil {
		return Reply{}, fmt.Errorf("malformed response body: got null")
	}

	var reply Reply
	if fields, ok := decoded.(map[string]any); ok {
		if text, ok := fields["response"].(string); ok {
			reply.Response = &text
		}
	}
	return reply, nil
}

// errorBody mirrors the error payload the chat backend returns with 4xx/5xx.
type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// StatusError is returned when the endpoint answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Detail     string // Backend-provided error/details, if any
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func newStatusError(code int, body []byte) *StatusError {
	se := &StatusError{StatusCode: code}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		switch {
		case eb.Error != "" && eb.Details != "":
			se.Detail = eb.Error + ": " + eb.Details
		case eb.Error != "":
			se.Detail = eb.Error
		case eb.Details != "":
			se.Detail = eb.Details
		}
	}
	return se
}

// HealthStatus is the outcome of a liveness probe. It is never an error value:
// failures are reported with Status HealthError.
type HealthStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Body    map[string]any `json:"body,omitempty"`
}

// Healthy reports whether the probe reached the backend and the backend
// described itself as up.
func (h HealthStatus) Healthy() bool {
	switch strings.ToLower(strings.TrimSpace(h.Status)) {
	case HealthOK, "healthy", "up", "online", "running":
		return true
	}
	return false
}

// Health status values reported by HealthCheck when the backend body has none.
const (
	HealthOK    = "ok"
	HealthError = "error"
)
