package stub

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"missionchat/internal/endpoint"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func postChat(t *testing.T, s *Server, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out), "body %s", data)
	return resp.StatusCode, out
}

func TestChat_ScriptedReply(t *testing.T) {
	s := New(Options{})

	code, body := postChat(t, s, `{"query":"List current missions","user_id":"frontend_user"}`)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Mission Alpha, Mission Beta", body["response"])
	assert.EqualValues(t, 1, s.Served())
}

func TestChat_Validation(t *testing.T) {
	s := New(Options{})

	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing query", `{"user_id":"u"}`, "Query parameter is required"},
		{"blank query", `{"query":"   "}`, "Query parameter is required"},
		{"bad json", `{"query":`, "Invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := postChat(t, s, tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, tt.want, body["error"])
		})
	}
	assert.Zero(t, s.Served())
}

func TestChat_FailStatus(t *testing.T) {
	s := New(Options{FailStatus: http.StatusInternalServerError})

	code, body := postChat(t, s, `{"query":"ping"}`)

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "An error occurred while processing your request", body["error"])
	assert.NotEmpty(t, body["details"])
}

func TestChat_Empty(t *testing.T) {
	s := New(Options{Empty: true})

	code, body := postChat(t, s, `{"query":"ping"}`)

	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, body)
}

func TestHealthAndIndex(t *testing.T) {
	s := New(Options{})

	for _, path := range []string{"/health", "/", "/system-info"} {
		resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err, path)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Contains(t, resp.Header.Get("Content-Type"), "application/json", path)
		resp.Body.Close()
	}

	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, endpoint.HealthOK, health["status"])
}

func TestCORS_Preflight(t *testing.T) {
	s := New(Options{AllowOrigins: "http://localhost:8080"})

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "http://localhost:8080", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestServer_ClientRoundTrip(t *testing.T) {
	// fasthttp's worker pool cleaner outlives Shutdown until its idle sleep ends.
	defer goleak.VerifyNone(t,
		goleak.IgnoreCurrent(),
		goleak.IgnoreAnyFunction("github.com/valyala/fasthttp.(*workerPool).Start.func2"),
	)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := New(Options{})
	errCh := make(chan error, 1)
	go func() { errCh <- s.App().Listener(ln) }()

	tr := &http.Transport{}
	client := endpoint.New(endpoint.Config{
		BaseURL:    "http://" + ln.Addr().String(),
		HTTPClient: &http.Client{Transport: tr, Timeout: 5 * time.Second},
	})

	reply, err := client.Send(context.Background(), "any satellite news?")
	require.NoError(t, err)
	assert.Contains(t, reply.Text(), "INSAT-3DR")

	health := client.HealthCheck(context.Background())
	assert.True(t, health.Healthy())

	tr.CloseIdleConnections()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
	require.NoError(t, <-errCh)
}
