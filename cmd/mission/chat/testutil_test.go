package chat

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"missionchat/internal/dispatch"
	"missionchat/internal/endpoint"
	"missionchat/internal/transcript"

	tea "github.com/charmbracelet/bubbletea"
)

const testBaseURL = "http://mission.test:5000"

// fakeEndpoint answers every query with a fixed reply or error.
type fakeEndpoint struct {
	reply string
	err   error
	calls atomic.Int32
}

func (f *fakeEndpoint) Send(_ context.Context, _ string) (endpoint.Reply, error) {
	f.calls.Add(1)
	if f.err != nil {
		return endpoint.Reply{}, f.err
	}
	text := f.reply
	return endpoint.Reply{Response: &text}, nil
}

func (f *fakeEndpoint) BaseURL() string { return testBaseURL }

type fakeHealth struct {
	status endpoint.HealthStatus
}

func (f fakeHealth) HealthCheck(context.Context) endpoint.HealthStatus { return f.status }

// TestModelOption configures NewTestModel.
type TestModelOption func(*testModelConfig)

type testModelConfig struct {
	ep     *fakeEndpoint
	health HealthChecker
}

func withReply(text string) TestModelOption {
	return func(c *testModelConfig) { c.ep.reply = text }
}

func withError(msg string) TestModelOption {
	return func(c *testModelConfig) { c.ep.err = errors.New(msg) }
}

func withHealth(status string) TestModelOption {
	return func(c *testModelConfig) { c.health = fakeHealth{status: endpoint.HealthStatus{Status: status}} }
}

// NewTestModel creates a sized chat model backed by a fake endpoint.
// Markdown rendering is disabled so views contain plain text.
func NewTestModel(t *testing.T, opts ...TestModelOption) (Model, *fakeEndpoint) {
	t.Helper()
	cfg := &testModelConfig{ep: &fakeEndpoint{reply: "ok"}}
	for _, opt := range opts {
		opt(cfg)
	}

	store := transcript.NewSession("")
	m := InitChat(Config{
		Store:      store,
		Controller: dispatch.New(store, cfg.ep),
		Health:     cfg.health,
		Theme:      "dark",
	})
	t.Cleanup(m.cancel)

	m.now = func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) }
	m.resize(100, 50)
	m.renderer = nil
	m.cache.Clear()
	m.refresh()
	return m, cfg.ep
}

// drain executes cmd and any batched commands, returning the produced messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// submit types text, presses Enter and feeds the dispatch reply back.
func submit(t *testing.T, m Model, text string) Model {
	t.Helper()
	m.textarea.SetValue(text)
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	for _, msg := range drain(cmd) {
		if r, ok := msg.(replyMsg); ok {
			m, _ = update(t, m, r)
		}
	}
	return m
}
