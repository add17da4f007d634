package chat

import (
	"context"
	"time"

	"missionchat/cmd/mission/ui"
	"missionchat/internal/dispatch"
	"missionchat/internal/endpoint"
	"missionchat/internal/logging"
	"missionchat/internal/transcript"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
)

const (
	typingText          = "Processing mission data..."
	processingHint      = "Processing..."
	healthProbeTimeout  = 5 * time.Second
	starTickInterval    = 800 * time.Millisecond
	defaultAssistant    = "Mission Control"
	defaultPlaceholder  = "Ask about missions, satellites, launches, or space exploration..."
	defaultHealthPeriod = 30 * time.Second
)

// HealthChecker probes the backend for the status bar.
type HealthChecker interface {
	HealthCheck(ctx context.Context) endpoint.HealthStatus
}

// Config wires the chat screen to a session.
type Config struct {
	Store          *transcript.Store
	Controller     *dispatch.Controller
	Health         HealthChecker // nil disables probing; the bar shows Offline
	Theme          string
	AssistantName  string
	Placeholder    string
	HealthInterval time.Duration
	Audit          *logging.AuditLogger
}

// keyMap holds the chat screen bindings.
type keyMap struct {
	Send        key.Binding
	Quit        key.Binding
	HistoryPrev key.Binding
	HistoryNext key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Send:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		Quit:        key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
		HistoryPrev: key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous input")),
		HistoryNext: key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next input")),
		PageUp:      key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
	}
}

// Model is the bubbletea model of the chat screen.
type Model struct {
	// UI components
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	styles   ui.Styles
	layout   ui.LayoutConfig
	cache    *ui.RenderCache
	keys     keyMap

	// Session
	store  *transcript.Store
	ctrl   *dispatch.Controller
	health HealthChecker
	audit  *logging.AuditLogger
	ctx    context.Context
	cancel context.CancelFunc

	// Display settings
	assistantName  string
	placeholder    string
	healthInterval time.Duration

	// State
	isLoading    bool
	online       bool
	inputHistory []string
	historyIndex int
	frame        int
	width        int
	height       int
	ready        bool
	startedAt    time.Time
	now          func() time.Time
}

// Messages
type (
	// replyMsg carries the assistant message appended by a finished dispatch.
	replyMsg struct {
		reply transcript.Message
	}
	healthMsg     endpoint.HealthStatus
	healthTickMsg time.Time
	starTickMsg   time.Time
)
