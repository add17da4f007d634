package chat

import (
	"context"
	"time"

	"missionchat/cmd/mission/ui"
	"missionchat/internal/logging"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// InitChat builds the chat model for cfg. Store and Controller are required.
func InitChat(cfg Config) Model {
	styles := ui.NewStyles(ui.ThemeFor(cfg.Theme))

	name := cfg.AssistantName
	if name == "" {
		name = defaultAssistant
	}
	placeholder := cfg.Placeholder
	if placeholder == "" {
		placeholder = defaultPlaceholder
	}
	interval := cfg.HealthInterval
	if interval <= 0 {
		interval = defaultHealthPeriod
	}
	audit := cfg.Audit
	if audit == nil {
		audit = logging.AuditWithSession("")
	}

	// Initialize textarea for input; Enter is reserved for sending
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.Focus()
	ta.Prompt = "┃ "
	ta.CharLimit = 4096
	ta.ShowLineNumbers = false
	ta.SetWidth(80)
	ta.SetHeight(ui.InputHeight)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))

	// Initialize spinner
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	// Initialize viewport for chat history
	vp := viewport.New(80, 20)

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		textarea:       ta,
		viewport:       vp,
		spinner:        sp,
		renderer:       newRenderer(styles, 80),
		styles:         styles,
		layout:         ui.NewLayoutConfig(80, 24),
		cache:          ui.NewRenderCache(256),
		keys:           defaultKeyMap(),
		store:          cfg.Store,
		ctrl:           cfg.Controller,
		health:         cfg.Health,
		audit:          audit,
		ctx:            ctx,
		cancel:         cancel,
		assistantName:  name,
		placeholder:    placeholder,
		healthInterval: interval,
		startedAt:      time.Now(),
		now:            time.Now,
	}
}

// newRenderer builds a markdown renderer matching the theme. It returns nil
// when glamour cannot be initialized; replies then render as plain text.
func newRenderer(styles ui.Styles, width int) *glamour.TermRenderer {
	style := "light"
	if styles.Theme.IsDark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(width, 20)),
		glamour.WithEmoji(),
	)
	if err != nil {
		logging.Get(logging.CategoryUI).Warn("markdown renderer unavailable: %v", err)
		return nil
	}
	return r
}

// Run starts the interactive chat and blocks until the user quits.
func Run(cfg Config) error {
	model := InitChat(cfg)
	defer model.cancel()

	model.audit.SessionStart(cfg.Controller.BaseURL())
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	model.audit.SessionEnd(cfg.Store.Len(), time.Since(model.startedAt))
	return err
}
