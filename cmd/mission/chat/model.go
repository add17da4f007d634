// Package chat provides the interactive Mission Control chat screen.
package chat

import (
	"context"
	"time"

	"missionchat/cmd/mission/ui"
	"missionchat/internal/dispatch"
	"missionchat/internal/endpoint"
	"missionchat/internal/logging"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.checkHealth(),
		starTick(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.cancel()
			return m, tea.Quit

		case key.Matches(msg, m.keys.Send):
			if m.isLoading {
				return m, nil
			}
			return m.handleSubmit()

		case key.Matches(msg, m.keys.HistoryPrev):
			if m.textarea.Line() == 0 {
				m.historyPrev()
				return m, nil
			}

		case key.Matches(msg, m.keys.HistoryNext):
			if m.textarea.Line() == m.textarea.LineCount()-1 {
				m.historyNext()
				return m, nil
			}

		case key.Matches(msg, m.keys.PageUp, m.keys.PageDown):
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

		if !m.isLoading {
			m.textarea, tiCmd = m.textarea.Update(msg)
		}
		return m, tiCmd

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case replyMsg:
		m.isLoading = false
		m.textarea.Placeholder = m.placeholder
		m.refresh()
		logging.Get(logging.CategoryUI).Debug("reply %s rendered (%d messages)", msg.reply.ID, m.store.Len())
		return m, nil

	case spinner.TickMsg:
		if !m.isLoading {
			return m, nil
		}
		var spCmd tea.Cmd
		m.spinner, spCmd = m.spinner.Update(msg)
		return m, spCmd

	case healthMsg:
		m.online = endpoint.HealthStatus(msg).Healthy()
		m.audit.HealthProbe(msg.Status, m.online)
		return m, m.scheduleHealth()

	case healthTickMsg:
		return m, m.checkHealth()

	case starTickMsg:
		m.frame++
		return m, starTick()
	}

	// Mouse wheel and anything else scrolls the transcript.
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, vpCmd
}

// handleSubmit hands the composed input to the dispatch controller.
// Rejected input leaves the model untouched.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	raw := m.textarea.Value()
	d, ok := m.ctrl.Begin(raw)
	if !ok {
		return m, nil
	}

	m.pushHistory(d.User.Text)
	m.textarea.Reset()
	m.textarea.Placeholder = processingHint
	m.isLoading = true
	m.refresh()

	return m, tea.Batch(m.spinner.Tick, m.runDispatch(d))
}

// runDispatch completes d off the UI goroutine.
func (m Model) runDispatch(d *dispatch.Dispatch) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return replyMsg{reply: d.Run(ctx)}
	}
}

func (m Model) checkHealth() tea.Cmd {
	if m.health == nil {
		return nil
	}
	ctx, h := m.ctx, m.health
	return func() tea.Msg {
		probeCtx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
		defer cancel()
		return healthMsg(h.HealthCheck(probeCtx))
	}
}

func (m Model) scheduleHealth() tea.Cmd {
	if m.health == nil {
		return nil
	}
	return tea.Tick(m.healthInterval, func(t time.Time) tea.Msg {
		return healthTickMsg(t)
	})
}

func starTick() tea.Cmd {
	return tea.Tick(starTickInterval, func(t time.Time) tea.Msg {
		return starTickMsg(t)
	})
}

// resize recomputes the layout for a new terminal size.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.layout = ui.NewLayoutConfig(width, height)

	m.viewport.Width = m.layout.ViewportWidth()
	m.viewport.Height = m.layout.ViewportHeight()
	m.ready = true
	m.textarea.SetWidth(m.layout.InputWidth())

	m.renderer = newRenderer(m.styles, m.layout.BubbleWidth())
	m.cache.Clear()
	m.refresh()
}

// refresh re-renders the transcript and scrolls to the newest message.
func (m *Model) refresh() {
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}

func (m *Model) pushHistory(text string) {
	if n := len(m.inputHistory); n == 0 || m.inputHistory[n-1] != text {
		m.inputHistory = append(m.inputHistory, text)
	}
	m.historyIndex = len(m.inputHistory)
}

func (m *Model) historyPrev() {
	if m.historyIndex > 0 {
		m.historyIndex--
		m.textarea.SetValue(m.inputHistory[m.historyIndex])
		m.textarea.CursorEnd()
	}
}

func (m *Model) historyNext() {
	if m.historyIndex >= len(m.inputHistory) {
		return
	}
	m.historyIndex++
	if m.historyIndex == len(m.inputHistory) {
		m.textarea.SetValue("")
		return
	}
	m.textarea.SetValue(m.inputHistory[m.historyIndex])
	m.textarea.CursorEnd()
}
