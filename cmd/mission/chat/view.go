package chat

import (
	"strings"

	"missionchat/cmd/mission/ui"
	"missionchat/internal/transcript"

	"github.com/charmbracelet/lipgloss"
)

const timeFormat = "15:04"

func (m Model) renderHistory() string {
	var sb strings.Builder
	for _, msg := range m.store.Messages() {
		if msg.IsUser() {
			sb.WriteString(m.renderUserMessage(msg))
		} else {
			sb.WriteString(m.renderAssistantMessage(msg))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderUserMessage right-aligns the user's text in a bubble.
func (m Model) renderUserMessage(msg transcript.Message) string {
	width := m.viewport.Width
	label := m.styles.UserLabel.Render("You") + " " + m.styles.Timestamp.Render(msg.Timestamp.Format(timeFormat))
	// Padding counts toward the style width.
	bubbleWidth := min(lipgloss.Width(msg.Text)+2, m.layout.BubbleWidth())
	bubble := m.styles.UserBubble.Width(bubbleWidth).Render(msg.Text)

	block := lipgloss.JoinVertical(lipgloss.Right, label, bubble)
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, block) + "\n"
}

// renderAssistantMessage renders the reply as markdown under the assistant
// header, with the verified footer.
func (m Model) renderAssistantMessage(msg transcript.Message) string {
	header := m.styles.AssistantLabel.Render("🚀 " + m.assistantName)
	width := m.layout.BubbleWidth()
	body := m.cache.GetOrCompute(msg.ID, width, func() string {
		if m.renderer == nil {
			return lipgloss.NewStyle().Width(width).Render(msg.Text)
		}
		return strings.TrimRight(m.safeRenderMarkdown(msg.Text), "\n")
	})
	footer := m.styles.Verified.Render("✓ Verified") + "  " + m.styles.Timestamp.Render(msg.Timestamp.Format(timeFormat))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.styles.AssistantBubble.Render(body),
		footer,
	) + "\n"
}

// safeRenderMarkdown renders markdown with panic recovery
func (m Model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		rendered, err := m.renderer.Render(content)
		if err == nil {
			return rendered
		}
	}
	return content
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := lipgloss.JoinVertical(lipgloss.Left,
		ui.Header(m.styles, m.assistantName, m.width),
		ui.Starfield(m.styles, m.width, 0, m.frame),
	)

	typing := ""
	if m.isLoading {
		typing = m.spinner.View() + " " + m.styles.Typing.Render(typingText)
	}

	input := m.styles.Input.Render(m.textarea.View())
	status := ui.StatusBar(m.styles, m.width, m.online, m.store.Len()-1, m.now())

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.viewport.View(),
		typing,
		input,
		status,
	)
}
