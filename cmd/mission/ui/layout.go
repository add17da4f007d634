package ui

// Layout constants for the chat screen
const (
	HeaderHeight    = 2 // Title line + starfield strip
	StatusBarHeight = 1
	InputHeight     = 3 // Textarea rows
	InputBorder     = 2
	TypingHeight    = 1
	FrameWidth      = 2 // Left/right padding around the transcript

	MinimumTerminalWidth  = 40
	MinimumTerminalHeight = 12
	CompactModeWidth      = 80
	MaxBubbleWidth        = 100
)

// LayoutConfig holds dimensions computed from the terminal size.
type LayoutConfig struct {
	TerminalWidth  int
	TerminalHeight int
	IsCompact      bool
}

// NewLayoutConfig creates a layout configuration for the given terminal size
func NewLayoutConfig(width, height int) LayoutConfig {
	return LayoutConfig{
		TerminalWidth:  width,
		TerminalHeight: height,
		IsCompact:      width < CompactModeWidth,
	}
}

// ViewportWidth returns the transcript viewport width.
func (l LayoutConfig) ViewportWidth() int {
	return max(l.TerminalWidth-FrameWidth, 1)
}

// ViewportHeight returns the transcript viewport height. One row is always
// reserved for the typing indicator so the viewport does not jump.
func (l LayoutConfig) ViewportHeight() int {
	used := HeaderHeight + StatusBarHeight + InputHeight + InputBorder + TypingHeight
	return max(l.TerminalHeight-used, 1)
}

// InputWidth returns the textarea width inside its border.
func (l LayoutConfig) InputWidth() int {
	return max(l.TerminalWidth-InputBorder-FrameWidth, 1)
}

// BubbleWidth returns the width a message bubble may occupy.
func (l LayoutConfig) BubbleWidth() int {
	w := l.ViewportWidth() - 4
	if !l.IsCompact {
		w = w * 3 / 4
	}
	return min(max(w, 10), MaxBubbleWidth)
}
