// Package ui provides the visual styling for the Mission Control chat client.
// The palette follows a deep-space scheme with light and dark variants.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Space palette
var (
	// Dark Mode Colors (Default)
	DarkBackground = lipgloss.Color("#0b1026") // Deep space navy
	DarkForeground = lipgloss.Color("#e6e9f5")
	DarkPrimary    = lipgloss.Color("#7aa2ff") // Nebula blue
	DarkAccent     = lipgloss.Color("#b48cff") // Cosmic violet
	DarkSecondary  = lipgloss.Color("#1a2142")
	DarkMuted      = lipgloss.Color("#6b7394")
	DarkBorder     = lipgloss.Color("#2b3566")
	DarkCard       = lipgloss.Color("#131a38")

	// Light Mode Colors
	LightBackground = lipgloss.Color("#f5f7ff")
	LightForeground = lipgloss.Color("#141a33")
	LightPrimary    = lipgloss.Color("#2f55d4")
	LightAccent     = lipgloss.Color("#7b3fe4")
	LightSecondary  = lipgloss.Color("#e3e8fb")
	LightMuted      = lipgloss.Color("#7a819e")
	LightBorder     = lipgloss.Color("#c9d0ee")
	LightCard       = lipgloss.Color("#ffffff")

	// Semantic Colors (same in both modes)
	Destructive = lipgloss.Color("#ff5c7a")
	Success     = lipgloss.Color("#3ddc97") // Online
	Warning     = lipgloss.Color("#ffc857")
	Star        = lipgloss.Color("#c8d3ff")
)

// Theme holds the current color scheme
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Secondary:  LightSecondary,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Secondary:  DarkSecondary,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// DetectTheme guesses the terminal background from COLORFGBG.
// Space looks best dark, so anything not clearly light gets the dark theme.
func DetectTheme() Theme {
	if colorTerm := os.Getenv("COLORFGBG"); colorTerm != "" {
		// Format is usually "foreground;background"
		parts := strings.Split(colorTerm, ";")
		if bgIdx, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			if bgIdx == 7 || bgIdx >= 9 {
				return LightTheme()
			}
		}
	}
	return DarkTheme()
}

// ThemeFor resolves a configured theme name ("dark", "light", or "auto").
func ThemeFor(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dark":
		return DarkTheme()
	case "light":
		return LightTheme()
	default:
		return DetectTheme()
	}
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	// Layout
	Header lipgloss.Style
	Footer lipgloss.Style

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style

	// Transcript
	UserLabel       lipgloss.Style
	UserBubble      lipgloss.Style
	AssistantLabel  lipgloss.Style
	AssistantBubble lipgloss.Style
	Verified        lipgloss.Style
	Timestamp       lipgloss.Style
	Typing          lipgloss.Style

	// Status
	Online  lipgloss.Style
	Offline lipgloss.Style

	// Components
	Input   lipgloss.Style
	Spinner lipgloss.Style
	Star    lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Padding(0, 1).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		UserLabel: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		UserBubble: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Background(theme.Secondary).
			Padding(0, 1),

		AssistantLabel: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		AssistantBubble: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			PaddingLeft(1).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(theme.Accent),

		Verified: lipgloss.NewStyle().
			Foreground(Success).
			Italic(true),

		Timestamp: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Faint(true),

		Typing: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Italic(true),

		Online: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Offline: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Primary),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Star: lipgloss.NewStyle().
			Foreground(Star),
	}
}

// DefaultStyles returns styles for the detected theme
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}
