package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Decorative renderers. They are pure functions of their arguments and hold
// no state of their own.

var starGlyphs = []rune{'·', '✦', '*', '.', '✧'}

// Starfield renders one row of stars. The layout is fixed per (row, width);
// frame only toggles which stars are lit.
func Starfield(s Styles, width, row, frame int) string {
	if width <= 0 {
		return ""
	}
	var b strings.Builder
	for x := 0; x < width; x++ {
		h := hash2(x, row)
		if h%11 != 0 {
			b.WriteByte(' ')
			continue
		}
		if (h/11+uint32(frame))%5 == 0 {
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(starGlyphs[(h/7)%uint32(len(starGlyphs))])
	}
	return s.Star.Render(b.String())
}

// hash2 is a small integer hash for stable star placement.
func hash2(x, y int) uint32 {
	h := uint32(x)*374761393 + uint32(y)*668265263
	h = (h ^ (h >> 13)) * 1274126177
	return h ^ (h >> 16)
}

// Header renders the title line: a rocket, the assistant name and a subtitle.
func Header(s Styles, name string, width int) string {
	title := s.Title.Render("🚀 " + name)
	sub := s.Subtitle.Render("Your space exploration assistant")
	line := title + "  " + sub
	if lipgloss.Width(line) > width {
		line = title
	}
	return s.Header.Render(line)
}

// StatusBar renders the connection state, the message count and the date.
// messages excludes the greeting.
func StatusBar(s Styles, width int, online bool, messages int, now time.Time) string {
	status := s.Online.Render("● Mission Control Online")
	if !online {
		status = s.Offline.Render("● Mission Control Offline")
	}
	count := s.Muted.Render(fmt.Sprintf("%d messages", max(messages, 0)))
	date := s.Muted.Render(now.Format("Mon Jan 2 2006"))

	left := status + s.Muted.Render("  │  ") + count
	gap := width - lipgloss.Width(left) - lipgloss.Width(date) - 2
	if gap < 1 {
		return s.Footer.Render(left)
	}
	return s.Footer.Render(left + strings.Repeat(" ", gap) + date)
}
