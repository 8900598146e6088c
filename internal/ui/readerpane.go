package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/tdoc/internal/theme"
)

// ReaderPane shows a rendered documentation page in a scrollable viewport.
type ReaderPane struct {
	viewport viewport.Model
	ready    bool
	title    string
	url      string
	loaded   bool
}

// NewReaderPane creates a reader pane (dimensions set on first WindowSizeMsg).
func NewReaderPane() ReaderPane {
	return ReaderPane{}
}

// SetSize updates the pane dimensions. One row is kept for the title.
func (rp *ReaderPane) SetSize(width, height int) {
	h := height - 1
	if h < 1 {
		h = 1
	}
	if !rp.ready {
		rp.viewport = viewport.New(width, h)
		rp.viewport.MouseWheelEnabled = true
		rp.viewport.MouseWheelDelta = 3
		rp.ready = true
		return
	}
	rp.viewport.Width = width
	rp.viewport.Height = h
}

// SetPage replaces the pane content and scrolls to the top.
func (rp *ReaderPane) SetPage(title, url, content string) {
	rp.title = title
	rp.url = url
	rp.loaded = true
	if !rp.ready {
		return
	}
	rp.viewport.SetContent(content)
	rp.viewport.GotoTop()
}

// Reset forgets the current page.
func (rp *ReaderPane) Reset() {
	rp.title = ""
	rp.url = ""
	rp.loaded = false
	if rp.ready {
		rp.viewport.SetContent("")
	}
}

// Loaded reports whether a page is set.
func (rp *ReaderPane) Loaded() bool {
	return rp.loaded
}

// URL returns the address of the shown page.
func (rp *ReaderPane) URL() string {
	return rp.url
}

// Update forwards scrolling messages to the viewport.
func (rp *ReaderPane) Update(msg tea.Msg) (*ReaderPane, tea.Cmd) {
	if !rp.ready {
		return rp, nil
	}
	var cmd tea.Cmd
	rp.viewport, cmd = rp.viewport.Update(msg)
	return rp, cmd
}

// ScrollInfo returns a string like "42%" or "TOP" or "BOT".
func (rp *ReaderPane) ScrollInfo() string {
	if !rp.ready {
		return "TOP"
	}
	pct := rp.viewport.ScrollPercent()
	switch {
	case pct <= 0:
		return "TOP"
	case pct >= 1:
		return "BOT"
	default:
		return fmt.Sprintf("%d%%", int(pct*100))
	}
}

// GotoTop scrolls to the top.
func (rp *ReaderPane) GotoTop() {
	if rp.ready {
		rp.viewport.GotoTop()
	}
}

// GotoBottom scrolls to the bottom.
func (rp *ReaderPane) GotoBottom() {
	if rp.ready {
		rp.viewport.GotoBottom()
	}
}

// View renders the title row and the page.
func (rp *ReaderPane) View() string {
	if !rp.ready {
		return "\n  Initializing..."
	}
	t := theme.Current
	title := rp.title
	if title == "" {
		title = rp.url
	}
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		Width(rp.viewport.Width).
		MaxWidth(rp.viewport.Width).
		Render(strings.TrimSpace(title))
	return header + "\n" + rp.viewport.View()
}
