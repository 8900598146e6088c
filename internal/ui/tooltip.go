package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/vidyasagar/tdoc/internal/lookup"
	"github.com/vidyasagar/tdoc/internal/theme"
)

const tooltipMaxLines = 12

// Tooltip is a transient hint drawn at the pointer. It never takes focus;
// the host clears it on the next input event.
type Tooltip struct {
	content lookup.Content
	anchor  Point
	visible bool
	width   int
	height  int
}

// NewTooltip creates an empty tooltip.
func NewTooltip() Tooltip {
	return Tooltip{}
}

// SetSize sets the screen size.
func (tt *Tooltip) SetSize(w, h int) {
	tt.width = w
	tt.height = h
}

// Set shows c at anchor.
func (tt *Tooltip) Set(c lookup.Content, at Point) {
	tt.content = c
	tt.anchor = at
	tt.visible = true
}

// Clear hides the tooltip.
func (tt *Tooltip) Clear() {
	tt.visible = false
}

// IsVisible reports whether the tooltip is drawn.
func (tt *Tooltip) IsVisible() bool {
	return tt.visible
}

// View renders the tooltip.
func (tt *Tooltip) View() string {
	if !tt.visible {
		return ""
	}
	t := theme.Current

	width := 60
	if tt.width > 0 && tt.width-2 < width {
		width = tt.width - 2
	}
	if width < 10 {
		width = 10
	}
	lines := strings.Split(ansi.Wrap(strings.TrimRight(tt.content.Display(), "\n"), width, ""), "\n")
	if len(lines) > tooltipMaxLines {
		lines = append(lines[:tooltipMaxLines-1], "…")
	}

	style := lipgloss.NewStyle().
		Foreground(t.Text).
		Background(t.Surface).
		Padding(0, 1)
	if tt.content.Kind == lookup.KindError {
		style = style.Foreground(t.Error)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// Overlay draws the tooltip over bg.
func (tt *Tooltip) Overlay(bg string) string {
	if !tt.visible {
		return bg
	}
	box := tt.View()
	r := placeBox(tt.anchor, lipgloss.Width(box), lipgloss.Height(box), tt.width, tt.height)
	return Overlay(bg, box, r.X, r.Y)
}
