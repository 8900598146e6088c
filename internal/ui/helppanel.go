package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/tdoc/internal/theme"
)

// HelpGroup is a named column of key bindings.
type HelpGroup struct {
	Name     string
	Bindings []key.Binding
}

// HelpPanel renders the keybinding overview as a centered overlay.
type HelpPanel struct {
	visible bool
	groups  []HelpGroup
	width   int
	height  int
}

// NewHelpPanel creates a help panel listing the given groups.
func NewHelpPanel(groups ...HelpGroup) HelpPanel {
	return HelpPanel{groups: groups}
}

// Toggle flips visibility.
func (hp *HelpPanel) Toggle() {
	hp.visible = !hp.visible
}

// Hide closes the panel.
func (hp *HelpPanel) Hide() {
	hp.visible = false
}

// IsVisible reports whether the panel is shown.
func (hp *HelpPanel) IsVisible() bool {
	return hp.visible
}

// SetSize sets the screen size used for centering.
func (hp *HelpPanel) SetSize(w, h int) {
	hp.width = w
	hp.height = h
}

// View renders the panel box.
func (hp *HelpPanel) View() string {
	if !hp.visible {
		return ""
	}
	t := theme.Current

	groupStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Accent).Underline(true)
	keyStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Secondary).Width(12)
	descStyle := lipgloss.NewStyle().Foreground(t.Text)
	sepStyle := lipgloss.NewStyle().Foreground(t.Border)

	var cols []string
	for _, g := range hp.groups {
		lines := []string{groupStyle.Render(g.Name), ""}
		for _, b := range g.Bindings {
			h := b.Help()
			lines = append(lines, keyStyle.Render(h.Key)+descStyle.Render(h.Desc))
		}
		cols = append(cols, strings.Join(lines, "\n"))
	}

	// Groups flow left to right and wrap when the screen is too narrow.
	limit := hp.width - 6
	var rows, row []string
	rowWidth := 0
	for _, col := range cols {
		w := lipgloss.Width(col) + 3
		if len(row) > 0 && limit > 0 && rowWidth+w > limit {
			rows = append(rows, joinColumns(row, sepStyle))
			row, rowWidth = nil, 0
		}
		row = append(row, col)
		rowWidth += w
	}
	if len(row) > 0 {
		rows = append(rows, joinColumns(row, sepStyle))
	}
	body := strings.Join(rows, "\n\n")

	title := lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Render("Keys")
	footer := lipgloss.NewStyle().Foreground(t.TextDim).Italic(true).Render("? or Esc to dismiss")
	content := lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", footer)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Render(content)
}

// Overlay draws the panel centered over bg.
func (hp *HelpPanel) Overlay(bg string) string {
	box := hp.View()
	if box == "" {
		return bg
	}
	x := (hp.width - lipgloss.Width(box)) / 2
	y := (hp.height - lipgloss.Height(box)) / 2
	return Overlay(bg, box, max(x, 0), max(y, 0))
}

// joinColumns places cols side by side with a vertical rule between them.
func joinColumns(cols []string, sepStyle lipgloss.Style) string {
	height := 0
	for _, c := range cols {
		height = max(height, lipgloss.Height(c))
	}
	sep := strings.TrimSuffix(strings.Repeat(sepStyle.Render(" │ ")+"\n", height), "\n")

	parts := make([]string, 0, 2*len(cols))
	for i, c := range cols {
		if i > 0 {
			parts = append(parts, sep)
		}
		parts = append(parts, c)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
