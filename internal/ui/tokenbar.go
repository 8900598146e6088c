package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/tdoc/internal/theme"
)

// TokenBar is a one-line prompt for typing a token by hand.
type TokenBar struct {
	input  textinput.Model
	active bool
	width  int
}

// NewTokenBar creates a new token bar.
func NewTokenBar() TokenBar {
	ti := textinput.New()
	ti.Placeholder = "symbol to look up"
	ti.Prompt = "lookup: "
	ti.CharLimit = 256
	ti.Width = 40
	return TokenBar{input: ti}
}

// SetWidth updates the bar width.
func (tb *TokenBar) SetWidth(w int) {
	tb.width = w
	if w > 12 {
		tb.input.Width = w - 12
	}
}

// Focus activates the bar for input.
func (tb *TokenBar) Focus() tea.Cmd {
	tb.active = true
	tb.input.Reset()
	return tb.input.Focus()
}

// Blur deactivates the bar.
func (tb *TokenBar) Blur() {
	tb.active = false
	tb.input.Blur()
}

// IsActive reports whether the bar is focused.
func (tb *TokenBar) IsActive() bool {
	return tb.active
}

// Value returns the typed text.
func (tb *TokenBar) Value() string {
	return tb.input.Value()
}

// Update handles messages for the bar.
func (tb *TokenBar) Update(msg tea.Msg) (*TokenBar, tea.Cmd) {
	if !tb.active {
		return tb, nil
	}
	var cmd tea.Cmd
	tb.input, cmd = tb.input.Update(msg)
	return tb, cmd
}

// View renders the bar.
func (tb *TokenBar) View() string {
	t := theme.Current
	tb.input.PromptStyle = lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	tb.input.TextStyle = lipgloss.NewStyle().Foreground(t.Text)
	return lipgloss.NewStyle().
		Background(t.Surface).
		Width(tb.width).
		Render(tb.input.View())
}
