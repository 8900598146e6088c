package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/tdoc/internal/lookup"
	"github.com/vidyasagar/tdoc/internal/theme"
)

// StatusBar shows mode, the selected token and transient messages at the
// bottom of the screen.
type StatusBar struct {
	mode     string
	name     string // listing or page name
	token    string
	position string
	loading  string // token being looked up
	message  string
	isError  bool
	width    int
}

// NewStatusBar creates a new status bar.
func NewStatusBar() StatusBar {
	return StatusBar{mode: "NORMAL"}
}

// SetWidth sets the status bar width.
func (s *StatusBar) SetWidth(w int) {
	s.width = w
}

// SetMode sets the mode indicator (NORMAL, POPUP, INPUT, READER).
func (s *StatusBar) SetMode(mode string) {
	s.mode = mode
}

// SetName sets the name of what is being viewed.
func (s *StatusBar) SetName(name string) {
	s.name = lookup.Printable(name)
}

// SetToken sets the selected token.
func (s *StatusBar) SetToken(tok string) {
	s.token = tok
}

// SetPosition sets the right-hand position indicator.
func (s *StatusBar) SetPosition(pos string) {
	s.position = pos
}

// SetLoading marks a lookup of token as in flight; "" clears it.
func (s *StatusBar) SetLoading(token string) {
	s.loading = token
}

// SetMessage sets a temporary message, cleared on the next key press.
func (s *StatusBar) SetMessage(msg string) {
	s.message = lookup.Printable(msg)
	s.isError = false
}

// SetError sets a temporary error message.
func (s *StatusBar) SetError(msg string) {
	s.message = lookup.Printable(msg)
	s.isError = true
}

// ClearMessage removes the temporary message.
func (s *StatusBar) ClearMessage() {
	s.message = ""
	s.isError = false
}

// Message returns the temporary message.
func (s *StatusBar) Message() string {
	return s.message
}

// View renders the status bar.
func (s *StatusBar) View() string {
	t := theme.Current

	modeBg := t.Primary
	switch s.mode {
	case "POPUP":
		modeBg = t.Accent
	case "INPUT":
		modeBg = t.Success
	case "READER":
		modeBg = t.Secondary
	}
	mode := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Background).
		Background(modeBg).
		Padding(0, 1).
		Render(s.mode)

	cell := lipgloss.NewStyle().Background(t.Surface).Padding(0, 1)

	var left string
	switch {
	case s.loading != "":
		left = cell.Foreground(t.Warning).Bold(true).Render("⏳ looking up " + s.loading)
	case s.message != "" && s.isError:
		left = cell.Foreground(t.Error).Render(s.message)
	case s.message != "":
		left = cell.Foreground(t.Info).Render(s.message)
	case s.token != "":
		left = cell.Foreground(t.Text).Render(s.token)
	}

	var right string
	if s.name != "" {
		right += cell.Foreground(t.TextDim).Render(s.name)
	}
	if s.position != "" {
		right += cell.Foreground(t.Secondary).Bold(true).Render(s.position)
	}

	spacerWidth := s.width - lipgloss.Width(mode) - lipgloss.Width(left) - lipgloss.Width(right)
	if spacerWidth < 0 {
		spacerWidth = 0
	}
	spacer := lipgloss.NewStyle().Background(t.Surface).Render(fmt.Sprintf("%*s", spacerWidth, ""))

	return mode + left + spacer + right
}
