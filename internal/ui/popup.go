package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/vidyasagar/tdoc/internal/lookup"
	"github.com/vidyasagar/tdoc/internal/theme"
)

// PopupState is the visibility of a Popup.
type PopupState int

const (
	PopupHidden PopupState = iota
	PopupShown
)

func (s PopupState) String() string {
	if s == PopupShown {
		return "shown"
	}
	return "hidden"
}

// CloseReason records what dismissed a popup.
type CloseReason int

const (
	CloseExplicit CloseReason = iota
	CloseEscape
	CloseFocusLost
)

func (r CloseReason) String() string {
	switch r {
	case CloseEscape:
		return "escape"
	case CloseFocusLost:
		return "focus lost"
	default:
		return "explicit"
	}
}

// PopupClosedMsg is emitted when a shown popup is hidden by user input.
type PopupClosedMsg struct {
	Reason CloseReason
}

// PopupExpandMsg asks the host to open the popup's page in the reader.
type PopupExpandMsg struct {
	Token string
	URL   string
}

// PopupOpenMsg asks the host to open the popup's search URL in the browser.
type PopupOpenMsg struct {
	URL string
}

const (
	popupMaxWidth = 72
	popupMinWidth = 24
)

// Popup is the owned documentation window. While shown it is drawn above
// everything else and receives all input.
type Popup struct {
	state  PopupState
	result lookup.Result
	anchor Point
	width  int // screen
	height int
	offset int // first visible content line
	lines  []string
}

// NewPopup creates a hidden popup.
func NewPopup() Popup {
	return Popup{}
}

// SetSize sets the screen size the popup must fit in.
func (p *Popup) SetSize(w, h int) {
	p.width = w
	p.height = h
	if p.state == PopupShown {
		p.reflow()
	}
}

// Show displays res at anchor, replacing any popup already shown.
func (p *Popup) Show(res lookup.Result, at Point) {
	if p.state == PopupShown {
		p.close()
	}
	p.result = res
	p.anchor = at
	p.offset = 0
	p.state = PopupShown
	p.reflow()
}

// Close hides the popup. It reports false when it was already hidden.
func (p *Popup) Close() bool {
	return p.close()
}

func (p *Popup) close() bool {
	if p.state != PopupShown {
		return false
	}
	p.state = PopupHidden
	p.lines = nil
	return true
}

// State returns the current state.
func (p *Popup) State() PopupState {
	return p.state
}

// IsVisible reports whether the popup is shown.
func (p *Popup) IsVisible() bool {
	return p.state == PopupShown
}

// Result returns the lookup being displayed.
func (p *Popup) Result() lookup.Result {
	return p.result
}

// Update handles input while the popup owns focus.
func (p *Popup) Update(msg tea.Msg) (*Popup, tea.Cmd) {
	if p.state != PopupShown {
		return p, nil
	}

	switch msg := msg.(type) {
	case tea.BlurMsg:
		return p, p.dismiss(CloseFocusLost)

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return p, nil
		}
		if !p.Bounds().Contains(Point{X: msg.X, Y: msg.Y}) {
			return p, p.dismiss(CloseFocusLost)
		}
		switch msg.Button {
		case tea.MouseButtonWheelDown:
			p.scroll(1)
		case tea.MouseButtonWheelUp:
			p.scroll(-1)
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return p, p.dismiss(CloseEscape)
		case "j", "down":
			p.scroll(1)
		case "k", "up":
			p.scroll(-1)
		case "enter":
			if p.result.FinalURL == "" {
				return p, nil
			}
			r := p.result
			return p, func() tea.Msg { return PopupExpandMsg{Token: r.Token, URL: r.FinalURL} }
		case "o":
			u := p.result.SearchURL
			return p, func() tea.Msg { return PopupOpenMsg{URL: u} }
		}
	}
	return p, nil
}

func (p *Popup) dismiss(reason CloseReason) tea.Cmd {
	if !p.close() {
		return nil
	}
	return func() tea.Msg { return PopupClosedMsg{Reason: reason} }
}

func (p *Popup) scroll(n int) {
	p.offset += n
	if last := len(p.lines) - p.bodyHeight(); p.offset > last {
		p.offset = last
	}
	if p.offset < 0 {
		p.offset = 0
	}
}

// reflow wraps the content to the current screen width.
func (p *Popup) reflow() {
	text := strings.TrimRight(p.result.Content.Display(), "\n")
	p.lines = strings.Split(ansi.Wrap(text, p.innerWidth(), ""), "\n")
	p.scroll(0)
}

func (p *Popup) innerWidth() int {
	w := popupMaxWidth
	if p.width > 0 && p.width-6 < w {
		w = p.width - 6
	}
	if w < popupMinWidth {
		w = popupMinWidth
	}
	return w
}

// bodyHeight is the number of content lines that fit on screen: border,
// title and footer take five rows.
func (p *Popup) bodyHeight() int {
	h := len(p.lines)
	if p.height > 0 && h > p.height-5 {
		h = p.height - 5
	}
	if h < 1 {
		h = 1
	}
	return h
}

// Bounds returns the screen area covered by the popup.
func (p *Popup) Bounds() Rect {
	box := p.View()
	return placeBox(p.anchor, lipgloss.Width(box), lipgloss.Height(box), p.width, p.height)
}

// View renders the popup box, or "" when hidden.
func (p *Popup) View() string {
	if p.state != PopupShown {
		return ""
	}
	t := theme.Current

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	bodyStyle := lipgloss.NewStyle().Foreground(t.Text)
	switch p.result.Content.Kind {
	case lookup.KindError:
		bodyStyle = bodyStyle.Foreground(t.Error)
	case lookup.KindNoResult:
		bodyStyle = bodyStyle.Foreground(t.TextDim).Italic(true)
	}
	footStyle := lipgloss.NewStyle().Foreground(t.TextDim).Italic(true)

	end := p.offset + p.bodyHeight()
	if end > len(p.lines) {
		end = len(p.lines)
	}
	body := bodyStyle.Render(strings.Join(p.lines[p.offset:end], "\n"))

	foot := "esc close · o browser"
	if p.result.FinalURL != "" {
		foot += " · enter read"
	}
	if len(p.lines) > p.bodyHeight() {
		foot += " · j/k scroll"
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(lookup.Printable(p.result.Token)),
		body,
		footStyle.Render(foot),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocus).
		Padding(0, 1).
		Render(content)
}

// Overlay draws the popup over bg.
func (p *Popup) Overlay(bg string) string {
	if p.state != PopupShown {
		return bg
	}
	r := p.Bounds()
	return Overlay(bg, p.View(), r.X, r.Y)
}
