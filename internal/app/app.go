package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/tdoc/internal/config"
	"github.com/vidyasagar/tdoc/internal/launch"
	"github.com/vidyasagar/tdoc/internal/listing"
	"github.com/vidyasagar/tdoc/internal/lookup"
	"github.com/vidyasagar/tdoc/internal/reader"
	"github.com/vidyasagar/tdoc/internal/theme"
	"github.com/vidyasagar/tdoc/internal/ui"
)

// Mode represents the current input mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeInput       // token bar focused
	ModeReader      // documentation page shown
)

// Options configures a Model.
type Options struct {
	Config  *config.Config
	Listing *listing.Listing
	Getter  lookup.Getter // nil means a Fetcher built from Config
	Opener  launch.Opener // nil means the system browser
	Logger  *slog.Logger
}

// Model is the top-level bubbletea model for tdoc.
type Model struct {
	// UI components
	listingView ui.ListingView
	popup       ui.Popup
	tooltip     ui.Tooltip
	statusBar   ui.StatusBar
	tokenBar    ui.TokenBar
	reader      ui.ReaderPane
	help        ui.HelpPanel

	// Lookup pipeline
	cfg      *config.Config
	getter   lookup.Getter
	resolver *lookup.Resolver
	lookups  *lookup.Tracker
	pages    *lookup.Tracker
	opener   launch.Opener
	logger   *slog.Logger

	keys       KeyMap
	mode       Mode
	pointer    ui.Point // last mouse position
	hasPointer bool
	name       string
	width      int
	height     int
	ready      bool
}

// tooltipReadyMsg carries a finished lookup back onto the event loop.
type tooltipReadyMsg struct {
	id     uint64
	at     ui.Point
	result lookup.Result
	err    error
}

// pageLoadedMsg is sent when a reader page finishes loading.
type pageLoadedMsg struct {
	id   uint64
	url  string
	page *reader.Page
	err  error
}

// openedMsg reports the outcome of an open-in-browser request.
type openedMsg struct {
	url string
	err error
}

// New creates a new tdoc Model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		d := config.DefaultConfig()
		cfg = &d
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	getter := opts.Getter
	if getter == nil {
		getter = lookup.NewFetcher(cfg.UserAgent,
			lookup.WithTimeout(cfg.Timeout()),
			lookup.WithLogger(logger),
		)
	}
	opener := opts.Opener
	if opener == nil {
		opener = launch.Browser{}
	}
	l := opts.Listing
	if l == nil {
		l = &listing.Listing{Name: "empty"}
	}

	keys := DefaultKeyMap()
	m := Model{
		listingView: ui.NewListingView(l),
		popup:       ui.NewPopup(),
		tooltip:     ui.NewTooltip(),
		statusBar:   ui.NewStatusBar(),
		tokenBar:    ui.NewTokenBar(),
		reader:      ui.NewReaderPane(),
		help:        ui.NewHelpPanel(keys.HelpGroups()...),

		cfg:      cfg,
		getter:   getter,
		resolver: lookup.NewResolver(getter, cfg.Settings(), logger),
		lookups:  lookup.NewTracker(cfg.Timeout()),
		pages:    lookup.NewTracker(cfg.Timeout()),
		opener:   opener,
		logger:   logger,

		keys: keys,
		mode: ModeNormal,
		name: l.Name,
	}
	m.syncStatusBar()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("tdoc: " + m.name)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case tooltipReadyMsg:
		return m.handleTooltipReady(msg)

	case pageLoadedMsg:
		return m.handlePageLoaded(msg)

	case openedMsg:
		if msg.err != nil {
			m.statusBar.SetError(msg.err.Error())
		} else {
			m.statusBar.SetMessage("opened " + msg.url)
		}
		return m, nil

	case ui.PopupClosedMsg:
		m.logger.Debug("popup closed", "reason", msg.Reason)
		m.syncStatusBar()
		return m, nil

	case ui.PopupExpandMsg:
		m.popup.Close()
		return m, m.loadPage(msg.URL)

	case ui.PopupOpenMsg:
		return m, m.openURL(msg.URL)

	case tea.BlurMsg:
		m.tooltip.Clear()
		if m.popup.IsVisible() {
			_, cmd := m.popup.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	// Cursor blink and other component messages.
	if m.tokenBar.IsActive() {
		_, cmd := m.tokenBar.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "\n  Loading tdoc..."
	}

	// Layout:
	// [listing | reader]
	// [status bar]
	// [token bar] (if active)
	var sections []string
	if m.mode == ModeReader {
		sections = append(sections, m.reader.View())
	} else {
		sections = append(sections, m.listingView.View())
	}
	sections = append(sections, m.statusBar.View())
	if m.tokenBar.IsActive() {
		sections = append(sections, m.tokenBar.View())
	}
	out := lipgloss.JoinVertical(lipgloss.Left, sections...)

	// The popup goes last so nothing covers it.
	out = m.tooltip.Overlay(out)
	out = m.help.Overlay(out)
	out = m.popup.Overlay(out)
	return out
}

// layout recalculates dimensions for all components.
func (m *Model) layout() {
	m.statusBar.SetWidth(m.width)
	m.tokenBar.SetWidth(m.width)

	bodyHeight := m.height - 1
	if m.tokenBar.IsActive() {
		bodyHeight--
	}
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	m.listingView.SetSize(m.width, bodyHeight)
	m.reader.SetSize(m.width, bodyHeight)

	m.popup.SetSize(m.width, m.height)
	m.tooltip.SetSize(m.width, m.height)
	m.help.SetSize(m.width, m.height)
}

// handleKeyMsg routes key events. A shown popup owns the keyboard.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	m.tooltip.Clear()
	m.statusBar.ClearMessage()

	if m.popup.IsVisible() {
		_, cmd := m.popup.Update(msg)
		m.syncStatusBar()
		return m, cmd
	}

	if m.help.IsVisible() {
		if key.Matches(msg, m.keys.Help, m.keys.Back) {
			m.help.Hide()
		}
		return m, nil
	}

	switch m.mode {
	case ModeInput:
		return m.handleInputMode(msg)
	case ModeReader:
		return m.handleReaderMode(msg)
	default:
		return m.handleNormalMode(msg)
	}
}

// handleNormalMode processes keys while browsing the listing.
func (m Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m.quit()

	case key.Matches(msg, k.Back):
		m.lookups.Cancel()
		m.statusBar.SetLoading("")
		return m, nil

	case key.Matches(msg, k.ShowDocs):
		return m, m.showDocs()

	case key.Matches(msg, k.OpenBrowser):
		tok, ok := m.listingView.Selected()
		if !ok {
			m.statusBar.SetError("no symbol selected")
			return m, nil
		}
		return m, m.openURL(m.resolver.URL(tok))

	case key.Matches(msg, k.TypeToken):
		m.mode = ModeInput
		cmd := m.tokenBar.Focus()
		m.layout()
		m.syncStatusBar()
		return m, cmd

	case key.Matches(msg, k.CycleTheme):
		m.cycleTheme()
		return m, nil

	case key.Matches(msg, k.Help):
		m.help.Toggle()
		return m, nil

	case key.Matches(msg, k.LineDown):
		m.listingView.MoveLine(1)
	case key.Matches(msg, k.LineUp):
		m.listingView.MoveLine(-1)
	case key.Matches(msg, k.NextToken):
		m.listingView.MoveToken(1)
	case key.Matches(msg, k.PrevToken):
		m.listingView.MoveToken(-1)
	case key.Matches(msg, k.HalfPageDown):
		m.listingView.MoveLine(max(m.height/2, 1))
	case key.Matches(msg, k.HalfPageUp):
		m.listingView.MoveLine(-max(m.height/2, 1))
	case key.Matches(msg, k.GotoTop):
		m.listingView.GotoTop()
	case key.Matches(msg, k.GotoBottom):
		m.listingView.GotoBottom()

	default:
		return m, nil
	}

	// Keyboard movement takes the anchor back from the mouse.
	m.hasPointer = false
	m.syncStatusBar()
	return m, nil
}

// handleInputMode processes keys while the token bar is focused.
func (m Model) handleInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "ctrl+q":
		tok := strings.TrimSpace(m.tokenBar.Value())
		m.closeTokenBar()
		if tok == "" {
			return m, nil
		}
		return m, m.lookup(tok, ui.Point{X: 0, Y: m.height - 1})

	case "ctrl+o":
		tok := strings.TrimSpace(m.tokenBar.Value())
		m.closeTokenBar()
		if tok == "" {
			return m, nil
		}
		return m, m.openURL(m.resolver.URL(tok))

	case "esc":
		m.closeTokenBar()
		return m, nil
	}

	_, cmd := m.tokenBar.Update(msg)
	return m, cmd
}

// handleReaderMode processes keys while a documentation page is shown.
func (m Model) handleReaderMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Back):
		m.pages.Cancel()
		m.reader.Reset()
		m.mode = ModeNormal
	case key.Matches(msg, k.OpenBrowser):
		if u := m.reader.URL(); u != "" {
			return m, m.openURL(u)
		}
	case key.Matches(msg, k.GotoTop):
		m.reader.GotoTop()
	case key.Matches(msg, k.GotoBottom):
		m.reader.GotoBottom()
	case key.Matches(msg, k.CycleTheme):
		m.cycleTheme()
	case key.Matches(msg, k.Help):
		m.help.Toggle()
	default:
		_, cmd := m.reader.Update(msg)
		m.syncStatusBar()
		return m, cmd
	}
	m.syncStatusBar()
	return m, nil
}

// handleMouse tracks the pointer and routes mouse events.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action == tea.MouseActionPress {
		m.tooltip.Clear()
	}
	if m.popup.IsVisible() {
		_, cmd := m.popup.Update(msg)
		m.syncStatusBar()
		return m, cmd
	}
	if m.help.IsVisible() || m.mode == ModeInput {
		return m, nil
	}
	if m.mode == ModeReader {
		_, cmd := m.reader.Update(msg)
		m.syncStatusBar()
		return m, cmd
	}

	m.pointer = ui.Point{X: msg.X, Y: msg.Y}
	m.hasPointer = true
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}

	var cmd tea.Cmd
	switch msg.Button {
	case tea.MouseButtonWheelDown:
		m.listingView.MoveLine(3)
	case tea.MouseButtonWheelUp:
		m.listingView.MoveLine(-3)
	case tea.MouseButtonLeft:
		m.listingView.SelectAt(m.pointer)
	case tea.MouseButtonRight:
		if m.listingView.SelectAt(m.pointer) {
			cmd = m.showDocs()
		}
	}
	m.syncStatusBar()
	return m, cmd
}

// showDocs starts a lookup of the selected token.
func (m *Model) showDocs() tea.Cmd {
	tok, ok := m.listingView.Selected()
	if !ok {
		m.statusBar.SetError("no symbol selected")
		return nil
	}
	at := m.listingView.CursorPoint()
	if m.hasPointer {
		at = m.pointer
	}
	return m.lookup(tok, at)
}

// lookup resolves token off the event loop. Beginning a lookup supersedes
// any one still in flight.
func (m *Model) lookup(token string, at ui.Point) tea.Cmd {
	id, ctx := m.lookups.Begin(context.Background())
	m.statusBar.SetLoading(token)
	m.logger.Debug("lookup started", "id", id, "token", token)

	resolver := m.resolver
	return func() tea.Msg {
		res, err := resolver.Resolve(ctx, token)
		return tooltipReadyMsg{id: id, at: at, result: res, err: err}
	}
}

// handleTooltipReady presents a finished lookup unless it was superseded.
func (m Model) handleTooltipReady(msg tooltipReadyMsg) (tea.Model, tea.Cmd) {
	if msg.id != m.lookups.Current() {
		m.logger.Debug("dropping stale lookup", "id", msg.id, "token", msg.result.Token)
		return m, nil
	}
	m.lookups.Finish(msg.id)
	m.statusBar.SetLoading("")
	if msg.err != nil {
		m.logger.Debug("lookup canceled", "id", msg.id, "token", msg.result.Token)
		return m, nil
	}

	switch m.cfg.Presenter {
	case config.PresenterTooltip:
		m.tooltip.Set(msg.result.Content, msg.at)
	default:
		m.popup.Show(msg.result, msg.at)
	}
	m.syncStatusBar()
	return m, nil
}

// loadPage fetches u for the reader view.
func (m *Model) loadPage(u string) tea.Cmd {
	id, ctx := m.pages.Begin(context.Background())
	m.mode = ModeReader
	m.reader.SetPage("Loading...", u, "")
	m.statusBar.SetMessage("loading " + u)
	m.syncStatusBar()

	getter := m.getter
	width := m.width
	return func() tea.Msg {
		res, err := getter.Fetch(ctx, u)
		if err != nil {
			return pageLoadedMsg{id: id, url: u, err: err}
		}
		article, err := reader.Extract(res)
		if err != nil {
			return pageLoadedMsg{id: id, url: res.FinalURL, err: err}
		}
		return pageLoadedMsg{id: id, url: res.FinalURL, page: reader.Render(article, width)}
	}
}

// handlePageLoaded processes a completed reader load.
func (m Model) handlePageLoaded(msg pageLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.id != m.pages.Current() || m.mode != ModeReader {
		return m, nil
	}
	m.pages.Finish(msg.id)
	m.statusBar.ClearMessage()

	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			return m, nil
		}
		text := errorText(msg.err)
		m.logger.Warn("page load failed", "url", msg.url, "error", msg.err)

		errStyle := lipgloss.NewStyle().
			Foreground(theme.Current.Error).
			Bold(true).
			Padding(1, 2)
		m.reader.SetPage("Failed to load page", msg.url, errStyle.Render(text))
		m.statusBar.SetError(text)
		m.syncStatusBar()
		return m, nil
	}

	m.reader.SetPage(msg.page.Title, msg.url, msg.page.Content)
	m.statusBar.SetMessage(fmt.Sprintf("%d links", len(msg.page.Links)))
	m.syncStatusBar()
	return m, nil
}

// openURL asks the opener to show u outside the terminal.
func (m *Model) openURL(u string) tea.Cmd {
	opener := m.opener
	logger := m.logger
	return func() tea.Msg {
		err := opener.Open(u)
		if err != nil {
			logger.Warn("open in browser failed", "url", u, "error", err)
		}
		return openedMsg{url: u, err: err}
	}
}

func (m *Model) closeTokenBar() {
	m.tokenBar.Blur()
	m.mode = ModeNormal
	m.layout()
	m.syncStatusBar()
}

func (m *Model) cycleTheme() {
	names := theme.List()
	next := names[0]
	for i, name := range names {
		if name == theme.Current.Name {
			next = names[(i+1)%len(names)]
			break
		}
	}
	theme.Set(next)
	m.statusBar.SetMessage("theme: " + next)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.lookups.Cancel()
	m.pages.Cancel()
	return m, tea.Quit
}

// syncStatusBar updates the status bar with current state.
func (m *Model) syncStatusBar() {
	switch {
	case m.popup.IsVisible():
		m.statusBar.SetMode("POPUP")
	case m.mode == ModeInput:
		m.statusBar.SetMode("INPUT")
	case m.mode == ModeReader:
		m.statusBar.SetMode("READER")
	default:
		m.statusBar.SetMode("NORMAL")
	}

	if m.mode == ModeReader {
		m.statusBar.SetName(m.reader.URL())
		m.statusBar.SetToken("")
		m.statusBar.SetPosition(m.reader.ScrollInfo())
		return
	}
	tok, _ := m.listingView.Selected()
	m.statusBar.SetName(m.name)
	m.statusBar.SetToken(tok)
	m.statusBar.SetPosition(m.listingView.Position())
}

// errorText turns a page load failure into a one-line message.
func errorText(err error) string {
	var fe *lookup.FetchError
	if errors.As(err, &fe) {
		return fe.Summary()
	}
	var se *lookup.StatusError
	if errors.As(err, &se) {
		return lookup.StatusContent(se.StatusCode).Text
	}
	return "Error: " + err.Error()
}
