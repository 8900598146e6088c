package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidyasagar/tdoc/internal/config"
	"github.com/vidyasagar/tdoc/internal/listing"
	"github.com/vidyasagar/tdoc/internal/lookup"
	"github.com/vidyasagar/tdoc/internal/ui"
)

const testTemplate = "https://docs.test/?q=" + lookup.Marker

type stubGetter struct {
	mu    sync.Mutex
	pages map[string]string
	calls []string
}

func (s *stubGetter) Fetch(ctx context.Context, rawURL string) (*lookup.FetchResult, error) {
	s.mu.Lock()
	s.calls = append(s.calls, rawURL)
	s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, &lookup.FetchError{URL: rawURL, Err: err}
	}
	body, ok := s.pages[rawURL]
	if !ok {
		return &lookup.FetchResult{URL: rawURL, FinalURL: rawURL, StatusCode: http.StatusNotFound}, nil
	}
	return &lookup.FetchResult{URL: rawURL, FinalURL: rawURL, StatusCode: http.StatusOK, Body: []byte(body)}, nil
}

func (s *stubGetter) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type stubOpener struct {
	urls []string
}

func (o *stubOpener) Open(rawURL string) error {
	o.urls = append(o.urls, rawURL)
	return nil
}

type fixture struct {
	m      Model
	getter *stubGetter
	opener *stubOpener
}

func newFixture(t *testing.T, presenter string) *fixture {
	t.Helper()
	l, err := listing.Parse("test.asm", strings.NewReader("    call    CreateFileW\n    call    CloseHandle\n"))
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.SearchURL = testTemplate
	cfg.TooltipXPaths = []string{"//p"}
	cfg.Presenter = presenter

	f := &fixture{
		getter: &stubGetter{pages: map[string]string{
			"https://docs.test/?q=CreateFileW": "<html><body><h1>CreateFileW</h1><p>Creates a file.</p></body></html>",
			"https://docs.test/?q=CloseHandle": "<html><body><p>Closes a handle.</p></body></html>",
		}},
		opener: &stubOpener{},
	}
	f.m = New(Options{
		Config:  &cfg,
		Listing: l,
		Getter:  f.getter,
		Opener:  f.opener,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	f.send(t, tea.WindowSizeMsg{Width: 80, Height: 24})
	return f
}

// send delivers msg to the model and returns the resulting command.
func (f *fixture) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := f.m.Update(msg)
	m, ok := next.(Model)
	require.True(t, ok)
	f.m = m
	return cmd
}

// run executes cmd, as the bubbletea runtime would, and feeds the result
// back into the model.
func (f *fixture) run(t *testing.T, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	require.NotNil(t, cmd)
	return f.send(t, cmd())
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func (f *fixture) selectCreateFile(t *testing.T) {
	t.Helper()
	f.send(t, runes("l"))
	tok, ok := f.m.listingView.Selected()
	require.True(t, ok)
	require.Equal(t, "CreateFileW", tok)
}

func TestShowDocsInPopup(t *testing.T) {
	f := newFixture(t, config.PresenterPopup)
	f.selectCreateFile(t)

	cmd := f.send(t, tea.KeyMsg{Type: tea.KeyCtrlQ})
	assert.False(t, f.m.popup.IsVisible(), "nothing is shown until the lookup returns")
	f.run(t, cmd)

	require.True(t, f.m.popup.IsVisible())
	res := f.m.popup.Result()
	assert.Equal(t, "CreateFileW", res.Token)
	assert.Equal(t, "https://docs.test/?q=CreateFileW", res.SearchURL)
	assert.Equal(t, "Creates a file.\n\n", res.Content.Text)
	assert.Contains(t, f.m.View(), "Creates a file.")
	assert.Contains(t, f.m.statusBar.View(), "POPUP")
}

func TestPopupEscapeThenBlur(t *testing.T) {
	f := newFixture(t, config.PresenterPopup)
	f.selectCreateFile(t)
	f.run(t, f.send(t, tea.KeyMsg{Type: tea.KeyCtrlQ}))
	require.True(t, f.m.popup.IsVisible())

	cmd := f.send(t, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ui.PopupHidden, f.m.popup.State())
	f.run(t, cmd)
	assert.Contains(t, f.m.statusBar.View(), "NORMAL")

	assert.Nil(t, f.send(t, tea.BlurMsg{}))
	assert.Equal(t, ui.PopupHidden, f.m.popup.State())
}

func TestPopupCapturesKeys(t *testing.T) {
	f := newFixture(t, config.PresenterPopup)
	f.selectCreateFile(t)
	f.run(t, f.send(t, tea.KeyMsg{Type: tea.KeyCtrlQ}))

	// q would quit from the listing; the popup swallows it
	assert.Nil(t, f.send(t, runes("q")))
	assert.True(t, f.m.popup.IsVisible())
	tok, _ := f.m.listingView.Selected()
	assert.Equal(t, "CreateFileW", tok)
}

func TestStaleLookupDropped(t *testing.T) {
	f := newFixture(t, config.PresenterPopup)
	first := f.send(t, runes("K"))
	f.selectCreateFile(t)
	second := f.send(t, runes("K"))

	f.run(t, first)
	assert.False(t, f.m.popup.IsVisible())

	f.run(t, second)
	require.True(t, f.m.popup.IsVisible())
	assert.Equal(t, "CreateFileW", f.m.popup.Result().Token)
}

func TestTooltipPresenter(t *testing.T) {
	f := newFixture(t, config.PresenterTooltip)
	f.selectCreateFile(t)
	f.run(t, f.send(t, tea.KeyMsg{Type: tea.KeyCtrlQ}))

	assert.False(t, f.m.popup.IsVisible())
	require.True(t, f.m.tooltip.IsVisible())
	assert.Contains(t, f.m.View(), "Creates a file.")

	f.send(t, runes("j"))
	assert.False(t, f.m.tooltip.IsVisible())
	tok, _ := f.m.listingView.Selected()
	assert.Equal(t, "CloseHandle", tok, "the key still reaches the listing")
}

func TestOpenInBrowser(t *testing.T) {
	f := newFixture(t, config.PresenterPopup)
	f.selectCreateFile(t)

	f.run(t, f.send(t, tea.KeyMsg{Type: tea.KeyCtrlO}))
	assert.Equal(t, []string{"https://docs.test/?q=CreateFileW"}, f.opener.urls)
	assert.Zero(t, f.getter.count(), "opening never fetches")
	assert.Contains(t, f.m.statusBar.View(), "opened")
}

func TestTokenBar(t *testing.T) {
	f := newFixture(t, config.PresenterPopup)

	f.send(t, runes("t"))
	require.Equal(t, ModeInput, f.m.mode)
	f.send(t, runes("CloseHandle"))

	cmd := f.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ModeNormal, f.m.mode)
	f.run(t, cmd)

	require.True(t, f.m.popup.IsVisible())
	assert.Equal(t, "Closes a handle.\n\n", f.m.popup.Result().Content.Text)
}

func TestTokenBarEscape(t *testing.T) {
	f := newFixture(t, config.PresenterPopup)
	f.send(t, runes("t"))
	f.send(t, runes("abc"))
	assert.Nil(t, f.send(t, tea.KeyMsg{Type: tea.KeyEsc}))
	assert.Equal(t, ModeNormal, f.m.mode)
	assert.Zero(t, f.getter.count())
}

func TestMouseSelection(t *testing.T) {
	f := newFixture(t, config.PresenterPopup)

	// "CloseHandle" sits after the six-cell gutter at column 12 of line 2
	f.send(t, tea.MouseMsg{X: 18, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	tok, _ := f.m.listingView.Selected()
	assert.Equal(t, "CloseHandle", tok)

	cmd := f.send(t, tea.MouseMsg{X: 19, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	f.run(t, cmd)
	require.True(t, f.m.popup.IsVisible())
	assert.Equal(t, "CreateFileW", f.m.popup.Result().Token)

	// a click outside the popup dismisses it
	cmd = f.send(t, tea.MouseMsg{X: 79, Y: 23, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.False(t, f.m.popup.IsVisible())
	f.run(t, cmd)
}

func TestReaderView(t *testing.T) {
	f := newFixture(t, config.PresenterPopup)
	f.selectCreateFile(t)
	f.run(t, f.send(t, tea.KeyMsg{Type: tea.KeyCtrlQ}))

	expand := f.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	load := f.run(t, expand)
	assert.False(t, f.m.popup.IsVisible())
	assert.Equal(t, ModeReader, f.m.mode)

	f.run(t, load)
	assert.True(t, f.m.reader.Loaded())
	assert.Equal(t, "https://docs.test/?q=CreateFileW", f.m.reader.URL())
	assert.Contains(t, f.m.statusBar.View(), "READER")

	f.send(t, runes("q"))
	assert.Equal(t, ModeNormal, f.m.mode)
	assert.False(t, f.m.reader.Loaded())
}

func TestHelpAndQuit(t *testing.T) {
	f := newFixture(t, config.PresenterPopup)

	f.send(t, runes("?"))
	assert.True(t, f.m.help.IsVisible())
	assert.Contains(t, f.m.View(), "show docs")
	assert.Nil(t, f.send(t, runes("q")), "q closes help first")
	assert.False(t, f.m.help.IsVisible())

	cmd := f.send(t, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestShowDocsWithoutToken(t *testing.T) {
	f := newFixture(t, config.PresenterPopup)
	f.m.listingView.SetListing(&listing.Listing{Name: "empty"})

	assert.Nil(t, f.send(t, tea.KeyMsg{Type: tea.KeyCtrlQ}))
	assert.Contains(t, f.m.statusBar.View(), "no symbol selected")
}
