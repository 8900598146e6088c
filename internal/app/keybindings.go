package app

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/vidyasagar/tdoc/internal/ui"
)

// KeyMap defines all keybindings for tdoc.
type KeyMap struct {
	// Listing navigation
	LineDown     key.Binding
	LineUp       key.Binding
	NextToken    key.Binding
	PrevToken    key.Binding
	HalfPageDown key.Binding
	HalfPageUp   key.Binding
	GotoTop      key.Binding
	GotoBottom   key.Binding

	// Lookup
	ShowDocs    key.Binding
	OpenBrowser key.Binding
	TypeToken   key.Binding

	// Reader
	Back key.Binding

	// App
	CycleTheme key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default vim-style keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		LineDown: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "next line"),
		),
		LineUp: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "previous line"),
		),
		NextToken: key.NewBinding(
			key.WithKeys("l", "w", "right", "tab"),
			key.WithHelp("l/w", "next token"),
		),
		PrevToken: key.NewBinding(
			key.WithKeys("h", "b", "left", "shift+tab"),
			key.WithHelp("h/b", "previous token"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d", "pgdown"),
			key.WithHelp("ctrl+d", "half page down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u", "pgup"),
			key.WithHelp("ctrl+u", "half page up"),
		),
		GotoTop: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first line"),
		),
		GotoBottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last line"),
		),
		ShowDocs: key.NewBinding(
			key.WithKeys("ctrl+q", "K"),
			key.WithHelp("ctrl+q/K", "show docs"),
		),
		OpenBrowser: key.NewBinding(
			key.WithKeys("ctrl+o", "O"),
			key.WithHelp("ctrl+o/O", "open in browser"),
		),
		TypeToken: key.NewBinding(
			key.WithKeys("t", "/"),
			key.WithHelp("t", "type a symbol"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "q", "backspace"),
			key.WithHelp("esc/q", "back to listing"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "cycle theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HelpGroups returns the bindings shown in the help overlay.
func (k KeyMap) HelpGroups() []ui.HelpGroup {
	popupKeys := []key.Binding{
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "read page")),
		key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in browser")),
		key.NewBinding(key.WithKeys("j", "k"), key.WithHelp("j/k", "scroll")),
	}
	return []ui.HelpGroup{
		{Name: "Listing", Bindings: []key.Binding{k.LineDown, k.LineUp, k.NextToken, k.PrevToken, k.GotoTop, k.GotoBottom}},
		{Name: "Lookup", Bindings: []key.Binding{k.ShowDocs, k.OpenBrowser, k.TypeToken}},
		{Name: "Popup", Bindings: popupKeys},
		{Name: "General", Bindings: []key.Binding{k.Back, k.CycleTheme, k.Help, k.Quit}},
	}
}
