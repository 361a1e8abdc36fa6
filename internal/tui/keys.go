package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap defines the dashboard's key bindings
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Copy     key.Binding
	Search   key.Binding
	Refresh  key.Binding
	Export   key.Binding
	Theme    key.Binding
	Sidebar  key.Binding
	Nav      key.Binding
	Reboot   key.Binding
	Shutdown key.Binding
	Arrive   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Copy, k.Search, k.Refresh, k.Export, k.Theme, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Copy, k.Search},
		{k.Refresh, k.Export, k.Theme, k.Sidebar, k.Nav},
		{k.Reboot, k.Shutdown, k.Arrive},
		{k.Help, k.Quit},
	}
}

func newKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Copy: key.NewBinding(
			key.WithKeys("enter", "c"),
			key.WithHelp("enter/c", "copy value"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export"),
		),
		Theme: key.NewBinding(
			key.WithKeys("alt+t"),
			key.WithHelp("alt+t", "theme"),
		),
		Sidebar: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "menu"),
		),
		Nav: key.NewBinding(
			key.WithKeys("1", "2", "3", "4"),
			key.WithHelp("1-4", "navigate"),
		),
		Reboot: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "reboot"),
		),
		Shutdown: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "shutdown"),
		),
		Arrive: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "arrive"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// searchKeyMap is active while the search field has focus
type searchKeyMap struct {
	Apply  key.Binding
	Cancel key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k searchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Apply, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k searchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Apply, k.Cancel}}
}

func newSearchKeyMap() searchKeyMap {
	return searchKeyMap{
		Apply: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "done"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear"),
		),
	}
}
