package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the player key bindings. Up/down stand in for swipes.
type keyMap struct {
	Next      key.Binding
	Prev      key.Binding
	Hook      key.Binding
	PlayPause key.Binding
	Refresh   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("j", "down", "n"),
			key.WithHelp("j/↓", "next track"),
		),
		Prev: key.NewBinding(
			key.WithKeys("k", "up", "p"),
			key.WithHelp("k/↑", "previous track"),
		),
		Hook: key.NewBinding(
			key.WithKeys("h", "tab"),
			key.WithHelp("h", "next hook"),
		),
		PlayPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
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

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Hook, k.PlayPause, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Hook},
		{k.PlayPause, k.Refresh},
		{k.Help, k.Quit},
	}
}
