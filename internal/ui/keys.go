package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Previous key.Binding
	Next     key.Binding
	Jump     key.Binding
	First    key.Binding
	Last     key.Binding
	Autoplay key.Binding
	Search   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Previous: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous")),
		Next:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		Jump: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "jump"),
		),
		First:    key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first")),
		Last:     key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last")),
		Autoplay: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "autoplay")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "find")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Previous, k.Next, k.Autoplay, k.Search, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Previous, k.Next, k.Jump, k.First, k.Last},
		{k.Autoplay, k.Search, k.Help, k.Quit},
	}
}
