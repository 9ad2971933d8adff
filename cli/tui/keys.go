package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Acquire    key.Binding
	Continuous key.Binding
	Configure  key.Binding
	Pulser     key.Binding
	NextView   key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Acquire: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "acquire"),
		),
		Continuous: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "continuous"),
		),
		Configure: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "configure"),
		),
		Pulser: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pulser"),
		),
		NextView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "cycle focus"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Acquire, k.Continuous, k.Configure, k.Pulser, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Acquire, k.Continuous},
		{k.Configure, k.Pulser},
		{k.NextView, k.Quit},
	}
}
