package tui

import "github.com/charmbracelet/bubbles/key"

// monitorKeys are the key bindings for the signal monitor
type monitorKeys struct {
	Quit key.Binding
	Help key.Binding
}

func newMonitorKeys() monitorKeys {
	return monitorKeys{
		Quit: key.NewBinding(
			key.WithKeys("q", "Q", "ctrl+c"),
			key.WithHelp("q/ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
	}
}

func (k monitorKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

func (k monitorKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Help, k.Quit},
	}
}
