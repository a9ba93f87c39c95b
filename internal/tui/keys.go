package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up              key.Binding
	Down            key.Binding
	Toggle          key.Binding
	ToggleExtension key.Binding
	SelectAll       key.Binding
	DeselectAll     key.Binding
	NextPreset      key.Binding
	StartFilter     key.Binding
	ClearFilter     key.Binding
	Copy            key.Binding
	Reload          key.Binding
	Quit            key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "m"),
			key.WithHelp("space", "toggle"),
		),
		ToggleExtension: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "toggle extension"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "select all"),
		),
		DeselectAll: key.NewBinding(
			key.WithKeys("c", "C"),
			key.WithHelp("c", "clear"),
		),
		NextPreset: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "quick select"),
		),
		StartFilter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		ClearFilter: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear search"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y/enter", "copy"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (keys keyMap) helpBindings() []key.Binding {
	return []key.Binding{
		keys.Toggle,
		keys.ToggleExtension,
		keys.SelectAll,
		keys.DeselectAll,
		keys.NextPreset,
		keys.StartFilter,
		keys.Copy,
		keys.Reload,
		keys.Quit,
	}
}
