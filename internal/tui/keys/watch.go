package keys

import "github.com/charmbracelet/bubbles/key"

// WatchKeys includes common keys plus voltage control bindings
type WatchKeys struct {
	CommonKeys
	Enter key.Binding
	Up    key.Binding
	Down  key.Binding
	Zero  key.Binding
	Clear key.Binding
}

func NewWatchKeys() WatchKeys {
	return WatchKeys{
		CommonKeys: NewCommonKeys(),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply setpoint"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "nudge +1V"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "nudge -1V"),
		),
		Zero: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "go to 0V"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear history"),
		),
	}
}

func (k WatchKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.InsertMode, k.Zero, k.Quit}
}

func (k WatchKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.InsertMode, k.Escape, k.Enter},
		{k.Up, k.Down, k.Zero, k.Clear},
		{k.Help, k.Quit},
	}
}
