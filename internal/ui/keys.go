package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap is the dashboard's key bindings. It implements help.KeyMap.
type keyMap struct {
	NextPanel  key.Binding
	PrevPanel  key.Binding
	Left       key.Binding
	Right      key.Binding
	Up         key.Binding
	Down       key.Binding
	Click      key.Binding
	Toggle     key.Binding
	YearDown   key.Binding
	YearUp     key.Binding
	EditYears  key.Binding
	Mode       key.Binding
	Density    key.Binding
	Reset      key.Binding
	Debug      key.Binding
	Help       key.Binding
	Quit       key.Binding
	Cancel     key.Binding
	NextInput  key.Binding
	ApplyInput key.Binding
}

var keys = keyMap{
	NextPanel: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next panel")),
	PrevPanel: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev panel")),
	Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "move")),
	Right:     key.NewBinding(key.WithKeys("right", "l")),
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "move")),
	Down:      key.NewBinding(key.WithKeys("down", "j")),
	Click:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle type")),
	YearDown:  key.NewBinding(key.WithKeys("["), key.WithHelp("[/]", "year max")),
	YearUp:    key.NewBinding(key.WithKeys("]")),
	EditYears: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "edit years")),
	Mode:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "trend/scatter")),
	Density:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "plates")),
	Reset:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "reset")),
	Debug:     key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "debug")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

	Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	NextInput:  key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "other bound")),
	ApplyInput: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPanel, k.Click, k.Toggle, k.Mode, k.Reset, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextPanel, k.PrevPanel, k.Left, k.Up},
		{k.Click, k.Toggle, k.YearDown, k.EditYears},
		{k.Mode, k.Density, k.Reset},
		{k.Debug, k.Help, k.Quit},
	}
}

// editKeyMap is shown while the year inputs have focus.
type editKeyMap struct{ keyMap }

func (k editKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextInput, k.ApplyInput, k.Cancel}
}

func (k editKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
