package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Select     key.Binding
	Export     key.Binding
	Filter     key.Binding
	Render     key.Binding
	Stop       key.Binding
	Mode       key.Binding
	Sequence   key.Binding
	MoreAA     key.Binding
	LessAA     key.Binding
	Resolution key.Binding
	Distribute key.Binding
	Reset      key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j", "down")),
		Select:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "make current")),
		Export:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle export")),
		Filter:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Render:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "render")),
		Stop:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Mode:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "local/farm")),
		Sequence:   key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "sequence")),
		MoreAA:     key.NewBinding(key.WithKeys("+"), key.WithHelp("+", "more AA")),
		LessAA:     key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "less AA")),
		Resolution: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "resolution")),
		Distribute: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "distribute")),
		Reset:      key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Render, k.Stop, k.Mode, k.Filter, k.Quit}
}
