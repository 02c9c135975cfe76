package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Collapse key.Binding
	Expand   key.Binding
	Toggle   key.Binding
	Add      key.Binding
	Rename   key.Binding
	Delete   key.Binding
	New      key.Binding
	Prev     key.Binding
	Next     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k", "ctrl+p"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j", "ctrl+n"), key.WithHelp("↓/j", "down")),
		Collapse: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "collapse")),
		Expand:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "expand")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space/x", "check")),
		Add:      key.NewBinding(key.WithKeys("enter", "a"), key.WithHelp("enter", "add")),
		Rename:   key.NewBinding(key.WithKeys("r", "f2"), key.WithHelp("r", "rename")),
		Delete:   key.NewBinding(key.WithKeys("delete", "d"), key.WithHelp("del", "remove")),
		New:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new solution")),
		Prev:     key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev")),
		Next:     key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Add, k.Delete, k.Rename, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Collapse, k.Expand},
		{k.Toggle, k.Add, k.Rename, k.Delete},
		{k.New, k.Prev, k.Next, k.Quit},
	}
}
