package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Open        key.Binding
	Back        key.Binding
	QueueMove   key.Binding
	QueueDelete key.Binding
	MoveNow     key.Binding
	DeleteNow   key.Binding
	Remove      key.Binding
	Process     key.Binding
	Stop        key.Binding
	Hook        key.Binding
	Filter      key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:        key.NewBinding(key.WithKeys("enter", "right"), key.WithHelp("enter", "open")),
		Back:        key.NewBinding(key.WithKeys("backspace", "esc", "left"), key.WithHelp("esc", "back")),
		QueueMove:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "batch move")),
		QueueDelete: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "batch delete")),
		MoveNow:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move now")),
		DeleteNow:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete now")),
		Remove:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "remove")),
		Process:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "process")),
		Stop:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Hook:        key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hook")),
		Filter:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// folderHelp is shown while browsing a folder.
func (k keyMap) folderHelp() []key.Binding {
	return []key.Binding{k.Open, k.Back, k.QueueMove, k.QueueDelete, k.MoveNow, k.DeleteNow, k.Filter, k.Quit}
}

func (k keyMap) batchHelp() []key.Binding {
	return []key.Binding{k.Remove, k.Process, k.Stop, k.Back, k.Quit}
}

func (k keyMap) menuHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Hook, k.Quit}
}
