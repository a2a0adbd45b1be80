package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the list-phase bindings and feeds the help footer
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Filter   key.Binding
	Comment  key.Binding
	Revert   key.Binding
	Done     key.Binding
	Delete   key.Binding
	NewItem  key.Binding
	Export   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k", "ctrl+p"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j", "ctrl+n"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Home:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		End:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Comment:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "comment")),
		Revert:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "drop new comments")),
		Done:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "done")),
		Delete:   key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete new item")),
		NewItem:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new item")),
		Export:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Comment, k.Done, k.NewItem, k.Export, k.Filter, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End},
		{k.Comment, k.Revert, k.Done, k.Delete, k.NewItem},
		{k.Export, k.Filter, k.Help, k.Quit},
	}
}

// previewKeyMap is shown while the export preview is open
type previewKeyMap struct {
	Copy   key.Binding
	Write  key.Binding
	Accept key.Binding
	Back   key.Binding
}

func defaultPreviewKeyMap() previewKeyMap {
	return previewKeyMap{
		Copy:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Write:  key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "write file")),
		Accept: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "export")),
		Back:   key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "back")),
	}
}

// ShortHelp implements help.KeyMap
func (k previewKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Accept, k.Copy, k.Write, k.Back}
}

// FullHelp implements help.KeyMap
func (k previewKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
