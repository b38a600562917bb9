package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the terminal host.
type KeyMap struct {
	// List screen.
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Delete key.Binding
	Edit   key.Binding
	Add    key.Binding
	Menu   key.Binding
	Home   key.Binding
	About  key.Binding
	Logout key.Binding

	// Forms.
	Submit    key.Binding // Enter: log in, add, save edit.
	Cancel    key.Binding // Esc: leave a text field or cancel an edit.
	NextField key.Binding
	Signup    key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "space"),
		key.WithHelp("space", "done"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Add: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add"),
	),
	Menu: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "menu"),
	),
	Home: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "home"),
	),
	About: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "about"),
	),
	Logout: key.NewBinding(
		key.WithKeys("L"),
		key.WithHelp("L", "log out"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab", "shift+tab"),
		key.WithHelp("tab", "next field"),
	),
	Signup: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("C-n", "sign up"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// listHelp and loginHelp are the bindings shown in the footer.
func (k KeyMap) listHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Add, k.Edit, k.Delete, k.Menu, k.Logout, k.Quit}
}

func (k KeyMap) loginHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Submit, k.Signup}
}
