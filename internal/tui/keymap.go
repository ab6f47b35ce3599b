package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
)

// KeyMap holds the browser key bindings.
type KeyMap struct {
	NextControl key.Binding
	PrevControl key.Binding
	OptionLeft  key.Binding
	OptionRight key.Binding
	CycleSort   key.Binding
	ToggleOrder key.Binding
	NextPage    key.Binding
	PrevPage    key.Binding
	PageSize    key.Binding
	Up          key.Binding
	Down        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		NextControl: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next control")),
		PrevControl: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev control")),
		OptionLeft:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "prev option")),
		OptionRight: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next option")),
		CycleSort:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "sort by")),
		ToggleOrder: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "asc/desc")),
		NextPage:    key.NewBinding(key.WithKeys("pgdown", "ctrl+n"), key.WithHelp("pgdn", "next page")),
		PrevPage:    key.NewBinding(key.WithKeys("pgup", "ctrl+b"), key.WithHelp("pgup", "prev page")),
		PageSize:    key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "rows per page")),
		Up:          key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:        key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Quit:        key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextControl, k.CycleSort, k.ToggleOrder, k.NextPage, k.PrevPage, k.PageSize, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextControl, k.PrevControl, k.OptionLeft, k.OptionRight},
		{k.CycleSort, k.ToggleOrder},
		{k.NextPage, k.PrevPage, k.PageSize, k.Up, k.Down},
		{k.Quit},
	}
}

// TableKeyMap moves the table cursor with Up and Down. Paging belongs to the
// session, so the table's own page bindings are disabled.
func (k *KeyMap) TableKeyMap() table.KeyMap {
	km := table.DefaultKeyMap()
	km.LineUp = k.Up
	km.LineDown = k.Down
	km.PageUp.SetEnabled(false)
	km.PageDown.SetEnabled(false)
	km.HalfPageUp.SetEnabled(false)
	km.HalfPageDown.SetEnabled(false)
	return km
}
