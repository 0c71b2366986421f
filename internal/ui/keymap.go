package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap holds the application key bindings
type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	Click      key.Binding
	MultiClick key.Binding
	Escape     key.Binding
	ZoomIn     key.Binding
	ZoomOut    key.Binding
	Layer1     key.Binding
	Layer2     key.Binding
	Layer3     key.Binding
	Layer4     key.Binding
	OwnerFlt   key.Binding

	Explore    key.Binding
	NextEntity key.Binding
	Filter     key.Binding
	ClearAll   key.Binding
	SortAdd    key.Binding
	SortFlip   key.Binding
	NextPage   key.Binding
	PrevPage   key.Binding
	ToggleRow  key.Binding
	SelectAll  key.Binding
	ClearSel   key.Binding
	BulkTag    key.Binding
	BulkPlan   key.Binding

	NewPlan   key.Binding
	OpenPlan  key.Binding
	AddToPlan key.Binding
	Columns   key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding

	Help key.Binding
	Quit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "move up")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "move down")),
		Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "move left")),
		Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "move right")),

		Click:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select feature")),
		MultiClick: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "multi-select feature")),
		Escape:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back / clear")),
		ZoomIn:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:    key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		Layer1:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "toggle elevate layer")),
		Layer2:     key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "toggle pulse layer")),
		Layer3:     key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "toggle compass layer")),
		Layer4:     key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "toggle regions layer")),
		OwnerFlt:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "owner filter")),

		Explore:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "explore tables")),
		NextEntity: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next entity")),
		Filter:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "add filter")),
		ClearAll:   key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "clear filters+sorts")),
		SortAdd:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "add sort")),
		SortFlip:   key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "flip primary sort")),
		NextPage:   key.NewBinding(key.WithKeys("n", "pgdown"), key.WithHelp("n", "next page")),
		PrevPage:   key.NewBinding(key.WithKeys("p", "pgup"), key.WithHelp("p", "prev page")),
		ToggleRow:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle row")),
		SelectAll:  key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "select all matching")),
		ClearSel:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "clear selection")),
		BulkTag:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "bulk tag")),
		BulkPlan:   key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "bulk add to plan")),

		NewPlan:   key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "new plan")),
		OpenPlan:  key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "open plan workspace")),
		AddToPlan: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add districts to plan")),
		Columns:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "edit columns")),
		NextTab:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next tab")),
		PrevTab:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev tab")),

		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Click, k.Escape, k.Explore, k.NewPlan, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.ZoomIn, k.ZoomOut},
		{k.Click, k.MultiClick, k.Escape, k.Layer1, k.Layer2, k.Layer3, k.Layer4, k.OwnerFlt},
		{k.Explore, k.NextEntity, k.Filter, k.SortAdd, k.SortFlip, k.NextPage, k.PrevPage},
		{k.ToggleRow, k.SelectAll, k.ClearSel, k.BulkTag, k.BulkPlan, k.Columns},
		{k.NewPlan, k.OpenPlan, k.AddToPlan, k.NextTab, k.PrevTab, k.Quit},
	}
}
