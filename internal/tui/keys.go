package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	JumpTab key.Binding
	Up      key.Binding
	Down    key.Binding
	Select  key.Binding
	Close   key.Binding
	Dial    key.Binding
	Reload  key.Binding
	Fault   key.Binding
}

func defaultKeyMap(demoFaults bool) keyMap {
	km := keyMap{
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		NextTab: key.NewBinding(key.WithKeys("tab", "l", "right"), key.WithHelp("tab", "next tab")),
		PrevTab: key.NewBinding(key.WithKeys("shift+tab", "h", "left"), key.WithHelp("shift+tab", "prev tab")),
		JumpTab: key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "jump")),
		Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑", "up")),
		Down:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓", "down")),
		Select:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
		Close:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Dial:    key.NewBinding(key.WithKeys("+", "a"), key.WithHelp("+", "actions")),
		Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload view")),
		Fault:   key.NewBinding(key.WithKeys("x", "X"), key.WithHelp("x/X", "break dashboard")),
	}
	km.Fault.SetEnabled(demoFaults)
	return km
}

// shortHelp returns the hints shown in the footer for the current mode.
func (m Model) shortHelp() []key.Binding {
	if m.dial.open {
		return []key.Binding{m.keys.Up, m.keys.Down, m.keys.Select, m.keys.Close}
	}
	if m.compact() {
		return []key.Binding{m.keys.Dial, m.keys.Quit}
	}
	hints := []key.Binding{m.keys.NextTab, m.keys.JumpTab}
	switch m.activeTab {
	case TabContacts, TabDeals:
		hints = append(hints, m.keys.Down)
	case TabDashboard:
		hints = append(hints, m.keys.Reload, m.keys.Fault)
	}
	return append(hints, m.keys.Dial, m.keys.Quit)
}
