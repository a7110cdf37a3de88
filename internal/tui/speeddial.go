package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// dialAction is one entry in the speed-dial menu.
type dialAction struct {
	Label  string
	Status string
}

var dialActions = []dialAction{
	{Label: "New contact", Status: "New contact form opened"},
	{Label: "New deal", Status: "New deal form opened"},
	{Label: "Log call", Status: "Call logged"},
	{Label: "Send email", Status: "Email draft opened"},
}

type speedDial struct {
	open     bool
	selected int
}

func (d *speedDial) toggle() {
	d.open = !d.open
	d.selected = 0
}

func (d *speedDial) move(delta int) {
	d.selected = clamp(d.selected+delta, 0, len(dialActions)-1)
}

// run closes the dial and returns the chosen action.
func (d *speedDial) run() dialAction {
	a := dialActions[d.selected]
	d.open = false
	d.selected = 0
	return a
}

func (d speedDial) view() string {
	var lines []string
	for i, a := range dialActions {
		if i == d.selected {
			lines = append(lines, dialSelectedStyle.Render("› "+a.Label+" "))
		} else {
			lines = append(lines, dialItemStyle.Render("  "+a.Label+" "))
		}
	}
	return dialBoxStyle.Render(strings.Join(lines, "\n"))
}

// overlayDial pins the open dial to the bottom-right of body, giving up
// the body's last rows to make room.
func overlayDial(body, dial string, width, height int) string {
	dialH := lipgloss.Height(dial)
	if height <= dialH {
		return lipgloss.PlaceHorizontal(maxInt(width, 1), lipgloss.Right, dial)
	}

	rows := strings.Split(body, "\n")
	if keep := height - dialH; len(rows) > keep {
		rows = rows[:keep]
	}
	for len(rows) < height-dialH {
		rows = append(rows, "")
	}
	return strings.Join(rows, "\n") + "\n" + lipgloss.PlaceHorizontal(maxInt(width, 1), lipgloss.Right, dial)
}
