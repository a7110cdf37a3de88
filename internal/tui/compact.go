package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// renderCompact replaces the tab body on terminals narrower than the
// configured compact width.
func renderCompact(width, height, minWidth int) string {
	body := panelTitleStyle.Render("Wider terminal needed") + "\n\n" +
		"The desk needs at least " + fmt.Sprintf("%d", minWidth) + " columns.\n" +
		dimStyle.Render(fmt.Sprintf("Current width: %d", width)) + "\n\n" +
		"Quick actions are still\navailable with +."
	card := compactCardStyle.MaxWidth(maxInt(width, 1)).Render(body)
	if height <= 0 {
		return card
	}
	return lipgloss.Place(maxInt(width, 1), height, lipgloss.Center, lipgloss.Center, card)
}
