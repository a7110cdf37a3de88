package tui

import (
	"fmt"
	"strings"

	"github.com/Mr-Dark-debug/crmdesk/internal/crm"
)

// renderContacts draws the contact table with the selected row highlighted.
func renderContacts(contacts []crm.Contact, selected, width, height int) string {
	if len(contacts) == 0 {
		return emptyStateStyle.Render("No contacts yet. Press + to add one.")
	}

	nameW := clamp(width/4, 12, 24)
	companyW := clamp(width/4, 12, 24)
	emailW := clamp(width/3, 14, 32)

	var b strings.Builder
	b.WriteString(columnHeadStyle.Render(fmt.Sprintf("%s %s %s %s",
		pad("NAME", nameW), pad("COMPANY", companyW), pad("EMAIL", emailW), "OWNER")))
	b.WriteString("\n")

	start, end := visibleWindow(selected, len(contacts), height-1)
	for i := start; i < end; i++ {
		c := contacts[i]
		line := fmt.Sprintf("%s %s %s %s",
			pad(c.Name, nameW), pad(c.Company, companyW), pad(c.Email, emailW), c.Owner)
		if i == selected {
			b.WriteString(rowSelectedStyle.Width(width).Render(line))
		} else {
			b.WriteString(rowStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
