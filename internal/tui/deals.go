package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Mr-Dark-debug/crmdesk/internal/crm"
	"github.com/Mr-Dark-debug/crmdesk/pkg/timeutil"
)

// renderDeals draws the deal table. Contact names are resolved through the
// book; unknown contacts show as "-".
func renderDeals(book crm.Book, selected, width, height int, now time.Time) string {
	if len(book.Deals) == 0 {
		return emptyStateStyle.Render("No deals yet. Press + to add one.")
	}

	titleW := clamp(width/3, 14, 32)
	contactW := clamp(width/5, 10, 20)

	var b strings.Builder
	b.WriteString(columnHeadStyle.Render(fmt.Sprintf("%s %s %s %s %s",
		pad("DEAL", titleW), pad("CONTACT", contactW), pad("STAGE", 12), pad("VALUE", 10), "UPDATED")))
	b.WriteString("\n")

	start, end := visibleWindow(selected, len(book.Deals), height-1)
	for i := start; i < end; i++ {
		d := book.Deals[i]
		contact := "-"
		if c, ok := book.ContactByID(d.ContactID); ok {
			contact = c.Name
		}
		stage := pad(string(d.Stage), 12)
		if i != selected {
			stage = stageStyle(string(d.Stage)).Render(stage)
		}
		line := fmt.Sprintf("%s %s %s %s %s",
			pad(d.Title, titleW), pad(contact, contactW), stage,
			pad(formatMoney(d.Value), 10), timeutil.RelativeTo(d.UpdatedAt, now))
		if i == selected {
			b.WriteString(rowSelectedStyle.Width(width).Render(line))
		} else {
			b.WriteString(rowStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
