package tui

import (
	"fmt"
	"strings"

	"github.com/Mr-Dark-debug/crmdesk/internal/loader"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// renderHeader produces the top bar:
//
//	CRMDESK │ Dashboard  Contacts  Deals  Status
//
// On narrow terminals only the brand is shown.
func renderHeader(m Model) string {
	brand := headerBrandStyle.Render("CRMDESK")
	if m.compact() {
		return headerBarStyle.Width(m.width).Render(brand)
	}

	sep := headerSepStyle.Render(" │ ")

	var tabs []string
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		switch {
		case Tab(i) == m.activeTab:
			tabs = append(tabs, tabActiveStyle.Render(label))
		case Tab(i) == TabDashboard && m.dashboard.State() == loader.StateFailed:
			tabs = append(tabs, tabFailedStyle.Render(label+" !"))
		default:
			tabs = append(tabs, tabStyle.Render(label))
		}
	}

	content := brand + sep + strings.Join(tabs, "")
	return headerBarStyle.Width(m.width).Render(content)
}

// renderFooter produces the bottom status bar with keyboard hints.
func renderFooter(m Model) string {
	var left string
	if m.statusMsg != "" {
		left = statusStyle.Render(m.statusMsg)
	}
	right := renderHints(m.shortHelp())

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		// Drop hints before the status line.
		right = ""
		gap = maxInt(m.width-lipgloss.Width(left), 0)
	}

	bar := left + strings.Repeat(" ", gap) + right
	return lipgloss.NewStyle().
		Background(colorBgSurface).
		Width(m.width).
		Render(bar)
}

func renderHints(bindings []key.Binding) string {
	var parts []string
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		parts = append(parts,
			hintKeyStyle.Render(h.Key)+" "+hintDescStyle.Render(h.Desc))
	}
	return strings.Join(parts, hintDescStyle.Render("  "))
}
