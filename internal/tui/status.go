package tui

import (
	"fmt"
	"strings"

	"github.com/Mr-Dark-debug/crmdesk/internal/loader"
	"github.com/Mr-Dark-debug/crmdesk/pkg/timeutil"
)

// renderStatus summarises desk health. Failure causes and stacks stay in
// the log and the failure store; this page only says that something broke.
func renderStatus(m Model) string {
	var b strings.Builder

	b.WriteString(panelTitleStyle.Render("Desk status"))
	b.WriteString("\n\n")
	b.WriteString(statusLine("Session", m.sessionID))

	state := m.dashboard.State()
	stateText := stageStyle("won").Render("ok")
	if state == loader.StateFailed {
		stateText = stageStyle("lost").Render("unavailable")
	}
	b.WriteString(statusLine("Dashboard", stateText))

	if f, ok := m.dashboard.Failure(); ok {
		b.WriteString(statusLine("Last failure", fmt.Sprintf("%s (%s)",
			timeutil.FormatClock(f.OccurredAt), timeutil.RelativeTo(f.OccurredAt, m.now()))))
	} else {
		b.WriteString(statusLine("Last failure", dimStyle.Render("none")))
	}
	b.WriteString(statusLine("Failures seen", fmt.Sprintf("%d", m.failureCount)))

	if m.metrics != nil {
		mt := m.metrics()
		b.WriteString("\n")
		b.WriteString(panelTitleStyle.Render("Diagnostics"))
		b.WriteString("\n\n")
		b.WriteString(statusLine("Recorded", fmt.Sprintf("%d", mt.Persisted)))
		b.WriteString(statusLine("Dropped", fmt.Sprintf("%d", mt.Dropped)))
		b.WriteString(statusLine("Store errors", fmt.Sprintf("%d", mt.ErrorCount)))
	}

	if state == loader.StateFailed {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("Press 1 then r to reload the dashboard."))
	}
	return b.String()
}

func statusLine(label, value string) string {
	return " " + kpiLabelStyle.Render(pad(label, 16)) + value + "\n"
}
