package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Mr-Dark-debug/crmdesk/internal/crm"
	"github.com/Mr-Dark-debug/crmdesk/pkg/timeutil"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const dashboardView = "dashboard"

// faultKind selects how an injected fault breaks the dashboard.
type faultKind int

const (
	faultNone faultKind = iota
	faultBadData
	faultPanic
)

type injectFaultMsg struct{ kind faultKind }

// dashboardModel is the child mounted behind the dashboard boundary. It
// reports broken data as an error from Render instead of drawing it.
type dashboardModel struct {
	book   crm.Book
	now    func() time.Time
	width  int
	height int
	fault  faultKind
}

func newDashboard(book crm.Book, now func() time.Time) dashboardModel {
	return dashboardModel{book: book, now: now}
}

func (d dashboardModel) Init() tea.Cmd { return nil }

func (d dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
	case injectFaultMsg:
		d.fault = msg.kind
		if msg.kind == faultBadData {
			deals := append([]crm.Deal(nil), d.book.Deals...)
			deals = append(deals, crm.Deal{
				ID:    "d-999",
				Title: "Imported row",
				Stage: crm.Stage("archived"),
				Value: -1,
			})
			d.book.Deals = deals
		}
	}
	return d, nil
}

func (d dashboardModel) View() string {
	out, err := d.Render()
	if err != nil {
		return dashboardFallback(d.width, d.height)
	}
	return out
}

// Render draws KPI cards, the pipeline by stage and recent activity.
func (d dashboardModel) Render() (string, error) {
	if d.fault == faultPanic {
		panic("dashboard: stage index out of sync with pipeline")
	}

	s, err := crm.Summarize(d.book, 5)
	if err != nil {
		return "", fmt.Errorf("summarize pipeline: %w", err)
	}

	width := d.width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	b.WriteString(renderKPIs(s, width))
	b.WriteString("\n\n")
	b.WriteString(panelTitleStyle.Render("Pipeline"))
	b.WriteString("\n")
	b.WriteString(renderStages(s, width))
	b.WriteString("\n")
	b.WriteString(panelTitleStyle.Render("Recent activity"))
	b.WriteString("\n")
	b.WriteString(renderActivity(s.RecentActions, d.now(), width))
	return b.String(), nil
}

func renderKPIs(s *crm.Summary, width int) string {
	cards := []struct{ label, value string }{
		{"Contacts", fmt.Sprintf("%d", s.Contacts)},
		{"Open deals", fmt.Sprintf("%d", s.OpenDeals)},
		{"Open value", formatMoney(s.OpenValue)},
		{"Won", formatMoney(s.WonValue)},
		{"Win rate", fmt.Sprintf("%.0f%%", s.WinRate*100)},
	}

	// Five cards side by side need ~90 columns; wrap into two rows below that.
	cardWidth := clamp(width/len(cards)-2, 12, 20)
	var rendered []string
	for _, c := range cards {
		rendered = append(rendered, kpiCardStyle.Width(cardWidth).Render(
			kpiLabelStyle.Render(c.label)+"\n"+kpiValueStyle.Render(c.value)))
	}
	if width < (cardWidth+2)*len(cards) {
		top := lipgloss.JoinHorizontal(lipgloss.Top, rendered[:3]...)
		bottom := lipgloss.JoinHorizontal(lipgloss.Top, rendered[3:]...)
		return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func renderStages(s *crm.Summary, width int) string {
	var maxValue int64
	for _, st := range s.Stages {
		if st.Value > maxValue {
			maxValue = st.Value
		}
	}

	barWidth := clamp(width-40, 10, 50)
	var b strings.Builder
	for _, st := range s.Stages {
		filled := 0
		if maxValue > 0 {
			filled = int(st.Value * int64(barWidth) / maxValue)
		}
		if st.Value > 0 && filled == 0 {
			filled = 1
		}
		style := stageStyle(string(st.Stage))
		b.WriteString(fmt.Sprintf(" %s %s%s %2d  %s\n",
			style.Render(pad(string(st.Stage), 12)),
			style.Render(strings.Repeat("█", filled)),
			barEmptyStyle.Render(strings.Repeat("░", barWidth-filled)),
			st.Count,
			dimStyle.Render(formatMoney(st.Value)),
		))
	}
	return b.String()
}

func renderActivity(acts []crm.Activity, now time.Time, width int) string {
	if len(acts) == 0 {
		return dimStyle.Render(" No activity yet.")
	}
	subjectWidth := maxInt(width-36, 12)
	var b strings.Builder
	for _, a := range acts {
		b.WriteString(fmt.Sprintf(" %s %s %s %s\n",
			dimStyle.Render(pad(timeutil.RelativeTo(a.At, now), 9)),
			pad(a.Kind, 8),
			pad(a.Subject, subjectWidth),
			dimStyle.Render(a.Contact),
		))
	}
	return b.String()
}

// dashboardFallback is the card shown while the dashboard is failed. It
// never includes the failure itself.
func dashboardFallback(width, height int) string {
	body := fallbackTitleStyle.Render("Dashboard unavailable") + "\n\n" +
		"Something went wrong while drawing this view.\n" +
		"The rest of the desk still works.\n\n" +
		dimStyle.Render("Press r to reload the dashboard.")
	card := fallbackCardStyle.Render(body)
	if width <= 0 || height <= 0 {
		return card
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
