package tui

import (
	"time"

	"github.com/Mr-Dark-debug/crmdesk/internal/crm"
	"github.com/Mr-Dark-debug/crmdesk/internal/diagnostics"
	"github.com/Mr-Dark-debug/crmdesk/internal/loader"
	"github.com/Mr-Dark-debug/crmdesk/internal/logging"
	"go.uber.org/zap"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ────────────────────────────────────────────────────────────
// Tabs
// ────────────────────────────────────────────────────────────

// Tab identifies a top-level view.
type Tab int

const (
	TabDashboard Tab = iota
	TabContacts
	TabDeals
	TabStatus
)

var tabNames = []string{"Dashboard", "Contacts", "Deals", "Status"}

func (t Tab) String() string {
	if int(t) < len(tabNames) {
		return tabNames[t]
	}
	return "unknown"
}

// ────────────────────────────────────────────────────────────
// Model
// ────────────────────────────────────────────────────────────

// Options configures the desk.
type Options struct {
	// CompactWidth is the narrowest terminal that gets the full layout.
	CompactWidth int

	// FallbackRedirect, when positive, moves a user left on a failed
	// dashboard to the Status tab after this delay.
	FallbackRedirect time.Duration

	// DemoFaults enables the keys that break the dashboard on purpose.
	DemoFaults bool

	// Sink receives every captured render failure.
	Sink loader.Sink

	// Metrics, when set, feeds the diagnostics section of the Status tab.
	Metrics func() diagnostics.Metrics

	SessionID string
	Book      *crm.Book
	Now       func() time.Time
}

// Model is the root BubbleTea model for the desk. The dashboard is mounted
// behind a boundary; the other tabs are plain render functions.
type Model struct {
	keys      keyMap
	book      crm.Book
	now       func() time.Time
	sessionID string
	metrics   func() diagnostics.Metrics

	dashboard *loader.Boundary
	failures  chan loader.CapturedFailure

	// UI state
	activeTab  Tab
	contactSel int
	dealSel    int
	dial       speedDial
	width      int
	height     int

	compactWidth  int
	redirectAfter time.Duration
	redirectSeq   int

	// Status
	failureCount int
	statusMsg    string
}

// NewModel creates the desk model.
func NewModel(opts Options) Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	book := crm.Demo(now())
	if opts.Book != nil {
		book = *opts.Book
	}

	failures := make(chan loader.CapturedFailure, 8)
	sink := diagnostics.Multi(opts.Sink, diagnostics.Chan(failures))

	dashboard := loader.NewBoundary(dashboardView,
		func() tea.Model { return newDashboard(book, now) },
		loader.WithSizedFallback(dashboardFallback),
		loader.WithLoaderOptions(loader.WithSink(sink), loader.WithClock(now)),
	)

	return Model{
		keys:          defaultKeyMap(opts.DemoFaults),
		book:          book,
		now:           now,
		sessionID:     opts.SessionID,
		metrics:       opts.Metrics,
		dashboard:     dashboard,
		failures:      failures,
		compactWidth:  opts.CompactWidth,
		redirectAfter: opts.FallbackRedirect,
		statusMsg:     "Ready",
	}
}

// ────────────────────────────────────────────────────────────
// Messages
// ────────────────────────────────────────────────────────────

type viewFailedMsg struct{ failure loader.CapturedFailure }

type redirectMsg struct{ seq int }

func waitForFailure(ch <-chan loader.CapturedFailure) tea.Cmd {
	return func() tea.Msg {
		return viewFailedMsg{failure: <-ch}
	}
}

// ────────────────────────────────────────────────────────────
// Init
// ────────────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.dashboard.Init(), waitForFailure(m.failures))
}

// ────────────────────────────────────────────────────────────
// Update
// ────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		_, cmd := m.dashboard.Update(tea.WindowSizeMsg{Width: msg.Width, Height: m.bodyHeight()})
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case viewFailedMsg:
		m.failureCount++
		m.statusMsg = tabTitle(msg.failure.View) + " unavailable. Press r to reload."
		logging.Logger().Debug("view failure surfaced",
			zap.String("view", msg.failure.View), zap.String("failure_id", msg.failure.ID))

		cmds := []tea.Cmd{waitForFailure(m.failures)}
		if m.redirectAfter > 0 {
			m.redirectSeq++
			seq := m.redirectSeq
			cmds = append(cmds, tea.Tick(m.redirectAfter, func(time.Time) tea.Msg {
				return redirectMsg{seq: seq}
			}))
		}
		return m, tea.Batch(cmds...)

	case redirectMsg:
		// Only the latest scheduled redirect counts, and only while the
		// user is still looking at the broken dashboard.
		if msg.seq == m.redirectSeq &&
			m.activeTab == TabDashboard &&
			m.dashboard.State() == loader.StateFailed {
			m.activeTab = TabStatus
			m.statusMsg = "Dashboard unavailable. Showing desk status."
		}
		return m, nil

	case loader.RemountMsg:
		if msg.View == dashboardView {
			m.redirectSeq++
			m.statusMsg = "Dashboard reloaded"
		}
		_, cmd := m.dashboard.Update(msg)
		return m, cmd
	}

	_, cmd := m.dashboard.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.dial.open {
		switch {
		case key.Matches(msg, m.keys.Close), key.Matches(msg, m.keys.Dial):
			m.dial.toggle()
		case key.Matches(msg, m.keys.Up):
			m.dial.move(-1)
		case key.Matches(msg, m.keys.Down):
			m.dial.move(1)
		case key.Matches(msg, m.keys.Select):
			a := m.dial.run()
			m.statusMsg = a.Status
			logging.Logger().Debug("speed dial action", zap.String("action", a.Label))
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.Dial) {
		m.dial.toggle()
		return m, nil
	}

	// The narrow layout has no tabs to drive.
	if m.compact() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.NextTab):
		m.activeTab = (m.activeTab + 1) % Tab(len(tabNames))
	case key.Matches(msg, m.keys.PrevTab):
		m.activeTab = (m.activeTab + Tab(len(tabNames)) - 1) % Tab(len(tabNames))
	case key.Matches(msg, m.keys.JumpTab):
		m.activeTab = Tab(msg.String()[0] - '1')

	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)

	case key.Matches(msg, m.keys.Reload):
		if m.activeTab == TabDashboard {
			return m, loader.Remount(dashboardView)
		}
	case key.Matches(msg, m.keys.Fault):
		if m.activeTab == TabDashboard {
			kind := faultBadData
			if msg.String() == "X" {
				kind = faultPanic
			}
			return m, func() tea.Msg { return injectFaultMsg{kind: kind} }
		}
	}
	return m, nil
}

func (m *Model) moveSelection(delta int) {
	switch m.activeTab {
	case TabContacts:
		m.contactSel = clamp(m.contactSel+delta, 0, maxInt(len(m.book.Contacts)-1, 0))
	case TabDeals:
		m.dealSel = clamp(m.dealSel+delta, 0, maxInt(len(m.book.Deals)-1, 0))
	}
}

// ────────────────────────────────────────────────────────────
// View
// ────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "Starting crmdesk..."
	}

	header := renderHeader(m)
	footer := renderFooter(m)
	bodyHeight := m.bodyHeight()

	var body string
	if m.compact() {
		body = renderCompact(m.width, bodyHeight, m.compactWidth)
	} else {
		body = m.renderTab(bodyHeight)
	}
	body = lipgloss.NewStyle().MaxWidth(m.width).MaxHeight(bodyHeight).Render(body)

	if m.dial.open {
		body = overlayDial(body, m.dial.view(), m.width, bodyHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderTab(height int) string {
	switch m.activeTab {
	case TabContacts:
		return renderContacts(m.book.Contacts, m.contactSel, m.width, height)
	case TabDeals:
		return renderDeals(m.book, m.dealSel, m.width, height, m.now())
	case TabStatus:
		return renderStatus(m)
	default:
		return m.dashboard.View()
	}
}

func (m Model) compact() bool {
	return m.compactWidth > 0 && m.width > 0 && m.width < m.compactWidth
}

func (m Model) bodyHeight() int {
	return maxInt(m.height-2, 1)
}

// ActiveTab reports the tab currently shown.
func (m Model) ActiveTab() Tab { return m.activeTab }

func tabTitle(view string) string {
	if view == dashboardView {
		return "Dashboard"
	}
	return view
}
