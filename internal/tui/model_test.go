package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/Mr-Dark-debug/crmdesk/internal/crm"
	"github.com/Mr-Dark-debug/crmdesk/internal/diagnostics"
	"github.com/Mr-Dark-debug/crmdesk/internal/loader"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 2, 15, 4, 5, 0, time.UTC)

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	opts.Now = func() time.Time { return fixedNow }
	if opts.CompactWidth == 0 {
		opts.CompactWidth = 60
	}
	m := NewModel(opts)
	return send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// sendCmd delivers msg and then feeds the resulting command's message back
// in, the way the runtime would for a single synchronous command.
func sendCmd(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	require.NotNil(t, cmd)
	return send(t, m, cmd())
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func waitFailure(t *testing.T, m Model) loader.CapturedFailure {
	t.Helper()
	select {
	case f := <-m.failures:
		return f
	case <-time.After(2 * time.Second):
		t.Fatal("no failure delivered")
		return loader.CapturedFailure{}
	}
}

func TestViewBeforeSize(t *testing.T) {
	m := NewModel(Options{})
	assert.Equal(t, "Starting crmdesk...", m.View())
}

func TestDashboardRenders(t *testing.T) {
	m := newTestModel(t, Options{})

	out := m.View()
	assert.Contains(t, out, "CRMDESK")
	assert.Contains(t, out, "Pipeline")
	assert.Contains(t, out, "Recent activity")
	assert.Equal(t, loader.StateNormal, m.dashboard.State())
}

func TestTabSwitching(t *testing.T) {
	m := newTestModel(t, Options{})

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, TabContacts, m.ActiveTab())
	assert.Contains(t, m.View(), "Ada Osei")

	m = send(t, m, runes("3"))
	assert.Equal(t, TabDeals, m.ActiveTab())
	assert.Contains(t, m.View(), "Fleet telematics rollout")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, TabContacts, m.ActiveTab())

	m = send(t, m, runes("1"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, TabStatus, m.ActiveTab())
}

func TestSelectionClamps(t *testing.T) {
	m := newTestModel(t, Options{})
	m = send(t, m, runes("2"))

	m = send(t, m, runes("k"))
	assert.Equal(t, 0, m.contactSel)
	for i := 0; i < 20; i++ {
		m = send(t, m, runes("j"))
	}
	assert.Equal(t, len(m.book.Contacts)-1, m.contactSel)
}

func TestFaultKeysDisabledByDefault(t *testing.T) {
	m := newTestModel(t, Options{})
	_, cmd := m.Update(runes("x"))
	assert.Nil(t, cmd)
}

func TestDashboardFailureIsContained(t *testing.T) {
	m := newTestModel(t, Options{DemoFaults: true})

	m = sendCmd(t, m, runes("x"))
	out := m.View()

	assert.Equal(t, loader.StateFailed, m.dashboard.State())
	assert.Contains(t, out, "Dashboard unavailable")
	assert.NotContains(t, out, "invalid deal")
	assert.Contains(t, out, "CRMDESK", "shell keeps rendering around the failed view")

	f := waitFailure(t, m)
	assert.Equal(t, dashboardView, f.View)
	assert.ErrorIs(t, f.Err, crm.ErrInvalidDeal)

	m = send(t, m, viewFailedMsg{failure: f})
	assert.Equal(t, 1, m.failureCount)
	assert.Equal(t, "Dashboard unavailable. Press r to reload.", m.statusMsg)

	// Other tabs are unaffected.
	m = send(t, m, runes("2"))
	assert.Contains(t, m.View(), "Ada Osei")
}

func TestDashboardPanicIsContained(t *testing.T) {
	m := newTestModel(t, Options{DemoFaults: true})

	m = sendCmd(t, m, runes("X"))
	out := m.View()
	assert.Contains(t, out, "Dashboard unavailable")

	f := waitFailure(t, m)
	require.NotNil(t, f.Err)
	assert.True(t, f.Err.Panicked)
	assert.ErrorIs(t, f.Err, loader.ErrPanic)
}

func TestReloadRestoresDashboard(t *testing.T) {
	m := newTestModel(t, Options{DemoFaults: true})

	m = sendCmd(t, m, runes("x"))
	m.View()
	require.Equal(t, loader.StateFailed, m.dashboard.State())
	waitFailure(t, m)

	m = sendCmd(t, m, runes("r"))
	assert.Equal(t, loader.StateNormal, m.dashboard.State())
	assert.Equal(t, "Dashboard reloaded", m.statusMsg)
	assert.Contains(t, m.View(), "Pipeline")
}

func TestStatusHidesFailureDetails(t *testing.T) {
	m := newTestModel(t, Options{DemoFaults: true, SessionID: "sess-1"})

	m = sendCmd(t, m, runes("x"))
	m.View()
	m = send(t, m, viewFailedMsg{failure: waitFailure(t, m)})
	m = send(t, m, runes("4"))

	out := m.View()
	assert.Contains(t, out, "sess-1")
	assert.Contains(t, out, "unavailable")
	assert.Contains(t, out, "15:04 (just now)")
	assert.NotContains(t, out, "d-999")
	assert.NotContains(t, out, "invalid deal")
}

func TestStatusShowsRecorderMetrics(t *testing.T) {
	m := newTestModel(t, Options{Metrics: func() diagnostics.Metrics {
		return diagnostics.Metrics{Persisted: 7, Dropped: 2}
	}})
	m = send(t, m, runes("4"))

	out := m.View()
	assert.Contains(t, out, "Diagnostics")
	assert.Contains(t, out, "Recorded")
	assert.Contains(t, out, "7")
}

func TestRedirectAfterFailure(t *testing.T) {
	m := newTestModel(t, Options{DemoFaults: true, FallbackRedirect: time.Second})

	m = sendCmd(t, m, runes("x"))
	m.View()
	next, cmd := m.Update(viewFailedMsg{failure: waitFailure(t, m)})
	m = next.(Model)
	require.NotNil(t, cmd)
	require.Equal(t, 1, m.redirectSeq)

	// A stale redirect is ignored.
	m = send(t, m, redirectMsg{seq: 0})
	assert.Equal(t, TabDashboard, m.ActiveTab())

	m = send(t, m, redirectMsg{seq: 1})
	assert.Equal(t, TabStatus, m.ActiveTab())
}

func TestRedirectCancelledByReload(t *testing.T) {
	m := newTestModel(t, Options{DemoFaults: true, FallbackRedirect: time.Second})

	m = sendCmd(t, m, runes("x"))
	m.View()
	m = send(t, m, viewFailedMsg{failure: waitFailure(t, m)})
	seq := m.redirectSeq

	m = sendCmd(t, m, runes("r"))
	m = send(t, m, redirectMsg{seq: seq})
	assert.Equal(t, TabDashboard, m.ActiveTab())
}

func TestNoRedirectWhenDisabled(t *testing.T) {
	m := newTestModel(t, Options{DemoFaults: true})

	m = sendCmd(t, m, runes("x"))
	m.View()
	m = send(t, m, viewFailedMsg{failure: waitFailure(t, m)})
	assert.Equal(t, 0, m.redirectSeq)
}

func TestRedirectNeverFiresWithoutFailure(t *testing.T) {
	m := newTestModel(t, Options{FallbackRedirect: time.Millisecond})

	m = send(t, m, redirectMsg{seq: 0})
	assert.Equal(t, TabDashboard, m.ActiveTab())
}

func TestCompactLayout(t *testing.T) {
	m := newTestModel(t, Options{})
	m = send(t, m, tea.WindowSizeMsg{Width: 40, Height: 20})

	out := m.View()
	assert.Contains(t, out, "Wider terminal needed")
	assert.NotContains(t, out, "Pipeline")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, TabDashboard, m.ActiveTab())

	m = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Contains(t, m.View(), "Pipeline")
}

func TestSpeedDial(t *testing.T) {
	m := newTestModel(t, Options{})

	m = send(t, m, runes("+"))
	require.True(t, m.dial.open)
	assert.Contains(t, m.View(), "Send email")

	// Tab keys are captured by the open dial.
	m = send(t, m, runes("2"))
	assert.Equal(t, TabDashboard, m.ActiveTab())

	m = send(t, m, runes("j"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.dial.open)
	assert.Equal(t, "New deal form opened", m.statusMsg)

	m = send(t, m, runes("+"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.dial.open)
}

func TestSpeedDialInCompactLayout(t *testing.T) {
	m := newTestModel(t, Options{})
	m = send(t, m, tea.WindowSizeMsg{Width: 40, Height: 20})

	m = send(t, m, runes("+"))
	m = send(t, m, runes("k"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "New contact form opened", m.statusMsg)
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, Options{})
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestFooterHints(t *testing.T) {
	m := newTestModel(t, Options{})
	out := m.View()
	assert.Contains(t, out, "reload view")
	assert.NotContains(t, out, "break dashboard")

	m = newTestModel(t, Options{DemoFaults: true})
	assert.Contains(t, m.View(), "break dashboard")
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "$1,234,567", formatMoney(1234567))
	assert.Equal(t, "$999", formatMoney(999))
	assert.Equal(t, "-$1,000", formatMoney(-1000))
	assert.Equal(t, "abc...", truncate("abcdefgh", 6))
	assert.Equal(t, "ab  ", pad("ab", 4))
	assert.Equal(t, 4, len([]rune(pad("abcdefgh", 4))))

	start, end := visibleWindow(12, 20, 5)
	assert.Equal(t, 8, start)
	assert.Equal(t, 13, end)
	assert.True(t, strings.HasPrefix(truncate("héllo wörld", 8), "héllo"))
}

func TestDashboardViewHidesCause(t *testing.T) {
	d := newDashboard(crm.Demo(fixedNow), func() time.Time { return fixedNow })
	next, _ := d.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	next, _ = next.Update(injectFaultMsg{kind: faultBadData})

	out := next.View()
	assert.Contains(t, out, "Dashboard unavailable")
	assert.NotContains(t, out, "invalid deal")
	assert.NotContains(t, out, "d-999")
}
