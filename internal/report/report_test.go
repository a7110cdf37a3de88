package report

import (
	"strings"
	"testing"
	"time"

	"github.com/Mr-Dark-debug/crmdesk/internal/database"
)

func sample() []*database.Failure {
	return []*database.Failure{
		{FailureID: "1", SessionID: "s1", View: "dashboard", Message: "invalid deal", Panicked: true, OccurredAt: 300},
		{FailureID: "2", SessionID: "s2", View: "dashboard", Message: "invalid deal", OccurredAt: 100},
		{FailureID: "3", SessionID: "s2", View: "dashboard", Message: "nil book", OccurredAt: 200},
		{FailureID: "4", SessionID: "s1", View: "contacts", Message: "index out of range", Panicked: true, OccurredAt: 50},
	}
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	s := Summarize(sample(), now)

	if s.Total != 4 {
		t.Fatalf("expected total=4, got %d", s.Total)
	}
	if s.GeneratedAt != "2026-04-01T08:00:00Z" {
		t.Errorf("unexpected generated_at %s", s.GeneratedAt)
	}
	if len(s.Views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(s.Views))
	}

	d := s.Views[0]
	if d.View != "dashboard" {
		t.Fatalf("expected dashboard first, got %s", d.View)
	}
	if d.Failures != 3 || d.Panics != 1 || d.Sessions != 2 {
		t.Errorf("unexpected dashboard counts: %+v", d)
	}
	if d.FirstSeen != 100 || d.LastSeen != 300 {
		t.Errorf("unexpected window: first=%d last=%d", d.FirstSeen, d.LastSeen)
	}
	if d.TopMessage != "invalid deal" || d.TopCount != 2 {
		t.Errorf("unexpected top message %q (%d)", d.TopMessage, d.TopCount)
	}
	if !d.Recurring {
		t.Errorf("expected dashboard to be recurring")
	}

	c := s.Views[1]
	if c.Recurring {
		t.Errorf("contacts failed in one session only")
	}

	if len(s.Warnings) != 1 || !strings.Contains(s.Warnings[0], "dashboard") {
		t.Errorf("unexpected warnings: %v", s.Warnings)
	}
}

func TestTopMessageTieBreak(t *testing.T) {
	msg, n := topMessage(map[string]int{"b": 2, "a": 2, "c": 1})
	if msg != "a" || n != 2 {
		t.Errorf("expected (a, 2), got (%s, %d)", msg, n)
	}
}

func TestFormatMarkdown(t *testing.T) {
	out := FormatMarkdown(Summarize(sample(), time.Unix(0, 0)))

	for _, want := range []string{
		"# crmdesk Render Failure Report",
		"**Total failures:** 4",
		"| dashboard | 3 | 1 | 2 |",
		"- **dashboard** (2×): `invalid deal`",
		"## Warnings",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q\n%s", want, out)
		}
	}
}

func TestFormatMarkdownEmpty(t *testing.T) {
	out := FormatMarkdown(Summarize(nil, time.Unix(0, 0)))
	if !strings.Contains(out, "No render failures recorded.") {
		t.Errorf("expected empty-state line, got:\n%s", out)
	}
}

func TestOneLine(t *testing.T) {
	if got := oneLine("a\nb `c`"); got != "a b 'c'" {
		t.Errorf("oneLine = %q", got)
	}
	long := strings.Repeat("x", 200)
	if got := oneLine(long); len(got) != 120 {
		t.Errorf("expected 120 chars, got %d", len(got))
	}
}
