// Package report turns recorded render failures into a per-view summary
// and a markdown report. Everything is computed from the rows alone, so
// the same failures always produce the same report.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Mr-Dark-debug/crmdesk/internal/database"
	"github.com/Mr-Dark-debug/crmdesk/pkg/timeutil"
)

// ViewSummary describes how one view has been failing.
type ViewSummary struct {
	View       string `json:"view"`
	Failures   int    `json:"failures"`
	Panics     int    `json:"panics"`
	Sessions   int    `json:"sessions"`
	FirstSeen  int64  `json:"first_seen"`
	LastSeen   int64  `json:"last_seen"`
	TopMessage string `json:"top_message"`
	TopCount   int    `json:"top_count"`
	// Recurring is set when the view failed in more than one session.
	Recurring bool `json:"recurring"`
}

// Summary is the full report.
type Summary struct {
	GeneratedAt string         `json:"generated_at"`
	Total       int            `json:"total"`
	Views       []*ViewSummary `json:"views"`
	Warnings    []string       `json:"warnings,omitempty"`
}

// Summarize groups failures by view, most failures first.
func Summarize(failures []*database.Failure, now time.Time) *Summary {
	s := &Summary{
		GeneratedAt: now.UTC().Format(time.RFC3339),
		Total:       len(failures),
	}

	byView := make(map[string]*ViewSummary)
	messages := make(map[string]map[string]int)
	sessions := make(map[string]map[string]struct{})

	for _, f := range failures {
		vs, ok := byView[f.View]
		if !ok {
			vs = &ViewSummary{View: f.View, FirstSeen: f.OccurredAt, LastSeen: f.OccurredAt}
			byView[f.View] = vs
			messages[f.View] = make(map[string]int)
			sessions[f.View] = make(map[string]struct{})
		}
		vs.Failures++
		if f.Panicked {
			vs.Panics++
		}
		if f.OccurredAt < vs.FirstSeen {
			vs.FirstSeen = f.OccurredAt
		}
		if f.OccurredAt > vs.LastSeen {
			vs.LastSeen = f.OccurredAt
		}
		messages[f.View][f.Message]++
		sessions[f.View][f.SessionID] = struct{}{}
	}

	for view, vs := range byView {
		vs.Sessions = len(sessions[view])
		vs.Recurring = vs.Sessions > 1
		vs.TopMessage, vs.TopCount = topMessage(messages[view])
		s.Views = append(s.Views, vs)

		if vs.Recurring {
			s.Warnings = append(s.Warnings, fmt.Sprintf(
				"%s failed in %d separate sessions; a remount does not fix it", view, vs.Sessions))
		}
	}

	sort.Slice(s.Views, func(i, j int) bool {
		if s.Views[i].Failures != s.Views[j].Failures {
			return s.Views[i].Failures > s.Views[j].Failures
		}
		return s.Views[i].View < s.Views[j].View
	})
	sort.Strings(s.Warnings)

	return s
}

// topMessage returns the most frequent message, ties broken alphabetically.
func topMessage(counts map[string]int) (string, int) {
	var best string
	bestN := 0
	for msg, n := range counts {
		if n > bestN || (n == bestN && msg < best) {
			best, bestN = msg, n
		}
	}
	return best, bestN
}

// FormatMarkdown renders the summary as a markdown document.
func FormatMarkdown(s *Summary) string {
	var b strings.Builder

	b.WriteString("# crmdesk Render Failure Report\n\n")
	b.WriteString(fmt.Sprintf("**Generated:** %s\n", s.GeneratedAt))
	b.WriteString(fmt.Sprintf("**Total failures:** %d\n\n", s.Total))

	if len(s.Views) == 0 {
		b.WriteString("No render failures recorded.\n")
		return b.String()
	}

	b.WriteString("## By View\n\n")
	b.WriteString("| View | Failures | Panics | Sessions | First Seen | Last Seen |\n")
	b.WriteString("|------|----------|--------|----------|------------|-----------|\n")
	for _, v := range s.Views {
		b.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %s | %s |\n",
			v.View, v.Failures, v.Panics, v.Sessions,
			timeutil.FormatTimestamp(v.FirstSeen), timeutil.FormatTimestamp(v.LastSeen)))
	}
	b.WriteString("\n")

	b.WriteString("## Most Common Causes\n\n")
	for _, v := range s.Views {
		b.WriteString(fmt.Sprintf("- **%s** (%d×): `%s`\n", v.View, v.TopCount, oneLine(v.TopMessage)))
	}
	b.WriteString("\n")

	if len(s.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range s.Warnings {
			b.WriteString(fmt.Sprintf("- %s\n", w))
		}
	}

	return b.String()
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "`", "'")
	if r := []rune(s); len(r) > 120 {
		return string(r[:117]) + "..."
	}
	return s
}
