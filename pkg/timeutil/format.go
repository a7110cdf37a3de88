// Package timeutil provides time formatting utilities for crmdesk.
//
// Stored timestamps are Unix nanoseconds (int64). This package converts
// them for the UI, the CLI tables and the failure report, and parses the
// human ages the CLI accepts ("90m", "36h", "7d").
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FromNano converts a Unix nanosecond timestamp to time.Time.
func FromNano(ns int64) time.Time {
	return time.Unix(0, ns)
}

// FormatTimestamp formats a Unix nanosecond timestamp with date.
// Format: "2006-01-02 15:04:05"
func FormatTimestamp(ns int64) string {
	return FromNano(ns).Format("2006-01-02 15:04:05")
}

// FormatClock formats t for compact UI lists. Format: "15:04"
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}

// RelativeTo returns a human-readable age of t as seen from now.
// Examples: "just now", "5s ago", "2m ago", "1h ago", "3d ago"
func RelativeTo(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < time.Second:
		return "just now"
	case diff < time.Minute:
		return fmt.Sprintf("%ds ago", int(diff.Seconds()))
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
}

// ParseAge parses a duration that may also use a "d" (day) suffix.
func ParseAge(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid age %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid age %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid age %q: negative", s)
	}
	return d, nil
}
