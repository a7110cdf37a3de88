package timeutil

import (
	"testing"
	"time"
)

func TestRelativeTo(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		ago  time.Duration
		want string
	}{
		{0, "just now"},
		{5 * time.Second, "5s ago"},
		{2 * time.Minute, "2m ago"},
		{3 * time.Hour, "3h ago"},
		{50 * time.Hour, "2d ago"},
	}
	for _, tc := range cases {
		if got := RelativeTo(now.Add(-tc.ago), now); got != tc.want {
			t.Errorf("RelativeTo(-%s) = %q, want %q", tc.ago, got, tc.want)
		}
	}
}

func TestParseAge(t *testing.T) {
	cases := map[string]time.Duration{
		"7d":  7 * 24 * time.Hour,
		"36h": 36 * time.Hour,
		"90m": 90 * time.Minute,
		"0d":  0,
	}
	for in, want := range cases {
		got, err := ParseAge(in)
		if err != nil {
			t.Errorf("ParseAge(%q) failed: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseAge(%q) = %s, want %s", in, got, want)
		}
	}

	for _, bad := range []string{"", "xd", "-1d", "-5h", "soon"} {
		if _, err := ParseAge(bad); err == nil {
			t.Errorf("ParseAge(%q) expected error", bad)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2026, 2, 3, 4, 5, 6, 0, time.Local).UnixNano()
	if got := FormatTimestamp(ts); got != "2026-02-03 04:05:06" {
		t.Errorf("FormatTimestamp = %q", got)
	}
}
