package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/Mr-Dark-debug/crmdesk/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func seedDB(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CRMDESK_CONFIG", "")
	now = func() time.Time { return testNow }
	t.Cleanup(func() { now = time.Now })

	path := filepath.Join(t.TempDir(), "crmdesk.db")
	store, err := database.NewDBService(path)
	require.NoError(t, err)
	defer store.Close()

	stack := "goroutine 1 [running]:"
	require.NoError(t, store.BatchInsertFailures([]*database.Failure{
		{FailureID: "f-old", SessionID: "s-1", View: "dashboard", Message: "render dashboard: invalid deal", OccurredAt: testNow.Add(-40 * 24 * time.Hour).UnixNano()},
		{FailureID: "f-mid", SessionID: "s-2", View: "dashboard", Message: "render dashboard: invalid deal", OccurredAt: testNow.Add(-3 * time.Hour).UnixNano()},
		{FailureID: "f-new", SessionID: "s-2", View: "contacts", Message: "render contacts: panic: boom", Panicked: true, Stack: &stack, OccurredAt: testNow.Add(-time.Minute).UnixNano()},
	}))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestFailuresListJSON(t *testing.T) {
	db := seedDB(t)

	out, err := execute(t, "failures", "list", "--db", db, "--output", "json",
		"--view", "", "--session", "", "--since", "", "--limit", "50")
	require.NoError(t, err)

	var got []*database.Failure
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "f-new", got[0].FailureID)
}

func TestFailuresListFilters(t *testing.T) {
	db := seedDB(t)

	out, err := execute(t, "failures", "list", "--db", db, "--output", "json",
		"--view", "dashboard", "--session", "", "--since", "7d", "--limit", "50")
	require.NoError(t, err)

	var got []*database.Failure
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "f-mid", got[0].FailureID)
}

func TestFailuresListTable(t *testing.T) {
	db := seedDB(t)

	out, err := execute(t, "failures", "list", "--db", db, "--output", "table",
		"--view", "contacts", "--session", "", "--since", "", "--limit", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "contacts")
	assert.Contains(t, out, "panic")
}

func TestFailuresStats(t *testing.T) {
	db := seedDB(t)

	out, err := execute(t, "failures", "stats", "--db", db, "--output", "json")
	require.NoError(t, err)

	var got []*database.ViewStats
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "dashboard", got[0].View)
	assert.Equal(t, 2, got[0].Failures)
}

func TestFailuresReport(t *testing.T) {
	db := seedDB(t)

	out, err := execute(t, "failures", "report", "--db", db, "--output", "table", "--since", "")
	require.NoError(t, err)
	assert.Contains(t, out, "# crmdesk Render Failure Report")
	assert.Contains(t, out, "**Total failures:** 3")
}

func TestFailuresPrune(t *testing.T) {
	db := seedDB(t)

	out, err := execute(t, "failures", "prune", "--db", db, "--output", "table", "--older-than", "30d")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 1 failure(s)")

	out, err = execute(t, "failures", "list", "--db", db, "--output", "json",
		"--view", "", "--session", "", "--since", "", "--limit", "50")
	require.NoError(t, err)
	var got []*database.Failure
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got, 2)
}

func TestMissingDatabase(t *testing.T) {
	seedDB(t)

	_, err := execute(t, "failures", "stats", "--db", filepath.Join(t.TempDir(), "nope.db"), "--output", "table")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database at")
}

func TestBadOutputFormat(t *testing.T) {
	db := seedDB(t)

	_, err := execute(t, "failures", "stats", "--db", db, "--output", "yaml")
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "crmdesk v"+Version)
}

func seedMany(t *testing.T, db string, n int) {
	t.Helper()
	store, err := database.NewDBService(db)
	require.NoError(t, err)
	defer store.Close()

	batch := make([]*database.Failure, 0, n)
	for i := 0; i < n; i++ {
		batch = append(batch, &database.Failure{
			FailureID:  fmt.Sprintf("bulk-%03d", i),
			SessionID:  "s-bulk",
			View:       "dashboard",
			Message:    "render dashboard: invalid deal",
			OccurredAt: testNow.Add(-time.Duration(i+1) * time.Second).UnixNano(),
		})
	}
	require.NoError(t, store.BatchInsertFailures(batch))
}

func TestFailuresReportCountsEveryRow(t *testing.T) {
	db := seedDB(t)
	seedMany(t, db, 150)

	out, err := execute(t, "failures", "report", "--db", db, "--output", "json", "--since", "")
	require.NoError(t, err)

	var got struct {
		Total int `json:"total"`
		Views []struct {
			View     string `json:"view"`
			Failures int    `json:"failures"`
		} `json:"views"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 153, got.Total)
	require.NotEmpty(t, got.Views)
	assert.Equal(t, "dashboard", got.Views[0].View)
	assert.Equal(t, 152, got.Views[0].Failures)
}

func TestFailuresListLimitZeroShowsAll(t *testing.T) {
	db := seedDB(t)
	seedMany(t, db, 150)

	out, err := execute(t, "failures", "list", "--db", db, "--output", "json",
		"--view", "", "--session", "", "--since", "", "--limit", "0")
	require.NoError(t, err)

	var got []*database.Failure
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got, 153)
}
