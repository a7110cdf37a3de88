package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/Mr-Dark-debug/crmdesk/internal/database"
	"github.com/Mr-Dark-debug/crmdesk/internal/logging"
	"github.com/Mr-Dark-debug/crmdesk/internal/report"
	"github.com/Mr-Dark-debug/crmdesk/pkg/timeutil"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// failuresCmd represents the failures command
var failuresCmd = &cobra.Command{
	Use:   "failures",
	Short: "Inspect recorded render failures",
	Long:  `Commands for listing, summarising and pruning the render failures recorded by crmdesk-tui.`,
}

var failuresListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded render failures, newest first",
	RunE:  runFailuresList,
}

var failuresStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-view failure counts",
	RunE:  runFailuresStats,
}

var failuresReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a report of failing views",
	Long:  `Summarise recorded failures per view. Table output prints markdown; json prints the summary object.`,
	RunE:  runFailuresReport,
}

var failuresPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete failures older than a given age",
	RunE:  runFailuresPrune,
}

var (
	listView    string
	listSession string
	listSince   string
	listLimit   int

	reportSince string

	pruneOlderThan string
)

// now is replaced in tests.
var now = time.Now

func init() {
	rootCmd.AddCommand(failuresCmd)
	failuresCmd.AddCommand(failuresListCmd, failuresStatsCmd, failuresReportCmd, failuresPruneCmd)

	failuresListCmd.Flags().StringVar(&listView, "view", "", "only failures of this view")
	failuresListCmd.Flags().StringVar(&listSession, "session", "", "only failures of this session")
	failuresListCmd.Flags().StringVar(&listSince, "since", "", "only failures newer than this age (e.g. 2h, 7d)")
	failuresListCmd.Flags().IntVar(&listLimit, "limit", 50, "maximum number of failures to show (0 shows all)")

	failuresReportCmd.Flags().StringVar(&reportSince, "since", "", "only failures newer than this age (e.g. 2h, 7d)")

	failuresPruneCmd.Flags().StringVar(&pruneOlderThan, "older-than", "30d", "delete failures older than this age")
}

// sinceFilter turns an age flag into a Unix-nanosecond lower bound.
func sinceFilter(age string) (*int64, error) {
	if age == "" {
		return nil, nil
	}
	d, err := timeutil.ParseAge(age)
	if err != nil {
		return nil, err
	}
	ts := now().Add(-d).UnixNano()
	return &ts, nil
}

func runFailuresList(cmd *cobra.Command, args []string) error {
	filter := database.FailureFilter{Limit: listLimit}
	if listLimit <= 0 {
		filter.Limit = -1
	}
	if listView != "" {
		filter.View = &listView
	}
	if listSession != "" {
		filter.SessionID = &listSession
	}
	since, err := sinceFilter(listSince)
	if err != nil {
		return err
	}
	filter.Since = since

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	failures, err := store.QueryFailures(filter)
	if err != nil {
		return fmt.Errorf("querying failures: %w", err)
	}

	out := cmd.OutOrStdout()
	if IsJSONOutput() {
		return printJSON(out, failures)
	}
	if len(failures) == 0 {
		fmt.Fprintln(out, "No render failures recorded")
		return nil
	}

	table := tablewriter.NewWriter(out)
	table.Header("ID", "When", "View", "Kind", "Session", "Message")
	for _, f := range failures {
		kind := "error"
		if f.Panicked {
			kind = "panic"
		}
		table.Append(
			shortID(f.FailureID),
			timeutil.FormatTimestamp(f.OccurredAt),
			f.View,
			kind,
			shortID(f.SessionID),
			truncate(firstLine(f.Message), 60),
		)
	}
	return table.Render()
}

func runFailuresStats(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.GetViewStats()
	if err != nil {
		return fmt.Errorf("loading view stats: %w", err)
	}

	out := cmd.OutOrStdout()
	if IsJSONOutput() {
		return printJSON(out, stats)
	}
	if len(stats) == 0 {
		fmt.Fprintln(out, "No render failures recorded")
		return nil
	}

	table := tablewriter.NewWriter(out)
	table.Header("View", "Failures", "Panics", "Sessions", "First seen", "Last seen")
	for _, s := range stats {
		table.Append(
			s.View,
			fmt.Sprintf("%d", s.Failures),
			fmt.Sprintf("%d", s.Panics),
			fmt.Sprintf("%d", s.Sessions),
			timeutil.FormatTimestamp(s.FirstSeen),
			timeutil.FormatTimestamp(s.LastSeen),
		)
	}
	return table.Render()
}

func runFailuresReport(cmd *cobra.Command, args []string) error {
	since, err := sinceFilter(reportSince)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	failures, err := store.QueryFailures(database.FailureFilter{Since: since, Limit: -1})
	if err != nil {
		return fmt.Errorf("querying failures: %w", err)
	}

	summary := report.Summarize(failures, now().UTC())
	if IsJSONOutput() {
		return printJSON(cmd.OutOrStdout(), summary)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), report.FormatMarkdown(summary))
	return err
}

func runFailuresPrune(cmd *cobra.Command, args []string) error {
	age, err := timeutil.ParseAge(pruneOlderThan)
	if err != nil {
		return err
	}
	before := now().Add(-age)

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.PruneFailures(before.UnixNano())
	if err != nil {
		return fmt.Errorf("pruning failures: %w", err)
	}
	logging.Logger().Info("pruned render failures",
		zap.Int64("deleted", n), zap.Time("before", before))

	if IsJSONOutput() {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"deleted": n,
			"before":  before.UTC().Format(time.RFC3339),
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d failure(s) older than %s\n", n, pruneOlderThan)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
