// crmdesk TUI: the interactive CRM desk.
//
// Usage:
//
//	crmdesk-tui [flags]
//
// Flags:
//
//	--config       Path to config file (default: ~/.config/crmdesk/config.toml)
//	--db           Path to SQLite database file (overrides database.path)
//	--demo-faults  Enable the x/X keys that break the dashboard
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Mr-Dark-debug/crmdesk/internal/config"
	"github.com/Mr-Dark-debug/crmdesk/internal/database"
	"github.com/Mr-Dark-debug/crmdesk/internal/diagnostics"
	"github.com/Mr-Dark-debug/crmdesk/internal/logging"
	"github.com/Mr-Dark-debug/crmdesk/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile    string
	dbPath     string
	demoFaults bool
)

func main() {
	root := &cobra.Command{
		Use:          "crmdesk-tui",
		Short:        "Interactive CRM desk",
		SilenceUsage: true,
		RunE:         run,
	}
	root.Flags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/crmdesk/config.toml)")
	root.Flags().StringVar(&dbPath, "db", "", "path to SQLite database file (overrides database.path)")
	root.Flags().BoolVar(&demoFaults, "demo-faults", false, "enable the keys that break the dashboard")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if cmd.Flags().Changed("demo-faults") {
		cfg.UI.DemoFaults = demoFaults
	}

	// The UI owns the terminal, so logs always go to a file.
	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	logging.SetLogger(logger)

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	store, err := database.NewDBService(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database at %s: %w", cfg.Database.Path, err)
	}
	defer store.Close()

	sessionID := uuid.NewString()
	logger = logger.With(zap.String("session_id", sessionID))
	logger.Info("crmdesk starting",
		zap.String("db", cfg.Database.Path),
		zap.Bool("demo_faults", cfg.UI.DemoFaults),
		zap.Duration("fallback_redirect", cfg.UI.FallbackRedirect))

	recorder := diagnostics.NewRecorder(diagnostics.Config{
		SessionID:     sessionID,
		BufferSize:    cfg.Diagnostics.BufferSize,
		BatchSize:     cfg.Diagnostics.BatchSize,
		FlushInterval: cfg.Diagnostics.FlushInterval,
	}, store, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	recorder.Start(ctx)

	model := tui.NewModel(tui.Options{
		CompactWidth:     cfg.UI.CompactWidth,
		FallbackRedirect: cfg.UI.FallbackRedirect,
		DemoFaults:       cfg.UI.DemoFaults,
		Sink:             diagnostics.Multi(diagnostics.NewZapSink(logger), recorder),
		Metrics:          recorder.Metrics,
		SessionID:        sessionID,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, runErr := p.Run()

	if err := recorder.Stop(); err != nil {
		logger.Warn("flushing render failures", zap.Error(err))
	}
	m := recorder.Metrics()
	logger.Info("crmdesk stopped",
		zap.Int64("failures_persisted", m.Persisted),
		zap.Int64("failures_dropped", m.Dropped))

	if runErr != nil {
		return fmt.Errorf("running TUI: %w", runErr)
	}
	return nil
}
