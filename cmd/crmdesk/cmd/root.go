package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Mr-Dark-debug/crmdesk/internal/config"
	"github.com/Mr-Dark-debug/crmdesk/internal/database"
	"github.com/Mr-Dark-debug/crmdesk/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile      string
	dbPath       string
	outputFormat string

	cfg config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "crmdesk",
	Short: "Inspect crmdesk render failures",
	Long: `crmdesk reads the render failures recorded by crmdesk-tui and reports
which views have been failing, how often and since when.`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/crmdesk/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database file (overrides database.path)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", "table", "output format: table or json")
}

// initConfig loads configuration and sets up stderr logging.
func initConfig(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if outputFormat != "table" && outputFormat != "json" {
		return fmt.Errorf("unknown output format %q (want table or json)", outputFormat)
	}

	logger, err := logging.New(logging.Options{Level: cfg.Log.Level})
	if err != nil {
		return err
	}
	logging.SetLogger(logger)
	return nil
}

// IsJSONOutput returns true if output format is JSON
func IsJSONOutput() bool {
	return outputFormat == "json"
}

// openStore opens the failure database. A missing database is an error
// for the CLI; only the TUI creates one.
func openStore() (database.Store, error) {
	if cfg.Database.Path != ":memory:" {
		if _, err := os.Stat(cfg.Database.Path); err != nil {
			return nil, fmt.Errorf("no database at %s (run crmdesk-tui first or pass --db): %w",
				filepath.Clean(cfg.Database.Path), err)
		}
	}
	store, err := database.NewDBService(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	logging.Logger().Debug("opened failure store", zap.String("path", cfg.Database.Path))
	return store, nil
}

func printJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}
