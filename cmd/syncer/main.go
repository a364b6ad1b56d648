package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"healthsync/internal/config"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "syncer",
		Short:        "Sync device health samples to a remote gateway",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "config.yaml", "path to config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	cmd.AddCommand(
		newRunCmd(opts),
		newSyncCmd(opts),
		newHistoryCmd(opts),
		newCheckCmd(opts),
		newCleanupCmd(opts),
	)
	return cmd
}

// load reads the config and builds the logger it asks for.
func (o *rootOptions) load() (*config.Config, *slog.Logger, error) {
	logger := setupLogger("info")

	cfg, err := config.Load(o.configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.LogLevel
	if o.logLevel != "" {
		level = o.logLevel
	}
	return cfg, setupLogger(level), nil
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
