package cmd

import (
	"fmt"
	"os"

	"base-janitor/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "base-janitor",
	Short: "Build-base cache janitor for LXD",
	Long: `base-janitor reconciles the cached build-environment images and instances
held by an LXD server against the craft naming convention, retiring everything
obsolete, duplicated, or below the minimum supported version.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Use the application's standard logger for error reporting.
		// Console format to match user expectations (CLI tool), debug level
		// for ISO8601 timestamps instead of epoch.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
