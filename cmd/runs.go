package cmd

import (
	"context"
	"fmt"

	"base-janitor/core/config"
	"base-janitor/core/history"
	"base-janitor/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runsLimit int

// runsCmd lists recent reconciliation runs from the history store.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent reconciliation runs",
	Long: `List recent reconciliation runs recorded in the history store, newest first.

Examples:
  base-janitor runs
  base-janitor runs --limit 5`,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs to show")

	RootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	store, err := history.Open(cfg.History)
	if err != nil {
		return fmt.Errorf("failed to open history store: %w", err)
	}

	runs, err := store.ListRuns(ctx, runsLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		l.Info("No recorded runs")
		return nil
	}

	for _, run := range runs {
		l.Info("Run",
			zap.String("id", run.ID),
			zap.Time("started_at", run.StartedAt),
			zap.String("project", run.Project),
			zap.String("min_version", run.MinVersion),
			zap.Bool("dry_run", run.DryRun),
			zap.Int("images_deleted", run.ImagesDeleted),
			zap.Int("instances_deleted", run.InstancesDeleted),
			zap.Int("failures", run.Failures),
		)
	}

	return nil
}
