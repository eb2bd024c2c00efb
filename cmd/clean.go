package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"base-janitor/core/config"
	"base-janitor/core/history"
	"base-janitor/core/logger"
	"base-janitor/core/lxd"
	"base-janitor/core/storage"
	"base-janitor/feature/bases"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the clean command
	cleanDryRun     bool
	cleanProject    string
	cleanMinVersion string
)

// cleanCmd performs one full reconciliation pass over images and instances.
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Reconcile the cached build bases (one images pass, one instances pass)",
	Long: `Reconcile the cached build-environment images and instances against the
naming convention.

Images carrying an alias in a deprecated naming scheme are removed. Instances
below the minimum supported version or displaced by a newer build of the same
base are removed; exactly one instance per base survives. Names the janitor
does not recognize are never touched.

Examples:
  # Report what would be removed, delete nothing
  base-janitor clean --dry-run

  # Reconcile a specific project namespace
  base-janitor clean --project snapcraft

  # Raise the minimum supported version for this run
  base-janitor clean --min-version 4.0`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanDryRun, "dry-run", false, "Make retention decisions but issue no deletions")
	cleanCmd.Flags().StringVar(&cleanProject, "project", "", "Override the configured project namespace")
	cleanCmd.Flags().StringVar(&cleanMinVersion, "min-version", "", "Override the configured minimum supported version")

	RootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cleanProject != "" {
		cfg.Bases.Project = cleanProject
	}
	if cleanMinVersion != "" {
		cfg.Bases.MinVersion = cleanMinVersion
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	runID := uuid.NewString()
	l = logger.WithRun(l, runID)

	l.Info("Starting reconciliation",
		zap.String("project", cfg.Bases.Project),
		zap.String("min_version", cfg.Bases.MinVersion),
		zap.Bool("dry_run", cleanDryRun),
	)

	// Open the history store (optional: reconcile without it on failure)
	var store *history.Store
	if cfg.History.Enabled {
		if s, err := history.Open(cfg.History); err != nil {
			l.Warn("History store unavailable, run will not be recorded", zap.Error(err))
		} else {
			store = s
		}
	}

	// Run the pass
	client := lxd.NewClient(cfg.LXD)
	reconciler := bases.NewReconciler(client, cfg.Bases, l)
	report := reconciler.Run(ctx, bases.Options{DryRun: cleanDryRun})

	printReport(l, report)

	if store != nil {
		if err := store.RecordRun(ctx, runRecord(runID, cfg, report)); err != nil {
			l.Warn("Failed to record run", zap.Error(err))
		}
	}

	if cfg.Report.Enabled() {
		if err := uploadReport(ctx, cfg, runID, report); err != nil {
			l.Warn("Failed to upload report", zap.Error(err))
		} else {
			l.Info("Report uploaded", zap.String("bucket", cfg.Report.Bucket))
		}
	}

	return nil
}

// printReport prints a formatted reconciliation report using the logger.
func printReport(l *zap.Logger, report *bases.Report) {
	images, instances, failures := report.Counts()

	l.Info("Reconciliation report",
		zap.Int("images_removed", images),
		zap.Int("instances_removed", instances),
		zap.Int("failures", failures),
		zap.Int("retained_slots", report.RetainedSlots),
		zap.Bool("dry_run", report.DryRun),
		zap.Duration("took", report.FinishedAt.Sub(report.StartedAt)),
	)

	if report.ImagesSkipped {
		l.Warn("Image pass skipped", zap.String("error", report.ImagesError))
	}
	if report.InstancesSkipped {
		l.Warn("Instance pass skipped", zap.String("error", report.InstancesError))
	}
}

// runRecord converts a pass report into a history row.
func runRecord(runID string, cfg *config.Config, report *bases.Report) *history.Run {
	images, instances, failures := report.Counts()

	run := &history.Run{
		ID:               runID,
		Project:          cfg.Bases.Project,
		MinVersion:       cfg.Bases.MinVersion,
		DryRun:           report.DryRun,
		StartedAt:        report.StartedAt,
		FinishedAt:       report.FinishedAt,
		ImagesDeleted:    images,
		InstancesDeleted: instances,
		Failures:         failures,
	}
	for _, d := range report.Deletions {
		run.Deletions = append(run.Deletions, history.Deletion{
			RunID:     runID,
			Kind:      string(d.Kind),
			EntityID:  d.ID,
			Reason:    string(d.Reason),
			Outcome:   string(d.Outcome),
			Error:     d.Error,
			CreatedAt: time.Now(),
		})
	}
	return run
}

// uploadReport ships the JSON run report to the configured object store.
func uploadReport(ctx context.Context, cfg *config.Config, runID string, report *bases.Report) error {
	client, err := storage.NewClient(cfg.Report)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	objectName := fmt.Sprintf("reports/%s.json", runID)
	return storage.UploadReport(ctx, client, cfg.Report.Bucket, objectName, data)
}
