package bases

import (
	"context"
	"time"

	"base-janitor/core/lxd"

	"go.uber.org/zap"
)

// Options controls a single reconciliation run.
type Options struct {
	// DryRun makes the same retention decisions but issues no deletions.
	// Decisions do not depend on deletion success, so the planned set equals
	// the set a real run would delete.
	DryRun bool
}

// Reconciler drives one full reconciliation pass: all images, then all
// instances. It is the only component with side effects; every delete request
// goes through the LXD client and a failed request never aborts the pass.
type Reconciler struct {
	client lxd.Client
	conv   *Convention
	min    string
	log    *zap.Logger
}

// NewReconciler creates a reconciler for the configured naming convention.
func NewReconciler(client lxd.Client, cfg Config, log *zap.Logger) *Reconciler {
	return &Reconciler{
		client: client,
		conv:   NewConvention(cfg.Project, cfg.ProviderLabel),
		min:    cfg.MinVersion,
		log:    log,
	}
}

// Run performs exactly one images pass followed by exactly one instances
// pass. Both passes are terminal: no retries, no resumption. Re-invoking on a
// partially cleaned inventory is safe because the algorithm is idempotent.
func (r *Reconciler) Run(ctx context.Context, opts Options) *Report {
	report := &Report{StartedAt: time.Now().UTC(), DryRun: opts.DryRun}

	r.reconcileImages(ctx, opts, report)
	r.reconcileInstances(ctx, opts, report)

	report.FinishedAt = time.Now().UTC()
	return report
}

// reconcileImages deletes every image carrying an alias in a deprecated
// naming scheme. One deletion per image at most, regardless of how many of
// its aliases match.
func (r *Reconciler) reconcileImages(ctx context.Context, opts Options, report *Report) {
	images, err := r.client.ListImages(ctx)
	if err != nil {
		r.log.Warn("image inventory unavailable, skipping image pass", zap.Error(err))
		report.ImagesSkipped = true
		report.ImagesError = err.Error()
		return
	}

	for _, img := range images {
		for _, alias := range img.Aliases {
			if !r.conv.Obsolete(alias.Name) {
				continue
			}
			r.deleteImage(ctx, opts, report, img.Fingerprint, alias.Name)
			break
		}
	}
}

// reconcileInstances enforces the retention policy over the instance
// inventory: below-minimum instances go unconditionally, obsolete names go
// unconditionally, and of the supported-versioned instances exactly the
// newest per slot survives. Unrecognized names are never touched.
func (r *Reconciler) reconcileInstances(ctx context.Context, opts Options, report *Report) {
	instances, err := r.client.ListInstances(ctx)
	if err != nil {
		r.log.Warn("instance inventory unavailable, skipping instance pass", zap.Error(err))
		report.InstancesSkipped = true
		report.InstancesError = err.Error()
		return
	}

	tracker := NewTracker()
	for _, inst := range instances {
		slot, ok := r.conv.ParseSupported(inst.ImageDescription())
		if ok {
			if slot.BelowMinimum(r.min) {
				// Below-minimum instances never occupy a slot.
				r.deleteInstance(ctx, opts, report, inst.Name, ReasonBelowMinimum)
				continue
			}
			if evicted, lost := tracker.Observe(slot, inst.CreatedAt, inst.Name); lost {
				r.deleteInstance(ctx, opts, report, evicted, ReasonSuperseded)
			}
			continue
		}
		if r.conv.Obsolete(inst.Name) {
			r.deleteInstance(ctx, opts, report, inst.Name, ReasonObsolete)
		}
	}

	report.RetainedSlots = tracker.Len()
}

func (r *Reconciler) deleteImage(ctx context.Context, opts Options, report *Report, fingerprint, alias string) {
	d := Deletion{Kind: KindImage, ID: fingerprint, Reason: ReasonObsolete}

	if opts.DryRun {
		d.Outcome = OutcomePlanned
		r.log.Info("would delete image", zap.String("fingerprint", fingerprint), zap.String("alias", alias))
		report.record(d)
		return
	}

	if err := r.client.DeleteImage(ctx, fingerprint); err != nil {
		d.Outcome = OutcomeFailed
		d.Error = err.Error()
		r.log.Warn("failed to delete image",
			zap.String("fingerprint", fingerprint),
			zap.String("alias", alias),
			zap.Error(err))
	} else {
		d.Outcome = OutcomeDeleted
		r.log.Info("deleted image", zap.String("fingerprint", fingerprint), zap.String("alias", alias))
	}
	report.record(d)
}

func (r *Reconciler) deleteInstance(ctx context.Context, opts Options, report *Report, name string, reason Reason) {
	d := Deletion{Kind: KindInstance, ID: name, Reason: reason}

	if opts.DryRun {
		d.Outcome = OutcomePlanned
		r.log.Info("would delete instance", zap.String("name", name), zap.String("reason", string(reason)))
		report.record(d)
		return
	}

	// Tracker bookkeeping is not rolled back on failure: a stale instance
	// left behind here is picked up again on the next invocation.
	if err := r.client.DeleteInstance(ctx, name); err != nil {
		d.Outcome = OutcomeFailed
		d.Error = err.Error()
		r.log.Warn("failed to delete instance",
			zap.String("name", name),
			zap.String("reason", string(reason)),
			zap.Error(err))
	} else {
		d.Outcome = OutcomeDeleted
		r.log.Info("deleted instance", zap.String("name", name), zap.String("reason", string(reason)))
	}
	report.record(d)
}
