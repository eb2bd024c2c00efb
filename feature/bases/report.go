package bases

import "time"

// Reason explains why an entity was selected for deletion.
type Reason string

const (
	// ReasonObsolete marks names matching a deprecated naming scheme.
	ReasonObsolete Reason = "obsolete"
	// ReasonBelowMinimum marks instances below the minimum supported version.
	ReasonBelowMinimum Reason = "below_minimum"
	// ReasonSuperseded marks instances displaced by a newer build in the same slot.
	ReasonSuperseded Reason = "superseded"
)

// Kind distinguishes the two independent inventories.
type Kind string

const (
	KindImage    Kind = "image"
	KindInstance Kind = "instance"
)

// Outcome describes the result of a single deletion attempt.
type Outcome string

const (
	// OutcomeDeleted means the manager confirmed the deletion.
	OutcomeDeleted Outcome = "deleted"
	// OutcomeFailed means the manager reported an error; the pass continued.
	OutcomeFailed Outcome = "failed"
	// OutcomePlanned means the deletion was decided but not issued (dry run).
	OutcomePlanned Outcome = "planned"
)

// Deletion is one deletion attempt within a pass.
type Deletion struct {
	// Kind is the inventory the entity belongs to.
	Kind Kind `json:"kind"`
	// ID identifies the entity: fingerprint for images, name for instances.
	ID string `json:"id"`
	// Reason explains the retention decision.
	Reason Reason `json:"reason"`
	// Outcome is the result of the delete request.
	Outcome Outcome `json:"outcome"`
	// Error carries the manager's message when the outcome is failed.
	Error string `json:"error,omitempty"`
}

// Report aggregates everything a reconciliation run decided and did.
type Report struct {
	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// DryRun indicates decisions were made but no deletions issued.
	DryRun bool `json:"dry_run"`

	// ImagesSkipped / InstancesSkipped are set when that inventory could not
	// be listed; the corresponding error text explains why.
	ImagesSkipped    bool   `json:"images_skipped,omitempty"`
	ImagesError      string `json:"images_error,omitempty"`
	InstancesSkipped bool   `json:"instances_skipped,omitempty"`
	InstancesError   string `json:"instances_error,omitempty"`

	// Deletions lists every deletion attempt in decision order.
	Deletions []Deletion `json:"deletions"`

	// RetainedSlots is the number of slots left with exactly one instance.
	RetainedSlots int `json:"retained_slots"`
}

// Counts returns per-outcome totals split by inventory.
func (r *Report) Counts() (images, instances, failures int) {
	for _, d := range r.Deletions {
		if d.Outcome == OutcomeFailed {
			failures++
			continue
		}
		switch d.Kind {
		case KindImage:
			images++
		case KindInstance:
			instances++
		}
	}
	return images, instances, failures
}

func (r *Report) record(d Deletion) {
	r.Deletions = append(r.Deletions, d)
}
