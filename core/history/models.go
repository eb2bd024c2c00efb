package history

import "time"

// Run is one reconciliation invocation.
type Run struct {
	// ID is a uuid assigned at the start of the run.
	ID string `gorm:"primaryKey;size:36" json:"id"`
	// Project is the project namespace the run was scoped to.
	Project string `json:"project"`
	// MinVersion is the minimum supported version enforced by the run.
	MinVersion string `json:"min_version"`
	// DryRun indicates no deletions were actually issued.
	DryRun bool `json:"dry_run"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// ImagesDeleted / InstancesDeleted / Failures are aggregate counts.
	ImagesDeleted    int `json:"images_deleted"`
	InstancesDeleted int `json:"instances_deleted"`
	Failures         int `json:"failures"`

	// Deletions is the per-entity audit trail for this run.
	Deletions []Deletion `gorm:"foreignKey:RunID" json:"deletions,omitempty"`
}

// Deletion is one deletion attempt recorded under a run.
type Deletion struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	RunID string `gorm:"index;size:36" json:"run_id"`
	// Kind is "image" or "instance".
	Kind string `json:"kind"`
	// EntityID is the image fingerprint or instance name.
	EntityID string `json:"entity_id"`
	// Reason explains the retention decision.
	Reason string `json:"reason"`
	// Outcome is deleted, failed, or planned.
	Outcome string `json:"outcome"`
	// Error carries the manager's message for failed deletions.
	Error string `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
