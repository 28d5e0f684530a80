package domain

import "time"

// CheckpointStatus is the lifecycle state of a scheduler run.
type CheckpointStatus string

const (
	CheckpointStarted   CheckpointStatus = "started"
	CheckpointCompleted CheckpointStatus = "completed"
	CheckpointFailed    CheckpointStatus = "failed"
)

// SchedulerCheckpoint records the start/end/failure of a single
// scheduling pass for audit.
type SchedulerCheckpoint struct {
	SchedulerRunID    string
	RunTimestamp      time.Time
	Status            CheckpointStatus
	ContactsProcessed int
	ContactsScheduled int
	ContactsSkipped   int
	ErrorMessage      string
	CompletedAt       *time.Time
}
