package model

import "time"

// JobStatus is shared vocabulary between JobRecord and JobState, though the
// two stores use different subsets of it.
type JobStatus string

const (
	JobStarted     JobStatus = "started"
	JobRunning     JobStatus = "running"
	JobCompleted   JobStatus = "completed"
	JobFailed      JobStatus = "failed"
	JobInterrupted JobStatus = "interrupted"
)

// JobRecord is the durable history-store shape: one file per job, written
// once per transition, never mutated in place except via UpdateJob's
// read-modify-write merge.
type JobRecord struct {
	JobID        string
	JobType      string
	Status       JobStatus
	InputFile    string
	StartedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
	FailedAt     *time.Time
	Outputs      map[string]any
	ErrorMessage string
	SavedAt      time.Time
	Extra        map[string]any
}

// JobState is the live-checkpoint shape written by the currently-running
// engine. Distinct from JobRecord: state is the running cursor, the record
// is history.
type JobState struct {
	JobID     string
	Status    JobStatus
	UpdatedAt time.Time
	Fields    map[string]any
}

// JobStats summarizes the history store's contents.
type JobStats struct {
	CountByStatus map[JobStatus]int
	Oldest        *JobRecord
	Newest        *JobRecord
}
