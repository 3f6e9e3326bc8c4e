// Package jobs defines the asynchronous assessment jobs the API enqueues
// and the worker pool drains. Job state is kept in memory for the lifetime
// of the session, like everything else in this service.
package jobs

import (
	"context"
	"errors"
	"time"
)

// Status represents the current status of a job.
type Status string

const (
	// StatusQueued indicates the job is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusRunning indicates the job is currently being processed.
	StatusRunning Status = "running"
	// StatusCompleted indicates the assessment succeeded and was merged.
	StatusCompleted Status = "completed"
	// StatusFailed indicates the assessment failed; the transaction keeps
	// its previous assessment, if any.
	StatusFailed Status = "failed"
)

// ErrAlreadyInFlight is returned by Publish when an assessment job for the
// same transaction is still queued or running. Re-assessment is allowed,
// but only one invocation per transaction may be outstanding.
var ErrAlreadyInFlight = errors.New("assessment already in flight for this transaction")

// AssessTransactionJob is one request to score a transaction.
type AssessTransactionJob struct {
	// JobID is the unique identifier for this job.
	JobID string `json:"job_id"`

	// TransactionID is the store ID of the transaction to score.
	TransactionID string `json:"transaction_id"`

	// Status is the current status of the job.
	Status Status `json:"status"`

	// CreatedAt is when the job was enqueued.
	CreatedAt time.Time `json:"created_at"`

	// StartedAt is when a worker picked the job up.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// CompletedAt is when the job finished, successfully or not.
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error holds the failure kind and detail when Status is failed.
	Error string `json:"error,omitempty"`

	// RiskLevel is the verdict of a completed job, recorded for listing
	// without another store lookup.
	RiskLevel string `json:"risk_level,omitempty"`
}

// Publisher enqueues assessment jobs.
type Publisher interface {
	// Publish enqueues an assessment job. It returns ErrAlreadyInFlight
	// when the transaction already has an outstanding job.
	Publish(ctx context.Context, job *AssessTransactionJob) error

	// Close releases queue resources.
	Close() error
}

// Handler processes one job. A non-nil error marks the job failed; there is
// no automatic retry - the auditor re-triggers the assessment manually.
type Handler func(ctx context.Context, job *AssessTransactionJob) error

// JobStore tracks job state for the /api/jobs endpoints.
type JobStore interface {
	Save(ctx context.Context, job *AssessTransactionJob) error
	Get(ctx context.Context, jobID string) (*AssessTransactionJob, error)
	List(ctx context.Context, filter Filter) ([]*AssessTransactionJob, error)
}

// Filter narrows a job listing.
type Filter struct {
	// TransactionID filters jobs by transaction.
	TransactionID string

	// Status filters jobs by status.
	Status Status

	// Limit caps the number of results; zero means no cap.
	Limit int
}
