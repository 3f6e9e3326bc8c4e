package inmemory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pswandaru/auditguard/internal/jobs"
)

// Queue is an in-memory assessment job queue built on a Go channel. It is
// safe for concurrent use and suitable for the single-instance deployments
// this service targets.
//
// The queue enforces the advisory single-flight rule of the dashboard: one
// outstanding assessment per transaction. Failed jobs are not retried
// automatically; the auditor triggers a new assessment manually.
type Queue struct {
	jobChan   chan *jobs.AssessTransactionJob
	closeChan chan struct{}
	wg        sync.WaitGroup
	mu        sync.RWMutex
	store     jobs.JobStore
	inFlight  map[string]string // transaction ID -> job ID
	workers   int
	closed    bool
}

// NewQueue creates a new in-memory job queue. bufferSize determines how many
// jobs can be queued before Publish blocks.
func NewQueue(bufferSize, workers int, store jobs.JobStore) *Queue {
	if workers < 1 {
		workers = 1
	}
	return &Queue{
		jobChan:   make(chan *jobs.AssessTransactionJob, bufferSize),
		closeChan: make(chan struct{}),
		store:     store,
		inFlight:  make(map[string]string),
		workers:   workers,
	}
}

// Publish enqueues an assessment job. It returns jobs.ErrAlreadyInFlight
// when the transaction already has a queued or running job.
func (q *Queue) Publish(ctx context.Context, job *jobs.AssessTransactionJob) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return fmt.Errorf("queue is closed")
	}
	if _, busy := q.inFlight[job.TransactionID]; busy {
		q.mu.Unlock()
		return jobs.ErrAlreadyInFlight
	}

	if job.JobID == "" {
		job.JobID = uuid.New().String()
	}
	if job.Status == "" {
		job.Status = jobs.StatusQueued
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	q.inFlight[job.TransactionID] = job.JobID
	q.mu.Unlock()

	if q.store != nil {
		if err := q.store.Save(ctx, job); err != nil {
			q.release(job.TransactionID)
			return fmt.Errorf("failed to save job: %w", err)
		}
	}

	select {
	case q.jobChan <- job:
		return nil
	case <-ctx.Done():
		q.release(job.TransactionID)
		return ctx.Err()
	case <-q.closeChan:
		q.release(job.TransactionID)
		return fmt.Errorf("queue is closed")
	}
}

// InFlight reports whether the transaction has a queued or running job.
func (q *Queue) InFlight(transactionID string) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	_, busy := q.inFlight[transactionID]
	return busy
}

func (q *Queue) release(transactionID string) {
	q.mu.Lock()
	delete(q.inFlight, transactionID)
	q.mu.Unlock()
}

// Start launches the worker pool. Workers run until ctx is cancelled or the
// queue is stopped.
func (q *Queue) Start(ctx context.Context, handler jobs.Handler) error {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return fmt.Errorf("queue is closed")
	}
	q.mu.RUnlock()

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, handler)
	}

	return nil
}

func (q *Queue) worker(ctx context.Context, handler jobs.Handler) {
	defer q.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-q.closeChan:
			return
		case job := <-q.jobChan:
			if job == nil {
				return
			}

			q.processJob(ctx, job, handler)
		}
	}
}

// processJob runs one job through the handler and records the outcome.
func (q *Queue) processJob(ctx context.Context, job *jobs.AssessTransactionJob, handler jobs.Handler) {
	defer q.release(job.TransactionID)

	job.Status = jobs.StatusRunning
	now := time.Now()
	job.StartedAt = &now

	if q.store != nil {
		_ = q.store.Save(ctx, job)
	}

	err := handler(ctx, job)

	completedAt := time.Now()
	job.CompletedAt = &completedAt

	if err != nil {
		job.Status = jobs.StatusFailed
		job.Error = err.Error()
	} else {
		job.Status = jobs.StatusCompleted
		job.Error = ""
	}

	if q.store != nil {
		_ = q.store.Save(ctx, job)
	}
}

// Stop stops the queue and waits for in-flight jobs to complete or ctx to
// expire.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.closeChan)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close implements the Publisher interface.
func (q *Queue) Close() error {
	return q.Stop(context.Background())
}

// Ensure Queue implements the Publisher interface.
var _ jobs.Publisher = (*Queue)(nil)
