package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/pswandaru/auditguard/internal/jobs"
)

// Store is an in-memory implementation of jobs.JobStore. It is safe for
// concurrent use; job history is lost on restart along with the rest of the
// session state.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*jobs.AssessTransactionJob
}

// NewStore creates a new in-memory job store.
func NewStore() *Store {
	return &Store{
		jobs: make(map[string]*jobs.AssessTransactionJob),
	}
}

// Save stores or updates a job.
func (s *Store) Save(ctx context.Context, job *jobs.AssessTransactionJob) error {
	if job.JobID == "" {
		return fmt.Errorf("job ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy to shield the stored version from later mutation by the caller.
	jobCopy := *job
	s.jobs[job.JobID] = &jobCopy

	return nil
}

// Get retrieves a job by ID.
func (s *Store) Get(ctx context.Context, jobID string) (*jobs.AssessTransactionJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}

	jobCopy := *job
	return &jobCopy, nil
}

// List retrieves jobs matching the filter, newest first.
func (s *Store) List(ctx context.Context, filter jobs.Filter) ([]*jobs.AssessTransactionJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*jobs.AssessTransactionJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		if filter.TransactionID != "" && job.TransactionID != filter.TransactionID {
			continue
		}
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		jobCopy := *job
		result = append(result, &jobCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}

	return result, nil
}

// Ensure Store implements the JobStore interface.
var _ jobs.JobStore = (*Store)(nil)
