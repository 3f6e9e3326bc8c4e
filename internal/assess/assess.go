// Package assess runs assessment jobs: it invokes the risk adapter for a
// transaction and merges a successful verdict back into the store. Failures
// are surfaced on the job and never touch the stored record.
package assess

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pswandaru/auditguard/internal/jobs"
	"github.com/pswandaru/auditguard/internal/metrics"
	"github.com/pswandaru/auditguard/internal/risk"
	"github.com/pswandaru/auditguard/internal/store"
)

// DefaultTimeout bounds one scoring invocation. The adapter itself imposes
// no timeout; the deadline travels through ctx.
const DefaultTimeout = 90 * time.Second

// Service executes assessment jobs against the transaction store.
type Service struct {
	analyzer risk.Analyzer
	store    *store.Store
	timeout  time.Duration
	log      zerolog.Logger
}

// NewService creates an assessment service. timeout <= 0 selects
// DefaultTimeout.
func NewService(analyzer risk.Analyzer, st *store.Store, timeout time.Duration, log zerolog.Logger) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{
		analyzer: analyzer,
		store:    st,
		timeout:  timeout,
		log:      log,
	}
}

// Handle is the jobs.Handler for assessment jobs. On success it replaces
// the transaction in the store with a copy carrying the new assessment; the
// decision status is never changed. On failure the store is left untouched,
// so a previously valid assessment survives a failed re-assessment.
func (s *Service) Handle(ctx context.Context, job *jobs.AssessTransactionJob) error {
	tx, ok := s.store.Get(job.TransactionID)
	if !ok {
		return fmt.Errorf("transaction not found: %s", job.TransactionID)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	assessment, err := s.analyzer.Assess(ctx, tx)
	elapsed := time.Since(start)

	if err != nil {
		metrics.ObserveAssessment(outcomeFor(err), "", elapsed)
		s.log.Error().
			Err(err).
			Str("transaction_id", tx.ID).
			Str("job_id", job.JobID).
			Msg("Risk assessment failed")
		return err
	}

	metrics.ObserveAssessment(metrics.OutcomeOK, string(assessment.Level), elapsed)
	job.RiskLevel = string(assessment.Level)

	// Re-read before merging: the auditor may have decided the transaction
	// while the model was thinking, and the decision must survive.
	current, ok := s.store.Get(tx.ID)
	if !ok {
		return fmt.Errorf("transaction vanished during assessment: %s", tx.ID)
	}
	if !s.store.Replace(current.WithAssessment(assessment)) {
		return fmt.Errorf("transaction vanished during assessment: %s", tx.ID)
	}

	s.log.Info().
		Str("transaction_id", tx.ID).
		Str("job_id", job.JobID).
		Str("risk_level", string(assessment.Level)).
		Float64("risk_score", assessment.Score).
		Dur("elapsed", elapsed).
		Msg("Risk assessment merged")

	return nil
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, risk.ErrEmptyResponse):
		return metrics.OutcomeEmpty
	case errors.Is(err, risk.ErrMalformedResponse):
		return metrics.OutcomeMalformed
	default:
		return metrics.OutcomeTransport
	}
}
