// Package handlers implements the HTTP endpoints of the audit dashboard API.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/pswandaru/auditguard/internal/api/middleware"
	"github.com/pswandaru/auditguard/internal/audit"
	"github.com/pswandaru/auditguard/internal/jobs"
	"github.com/pswandaru/auditguard/internal/metrics"
	"github.com/pswandaru/auditguard/internal/report"
	"github.com/pswandaru/auditguard/internal/store"
)

// TransactionsHandler handles the transaction endpoints: listing, lookup,
// assessment triggering, and audit decisions.
type TransactionsHandler struct {
	store     *store.Store
	publisher jobs.Publisher
	log       zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(st *store.Store, publisher jobs.Publisher, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{
		store:     st,
		publisher: publisher,
		log:       log,
	}
}

// List handles GET /api/transactions. Records come back in insertion order,
// exactly as seeded.
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	txs := h.store.All()
	middleware.WriteJSON(w, http.StatusOK, txs)
}

// Get handles GET /api/transactions/{id}.
func (h *TransactionsHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	tx, ok := h.store.Get(id)
	if !ok {
		middleware.WriteError(w, http.StatusNotFound, "Transaction not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, tx)
}

// Assess handles POST /api/transactions/{id}/assess. It enqueues an
// assessment job and returns 202; a transaction with an outstanding job
// gets 409 until that job finishes.
func (h *TransactionsHandler) Assess(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := h.store.Get(id); !ok {
		middleware.WriteError(w, http.StatusNotFound, "Transaction not found")
		return
	}

	job := &jobs.AssessTransactionJob{TransactionID: id}
	if err := h.publisher.Publish(r.Context(), job); err != nil {
		if errors.Is(err, jobs.ErrAlreadyInFlight) {
			middleware.WriteError(w, http.StatusConflict, "Assessment already in progress for this transaction")
			return
		}
		h.log.Error().Err(err).Str("transaction_id", id).Msg("Failed to enqueue assessment")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue assessment")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("transaction_id", id).Msg("Assessment job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id":         job.JobID,
		"transaction_id": id,
		"status":         string(job.Status),
	})
}

// Decide handles POST /api/transactions/{id}/decision with body
// {"decision": "APPROVED"} or {"decision": "REJECTED"}. Repeating the
// decision a transaction already has is idempotent; a conflicting decision
// on a decided transaction is 409.
func (h *TransactionsHandler) Decide(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		Decision audit.Status `json:"decision"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	decided, changed, err := h.store.Decide(id, req.Decision)
	switch {
	case errors.Is(err, store.ErrNotFound):
		middleware.WriteError(w, http.StatusNotFound, "Transaction not found")
		return
	case errors.Is(err, audit.ErrInvalidDecision):
		middleware.WriteError(w, http.StatusBadRequest, "decision must be APPROVED or REJECTED")
		return
	case errors.Is(err, audit.ErrAlreadyDecided):
		middleware.WriteError(w, http.StatusConflict, fmt.Sprintf("Transaction already %s", decided.Status))
		return
	case err != nil:
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to apply decision")
		return
	}

	if changed {
		metrics.ObserveDecision(string(decided.Status))
		h.log.Info().
			Str("transaction_id", id).
			Str("decision", string(decided.Status)).
			Msg("Audit decision recorded")
	}

	middleware.WriteJSON(w, http.StatusOK, decided)
}

// DashboardHandler serves the derived aggregate views.
type DashboardHandler struct {
	store *store.Store
	log   zerolog.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(st *store.Store, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{store: st, log: log}
}

// Summary handles GET /api/dashboard. The views are recomputed from the
// current records on every call.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, h.store.Summarize())
}

// ReportsHandler serves downloadable audit reports.
type ReportsHandler struct {
	store *store.Store
	log   zerolog.Logger
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(st *store.Store, log zerolog.Logger) *ReportsHandler {
	return &ReportsHandler{store: st, log: log}
}

// XLSX handles GET /api/reports/audit.xlsx.
func (h *ReportsHandler) XLSX(w http.ResponseWriter, r *http.Request) {
	data, err := report.BuildXLSX(h.store.Summarize(), h.store.All(), time.Now())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build XLSX report")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to build report")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="audit.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// PDF handles GET /api/reports/audit.pdf.
func (h *ReportsHandler) PDF(w http.ResponseWriter, r *http.Request) {
	data, err := report.BuildPDF(h.store.Summarize(), h.store.All(), time.Now())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build PDF report")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to build report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="audit.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// JobsHandler handles assessment job lookups.
type JobsHandler struct {
	store jobs.JobStore
	log   zerolog.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(store jobs.JobStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{store: store, log: log}
}

// Get handles GET /api/jobs/{id}.
func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request, jobID string) {
	job, err := h.store.Get(r.Context(), jobID)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// List handles GET /api/jobs with optional transaction_id and status
// filters.
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := jobs.Filter{
		TransactionID: query.Get("transaction_id"),
		Status:        jobs.Status(query.Get("status")),
	}

	jobsList, err := h.store.List(r.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}
