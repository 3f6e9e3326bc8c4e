// Package audit defines the transaction and risk-assessment domain model
// shared by the store, the risk adapter, and the API layer.
package audit

import (
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Status is the audit decision state of a transaction.
type Status string

const (
	// StatusPending indicates the transaction awaits an auditor decision.
	StatusPending Status = "PENDING"
	// StatusApproved indicates the auditor approved the transaction.
	StatusApproved Status = "APPROVED"
	// StatusRejected indicates the auditor rejected the transaction.
	StatusRejected Status = "REJECTED"
)

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// RiskLevel is the categorical risk verdict produced by the scoring model.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Valid reports whether l is one of the three known risk levels.
func (l RiskLevel) Valid() bool {
	switch l {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// Decision errors returned by Transaction.Decide.
var (
	// ErrInvalidDecision is returned when the requested decision is not
	// APPROVED or REJECTED.
	ErrInvalidDecision = errors.New("decision must be APPROVED or REJECTED")

	// ErrAlreadyDecided is returned when a conflicting decision is applied
	// to a transaction that already left the PENDING state.
	ErrAlreadyDecided = errors.New("transaction has already been decided")
)

// RiskAssessment is the structured output of one scoring invocation.
// Field names on the wire match the dashboard frontend contract.
type RiskAssessment struct {
	// Score is the model's risk score, 0 (no risk) to 100 (highest risk).
	Score float64 `json:"risk_score"`

	// Level is the categorical risk verdict.
	Level RiskLevel `json:"risk_level"`

	// AnomalyFlag is true when the transaction deviates significantly from
	// the historical pattern of its category.
	AnomalyFlag bool `json:"anomaly_flag"`

	// Summary is a brief professional justification for the score.
	Summary string `json:"analysis_summary"`

	// ComplianceConcerns lists specific compliance tags, e.g.
	// "QuantitativeVariance" or "PolicyViolation". Order is preserved for
	// display only.
	ComplianceConcerns []string `json:"compliance_concern"`

	// GeneratedAt records when the assessment was produced.
	GeneratedAt time.Time `json:"generated_at,omitzero"`
}

// Validate checks the assessment against the response contract: the level
// must be a known enum value and the score must fall within [0, 100].
func (a *RiskAssessment) Validate() error {
	if !a.Level.Valid() {
		return fmt.Errorf("risk_level %q is not one of LOW, MEDIUM, HIGH", a.Level)
	}
	if a.Score < 0 || a.Score > 100 {
		return fmt.Errorf("risk_score %v is outside [0, 100]", a.Score)
	}
	return nil
}

// Transaction is one financial ledger entry awaiting or having received an
// audit decision. All fields except Status and Assessment are immutable
// after seeding.
type Transaction struct {
	// ID is the opaque internal identifier, unique within a session.
	ID string `json:"id"`

	// ExternalRef is the source-system identifier (ERP UUID).
	ExternalRef string `json:"transaction_id"`

	Title       string `json:"title"`
	Description string `json:"description"`

	// Amount is the transaction value in whole IDR.
	Amount int64 `json:"amount_idr"`

	Category string     `json:"category"`
	Date     civil.Date `json:"date"`

	// HistoricalAverage is the category's historical mean amount in whole
	// IDR, supplied as reasoning context for the scoring model.
	HistoricalAverage int64 `json:"historical_average"`

	// MaterialityThreshold is the amount in whole IDR above which the
	// transaction is considered material.
	MaterialityThreshold int64 `json:"materiality_threshold"`

	Status Status `json:"status"`

	// Assessment is nil until a scoring invocation succeeds. A later
	// successful re-assessment replaces it wholesale; a failed one leaves
	// it untouched.
	Assessment *RiskAssessment `json:"ai_analysis,omitempty"`
}

// WithAssessment returns a copy of t carrying the given assessment. The
// decision status is never changed by an assessment.
func (t Transaction) WithAssessment(a *RiskAssessment) Transaction {
	t.Assessment = a
	return t
}

// Decide returns a copy of t with the decision applied. Only PENDING
// transactions transition; repeating the decision a transaction already has
// is a no-op, while a conflicting decision on a decided transaction returns
// ErrAlreadyDecided.
func (t Transaction) Decide(decision Status) (Transaction, error) {
	if decision != StatusApproved && decision != StatusRejected {
		return t, fmt.Errorf("%w: got %q", ErrInvalidDecision, decision)
	}
	if t.Status == decision {
		return t, nil
	}
	if t.Status != StatusPending {
		return t, fmt.Errorf("%w: %s is %s", ErrAlreadyDecided, t.ID, t.Status)
	}
	t.Status = decision
	return t, nil
}

// Material reports whether the amount exceeds the materiality threshold.
// Display helper only; the scoring model makes its own judgment.
func (t Transaction) Material() bool {
	return t.Amount > t.MaterialityThreshold
}
