package audit

import (
	"errors"
	"testing"
)

func TestStatusValid(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusPending, true},
		{StatusApproved, true},
		{StatusRejected, true},
		{Status("pending"), false},
		{Status("CANCELLED"), false},
		{Status(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRiskLevelValid(t *testing.T) {
	tests := []struct {
		level RiskLevel
		want  bool
	}{
		{RiskLow, true},
		{RiskMedium, true},
		{RiskHigh, true},
		{RiskLevel("high"), false},
		{RiskLevel("CRITICAL"), false},
		{RiskLevel(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			if got := tt.level.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRiskAssessmentValidate(t *testing.T) {
	tests := []struct {
		name    string
		a       RiskAssessment
		wantErr bool
	}{
		{
			name: "valid high",
			a:    RiskAssessment{Score: 88, Level: RiskHigh},
		},
		{
			name: "valid bounds",
			a:    RiskAssessment{Score: 0, Level: RiskLow},
		},
		{
			name: "valid upper bound",
			a:    RiskAssessment{Score: 100, Level: RiskHigh},
		},
		{
			name:    "unknown level",
			a:       RiskAssessment{Score: 50, Level: RiskLevel("SEVERE")},
			wantErr: true,
		},
		{
			name:    "negative score",
			a:       RiskAssessment{Score: -1, Level: RiskLow},
			wantErr: true,
		},
		{
			name:    "score above 100",
			a:       RiskAssessment{Score: 101, Level: RiskHigh},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.a.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTransactionDecide(t *testing.T) {
	pending := Transaction{ID: "t1", Status: StatusPending}

	approved, err := pending.Decide(StatusApproved)
	if err != nil {
		t.Fatalf("Decide(APPROVED) returned error: %v", err)
	}
	if approved.Status != StatusApproved {
		t.Errorf("status = %s, want APPROVED", approved.Status)
	}
	if pending.Status != StatusPending {
		t.Errorf("Decide mutated the receiver: %s", pending.Status)
	}

	// Repeating the same decision is idempotent.
	again, err := approved.Decide(StatusApproved)
	if err != nil {
		t.Fatalf("second Decide(APPROVED) returned error: %v", err)
	}
	if again.Status != StatusApproved {
		t.Errorf("status after repeat = %s, want APPROVED", again.Status)
	}

	// A conflicting decision on a decided transaction is rejected.
	if _, err := approved.Decide(StatusRejected); !errors.Is(err, ErrAlreadyDecided) {
		t.Errorf("Decide(REJECTED) on approved = %v, want ErrAlreadyDecided", err)
	}

	// PENDING is never a decision.
	if _, err := pending.Decide(StatusPending); !errors.Is(err, ErrInvalidDecision) {
		t.Errorf("Decide(PENDING) = %v, want ErrInvalidDecision", err)
	}
	if _, err := pending.Decide(Status("MAYBE")); !errors.Is(err, ErrInvalidDecision) {
		t.Errorf("Decide(MAYBE) = %v, want ErrInvalidDecision", err)
	}
}

func TestWithAssessmentKeepsStatus(t *testing.T) {
	tx := Transaction{ID: "t1", Status: StatusPending}
	a := &RiskAssessment{Score: 88, Level: RiskHigh, AnomalyFlag: true}

	updated := tx.WithAssessment(a)

	if updated.Status != StatusPending {
		t.Errorf("status = %s, want PENDING (assessment alone never changes status)", updated.Status)
	}
	if updated.Assessment != a {
		t.Error("assessment was not attached")
	}
	if tx.Assessment != nil {
		t.Error("WithAssessment mutated the receiver")
	}
}

func TestMaterial(t *testing.T) {
	tests := []struct {
		name      string
		amount    int64
		threshold int64
		want      bool
	}{
		{"above", 50_000_000, 10_000_000, true},
		{"equal", 10_000_000, 10_000_000, false},
		{"below", 3_000_000, 10_000_000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := Transaction{Amount: tt.amount, MaterialityThreshold: tt.threshold}
			if got := tx.Material(); got != tt.want {
				t.Errorf("Material() = %v, want %v", got, tt.want)
			}
		})
	}
}
