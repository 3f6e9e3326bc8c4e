package risk

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/pswandaru/auditguard/internal/audit"
)

var now = time.Date(2025, 9, 30, 12, 0, 0, 0, time.UTC)

const validPayload = `{
	"risk_score": 88,
	"risk_level": "HIGH",
	"anomaly_flag": true,
	"analysis_summary": "Amount is 10x the category average and exceeds materiality.",
	"compliance_concern": ["QuantitativeVariance", "PolicyViolation"]
}`

func TestParseAssessmentValid(t *testing.T) {
	got, err := parseAssessment(validPayload, now)
	if err != nil {
		t.Fatalf("parseAssessment returned error: %v", err)
	}

	want := &audit.RiskAssessment{
		Score:              88,
		Level:              audit.RiskHigh,
		AnomalyFlag:        true,
		Summary:            "Amount is 10x the category average and exceeds materiality.",
		ComplianceConcerns: []string{"QuantitativeVariance", "PolicyViolation"},
		GeneratedAt:        now,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseAssessment = %+v, want %+v", got, want)
	}
}

func TestParseAssessmentExtraFieldsIgnored(t *testing.T) {
	payload := `{
		"risk_score": 12,
		"risk_level": "LOW",
		"anomaly_flag": false,
		"analysis_summary": "Routine expense.",
		"compliance_concern": [],
		"model_version": "v2",
		"confidence": 0.93
	}`

	got, err := parseAssessment(payload, now)
	if err != nil {
		t.Fatalf("parseAssessment returned error: %v", err)
	}
	if got.Level != audit.RiskLow || got.Score != 12 {
		t.Errorf("parsed %+v", got)
	}
	if got.ComplianceConcerns == nil || len(got.ComplianceConcerns) != 0 {
		t.Errorf("ComplianceConcerns = %#v, want empty slice", got.ComplianceConcerns)
	}
}

func TestParseAssessmentFencedPayload(t *testing.T) {
	fenced := "```json\n" + validPayload + "\n```"

	got, err := parseAssessment(fenced, now)
	if err != nil {
		t.Fatalf("parseAssessment returned error: %v", err)
	}
	if got.Level != audit.RiskHigh {
		t.Errorf("Level = %s, want HIGH", got.Level)
	}
}

func TestParseAssessmentMalformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not JSON", "the transaction looks risky to me"},
		{"truncated JSON", `{"risk_score": 88, "risk_level":`},
		{
			"missing risk_level",
			`{"risk_score": 88, "anomaly_flag": true, "analysis_summary": "x", "compliance_concern": []}`,
		},
		{
			"missing compliance_concern",
			`{"risk_score": 88, "risk_level": "HIGH", "anomaly_flag": true, "analysis_summary": "x"}`,
		},
		{
			"null required field",
			`{"risk_score": 88, "risk_level": "HIGH", "anomaly_flag": true, "analysis_summary": "x", "compliance_concern": null}`,
		},
		{
			"score as string",
			`{"risk_score": "88", "risk_level": "HIGH", "anomaly_flag": true, "analysis_summary": "x", "compliance_concern": []}`,
		},
		{
			"anomaly_flag as string",
			`{"risk_score": 88, "risk_level": "HIGH", "anomaly_flag": "yes", "analysis_summary": "x", "compliance_concern": []}`,
		},
		{
			"unknown risk level",
			`{"risk_score": 88, "risk_level": "SEVERE", "anomaly_flag": true, "analysis_summary": "x", "compliance_concern": []}`,
		},
		{
			"score out of range",
			`{"risk_score": 250, "risk_level": "HIGH", "anomaly_flag": true, "analysis_summary": "x", "compliance_concern": []}`,
		},
		{
			"negative score",
			`{"risk_score": -3, "risk_level": "LOW", "anomaly_flag": false, "analysis_summary": "x", "compliance_concern": []}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseAssessment(tt.payload, now)
			if !errors.Is(err, ErrMalformedResponse) {
				t.Errorf("parseAssessment error = %v, want ErrMalformedResponse", err)
			}
		})
	}
}

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced no language", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"leading prose", "Here is the result:\n{\"a\":1}", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}  \n", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanModelJSON(tt.raw); got != tt.want {
				t.Errorf("cleanModelJSON(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
