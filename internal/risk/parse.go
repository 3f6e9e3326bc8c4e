package risk

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pswandaru/auditguard/internal/audit"
)

// rawAssessment mirrors the model's response schema. Pointer fields let
// parseAssessment tell a missing required field from a zero value; unknown
// extra fields are ignored by the decoder.
type rawAssessment struct {
	Score              *float64  `json:"risk_score"`
	Level              *string   `json:"risk_level"`
	AnomalyFlag        *bool     `json:"anomaly_flag"`
	Summary            *string   `json:"analysis_summary"`
	ComplianceConcerns *[]string `json:"compliance_concern"`
}

// parseAssessment validates the raw model payload field by field and maps it
// to the domain type. Anything short of the exact contract is rejected as
// ErrMalformedResponse rather than trusted.
func parseAssessment(payload string, now time.Time) (*audit.RiskAssessment, error) {
	var raw rawAssessment
	if err := json.Unmarshal([]byte(cleanModelJSON(payload)), &raw); err != nil {
		return nil, malformedErr(fmt.Errorf("decode JSON: %w", err))
	}

	var missing []string
	if raw.Score == nil {
		missing = append(missing, "risk_score")
	}
	if raw.Level == nil {
		missing = append(missing, "risk_level")
	}
	if raw.AnomalyFlag == nil {
		missing = append(missing, "anomaly_flag")
	}
	if raw.Summary == nil {
		missing = append(missing, "analysis_summary")
	}
	if raw.ComplianceConcerns == nil {
		missing = append(missing, "compliance_concern")
	}
	if len(missing) > 0 {
		return nil, malformedErr(fmt.Errorf("missing required fields: %s", strings.Join(missing, ", ")))
	}

	a := &audit.RiskAssessment{
		Score:              *raw.Score,
		Level:              audit.RiskLevel(*raw.Level),
		AnomalyFlag:        *raw.AnomalyFlag,
		Summary:            *raw.Summary,
		ComplianceConcerns: *raw.ComplianceConcerns,
		GeneratedAt:        now,
	}
	if err := a.Validate(); err != nil {
		return nil, malformedErr(err)
	}
	return a, nil
}

// cleanModelJSON strips Markdown code fences and surrounding junk that the
// model occasionally emits despite the JSON response mode, keeping only the
// outermost object.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
