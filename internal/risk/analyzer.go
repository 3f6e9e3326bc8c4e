// Package risk adapts transactions into scoring requests for the Gemini
// model and turns its structured verdicts into domain assessments. The
// adapter never touches the transaction store; merging a successful result
// is the caller's job.
package risk

import (
	"context"
	"time"

	"google.golang.org/genai"

	"github.com/pswandaru/auditguard/internal/audit"
)

// DefaultModel is the Gemini model used for risk scoring.
const DefaultModel = "gemini-2.5-flash"

// scoringTemperature biases the model toward consistent, analytical output.
const scoringTemperature float32 = 0.1

// Analyzer produces a risk assessment for one transaction, or a failure
// tagged ErrEmptyResponse, ErrMalformedResponse, or ErrTransport.
type Analyzer interface {
	Assess(ctx context.Context, t audit.Transaction) (*audit.RiskAssessment, error)
}

// AnalyzerFunc adapts a plain function to the Analyzer interface.
type AnalyzerFunc func(ctx context.Context, t audit.Transaction) (*audit.RiskAssessment, error)

// Assess implements Analyzer.
func (f AnalyzerFunc) Assess(ctx context.Context, t audit.Transaction) (*audit.RiskAssessment, error) {
	return f(ctx, t)
}

// GeminiAnalyzer is the Analyzer implementation backed by the Gemini API.
type GeminiAnalyzer struct {
	apiKey string
	model  string
	now    func() time.Time
}

// Option configures a GeminiAnalyzer.
type Option func(*GeminiAnalyzer)

// WithModel overrides the scoring model name.
func WithModel(model string) Option {
	return func(a *GeminiAnalyzer) { a.model = model }
}

// NewGeminiAnalyzer creates an analyzer that scores transactions with the
// Gemini API. A missing or invalid apiKey surfaces as ErrTransport on the
// first Assess call, not here.
func NewGeminiAnalyzer(apiKey string, opts ...Option) *GeminiAnalyzer {
	a := &GeminiAnalyzer{
		apiKey: apiKey,
		model:  DefaultModel,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// responseSchema constrains the model to the five-field assessment contract.
func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"risk_score": {
				Type:        genai.TypeNumber,
				Description: "Risk score from 0 to 100 (100 is highest risk)",
			},
			"risk_level": {
				Type:        genai.TypeString,
				Enum:        []string{"LOW", "MEDIUM", "HIGH"},
				Description: "Categorical risk level",
			},
			"anomaly_flag": {
				Type:        genai.TypeBoolean,
				Description: "True if the transaction deviates significantly from patterns",
			},
			"analysis_summary": {
				Type:        genai.TypeString,
				Description: "Brief professional justification for the score (Max 2 sentences)",
			},
			"compliance_concern": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "List of specific compliance tags (e.g. 'QuantitativeVariance', 'PolicyViolation')",
			},
		},
		Required: []string{"risk_score", "risk_level", "anomaly_flag", "analysis_summary", "compliance_concern"},
	}
}

// Assess sends one scoring request to Gemini and returns the validated
// assessment. Every call is an independent invocation: results may differ
// between calls and a re-assessment replaces any prior result wholesale at
// the caller's discretion. Cancellation and deadlines come from ctx.
func (a *GeminiAnalyzer) Assess(ctx context.Context, t audit.Transaction) (*audit.RiskAssessment, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  a.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, transportErr(err)
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: buildPrompt(t)}},
		},
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
		Temperature:      genai.Ptr(scoringTemperature),
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(),
	}

	resp, err := client.Models.GenerateContent(ctx, a.model, contents, config)
	if err != nil {
		return nil, transportErr(err)
	}

	text := resp.Text()
	if text == "" {
		return nil, emptyErr()
	}

	return parseAssessment(text, a.now())
}
