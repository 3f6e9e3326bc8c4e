// Package metrics registers the Prometheus instruments for the assessment
// path. Everything is registered once on the default registry and exposed
// through /metrics.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "auditguard_"

// Assessment outcomes recorded on the counter.
const (
	OutcomeOK        = "ok"
	OutcomeEmpty     = "empty_response"
	OutcomeMalformed = "malformed_response"
	OutcomeTransport = "transport"
)

var (
	registerOnce sync.Once

	assessmentsTotal  *prometheus.CounterVec
	assessmentLatency *prometheus.HistogramVec
	decisionsTotal    *prometheus.CounterVec
	pendingGauge      prometheus.GaugeFunc
)

// Init registers the instruments. pendingFn reports the current number of
// PENDING transactions and is sampled on scrape.
func Init(pendingFn func() float64) {
	registerOnce.Do(func() {
		assessmentsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "assessments_total",
				Help: "Total risk assessments by outcome and risk level",
			},
			[]string{"outcome", "level"},
		)
		assessmentLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "assessment_latency_seconds",
				Help:    "Risk assessment latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		)
		decisionsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "decisions_total",
				Help: "Total audit decisions by outcome",
			},
			[]string{"decision"},
		)
		pendingGauge = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: metricPrefix + "pending_transactions",
				Help: "Transactions currently awaiting an audit decision",
			},
			pendingFn,
		)

		prometheus.MustRegister(
			assessmentsTotal,
			assessmentLatency,
			decisionsTotal,
			pendingGauge,
		)
	})
}

// ObserveAssessment records one scoring invocation. level is empty for
// failures.
func ObserveAssessment(outcome, level string, elapsed time.Duration) {
	if assessmentsTotal == nil {
		return
	}
	assessmentsTotal.WithLabelValues(outcome, level).Inc()
	assessmentLatency.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// ObserveDecision records one approve/reject decision.
func ObserveDecision(decision string) {
	if decisionsTotal == nil {
		return
	}
	decisionsTotal.WithLabelValues(decision).Inc()
}
