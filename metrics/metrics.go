// Package metrics provides Prometheus observability metrics for the abandon
// analyzer. It includes Critical and Important metrics for business and
// operational visibility.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// =============================================================================
// CRITICAL METRICS - Business Impact Visibility
// =============================================================================

// ValidCalls tracks the number of valid inbound calls in the last run.
var ValidCalls = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "analysis",
	Name:      "valid_calls",
	Help:      "Inbound records with a parseable phone and call time",
})

// AnsweredCalls tracks answered inbound calls in the last run.
var AnsweredCalls = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "analysis",
	Name:      "answered_calls",
	Help:      "Valid inbound calls answered by an agent",
})

// HungupCalls tracks hungup inbound calls in the last run.
var HungupCalls = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "analysis",
	Name:      "hungup_calls",
	Help:      "Valid inbound calls where the caller hung up",
})

// QuickDrops tracks hungup calls within the quick-drop cutoff.
var QuickDrops = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "analysis",
	Name:      "quick_drops",
	Help:      "Hungup calls within the quick-drop cutoff, not counted as abandoned",
})

// AbandonCalls tracks true abandon calls. High values indicate queue
// staffing issues.
var AbandonCalls = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "analysis",
	Name:      "abandon_calls",
	Help:      "Hungup calls that waited past the quick-drop cutoff",
})

// UniqueAbandonPhones tracks distinct abandoning customers.
var UniqueAbandonPhones = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "analysis",
	Name:      "unique_abandon_phones",
	Help:      "Distinct phone numbers with at least one abandon call",
})

// RecoveredPhones tracks abandoning customers later reached successfully.
var RecoveredPhones = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "analysis",
	Name:      "recovered_phones",
	Help:      "Abandoning phones with a later successful contact",
})

// NeedingOutboundPhones tracks customers still owed a callback.
var NeedingOutboundPhones = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "analysis",
	Name:      "needing_outbound_phones",
	Help:      "Abandoning phones without a successful contact, including attempted ones",
})

// AbandonmentRate tracks the net abandonment rate percentage.
var AbandonmentRate = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "analysis",
	Name:      "abandonment_rate_percent",
	Help:      "Abandon calls net of recovered customers as a percentage of valid calls",
})

// ConsistencyFailures tracks failed arithmetic self-checks. Any nonzero
// value means the computed metrics disagree with themselves.
var ConsistencyFailures = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "analysis",
	Name:      "consistency_failures",
	Help:      "Number of failed consistency checks over the computed summary",
})

// =============================================================================
// IMPORTANT METRICS - Operational Health
// =============================================================================

// QualityIssuesTotal tracks data quality issues by kind.
var QualityIssuesTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "analysis",
	Name:      "quality_issues_total",
	Help:      "Total data quality issues by kind",
}, []string{"kind"})

// RecordsReadTotal tracks records read per source log.
var RecordsReadTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "loader",
	Name:      "records_total",
	Help:      "Total records read per source log",
}, []string{"source"})

// LoadDurationSeconds tracks time to load an input file.
var LoadDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "loader",
	Name:      "duration_seconds",
	Help:      "Time taken to load a CSV input file",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
})

// StageDurationSeconds tracks time per analysis stage.
var StageDurationSeconds = factory.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "analysis",
	Name:      "stage_duration_seconds",
	Help:      "Time taken per analysis stage",
	Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
}, []string{"stage"})

// PhonesProcessed tracks abandoning phones resolved per run.
var PhonesProcessed = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "analysis",
	Name:      "phones_processed",
	Help:      "Number of abandoning phones resolved per run",
	Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
})

// =============================================================================
// Helper Functions
// =============================================================================

// ResetRunGauges resets all run gauges before a new analysis run.
// Call this at the start of analysis.Run.
func ResetRunGauges() {
	ValidCalls.Set(0)
	AnsweredCalls.Set(0)
	HungupCalls.Set(0)
	QuickDrops.Set(0)
	AbandonCalls.Set(0)
	UniqueAbandonPhones.Set(0)
	RecoveredPhones.Set(0)
	NeedingOutboundPhones.Set(0)
	AbandonmentRate.Set(0)
	ConsistencyFailures.Set(0)
}
