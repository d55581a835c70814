// Package analysis orchestrates the full classification pipeline: abandon
// detection, recovery matching, metrics aggregation, and the consistency
// checks, assembled into a single Result per run.
package analysis

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"abandon-analyzer/detect"
	"abandon-analyzer/errors"
	"abandon-analyzer/metrics"
	"abandon-analyzer/models"
	"abandon-analyzer/recovery"
	"abandon-analyzer/stats"
)

// Result is everything one run produces: the business figures, the
// per-customer aggregates, the daily breakdown, the consistency verdicts,
// and the structured quality issues collected along the way. Issues travel
// with the result instead of living on shared state.
type Result struct {
	RunID      string                `json:"run_id"`
	Summary    models.SummaryMetrics `json:"summary"`
	Aggregates models.AggregateMap   `json:"aggregates"`
	Daily      []models.DailyMetrics `json:"daily"`
	Checks     []models.CheckResult  `json:"checks"`
	Issues     []errors.Issue        `json:"issues,omitempty"`
}

// Analyzer runs the pipeline with an injected logger. The core packages it
// drives are pure; logging and instrumentation happen here.
type Analyzer struct {
	logger zerolog.Logger
}

// New creates an Analyzer logging through the given logger.
func New(logger zerolog.Logger) *Analyzer {
	return &Analyzer{logger: logger}
}

// Run executes the pipeline over both logs. now anchors the timestamp
// sanity window; passing a fixed time makes a run reproducible. An empty
// inbound collection is reported as an EmptyDataset issue and still yields
// complete zero-valued outputs.
func (a *Analyzer) Run(inbound, outbound []models.CallRecord, now time.Time) *Result {
	metrics.ResetRunGauges()

	result := &Result{RunID: uuid.NewString()}
	logger := a.logger.With().Str("run_id", result.RunID).Logger()

	logger.Info().
		Int("inbound_records", len(inbound)).
		Int("outbound_records", len(outbound)).
		Msg("starting analysis run")

	if len(inbound) == 0 {
		result.Issues = append(result.Issues, errors.NewIssue(errors.ErrEmptyDataset))
		logger.Warn().Msg("inbound log is empty")
	}

	start := time.Now()
	aggregates, issues := detect.Extract(inbound, now)
	result.Aggregates = aggregates
	result.Issues = append(result.Issues, issues...)
	observeStage("detect", start)
	logger.Info().
		Int("abandon_phones", len(aggregates)).
		Int("issues", len(issues)).
		Msg("abandon detection complete")

	start = time.Now()
	issues = recovery.Match(aggregates, inbound, outbound, now)
	result.Issues = append(result.Issues, issues...)
	observeStage("recovery", start)
	metrics.PhonesProcessed.Observe(float64(len(aggregates)))
	logger.Info().
		Int("issues", len(issues)).
		Msg("recovery matching complete")

	start = time.Now()
	summary, issues := stats.ComputeSummary(inbound, aggregates, now)
	result.Summary = summary
	result.Issues = append(result.Issues, issues...)

	daily, issues := stats.ComputeDaily(inbound, aggregates, now)
	result.Daily = daily
	result.Issues = append(result.Issues, issues...)
	observeStage("stats", start)

	result.Checks = stats.Validate(summary)

	a.publish(logger, result)
	return result
}

// publish pushes the run's figures to the Prometheus gauges and logs the
// final summary, including any failed consistency checks.
func (a *Analyzer) publish(logger zerolog.Logger, result *Result) {
	m := result.Summary
	metrics.ValidCalls.Set(float64(m.ValidCalls))
	metrics.AnsweredCalls.Set(float64(m.Answered))
	metrics.HungupCalls.Set(float64(m.Hungup))
	metrics.QuickDrops.Set(float64(m.QuickDrops))
	metrics.AbandonCalls.Set(float64(m.AbandonCalls))
	metrics.UniqueAbandonPhones.Set(float64(m.UniqueAbandonPhones))
	metrics.RecoveredPhones.Set(float64(m.RecoveredPhones))
	metrics.NeedingOutboundPhones.Set(float64(m.NeedingOutbound))
	metrics.AbandonmentRate.Set(m.AbandonmentRate)

	failed := 0
	for _, check := range result.Checks {
		if !check.Passed {
			failed++
			logger.Warn().Str("check", check.Name).Msg(check.Message)
		}
	}
	metrics.ConsistencyFailures.Set(float64(failed))

	for kind, count := range errors.CountByKind(result.Issues) {
		metrics.QualityIssuesTotal.WithLabelValues(string(kind)).Add(float64(count))
		logger.Info().
			Str("kind", string(kind)).
			Int("count", count).
			Msg("data quality issues")
	}
	for _, issue := range result.Issues {
		logger.Debug().Str("kind", string(issue.Kind)).Msg(issue.Detail)
	}

	logger.Info().
		Int("valid_calls", m.ValidCalls).
		Int("abandon_calls", m.AbandonCalls).
		Int("unique_abandon_phones", m.UniqueAbandonPhones).
		Int("recovered_phones", m.RecoveredPhones).
		Int("needing_outbound", m.NeedingOutbound).
		Float64("abandonment_rate", m.AbandonmentRate).
		Int("failed_checks", failed).
		Msg("analysis run complete")
}

func observeStage(stage string, start time.Time) {
	metrics.StageDurationSeconds.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
