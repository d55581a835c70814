package stats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abandon-analyzer/detect"
	"abandon-analyzer/models"
	"abandon-analyzer/recovery"
	"abandon-analyzer/stats"
)

var ref = time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

func record(phone, callTime, flag, wait string) models.CallRecord {
	return models.CallRecord{
		Source:         models.SourceInboundQueue,
		Phone:          phone,
		CallTime:       callTime,
		AnsweredHungup: flag,
		WaitTime:       wait,
	}
}

// fixture: 5 valid calls on 08-18 (2 abandons, 1 quick drop, 2 answered)
// plus one invalid-phone record.
func fixtureInbound() []models.CallRecord {
	return []models.CallRecord{
		record("5551234567", "08-18-2025 10:00:00 AM", models.FlagHungup, "00:00:45"),
		record("5559876543", "08-18-2025 10:30:00 AM", models.FlagHungup, "00:01:00"),
		record("5551112222", "08-18-2025 11:00:00 AM", models.FlagHungup, "00:00:20"),
		record("5553334444", "08-18-2025 11:30:00 AM", models.FlagAnswered, "00:00:05"),
		record("5555556666", "08-18-2025 12:00:00 PM", models.FlagAnswered, "00:00:10"),
		record("12345", "08-18-2025 12:30:00 PM", models.FlagAnswered, "00:00:10"),
	}
}

func TestComputeSummary(t *testing.T) {
	inbound := fixtureInbound()
	aggregates, _ := detect.Extract(inbound, ref)

	m, issues := stats.ComputeSummary(inbound, aggregates, ref)

	assert.Len(t, issues, 1) // the invalid phone
	assert.Equal(t, 5, m.ValidCalls)
	assert.Equal(t, 2, m.Answered)
	assert.Equal(t, 3, m.Hungup)
	assert.Equal(t, 1, m.QuickDrops)
	assert.Equal(t, 2, m.AbandonCalls)
	assert.Equal(t, 2, m.UniqueAbandonPhones)
	assert.Equal(t, 0, m.RecoveredPhones)
	assert.Equal(t, 2, m.NeedingOutbound)
	// (2 - 0) / 5 * 100
	assert.Equal(t, 40.0, m.AbandonmentRate)
}

func TestComputeSummaryIdentities(t *testing.T) {
	inbound := fixtureInbound()
	aggregates, _ := detect.Extract(inbound, ref)
	m, _ := stats.ComputeSummary(inbound, aggregates, ref)

	assert.Equal(t, m.ValidCalls, m.Answered+m.Hungup)
	assert.Equal(t, m.Hungup, m.QuickDrops+m.AbandonCalls)
	assert.Equal(t, m.UniqueAbandonPhones, m.RecoveredPhones+m.NeedingOutbound)
	assert.GreaterOrEqual(t, m.AbandonmentRate, 0.0)
	assert.LessOrEqual(t, m.AbandonmentRate, 100.0)
}

func TestComputeSummaryRecoveryLowersRate(t *testing.T) {
	inbound := fixtureInbound()
	// 5551234567 is reached an hour after abandoning, with a successful
	// disposition.
	inbound = append(inbound, models.CallRecord{
		Source:         models.SourceInboundQueue,
		Phone:          "5551234567",
		CallTime:       "08-18-2025 11:00:00 AM",
		AnsweredHungup: models.FlagAnswered,
		Disposition:    "MI",
	})

	aggregates, _ := detect.Extract(inbound, ref)
	recovery.Match(aggregates, inbound, nil, ref)
	m, _ := stats.ComputeSummary(inbound, aggregates, ref)

	assert.Equal(t, 6, m.ValidCalls)
	assert.Equal(t, 1, m.RecoveredPhones)
	assert.Equal(t, 1, m.NeedingOutbound)
	// (2 abandons - 1 recovered abandon) / 6 valid * 100 = 16.7
	assert.Equal(t, 16.7, m.AbandonmentRate)
}

func TestComputeSummaryEmptyInput(t *testing.T) {
	m, issues := stats.ComputeSummary(nil, models.AggregateMap{}, ref)

	assert.Empty(t, issues)
	assert.Equal(t, models.SummaryMetrics{}, m)
}

func TestComputeSummaryStaleTimestampExcluded(t *testing.T) {
	inbound := []models.CallRecord{
		record("5551234567", "08-18-2022 10:00:00 AM", models.FlagHungup, "00:00:45"),
	}
	aggregates, _ := detect.Extract(inbound, ref)

	m, issues := stats.ComputeSummary(inbound, aggregates, ref)

	assert.Len(t, issues, 1)
	assert.Equal(t, 0, m.ValidCalls)
	assert.Equal(t, 0.0, m.AbandonmentRate)
}

func TestComputeDaily(t *testing.T) {
	inbound := []models.CallRecord{
		record("5551234567", "08-18-2025 10:00:00 AM", models.FlagHungup, "00:00:45"),
		record("5559876543", "08-18-2025 11:00:00 AM", models.FlagAnswered, "00:00:05"),
		record("5551112222", "08-19-2025 10:00:00 AM", models.FlagHungup, "00:00:20"),
		// Before 6AM: belongs to the 08-19 business day.
		record("5553334444", "08-20-2025 02:00:00 AM", models.FlagAnswered, "00:00:05"),
	}
	aggregates, _ := detect.Extract(inbound, ref)

	daily, issues := stats.ComputeDaily(inbound, aggregates, ref)

	assert.Empty(t, issues)
	require.Len(t, daily, 2)

	assert.Equal(t, time.Date(2025, 8, 18, 0, 0, 0, 0, time.UTC), daily[0].Date)
	assert.Equal(t, 2, daily[0].ValidCalls)
	assert.Equal(t, 1, daily[0].AbandonCalls)
	assert.Equal(t, 1, daily[0].UniqueAbandonPhones)
	assert.Equal(t, 50.0, daily[0].AbandonmentRate)

	assert.Equal(t, time.Date(2025, 8, 19, 0, 0, 0, 0, time.UTC), daily[1].Date)
	assert.Equal(t, 2, daily[1].ValidCalls)
	assert.Equal(t, 1, daily[1].QuickDrops)
	assert.Equal(t, 0, daily[1].UniqueAbandonPhones)
}

func TestComputeDailyFirstAbandonCohort(t *testing.T) {
	// The same phone abandons on two business dates: the phone figures
	// attribute it to the earlier date only.
	inbound := []models.CallRecord{
		record("5551234567", "08-18-2025 10:00:00 AM", models.FlagHungup, "00:00:45"),
		record("5551234567", "08-19-2025 10:00:00 AM", models.FlagHungup, "00:00:50"),
	}
	aggregates, _ := detect.Extract(inbound, ref)

	daily, _ := stats.ComputeDaily(inbound, aggregates, ref)
	require.Len(t, daily, 2)

	assert.Equal(t, 1, daily[0].UniqueAbandonPhones)
	assert.Equal(t, 0, daily[1].UniqueAbandonPhones)
	assert.Equal(t, 1, daily[1].AbandonCalls)
}

func TestValidate(t *testing.T) {
	tests := map[string]struct {
		summary      models.SummaryMetrics
		expectedFail []string
	}{
		"ConsistentSummary": {
			summary: models.SummaryMetrics{
				ValidCalls: 10, Answered: 6, Hungup: 4,
				QuickDrops: 1, AbandonCalls: 3,
				UniqueAbandonPhones: 2, RecoveredPhones: 1, NeedingOutbound: 1,
				AbandonmentRate: 20.0,
			},
		},
		"ZeroValueSummaryPasses": {
			summary: models.SummaryMetrics{},
		},
		"CallSplitMismatch": {
			summary: models.SummaryMetrics{
				ValidCalls: 10, Answered: 6, Hungup: 3,
				QuickDrops: 1, AbandonCalls: 2,
			},
			expectedFail: []string{"answered + hungup = valid calls"},
		},
		"PhoneSplitMismatch": {
			summary: models.SummaryMetrics{
				UniqueAbandonPhones: 3, RecoveredPhones: 1, NeedingOutbound: 1,
			},
			expectedFail: []string{"recovered + needing outbound = unique abandon phones"},
		},
		"RateOutOfBounds": {
			summary: models.SummaryMetrics{
				AbandonmentRate: 120.0,
			},
			expectedFail: []string{"abandonment rate within [0, 100]"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			checks := stats.Validate(tc.summary)
			require.Len(t, checks, 4)

			var failed []string
			for _, check := range checks {
				if !check.Passed {
					failed = append(failed, check.Name)
					assert.Contains(t, check.Message, "FAIL")
				} else {
					assert.Contains(t, check.Message, "PASS")
				}
			}
			assert.Equal(t, tc.expectedFail, failed)
		})
	}
}
