// Package stats computes the whole-run and per-business-day business
// metrics from the inbound log and the resolved abandon aggregates.
package stats

import (
	"math"
	"sort"
	"time"

	"abandon-analyzer/errors"
	"abandon-analyzer/models"
	"abandon-analyzer/normalize"
)

// ComputeSummary tallies the global call figures and the per-phone
// resolution figures. A record counts as valid only when both its phone and
// its call time normalize; invalid records are excluded from every count
// and reported as issues. The outbound log never contributes here.
//
// The abandonment rate removes the abandon calls of recovered phones from
// the numerator: a customer who was reached afterwards no longer counts
// against the operation.
func ComputeSummary(inbound []models.CallRecord, aggregates models.AggregateMap, ref time.Time) (models.SummaryMetrics, []errors.Issue) {
	var m models.SummaryMetrics
	var issues []errors.Issue

	for _, rec := range inbound {
		if _, err := normalize.Phone(rec.Phone); err != nil {
			issues = append(issues, errors.NewIssue(err))
			continue
		}
		if _, err := normalize.Timestamp(rec.CallTime, ref); err != nil {
			issues = append(issues, errors.NewIssue(err))
			continue
		}

		m.ValidCalls++
		switch rec.AnsweredHungup {
		case models.FlagAnswered:
			m.Answered++
		case models.FlagHungup:
			m.Hungup++
			wait, err := normalize.DurationSeconds(rec.WaitTime)
			if err != nil {
				issues = append(issues, errors.NewIssue(err))
			}
			if wait <= models.QuickDropCutoffSeconds {
				m.QuickDrops++
			} else {
				m.AbandonCalls++
			}
		}
	}

	m.UniqueAbandonPhones = len(aggregates)
	recoveredCalls := 0
	for _, agg := range aggregates {
		if agg.Status == models.StatusRecovered {
			m.RecoveredPhones++
			recoveredCalls += agg.AbandonCount
		}
	}
	m.NeedingOutbound = m.UniqueAbandonPhones - m.RecoveredPhones
	m.AbandonmentRate = abandonmentRate(m.AbandonCalls, recoveredCalls, m.ValidCalls)

	return m, issues
}

// ComputeDaily groups the inbound log by business date and computes the
// summary shape per date. Phone figures are attributed to the business date
// of each phone's first abandon, so a multi-day repeat abandoner counts
// once, on the day the problem started. The list is ordered by date.
func ComputeDaily(inbound []models.CallRecord, aggregates models.AggregateMap, ref time.Time) ([]models.DailyMetrics, []errors.Issue) {
	days := make(map[time.Time]*models.DailyMetrics)
	var issues []errors.Issue

	for _, rec := range inbound {
		if _, err := normalize.Phone(rec.Phone); err != nil {
			issues = append(issues, errors.NewIssue(err))
			continue
		}
		callTime, err := normalize.Timestamp(rec.CallTime, ref)
		if err != nil {
			issues = append(issues, errors.NewIssue(err))
			continue
		}

		date := normalize.BusinessDate(callTime)
		day, ok := days[date]
		if !ok {
			day = &models.DailyMetrics{Date: date}
			days[date] = day
		}

		day.ValidCalls++
		switch rec.AnsweredHungup {
		case models.FlagAnswered:
			day.Answered++
		case models.FlagHungup:
			day.Hungup++
			wait, err := normalize.DurationSeconds(rec.WaitTime)
			if err != nil {
				issues = append(issues, errors.NewIssue(err))
			}
			if wait <= models.QuickDropCutoffSeconds {
				day.QuickDrops++
			} else {
				day.AbandonCalls++
			}
		}
	}

	type cohort struct {
		phones         int
		recovered      int
		recoveredCalls int
	}
	cohorts := make(map[time.Time]*cohort)
	for _, agg := range aggregates {
		c, ok := cohorts[agg.FirstAbandonDate]
		if !ok {
			c = &cohort{}
			cohorts[agg.FirstAbandonDate] = c
		}
		c.phones++
		if agg.Status == models.StatusRecovered {
			c.recovered++
			c.recoveredCalls += agg.AbandonCount
		}
	}

	result := make([]models.DailyMetrics, 0, len(days))
	for date, day := range days {
		if c, ok := cohorts[date]; ok {
			day.UniqueAbandonPhones = c.phones
			day.RecoveredPhones = c.recovered
			day.NeedingOutbound = c.phones - c.recovered
			day.AbandonmentRate = abandonmentRate(day.AbandonCalls, c.recoveredCalls, day.ValidCalls)
		}
		result = append(result, *day)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})

	return result, issues
}

// abandonmentRate is (abandon - recovered abandon) / valid * 100, rounded
// to one decimal place. Zero when there are no valid calls.
func abandonmentRate(abandonCalls, recoveredCalls, validCalls int) float64 {
	if validCalls == 0 {
		return 0
	}
	rate := float64(abandonCalls-recoveredCalls) / float64(validCalls) * 100
	return math.Round(rate*10) / 10
}
