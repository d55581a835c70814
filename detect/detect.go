// Package detect classifies inbound queue records into abandon events and
// groups them per customer phone number.
package detect

import (
	"time"

	"abandon-analyzer/errors"
	"abandon-analyzer/models"
	"abandon-analyzer/normalize"
)

// Extract scans the inbound queue log and builds one aggregate per distinct
// abandoning phone. A record is an abandon event iff its Answered/Hungup
// flag is HUNGUP and it waited longer than the quick-drop cutoff; answered
// calls and quick drops never enter an aggregate. Records whose phone or
// call time fail normalization are skipped and reported as issues.
//
// ref is the run's reference time for the timestamp sanity window. Input
// order only matters for tie-breaking which raw phone string is kept for
// display; the first-abandon fields always track the earliest event time
// even when the log arrives out of order.
func Extract(inbound []models.CallRecord, ref time.Time) (models.AggregateMap, []errors.Issue) {
	aggregates := make(models.AggregateMap)
	var issues []errors.Issue

	for _, rec := range inbound {
		phone, err := normalize.Phone(rec.Phone)
		if err != nil {
			issues = append(issues, errors.NewIssue(err))
			continue
		}
		callTime, err := normalize.Timestamp(rec.CallTime, ref)
		if err != nil {
			issues = append(issues, errors.NewIssue(err))
			continue
		}

		wait, err := normalize.DurationSeconds(rec.WaitTime)
		if err != nil {
			// A malformed wait reads as 0, so the record is classified as a
			// quick drop rather than dropped outright.
			issues = append(issues, errors.NewIssue(err))
		}

		if rec.AnsweredHungup != models.FlagHungup || wait <= models.QuickDropCutoffSeconds {
			continue
		}

		businessDate := normalize.BusinessDate(callTime)
		agg, ok := aggregates[phone]
		if !ok {
			agg = &models.PhoneAbandonAggregate{
				Phone:            phone,
				OriginalPhone:    rec.Phone,
				FirstAbandonTime: callTime,
				FirstAbandonRaw:  rec.CallTime,
				FirstAbandonDate: businessDate,
				Status:           models.StatusNeedsOutbound,
			}
			aggregates[phone] = agg
		}

		agg.Events = append(agg.Events, models.AbandonEvent{
			Time:         callTime,
			BusinessDate: businessDate,
			WaitSeconds:  wait,
			Queue:        rec.Queue,
			Agent:        rec.Agent,
			Disposition:  rec.Disposition,
		})
		agg.AbandonCount++

		if callTime.Before(agg.FirstAbandonTime) {
			agg.FirstAbandonTime = callTime
			agg.FirstAbandonRaw = rec.CallTime
			agg.FirstAbandonDate = businessDate
		}
	}

	return aggregates, issues
}
