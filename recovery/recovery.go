// Package recovery searches both call logs for a later contact with each
// abandoning phone number and resolves every aggregate to RECOVERED,
// ATTEMPTED, or NEEDS_OUTBOUND.
package recovery

import (
	"time"

	"abandon-analyzer/errors"
	"abandon-analyzer/models"
	"abandon-analyzer/normalize"
)

// Outbound records only count as recovery candidates when an agent dialed
// the customer by hand and the call actually connected.
const (
	CallTypeManualDial         = "outbound.manual.dial"
	SystemDispositionConnected = "CONNECTED"
)

// successfulDispositions is the fixed allow-list of disposition codes that
// mean the customer's issue was addressed: resolution categories, callback
// acknowledgements, and test/non-case codes.
var successfulDispositions = map[string]bool{
	"Others":            true,
	"MI":                true,
	"PQC":               true,
	"AE":                true,
	"AE MI":             true,
	"AE PQC":            true,
	"Non-case":          true,
	"Test":              true,
	"AE PQC MI":         true,
	"PQC MI":            true,
	"Inbound Follow-up": true,
	"Translation AE":    true,
}

// candidate is one pre-validated contact from either log, in log order.
type candidate struct {
	time        time.Time
	timeRaw     string
	disposition string
	agent       string
	talkTime    string
}

// Match resolves every aggregate by scanning the inbound log first and the
// outbound log only when no inbound success was found. The first successful
// candidate wins and overwrites any tentative attempt; among unsuccessful
// candidates only the first is retained. A successful contact any distance
// after the first abandon counts: callbacks may be scheduled days later, so
// there is deliberately no upper time bound.
//
// Both logs are indexed by normalized phone once, preserving log order
// within each phone, so matching costs one pass per log plus one pass per
// candidate instead of rescanning both logs for every phone.
func Match(aggregates models.AggregateMap, inbound, outbound []models.CallRecord, ref time.Time) []errors.Issue {
	if len(aggregates) == 0 {
		return nil
	}

	inboundIdx, issues := buildIndex(inbound, ref, isInboundCandidate)
	outboundIdx, outIssues := buildIndex(outbound, ref, isOutboundCandidate)
	issues = append(issues, outIssues...)

	for _, agg := range aggregates {
		if searchLog(agg, inboundIdx[agg.Phone], models.DirectionInbound) {
			continue
		}
		searchLog(agg, outboundIdx[agg.Phone], models.DirectionOutbound)
	}
	return issues
}

func isInboundCandidate(rec models.CallRecord) bool {
	return rec.AnsweredHungup == models.FlagAnswered
}

func isOutboundCandidate(rec models.CallRecord) bool {
	return rec.CallType == CallTypeManualDial && rec.SystemDisposition == SystemDispositionConnected
}

// buildIndex validates each record once and groups the surviving candidates
// by normalized phone, keeping log order within each phone.
func buildIndex(records []models.CallRecord, ref time.Time, keep func(models.CallRecord) bool) (map[models.NormalizedPhone][]candidate, []errors.Issue) {
	idx := make(map[models.NormalizedPhone][]candidate)
	var issues []errors.Issue

	for _, rec := range records {
		phone, err := normalize.Phone(rec.Phone)
		if err != nil {
			issues = append(issues, errors.NewIssue(err))
			continue
		}
		if !keep(rec) {
			continue
		}
		t, err := normalize.Timestamp(rec.CallTime, ref)
		if err != nil {
			issues = append(issues, errors.NewIssue(err))
			continue
		}
		idx[phone] = append(idx[phone], candidate{
			time:        t,
			timeRaw:     rec.CallTime,
			disposition: rec.Disposition,
			agent:       rec.Agent,
			talkTime:    rec.TalkTime,
		})
	}
	return idx, issues
}

// searchLog scans one phone's candidates in log order and reports whether a
// successful contact was found. Candidates at or before the first abandon
// are ignored: only a strictly later contact can be a recovery.
func searchLog(agg *models.PhoneAbandonAggregate, candidates []candidate, dir models.Direction) bool {
	for _, c := range candidates {
		if !c.time.After(agg.FirstAbandonTime) {
			continue
		}

		attempt := &models.RecoveryAttempt{
			Direction:    dir,
			Time:         c.time,
			TimeRaw:      c.timeRaw,
			BusinessDate: normalize.BusinessDate(c.time),
			Disposition:  c.disposition,
			Agent:        c.agent,
			TalkTime:     c.talkTime,
		}

		if successfulDispositions[c.disposition] {
			attempt.Success = true
			agg.Recovery = attempt
			agg.Status = models.StatusRecovered
			return true
		}
		if agg.Recovery == nil {
			agg.Recovery = attempt
			agg.Status = models.StatusAttempted
		}
	}
	return false
}
