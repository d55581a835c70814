package stats

import (
	"fmt"

	"abandon-analyzer/models"
)

// Validate re-checks the four arithmetic identities over a computed summary
// and returns one verdict per check. It is stateless and never blocks
// output: a failed check is an operator signal, not an error.
func Validate(m models.SummaryMetrics) []models.CheckResult {
	checks := []models.CheckResult{
		equalityCheck("answered + hungup = valid calls",
			m.Answered+m.Hungup, m.ValidCalls),
		equalityCheck("quick drops + abandon calls = hungup",
			m.QuickDrops+m.AbandonCalls, m.Hungup),
		equalityCheck("recovered + needing outbound = unique abandon phones",
			m.RecoveredPhones+m.NeedingOutbound, m.UniqueAbandonPhones),
	}

	rate := models.CheckResult{Name: "abandonment rate within [0, 100]"}
	if m.AbandonmentRate >= 0 && m.AbandonmentRate <= 100 {
		rate.Passed = true
		rate.Message = fmt.Sprintf("PASS: rate %.1f within bounds", m.AbandonmentRate)
	} else {
		rate.Message = fmt.Sprintf("FAIL: rate %.1f outside [0, 100]", m.AbandonmentRate)
	}
	return append(checks, rate)
}

func equalityCheck(name string, got, want int) models.CheckResult {
	c := models.CheckResult{Name: name, Passed: got == want}
	if c.Passed {
		c.Message = fmt.Sprintf("PASS: %s (%d)", name, want)
	} else {
		c.Message = fmt.Sprintf("FAIL: %s (got %d, want %d)", name, got, want)
	}
	return c
}
