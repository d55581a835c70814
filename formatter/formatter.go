// Package formatter renders an analysis result for operators: a text
// summary, a JSON dump, and the CSV report sheets. All output is
// deterministic; phones are sorted ascending and days by date.
package formatter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"abandon-analyzer/analysis"
	"abandon-analyzer/errors"
	"abandon-analyzer/models"
)

const dateLayout = "01-02-2006"

// reportData holds prepared result data used by all formatters
type reportData struct {
	result *analysis.Result
	phones []*models.PhoneAbandonAggregate
	issues map[errors.Kind]int
}

// prepareReport orders the aggregates and tallies issues for formatting
func prepareReport(result *analysis.Result) *reportData {
	phones := make([]*models.PhoneAbandonAggregate, 0, len(result.Aggregates))
	for _, agg := range result.Aggregates {
		phones = append(phones, agg)
	}
	sort.Slice(phones, func(i, j int) bool {
		return phones[i].Phone < phones[j].Phone
	})

	return &reportData{
		result: result,
		phones: phones,
		issues: errors.CountByKind(result.Issues),
	}
}

// FormatText returns the operator console summary of a run.
func FormatText(result *analysis.Result) string {
	data := prepareReport(result)
	m := result.Summary
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Abandoned Calls Analysis (run %s)\n", result.RunID))
	sb.WriteString(fmt.Sprintf("Business dates covered: %d\n\n", len(result.Daily)))

	sb.WriteString("Consistency checks:\n")
	for _, check := range result.Checks {
		sb.WriteString(fmt.Sprintf("  %s\n", check.Message))
	}

	sb.WriteString("\nSummary:\n")
	sb.WriteString(fmt.Sprintf("  Valid calls:            %d\n", m.ValidCalls))
	sb.WriteString(fmt.Sprintf("  Answered:               %d (%s)\n", m.Answered, pct(m.Answered, m.ValidCalls)))
	sb.WriteString(fmt.Sprintf("  Hungup:                 %d (%s)\n", m.Hungup, pct(m.Hungup, m.ValidCalls)))
	sb.WriteString(fmt.Sprintf("  Quick drops:            %d (%s)\n", m.QuickDrops, pct(m.QuickDrops, m.ValidCalls)))
	sb.WriteString(fmt.Sprintf("  Abandon calls:          %d (%s)\n", m.AbandonCalls, pct(m.AbandonCalls, m.ValidCalls)))
	sb.WriteString(fmt.Sprintf("  Unique abandon phones:  %d\n", m.UniqueAbandonPhones))
	sb.WriteString(fmt.Sprintf("  Recovered phones:       %d\n", m.RecoveredPhones))
	sb.WriteString(fmt.Sprintf("  Needing outbound:       %d\n", m.NeedingOutbound))
	sb.WriteString(fmt.Sprintf("  Abandonment rate:       %.1f%%\n", m.AbandonmentRate))

	if len(data.issues) > 0 {
		sb.WriteString("\nData quality issues:\n")
		kinds := make([]string, 0, len(data.issues))
		for kind := range data.issues {
			kinds = append(kinds, string(kind))
		}
		sort.Strings(kinds)
		for _, kind := range kinds {
			sb.WriteString(fmt.Sprintf("  %s: %d\n", kind, data.issues[errors.Kind(kind)]))
		}
	}

	return sb.String()
}

// FormatJSON returns the full result as indented JSON.
func FormatJSON(result *analysis.Result) string {
	jsonBytes, _ := json.MarshalIndent(result, "", "  ")
	return string(jsonBytes)
}

// FormatKPICSV renders the standard KPI sheet: each call tally with its
// percentage of valid calls.
func FormatKPICSV(result *analysis.Result) string {
	m := result.Summary
	return writeCSV([][]string{
		{"Metric", "Count", "Percentage"},
		{"Valid Calls", itoa(m.ValidCalls), "100.0%"},
		{"Answered", itoa(m.Answered), pct(m.Answered, m.ValidCalls)},
		{"Hungup", itoa(m.Hungup), pct(m.Hungup, m.ValidCalls)},
		{"Quick Drops", itoa(m.QuickDrops), pct(m.QuickDrops, m.ValidCalls)},
		{"Abandon Calls", itoa(m.AbandonCalls), pct(m.AbandonCalls, m.ValidCalls)},
		{"Unique Abandon Phones", itoa(m.UniqueAbandonPhones), ""},
		{"Recovered Phones", itoa(m.RecoveredPhones), ""},
		{"Needing Outbound", itoa(m.NeedingOutbound), ""},
		{"Abandonment Rate", fmt.Sprintf("%.1f", m.AbandonmentRate), fmt.Sprintf("%.1f%%", m.AbandonmentRate)},
	})
}

// FormatInitialAbandonCSV lists every abandoning phone with its first
// abandon and total event count.
func FormatInitialAbandonCSV(result *analysis.Result) string {
	data := prepareReport(result)
	rows := [][]string{{"Phone", "Original Phone", "First Abandon Time", "Business Date", "Abandon Count"}}
	for _, agg := range data.phones {
		rows = append(rows, []string{
			string(agg.Phone),
			agg.OriginalPhone,
			agg.FirstAbandonRaw,
			agg.FirstAbandonDate.Format(dateLayout),
			itoa(agg.AbandonCount),
		})
	}
	return writeCSV(rows)
}

// FormatRecoveryCSV lists the recovery contact found for each phone that
// has one, successful or not.
func FormatRecoveryCSV(result *analysis.Result) string {
	data := prepareReport(result)
	rows := [][]string{{"Phone", "Direction", "Contact Time", "Success", "Agent", "Talk Time", "Disposition", "Status"}}
	for _, agg := range data.phones {
		if agg.Recovery == nil {
			continue
		}
		rec := agg.Recovery
		rows = append(rows, []string{
			string(agg.Phone),
			string(rec.Direction),
			rec.TimeRaw,
			yesNo(rec.Success),
			rec.Agent,
			rec.TalkTime,
			rec.Disposition,
			string(agg.Status),
		})
	}
	return writeCSV(rows)
}

// FormatPhoneStatusCSV lists the final resolution and next action for every
// abandoning phone.
func FormatPhoneStatusCSV(result *analysis.Result) string {
	data := prepareReport(result)
	rows := [][]string{{"Phone", "Status", "Abandon Count", "Action"}}
	for _, agg := range data.phones {
		action := "Schedule outbound call"
		if agg.Status == models.StatusRecovered {
			action = "None"
		}
		rows = append(rows, []string{
			string(agg.Phone),
			string(agg.Status),
			itoa(agg.AbandonCount),
			action,
		})
	}
	return writeCSV(rows)
}

// FormatAssignmentsCSV builds the team leader callback sheet: unrecovered
// phones prioritized by how often the customer abandoned.
func FormatAssignmentsCSV(result *analysis.Result) string {
	data := prepareReport(result)

	type assignment struct {
		agg      *models.PhoneAbandonAggregate
		priority int // 0 High, 1 Medium, 2 Normal
	}
	var assignments []assignment
	for _, agg := range data.phones {
		if agg.Status == models.StatusRecovered {
			continue
		}
		priority := 2
		switch {
		case agg.AbandonCount > 2:
			priority = 0
		case agg.AbandonCount > 1:
			priority = 1
		}
		assignments = append(assignments, assignment{agg: agg, priority: priority})
	}
	sort.SliceStable(assignments, func(i, j int) bool {
		if assignments[i].priority != assignments[j].priority {
			return assignments[i].priority < assignments[j].priority
		}
		return assignments[i].agg.AbandonCount > assignments[j].agg.AbandonCount
	})

	labels := []string{"High", "Medium", "Normal"}
	rows := [][]string{{"Phone", "Priority", "Abandon Count", "Status", "Note"}}
	for _, a := range assignments {
		note := "Customer waiting for callback"
		if a.agg.Status == models.StatusAttempted {
			note = "Previous contact unsuccessful, retry"
		}
		rows = append(rows, []string{
			string(a.agg.Phone),
			labels[a.priority],
			itoa(a.agg.AbandonCount),
			string(a.agg.Status),
			note,
		})
	}
	return writeCSV(rows)
}

// FormatDailyCSV renders the per-business-date breakdown.
func FormatDailyCSV(result *analysis.Result) string {
	rows := [][]string{{
		"Business Date", "Valid Calls",
		"Answered", "Answered %",
		"Hungup", "Hungup %",
		"Quick Drops", "Quick Drops %",
		"Abandon Calls", "Abandon %",
		"Unique Abandon Phones", "Recovered Phones", "Needing Outbound",
		"Abandonment Rate",
	}}
	for _, day := range result.Daily {
		rows = append(rows, []string{
			day.Date.Format(dateLayout),
			itoa(day.ValidCalls),
			itoa(day.Answered), pct(day.Answered, day.ValidCalls),
			itoa(day.Hungup), pct(day.Hungup, day.ValidCalls),
			itoa(day.QuickDrops), pct(day.QuickDrops, day.ValidCalls),
			itoa(day.AbandonCalls), pct(day.AbandonCalls, day.ValidCalls),
			itoa(day.UniqueAbandonPhones),
			itoa(day.RecoveredPhones),
			itoa(day.NeedingOutbound),
			fmt.Sprintf("%.1f%%", day.AbandonmentRate),
		})
	}
	return writeCSV(rows)
}

func writeCSV(rows [][]string) string {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)
	for _, row := range rows {
		writer.Write(row)
	}
	writer.Flush()
	return sb.String()
}

func pct(n, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(n)/float64(total)*100)
}

func itoa(n int) string {
	return fmt.Sprintf("%d", n)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
