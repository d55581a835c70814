// Package loader reads the exported call logs from CSV. The header row is
// mapped onto a fixed schema once per file, so the rest of the pipeline
// works with explicitly named fields instead of fuzzy per-record lookups.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"abandon-analyzer/errors"
	"abandon-analyzer/models"
)

// Expected column names for the inbound queue export.
const (
	colPhone             = "Phone"
	colAnsweredHungup    = "Answered/Hungup"
	colWaitTime          = "Wait Time at ACD"
	colCallTime          = "Call Time"
	colQueueName         = "Queue Name"
	colUsername          = "Username"
	colUserDisposition   = "User Disposition Code"
	colUserTalkTime      = "User Talk Time"
	colCallType          = "Call Type"
	colSystemDisposition = "System Disposition"
	colDispositionCode   = "Disposition Code"
	colUserName          = "User Name"
)

// schema maps expected column names to their index in the header row, -1
// when the column is absent from the file.
type schema map[string]int

// LoadInbound reads the inbound queue log. Recoverable schema problems come
// back as issues; the error is reserved for structural CSV failures.
func LoadInbound(r io.Reader) ([]models.CallRecord, []errors.Issue, error) {
	return load(r, models.SourceInboundQueue, []string{
		colPhone, colAnsweredHungup, colWaitTime, colCallTime,
		colQueueName, colUsername, colUserDisposition, colUserTalkTime,
	}, inboundRecord)
}

// LoadOutbound reads the outbound dialer log.
func LoadOutbound(r io.Reader) ([]models.CallRecord, []errors.Issue, error) {
	return load(r, models.SourceOutboundDialer, []string{
		colPhone, colCallType, colSystemDisposition, colCallTime,
		colDispositionCode, colUserName, colUserTalkTime,
	}, outboundRecord)
}

func inboundRecord(row func(string) string) models.CallRecord {
	return models.CallRecord{
		Source:         models.SourceInboundQueue,
		Phone:          row(colPhone),
		AnsweredHungup: row(colAnsweredHungup),
		WaitTime:       row(colWaitTime),
		CallTime:       row(colCallTime),
		Queue:          row(colQueueName),
		Agent:          row(colUsername),
		Disposition:    row(colUserDisposition),
		TalkTime:       row(colUserTalkTime),
	}
}

func outboundRecord(row func(string) string) models.CallRecord {
	return models.CallRecord{
		Source:            models.SourceOutboundDialer,
		Phone:             row(colPhone),
		CallType:          row(colCallType),
		SystemDisposition: row(colSystemDisposition),
		CallTime:          row(colCallTime),
		Disposition:       row(colDispositionCode),
		Agent:             row(colUserName),
		TalkTime:          row(colUserTalkTime),
	}
}

func load(r io.Reader, source models.Source, columns []string, build func(func(string) string) models.CallRecord) ([]models.CallRecord, []errors.Issue, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("error reading %s header: %w", source, err)
	}

	sch, issues := mapHeader(header, columns, source)

	var records []models.CallRecord
	lineNum := 1
	for {
		row, err := reader.Read()
		lineNum++
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, issues, fmt.Errorf("error reading %s CSV at line %d: %w", source, lineNum, err)
		}

		cell := func(column string) string {
			idx := sch[column]
			if idx < 0 || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		records = append(records, build(cell))
	}
	return records, issues, nil
}

// mapHeader binds each expected column to a header index: exact
// case-insensitive match first, then the first header containing the
// expected name. An unmatched column yields one MissingColumn issue for the
// whole file and every record reads the empty default for it.
func mapHeader(header, columns []string, source models.Source) (schema, []errors.Issue) {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}

	sch := make(schema, len(columns))
	var issues []errors.Issue
	for _, column := range columns {
		sch[column] = findColumn(normalized, strings.ToLower(column))
		if sch[column] < 0 {
			issues = append(issues, errors.NewIssue(&errors.FieldError{
				Field: column,
				Value: string(source),
				Err:   errors.ErrMissingColumn,
			}))
		}
	}
	return sch, issues
}

func findColumn(normalized []string, want string) int {
	for i, h := range normalized {
		if h == want {
			return i
		}
	}
	for i, h := range normalized {
		if strings.Contains(h, want) {
			return i
		}
	}
	return -1
}
