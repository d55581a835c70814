package errors

import (
	"errors"
	"fmt"
)

// FieldError wraps a specific error with the field and raw value that caused it.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Define specific error types for better error handling
var (
	ErrInvalidPhone     = fmt.Errorf("invalid phone number")
	ErrInvalidTimestamp = fmt.Errorf("invalid timestamp")
	ErrInvalidDuration  = fmt.Errorf("invalid duration")
	ErrMissingColumn    = fmt.Errorf("missing column")
	ErrEmptyDataset     = fmt.Errorf("empty dataset")
)

// Kind classifies a data quality issue for reporting and metrics.
type Kind string

const (
	KindInvalidPhone     Kind = "InvalidPhone"
	KindInvalidTimestamp Kind = "InvalidTimestamp"
	KindInvalidDuration  Kind = "InvalidDuration"
	KindMissingColumn    Kind = "MissingColumn"
	KindEmptyDataset     Kind = "EmptyDataset"
	KindUnknown          Kind = "Unknown"
)

// KindOf maps an error to its issue kind.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrInvalidPhone):
		return KindInvalidPhone
	case errors.Is(err, ErrInvalidTimestamp):
		return KindInvalidTimestamp
	case errors.Is(err, ErrInvalidDuration):
		return KindInvalidDuration
	case errors.Is(err, ErrMissingColumn):
		return KindMissingColumn
	case errors.Is(err, ErrEmptyDataset):
		return KindEmptyDataset
	default:
		return KindUnknown
	}
}

// Issue is one recorded data quality problem. Issues are collected per run
// and returned alongside the analysis output instead of being stored on
// shared state.
type Issue struct {
	Kind   Kind   `json:"kind"`
	Detail string `json:"detail"`
}

// NewIssue builds an Issue from an error, classifying it by kind.
func NewIssue(err error) Issue {
	return Issue{Kind: KindOf(err), Detail: err.Error()}
}

// CountByKind tallies issues per kind for summary reporting.
func CountByKind(issues []Issue) map[Kind]int {
	if len(issues) == 0 {
		return nil
	}
	counts := make(map[Kind]int)
	for _, is := range issues {
		counts[is.Kind]++
	}
	return counts
}
