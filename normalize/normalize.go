// Package normalize validates and canonicalizes the noisy raw fields of
// call records: phone numbers, timestamps, HH:MM:SS durations, and the
// 6AM-to-6AM business date bucket. Functions reject bad input with typed
// errors instead of guessing; callers decide whether a rejection skips the
// record or only zeroes a field.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"abandon-analyzer/errors"
	"abandon-analyzer/models"
)

var nonDigit = regexp.MustCompile(`\D`)

// Phone strips formatting noise from a raw phone string and keeps the last
// 10 digits. Country codes and dial prefixes are tolerated up to 15 digits
// total; anything shorter than 10 digits cannot identify a customer.
// Truncation to the trailing 10 digits is the canonicalization rule, so
// "+1 (555) 123-4567" and "5551234567" are the same key.
func Phone(raw string) (models.NormalizedPhone, error) {
	digits := nonDigit.ReplaceAllString(raw, "")
	if len(digits) < 10 {
		return "", &errors.FieldError{
			Field: "phone",
			Value: raw,
			Err:   fmt.Errorf("%w: %d digits, need at least 10", errors.ErrInvalidPhone, len(digits)),
		}
	}
	if len(digits) > 15 {
		return "", &errors.FieldError{
			Field: "phone",
			Value: raw,
			Err:   fmt.Errorf("%w: %d digits, more than 15", errors.ErrInvalidPhone, len(digits)),
		}
	}
	return models.NormalizedPhone(digits[len(digits)-10:]), nil
}

// twelveHourLayout matches the ACD export's "MM-DD-YYYY hh:mm:ss AM/PM" form.
const twelveHourLayout = "01-02-2006 03:04:05 PM"

// genericLayouts are tried in order for timestamps without an AM/PM marker.
var genericLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02 15:04:05",
	"01-02-2006 15:04:05",
	"2006-01-02",
}

// Timestamp parses a raw call time. Strings carrying an AM/PM marker must
// match the export's 12-hour form; anything else is tried against a fixed
// list of common layouts. Parsed times outside [ref-730d, ref+365d] are
// rejected as corrupted dates, not treated as data.
func Timestamp(raw string, ref time.Time) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, &errors.FieldError{
			Field: "call time",
			Value: raw,
			Err:   fmt.Errorf("%w: empty", errors.ErrInvalidTimestamp),
		}
	}

	var t time.Time
	var err error
	if strings.Contains(value, "AM") || strings.Contains(value, "PM") {
		t, err = time.Parse(twelveHourLayout, value)
	} else {
		t, err = parseFirst(value, genericLayouts)
	}
	if err != nil {
		return time.Time{}, &errors.FieldError{
			Field: "call time",
			Value: raw,
			Err:   fmt.Errorf("%w: %v", errors.ErrInvalidTimestamp, err),
		}
	}

	min := ref.AddDate(0, 0, -730)
	max := ref.AddDate(0, 0, 365)
	if t.Before(min) || t.After(max) {
		return time.Time{}, &errors.FieldError{
			Field: "call time",
			Value: raw,
			Err:   fmt.Errorf("%w: outside reasonable range", errors.ErrInvalidTimestamp),
		}
	}
	return t, nil
}

func parseFirst(value string, layouts []string) (time.Time, error) {
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// BusinessDate buckets a call time into the operating day it belongs to.
// The operating cycle runs 6AM to 6AM, so calls before 6 in the morning
// count toward the previous calendar date. The result is a midnight-UTC
// date value suitable as a map key.
func BusinessDate(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	if t.Hour() < 6 {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// DurationSeconds converts an "HH:MM:SS" string to seconds. Empty and
// all-zero values are 0 without being an error; anything that does not
// split into three non-negative integers, or with hours above 24 or
// minutes/seconds above 59, is an InvalidDuration and reads as 0.
func DurationSeconds(raw string) (int, error) {
	value := strings.TrimSpace(raw)
	if value == "" || value == "00:00:00" {
		return 0, nil
	}

	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, &errors.FieldError{
			Field: "duration",
			Value: raw,
			Err:   fmt.Errorf("%w: expected HH:MM:SS", errors.ErrInvalidDuration),
		}
	}

	var nums [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0, &errors.FieldError{
				Field: "duration",
				Value: raw,
				Err:   fmt.Errorf("%w: bad component %q", errors.ErrInvalidDuration, part),
			}
		}
		nums[i] = n
	}

	if nums[0] > 24 || nums[1] > 59 || nums[2] > 59 {
		return 0, &errors.FieldError{
			Field: "duration",
			Value: raw,
			Err:   fmt.Errorf("%w: out of range", errors.ErrInvalidDuration),
		}
	}
	return nums[0]*3600 + nums[1]*60 + nums[2], nil
}
