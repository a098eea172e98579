// Package validate provides the range-checking policies applied by the
// epoch converter and zone resolver. A policy decides what happens when a
// caller supplies an out-of-range calendar or time field: skip the check
// entirely, report an error, or signal the caller to substitute a sentinel
// result. Policies are plain values; binding one to a converter fixes its
// behavior for the converter's lifetime.
package validate

import (
	"errors"

	"github.com/codeGROOVE-dev/tickTZ/pkg/calendar"
)

// Policy selects how invalid input is handled at conversion entry points.
type Policy uint8

const (
	// Unvalidated trusts the caller completely and performs no range
	// checks. Invalid input produces undefined (but non-corrupting)
	// results.
	Unvalidated Policy = iota
	// Strict reports invalid input as an error from the conversion call.
	Strict
	// Sentinel converts invalid input into a well-defined sentinel result
	// (epoch.Invalid or the invalid civil date) without an error.
	Sentinel
)

// String returns the policy name for logs and diagnostics.
func (p Policy) String() string {
	switch p {
	case Unvalidated:
		return "unvalidated"
	case Strict:
		return "strict"
	case Sentinel:
		return "sentinel"
	default:
		return "unknown"
	}
}

// Supported field bounds. The nano path has a narrower year range so that a
// nanosecond count over the whole validated range always fits in an int64.
const (
	YearMin = -999_999
	YearMax = 999_999

	NanoYearMin = 1678
	NanoYearMax = 2261
)

// Package-level error values so the strict policy allocates nothing on the
// error path.
var (
	ErrDateRange = errors.New("date field out of range")
	ErrTimeRange = errors.New("time field out of range")
)

// DateValid reports whether (year, month, day) is a real proleptic
// Gregorian date within the supported year range.
func DateValid(year, month, day int) bool {
	if year < YearMin || year > YearMax {
		return false
	}
	if month < 1 || month > 12 {
		return false
	}
	return day >= 1 && day <= calendar.DaysInMonth(year, month)
}

// TimeValid reports whether (hour, minute, second) is a valid time of day.
// Leap seconds are not modeled.
func TimeValid(hour, minute, second int) bool {
	return hour >= 0 && hour <= 23 &&
		minute >= 0 && minute <= 59 &&
		second >= 0 && second <= 59
}

// CheckDate applies the policy to a civil date. ok=false with a nil error
// means the caller must return its sentinel; a non-nil error means the
// caller must return that error unchanged.
func (p Policy) CheckDate(year, month, day int) (ok bool, err error) {
	if p == Unvalidated || DateValid(year, month, day) {
		return true, nil
	}
	if p == Strict {
		return false, ErrDateRange
	}
	return false, nil
}

// CheckTime applies the policy to a second-precision time of day.
func (p Policy) CheckTime(hour, minute, second int) (ok bool, err error) {
	if p == Unvalidated || TimeValid(hour, minute, second) {
		return true, nil
	}
	if p == Strict {
		return false, ErrTimeRange
	}
	return false, nil
}

// CheckTimeMilli applies the policy to a millisecond-precision time of day.
func (p Policy) CheckTimeMilli(hour, minute, second, milli int) (ok bool, err error) {
	if p == Unvalidated || (TimeValid(hour, minute, second) && milli >= 0 && milli <= 999) {
		return true, nil
	}
	if p == Strict {
		return false, ErrTimeRange
	}
	return false, nil
}

// CheckTimeNano applies the policy to a nanosecond-precision time of day.
func (p Policy) CheckTimeNano(hour, minute, second, nano int) (ok bool, err error) {
	if p == Unvalidated || (TimeValid(hour, minute, second) && nano >= 0 && nano <= 999_999_999) {
		return true, nil
	}
	if p == Strict {
		return false, ErrTimeRange
	}
	return false, nil
}

// CheckYear applies the policy to a year on the day/second/milli paths.
func (p Policy) CheckYear(year int) (ok bool, err error) {
	if p == Unvalidated || (year >= YearMin && year <= YearMax) {
		return true, nil
	}
	if p == Strict {
		return false, ErrDateRange
	}
	return false, nil
}

// CheckNanoYear applies the policy to a year on the nanosecond path, whose
// supported range is narrower to keep int64 arithmetic overflow free.
func (p Policy) CheckNanoYear(year int) (ok bool, err error) {
	if p == Unvalidated || (year >= NanoYearMin && year <= NanoYearMax) {
		return true, nil
	}
	if p == Strict {
		return false, ErrDateRange
	}
	return false, nil
}
