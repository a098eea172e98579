// Package epoch converts civil date-times to and from linear counts of
// days, seconds, milliseconds and nanoseconds since 1970-01-01T00:00:00Z.
// Conversions are pure integer arithmetic over pkg/calendar and allocate
// nothing; invalid-input handling is fixed by the validation policy bound
// to a Converter at construction time.
package epoch

import (
	"math"

	"github.com/codeGROOVE-dev/tickTZ/pkg/calendar"
	"github.com/codeGROOVE-dev/tickTZ/pkg/validate"
)

// Invalid is the sentinel returned for epoch counts when the bound policy
// is validate.Sentinel and the input is out of range.
const Invalid = math.MinInt64

// InvalidYear marks the date portion of a sentinel result.
const InvalidYear = math.MinInt32

// Unit ratios shared by the conversion entry points.
const (
	SecondsPerDay    = 86_400
	SecondsPerHour   = 3_600
	SecondsPerMinute = 60
	MillisPerDay     = SecondsPerDay * 1_000
	MillisPerHour    = SecondsPerHour * 1_000
	MillisPerMinute  = SecondsPerMinute * 1_000
	NanosPerDay      = SecondsPerDay * 1_000_000_000
	NanosPerHour     = SecondsPerHour * 1_000_000_000
	NanosPerMinute   = SecondsPerMinute * 1_000_000_000
	NanosPerSecond   = 1_000_000_000
	NanosPerMilli    = 1_000_000
)

// CivilDate is a proleptic Gregorian calendar date.
type CivilDate struct {
	Year  int
	Month int
	Day   int
}

// InvalidDate is the date sentinel produced under validate.Sentinel.
var InvalidDate = CivilDate{Year: InvalidYear}

// IsValid reports whether d is not the sentinel date.
func (d CivilDate) IsValid() bool { return d.Year != InvalidYear }

// CivilTime is a time of day with nanosecond resolution. Leap seconds are
// not modeled.
type CivilTime struct {
	Hour   int
	Minute int
	Second int
	Nano   int
}

// Midnight is the zero time of day.
var Midnight = CivilTime{}

// Converter performs epoch conversions under one immutable validation
// policy. The zero value behaves like Unchecked.
type Converter struct {
	policy validate.Policy
}

// NewConverter returns a converter bound to the given policy.
func NewConverter(policy validate.Policy) Converter {
	return Converter{policy: policy}
}

// Ready-made converters, one per policy.
var (
	Unchecked = NewConverter(validate.Unvalidated)
	Checked   = NewConverter(validate.Strict)
	Clamped   = NewConverter(validate.Sentinel)
)

// Policy returns the validation policy the converter is bound to.
func (c Converter) Policy() validate.Policy { return c.policy }

// Days returns the day number of a civil date.
func (c Converter) Days(d CivilDate) (int64, error) {
	if ok, err := c.policy.CheckDate(d.Year, d.Month, d.Day); !ok {
		if err != nil {
			return 0, err
		}
		return Invalid, nil
	}
	return calendar.DayNumber(d.Year, d.Month, d.Day), nil
}

// Seconds returns the epoch second count of a civil date-time. The
// sub-second component of t is ignored at this precision.
func (c Converter) Seconds(d CivilDate, t CivilTime) (int64, error) {
	if ok, err := c.policy.CheckDate(d.Year, d.Month, d.Day); !ok {
		if err != nil {
			return 0, err
		}
		return Invalid, nil
	}
	if ok, err := c.policy.CheckTime(t.Hour, t.Minute, t.Second); !ok {
		if err != nil {
			return 0, err
		}
		return Invalid, nil
	}
	return calendar.DayNumber(d.Year, d.Month, d.Day)*SecondsPerDay +
		int64(t.Hour)*SecondsPerHour +
		int64(t.Minute)*SecondsPerMinute +
		int64(t.Second), nil
}

// Millis returns the epoch millisecond count of a civil date-time. The
// nanosecond component of t is truncated to millisecond precision.
func (c Converter) Millis(d CivilDate, t CivilTime) (int64, error) {
	milli := t.Nano / NanosPerMilli
	if ok, err := c.policy.CheckDate(d.Year, d.Month, d.Day); !ok {
		if err != nil {
			return 0, err
		}
		return Invalid, nil
	}
	if ok, err := c.policy.CheckTimeMilli(t.Hour, t.Minute, t.Second, milli); !ok {
		if err != nil {
			return 0, err
		}
		return Invalid, nil
	}
	return calendar.DayNumber(d.Year, d.Month, d.Day)*MillisPerDay +
		int64(t.Hour)*MillisPerHour +
		int64(t.Minute)*MillisPerMinute +
		int64(t.Second)*1_000 +
		int64(milli), nil
}

// Nanos returns the epoch nanosecond count of a civil date-time. The year
// range on this path is validate.NanoYearMin..NanoYearMax so the result
// cannot overflow int64.
func (c Converter) Nanos(d CivilDate, t CivilTime) (int64, error) {
	if ok, err := c.policy.CheckNanoYear(d.Year); !ok {
		if err != nil {
			return 0, err
		}
		return Invalid, nil
	}
	if ok, err := c.policy.CheckDate(d.Year, d.Month, d.Day); !ok {
		if err != nil {
			return 0, err
		}
		return Invalid, nil
	}
	if ok, err := c.policy.CheckTimeNano(t.Hour, t.Minute, t.Second, t.Nano); !ok {
		if err != nil {
			return 0, err
		}
		return Invalid, nil
	}
	return calendar.DayNumber(d.Year, d.Month, d.Day)*NanosPerDay +
		int64(t.Hour)*NanosPerHour +
		int64(t.Minute)*NanosPerMinute +
		int64(t.Second)*NanosPerSecond +
		int64(t.Nano), nil
}

// SecondsFromDate returns the epoch second count of midnight on the given
// date. It composes exactly with Seconds(d, Midnight).
func (c Converter) SecondsFromDate(d CivilDate) (int64, error) {
	days, err := c.Days(d)
	if err != nil || days == Invalid {
		return days, err
	}
	return days * SecondsPerDay, nil
}

// MillisFromDate returns the epoch millisecond count of midnight on the
// given date.
func (c Converter) MillisFromDate(d CivilDate) (int64, error) {
	days, err := c.Days(d)
	if err != nil || days == Invalid {
		return days, err
	}
	return days * MillisPerDay, nil
}

// NanosFromDate returns the epoch nanosecond count of midnight on the
// given date, under the narrower nano year bounds.
func (c Converter) NanosFromDate(d CivilDate) (int64, error) {
	if ok, err := c.policy.CheckNanoYear(d.Year); !ok {
		if err != nil {
			return 0, err
		}
		return Invalid, nil
	}
	days, err := c.Days(d)
	if err != nil || days == Invalid {
		return days, err
	}
	return days * NanosPerDay, nil
}

// DateFromDays returns the civil date of a day number, applying year
// validation per the bound policy.
func (c Converter) DateFromDays(days int64) (CivilDate, error) {
	y, m, d := calendar.CivilFromDayNumber(days)
	if ok, err := c.policy.CheckYear(y); !ok {
		if err != nil {
			return InvalidDate, err
		}
		return InvalidDate, nil
	}
	return CivilDate{Year: y, Month: m, Day: d}, nil
}

// DateTimeFromSeconds splits an epoch second count into civil date and
// time using floor division, so instants before the epoch decompose
// correctly.
func (c Converter) DateTimeFromSeconds(v int64) (CivilDate, CivilTime, error) {
	days := calendar.FloorDiv(v, SecondsPerDay)
	rem := calendar.FloorMod(v, SecondsPerDay)
	date, err := c.DateFromDays(days)
	if err != nil || !date.IsValid() {
		return InvalidDate, Midnight, err
	}
	t := CivilTime{
		Hour:   int(rem / SecondsPerHour),
		Minute: int(rem / SecondsPerMinute % 60),
		Second: int(rem % 60),
	}
	return date, t, nil
}

// DateTimeFromMillis splits an epoch millisecond count into civil date and
// time. The millisecond remainder is surfaced in CivilTime.Nano.
func (c Converter) DateTimeFromMillis(v int64) (CivilDate, CivilTime, error) {
	days := calendar.FloorDiv(v, MillisPerDay)
	rem := calendar.FloorMod(v, MillisPerDay)
	date, err := c.DateFromDays(days)
	if err != nil || !date.IsValid() {
		return InvalidDate, Midnight, err
	}
	t := CivilTime{
		Hour:   int(rem / MillisPerHour),
		Minute: int(rem / MillisPerMinute % 60),
		Second: int(rem / 1_000 % 60),
		Nano:   int(rem%1_000) * NanosPerMilli,
	}
	return date, t, nil
}

// DateTimeFromNanos splits an epoch nanosecond count into civil date and
// time.
func (c Converter) DateTimeFromNanos(v int64) (CivilDate, CivilTime, error) {
	days := calendar.FloorDiv(v, NanosPerDay)
	rem := calendar.FloorMod(v, NanosPerDay)
	date, err := c.DateFromDays(days)
	if err != nil || !date.IsValid() {
		return InvalidDate, Midnight, err
	}
	t := CivilTime{
		Hour:   int(rem / NanosPerHour),
		Minute: int(rem / NanosPerMinute % 60),
		Second: int(rem / NanosPerSecond % 60),
		Nano:   int(rem % NanosPerSecond),
	}
	return date, t, nil
}
