package tz

import "github.com/codeGROOVE-dev/tickTZ/pkg/calendar"

// TimeMode states which clock a recurring rule's time-of-day refers to.
type TimeMode uint8

const (
	// ModeWall interprets the rule time against the wall clock in effect
	// before the transition.
	ModeWall TimeMode = iota
	// ModeStandard interprets the rule time against standard time.
	ModeStandard
	// ModeUTC interprets the rule time directly as UTC.
	ModeUTC
)

// Rule describes one recurring offset transition, e.g. "second Sunday in
// March at 02:00 wall time". It can produce the concrete transition for
// any calendar year beyond the tabulated history.
type Rule struct {
	Month       int // 1..12
	DayOfMonth  int // 1..31, or negative counting back from month end (-1 = last day)
	DayOfWeek   int // 0=Sunday..6=Saturday, or -1 for an exact day of month
	DayOfYear   int // 1-based day of year counting the leap day; overrides the fields above when positive
	SecondOfDay int // may exceed 86399 or be negative (POSIX extended times)
	Mode        TimeMode

	// StandardOffset is the standard (non-DST) offset in force when the
	// rule fires, used for ModeStandard times.
	StandardOffset int32
	OffsetBefore   int32
	OffsetAfter    int32
}

// TransitionForYear computes the concrete transition this rule produces in
// the given year. The computation is a pure function of the rule and the
// year, so racing callers always derive identical results.
func (r Rule) TransitionForYear(year int) Transition {
	var n int64
	if r.DayOfYear > 0 {
		n = calendar.DayNumber(year, 1, 1) + int64(r.DayOfYear) - 1
	} else {
		day := r.DayOfMonth
		if day < 0 {
			day = calendar.DaysInMonth(year, r.Month) + 1 + day
		}
		n = calendar.DayNumber(year, r.Month, day)
		if r.DayOfWeek >= 0 {
			w := calendar.Weekday(n)
			if r.DayOfMonth < 0 {
				// Latest matching weekday on or before the anchor day.
				n -= int64((w - r.DayOfWeek + 7) % 7)
			} else {
				// Earliest matching weekday on or after the anchor day.
				n += int64((r.DayOfWeek - w + 7) % 7)
			}
		}
	}
	local := n*86_400 + int64(r.SecondOfDay)
	var when int64
	switch r.Mode {
	case ModeUTC:
		when = local
	case ModeStandard:
		when = local - int64(r.StandardOffset)
	default:
		when = local - int64(r.OffsetBefore)
	}
	return Transition{When: when, OffsetBefore: r.OffsetBefore, OffsetAfter: r.OffsetAfter}
}
