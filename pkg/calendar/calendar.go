// Package calendar implements proleptic Gregorian day-number arithmetic.
// A day number is a count of days relative to the epoch 1970-01-01, negative
// for earlier dates. All functions are pure integer math with no allocation,
// so they are safe for unrestricted concurrent use on hot paths.
package calendar

// Days from 0000-01-01 to 1970-01-01 in the proleptic Gregorian calendar.
const daysFromYear0To1970 = 719528

// DaysPer400Years is the length in days of the full Gregorian cycle.
const DaysPer400Years = 146097

// DayNumber returns the day count since 1970-01-01 for a civil date.
// The date is not range checked; callers wanting validation go through
// the epoch converter with an appropriate policy. Negative years are
// handled with floor-style arithmetic so proleptic dates before year 1
// map exactly.
func DayNumber(year, month, day int) int64 {
	y := int64(year)
	m := int64(month)
	total := 365 * y
	if y >= 0 {
		total += (y+3)/4 - (y+99)/100 + (y+399)/400
	} else {
		total -= y/-4 - y/-100 + y/-400
	}
	total += (367*m - 362) / 12
	total += int64(day) - 1
	if m > 2 {
		total--
		if !IsLeap(year) {
			total--
		}
	}
	return total - daysFromYear0To1970
}

// CivilFromDayNumber is the exact inverse of DayNumber. It decomposes the
// day count into 400-year Gregorian cycles, estimates the march-based year
// in closed form, corrects a possible one-year undershoot, and converts the
// march-based month and day back to January-based fields.
func CivilFromDayNumber(n int64) (year, month, day int) {
	// Shift so day zero is 0000-03-01, putting the leap day at the end
	// of the cycle year.
	zeroDay := n + daysFromYear0To1970 - 60
	var adjust int64
	if zeroDay < 0 {
		adjustCycles := (zeroDay+1)/DaysPer400Years - 1
		adjust = adjustCycles * 400
		zeroDay += -adjustCycles * DaysPer400Years
	}
	yearEst := (400*zeroDay + 591) / DaysPer400Years
	doyEst := zeroDay - (365*yearEst + yearEst/4 - yearEst/100 + yearEst/400)
	if doyEst < 0 {
		// Estimate overshot into the previous year.
		yearEst--
		doyEst = zeroDay - (365*yearEst + yearEst/4 - yearEst/100 + yearEst/400)
	}
	yearEst += adjust
	marchMonth := (doyEst*5 + 2) / 153
	day = int(doyEst - (marchMonth*306+5)/10 + 1)
	month = int((marchMonth+2)%12 + 1)
	year = int(yearEst + marchMonth/10)
	return year, month, day
}

// IsLeap reports whether year is a leap year in the proleptic Gregorian
// calendar.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in the given month of the given
// year. Month must be in 1..12.
func DaysInMonth(year, month int) int {
	switch month {
	case 2:
		if IsLeap(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

// Weekday returns the day of the week for a day number, 0=Sunday through
// 6=Saturday. 1970-01-01 was a Thursday.
func Weekday(dayNumber int64) int {
	return int(FloorMod(dayNumber+4, 7))
}

// FloorDiv returns the floor of a/b, rounding toward negative infinity
// rather than toward zero. b must be positive.
func FloorDiv(a, b int64) int64 {
	q := a / b
	if a%b < 0 {
		q--
	}
	return q
}

// FloorMod returns a-FloorDiv(a,b)*b, always in [0,b). b must be positive.
func FloorMod(a, b int64) int64 {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}
