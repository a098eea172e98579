// Package packed provides compact integer encodings of civil dates and
// times. Two families are supported: bit-packed fields for cheap
// comparisons and storage, and decimal-packed fields (yyyymmdd, hhmmssSSS)
// for human-readable wire formats. Packing performs no validation; callers
// choose a policy at the epoch layer.
package packed

import "github.com/codeGROOVE-dev/tickTZ/pkg/epoch"

// Date is a bit-packed calendar date: year<<9 | month<<5 | day.
// Dates with the same sign of year compare in calendar order.
type Date int32

// Time is a bit-packed time of day with millisecond resolution:
// hour<<22 | minute<<16 | second<<10 | milli.
type Time int32

// DecimalDate is a decimal-packed date: year*10000 + month*100 + day.
type DecimalDate int32

// DecimalTime is a decimal-packed time of day with millisecond
// resolution: hour*1e7 + minute*1e5 + second*1e3 + milli.
type DecimalTime int32

// PackDate packs year, month and day into a Date.
func PackDate(year, month, day int) Date {
	return Date(year<<9 | month<<5 | day)
}

// Year unpacks the year component.
func (d Date) Year() int { return int(d) >> 9 }

// Month unpacks the month component.
func (d Date) Month() int { return int(d) >> 5 & 0xf }

// Day unpacks the day component.
func (d Date) Day() int { return int(d) & 0x1f }

// Civil converts a packed date to its civil form.
func (d Date) Civil() epoch.CivilDate {
	return epoch.CivilDate{Year: d.Year(), Month: d.Month(), Day: d.Day()}
}

// FromCivil packs a civil date.
func FromCivil(d epoch.CivilDate) Date {
	return PackDate(d.Year, d.Month, d.Day)
}

// PackTime packs hour, minute, second and millisecond into a Time.
func PackTime(hour, minute, second, milli int) Time {
	return Time(hour<<22 | minute<<16 | second<<10 | milli)
}

// Hour unpacks the hour component.
func (t Time) Hour() int { return int(t) >> 22 & 0x1f }

// Minute unpacks the minute component.
func (t Time) Minute() int { return int(t) >> 16 & 0x3f }

// Second unpacks the second component.
func (t Time) Second() int { return int(t) >> 10 & 0x3f }

// Milli unpacks the millisecond component.
func (t Time) Milli() int { return int(t) & 0x3ff }

// Civil converts a packed time to its civil form.
func (t Time) Civil() epoch.CivilTime {
	return epoch.CivilTime{
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
		Nano:   t.Milli() * epoch.NanosPerMilli,
	}
}

// FromCivilTime packs a civil time, truncating to millisecond resolution.
func FromCivilTime(t epoch.CivilTime) Time {
	return PackTime(t.Hour, t.Minute, t.Second, t.Nano/epoch.NanosPerMilli)
}

// PackDecimalDate packs year, month and day into a DecimalDate.
func PackDecimalDate(year, month, day int) DecimalDate {
	return DecimalDate(year*10_000 + month*100 + day)
}

// Year unpacks the year component.
func (d DecimalDate) Year() int { return int(d) / 10_000 }

// Month unpacks the month component.
func (d DecimalDate) Month() int { return int(d) / 100 % 100 }

// Day unpacks the day component.
func (d DecimalDate) Day() int { return int(d) % 100 }

// Civil converts a decimal-packed date to its civil form.
func (d DecimalDate) Civil() epoch.CivilDate {
	return epoch.CivilDate{Year: d.Year(), Month: d.Month(), Day: d.Day()}
}

// PackDecimalTime packs hour, minute, second and millisecond into a
// DecimalTime.
func PackDecimalTime(hour, minute, second, milli int) DecimalTime {
	return DecimalTime(hour*10_000_000 + minute*100_000 + second*1_000 + milli)
}

// Hour unpacks the hour component.
func (t DecimalTime) Hour() int { return int(t) / 10_000_000 }

// Minute unpacks the minute component.
func (t DecimalTime) Minute() int { return int(t) / 100_000 % 100 }

// Second unpacks the second component.
func (t DecimalTime) Second() int { return int(t) / 1_000 % 100 }

// Milli unpacks the millisecond component.
func (t DecimalTime) Milli() int { return int(t) % 1_000 }

// Civil converts a decimal-packed time to its civil form.
func (t DecimalTime) Civil() epoch.CivilTime {
	return epoch.CivilTime{
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
		Nano:   t.Milli() * epoch.NanosPerMilli,
	}
}
