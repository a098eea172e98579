package epoch

import (
	"math"
	"testing"

	"github.com/codeGROOVE-dev/tickTZ/pkg/validate"
)

func TestSecondsKnownValues(t *testing.T) {
	tests := []struct {
		name string
		d    CivilDate
		tm   CivilTime
		want int64
	}{
		{"epoch", CivilDate{1970, 1, 1}, Midnight, 0},
		{"one second in", CivilDate{1970, 1, 1}, CivilTime{0, 0, 1, 0}, 1},
		{"last second of 1969", CivilDate{1969, 12, 31}, CivilTime{23, 59, 59, 0}, -1},
		{"unix billennium", CivilDate{2001, 9, 9}, CivilTime{1, 46, 40, 0}, 1_000_000_000},
		{"y2038 boundary", CivilDate{2038, 1, 19}, CivilTime{3, 14, 8, 0}, 1 << 31},
		{"noon y2k", CivilDate{2000, 1, 1}, CivilTime{12, 0, 0, 0}, 946_728_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Checked.Seconds(tt.d, tt.tm)
			if err != nil {
				t.Fatalf("Seconds: %v", err)
			}
			if got != tt.want {
				t.Errorf("Seconds(%+v, %+v) = %d, want %d", tt.d, tt.tm, got, tt.want)
			}
		})
	}
}

func TestUnitConsistency(t *testing.T) {
	d := CivilDate{2024, 3, 10}
	tm := CivilTime{Hour: 7, Minute: 30, Second: 15, Nano: 123_456_789}

	sec, err := Checked.Seconds(d, tm)
	if err != nil {
		t.Fatalf("Seconds: %v", err)
	}
	ms, err := Checked.Millis(d, tm)
	if err != nil {
		t.Fatalf("Millis: %v", err)
	}
	ns, err := Checked.Nanos(d, tm)
	if err != nil {
		t.Fatalf("Nanos: %v", err)
	}
	if ms != sec*1_000+123 {
		t.Errorf("Millis = %d, want %d", ms, sec*1_000+123)
	}
	if ns != sec*NanosPerSecond+123_456_789 {
		t.Errorf("Nanos = %d, want %d", ns, sec*NanosPerSecond+123_456_789)
	}
}

func TestMidnightComposition(t *testing.T) {
	dates := []CivilDate{
		{1970, 1, 1},
		{1969, 7, 20},
		{2024, 2, 29},
		{1900, 3, 1},
		{2200, 12, 31},
	}
	for _, d := range dates {
		full, err := Checked.Seconds(d, Midnight)
		if err != nil {
			t.Fatalf("Seconds(%+v): %v", d, err)
		}
		short, err := Checked.SecondsFromDate(d)
		if err != nil {
			t.Fatalf("SecondsFromDate(%+v): %v", d, err)
		}
		if full != short {
			t.Errorf("SecondsFromDate(%+v) = %d, Seconds(midnight) = %d", d, short, full)
		}
		ms, err := Checked.MillisFromDate(d)
		if err != nil {
			t.Fatalf("MillisFromDate(%+v): %v", d, err)
		}
		if ms != short*1_000 {
			t.Errorf("MillisFromDate(%+v) = %d, want %d", d, ms, short*1_000)
		}
	}
}

func TestDateTimeRoundTrip(t *testing.T) {
	// Sweep instants around the epoch and across DST-sized boundaries in
	// both directions.
	for v := int64(-3_000_000); v <= 3_000_000; v += 7_777 {
		d, tm, err := Checked.DateTimeFromSeconds(v)
		if err != nil {
			t.Fatalf("DateTimeFromSeconds(%d): %v", v, err)
		}
		back, err := Checked.Seconds(d, tm)
		if err != nil {
			t.Fatalf("Seconds(%+v, %+v): %v", d, tm, err)
		}
		if back != v {
			t.Fatalf("round trip %d -> (%+v, %+v) -> %d", v, d, tm, back)
		}
	}
	for v := int64(-9e17); v <= 9e17; v += 31_557_600_123_456_789 {
		d, tm, err := Checked.DateTimeFromNanos(v)
		if err != nil {
			t.Fatalf("DateTimeFromNanos(%d): %v", v, err)
		}
		back, err := Checked.Nanos(d, tm)
		if err != nil {
			t.Fatalf("Nanos(%+v, %+v): %v", d, tm, err)
		}
		if back != v {
			t.Fatalf("round trip %d -> (%+v, %+v) -> %d", v, d, tm, back)
		}
	}
}

func TestNegativeInstantDecomposition(t *testing.T) {
	d, tm, err := Checked.DateTimeFromSeconds(-1)
	if err != nil {
		t.Fatalf("DateTimeFromSeconds(-1): %v", err)
	}
	want := CivilDate{1969, 12, 31}
	if d != want || tm != (CivilTime{23, 59, 59, 0}) {
		t.Errorf("got (%+v, %+v), want (%+v, 23:59:59)", d, tm, want)
	}

	d, tm, err = Checked.DateTimeFromMillis(-1)
	if err != nil {
		t.Fatalf("DateTimeFromMillis(-1): %v", err)
	}
	if d != want || tm != (CivilTime{23, 59, 59, 999 * NanosPerMilli}) {
		t.Errorf("got (%+v, %+v), want (%+v, 23:59:59.999)", d, tm, want)
	}
}

func TestPolicySentinel(t *testing.T) {
	bad := CivilDate{2024, 13, 1}

	got, err := Clamped.Seconds(bad, Midnight)
	if err != nil {
		t.Fatalf("Clamped.Seconds: unexpected error %v", err)
	}
	if got != Invalid {
		t.Errorf("Clamped.Seconds = %d, want Invalid", got)
	}

	if _, err := Checked.Seconds(bad, Midnight); err != validate.ErrDateRange {
		t.Errorf("Checked.Seconds err = %v, want ErrDateRange", err)
	}

	// Unvalidated must not fail, and must not corrupt later calls.
	if _, err := Unchecked.Seconds(bad, Midnight); err != nil {
		t.Errorf("Unchecked.Seconds err = %v, want nil", err)
	}
	if v, err := Unchecked.Seconds(CivilDate{1970, 1, 1}, Midnight); err != nil || v != 0 {
		t.Errorf("Unchecked.Seconds after bad input = (%d, %v), want (0, nil)", v, err)
	}
}

func TestSentinelDatePortion(t *testing.T) {
	// A day count far outside the supported year range yields the invalid
	// date marker under the sentinel policy, and an error under strict.
	huge := int64(validate.YearMax+10) * 366

	d, _, err := Clamped.DateTimeFromSeconds(huge * SecondsPerDay)
	if err != nil {
		t.Fatalf("Clamped.DateTimeFromSeconds: %v", err)
	}
	if d.IsValid() {
		t.Errorf("date = %+v, want invalid sentinel", d)
	}

	if _, _, err := Checked.DateTimeFromSeconds(huge * SecondsPerDay); err != validate.ErrDateRange {
		t.Errorf("Checked err = %v, want ErrDateRange", err)
	}
}

func TestNanoYearWindow(t *testing.T) {
	inside := CivilDate{2024, 6, 1}
	outside := CivilDate{1500, 6, 1}

	if _, err := Checked.Nanos(inside, Midnight); err != nil {
		t.Errorf("Nanos(2024): %v", err)
	}
	if _, err := Checked.Nanos(outside, Midnight); err != validate.ErrDateRange {
		t.Errorf("Nanos(1500) err = %v, want ErrDateRange", err)
	}
	if got, err := Clamped.Nanos(outside, Midnight); err != nil || got != Invalid {
		t.Errorf("Clamped.Nanos(1500) = (%d, %v), want (Invalid, nil)", got, err)
	}
	// 1500 is fine at second precision.
	if _, err := Checked.Seconds(outside, Midnight); err != nil {
		t.Errorf("Seconds(1500): %v", err)
	}
}

func TestInvalidSentinelValue(t *testing.T) {
	if Invalid != math.MinInt64 {
		t.Errorf("Invalid = %d, want math.MinInt64", int64(Invalid))
	}
}
