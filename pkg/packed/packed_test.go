package packed

import (
	"testing"

	"github.com/codeGROOVE-dev/tickTZ/pkg/epoch"
)

func TestDatePackUnpack(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month int
		day   int
	}{
		{"epoch", 1970, 1, 1},
		{"leap day", 2024, 2, 29},
		{"year end", 2023, 12, 31},
		{"year one", 1, 1, 1},
		{"negative year", -44, 3, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := PackDate(tt.year, tt.month, tt.day)
			if d.Year() != tt.year || d.Month() != tt.month || d.Day() != tt.day {
				t.Errorf("PackDate(%d,%d,%d) unpacked to (%d,%d,%d)",
					tt.year, tt.month, tt.day, d.Year(), d.Month(), d.Day())
			}
		})
	}
}

func TestDateOrdering(t *testing.T) {
	// Bit layout keeps calendar order for non-negative years.
	a := PackDate(2024, 3, 9)
	b := PackDate(2024, 3, 10)
	c := PackDate(2024, 4, 1)
	d := PackDate(2025, 1, 1)
	if !(a < b && b < c && c < d) {
		t.Errorf("packed dates out of order: %d %d %d %d", a, b, c, d)
	}
}

func TestTimePackUnpack(t *testing.T) {
	tests := []struct {
		h, m, s, ms int
	}{
		{0, 0, 0, 0},
		{23, 59, 59, 999},
		{12, 30, 45, 500},
		{2, 30, 0, 0},
	}
	for _, tt := range tests {
		tm := PackTime(tt.h, tt.m, tt.s, tt.ms)
		if tm.Hour() != tt.h || tm.Minute() != tt.m || tm.Second() != tt.s || tm.Milli() != tt.ms {
			t.Errorf("PackTime(%d,%d,%d,%d) unpacked to (%d,%d,%d,%d)",
				tt.h, tt.m, tt.s, tt.ms, tm.Hour(), tm.Minute(), tm.Second(), tm.Milli())
		}
	}
}

func TestDecimalForms(t *testing.T) {
	d := PackDecimalDate(2024, 2, 29)
	if int32(d) != 20240229 {
		t.Errorf("PackDecimalDate = %d, want 20240229", d)
	}
	if d.Year() != 2024 || d.Month() != 2 || d.Day() != 29 {
		t.Errorf("decimal date unpacked to (%d,%d,%d)", d.Year(), d.Month(), d.Day())
	}

	tm := PackDecimalTime(23, 59, 59, 999)
	if int32(tm) != 235959999 {
		t.Errorf("PackDecimalTime = %d, want 235959999", tm)
	}
	if tm.Hour() != 23 || tm.Minute() != 59 || tm.Second() != 59 || tm.Milli() != 999 {
		t.Errorf("decimal time unpacked to (%d,%d,%d,%d)",
			tm.Hour(), tm.Minute(), tm.Second(), tm.Milli())
	}
}

func TestCivilAdapters(t *testing.T) {
	cd := epoch.CivilDate{Year: 2024, Month: 6, Day: 15}
	if got := FromCivil(cd).Civil(); got != cd {
		t.Errorf("civil date adapter round trip = %+v, want %+v", got, cd)
	}

	ct := epoch.CivilTime{Hour: 9, Minute: 30, Second: 1, Nano: 250 * epoch.NanosPerMilli}
	if got := FromCivilTime(ct).Civil(); got != ct {
		t.Errorf("civil time adapter round trip = %+v, want %+v", got, ct)
	}

	// A packed date converts through the epoch layer exactly.
	days, err := epoch.Checked.Days(FromCivil(cd).Civil())
	if err != nil {
		t.Fatalf("Days: %v", err)
	}
	back, err := epoch.Checked.DateFromDays(days)
	if err != nil {
		t.Fatalf("DateFromDays: %v", err)
	}
	if back != cd {
		t.Errorf("epoch round trip via packed = %+v, want %+v", back, cd)
	}
}
