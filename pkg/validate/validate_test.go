package validate

import "testing"

func TestDateValid(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month int
		day   int
		want  bool
	}{
		{"ordinary day", 2024, 6, 15, true},
		{"leap day in leap year", 2024, 2, 29, true},
		{"leap day in common year", 2023, 2, 29, false},
		{"leap day in leap century", 2000, 2, 29, true},
		{"leap day in common century", 1900, 2, 29, false},
		{"month thirteen", 2024, 13, 1, false},
		{"month zero", 2024, 0, 1, false},
		{"day zero", 2024, 1, 0, false},
		{"day thirty-two", 2024, 1, 32, false},
		{"april thirty-one", 2024, 4, 31, false},
		{"year below min", YearMin - 1, 1, 1, false},
		{"year at min", YearMin, 1, 1, true},
		{"year at max", YearMax, 12, 31, true},
		{"year above max", YearMax + 1, 1, 1, false},
		{"proleptic negative year", -44, 3, 15, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DateValid(tt.year, tt.month, tt.day); got != tt.want {
				t.Errorf("DateValid(%d,%d,%d) = %v, want %v",
					tt.year, tt.month, tt.day, got, tt.want)
			}
		})
	}
}

func TestTimeValid(t *testing.T) {
	tests := []struct {
		h, m, s int
		want    bool
	}{
		{0, 0, 0, true},
		{23, 59, 59, true},
		{24, 0, 0, false},
		{-1, 0, 0, false},
		{0, 60, 0, false},
		{0, 0, 60, false}, // leap seconds are not modeled
	}
	for _, tt := range tests {
		if got := TimeValid(tt.h, tt.m, tt.s); got != tt.want {
			t.Errorf("TimeValid(%d,%d,%d) = %v, want %v", tt.h, tt.m, tt.s, got, tt.want)
		}
	}
}

func TestPolicyBehavior(t *testing.T) {
	// month=13 under each policy: Unvalidated passes everything through,
	// Strict errors, Sentinel asks the caller for a sentinel result.
	if ok, err := Unvalidated.CheckDate(2024, 13, 1); !ok || err != nil {
		t.Errorf("Unvalidated.CheckDate = (%v, %v), want (true, nil)", ok, err)
	}
	if ok, err := Strict.CheckDate(2024, 13, 1); ok || err != ErrDateRange {
		t.Errorf("Strict.CheckDate = (%v, %v), want (false, ErrDateRange)", ok, err)
	}
	if ok, err := Sentinel.CheckDate(2024, 13, 1); ok || err != nil {
		t.Errorf("Sentinel.CheckDate = (%v, %v), want (false, nil)", ok, err)
	}

	if ok, err := Strict.CheckTime(25, 0, 0); ok || err != ErrTimeRange {
		t.Errorf("Strict.CheckTime = (%v, %v), want (false, ErrTimeRange)", ok, err)
	}
	if ok, err := Sentinel.CheckTimeMilli(12, 0, 0, 1000); ok || err != nil {
		t.Errorf("Sentinel.CheckTimeMilli = (%v, %v), want (false, nil)", ok, err)
	}
	if ok, err := Strict.CheckTimeNano(12, 0, 0, 1_000_000_000); ok || err != ErrTimeRange {
		t.Errorf("Strict.CheckTimeNano = (%v, %v), want (false, ErrTimeRange)", ok, err)
	}
}

func TestNanoYearBounds(t *testing.T) {
	for _, year := range []int{NanoYearMin, NanoYearMax, 1970, 2024} {
		if ok, err := Strict.CheckNanoYear(year); !ok || err != nil {
			t.Errorf("CheckNanoYear(%d) = (%v, %v), want (true, nil)", year, ok, err)
		}
	}
	for _, year := range []int{NanoYearMin - 1, NanoYearMax + 1, 0} {
		if ok, _ := Strict.CheckNanoYear(year); ok {
			t.Errorf("CheckNanoYear(%d) ok, want out of range", year)
		}
	}
	// The wider bounds still apply on the second/milli paths.
	if ok, err := Strict.CheckYear(NanoYearMin - 1); !ok || err != nil {
		t.Errorf("CheckYear(%d) = (%v, %v), want (true, nil)", NanoYearMin-1, ok, err)
	}
}

func TestPolicyString(t *testing.T) {
	tests := []struct {
		p    Policy
		want string
	}{
		{Unvalidated, "unvalidated"},
		{Strict, "strict"},
		{Sentinel, "sentinel"},
		{Policy(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("Policy(%d).String() = %q, want %q", tt.p, got, tt.want)
		}
	}
}
