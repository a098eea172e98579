package tz

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
)

// mapLoader serves zones from a fixed map and counts constructions.
type mapLoader struct {
	mu    sync.Mutex
	zones map[string]*Zone
	loads map[string]int
}

func (l *mapLoader) Load(id string) (*Zone, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.loads == nil {
		l.loads = make(map[string]int)
	}
	l.loads[id]++
	z, ok := l.zones[id]
	if !ok {
		return nil, ErrZoneNotFound
	}
	return z, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testLoader(t *testing.T) *mapLoader {
	t.Helper()
	return &mapLoader{zones: map[string]*Zone{
		"America/New_York": easternZone(t, 2015, 2020, true),
		"Australia/Sydney": FixedZone("Australia/Sydney", 36_000),
	}}
}

func TestParseFixedOffset(t *testing.T) {
	tests := []struct {
		id     string
		offset int32
		ok     bool
	}{
		{"UTC", 0, true},
		{"GMT", 0, true},
		{"Z", 0, true},
		{"UTC+10", 36_000, true},
		{"UTC+05:30", 19_800, true},
		{"UTC-08", -28_800, true},
		{"+05:00", 18_000, true},
		{"-03:30", -12_600, true},
		{"UTC-08:15:30", -29_730, true},
		{"GMT+1", 3_600, true},
		{"UTC+18", 64_800, true},
		{"UTC+19", 0, false},
		{"UTC+10:60", 0, false},
		{"UTC+", 0, false},
		{"America/New_York", 0, false},
		{"", 0, false},
		{"5", 0, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.id), func(t *testing.T) {
			offset, ok := ParseFixedOffset(tt.id)
			if ok != tt.ok || offset != tt.offset {
				t.Errorf("ParseFixedOffset(%q) = (%d, %v), want (%d, %v)",
					tt.id, offset, ok, tt.offset, tt.ok)
			}
		})
	}
}

func TestRegistryPreloaded(t *testing.T) {
	r := NewRegistry(testLoader(t), quietLogger())

	utc, err := r.Zone("UTC")
	if err != nil {
		t.Fatalf("Zone(UTC): %v", err)
	}
	if !utc.IsFixed() || utc.OffsetForInstant(0) != 0 {
		t.Errorf("UTC zone = %+v, want fixed zero", utc)
	}

	local, err := r.Zone("Local")
	if err != nil {
		t.Fatalf("Zone(Local): %v", err)
	}
	if local == nil {
		t.Fatal("Zone(Local) = nil")
	}

	ny, err := r.Zone("America/New_York")
	if err != nil {
		t.Fatalf("Zone(America/New_York): %v", err)
	}
	if ny.IsFixed() {
		t.Error("America/New_York resolved as fixed")
	}
}

func TestRegistryCachesOnFirstUse(t *testing.T) {
	loader := testLoader(t)
	r := NewRegistry(loader, quietLogger())

	z1, err := r.Zone("Australia/Sydney")
	if err != nil {
		t.Fatalf("Zone: %v", err)
	}
	z2, err := r.Zone("Australia/Sydney")
	if err != nil {
		t.Fatalf("Zone: %v", err)
	}
	if z1 != z2 {
		t.Error("second lookup returned a different zone instance")
	}
	if n := loader.loads["Australia/Sydney"]; n != 1 {
		t.Errorf("loader invoked %d times, want 1", n)
	}
}

func TestRegistryFixedOffsetWithoutLoader(t *testing.T) {
	r := NewRegistry(nil, quietLogger())

	z, err := r.Zone("UTC+05:30")
	if err != nil {
		t.Fatalf("Zone(UTC+05:30): %v", err)
	}
	if got := z.OffsetForInstant(1_700_000_000); got != 19_800 {
		t.Errorf("offset = %d, want 19800", got)
	}

	if _, err := r.Zone("Mars/Olympus_Mons"); !errors.Is(err, ErrZoneNotFound) {
		t.Errorf("err = %v, want ErrZoneNotFound", err)
	}
}

func TestRegistryConcurrentLookups(t *testing.T) {
	loader := testLoader(t)
	r := NewRegistry(loader, quietLogger())

	const workers = 32
	zones := make([]*Zone, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			z, err := r.Zone("Australia/Sydney")
			if err != nil {
				t.Errorf("Zone: %v", err)
				return
			}
			zones[i] = z
		}()
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if zones[i] != zones[0] {
			t.Fatalf("worker %d observed a different zone instance", i)
		}
	}
}
