package tz

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/maypok86/otter/v2"
	"golang.org/x/sync/singleflight"
)

// Loader supplies transition data for zone identifiers the registry has
// not seen before. Implementations must be safe for concurrent use.
type Loader interface {
	Load(id string) (*Zone, error)
}

// ErrZoneNotFound is returned when an identifier is neither a fixed-offset
// form nor known to the loader.
var ErrZoneNotFound = errors.New("timezone not found")

// Registry is a process-wide cache of resolved zones. Entries are inserted
// once and never removed. Concurrent lookups of the same uncached
// identifier are collapsed to a single construction; either way all racing
// callers observe the one retained Zone.
type Registry struct {
	cache  *otter.Cache[string, *Zone]
	group  singleflight.Group
	loader Loader
	logger *slog.Logger
}

// NewRegistry builds a registry around a loader and eagerly installs the
// well-known zones: UTC, the system's local zone, and America/New_York.
// Preloading happens before the registry is shared, so later access needs
// no coordination beyond the cache itself.
func NewRegistry(loader Loader, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		cache: otter.Must(&otter.Options[string, *Zone]{
			// Several times the IANA zone universe, so named zones are
			// never evicted in practice. The bound only caps unbounded
			// streams of distinct fixed-offset identifiers; rebuilding
			// an evicted zone is idempotent.
			MaximumSize: 4_096,
		}),
		loader: loader,
		logger: logger,
	}
	r.cache.Set("UTC", FixedZone("UTC", 0))
	r.preload("America/New_York")
	r.preloadLocal()
	return r
}

func (r *Registry) preload(id string) {
	z, err := r.construct(id)
	if err != nil {
		r.logger.Warn("preload skipped", "zone", id, "error", err)
		return
	}
	r.cache.Set(id, z)
}

// preloadLocal resolves the system zone once at startup and registers it
// under "Local".
func (r *Registry) preloadLocal() {
	id := systemZoneID()
	z, err := r.construct(id)
	if err != nil {
		r.logger.Warn("system zone unavailable, Local falls back to UTC",
			"zone", id, "error", err)
		z = FixedZone("Local", 0)
	}
	r.cache.Set("Local", z)
}

// Zone returns the zone for an identifier, constructing and caching it on
// first use. Identifiers are case sensitive, matching the IANA database.
func (r *Registry) Zone(id string) (*Zone, error) {
	if z, ok := r.cache.GetIfPresent(id); ok {
		return z, nil
	}
	v, err, _ := r.group.Do(id, func() (any, error) {
		if z, ok := r.cache.GetIfPresent(id); ok {
			return z, nil
		}
		z, err := r.construct(id)
		if err != nil {
			return nil, err
		}
		r.cache.Set(id, z)
		r.logger.Debug("zone cached", "zone", id, "fixed", z.IsFixed())
		return z, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Zone), nil
}

// construct builds a zone without touching the cache. Fixed-offset
// identifiers never consult the loader.
func (r *Registry) construct(id string) (*Zone, error) {
	if offset, ok := ParseFixedOffset(id); ok {
		return FixedZone(id, offset), nil
	}
	if r.loader == nil {
		return nil, fmt.Errorf("%q: %w", id, ErrZoneNotFound)
	}
	z, err := r.loader.Load(id)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", id, err)
	}
	return z, nil
}

// ParseFixedOffset recognizes fixed-offset identifiers: "UTC", "GMT",
// "UT", "Z", and signed offsets "±hh", "±hh:mm", "±hh:mm:ss" with an
// optional "UTC"/"GMT" prefix. It returns the offset in seconds east of
// UTC.
func ParseFixedOffset(id string) (int32, bool) {
	switch id {
	case "UTC", "GMT", "UT", "Z", "Zulu":
		return 0, true
	}
	s := strings.TrimPrefix(strings.TrimPrefix(id, "UTC"), "GMT")
	if s == "" || s == id && !strings.HasPrefix(s, "+") && !strings.HasPrefix(s, "-") {
		return 0, false
	}
	sign := int32(1)
	switch s[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return 0, false
	}
	parts := strings.Split(s[1:], ":")
	if len(parts) > 3 {
		return 0, false
	}
	units := []int32{3_600, 60, 1}
	var total int32
	for i, p := range parts {
		if p == "" {
			return 0, false
		}
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return 0, false
		}
		if i == 0 && v > 18 || i > 0 && v > 59 {
			return 0, false
		}
		total += int32(v) * units[i]
	}
	if total > 18*3_600 {
		return 0, false
	}
	return sign * total, true
}

// systemZoneID determines the host's zone identifier from TZ or the
// /etc/localtime symlink, defaulting to UTC.
func systemZoneID() string {
	if tz := os.Getenv("TZ"); tz != "" {
		return strings.TrimPrefix(tz, ":")
	}
	if target, err := os.Readlink("/etc/localtime"); err == nil {
		// Typically .../zoneinfo/Area/Location.
		clean := filepath.ToSlash(target)
		if i := strings.Index(clean, "zoneinfo/"); i >= 0 {
			return clean[i+len("zoneinfo/"):]
		}
	}
	return "UTC"
}
