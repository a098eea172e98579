// Package tzsource locates raw TZif data for zone names and parses it
// into zones. Lookups try custom zone definitions first, then a set of
// zoneinfo directories, then an optional HTTPS mirror. Fetched data is
// cached so repeated lookups of the same zone never touch the network
// twice.
package tzsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/maypok86/otter/v2"
	"gopkg.in/yaml.v3"

	"github.com/codeGROOVE-dev/tickTZ/pkg/posixtz"
	"github.com/codeGROOVE-dev/tickTZ/pkg/tz"
	"github.com/codeGROOVE-dev/tickTZ/pkg/tzif"

	"log/slog"
)

// ErrNotFound is returned when no search location has data for a zone.
var ErrNotFound = errors.New("zone data not found")

// ErrBadZoneName is returned for zone names that could escape the
// zoneinfo directory or that no database would contain.
var ErrBadZoneName = errors.New("invalid zone name")

// defaultDirs are the zoneinfo locations probed when no explicit
// directory is configured, in order.
var defaultDirs = []string{
	"/usr/share/zoneinfo",
	"/usr/share/lib/zoneinfo",
	"/usr/lib/locale/TZ",
	"/etc/zoneinfo",
}

// Source finds and parses TZif data. It implements the loader interface
// expected by tz.NewRegistry.
type Source struct {
	logger *slog.Logger
	client *http.Client
	cache  *otter.Cache[string, []byte]
	custom map[string]*tz.Zone
	dirs   []string
	mirror string
}

// Option configures a Source.
type Option func(*Source)

// WithDir prepends a zoneinfo directory to the search path.
func WithDir(dir string) Option {
	return func(s *Source) {
		s.dirs = append([]string{dir}, s.dirs...)
	}
}

// WithMirror enables fetching zone data from an HTTPS mirror laid out
// like a zoneinfo tree, e.g. https://example.com/zoneinfo.
func WithMirror(baseURL string) Option {
	return func(s *Source) {
		s.mirror = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the client used for mirror fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Source) {
		s.client = client
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) {
		s.logger = logger
	}
}

// New builds a Source. The search path is any WithDir directories,
// then $ZONEINFO if set, then the usual system locations.
func New(opts ...Option) *Source {
	s := &Source{
		logger: slog.New(slog.DiscardHandler),
		client: &http.Client{Timeout: 10 * time.Second},
		cache: otter.Must(&otter.Options[string, []byte]{
			MaximumSize: 1_000,
		}),
		custom: make(map[string]*tz.Zone),
	}
	if dir := os.Getenv("ZONEINFO"); dir != "" {
		s.dirs = append(s.dirs, dir)
	}
	s.dirs = append(s.dirs, defaultDirs...)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load resolves a zone name to a parsed zone.
func (s *Source) Load(id string) (*tz.Zone, error) {
	if err := checkZoneName(id); err != nil {
		return nil, err
	}
	if zone, ok := s.custom[id]; ok {
		return zone, nil
	}
	data, err := s.rawData(id)
	if err != nil {
		return nil, err
	}
	zone, err := tzif.Parse(id, data)
	if err != nil {
		return nil, fmt.Errorf("zone %q: %w", id, err)
	}
	return zone, nil
}

func (s *Source) rawData(id string) ([]byte, error) {
	if data, ok := s.cache.GetIfPresent(id); ok {
		return data, nil
	}
	for _, dir := range s.dirs {
		data, err := os.ReadFile(filepath.Join(dir, id))
		if err != nil {
			continue
		}
		s.logger.Debug("zone data loaded from disk", "zone", id, "dir", dir)
		s.cache.Set(id, data)
		return data, nil
	}
	if s.mirror != "" {
		data, err := s.fetch(id)
		if err != nil {
			return nil, err
		}
		s.cache.Set(id, data)
		return data, nil
	}
	return nil, fmt.Errorf("zone %q: %w", id, ErrNotFound)
}

// fetch downloads zone data from the mirror with exponential backoff
// and jitter.
func (s *Source) fetch(id string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	url := s.mirror + "/" + id
	var body []byte
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
			if err != nil {
				return err
			}
			resp, err := s.client.Do(req)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := resp.Body.Close(); closeErr != nil {
					s.logger.Debug("failed to close response body", "error", closeErr)
				}
			}()
			if resp.StatusCode == http.StatusNotFound {
				return retry.Unrecoverable(fmt.Errorf("zone %q: %w", id, ErrNotFound))
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("HTTP %d fetching %s", resp.StatusCode, url)
			}
			body, err = io.ReadAll(io.LimitReader(resp.Body, 1<<20))
			return err
		},
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(time.Second),
		retry.MaxDelay(30*time.Second),
		retry.DelayType(retry.FullJitterBackoffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Debug("retrying zone fetch", "attempt", n+1, "url", url, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("fetching zone %q: %w", id, err)
	}
	s.logger.Debug("zone data fetched from mirror", "zone", id, "bytes", len(body))
	return body, nil
}

// customZoneFile is the on-disk shape of a custom zone definition file.
// Each entry maps a zone name to either a fixed offset ("+09:30",
// "UTC-5") or a POSIX TZ string ("EST5EDT,M3.2.0,M11.1.0").
type customZoneFile struct {
	Zones map[string]string `yaml:"zones"`
}

// LoadCustomZones reads a YAML file of custom zone definitions. Later
// calls add to and override earlier definitions.
func (s *Source) LoadCustomZones(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading custom zones: %w", err)
	}
	return s.AddCustomZones(data)
}

// AddCustomZones parses YAML custom zone definitions from memory.
func (s *Source) AddCustomZones(data []byte) error {
	var file customZoneFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing custom zones: %w", err)
	}
	for id, def := range file.Zones {
		if err := checkZoneName(id); err != nil {
			return fmt.Errorf("custom zone %q: %w", id, err)
		}
		zone, err := zoneFromDef(id, def)
		if err != nil {
			return fmt.Errorf("custom zone %q: %w", id, err)
		}
		s.custom[id] = zone
		s.logger.Debug("custom zone registered", "zone", id, "definition", def)
	}
	return nil
}

func zoneFromDef(id, def string) (*tz.Zone, error) {
	if offset, ok := tz.ParseFixedOffset(def); ok {
		return tz.FixedZone(id, offset), nil
	}
	parsed, err := posixtz.Parse(def)
	if err != nil {
		return nil, err
	}
	return parsed.Zone(id)
}

// checkZoneName rejects names with path traversal components, absolute
// paths, and characters outside the zoneinfo naming convention.
func checkZoneName(id string) error {
	if id == "" || len(id) > 128 || id[0] == '/' || id[0] == '.' {
		return ErrBadZoneName
	}
	for _, part := range strings.Split(id, "/") {
		if part == "" || part == "." || part == ".." {
			return ErrBadZoneName
		}
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '/' || c == '_' || c == '-' || c == '+' || c == '.':
		default:
			return ErrBadZoneName
		}
	}
	return nil
}
