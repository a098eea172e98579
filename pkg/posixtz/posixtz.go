// Package posixtz parses POSIX TZ environment strings, the format TZif
// footers use to describe offsets beyond the tabulated history, e.g.
// "EST5EDT,M3.2.0,M11.1.0". Offsets in the string count seconds west of
// UTC; everything this package returns counts seconds east, matching the
// rest of the library.
package posixtz

import (
	"errors"
	"fmt"
	"strings"

	"github.com/codeGROOVE-dev/tickTZ/pkg/tz"
)

// ErrSyntax is returned for strings that do not follow the POSIX grammar.
var ErrSyntax = errors.New("invalid POSIX TZ string")

// TZ is a parsed POSIX TZ string: always a standard-time name and offset,
// optionally a DST name, offset and the pair of recurring rules switching
// between them.
type TZ struct {
	StdName   string
	StdOffset int32 // seconds east of UTC
	DstName   string
	DstOffset int32 // seconds east of UTC, meaningful only when HasDST
	HasDST    bool
	Start     tz.Rule // DST begins, meaningful only when HasDST
	End       tz.Rule // DST ends, meaningful only when HasDST
}

// Rules returns the recurring transition rules, empty for a fixed zone.
func (p TZ) Rules() []tz.Rule {
	if !p.HasDST {
		return nil
	}
	return []tz.Rule{p.Start, p.End}
}

// Zone converts the parsed string into a tz.Zone named id. Fixed strings
// become fixed zones; DST strings become rule-based zones with an empty
// transition history and two recurring rules.
func (p TZ) Zone(id string) (*tz.Zone, error) {
	if !p.HasDST {
		return tz.FixedZone(id, p.StdOffset), nil
	}
	tb, err := tz.NewTransitionTable(nil, []int32{p.StdOffset},
		nil, []int32{p.StdOffset}, p.Rules())
	if err != nil {
		return nil, err
	}
	return tz.NewZone(id, tb), nil
}

// Parse parses a POSIX TZ string. When a DST name is present without an
// explicit offset, DST is one hour ahead of standard time; when rules are
// absent the common US defaults (M3.2.0,M11.1.0) apply, matching zoneinfo
// practice.
func Parse(s string) (TZ, error) {
	var p TZ
	rest := s

	var ok bool
	p.StdName, rest, ok = parseName(rest)
	if !ok {
		return TZ{}, fmt.Errorf("%w: %q: missing standard name", ErrSyntax, s)
	}
	var west int
	west, rest, ok = parseOffset(rest)
	if !ok {
		return TZ{}, fmt.Errorf("%w: %q: missing standard offset", ErrSyntax, s)
	}
	p.StdOffset = int32(-west)

	if rest == "" {
		return p, nil
	}

	p.DstName, rest, ok = parseName(rest)
	if !ok {
		return TZ{}, fmt.Errorf("%w: %q: trailing garbage", ErrSyntax, s)
	}
	p.HasDST = true
	p.DstOffset = p.StdOffset + 3_600
	if rest != "" && rest[0] != ',' {
		west, rest, ok = parseOffset(rest)
		if !ok {
			return TZ{}, fmt.Errorf("%w: %q: bad DST offset", ErrSyntax, s)
		}
		p.DstOffset = int32(-west)
	}

	startRule := "M3.2.0"
	endRule := "M11.1.0"
	if rest != "" {
		if rest[0] != ',' {
			return TZ{}, fmt.Errorf("%w: %q: expected rule separator", ErrSyntax, s)
		}
		var i int
		for i = 1; i < len(rest) && rest[i] != ','; i++ {
		}
		if i == len(rest) {
			return TZ{}, fmt.Errorf("%w: %q: missing end rule", ErrSyntax, s)
		}
		startRule = rest[1:i]
		endRule = rest[i+1:]
		if startRule == "" || endRule == "" {
			return TZ{}, fmt.Errorf("%w: %q: empty rule", ErrSyntax, s)
		}
	}

	var err error
	p.Start, err = parseRule(startRule, p.StdOffset, p.StdOffset, p.DstOffset)
	if err != nil {
		return TZ{}, fmt.Errorf("%w: %q: start rule: %v", ErrSyntax, s, err)
	}
	p.End, err = parseRule(endRule, p.StdOffset, p.DstOffset, p.StdOffset)
	if err != nil {
		return TZ{}, fmt.Errorf("%w: %q: end rule: %v", ErrSyntax, s, err)
	}
	return p, nil
}

// parseName consumes a zone abbreviation: three or more alphabetic
// characters, or an arbitrary <>-quoted alphanumeric name (V3).
func parseName(s string) (name, rest string, ok bool) {
	if s == "" {
		return "", s, false
	}
	if s[0] == '<' {
		for i := 1; i < len(s); i++ {
			if s[i] == '>' {
				return s[1:i], s[i+1:], i > 1
			}
		}
		return "", s, false
	}
	i := 0
	for i < len(s) && isAlpha(s[i]) {
		i++
	}
	if i < 3 {
		return "", s, false
	}
	return s[:i], s[i:], true
}

// parseOffset consumes [+-]hh[:mm[:ss]] and returns seconds west of UTC.
func parseOffset(s string) (west int, rest string, ok bool) {
	sign := 1
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}
	var parts [3]int
	for i := range 3 {
		var n, digits int
		for len(s) > 0 && s[0] >= '0' && s[0] <= '9' {
			n = n*10 + int(s[0]-'0')
			digits++
			s = s[1:]
		}
		if digits == 0 {
			return 0, s, false
		}
		parts[i] = n
		if len(s) == 0 || s[0] != ':' || i == 2 {
			break
		}
		s = s[1:]
	}
	if parts[0] > 167 || parts[1] > 59 || parts[2] > 59 {
		return 0, s, false
	}
	return sign * (parts[0]*3_600 + parts[1]*60 + parts[2]), s, true
}

// parseRule parses a single transition rule: Mm.w.d, Jn or n forms with an
// optional /time suffix. The rule time defaults to 02:00 local and is a
// wall-clock reading; V3 allows signed times up to 167 hours.
func parseRule(s string, stdOffset, offsetBefore, offsetAfter int32) (tz.Rule, error) {
	r := tz.Rule{
		DayOfWeek:      -1,
		SecondOfDay:    2 * 3_600,
		Mode:           tz.ModeWall,
		StandardOffset: stdOffset,
		OffsetBefore:   offsetBefore,
		OffsetAfter:    offsetAfter,
	}
	day := s
	if i := strings.IndexByte(s, '/'); i >= 0 {
		day = s[:i]
		// Rule times are signed local readings, not west-of-UTC offsets.
		sec, rest, ok := parseOffset(s[i+1:])
		if !ok || rest != "" {
			return tz.Rule{}, fmt.Errorf("bad time %q", s[i+1:])
		}
		r.SecondOfDay = sec
	}
	switch {
	case day == "":
		return tz.Rule{}, errors.New("empty day")
	case day[0] == 'M':
		parts := strings.Split(day[1:], ".")
		if len(parts) != 3 {
			return tz.Rule{}, fmt.Errorf("bad month rule %q", day)
		}
		m, okM := atoi(parts[0])
		w, okW := atoi(parts[1])
		d, okD := atoi(parts[2])
		if !okM || !okW || !okD {
			return tz.Rule{}, fmt.Errorf("bad month rule %q", day)
		}
		if m < 1 || m > 12 || w < 1 || w > 5 || d < 0 || d > 6 {
			return tz.Rule{}, fmt.Errorf("month rule %q out of range", day)
		}
		r.Month = m
		r.DayOfWeek = d
		if w == 5 {
			// Last matching weekday of the month.
			r.DayOfMonth = -1
		} else {
			r.DayOfMonth = (w-1)*7 + 1
		}
	case day[0] == 'J':
		n, ok := atoi(day[1:])
		if !ok || n < 1 || n > 365 {
			return tz.Rule{}, fmt.Errorf("bad Julian rule %q", day)
		}
		// Jn never counts February 29, so it maps to a fixed month and
		// day in every year.
		r.Month, r.DayOfMonth = monthDayFromJulian(n)
	default:
		n, ok := atoi(day)
		if !ok || n < 0 || n > 365 {
			return tz.Rule{}, fmt.Errorf("bad day rule %q", day)
		}
		// Zero-based and counting the leap day.
		r.DayOfYear = n + 1
	}
	return r, nil
}

// monthDayFromJulian converts a 1-based leap-day-free day of year to a
// common-year month and day.
func monthDayFromJulian(n int) (month, day int) {
	lengths := [...]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	month = 1
	for n > lengths[month-1] {
		n -= lengths[month-1]
		month++
	}
	return month, n
}

func isAlpha(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func atoi(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
		n = n*10 + int(s[i]-'0')
	}
	return n, true
}
