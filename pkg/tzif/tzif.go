// Package tzif reads TZif timezone files (RFC 8536), the format shipped
// in IANA zoneinfo databases, and converts them into tz transition
// tables. Version 1 blocks carry 32-bit transition times; version 2 and
// later append a 64-bit block and a footer holding a POSIX TZ string that
// extends the zone beyond the tabulated history.
package tzif

import (
	"errors"
	"fmt"

	"github.com/codeGROOVE-dev/tickTZ/pkg/posixtz"
	"github.com/codeGROOVE-dev/tickTZ/pkg/tz"
)

// ErrBadData is returned for input that does not follow the TZif format.
var ErrBadData = errors.New("malformed TZif data")

// zoneType is one local time type record: an offset and whether it is
// daylight saving.
type zoneType struct {
	offset int32 // seconds east of UTC
	isDST  bool
}

// Parse converts TZif data into a zone named id.
func Parse(id string, data []byte) (*tz.Zone, error) {
	d := &reader{p: data}

	version, counts, err := readHeader(d)
	if err != nil {
		return nil, err
	}
	if version >= 2 {
		// Skip the legacy 32-bit block; the 64-bit block that follows
		// supersedes it.
		skip := counts.timeCnt*5 + counts.typeCnt*6 + counts.charCnt +
			counts.leapCnt*8 + counts.isStdCnt + counts.isUTCnt
		if d.read(skip) == nil {
			return nil, fmt.Errorf("%w: truncated v1 block", ErrBadData)
		}
		if _, counts, err = readHeader(d); err != nil {
			return nil, err
		}
	}

	timeSize := 8
	if version == 1 {
		timeSize = 4
	}

	transitionTimes := make([]int64, counts.timeCnt)
	for i := range transitionTimes {
		if timeSize == 4 {
			v, ok := d.big4()
			if !ok {
				return nil, fmt.Errorf("%w: truncated transition times", ErrBadData)
			}
			transitionTimes[i] = int64(int32(v))
		} else {
			v, ok := d.big8()
			if !ok {
				return nil, fmt.Errorf("%w: truncated transition times", ErrBadData)
			}
			transitionTimes[i] = int64(v)
		}
	}
	typeIndexes := d.read(counts.timeCnt)
	if typeIndexes == nil {
		return nil, fmt.Errorf("%w: truncated type indexes", ErrBadData)
	}

	types := make([]zoneType, counts.typeCnt)
	for i := range types {
		v, ok := d.big4()
		if !ok {
			return nil, fmt.Errorf("%w: truncated time types", ErrBadData)
		}
		dst, ok := d.byte()
		if !ok || dst > 1 {
			return nil, fmt.Errorf("%w: bad DST indicator", ErrBadData)
		}
		if _, ok := d.byte(); !ok { // abbreviation index, unused here
			return nil, fmt.Errorf("%w: truncated time types", ErrBadData)
		}
		types[i] = zoneType{offset: int32(v), isDST: dst == 1}
	}
	for _, idx := range typeIndexes {
		if int(idx) >= len(types) {
			return nil, fmt.Errorf("%w: type index %d out of range", ErrBadData, idx)
		}
	}

	// Abbreviations, leap seconds and std/UT indicators are not needed
	// for offset resolution.
	skip := counts.charCnt + counts.leapCnt*(4+timeSize) + counts.isStdCnt + counts.isUTCnt
	if d.read(skip) == nil {
		return nil, fmt.Errorf("%w: truncated trailing data", ErrBadData)
	}

	var rules []tz.Rule
	if version >= 2 {
		footer, err := readFooter(d)
		if err != nil {
			return nil, err
		}
		if footer != "" {
			parsed, err := posixtz.Parse(footer)
			if err != nil {
				return nil, fmt.Errorf("footer: %w", err)
			}
			rules = parsed.Rules()
		}
	}

	return buildZone(id, transitionTimes, typeIndexes, types, rules)
}

// buildZone derives the wall and standard offset histories from the raw
// transition list. Transitions that do not change the relevant offset are
// dropped so both tables stay strictly increasing.
func buildZone(id string, times []int64, indexes []byte, types []zoneType, rules []tz.Rule) (*tz.Zone, error) {
	if len(types) == 0 {
		return nil, fmt.Errorf("%w: no time types", ErrBadData)
	}

	first := firstZoneType(types, indexes)
	if len(times) == 0 && len(rules) == 0 {
		return tz.FixedZone(id, first.offset), nil
	}

	wall := first.offset
	std := first.offset
	if first.isDST {
		// Fall back to the first non-DST type for the initial standard
		// offset.
		for _, zt := range types {
			if !zt.isDST {
				std = zt.offset
				break
			}
		}
	}

	var wallTrans []int64
	wallOffsets := []int32{wall}
	var stdTrans []int64
	stdOffsets := []int32{std}
	for i, when := range times {
		zt := types[indexes[i]]
		if zt.offset != wall {
			wallTrans = append(wallTrans, when)
			wallOffsets = append(wallOffsets, zt.offset)
			wall = zt.offset
		}
		if !zt.isDST && zt.offset != std {
			stdTrans = append(stdTrans, when)
			stdOffsets = append(stdOffsets, zt.offset)
			std = zt.offset
		}
	}

	tb, err := tz.NewTransitionTable(stdTrans, stdOffsets, wallTrans, wallOffsets, rules)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadData, err)
	}
	return tz.NewZone(id, tb), nil
}

// firstZoneType picks the type in effect before the first transition,
// preferring the type the data itself starts in.
func firstZoneType(types []zoneType, indexes []byte) zoneType {
	// The usual convention: the first non-DST type, else the first type.
	if len(indexes) > 0 {
		zt := types[indexes[0]]
		if !zt.isDST {
			return zt
		}
	}
	for _, zt := range types {
		if !zt.isDST {
			return zt
		}
	}
	return types[0]
}

// counts are the six record counts of a TZif header.
type counts struct {
	isUTCnt  int
	isStdCnt int
	leapCnt  int
	timeCnt  int
	typeCnt  int
	charCnt  int
}

// readHeader consumes one TZif header and returns the format version and
// record counts.
func readHeader(d *reader) (version int, c counts, err error) {
	if magic := d.read(4); string(magic) != "TZif" {
		return 0, c, fmt.Errorf("%w: bad magic", ErrBadData)
	}
	p := d.read(16) // version octet plus 15 reserved bytes
	if p == nil {
		return 0, c, fmt.Errorf("%w: truncated header", ErrBadData)
	}
	switch p[0] {
	case 0:
		version = 1
	case '2':
		version = 2
	case '3':
		version = 3
	case '4':
		version = 4
	default:
		return 0, c, fmt.Errorf("%w: unknown version %q", ErrBadData, p[0])
	}
	fields := []*int{&c.isUTCnt, &c.isStdCnt, &c.leapCnt, &c.timeCnt, &c.typeCnt, &c.charCnt}
	for _, f := range fields {
		v, ok := d.big4()
		if !ok {
			return 0, c, fmt.Errorf("%w: truncated header", ErrBadData)
		}
		*f = int(v)
	}
	if c.typeCnt == 0 {
		return 0, c, fmt.Errorf("%w: zero time types", ErrBadData)
	}
	if c.timeCnt < 0 || c.timeCnt > 2000 || c.typeCnt > 256 || c.charCnt > 1<<16 {
		return 0, c, fmt.Errorf("%w: implausible record counts", ErrBadData)
	}
	return version, c, nil
}

// readFooter consumes the newline-delimited footer TZ string.
func readFooter(d *reader) (string, error) {
	if b, ok := d.byte(); !ok || b != '\n' {
		return "", fmt.Errorf("%w: missing footer", ErrBadData)
	}
	var s []byte
	for {
		b, ok := d.byte()
		if !ok {
			return "", fmt.Errorf("%w: unterminated footer", ErrBadData)
		}
		if b == '\n' {
			return string(s), nil
		}
		s = append(s, b)
	}
}

// reader is a cursor over the raw file bytes.
type reader struct {
	p []byte
}

func (d *reader) read(n int) []byte {
	if n < 0 || len(d.p) < n {
		d.p = nil
		return nil
	}
	p := d.p[:n]
	d.p = d.p[n:]
	return p
}

func (d *reader) byte() (byte, bool) {
	p := d.read(1)
	if p == nil {
		return 0, false
	}
	return p[0], true
}

func (d *reader) big4() (uint32, bool) {
	p := d.read(4)
	if p == nil {
		return 0, false
	}
	return uint32(p[3]) | uint32(p[2])<<8 | uint32(p[1])<<16 | uint32(p[0])<<24, true
}

func (d *reader) big8() (uint64, bool) {
	hi, ok1 := d.big4()
	lo, ok2 := d.big4()
	if !ok1 || !ok2 {
		return 0, false
	}
	return uint64(hi)<<32 | uint64(lo), true
}
