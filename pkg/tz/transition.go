// Package tz resolves UTC offsets for instants and local civil times in a
// named timezone. A Zone is either a fixed offset or a rule-based zone
// backed by an immutable transition table plus recurring rules that
// extrapolate transitions for years beyond the table. All lookups are
// bounded, synchronous computations; the only shared mutable state is a
// per-year transition cache populated insert-if-absent from immutable rule
// data.
package tz

// Transition is a single change of wall-clock offset at an instant.
// Offsets are seconds east of UTC.
type Transition struct {
	When         int64 // epoch second at which the new offset takes effect
	OffsetBefore int32
	OffsetAfter  int32
}

// IsGap reports whether the transition skips local time forward, creating
// wall-clock readings that never occur.
func (t Transition) IsGap() bool { return t.OffsetAfter > t.OffsetBefore }

// IsOverlap reports whether the transition moves local time backward,
// creating wall-clock readings that occur twice.
func (t Transition) IsOverlap() bool { return t.OffsetAfter < t.OffsetBefore }

// Duration returns the width of the gap or overlap in seconds.
func (t Transition) Duration() int32 { return t.OffsetAfter - t.OffsetBefore }

// LocalBefore returns the local-second reading of the transition instant
// under the offset in effect before it.
func (t Transition) LocalBefore() int64 { return t.When + int64(t.OffsetBefore) }

// LocalAfter returns the local-second reading of the transition instant
// under the offset in effect after it.
func (t Transition) LocalAfter() int64 { return t.When + int64(t.OffsetAfter) }

// Kind classifies the outcome of a local-time offset lookup.
type Kind uint8

const (
	// KindUnambiguous means exactly one offset applies.
	KindUnambiguous Kind = iota
	// KindGap means the queried local time never occurs; clocks jumped
	// over it.
	KindGap
	// KindOverlap means the queried local time occurs twice and both
	// offsets are individually valid.
	KindOverlap
	// KindInvalid means the input failed validation under the sentinel
	// policy.
	KindInvalid
)

// String returns the kind name for logs and diagnostics.
func (k Kind) String() string {
	switch k {
	case KindUnambiguous:
		return "unambiguous"
	case KindGap:
		return "gap"
	case KindOverlap:
		return "overlap"
	case KindInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Resolution is the result of resolving a local civil time to an offset.
// For unambiguous results OffsetBefore and OffsetAfter are equal. For gaps
// and overlaps both bracketing offsets and the straddling transition are
// reported.
type Resolution struct {
	Kind         Kind
	OffsetBefore int32
	OffsetAfter  int32
	Transition   Transition
}

// Valid reports whether the lookup input passed validation.
func (r Resolution) Valid() bool { return r.Kind != KindInvalid }

// Offset returns the single applicable offset. Inside a gap or an overlap
// the tie breaks toward the offset in effect before the transition.
func (r Resolution) Offset() int32 { return r.OffsetBefore }

func unambiguous(offset int32) Resolution {
	return Resolution{Kind: KindUnambiguous, OffsetBefore: offset, OffsetAfter: offset}
}
