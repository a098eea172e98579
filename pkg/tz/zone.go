package tz

import (
	"slices"
	"sync"

	"github.com/codeGROOVE-dev/tickTZ/pkg/calendar"
	"github.com/codeGROOVE-dev/tickTZ/pkg/epoch"
)

// Zone resolves UTC offsets for one timezone. It is either a fixed offset
// or a rule-based zone backed by a TransitionTable. Zones are effectively
// immutable after construction; the per-year cache only grows by
// insert-if-absent of idempotently recomputable entries, so a Zone is safe
// for unrestricted concurrent use.
type Zone struct {
	id    string
	fixed int32
	table *TransitionTable // nil for fixed-offset zones

	// yearCache maps calendar year to the concrete transitions derived
	// from the recurring rules for that year. Racing computations derive
	// identical slices; LoadOrStore keeps exactly one.
	yearCache sync.Map
}

// FixedZone returns a zone with a constant offset in seconds east of UTC.
func FixedZone(id string, offset int32) *Zone {
	return &Zone{id: id, fixed: offset}
}

// NewZone returns a rule-based zone backed by the given table.
func NewZone(id string, table *TransitionTable) *Zone {
	return &Zone{id: id, table: table}
}

// ID returns the zone identifier.
func (z *Zone) ID() string { return z.id }

// IsFixed reports whether every query on this zone returns the same
// offset.
func (z *Zone) IsFixed() bool {
	return z.table == nil ||
		(len(z.table.wallTransitions) == 0 && len(z.table.rules) == 0)
}

// TabulatedTransitions returns the zone's recorded wall-offset history,
// oldest first. Fixed zones and rule-only zones return nil. The slice is
// freshly built; callers may modify it.
func (z *Zone) TabulatedTransitions() []Transition {
	if z.table == nil || len(z.table.wallTransitions) == 0 {
		return nil
	}
	return z.table.WallTransitions()
}

// OffsetForInstant returns the wall-clock offset in effect at an instant,
// in seconds east of UTC.
func (z *Zone) OffsetForInstant(epochSec int64) int32 {
	if z.table == nil {
		return z.fixed
	}
	tb := z.table
	n := len(tb.wallTransitions)
	if len(tb.rules) > 0 && (n == 0 || epochSec > tb.wallTransitions[n-1]) {
		// Approximate the calendar year with the final tabulated wall
		// offset; rule times within the year are then exact.
		year := yearOf(epochSec, tb.wallOffsets[len(tb.wallOffsets)-1])
		trs := z.TransitionsForYear(year)
		for _, tr := range trs {
			if epochSec < tr.When {
				return tr.OffsetBefore
			}
		}
		if len(trs) > 0 {
			return trs[len(trs)-1].OffsetAfter
		}
		return tb.wallOffsets[len(tb.wallOffsets)-1]
	}
	if n == 0 {
		return tb.wallOffsets[0]
	}
	idx := searchLE(tb.wallTransitions, epochSec)
	return tb.wallOffsets[idx+1]
}

// StandardOffsetForInstant returns the standard (non-DST) offset in effect
// at an instant. Recurring DST rules never affect the standard offset.
func (z *Zone) StandardOffsetForInstant(epochSec int64) int32 {
	if z.table == nil {
		return z.fixed
	}
	tb := z.table
	if len(tb.standardTransitions) == 0 {
		return tb.standardOffsets[0]
	}
	idx := searchLE(tb.standardTransitions, epochSec)
	return tb.standardOffsets[idx+1]
}

// OffsetForLocal resolves the offset a wall-clock reading refers to. The
// converter's policy governs validation: invalid fields yield an error
// under validate.Strict or a KindInvalid resolution under
// validate.Sentinel. Gaps and overlaps are reported, never raised.
func (z *Zone) OffsetForLocal(c epoch.Converter, d epoch.CivilDate, t epoch.CivilTime) (Resolution, error) {
	if ok, err := c.Policy().CheckTimeNano(t.Hour, t.Minute, t.Second, t.Nano); !ok {
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{Kind: KindInvalid}, nil
	}
	qsec, err := c.Seconds(d, t)
	if err != nil {
		return Resolution{}, err
	}
	if qsec == epoch.Invalid {
		return Resolution{Kind: KindInvalid}, nil
	}
	if z.table == nil {
		return unambiguous(z.fixed), nil
	}
	tb := z.table
	lb := tb.localBoundaries
	if len(tb.rules) > 0 && (len(lb) == 0 || afterBoundary(qsec, t.Nano, lb[len(lb)-1])) {
		return z.resolveLocalByRules(qsec, d.Year), nil
	}
	if len(lb) == 0 {
		return unambiguous(tb.wallOffsets[0]), nil
	}
	return tb.resolveLocalByTable(qsec, t.Nano), nil
}

// resolveLocalByRules walks the concrete transitions of the query's year.
// A result that is ambiguous or that resolves to a transition's before
// offset is final; an after-offset result may still be reclassified by a
// later transition in the same year.
func (z *Zone) resolveLocalByRules(qsec int64, year int) Resolution {
	trs := z.TransitionsForYear(year)
	if len(trs) == 0 {
		return unambiguous(z.table.wallOffsets[len(z.table.wallOffsets)-1])
	}
	var res Resolution
	for _, tr := range trs {
		res = resolveAgainst(qsec, tr)
		if res.Kind != KindUnambiguous || res.Offset() == tr.OffsetBefore {
			return res
		}
	}
	return res
}

// resolveLocalByTable binary-searches the tabulated local boundaries.
// Boundary pairs bracket each discontinuity, so even/odd index parity
// distinguishes "inside a gap or overlap" from an ordinary interval.
func (tb *TransitionTable) resolveLocalByTable(qsec int64, qnano int) Resolution {
	lb := tb.localBoundaries
	i, found := slices.BinarySearch(lb, qsec)
	if found && qnano > 0 {
		// The query sorts just after the boundary second.
		for i < len(lb) && lb[i] == qsec {
			i++
		}
		found = false
	}
	var index int
	if found {
		index = i
		// An overlap boundary can duplicate the gap boundary right
		// before it; the query belongs to the later pair.
		if index < len(lb)-1 && lb[index+1] == lb[index] {
			index++
		}
	} else {
		if i == 0 {
			return unambiguous(tb.wallOffsets[0])
		}
		index = i - 1
	}
	if index&1 == 0 {
		k := index / 2
		tr := Transition{
			When:         tb.wallTransitions[k],
			OffsetBefore: tb.wallOffsets[k],
			OffsetAfter:  tb.wallOffsets[k+1],
		}
		if tr.IsGap() {
			return Resolution{Kind: KindGap, OffsetBefore: tr.OffsetBefore, OffsetAfter: tr.OffsetAfter, Transition: tr}
		}
		return Resolution{Kind: KindOverlap, OffsetBefore: tr.OffsetBefore, OffsetAfter: tr.OffsetAfter, Transition: tr}
	}
	return unambiguous(tb.wallOffsets[index/2+1])
}

// resolveAgainst classifies a local-second query against one transition.
// The exact boundary reading of a transition counts as inside the
// ambiguous window.
func resolveAgainst(qsec int64, tr Transition) Resolution {
	if tr.IsGap() {
		switch {
		case qsec < tr.LocalBefore():
			return unambiguous(tr.OffsetBefore)
		case qsec < tr.LocalAfter():
			return Resolution{Kind: KindGap, OffsetBefore: tr.OffsetBefore, OffsetAfter: tr.OffsetAfter, Transition: tr}
		default:
			return unambiguous(tr.OffsetAfter)
		}
	}
	switch {
	case qsec >= tr.LocalBefore():
		return unambiguous(tr.OffsetAfter)
	case qsec < tr.LocalAfter():
		return unambiguous(tr.OffsetBefore)
	default:
		return Resolution{Kind: KindOverlap, OffsetBefore: tr.OffsetBefore, OffsetAfter: tr.OffsetAfter, Transition: tr}
	}
}

// TransitionsForYear returns the concrete transitions the recurring rules
// produce for a year, sorted by instant. Results are cached per year;
// entries are never invalidated because rule data is immutable for the
// zone's lifetime.
func (z *Zone) TransitionsForYear(year int) []Transition {
	if z.table == nil || len(z.table.rules) == 0 {
		return nil
	}
	if v, ok := z.yearCache.Load(year); ok {
		return v.([]Transition)
	}
	trs := make([]Transition, len(z.table.rules))
	for i, r := range z.table.rules {
		trs[i] = r.TransitionForYear(year)
	}
	slices.SortFunc(trs, func(a, b Transition) int {
		switch {
		case a.When < b.When:
			return -1
		case a.When > b.When:
			return 1
		default:
			return 0
		}
	})
	actual, _ := z.yearCache.LoadOrStore(year, trs)
	return actual.([]Transition)
}

// searchLE returns the greatest index whose transition is <= v, or -1 when
// v precedes every transition.
func searchLE(transitions []int64, v int64) int {
	i, found := slices.BinarySearch(transitions, v)
	if found {
		return i
	}
	return i - 1
}

// afterBoundary reports whether the local reading (sec, nano) sorts after
// a whole-second boundary.
func afterBoundary(sec int64, nano int, boundary int64) bool {
	return sec > boundary || (sec == boundary && nano > 0)
}

// yearOf returns the calendar year of an instant under a wall offset.
func yearOf(epochSec int64, offset int32) int {
	y, _, _ := calendar.CivilFromDayNumber(calendar.FloorDiv(epochSec+int64(offset), 86_400))
	return y
}
