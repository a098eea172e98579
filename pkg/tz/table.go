package tz

import "fmt"

// TransitionTable is the immutable transition history of a rule-based
// zone: standard-offset history, wall-offset (DST-aware) history, the
// derived local-time boundaries used by local lookups, and the recurring
// rules that extrapolate transitions past the tabulated history.
//
// Each offset slice has exactly one more element than its transition
// slice: offsets[0] applies before the first transition and offsets[i+1]
// from transition i onward.
type TransitionTable struct {
	standardTransitions []int64
	standardOffsets     []int32
	wallTransitions     []int64
	wallOffsets         []int32
	// localBoundaries holds two local-second readings per wall
	// transition, sorted ascending. For a gap the pair is (before, after)
	// of the transition instant; for an overlap the pair is swapped so
	// the slice stays ordered. The pair for an overlap immediately
	// following a gap may duplicate a boundary, which is permitted.
	localBoundaries []int64
	rules           []Rule
}

// NewTransitionTable builds and validates a table. Transition slices must
// be strictly increasing and each offset slice must be one element longer
// than its transition slice. The slices are retained; callers must not
// mutate them afterwards.
func NewTransitionTable(standardTransitions []int64, standardOffsets []int32,
	wallTransitions []int64, wallOffsets []int32, rules []Rule,
) (*TransitionTable, error) {
	if len(standardOffsets) != len(standardTransitions)+1 {
		return nil, fmt.Errorf("standard offsets length %d, want %d",
			len(standardOffsets), len(standardTransitions)+1)
	}
	if len(wallOffsets) != len(wallTransitions)+1 {
		return nil, fmt.Errorf("wall offsets length %d, want %d",
			len(wallOffsets), len(wallTransitions)+1)
	}
	for i := 1; i < len(standardTransitions); i++ {
		if standardTransitions[i] <= standardTransitions[i-1] {
			return nil, fmt.Errorf("standard transitions not strictly increasing at %d", i)
		}
	}
	for i := 1; i < len(wallTransitions); i++ {
		if wallTransitions[i] <= wallTransitions[i-1] {
			return nil, fmt.Errorf("wall transitions not strictly increasing at %d", i)
		}
	}
	for _, r := range rules {
		if r.DayOfYear > 0 {
			if r.DayOfYear > 366 {
				return nil, fmt.Errorf("rule day-of-year %d out of range", r.DayOfYear)
			}
			continue
		}
		if r.Month < 1 || r.Month > 12 {
			return nil, fmt.Errorf("rule month %d out of range", r.Month)
		}
		if r.DayOfMonth == 0 || r.DayOfMonth < -28 || r.DayOfMonth > 31 {
			return nil, fmt.Errorf("rule day-of-month %d out of range", r.DayOfMonth)
		}
		if r.DayOfWeek < -1 || r.DayOfWeek > 6 {
			return nil, fmt.Errorf("rule day-of-week %d out of range", r.DayOfWeek)
		}
	}

	tb := &TransitionTable{
		standardTransitions: standardTransitions,
		standardOffsets:     standardOffsets,
		wallTransitions:     wallTransitions,
		wallOffsets:         wallOffsets,
		rules:               rules,
	}
	tb.localBoundaries = make([]int64, 0, 2*len(wallTransitions))
	for i, when := range wallTransitions {
		before := when + int64(wallOffsets[i])
		after := when + int64(wallOffsets[i+1])
		if after > before {
			tb.localBoundaries = append(tb.localBoundaries, before, after)
		} else {
			tb.localBoundaries = append(tb.localBoundaries, after, before)
		}
	}
	for i := 1; i < len(tb.localBoundaries); i++ {
		if tb.localBoundaries[i] < tb.localBoundaries[i-1] {
			return nil, fmt.Errorf("local boundaries out of order at transition %d", i/2)
		}
	}
	return tb, nil
}

// Rules returns the recurring rules, if any.
func (tb *TransitionTable) Rules() []Rule { return tb.rules }

// WallTransitions returns the tabulated wall-offset transitions.
func (tb *TransitionTable) WallTransitions() []Transition {
	out := make([]Transition, len(tb.wallTransitions))
	for i, when := range tb.wallTransitions {
		out[i] = Transition{
			When:         when,
			OffsetBefore: tb.wallOffsets[i],
			OffsetAfter:  tb.wallOffsets[i+1],
		}
	}
	return out
}
