package transform

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"fcsmerge/internal/channels"
	"fcsmerge/internal/consensus"
	"fcsmerge/internal/invariant"
)

const component = "transform"

// Selection is one file's buffer restricted to the consensus channels.
type Selection struct {
	Events   []float32
	Columns  []int
	FastPath bool
}

// ConsensusColumns returns the ascending zero-based column indices of set
// whose (position, label) pair is kept by cons. Columns follow the file's own
// channel order, so ascending index means ascending consensus position.
func ConsensusColumns(set channels.Set, cons consensus.Set) []int {
	var cols []int
	for idx, ch := range set.Channels() {
		if cons.Contains(ch.Position, ch.Label()) {
			cols = append(cols, idx)
		}
	}
	sort.Ints(cols)
	return cols
}

// Select restricts events (eventCount rows of set.Len() values) to the
// consensus channels.
func Select(events []float32, eventCount int, set channels.Set, cons consensus.Set) (Selection, error) {
	channelCount := set.Len()
	if len(events) != eventCount*channelCount {
		return Selection{}, invariant.Violation(component,
			"buffer holds %d values, expected %d events x %d channels", len(events), eventCount, channelCount)
	}

	if cons.Matches(set) {
		cols := make([]int, channelCount)
		for i := range cols {
			cols[i] = i
		}
		return Selection{Events: events, Columns: cols, FastPath: true}, nil
	}

	matrix, err := NewMatrix(events, eventCount, channelCount)
	if err != nil {
		return Selection{}, invariant.Violation(component, "reshape: %v", err)
	}
	if eventCount > 0 {
		if !sameBits(matrix.Row(0), events[:channelCount]) {
			return Selection{}, invariant.Violation(component, "first event differs after reshape")
		}
		if !sameBits(matrix.Row(eventCount-1), events[len(events)-channelCount:]) {
			return Selection{}, invariant.Violation(component, "last event differs after reshape")
		}
	}

	cols := ConsensusColumns(set, cons)
	if err := checkRetainedLabels(set, cols, cons); err != nil {
		return Selection{}, err
	}

	selected := matrix.SelectColumns(cols).Flatten()
	if want := eventCount * cons.Len(); len(selected) != want {
		return Selection{}, invariant.Violation(component,
			"selected %d values, expected %d events x %d consensus channels", len(selected), eventCount, cons.Len())
	}
	return Selection{Events: selected, Columns: cols}, nil
}

func checkRetainedLabels(set channels.Set, cols []int, cons consensus.Set) error {
	list := set.Channels()
	retained := make([]string, len(cols))
	for i, c := range cols {
		retained[i] = list[c].Label()
	}
	if !slices.Equal(retained, cons.Labels()) {
		return invariant.Violation(component,
			"retained channels %s do not match consensus %s", fmt.Sprint(retained), fmt.Sprint(cons.Labels()))
	}
	return nil
}

// sameBits compares values bit for bit so NaN payloads compare equal to themselves.
func sameBits(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Float32bits(a[i]) != math.Float32bits(b[i]) {
			return false
		}
	}
	return true
}
