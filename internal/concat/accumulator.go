package concat

import "fcsmerge/internal/invariant"

// Accumulator collects projected event buffers that all share the consensus width.
type Accumulator struct {
	width  int
	events []float32
	files  int
}

// NewAccumulator returns an empty accumulator for rows of width values.
func NewAccumulator(width int) *Accumulator {
	return &Accumulator{width: width}
}

// Append adds one file's projected events.
func (a *Accumulator) Append(events []float32) {
	a.events = append(a.events, events...)
	a.files++
}

// Events returns the concatenated buffer. It aliases internal storage.
func (a *Accumulator) Events() []float32 { return a.events }

// Files returns how many buffers were appended.
func (a *Accumulator) Files() int { return a.files }

// TotalEvents returns the number of rows held. A buffer that does not divide
// evenly into rows means a projection went wrong upstream.
func (a *Accumulator) TotalEvents() (int, error) {
	if a.width <= 0 {
		return 0, invariant.Violation("accumulator", "consensus width %d is not positive", a.width)
	}
	if len(a.events)%a.width != 0 {
		return 0, invariant.Violation("accumulator", "%d values do not divide into rows of %d", len(a.events), a.width)
	}
	return len(a.events) / a.width, nil
}
