package consensus

import (
	"sort"

	"fcsmerge/internal/channels"
)

// Entry is one consensus candidate: the label first seen at a position and the
// number of files that carried that same label there.
type Entry struct {
	Position int    `json:"position" yaml:"position"`
	Label    string `json:"label" yaml:"label"`
	Matches  int    `json:"matches" yaml:"matches"`
}

// Mismatch records a file whose label at a position disagrees with the
// established consensus label.
type Mismatch struct {
	File           string `json:"file" yaml:"file"`
	Position       int    `json:"position" yaml:"position"`
	ShortName      string `json:"short_name" yaml:"short_name"`
	ConsensusLabel string `json:"consensus_label" yaml:"consensus_label"`
	ObservedLabel  string `json:"observed_label" yaml:"observed_label"`
}

// Set is a frozen consensus channel list ordered by position.
type Set struct {
	entries []Entry
}

// Len returns the consensus channel count.
func (s Set) Len() int { return len(s.entries) }

// Entries returns a copy of the entries in position order.
func (s Set) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Labels returns the output channel labels in position order.
func (s Set) Labels() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Label
	}
	return out
}

// Contains reports whether the consensus keeps label at position.
func (s Set) Contains(position int, label string) bool {
	idx := sort.Search(len(s.entries), func(i int) bool { return s.entries[i].Position >= position })
	return idx < len(s.entries) && s.entries[idx].Position == position && s.entries[idx].Label == label
}

// Matches reports whether set holds exactly the consensus channels in the same order.
func (s Set) Matches(set channels.Set) bool {
	if set.Len() != len(s.entries) {
		return false
	}
	for i, ch := range set.Channels() {
		if ch.Position != s.entries[i].Position || ch.Label() != s.entries[i].Label {
			return false
		}
	}
	return true
}

// Result is the outcome of resolving a sequence of channel sets.
type Result struct {
	Set Set
	// Dropped holds the entries fewer than all files matched.
	Dropped []Entry
	// Contested holds entries every file matched that were still left out
	// because their label is also carried by a dropped entry.
	Contested  []Entry
	Mismatches []Mismatch
	Files      int
}

// Resolver accumulates channel sets one file at a time.
type Resolver struct {
	entries    map[int]*Entry
	mismatches []Mismatch
	files      int
}

// NewResolver returns an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{entries: make(map[int]*Entry)}
}

// Add folds one file's channels into the running consensus and returns the
// mismatches it produced.
func (r *Resolver) Add(file string, set channels.Set) []Mismatch {
	r.files++
	var found []Mismatch
	for _, ch := range set.Channels() {
		label := ch.Label()
		entry, ok := r.entries[ch.Position]
		if !ok {
			entry = &Entry{Position: ch.Position, Label: label}
			r.entries[ch.Position] = entry
		}
		if entry.Label == label {
			entry.Matches++
			continue
		}
		found = append(found, Mismatch{
			File:           file,
			Position:       ch.Position,
			ShortName:      ch.ShortName,
			ConsensusLabel: entry.Label,
			ObservedLabel:  label,
		})
	}
	r.mismatches = append(r.mismatches, found...)
	return found
}

// Files returns the number of files added so far.
func (r *Resolver) Files() int { return r.files }

// Resolve freezes the consensus. An entry is dropped when fewer than all files
// matched it. A surviving entry that shares a label with a dropped entry is
// contested and left out of the consensus too, so a label never appears in the
// output at one position while being dropped at another.
func (r *Resolver) Resolve() Result {
	positions := make([]int, 0, len(r.entries))
	for pos := range r.entries {
		positions = append(positions, pos)
	}
	sort.Ints(positions)

	var dropped []Entry
	droppedLabels := make(map[string]struct{})
	for _, pos := range positions {
		entry := *r.entries[pos]
		if entry.Matches < r.files {
			dropped = append(dropped, entry)
			droppedLabels[entry.Label] = struct{}{}
		}
	}

	var contested []Entry
	kept := make([]Entry, 0, len(positions))
	for _, pos := range positions {
		entry := *r.entries[pos]
		if entry.Matches < r.files {
			continue
		}
		if _, ok := droppedLabels[entry.Label]; ok {
			contested = append(contested, entry)
			continue
		}
		kept = append(kept, entry)
	}

	mismatches := make([]Mismatch, len(r.mismatches))
	copy(mismatches, r.mismatches)
	return Result{
		Set:        Set{entries: kept},
		Dropped:    dropped,
		Contested:  contested,
		Mismatches: mismatches,
		Files:      r.files,
	}
}

// Resolve is a convenience wrapper that folds named sets in the given order.
func Resolve(names []string, sets []channels.Set) Result {
	r := NewResolver()
	for i, set := range sets {
		name := ""
		if i < len(names) {
			name = names[i]
		}
		r.Add(name, set)
	}
	return r.Resolve()
}
