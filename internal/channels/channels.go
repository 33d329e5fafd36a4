package channels

import (
	"fmt"
	"sort"
	"strings"
)

// Channel is one measured dimension of an event.
type Channel struct {
	Position  int    `json:"position" yaml:"position"`
	ShortName string `json:"short_name" yaml:"short_name"`
	LongName  string `json:"long_name,omitempty" yaml:"long_name,omitempty"`
}

// Label returns the display name used to match channels across files.
func (c Channel) Label() string {
	if c.LongName != "" {
		return c.LongName
	}
	return c.ShortName
}

// Set is the ordered channel list of one file.
type Set struct {
	channels []Channel
}

// NewSet builds a Set sorted by position. Positions must be positive and unique.
func NewSet(list []Channel) (Set, error) {
	sorted := make([]Channel, len(list))
	copy(sorted, list)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })
	for i, ch := range sorted {
		if ch.Position <= 0 {
			return Set{}, fmt.Errorf("channel %q: position %d is not positive", ch.Label(), ch.Position)
		}
		if i > 0 && sorted[i-1].Position == ch.Position {
			return Set{}, fmt.Errorf("duplicate channel position %d", ch.Position)
		}
	}
	return Set{channels: sorted}, nil
}

// MustSet is NewSet for literals known to be valid.
func MustSet(list ...Channel) Set {
	set, err := NewSet(list)
	if err != nil {
		panic(err)
	}
	return set
}

// FromLabels assigns positions 1..n to the given short names.
func FromLabels(labels ...string) Set {
	list := make([]Channel, len(labels))
	for i, label := range labels {
		list[i] = Channel{Position: i + 1, ShortName: label}
	}
	return Set{channels: list}
}

// Len returns the channel count.
func (s Set) Len() int { return len(s.channels) }

// Channels returns a copy of the channels in position order.
func (s Set) Channels() []Channel {
	out := make([]Channel, len(s.channels))
	copy(out, s.channels)
	return out
}

// Lookup returns the channel at position, if any.
func (s Set) Lookup(position int) (Channel, bool) {
	idx := sort.Search(len(s.channels), func(i int) bool { return s.channels[i].Position >= position })
	if idx < len(s.channels) && s.channels[idx].Position == position {
		return s.channels[idx], true
	}
	return Channel{}, false
}

// Labels returns the channel labels in position order.
func (s Set) Labels() []string {
	out := make([]string, len(s.channels))
	for i, ch := range s.channels {
		out[i] = ch.Label()
	}
	return out
}

// Equal reports whether both sets hold the same positions with the same labels.
func (s Set) Equal(other Set) bool {
	if len(s.channels) != len(other.channels) {
		return false
	}
	for i := range s.channels {
		if s.channels[i].Position != other.channels[i].Position {
			return false
		}
		if s.channels[i].Label() != other.channels[i].Label() {
			return false
		}
	}
	return true
}

func (s Set) String() string {
	parts := make([]string, len(s.channels))
	for i, ch := range s.channels {
		parts[i] = fmt.Sprintf("@%d %q", ch.Position, ch.Label())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
