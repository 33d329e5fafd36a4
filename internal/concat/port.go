package concat

import (
	"fcsmerge/internal/channels"
	"fcsmerge/internal/consensus"
	"fcsmerge/internal/fcs"
)

// Port reads and writes event containers. fcs.Port is the production implementation.
type Port interface {
	ReadChannels(path string) (channels.Set, error)
	ReadEvents(path string) (fcs.Dataset, error)
	Write(path string, labels []string, events []float32) error
	ReadMetadata(path string) (fcs.Metadata, error)
}

// Gate approves dropping channels before any events are read.
type Gate interface {
	Confirm(dropped []consensus.Entry) (bool, error)
}

// GateFunc adapts a function to Gate.
type GateFunc func(dropped []consensus.Entry) (bool, error)

// Confirm calls f.
func (f GateFunc) Confirm(dropped []consensus.Entry) (bool, error) { return f(dropped) }

// AlwaysConfirm approves every drop without asking.
var AlwaysConfirm Gate = GateFunc(func([]consensus.Entry) (bool, error) { return true, nil })
