package fcs

import "fcsmerge/internal/channels"

// Port exposes the package functions as a value so the merge engine can take
// the codec as an interface and tests can substitute it.
type Port struct{}

// ReadChannels implements the header-only channel read.
func (Port) ReadChannels(path string) (channels.Set, error) { return ReadChannels(path) }

// ReadEvents implements the full decode.
func (Port) ReadEvents(path string) (Dataset, error) { return ReadEvents(path) }

// Write encodes labels and a row-major buffer to path.
func (Port) Write(path string, labels []string, events []float32) error {
	return Write(path, labels, events)
}

// ReadMetadata implements the header-only metadata read used for verification.
func (Port) ReadMetadata(path string) (Metadata, error) { return ReadMetadata(path) }
