package concat

import (
	"fcsmerge/internal/fcs"
	"fcsmerge/internal/invariant"
)

// Verify checks the metadata re-read from a freshly written output against
// what was accumulated.
func Verify(meta fcs.Metadata, totalEvents, channelCount int) error {
	if meta.Events != totalEvents {
		return invariant.Violation("verify", "%s holds %d events, wrote %d", meta.Name, meta.Events, totalEvents)
	}
	if meta.Channels != channelCount {
		return invariant.Violation("verify", "%s holds %d channels, wrote %d", meta.Name, meta.Channels, channelCount)
	}
	if meta.Size <= 0 {
		return invariant.Violation("verify", "%s is empty on disk", meta.Name)
	}
	return nil
}
