// Package manifest writes the optional YAML sidecar that records the
// provenance of a merged FCS file.
package manifest
