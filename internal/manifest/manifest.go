package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"fcsmerge/internal/concat"
	"fcsmerge/internal/consensus"
	"fcsmerge/internal/staging"
)

// Extension is appended to the merged file's stem to name its manifest.
const Extension = ".manifest.yaml"

// Manifest describes one merged file: where its events came from and which
// channels were kept.
type Manifest struct {
	RunID      string                `yaml:"run_id"`
	Output     string                `yaml:"output"`
	Root       string                `yaml:"root"`
	StartedAt  time.Time             `yaml:"started_at"`
	FinishedAt time.Time             `yaml:"finished_at"`
	Events     int                   `yaml:"events"`
	Bytes      int64                 `yaml:"bytes"`
	Channels   []consensus.Entry     `yaml:"channels"`
	Dropped    []consensus.Entry     `yaml:"dropped,omitempty"`
	Contested  []consensus.Entry     `yaml:"contested,omitempty"`
	Mismatches []consensus.Mismatch  `yaml:"mismatches,omitempty"`
	Inputs     []concat.InputSummary `yaml:"inputs"`
}

// FromSummary builds the manifest for a completed run.
func FromSummary(root string, summary concat.Summary) (Manifest, error) {
	if summary.Outcome != concat.OutcomeCompleted {
		return Manifest{}, fmt.Errorf("manifest: run %s did not complete (%s)", summary.RunID, summary.Outcome)
	}
	return Manifest{
		RunID:      summary.RunID,
		Output:     filepath.Base(summary.Output),
		Root:       root,
		StartedAt:  summary.StartedAt.UTC(),
		FinishedAt: summary.FinishedAt.UTC(),
		Events:     summary.TotalEvents,
		Bytes:      summary.OutputSize,
		Channels:   summary.Consensus.Set.Entries(),
		Dropped:    summary.Consensus.Dropped,
		Contested:  summary.Consensus.Contested,
		Mismatches: summary.Consensus.Mismatches,
		Inputs:     summary.Inputs,
	}, nil
}

// PathFor returns the manifest path beside output.
func PathFor(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + Extension
}

// Encode renders m as YAML with two-space indentation.
func Encode(m Manifest) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("manifest: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("manifest: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Write stores the manifest for summary beside the merged file and returns
// its path.
func Write(root string, summary concat.Summary) (string, error) {
	m, err := FromSummary(root, summary)
	if err != nil {
		return "", err
	}
	data, err := Encode(m)
	if err != nil {
		return "", err
	}
	path := PathFor(summary.Output)
	partial := staging.PartialPath(path)
	if err := os.WriteFile(partial, data, 0o644); err != nil {
		return "", fmt.Errorf("manifest: write: %w", err)
	}
	if err := staging.Promote(partial, path); err != nil {
		_ = staging.Discard(partial)
		return "", err
	}
	return path, nil
}

// Read loads a manifest written by Write.
func Read(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("manifest: parse %s: %w", path, err)
	}
	return m, nil
}
