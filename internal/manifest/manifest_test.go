package manifest_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fcsmerge/internal/channels"
	"fcsmerge/internal/concat"
	"fcsmerge/internal/consensus"
	"fcsmerge/internal/manifest"
)

func completedSummary(output string) concat.Summary {
	started := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	return concat.Summary{
		RunID:      "run-42",
		Outcome:    concat.OutcomeCompleted,
		StartedAt:  started,
		FinishedAt: started.Add(time.Second),
		Inputs: []concat.InputSummary{
			{Path: "/d/a.fcs", Name: "a.fcs", Events: 2, Channels: 2},
			{Path: "/d/b.fcs", Name: "b.fcs", Events: 3, Channels: 3, Projected: true},
		},
		Consensus: consensus.Resolve(
			[]string{"a.fcs", "b.fcs"},
			[]channels.Set{
				channels.FromLabels("FSC-A", "SSC-A"),
				channels.FromLabels("FSC-A", "SSC-A", "CD4"),
			},
		),
		TotalEvents: 5,
		Output:      output,
		OutputSize:  2048,
	}
}

func TestWriteAndRead(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "d_2026-03-04_10-00_concat.fcs")

	path, err := manifest.Write(dir, completedSummary(output))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if want := filepath.Join(dir, "d_2026-03-04_10-00_concat"+manifest.Extension); path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}
	if _, err := os.Stat(path + ".partial"); !os.IsNotExist(err) {
		t.Fatalf("partial manifest left behind: %v", err)
	}

	m, err := manifest.Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if m.RunID != "run-42" || m.Output != filepath.Base(output) || m.Events != 5 || m.Bytes != 2048 {
		t.Fatalf("unexpected manifest: %+v", m)
	}
	if len(m.Channels) != 2 || m.Channels[1].Label != "SSC-A" {
		t.Fatalf("unexpected channels: %+v", m.Channels)
	}
	if len(m.Dropped) != 1 || m.Dropped[0].Label != "CD4" {
		t.Fatalf("unexpected dropped: %+v", m.Dropped)
	}
	if len(m.Inputs) != 2 || !m.Inputs[1].Projected {
		t.Fatalf("unexpected inputs: %+v", m.Inputs)
	}
}

func TestEncodeKeys(t *testing.T) {
	m, err := manifest.FromSummary("/d", completedSummary("/d/out.fcs"))
	if err != nil {
		t.Fatalf("FromSummary: %v", err)
	}
	data, err := manifest.Encode(m)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	text := string(data)
	for _, key := range []string{"run_id: run-42", "output: out.fcs", "dropped:", "  - position: 3"} {
		if !strings.Contains(text, key) {
			t.Fatalf("manifest missing %q:\n%s", key, text)
		}
	}
	if strings.Contains(text, "mismatches:") {
		t.Fatalf("empty mismatches should be omitted:\n%s", text)
	}
}

func TestFromSummaryRejectsIncompleteRuns(t *testing.T) {
	for _, outcome := range []concat.Outcome{concat.OutcomeDeclined, concat.OutcomeNoFiles, concat.OutcomeFailed} {
		s := completedSummary("/d/out.fcs")
		s.Outcome = outcome
		if _, err := manifest.FromSummary("/d", s); err == nil {
			t.Fatalf("%s: expected error", outcome)
		}
	}
}
