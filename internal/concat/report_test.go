package concat

import (
	"bytes"
	"strings"
	"testing"

	"fcsmerge/internal/consensus"
	"fcsmerge/internal/fcs"
	"fcsmerge/internal/invariant"
)

func TestProgressMarks(t *testing.T) {
	tests := []struct {
		total int
		want  string
	}{
		{1, "1\n"},
		{2, "12\n"},
		{3, "1.3\n"},
		{5, "1...5\n"},
		{101, "1" + strings.Repeat(".", 98) + "100101\n"},
		{200, "1" + strings.Repeat(".", 98) + "100" + strings.Repeat(".", 99) + "200\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		r := newReporter(&buf)
		for n := 1; n <= tt.total; n++ {
			r.progress(n, tt.total)
		}
		if buf.String() != tt.want {
			t.Fatalf("progress(%d) = %q, want %q", tt.total, buf.String(), tt.want)
		}
	}
}

func TestReportEmptySections(t *testing.T) {
	var buf bytes.Buffer
	r := newReporter(&buf)
	r.mismatches(nil)
	r.entries("Removing channels", nil)
	want := "Channel mismatches:\n  (none)\nRemoving channels:\n  (none)\n"
	if buf.String() != want {
		t.Fatalf("report = %q, want %q", buf.String(), want)
	}
}

func TestReportFileCounterAlignment(t *testing.T) {
	var buf bytes.Buffer
	r := newReporter(&buf)
	r.file(7, 12, "x.fcs")
	r.file(12, 12, "y.fcs")
	want := " 7/12: \"x.fcs\"\n12/12: \"y.fcs\"\n"
	if buf.String() != want {
		t.Fatalf("report = %q, want %q", buf.String(), want)
	}
}

func TestReportCountsGroupsThousands(t *testing.T) {
	var buf bytes.Buffer
	r := newReporter(&buf)
	r.counts(1234567, 1)
	r.written("out.fcs", 3658)
	want := "1,234,567 events in 1 channel\n\"out.fcs\"\n3,658 B on disk\n"
	if buf.String() != want {
		t.Fatalf("report = %q, want %q", buf.String(), want)
	}
}

func TestReporterNilWriter(t *testing.T) {
	r := newReporter(nil)
	r.entries("Keeping channels", []consensus.Entry{{Position: 1, Label: "A", Matches: 1}})
}

func TestAccumulator(t *testing.T) {
	acc := NewAccumulator(3)
	acc.Append([]float32{1, 2, 3, 4, 5, 6})
	acc.Append(nil)
	acc.Append([]float32{7, 8, 9})

	total, err := acc.TotalEvents()
	if err != nil {
		t.Fatalf("TotalEvents: %v", err)
	}
	if total != 3 || acc.Files() != 3 || len(acc.Events()) != 9 {
		t.Fatalf("total=%d files=%d len=%d", total, acc.Files(), len(acc.Events()))
	}

	acc.Append([]float32{10})
	if _, err := acc.TotalEvents(); !invariant.Is(err) {
		t.Fatalf("expected invariant violation for ragged buffer, got %v", err)
	}
	if _, err := NewAccumulator(0).TotalEvents(); !invariant.Is(err) {
		t.Fatalf("expected invariant violation for zero width, got %v", err)
	}
}

func TestVerify(t *testing.T) {
	meta := fcs.Metadata{Name: "out.fcs", Events: 300, Channels: 3, Size: 4096}
	if err := Verify(meta, 300, 3); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	for name, bad := range map[string]fcs.Metadata{
		"events":   {Name: "out.fcs", Events: 299, Channels: 3, Size: 4096},
		"channels": {Name: "out.fcs", Events: 300, Channels: 4, Size: 4096},
		"size":     {Name: "out.fcs", Events: 300, Channels: 3, Size: 0},
	} {
		if err := Verify(bad, 300, 3); !invariant.Is(err) {
			t.Fatalf("%s: expected invariant violation, got %v", name, err)
		}
	}
}
