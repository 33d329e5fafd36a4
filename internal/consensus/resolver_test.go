package consensus_test

import (
	"reflect"
	"testing"

	"fcsmerge/internal/channels"
	"fcsmerge/internal/consensus"
)

func TestResolveIdenticalLayouts(t *testing.T) {
	set := channels.FromLabels("FSC-A", "SSC-A", "CD3", "CD4")
	result := consensus.Resolve(
		[]string{"a.fcs", "b.fcs", "c.fcs"},
		[]channels.Set{set, set, set},
	)

	if len(result.Dropped) != 0 {
		t.Fatalf("expected nothing dropped, got %#v", result.Dropped)
	}
	if len(result.Mismatches) != 0 {
		t.Fatalf("expected no mismatches, got %#v", result.Mismatches)
	}
	if !result.Set.Matches(set) {
		t.Fatalf("consensus %v does not match input layout", result.Set.Labels())
	}
	for _, e := range result.Set.Entries() {
		if e.Matches != 3 {
			t.Fatalf("entry %#v: expected 3 matches", e)
		}
	}
}

func TestResolveExtraTrailingChannel(t *testing.T) {
	four := channels.FromLabels("A", "B", "C", "D")
	five := channels.FromLabels("A", "B", "C", "D", "E")
	result := consensus.Resolve(nil, []channels.Set{four, five, four})

	if got := result.Set.Len(); got != 4 {
		t.Fatalf("consensus count = %d, want 4", got)
	}
	if !reflect.DeepEqual(result.Set.Labels(), []string{"A", "B", "C", "D"}) {
		t.Fatalf("unexpected labels %v", result.Set.Labels())
	}
	want := []consensus.Entry{{Position: 5, Label: "E", Matches: 1}}
	if !reflect.DeepEqual(result.Dropped, want) {
		t.Fatalf("dropped = %#v, want %#v", result.Dropped, want)
	}
}

func TestResolvePositionalRelabelDropsWholePosition(t *testing.T) {
	good := channels.FromLabels("Chan_A", "Chan_B", "Chan_C", "Chan_D")
	relabeled := channels.FromLabels("Chan_A", "Chan_B", "Chan_C", "Chan_C")
	result := consensus.Resolve(
		[]string{"1.fcs", "2.fcs", "3.fcs"},
		[]channels.Set{good, good, relabeled},
	)

	if !reflect.DeepEqual(result.Set.Labels(), []string{"Chan_A", "Chan_B", "Chan_C"}) {
		t.Fatalf("unexpected consensus %v", result.Set.Labels())
	}
	if !result.Set.Contains(3, "Chan_C") {
		t.Fatal("position 3 Chan_C must survive the dropped-label filter")
	}
	want := []consensus.Entry{{Position: 4, Label: "Chan_D", Matches: 2}}
	if !reflect.DeepEqual(result.Dropped, want) {
		t.Fatalf("dropped = %#v, want %#v", result.Dropped, want)
	}
	wantMismatch := []consensus.Mismatch{{
		File:           "3.fcs",
		Position:       4,
		ShortName:      "Chan_C",
		ConsensusLabel: "Chan_D",
		ObservedLabel:  "Chan_C",
	}}
	if !reflect.DeepEqual(result.Mismatches, wantMismatch) {
		t.Fatalf("mismatches = %#v, want %#v", result.Mismatches, wantMismatch)
	}
}

func TestResolveThreeFileScenario(t *testing.T) {
	result := consensus.Resolve(
		[]string{"test_1.fcs", "test_2.fcs", "test_3.fcs"},
		[]channels.Set{
			channels.FromLabels("A", "B", "C", "D"),
			channels.FromLabels("A", "B", "C", "D", "E"),
			channels.FromLabels("A", "B", "C", "C", "E"),
		},
	)

	wantKept := []consensus.Entry{
		{Position: 1, Label: "A", Matches: 3},
		{Position: 2, Label: "B", Matches: 3},
		{Position: 3, Label: "C", Matches: 3},
	}
	if !reflect.DeepEqual(result.Set.Entries(), wantKept) {
		t.Fatalf("kept = %#v, want %#v", result.Set.Entries(), wantKept)
	}
	wantDropped := []consensus.Entry{
		{Position: 4, Label: "D", Matches: 2},
		{Position: 5, Label: "E", Matches: 2},
	}
	if !reflect.DeepEqual(result.Dropped, wantDropped) {
		t.Fatalf("dropped = %#v, want %#v", result.Dropped, wantDropped)
	}
	if result.Files != 3 {
		t.Fatalf("files = %d, want 3", result.Files)
	}
}

func TestResolveDroppedLabelRemovesFullyMatchedTwin(t *testing.T) {
	// "X" matches everywhere at position 1 but is contested at position 3.
	result := consensus.Resolve(nil, []channels.Set{
		channels.FromLabels("X", "B", "X"),
		channels.FromLabels("X", "B", "Y"),
	})
	if !reflect.DeepEqual(result.Set.Labels(), []string{"B"}) {
		t.Fatalf("unexpected consensus %v", result.Set.Labels())
	}
	wantDropped := []consensus.Entry{{Position: 3, Label: "X", Matches: 1}}
	if !reflect.DeepEqual(result.Dropped, wantDropped) {
		t.Fatalf("dropped = %#v, want only the under-matched entry %#v", result.Dropped, wantDropped)
	}
	wantContested := []consensus.Entry{{Position: 1, Label: "X", Matches: 2}}
	if !reflect.DeepEqual(result.Contested, wantContested) {
		t.Fatalf("contested = %#v, want %#v", result.Contested, wantContested)
	}
}

func TestResolveFirstSeenWins(t *testing.T) {
	a := channels.FromLabels("A", "B")
	b := channels.FromLabels("A", "Z")

	forward := consensus.Resolve(nil, []channels.Set{a, b, b})
	backward := consensus.Resolve(nil, []channels.Set{b, a, a})

	if forward.Dropped[0].Label != "B" {
		t.Fatalf("forward order should fix label B at position 2, got %#v", forward.Dropped)
	}
	if backward.Dropped[0].Label != "Z" {
		t.Fatalf("backward order should fix label Z at position 2, got %#v", backward.Dropped)
	}
}

func TestResolveZeroFiles(t *testing.T) {
	result := consensus.NewResolver().Resolve()
	if result.Set.Len() != 0 || len(result.Dropped) != 0 || len(result.Contested) != 0 || result.Files != 0 {
		t.Fatalf("expected empty result, got %#v", result)
	}
}

func TestResolverAddReturnsPerFileMismatches(t *testing.T) {
	r := consensus.NewResolver()
	if got := r.Add("one", channels.FromLabels("A", "B")); len(got) != 0 {
		t.Fatalf("first file cannot mismatch, got %#v", got)
	}
	got := r.Add("two", channels.FromLabels("B", "A"))
	if len(got) != 2 {
		t.Fatalf("expected two mismatches, got %#v", got)
	}
	if r.Files() != 2 {
		t.Fatalf("Files() = %d", r.Files())
	}
	if r.Resolve().Set.Len() != 0 {
		t.Fatal("swapped channels leave no consensus")
	}
}
