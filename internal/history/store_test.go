package history_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"fcsmerge/internal/channels"
	"fcsmerge/internal/concat"
	"fcsmerge/internal/consensus"
	"fcsmerge/internal/history"
	"fcsmerge/internal/testsupport"
)

func sampleSummary(id string, started time.Time) concat.Summary {
	result := consensus.Resolve(
		[]string{"a.fcs", "b.fcs"},
		[]channels.Set{
			channels.FromLabels("Chan_A", "Chan_B"),
			channels.FromLabels("Chan_A", "Chan_B", "Chan_C"),
		},
	)
	return concat.Summary{
		RunID:      id,
		Outcome:    concat.OutcomeCompleted,
		StartedAt:  started,
		FinishedAt: started.Add(2 * time.Second),
		Inputs: []concat.InputSummary{
			{Path: "/data/a.fcs", Name: "a.fcs", Events: 10, Channels: 2},
			{Path: "/data/b.fcs", Name: "b.fcs", Events: 5, Channels: 3, Projected: true},
		},
		Consensus:   result,
		TotalEvents: 15,
		Output:      "/data/data_concat.fcs",
		OutputSize:  1234,
	}
}

func TestRecordAndGet(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	started := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)
	rec := history.FromSummary("/data", sampleSummary("run-1", started), nil)
	if err := store.Record(ctx, rec); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := store.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Outcome != concat.OutcomeCompleted || got.Root != "/data" || got.Output != "/data/data_concat.fcs" {
		t.Fatalf("unexpected record: %+v", got)
	}
	if got.Files != 2 || got.Events != 15 || got.Channels != 2 || got.Dropped != 1 || got.OutputBytes != 1234 {
		t.Fatalf("unexpected counts: %+v", got)
	}
	if !got.StartedAt.Equal(started) || !got.FinishedAt.Equal(started.Add(2*time.Second)) {
		t.Fatalf("timestamps not preserved: %v %v", got.StartedAt, got.FinishedAt)
	}
	if len(got.Details.Inputs) != 2 || !got.Details.Inputs[1].Projected {
		t.Fatalf("inputs not preserved: %+v", got.Details.Inputs)
	}
	if len(got.Details.Dropped) != 1 || got.Details.Dropped[0].Label != "Chan_C" {
		t.Fatalf("dropped channels not preserved: %+v", got.Details.Dropped)
	}
	if len(got.Details.Kept) != 2 {
		t.Fatalf("kept channels not preserved: %+v", got.Details.Kept)
	}
}

func TestListNewestFirstWithLimit(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"first", "second", "third"} {
		rec := history.FromSummary("/data", sampleSummary(id, base.Add(time.Duration(i)*time.Hour)), nil)
		if err := store.Record(ctx, rec); err != nil {
			t.Fatalf("Record %s: %v", id, err)
		}
	}

	all, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].ID != "third" || all[2].ID != "first" {
		t.Fatalf("unexpected order: %v", ids(all))
	}

	limited, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List limit: %v", err)
	}
	if len(limited) != 2 || limited[0].ID != "third" || limited[1].ID != "second" {
		t.Fatalf("unexpected limited list: %v", ids(limited))
	}
}

func TestGetByPrefixAndMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	for _, id := range []string{"abc123", "abd456"} {
		if err := store.Record(ctx, history.FromSummary("/d", sampleSummary(id, now), nil)); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := store.Get(ctx, "abc")
	if err != nil || got.ID != "abc123" {
		t.Fatalf("prefix lookup = %q, %v", got.ID, err)
	}
	if _, err := store.Get(ctx, "ab"); err == nil {
		t.Fatal("expected ambiguous prefix error")
	}
	if _, err := store.Get(ctx, "zzz"); !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.Get(ctx, "a_c"); !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("LIKE wildcards must be escaped, got %v", err)
	}
}

func TestFromSummaryFailedRun(t *testing.T) {
	summary := concat.Summary{RunID: "r", Outcome: concat.OutcomeFailed, Output: "/x/out.fcs"}
	rec := history.FromSummary("/x", summary, errors.New("read channels /x/a.fcs: boom"))
	if rec.Error == "" || rec.Outcome != concat.OutcomeFailed {
		t.Fatalf("unexpected failed record: %+v", rec)
	}
	if rec.Output != "" {
		t.Fatalf("failed runs must not claim an output, got %q", rec.Output)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	path := store.Path()
	store.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	if _, err := db.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	db.Close()

	if _, err := history.Open(cfg); !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestOpenExistingLedgerKeepsRuns(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	rec := history.FromSummary("/data/plate", concat.Summary{RunID: "keep-me", Outcome: concat.OutcomeNoFiles}, nil)
	if err := store.Record(t.Context(), rec); err != nil {
		t.Fatalf("Record: %v", err)
	}
	path := store.Path()
	store.Close()

	reopened, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if _, err := reopened.Get(t.Context(), "keep-me"); err != nil {
		t.Fatalf("run lost after reopen: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	defer db.Close()
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("read user_version: %v", err)
	}
	if version != 1 {
		t.Fatalf("user_version = %d, want 1", version)
	}
}

func ids(records []history.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
