package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fcsmerge/internal/concat"
	"fcsmerge/internal/consensus"
)

// ErrNotFound is returned when no run matches the requested ID.
var ErrNotFound = errors.New("run not found")

// Record is one ledger row.
type Record struct {
	ID          string         `json:"id"`
	Root        string         `json:"root"`
	Output      string         `json:"output,omitempty"`
	Outcome     concat.Outcome `json:"outcome"`
	StartedAt   time.Time      `json:"started_at"`
	FinishedAt  time.Time      `json:"finished_at"`
	Files       int            `json:"files"`
	Events      int            `json:"events"`
	Channels    int            `json:"channels"`
	Dropped     int            `json:"dropped"`
	OutputBytes int64          `json:"output_bytes"`
	Error       string         `json:"error,omitempty"`
	Details     Details        `json:"details"`
}

// Details is stored as JSON alongside the scalar columns.
type Details struct {
	Inputs     []concat.InputSummary `json:"inputs,omitempty"`
	Kept       []consensus.Entry     `json:"kept,omitempty"`
	Dropped    []consensus.Entry     `json:"dropped,omitempty"`
	Contested  []consensus.Entry     `json:"contested,omitempty"`
	Mismatches []consensus.Mismatch  `json:"mismatches,omitempty"`
}

// FromSummary builds a record for a finished run. runErr is the error Execute
// returned, if any.
func FromSummary(root string, summary concat.Summary, runErr error) Record {
	rec := Record{
		ID:          summary.RunID,
		Root:        root,
		Outcome:     summary.Outcome,
		StartedAt:   summary.StartedAt,
		FinishedAt:  summary.FinishedAt,
		Files:       summary.Consensus.Files,
		Events:      summary.TotalEvents,
		Channels:    summary.Consensus.Set.Len(),
		Dropped:     len(summary.Consensus.Dropped) + len(summary.Consensus.Contested),
		OutputBytes: summary.OutputSize,
		Details: Details{
			Inputs:     summary.Inputs,
			Kept:       summary.Consensus.Set.Entries(),
			Dropped:    summary.Consensus.Dropped,
			Contested:  summary.Consensus.Contested,
			Mismatches: summary.Consensus.Mismatches,
		},
	}
	if summary.Outcome == concat.OutcomeCompleted {
		rec.Output = summary.Output
	}
	if runErr != nil {
		rec.Error = runErr.Error()
		if rec.Outcome == "" {
			rec.Outcome = concat.OutcomeFailed
		}
	}
	return rec
}

// Record inserts rec.
func (s *Store) Record(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		return errors.New("record run: missing id")
	}
	details, err := json.Marshal(rec.Details)
	if err != nil {
		return fmt.Errorf("encode run details: %w", err)
	}
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `INSERT INTO runs (
			id, root, output, outcome, started_at, finished_at, files, events,
			channels, dropped, output_bytes, error_message, details_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, rec.Root, rec.Output, string(rec.Outcome),
			formatTime(rec.StartedAt), formatTime(rec.FinishedAt),
			rec.Files, rec.Events, rec.Channels, rec.Dropped, rec.OutputBytes,
			rec.Error, string(details),
		)
		if err != nil {
			return fmt.Errorf("insert run %s: %w", rec.ID, err)
		}
		return nil
	})
}

const selectColumns = `id, root, output, outcome, started_at, finished_at, files, events,
	channels, dropped, output_bytes, error_message, details_json`

// List returns the most recent runs first. A non-positive limit returns all runs.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	query := "SELECT " + selectColumns + " FROM runs ORDER BY started_at DESC, id"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return out, nil
}

// Get returns the run with id, or ErrNotFound. A unique ID prefix is accepted.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	if id == "" {
		return Record{}, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+selectColumns+" FROM runs WHERE id = ? OR id LIKE ? ESCAPE '\\' ORDER BY id = ? DESC LIMIT 2",
		id, escapeLike(id)+"%", id)
	if err != nil {
		return Record{}, fmt.Errorf("get run %s: %w", id, err)
	}
	defer rows.Close()

	var found []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return Record{}, err
		}
		found = append(found, rec)
	}
	if err := rows.Err(); err != nil {
		return Record{}, fmt.Errorf("get run %s: %w", id, err)
	}
	switch {
	case len(found) == 0:
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	case found[0].ID == id || len(found) == 1:
		return found[0], nil
	default:
		return Record{}, fmt.Errorf("run id prefix %q is ambiguous", id)
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		rec               Record
		outcome           string
		started, finished string
		details           string
	)
	if err := row.Scan(&rec.ID, &rec.Root, &rec.Output, &outcome, &started, &finished,
		&rec.Files, &rec.Events, &rec.Channels, &rec.Dropped, &rec.OutputBytes,
		&rec.Error, &details); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("scan run: %w", err)
	}
	rec.Outcome = concat.Outcome(outcome)
	rec.StartedAt = parseTime(started)
	rec.FinishedAt = parseTime(finished)
	if details != "" {
		if err := json.Unmarshal([]byte(details), &rec.Details); err != nil {
			return Record{}, fmt.Errorf("decode details of run %s: %w", rec.ID, err)
		}
	}
	return rec, nil
}

// Timestamps are stored as fixed-width UTC text so they sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func escapeLike(value string) string {
	out := make([]byte, 0, len(value))
	for i := 0; i < len(value); i++ {
		switch value[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, value[i])
	}
	return string(out)
}
