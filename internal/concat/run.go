package concat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"fcsmerge/internal/consensus"
	"fcsmerge/internal/invariant"
	"fcsmerge/internal/logging"
	"fcsmerge/internal/staging"
	"fcsmerge/internal/transform"
)

// ErrNoCommonChannels is returned when the inputs share no channel at all, so
// there is nothing to write.
var ErrNoCommonChannels = errors.New("no channel is common to all input files")

// Outcome classifies how a run ended.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	// OutcomeNoFiles and OutcomeDeclined end a run early without error.
	OutcomeNoFiles  Outcome = "no_files"
	OutcomeDeclined Outcome = "declined"
	OutcomeFailed   Outcome = "failed"
)

// InputSummary describes one input as it was merged.
type InputSummary struct {
	Path     string `json:"path" yaml:"path"`
	Name     string `json:"name" yaml:"name"`
	Events   int    `json:"events" yaml:"events"`
	Channels int    `json:"channels" yaml:"channels"`
	// Projected is false when the file already matched the consensus layout.
	Projected bool `json:"projected" yaml:"projected"`
}

// Summary is the result of Run.Execute. On error it holds whatever was
// learned before the failure.
type Summary struct {
	RunID       string
	Outcome     Outcome
	StartedAt   time.Time
	FinishedAt  time.Time
	Inputs      []InputSummary
	Consensus   consensus.Result
	TotalEvents int
	Output      string
	OutputSize  int64
}

// Run is the context of one concatenation: its inputs, output, collaborators,
// and clock. Zero-valued collaborators fall back to safe defaults except Port,
// which is required.
type Run struct {
	ID     string
	Inputs []string
	// Output is the final path; the file is staged beside it first.
	Output string
	Port   Port
	Gate   Gate
	Report io.Writer
	Logger *slog.Logger
	Now    func() time.Time
}

// OutputPath names the merged file for root: <root>/<base>_<timestamp><suffix>.
func OutputPath(root, suffix, layout string, now time.Time) string {
	base := filepath.Base(filepath.Clean(root))
	if base == string(filepath.Separator) || base == "." {
		base = "root"
	}
	return filepath.Join(root, base+"_"+now.Format(layout)+suffix)
}

// NewRunID returns a fresh random run identifier.
func NewRunID() string { return uuid.NewString() }

// Execute performs the run. Informational endings (no inputs, declined drop)
// return a nil error with the matching Outcome.
func (r *Run) Execute(ctx context.Context) (Summary, error) {
	if r.Port == nil {
		return Summary{}, errors.New("concat: run has no port")
	}
	if r.ID == "" {
		r.ID = NewRunID()
	}
	now := r.Now
	if now == nil {
		now = time.Now
	}
	ctx = logging.WithRunID(ctx, r.ID)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(r.Logger, "concat"))
	report := newReporter(r.Report)

	summary := Summary{RunID: r.ID, StartedAt: now(), Output: r.Output}
	err := r.execute(ctx, logger, report, &summary)
	summary.FinishedAt = now()
	if err != nil {
		summary.Outcome = OutcomeFailed
		logger.Error("concatenation failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "run_failed"),
			logging.Bool("invariant", invariant.Is(err)),
		)
		return summary, err
	}
	logger.Info("run finished",
		logging.String("outcome", string(summary.Outcome)),
		logging.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)),
		logging.String(logging.FieldEventType, "run_finished"),
	)
	return summary, nil
}

func (r *Run) execute(ctx context.Context, logger *slog.Logger, report reporter, summary *Summary) error {
	total := len(r.Inputs)
	if total == 0 {
		report.noFiles()
		summary.Outcome = OutcomeNoFiles
		return nil
	}
	logger.Info("run started", logging.Int("files", total), logging.String(logging.FieldFile, r.Output))

	result, err := r.resolve(ctx, logger, report)
	summary.Consensus = result
	if err != nil {
		return err
	}

	if len(result.Dropped) > 0 {
		gate := r.Gate
		if gate == nil {
			gate = AlwaysConfirm
		}
		ok, err := gate.Confirm(result.Dropped)
		if err != nil {
			return fmt.Errorf("confirm dropped channels: %w", err)
		}
		if !ok {
			report.declined()
			summary.Outcome = OutcomeDeclined
			logger.Info("concatenation declined", logging.Int("dropped", len(result.Dropped)))
			return nil
		}
	}

	acc, inputs, err := r.accumulate(ctx, logger, report, result.Set)
	summary.Inputs = inputs
	if err != nil {
		return err
	}
	events, err := acc.TotalEvents()
	if err != nil {
		return err
	}
	summary.TotalEvents = events
	report.counts(events, result.Set.Len())

	size, err := r.write(logger, report, acc, events, result.Set)
	if err != nil {
		return err
	}
	summary.OutputSize = size
	summary.Outcome = OutcomeCompleted
	return nil
}

// resolve is the header-only first pass.
func (r *Run) resolve(ctx context.Context, logger *slog.Logger, report reporter) (consensus.Result, error) {
	report.section("Checking channels")
	resolver := consensus.NewResolver()
	for i, path := range r.Inputs {
		if err := ctx.Err(); err != nil {
			return consensus.Result{}, err
		}
		set, err := r.Port.ReadChannels(path)
		if err != nil {
			return consensus.Result{}, fmt.Errorf("read channels %s: %w", path, err)
		}
		for _, m := range resolver.Add(filepath.Base(path), set) {
			logging.WarnWithContext(logger, "channel label differs from consensus", "channel_mismatch",
				logging.String(logging.FieldFile, m.File),
				logging.Int("position", m.Position),
				logging.String("consensus_label", m.ConsensusLabel),
				logging.String("observed_label", m.ObservedLabel),
				logging.String(logging.FieldImpact, "channel is dropped from the merged file"),
				logging.String(logging.FieldErrorHint, "check the panel configuration of the listed file"),
			)
		}
		report.progress(i+1, len(r.Inputs))
	}

	result := resolver.Resolve()
	report.mismatches(result.Mismatches)
	report.entries("Removing channels", result.Dropped)
	report.entries("Keeping channels", result.Set.Entries())
	if result.Set.Len() == 0 {
		return result, ErrNoCommonChannels
	}
	for _, e := range result.Contested {
		logging.WarnWithContext(logger, "channel matched in every file but its label is dropped elsewhere", "channel_contested",
			logging.Int("position", e.Position),
			logging.String("label", e.Label),
			logging.String(logging.FieldImpact, "channel is left out of the merged file"),
			logging.String(logging.FieldErrorHint, "check for duplicate channel labels in the panel"),
		)
	}
	if len(result.Dropped) > 0 {
		logger.Info("channels dropped",
			logging.Int("dropped", len(result.Dropped)),
			logging.Int("contested", len(result.Contested)),
			logging.Int("kept", result.Set.Len()),
			logging.String(logging.FieldEventType, "consensus_resolved"),
		)
	}
	return result, nil
}

// accumulate is the full-read second pass.
func (r *Run) accumulate(ctx context.Context, logger *slog.Logger, report reporter, cons consensus.Set) (*Accumulator, []InputSummary, error) {
	report.section("Concatenating events")
	acc := NewAccumulator(cons.Len())
	inputs := make([]InputSummary, 0, len(r.Inputs))
	for i, path := range r.Inputs {
		if err := ctx.Err(); err != nil {
			return nil, inputs, err
		}
		ds, err := r.Port.ReadEvents(path)
		if err != nil {
			return nil, inputs, fmt.Errorf("read events %s: %w", path, err)
		}
		report.file(i+1, len(r.Inputs), ds.Name)

		sel, err := transform.Select(ds.Events, ds.EventCount, ds.Channels, cons)
		if err != nil {
			return nil, inputs, fmt.Errorf("%s: %w", ds.Name, err)
		}
		acc.Append(sel.Events)
		inputs = append(inputs, InputSummary{
			Path:      path,
			Name:      ds.Name,
			Events:    ds.EventCount,
			Channels:  ds.Channels.Len(),
			Projected: !sel.FastPath,
		})
		logger.Debug("file merged",
			logging.String(logging.FieldFile, ds.Name),
			logging.Int("events", ds.EventCount),
			logging.Bool("projected", !sel.FastPath),
		)
	}
	return acc, inputs, nil
}

// write stages, verifies, and promotes the output. The partial file is
// removed on any failure.
func (r *Run) write(logger *slog.Logger, report reporter, acc *Accumulator, events int, cons consensus.Set) (size int64, err error) {
	report.section("Writing events")
	partial := staging.PartialPath(r.Output)
	defer func() {
		if err != nil {
			if discardErr := staging.Discard(partial); discardErr != nil {
				logging.WarnWithContext(logger, "failed to remove partial output", "staging_discard_failed",
					logging.String(logging.FieldFile, partial),
					logging.Error(discardErr),
					logging.String(logging.FieldImpact, "a .partial file remains next to the inputs"),
				)
			}
		}
	}()

	if err := r.Port.Write(partial, cons.Labels(), acc.Events()); err != nil {
		return 0, fmt.Errorf("write %s: %w", filepath.Base(r.Output), err)
	}
	meta, err := r.Port.ReadMetadata(partial)
	if err != nil {
		return 0, fmt.Errorf("re-read %s: %w", filepath.Base(partial), err)
	}
	report.written(filepath.Base(r.Output), meta.Size)
	report.counts(meta.Events, meta.Channels)
	if err := Verify(meta, events, cons.Len()); err != nil {
		return 0, err
	}
	if err := staging.Promote(partial, r.Output); err != nil {
		return 0, err
	}
	logger.Info("output written",
		logging.String(logging.FieldFile, r.Output),
		logging.Int64("bytes", meta.Size),
		logging.Int("events", events),
		logging.Int("channels", cons.Len()),
		logging.String(logging.FieldEventType, "output_written"),
	)
	return meta.Size, nil
}
