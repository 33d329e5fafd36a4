package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"fcsmerge/internal/concat"
	"fcsmerge/internal/config"
	"fcsmerge/internal/discovery"
	"fcsmerge/internal/fcs"
	"fcsmerge/internal/history"
	"fcsmerge/internal/logging"
	"fcsmerge/internal/manifest"
	"fcsmerge/internal/preflight"
	"fcsmerge/internal/runlock"
	"fcsmerge/internal/staging"
)

type concatOptions struct {
	yes       bool
	recursive bool
	manifest  bool
}

func newConcatCommand(ctx *commandContext) *cobra.Command {
	var opts concatOptions

	cmd := &cobra.Command{
		Use:   "concat [root]",
		Short: "Merge every FCS file under root into one file",
		Long: "Merge the FCS files found under root (default: the current directory) into\n" +
			"<root>/<name>_<timestamp>_concat.fcs, keeping only the channels all files share.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			root, err := resolveRoot(args)
			if err != nil {
				return fmt.Errorf("resolve root: %w", err)
			}
			applyConcatFlags(cmd, cfg, opts)
			return runConcat(cmd, cfg, logger, root)
		},
	}

	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Drop non-shared channels without asking")
	cmd.Flags().BoolVarP(&opts.recursive, "recursive", "r", false, "Include files in subdirectories")
	cmd.Flags().BoolVar(&opts.manifest, "manifest", false, "Write a YAML manifest beside the merged file")
	return cmd
}

// applyConcatFlags lets explicitly set flags override the configuration.
func applyConcatFlags(cmd *cobra.Command, cfg *config.Config, opts concatOptions) {
	if cmd.Flags().Changed("yes") {
		cfg.Concat.AssumeYes = opts.yes
	}
	if cmd.Flags().Changed("recursive") {
		cfg.Discovery.Recursive = opts.recursive
	}
	if cmd.Flags().Changed("manifest") {
		cfg.Output.Manifest = opts.manifest
	}
}

func runConcat(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, root string) error {
	ctx := logging.WithRoot(cmd.Context(), root)
	out := cmd.OutOrStdout()

	if err := preflight.Err(preflight.RunAll(cfg, root)); err != nil {
		return err
	}

	lock, err := runlock.Acquire(cfg.LockDir(), root)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("failed to release run lock", logging.String("lock", lock.Path()), logging.Error(err))
		}
	}()

	stale := staging.CleanStale(ctx, root, time.Duration(cfg.Concat.StalePartialHours)*time.Hour, logger)
	for _, failure := range stale.Errors {
		logging.WarnWithContext(logger, "failed to remove stale partial output", "staging_cleanup_failed",
			logging.String(logging.FieldFile, failure.Path),
			logging.Error(failure.Error),
		)
	}

	inputs, err := discovery.Find(root, discovery.Options{
		Pattern:   cfg.Discovery.Pattern,
		Exclude:   cfg.Excludes(),
		Recursive: cfg.Discovery.Recursive,
	})
	if err != nil {
		return err
	}

	run := &concat.Run{
		ID:     concat.NewRunID(),
		Inputs: inputs,
		Output: concat.OutputPath(root, cfg.Output.Suffix, cfg.Output.TimestampFormat, time.Now()),
		Port:   fcs.Port{},
		Gate:   newPromptGate(cmd.InOrStdin(), out, cfg.Concat.AssumeYes),
		Report: out,
		Logger: logger,
	}
	summary, runErr := run.Execute(ctx)

	if runErr == nil && summary.Outcome == concat.OutcomeCompleted && cfg.Output.Manifest {
		path, err := manifest.Write(root, summary)
		if err != nil {
			runErr = fmt.Errorf("write manifest: %w", err)
		} else {
			fmt.Fprintf(out, "Manifest: %q\n", filepath.Base(path))
		}
	}

	if cfg.History.Enabled {
		recordRun(context.WithoutCancel(ctx), cfg, logger, root, summary, runErr)
	}

	now := time.Now()
	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays, now, logging.RetentionTarget{
		Dir:     cfg.Paths.LogDir,
		Pattern: logging.LogFilePattern,
		Keep:    []string{filepath.Join(cfg.Paths.LogDir, logging.LogFileName(now))},
	})

	return runErr
}

// recordRun stores the run in the history ledger. Ledger failures are logged,
// never returned: the merged file is already on disk.
func recordRun(ctx context.Context, cfg *config.Config, logger *slog.Logger, root string, summary concat.Summary, runErr error) {
	store, err := history.Open(cfg)
	if err != nil {
		logging.WarnWithContext(logger, "history ledger unavailable", "history_open_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run is not recorded in history"),
			logging.String(logging.FieldErrorHint, "check the state directory or disable [history]"),
		)
		return
	}
	defer store.Close()

	rec := history.FromSummary(root, summary, runErr)
	if err := store.Record(ctx, rec); err != nil {
		logging.WarnWithContext(logger, "failed to record run", "history_record_failed",
			logging.String(logging.FieldRunID, rec.ID),
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run is not recorded in history"),
		)
	}
}
