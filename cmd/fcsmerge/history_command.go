package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"fcsmerge/internal/history"
	"fcsmerge/internal/textutil"
)

const historyTimeLayout = "2006-01-02 15:04:05"

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previous merge runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(ctx, func(store *history.Store) error {
				records, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					if records == nil {
						records = []history.Record{}
					}
					return writeJSON(cmd, records)
				}
				printHistoryList(cmd, records)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	cmd.AddCommand(newHistoryShowCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run in detail (an unambiguous ID prefix is enough)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(ctx, func(store *history.Store) error {
				rec, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, rec)
				}
				printHistoryRecord(cmd, rec)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

// withHistory opens the ledger read-side. A ledger that was never created is
// reported plainly instead of being created empty.
func withHistory(ctx *commandContext, fn func(*history.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if _, err := os.Stat(cfg.HistoryPath()); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("no run history at %s", cfg.HistoryPath())
	}
	store, err := history.Open(cfg)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func printHistoryList(cmd *cobra.Command, records []history.Record) {
	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return
	}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		output := "-"
		if rec.Output != "" {
			output = filepath.Base(rec.Output)
		}
		rows = append(rows, []string{
			shortID(rec.ID),
			rec.StartedAt.Local().Format(historyTimeLayout),
			string(rec.Outcome),
			strconv.Itoa(rec.Files),
			textutil.FormatCount(rec.Events),
			strconv.Itoa(rec.Channels),
			strconv.Itoa(rec.Dropped),
			output,
		})
	}
	fmt.Fprintln(out, renderTable(out,
		[]string{"ID", "Started", "Outcome", "Files", "Events", "Channels", "Dropped", "Output"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
	))
}

func printHistoryRecord(cmd *cobra.Command, rec history.Record) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run:       %s\n", rec.ID)
	fmt.Fprintf(out, "Outcome:   %s\n", rec.Outcome)
	fmt.Fprintf(out, "Root:      %s\n", rec.Root)
	fmt.Fprintf(out, "Started:   %s\n", rec.StartedAt.Local().Format(historyTimeLayout))
	fmt.Fprintf(out, "Duration:  %s\n", rec.FinishedAt.Sub(rec.StartedAt).Round(time.Millisecond))
	if rec.Output != "" {
		fmt.Fprintf(out, "Output:    %s (%s B)\n", rec.Output, textutil.FormatCount(rec.OutputBytes))
	}
	fmt.Fprintf(out, "Events:    %s in %d %s\n", textutil.FormatCount(rec.Events), rec.Channels, textutil.Plural(rec.Channels, "channel", "channels"))
	if rec.Error != "" {
		fmt.Fprintf(out, "Error:     %s\n", rec.Error)
	}

	if len(rec.Details.Inputs) > 0 {
		rows := make([][]string, 0, len(rec.Details.Inputs))
		for _, in := range rec.Details.Inputs {
			rows = append(rows, []string{in.Name, textutil.FormatCount(in.Events), strconv.Itoa(in.Channels), yesNo(in.Projected)})
		}
		fmt.Fprintln(out, renderTable(out,
			[]string{"Input", "Events", "Channels", "Projected"},
			rows,
			[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
		))
	}
	if len(rec.Details.Dropped) > 0 {
		rows := make([][]string, 0, len(rec.Details.Dropped))
		for _, e := range rec.Details.Dropped {
			rows = append(rows, []string{strconv.Itoa(e.Position), e.Label, strconv.Itoa(e.Matches)})
		}
		fmt.Fprintln(out, renderTable(out,
			[]string{"Position", "Dropped label", "Matches"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignRight},
		))
	}
	if len(rec.Details.Contested) > 0 {
		rows := make([][]string, 0, len(rec.Details.Contested))
		for _, e := range rec.Details.Contested {
			rows = append(rows, []string{strconv.Itoa(e.Position), e.Label, strconv.Itoa(e.Matches)})
		}
		fmt.Fprintln(out, renderTable(out,
			[]string{"Position", "Contested label", "Matches"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignRight},
		))
	}
}
