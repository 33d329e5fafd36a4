package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"fcsmerge/internal/channels"
	"fcsmerge/internal/consensus"
	"fcsmerge/internal/discovery"
	"fcsmerge/internal/fcs"
	"fcsmerge/internal/preflight"
	"fcsmerge/internal/textutil"
)

type inspectFile struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	Events   int    `json:"events"`
	Channels int    `json:"channels"`
	Matches  bool   `json:"matches_consensus"`
}

type inspectReport struct {
	Root       string               `json:"root"`
	Files      []inspectFile        `json:"files"`
	Kept       []consensus.Entry    `json:"kept"`
	Dropped    []consensus.Entry    `json:"dropped"`
	Contested  []consensus.Entry    `json:"contested,omitempty"`
	Mismatches []consensus.Mismatch `json:"mismatches"`
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var recursive bool

	cmd := &cobra.Command{
		Use:   "inspect [root]",
		Short: "Preview the shared channel layout without merging",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			root, err := resolveRoot(args)
			if err != nil {
				return fmt.Errorf("resolve root: %w", err)
			}
			if err := preflight.Err(preflight.ReadOnlyChecks(root)); err != nil {
				return err
			}
			opts := discovery.Options{
				Pattern:   cfg.Discovery.Pattern,
				Exclude:   cfg.Excludes(),
				Recursive: cfg.Discovery.Recursive || recursive,
			}
			report, err := buildInspectReport(root, opts)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, report)
			}
			printInspectReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Include files in subdirectories")
	return cmd
}

// buildInspectReport reads only headers, so it is cheap even for large runs.
func buildInspectReport(root string, opts discovery.Options) (inspectReport, error) {
	paths, err := discovery.Find(root, opts)
	if err != nil {
		return inspectReport{}, err
	}

	report := inspectReport{Root: root}
	resolver := consensus.NewResolver()
	sets := make([]channels.Set, 0, len(paths))
	for _, path := range paths {
		set, err := fcs.ReadChannels(path)
		if err != nil {
			return inspectReport{}, fmt.Errorf("read channels %s: %w", path, err)
		}
		meta, err := fcs.ReadMetadata(path)
		if err != nil {
			return inspectReport{}, fmt.Errorf("read metadata %s: %w", path, err)
		}
		resolver.Add(filepath.Base(path), set)
		sets = append(sets, set)
		report.Files = append(report.Files, inspectFile{
			Path:     path,
			Name:     filepath.Base(path),
			Events:   meta.Events,
			Channels: meta.Channels,
		})
	}

	result := resolver.Resolve()
	for i := range report.Files {
		report.Files[i].Matches = result.Set.Matches(sets[i])
	}
	report.Kept = result.Set.Entries()
	report.Dropped = result.Dropped
	report.Contested = result.Contested
	report.Mismatches = result.Mismatches
	return report, nil
}

func printInspectReport(cmd *cobra.Command, report inspectReport) {
	out := cmd.OutOrStdout()
	if len(report.Files) == 0 {
		fmt.Fprintln(out, "No files found.")
		return
	}

	total := 0
	fileRows := make([][]string, 0, len(report.Files))
	for _, f := range report.Files {
		total += f.Events
		fileRows = append(fileRows, []string{
			f.Name,
			textutil.FormatCount(f.Events),
			strconv.Itoa(f.Channels),
			yesNo(f.Matches),
		})
	}
	fmt.Fprintln(out, renderTable(out,
		[]string{"File", "Events", "Channels", "Consensus layout"},
		fileRows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
	))

	channelRows := make([][]string, 0, len(report.Kept)+len(report.Dropped)+len(report.Contested))
	for _, e := range report.Kept {
		channelRows = append(channelRows, []string{strconv.Itoa(e.Position), e.Label, strconv.Itoa(e.Matches), "keep"})
	}
	for _, e := range report.Dropped {
		channelRows = append(channelRows, []string{strconv.Itoa(e.Position), e.Label, strconv.Itoa(e.Matches), "drop"})
	}
	for _, e := range report.Contested {
		channelRows = append(channelRows, []string{strconv.Itoa(e.Position), e.Label, strconv.Itoa(e.Matches), "drop (label contested)"})
	}
	fmt.Fprintln(out, renderTable(out,
		[]string{"Position", "Label", "Matches", "Action"},
		channelRows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft},
	))

	if len(report.Mismatches) > 0 {
		rows := make([][]string, 0, len(report.Mismatches))
		for _, m := range report.Mismatches {
			rows = append(rows, []string{m.File, strconv.Itoa(m.Position), m.ConsensusLabel, m.ObservedLabel})
		}
		fmt.Fprintln(out, renderTable(out,
			[]string{"File", "Position", "Consensus", "Observed"},
			rows,
			[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
		))
	}

	fmt.Fprintf(out, "%s %s, %s %s in %s %s\n",
		textutil.FormatCount(len(report.Files)), textutil.Plural(len(report.Files), "file", "files"),
		textutil.FormatCount(total), textutil.Plural(total, "event", "events"),
		textutil.FormatCount(len(report.Kept)), textutil.Plural(len(report.Kept), "channel", "channels"))
}
