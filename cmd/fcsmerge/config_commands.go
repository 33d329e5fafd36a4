package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"fcsmerge/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or check the fcsmerge configuration",
	}
	cmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx))
	return cmd
}

type configInitOptions struct {
	path      string
	overwrite bool
}

func newConfigInitCommand() *cobra.Command {
	var opts configInitOptions
	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the annotated sample configuration",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := initTarget(opts.path)
			if err != nil {
				return err
			}
			if !opts.overwrite {
				if err := refuseExisting(target); err != nil {
					return err
				}
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintf(out, "Check it with: fcsmerge --config %s config validate\n", target)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.path, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&opts.overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

func initTarget(flagValue string) (string, error) {
	if p := strings.TrimSpace(flagValue); p != "" {
		expanded, err := config.ExpandPath(p)
		if err != nil {
			return "", fmt.Errorf("resolve config path: %w", err)
		}
		return expanded, nil
	}
	path, err := config.DefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("determine default config path: %w", err)
	}
	return path, nil
}

func refuseExisting(path string) error {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return fmt.Errorf("%s already exists; pass --overwrite to replace it", path)
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("check config path: %w", err)
	}
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Load the configuration and print the effective settings",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, path, exists, err := config.Load(ctx.configPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			out := cmd.OutOrStdout()
			if exists {
				fmt.Fprintf(out, "Config path: %s\n", path)
			} else {
				fmt.Fprintf(out, "Config path: %s (not found, defaults in effect)\n", path)
			}
			fmt.Fprintln(out, renderTable(out, []string{"Setting", "Value"}, effectiveSettings(cfg), nil))
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

// effectiveSettings lists the values a run would use, keyed by their TOML
// names. Exclusions are shown as applied, including the output suffix.
func effectiveSettings(cfg *config.Config) [][]string {
	ledger := "disabled"
	if cfg.History.Enabled {
		ledger = cfg.HistoryPath()
	}
	return [][]string{
		{"paths.state_dir", cfg.Paths.StateDir},
		{"paths.log_dir", cfg.Paths.LogDir},
		{"discovery.pattern", cfg.Discovery.Pattern},
		{"discovery.exclude", strings.Join(cfg.Excludes(), ", ")},
		{"discovery.recursive", yesNo(cfg.Discovery.Recursive)},
		{"output.suffix", cfg.Output.Suffix},
		{"output.timestamp_format", cfg.Output.TimestampFormat},
		{"output.manifest", yesNo(cfg.Output.Manifest)},
		{"concat.assume_yes", yesNo(cfg.Concat.AssumeYes)},
		{"concat.stale_partial_hours", strconv.Itoa(cfg.Concat.StalePartialHours)},
		{"history", ledger},
		{"logging.level", cfg.Logging.Level},
		{"logging.format", cfg.Logging.Format},
		{"logging.retention_days", strconv.Itoa(cfg.Logging.RetentionDays)},
	}
}
