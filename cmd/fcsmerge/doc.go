// Command fcsmerge concatenates the FCS files in a directory into a single
// file that keeps only the channels every input shares.
//
// Subcommands:
//   - concat: merge the files under a root (asks before dropping channels)
//   - inspect: header-only preview of the shared layout
//   - history: list or show recorded runs
//   - logs: print or follow the newest log file
//   - config: create or validate the configuration file
package main
