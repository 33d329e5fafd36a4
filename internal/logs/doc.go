// Package logs reads the daily fcsmerge log files for the CLI: the last lines
// of a file, optionally narrowed to a single run, and follow-mode polling that
// stops when the caller's context ends.
package logs
