// Package history persists a ledger of concatenation runs in SQLite.
//
// Every run, including declined and failed ones, is recorded with its
// outcome, counts, and a JSON detail blob holding the per-input summary and
// the channels that were dropped. The ledger backs the `history` commands and
// lets a merged file be traced back to the inputs that produced it.
package history
