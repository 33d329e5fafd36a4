// Package consensus folds the channel lists of many files into the single
// channel list every one of them agrees on.
//
// A position is kept only when every file carries the same label there. The
// first file to introduce a position fixes its label; later files can match it
// or disagree with it but never replace it, so the result depends on the order
// in which files are added. Callers add files in sorted path order to keep runs
// reproducible.
package consensus
