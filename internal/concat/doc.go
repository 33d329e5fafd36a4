// Package concat merges FCS files that share a consensus channel layout.
//
// A Run reads every input twice. The first pass reads only channel headers and
// folds them into a consensus.Resolver. Channels that are missing from, or
// relabeled in, any input are dropped, which requires approval from the Gate.
// The second pass decodes events, projects each file onto the consensus
// columns, and appends them to an Accumulator. The result is written to a
// ".partial" file, re-read and verified, and only then renamed to its final
// name. Progress is written to the report writer in a fixed line format.
package concat
