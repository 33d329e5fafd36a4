// Package channels models the per-file channel list of a flow cytometry
// container: an ordered set of measured dimensions, each identified by a
// 1-based position and a label.
//
// The label of a channel is its long name when one is present and non-empty,
// otherwise its short name. Every comparison the merge engine performs between
// files goes through Label, so keep that rule in one place.
package channels
