// Package transform restricts one file's flat event buffer to the consensus
// channels.
//
// Buffers are row-major: event i occupies values [i*channels, (i+1)*channels).
// When a file already carries exactly the consensus channels in order its
// buffer is returned untouched. Otherwise the buffer is viewed as a matrix,
// the consensus columns are selected in ascending position order, and the
// result is flattened again. Every reshape is checked against the source; a
// failed check is an invariant violation, never a recoverable error.
package transform
