package fcs

import "errors"

var (
	// ErrNotFCS reports a file whose header does not start with an FCS version.
	ErrNotFCS = errors.New("not an FCS file")
	// ErrUnsupported reports a valid FCS feature this package does not decode.
	ErrUnsupported = errors.New("unsupported FCS layout")
	// ErrMalformed reports inconsistent offsets or keywords.
	ErrMalformed = errors.New("malformed FCS file")
)
