// Package preflight verifies directory access before a merge touches any file,
// so permission problems surface as one clear message instead of a failure
// halfway through writing the output.
package preflight
