// Package runlock serializes merges per input directory with a flock-based
// lock file under the state directory.
package runlock
