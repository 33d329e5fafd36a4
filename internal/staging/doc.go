// Package staging manages the ".partial" files a merge writes before its
// output is verified, promoting them to their final name or cleaning up the
// leftovers of interrupted runs.
package staging
