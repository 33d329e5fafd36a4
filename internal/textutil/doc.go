// Package textutil formats numbers for the run report and derives
// filesystem-safe tokens from arbitrary paths.
package textutil
