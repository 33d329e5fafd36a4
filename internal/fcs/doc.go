// Package fcs reads and writes Flow Cytometry Standard (FCS 3.0/3.1) list-mode
// files.
//
// A file is a fixed 58-byte HEADER holding ASCII offsets, a delimited TEXT
// segment of keyword/value pairs, and a DATA segment holding events row by row.
// Only what the merge engine needs is supported: list mode ($MODE L), float,
// double, and uniform-width integer data, in little- or big-endian byte order.
// Every value is handed to callers as float32; wider source values are
// narrowed on read, which loses precision by design of the merge format and is
// not treated as an error.
//
// Writers always emit FCS3.1 with little-endian float32 data.
package fcs
