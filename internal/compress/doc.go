// Package compress runs the image compression engine and aggregates its results.
//
// The engine is an external executable invoked with a single directory
// argument. On success it writes a JSON array of per-file results to its
// standard output. This package buffers that output, normalizes every entry
// into a StatRecord, and folds the records into a Report with per-file and
// total savings.
package compress
