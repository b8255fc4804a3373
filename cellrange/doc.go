// Package cellrange implements closed cell-index ranges and the pure helpers
// the cell list uses to normalize hidden ranges and derive visible cells.
//
// Ranges are inclusive on both ends: [Start, End]. Indexes are 0-based.
package cellrange
