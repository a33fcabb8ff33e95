// Package linebuf provides the character storage of a single document line.
//
// A Line is a contiguous, growable array of characters (runes) with in-place
// insert and delete. Growth is geometric: when an insert overflows the backing
// array, the new capacity is twice the old one, or the required size plus two
// when doubling is not enough. Deletes never shrink the backing array; Clear
// releases it.
//
// The generic Array type underneath Line is also used for the per-character
// width rows of the measurement cache, so both stay structurally identical
// under the same edits.
//
// Sub-range accessors always return independent copies, never views into
// the backing array, so later in-place edits cannot corrupt them.
package linebuf

import "github.com/dshills/textcore/internal/engine/bounds"

// Errors returned by line buffer operations.
var (
	ErrIndexOutOfRange = bounds.ErrIndexOutOfRange
	ErrInvalidRange    = bounds.ErrInvalidRange
)
