package textmodel

import "github.com/dshills/textcore/internal/engine/bounds"

// Errors returned by text model and indexer operations. All are raised before
// any mutation occurs.
var (
	ErrIndexOutOfRange  = bounds.ErrIndexOutOfRange
	ErrLineOutOfRange   = bounds.ErrLineOutOfRange
	ErrColumnOutOfRange = bounds.ErrColumnOutOfRange
	ErrInvalidRange     = bounds.ErrInvalidRange
)
