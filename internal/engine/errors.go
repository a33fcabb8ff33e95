package engine

import (
	"errors"

	"github.com/dshills/textcore/internal/engine/bounds"
	"github.com/dshills/textcore/internal/engine/measure"
)

// Errors returned by engine operations.
var (
	ErrIndexOutOfRange  = bounds.ErrIndexOutOfRange
	ErrLineOutOfRange   = bounds.ErrLineOutOfRange
	ErrColumnOutOfRange = bounds.ErrColumnOutOfRange
	ErrInvalidRange     = bounds.ErrInvalidRange

	// ErrBusy indicates the measurement cache is rebuilding.
	ErrBusy = measure.ErrBusy

	// ErrReadOnly indicates an operation was attempted on a read-only engine.
	ErrReadOnly = errors.New("engine is read-only")

	// ErrClosed indicates the engine was closed.
	ErrClosed = errors.New("engine is closed")
)
