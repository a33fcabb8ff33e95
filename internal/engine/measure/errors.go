package measure

import (
	"errors"

	"github.com/dshills/textcore/internal/engine/bounds"
)

// Errors returned by cache queries.
var (
	// ErrBusy indicates a full rebuild is in flight. Retry once Busy
	// reports false.
	ErrBusy = errors.New("measure cache is rebuilding")

	// ErrDetached indicates the cache was destroyed.
	ErrDetached = errors.New("measure cache is detached")

	ErrLineOutOfRange   = bounds.ErrLineOutOfRange
	ErrColumnOutOfRange = bounds.ErrColumnOutOfRange
	ErrIndexOutOfRange  = bounds.ErrIndexOutOfRange
)
