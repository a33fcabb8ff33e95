package textmodel

import "sync"

// SyncMode selects how a Model synchronizes access.
type SyncMode uint8

const (
	// ReaderWriter guards every public operation with a reader/writer lock:
	// reads run concurrently, mutations run exclusively.
	ReaderWriter SyncMode = iota

	// Unsynchronized removes all locking for single-goroutine use.
	Unsynchronized
)

// String returns the name of the mode.
func (m SyncMode) String() string {
	switch m {
	case ReaderWriter:
		return "reader-writer"
	case Unsynchronized:
		return "unsynchronized"
	default:
		return "unknown"
	}
}

// guard is the scoped acquisition used by every public operation regardless
// of mode.
type guard interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
}

type nopGuard struct{}

func (nopGuard) Lock()    {}
func (nopGuard) Unlock()  {}
func (nopGuard) RLock()   {}
func (nopGuard) RUnlock() {}

func newGuard(mode SyncMode) guard {
	if mode == Unsynchronized {
		return nopGuard{}
	}
	return &sync.RWMutex{}
}
