package textmodel

import "github.com/google/uuid"

// Event describes one edit. The same event value is delivered to the before
// and after callbacks of every listener.
type Event struct {
	// Span is the affected region. For inserts End is where the text ends
	// once inserted; for deletes End is where the removed text ended.
	Span Span

	// Text is the inserted or removed text, with LF line breaks.
	Text string

	// Length is the number of characters in Text.
	Length int

	// Doc is a lock-free view of the model, valid only for the duration of
	// the callback. Listeners must not call locking Model methods from a
	// callback; the model's write lock is held during dispatch.
	Doc View
}

// Listener observes edits. Before callbacks run strictly before the
// mutation, after callbacks strictly after it.
type Listener interface {
	BeforeInsert(ev Event)
	AfterInsert(ev Event)
	BeforeDelete(ev Event)
	AfterDelete(ev Event)
}

// BaseListener implements Listener with no-op methods. Embed it to observe
// only the events you need.
type BaseListener struct{}

func (BaseListener) BeforeInsert(Event) {}
func (BaseListener) AfterInsert(Event)  {}
func (BaseListener) BeforeDelete(Event) {}
func (BaseListener) AfterDelete(Event)  {}

// ListenerID identifies a registered listener.
type ListenerID string

func newListenerID() ListenerID {
	return ListenerID(uuid.NewString())
}

type listenerEntry struct {
	id       ListenerID
	listener Listener
}

// Dispatch order is fixed: cursor, indexer, then general listeners in
// registration order.
func (m *Model) dispatch(call func(Listener)) {
	if m.cursor != nil {
		call(m.cursor)
	}
	call(m.indexer)
	for _, e := range m.listeners {
		call(e.listener)
	}
}

func (m *Model) dispatchBeforeInsert(ev Event) {
	m.dispatch(func(l Listener) { l.BeforeInsert(ev) })
}

func (m *Model) dispatchAfterInsert(ev Event) {
	m.dispatch(func(l Listener) { l.AfterInsert(ev) })
}

func (m *Model) dispatchBeforeDelete(ev Event) {
	m.dispatch(func(l Listener) { l.BeforeDelete(ev) })
}

func (m *Model) dispatchAfterDelete(ev Event) {
	m.dispatch(func(l Listener) { l.AfterDelete(ev) })
}
