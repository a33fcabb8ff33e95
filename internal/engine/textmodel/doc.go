// Package textmodel provides the mutable multi-line document at the center
// of the text engine, together with its position indexer and the edit
// notification protocol.
//
// The package provides:
//
//   - A line-structured document (Model) built from linebuf.Line values
//   - Insert and delete by flat index or by (line, column)
//   - Before and after edit notifications with the affected Span
//   - A CachedIndexer translating between flat indexes and positions
//   - Optional reader/writer locking selected at construction
//   - Serialization with LF, CR, CRLF or native line endings
//
// Basic usage:
//
//	m := textmodel.NewFromString("ab\ncd")
//	m.Insert(1, "X")       // "aXb\ncd"
//	m.Delete(2, 5)         // "aXd"
//	pos, _ := m.Position(2) // (1:2 @2)
//
// Coordinates:
//
// Lines are 1-based and columns are 0-based. A flat index counts every
// character of the document, each line break counting as one. The position
// just past a line's last character addresses that line's break.
//
// Notifications:
//
// Each edit is delivered to listeners in a fixed order: the cursor, the
// indexer, then general listeners in registration order. Before callbacks
// run ahead of the mutation, after callbacks once it is complete. Listeners
// read the document through Event.Doc, never through locking Model methods.
//
// Thread Safety:
//
// In ReaderWriter mode all reads take a shared lock and all edits an
// exclusive lock held across dispatch. Unsynchronized mode removes locking
// entirely. The CachedIndexer serializes its cache under its own lock.
package textmodel
