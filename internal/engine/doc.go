// Package engine provides the text core of the editor as a single facade.
//
// The engine package combines a line-structured text model, its position
// indexer, a selection cursor and a glyph measurement cache into a unified,
// thread-safe API. Each component lives in its own sub-package and stays
// usable on its own.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - bounds: range checks and the error taxonomy shared by all packages
//   - linebuf: growable per-line character storage
//   - textmodel: the document, edit notifications and the position indexer
//   - cursor: a caret or selection that follows edits
//   - measure: per-character glyph widths, patched incrementally
//   - glyph: width providers (terminal cells, east-asian width, font faces)
//
// Every edit is announced to listeners in a fixed order, cursor first and
// indexer second, then general listeners such as the measurement cache:
//
//	Insert/Delete
//	  -> BeforeInsert/BeforeDelete (cursor, indexer, listeners)
//	  -> mutate lines
//	  -> AfterInsert/AfterDelete  (cursor, indexer, listeners)
//
// # Thread Safety
//
// All Engine operations are thread-safe. Edits through the Engine are
// serialized, and reads run concurrently under the model's read lock. A
// model created with editor.thread_safe = false skips its internal locking
// and must then be confined to one goroutine.
//
// # Basic Usage
//
//	e := engine.New(engine.WithContent("Hello, World!"))
//	defer e.Close()
//
//	e.Replace(7, 12, "Go")  // "Hello, Go!"
//	e.Cursor().Set(5)
//	e.InsertAtCursor(" there") // "Hello there, Go!"
//
//	pos, _ := e.Position(6) // line 1, column 6
//	x, _ := e.OffsetAt(1, 6) // display offset of that column
//
// # Loading Files
//
//	f, _ := os.Open("file.txt")
//	defer f.Close()
//	e, _ := engine.NewFromReader(f)
//
// # Configuration
//
// Configure the engine at creation time and again at runtime:
//
//	cfg, _ := config.LoadFile("textcore.toml")
//	e := engine.New(engine.WithConfig(cfg), engine.WithLogger(logger))
//
//	cfg.Measure.TabWidth = 8
//	e.ApplyConfig(cfg)
//
// # Read-Only Mode
//
//	e := engine.New(
//	    engine.WithContent("read-only content"),
//	    engine.WithReadOnly(),
//	)
//
//	_, err := e.Insert(0, "text")
//	// err == engine.ErrReadOnly
//
// # Error Handling
//
//   - ErrIndexOutOfRange, ErrLineOutOfRange, ErrColumnOutOfRange,
//     ErrInvalidRange: a bad address; nothing was changed
//   - ErrBusy: the measurement cache is rebuilding; retry later
//   - ErrReadOnly: write operation on a read-only engine
//   - ErrClosed: the engine was closed
package engine
