// Package cursor provides a caret and selection that track edits to a
// text model.
//
// A Cursor keeps two resolved positions, left and right. Both carry line,
// column and flat index, normalized through the model's indexer. When they
// differ the cursor has a selection.
//
// Edit Tracking:
//
// The cursor is installed as the model's privileged listener and is
// notified before the indexer and all other listeners. Boundaries are moved
// from the edit span without index lookups. Inserts shift every boundary at
// or after the insertion point. A delete collapses boundaries inside the
// range to its start and shifts those after it back, so a selection keeps
// addressing the same characters when text elsewhere changes.
//
// Basic usage:
//
//	m := textmodel.NewFromString("hello world")
//	c := cursor.New(m)
//	c.Select(2, 8)   // "llo wo"
//	m.Delete(0, 4)   // selection is now [0, 4): "o wo"
//
// Movement:
//
// MoveLeft, MoveRight, MoveUp and MoveDown take a repeat count and collapse
// the selection. Horizontal steps wrap across line breaks; vertical steps
// clamp the column to the destination line.
package cursor
