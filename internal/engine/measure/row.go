package measure

import (
	"golang.org/x/exp/constraints"

	"github.com/dshills/textcore/internal/engine/bounds"
	"github.com/dshills/textcore/internal/engine/linebuf"
)

// Row holds the advance width of every character of one line, in order.
type Row struct {
	widths linebuf.Array[float32]
	offset float32 // cached total, valid while the row is not dirty
}

func newRow(widths []float32) *Row {
	return &Row{widths: *linebuf.ArrayOf(widths)}
}

// Len returns the number of measured characters.
func (r *Row) Len() int {
	return r.widths.Len()
}

// Width returns the stored width of the character at column.
func (r *Row) Width(column int) (float32, error) {
	return r.widths.At(column)
}

// Widths returns a copy of the stored widths.
func (r *Row) Widths() []float32 {
	return r.widths.Clone().Values()
}

// OffsetAt returns the summed width of the characters before column.
// column may equal Len.
func (r *Row) OffsetAt(column int) (float32, error) {
	if err := bounds.Index(column, r.Len(), true); err != nil {
		return 0, err
	}
	return sum(r.widths.Values()[:column]), nil
}

func (r *Row) total() float32 {
	return sum(r.widths.Values())
}

// split truncates the row at column and returns the removed tail.
func (r *Row) split(column int) []float32 {
	tail, _ := r.widths.Sub(column, r.Len())
	_ = r.widths.Truncate(column)
	return tail
}

func (r *Row) insert(column int, widths []float32) {
	_ = r.widths.Insert(column, widths...)
}

func (r *Row) append(widths []float32) {
	r.widths.Append(widths...)
}

func (r *Row) delete(start, end int) {
	_ = r.widths.Delete(start, end)
}

func (r *Row) release() {
	r.widths.Clear()
}

func sum[T constraints.Float](values []T) T {
	var total T
	for _, v := range values {
		total += v
	}
	return total
}
