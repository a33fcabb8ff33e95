package linebuf

import "github.com/dshills/textcore/internal/engine/bounds"

// DefaultCapacity is the backing capacity of a newly created array.
const DefaultCapacity = 10

// Array is a growable contiguous array with in-place insert and delete.
// Capacity grows geometrically on overflow and never shrinks implicitly.
//
// Array is not safe for concurrent use; its owner serializes access.
type Array[T any] struct {
	data   []T // len(data) is the capacity
	length int
}

// NewArray creates an empty array with at least the given capacity.
func NewArray[T any](capacity int) *Array[T] {
	if capacity < DefaultCapacity {
		capacity = DefaultCapacity
	}
	return &Array[T]{data: make([]T, capacity)}
}

// ArrayOf creates an array holding a copy of values.
func ArrayOf[T any](values []T) *Array[T] {
	a := NewArray[T](len(values))
	copy(a.data, values)
	a.length = len(values)
	return a
}

// Len returns the number of stored elements.
func (a *Array[T]) Len() int {
	return a.length
}

// Cap returns the capacity of the backing storage.
func (a *Array[T]) Cap() int {
	return len(a.data)
}

// Grow ensures the backing storage can hold at least capacity elements.
func (a *Array[T]) Grow(capacity int) {
	if len(a.data) >= capacity {
		return
	}
	newCap := len(a.data) * 2
	if newCap < capacity {
		newCap = capacity + 2
	}
	data := make([]T, newCap)
	copy(data, a.data[:a.length])
	a.data = data
}

// At returns the element at index.
func (a *Array[T]) At(index int) (T, error) {
	if err := bounds.Index(index, a.length, false); err != nil {
		var zero T
		return zero, err
	}
	return a.data[index], nil
}

// Set overwrites the element at index.
func (a *Array[T]) Set(index int, v T) error {
	if err := bounds.Index(index, a.length, false); err != nil {
		return err
	}
	a.data[index] = v
	return nil
}

// Insert inserts values at index, shifting the tail right.
func (a *Array[T]) Insert(index int, values ...T) error {
	if err := bounds.Index(index, a.length, true); err != nil {
		return err
	}
	n := len(values)
	if n == 0 {
		return nil
	}
	a.Grow(a.length + n)
	copy(a.data[index+n:], a.data[index:a.length])
	copy(a.data[index:], values)
	a.length += n
	return nil
}

// Append appends values at the end.
func (a *Array[T]) Append(values ...T) {
	// Insert at length cannot fail.
	_ = a.Insert(a.length, values...)
}

// Delete removes [start, end), shifting the tail left.
func (a *Array[T]) Delete(start, end int) error {
	if err := bounds.Range(start, end, a.length); err != nil {
		return err
	}
	n := end - start
	if n == 0 {
		return nil
	}
	copy(a.data[start:], a.data[end:a.length])
	var zero T
	for i := a.length - n; i < a.length; i++ {
		a.data[i] = zero
	}
	a.length -= n
	return nil
}

// DeleteAt removes the element at index.
func (a *Array[T]) DeleteAt(index int) error {
	if err := bounds.Index(index, a.length, false); err != nil {
		return err
	}
	return a.Delete(index, index+1)
}

// Truncate removes everything from index to the end.
func (a *Array[T]) Truncate(index int) error {
	if err := bounds.Index(index, a.length, true); err != nil {
		return err
	}
	return a.Delete(index, a.length)
}

// DeleteBefore removes everything before index.
func (a *Array[T]) DeleteBefore(index int) error {
	if err := bounds.Index(index, a.length, true); err != nil {
		return err
	}
	return a.Delete(0, index)
}

// Sub returns an independent copy of [start, end).
func (a *Array[T]) Sub(start, end int) ([]T, error) {
	if err := bounds.Range(start, end, a.length); err != nil {
		return nil, err
	}
	out := make([]T, end-start)
	copy(out, a.data[start:end])
	return out, nil
}

// Values returns the live elements. The slice aliases the backing storage:
// callers must not modify it, and it is invalidated by the next edit.
func (a *Array[T]) Values() []T {
	return a.data[:a.length:a.length]
}

// Clone returns an independent copy of the array.
func (a *Array[T]) Clone() *Array[T] {
	return ArrayOf(a.data[:a.length])
}

// Clear drops all elements and releases the backing storage.
func (a *Array[T]) Clear() {
	a.data = nil
	a.length = 0
}
