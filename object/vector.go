package object

import "github.com/heapkit/heapkit/heap"

// Vector is a view over a vector object: a growable list of object
// references. The view is a value; copies share the same object.
type Vector struct {
	heap *heap.Heap
	obj  heap.Handle
}

// NewVector constructs an empty vector. The underlying handle is
// unanchored on return.
func NewVector(h *heap.Heap) Vector {
	return Vector{heap: h, obj: h.NewObject(TagVector, 0)}
}

// AsVector wraps an existing vector object.
func AsVector(h *heap.Heap, x heap.Handle) Vector {
	requireTag(h, x, TagVector)
	return Vector{heap: h, obj: x}
}

// Handle returns the underlying object.
func (v Vector) Handle() heap.Handle {
	return v.obj
}

// Len returns the number of elements, None slots included.
func (v Vector) Len() int {
	return len(v.heap.Refs(v.obj))
}

// Append adds x to the end. x may be None to reserve a slot.
func (v Vector) Append(x heap.Handle) {
	v.heap.AddRef(v.obj, x)
}

// At returns the i'th element.
func (v Vector) At(i int) heap.Handle {
	refs := v.heap.Refs(v.obj)
	if i < 0 || i >= len(refs) {
		panic("object: vector index out of range")
	}
	return refs[i]
}

// Set overwrites the i'th element. x may be None to clear the slot.
func (v Vector) Set(i int, x heap.Handle) {
	v.heap.SetRef(v.obj, i, x)
}
