package object

import "github.com/heapkit/heapkit/heap"

// Interner dedupes string objects by content, the way a runtime's
// string table does. Every interned string is pinned, so collection
// cycles cannot take it out from under the table; Release drops all of
// the pins at once.
type Interner struct {
	heap      *heap.Heap
	byContent map[string]heap.Handle
}

// NewInterner builds an empty string table over h.
func NewInterner(h *heap.Heap) *Interner {
	return &Interner{
		heap:      h,
		byContent: make(map[string]heap.Handle),
	}
}

// Intern returns the canonical string object for s, constructing and
// pinning it on first sight.
func (in *Interner) Intern(s string) heap.Handle {
	if x, ok := in.byContent[s]; ok {
		return x
	}
	x := NewString(in.heap, s)
	in.heap.Pin(x)
	in.byContent[s] = x
	return x
}

// Len returns the number of distinct strings interned.
func (in *Interner) Len() int {
	return len(in.byContent)
}

// Release unpins every interned string and empties the table. The
// strings stay alive until the next collection cycle finds them
// unreachable.
func (in *Interner) Release() {
	for _, x := range in.byContent {
		in.heap.Unpin(x)
	}
	clear(in.byContent)
}
