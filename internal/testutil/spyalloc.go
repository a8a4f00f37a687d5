package testutil

import "github.com/heapkit/heapkit/heap/alloc"

// AllocCall records one Reallocate request seen by a SpyAllocator.
type AllocCall struct {
	OldLen  int
	NewSize int
	Refused bool
}

// SpyAllocator wraps a real allocator, records every reallocation
// request, and can be scripted to refuse growth requests the way an
// exhausted system allocator would.
//
// Example:
//
//	spy := testutil.NewSpyAllocator()
//	spy.FailNext(1)
//	h := heap.New(&heap.Config{Allocator: spy})
type SpyAllocator struct {
	// Inner satisfies the requests the spy does not refuse.
	Inner alloc.Allocator

	// Calls holds every request in order.
	Calls []AllocCall

	// FailAll refuses every growth request while set.
	FailAll bool

	failNext int
}

// NewSpyAllocator returns a spy over a fresh GoAllocator.
func NewSpyAllocator() *SpyAllocator {
	return &SpyAllocator{Inner: alloc.NewGo()}
}

// FailNext scripts the spy to refuse the next n growth requests.
// Release requests are never refused.
func (s *SpyAllocator) FailNext(n int) {
	s.failNext = n
}

// Reallocate implements alloc.Allocator.
func (s *SpyAllocator) Reallocate(block []byte, newSize int) []byte {
	refused := newSize > 0 && (s.FailAll || s.failNext > 0)
	if refused && s.failNext > 0 {
		s.failNext--
	}
	s.Calls = append(s.Calls, AllocCall{
		OldLen:  len(block),
		NewSize: newSize,
		Refused: refused,
	})
	if refused {
		return nil
	}
	return s.Inner.Reallocate(block, newSize)
}

// CallCount returns the number of requests the spy has seen.
func (s *SpyAllocator) CallCount() int {
	return len(s.Calls)
}

// Reset clears the recorded calls and any scripted failures.
func (s *SpyAllocator) Reset() {
	s.Calls = nil
	s.FailAll = false
	s.failNext = 0
}
