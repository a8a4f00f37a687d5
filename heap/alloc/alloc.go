package alloc

import "errors"

var (
	// ErrUnsupported indicates the system allocator is unavailable on this platform.
	ErrUnsupported = errors.New("alloc: system allocator not supported on this platform")

	// ErrLeaked indicates blocks were still mapped when the allocator was closed.
	ErrLeaked = errors.New("alloc: blocks still mapped at close")
)

// Allocator is the platform reallocation primitive.
//
// The single method folds allocate, resize, and free together:
//
//   - len(block) == 0 and newSize > 0 allocates a fresh block
//   - newSize == 0 releases block (if any) and returns nil; this path never fails
//   - otherwise the block is resized, preserving bytes up to min(old, new) size
//
// A nil result for newSize > 0 means the request could not be satisfied.
// Implementations never trigger collection and never block; the heap package
// owns all recovery policy.
type Allocator interface {
	Reallocate(block []byte, newSize int) []byte
}

// GoAllocator satisfies Allocator with ordinary Go slices. Releasing a block
// just drops the reference; the Go runtime reclaims it. It cannot fail short
// of the runtime itself running out of memory, so hosts that want the heap's
// out-of-memory protocol exercised under a cap should wrap it in a
// LimitedAllocator.
type GoAllocator struct{}

// NewGo creates a Go-slice allocator.
func NewGo() *GoAllocator { return &GoAllocator{} }

// Reallocate implements Allocator.
func (*GoAllocator) Reallocate(block []byte, newSize int) []byte {
	if newSize == 0 {
		return nil
	}
	if newSize == len(block) {
		return block
	}
	next := make([]byte, newSize)
	copy(next, block)
	return next
}

// Compile-time interface check
var _ Allocator = (*GoAllocator)(nil)
