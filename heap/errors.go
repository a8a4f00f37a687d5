package heap

import "errors"

var (
	// ErrOutOfMemory reports that the raw allocator refused a growth
	// request twice: once before and once after an emergency collection.
	ErrOutOfMemory = errors.New("heap: out of memory")

	// ErrSizeOverflow reports a vector whose byte size would not fit in
	// the address space.
	ErrSizeOverflow = errors.New("heap: vector size overflow")

	// ErrTooMany reports a vector that is already at its growth limit.
	ErrTooMany = errors.New("heap: vector growth limit reached")

	// ErrUnbalanced reports that accounted bytes remained after Close
	// released every object, which means raw blocks handed out by the
	// heap were never freed back through it.
	ErrUnbalanced = errors.New("heap: accounted bytes remain after teardown")
)
