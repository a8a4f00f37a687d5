package object

import (
	"math"

	"github.com/heapkit/heapkit/heap"
)

// maxBufferSize caps a scratch buffer.
const maxBufferSize = math.MaxInt32

// Buffer is heap-accounted scratch for assembling byte payloads, in the
// spirit of a lexer's token buffer. The collector never sees it; the
// owner disposes of it with Release or freezes it with Seal.
type Buffer struct {
	heap *heap.Heap
	data []byte
	size int
	n    int
}

// NewBuffer returns an empty buffer drawing scratch from h.
func NewBuffer(h *heap.Heap) *Buffer {
	return &Buffer{heap: h}
}

// Len returns the bytes written so far.
func (b *Buffer) Len() int {
	return b.n
}

// Cap returns the allocated scratch capacity.
func (b *Buffer) Cap() int {
	return b.size
}

// WriteByte appends one byte, growing the scratch as needed. The error
// is always nil; it exists to satisfy io.ByteWriter.
func (b *Buffer) WriteByte(c byte) error {
	if b.n == b.size {
		b.data = b.heap.Grow(b.data, &b.size, 1, maxBufferSize, "buffer bytes")
	}
	b.data[b.n] = c
	b.n++
	return nil
}

// Write appends p. It implements io.Writer and never falls short.
func (b *Buffer) Write(p []byte) (int, error) {
	b.reserve(len(p))
	copy(b.data[b.n:], p)
	b.n += len(p)
	return len(p), nil
}

// WriteString appends s.
func (b *Buffer) WriteString(s string) (int, error) {
	b.reserve(len(s))
	copy(b.data[b.n:], s)
	b.n += len(s)
	return len(s), nil
}

func (b *Buffer) reserve(extra int) {
	for b.n+extra > b.size {
		b.data = b.heap.Grow(b.data, &b.size, 1, maxBufferSize, "buffer bytes")
	}
}

// Bytes returns the written prefix of the scratch. It stays valid only
// until the next write, Reset, Release or Seal.
func (b *Buffer) Bytes() []byte {
	return b.data[:b.n]
}

// String copies the contents out.
func (b *Buffer) String() string {
	return string(b.data[:b.n])
}

// Reset forgets the contents but keeps the scratch.
func (b *Buffer) Reset() {
	b.n = 0
}

// Release returns the scratch to the heap, leaving the buffer empty and
// reusable.
func (b *Buffer) Release() {
	if b.data != nil {
		b.heap.FreeVector(b.data, b.size, 1)
	}
	b.data = nil
	b.size = 0
	b.n = 0
}

// Seal freezes the contents into a buffer object, releases the scratch,
// and returns the object. The handle is unanchored on return.
func (b *Buffer) Seal() heap.Handle {
	x := b.heap.NewObject(TagBuffer, b.n)
	copy(b.heap.Payload(x), b.data[:b.n])
	b.Release()
	return x
}

// BufferBytes returns the payload of a sealed buffer object.
func BufferBytes(h *heap.Heap, x heap.Handle) []byte {
	requireTag(h, x, TagBuffer)
	return h.Payload(x)
}
