package heap

import (
	"fmt"
	"math"
)

// maxAlloc caps the byte size of a single vector.
const maxAlloc = math.MaxInt

// Resize is the tracked reallocation primitive every other allocation
// path funnels through. It resizes block from oldSize to newSize bytes
// and keeps the heap's byte accounting exact.
//
// An empty block must come with oldSize 0 and vice versa; Resize panics
// otherwise, since a mismatch would corrupt the accounting. A newSize of
// 0 releases the block and returns nil; releases cannot fail.
//
// When the raw allocator refuses a growth, Resize forces one full
// emergency collection and retries exactly once. A second refusal is
// fatal: the configured sink receives an error wrapping ErrOutOfMemory
// and the heap's state is left exactly as it was before the call.
func (h *Heap) Resize(block []byte, oldSize, newSize int) []byte {
	if (len(block) == 0) != (oldSize == 0) || len(block) != oldSize {
		panic("heap: block length does not match its accounted size")
	}
	if newSize < 0 {
		panic("heap: negative size")
	}
	h.stats.Resizes++

	next := h.raw.Reallocate(block, newSize)
	if newSize == 0 {
		h.account(oldSize, 0)
		return nil
	}
	if next == nil {
		h.emergencyCollect()
		next = h.raw.Reallocate(block, newSize)
		if next == nil {
			h.fatal(fmt.Errorf("%w: %d bytes requested", ErrOutOfMemory, newSize))
		}
	}
	h.account(oldSize, newSize)
	return next
}

// ResizeVector resizes a vector of newCount elements of elemSize bytes
// each, guarding the multiplication against overflow before any raw
// allocation happens. Overflow is fatal through the configured sink with
// an error wrapping ErrSizeOverflow.
func (h *Heap) ResizeVector(block []byte, oldCount, newCount, elemSize int) []byte {
	if elemSize <= 0 {
		panic("heap: element size must be positive")
	}
	if oldCount < 0 || newCount < 0 {
		panic("heap: negative element count")
	}
	// Equivalent to newCount+1 > maxAlloc/elemSize without the +1 ever
	// wrapping.
	if newCount >= maxAlloc/elemSize {
		h.fatal(fmt.Errorf("%w: %d elements of %d bytes", ErrSizeOverflow, newCount, elemSize))
	}
	return h.Resize(block, oldCount*elemSize, newCount*elemSize)
}

// NewBlock allocates a fresh block of size bytes.
func (h *Heap) NewBlock(size int) []byte {
	return h.Resize(nil, 0, size)
}

// Free releases a block previously obtained from the heap. The block's
// length is its accounted size.
func (h *Heap) Free(block []byte) {
	h.Resize(block, len(block), 0)
}

// NewVector allocates a fresh vector of count elements of elemSize bytes
// each, with the same overflow guard as ResizeVector.
func (h *Heap) NewVector(count, elemSize int) []byte {
	return h.ResizeVector(nil, 0, count, elemSize)
}

// FreeVector releases a vector of count elements of elemSize bytes each.
func (h *Heap) FreeVector(block []byte, count, elemSize int) {
	h.ResizeVector(block, count, 0, elemSize)
}

// account applies a completed resize to the byte total, the cumulative
// counters, and the allocation debt that paces the collector.
func (h *Heap) account(oldSize, newSize int) {
	delta := int64(newSize) - int64(oldSize)
	h.totalBytes += delta
	if delta > 0 {
		h.debt += delta
		h.stats.BytesAllocated += delta
	} else {
		h.stats.BytesFreed -= delta
	}
}

// emergencyCollect runs the full collection a failed allocation is
// entitled to. Nothing happens without a collector or while a cycle
// entry point is already running; the caller then proceeds straight to
// its retry.
func (h *Heap) emergencyCollect() {
	if h.gc == nil || h.gcRunning {
		return
	}
	h.stats.EmergencyCycles++
	h.log.Warn("allocation failed, forcing full collection", "total", h.totalBytes)
	h.runFull()
}
