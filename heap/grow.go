package heap

import "fmt"

// MinVectorSize is the smallest element capacity Grow produces. Doubling
// from a tiny vector would churn through reallocations one element at a
// time; the floor skips straight past that regime.
const MinVectorSize = 4

// Grow expands a vector by at least one element, doubling its capacity
// until the limit caps it. size is the current element capacity and is
// updated to the new one only after the reallocation has succeeded, so a
// fatal unwind leaves the caller's bookkeeping consistent with the block
// it still holds.
//
// A vector already at limit is fatal through the configured sink with an
// error wrapping ErrTooMany that names what, the caller's plural noun
// for the elements. A vector at or past limit/2 grows to exactly limit.
func (h *Heap) Grow(block []byte, size *int, elemSize, limit int, what string) []byte {
	h.stats.GrowCalls++
	cur := *size
	var newSize int
	if cur >= limit/2 {
		if cur >= limit {
			h.fatal(fmt.Errorf("%w: too many %s (limit is %d)", ErrTooMany, what, limit))
		}
		newSize = limit
	} else {
		newSize = cur * 2
		if newSize < MinVectorSize {
			newSize = MinVectorSize
		}
	}
	next := h.ResizeVector(block, cur, newSize, elemSize)
	*size = newSize
	return next
}

// GrowPayload applies Grow to an object's payload, keeping the header's
// accounted size in step. The payload must be managed exclusively as a
// vector of elemSize-byte elements; its current capacity is derived from
// its length. The returned slice is also reachable through Payload.
func (h *Heap) GrowPayload(x Handle, elemSize, limit int, what string) []byte {
	hdr := h.header(x)
	if elemSize <= 0 {
		panic("heap: element size must be positive")
	}
	if len(hdr.data)%elemSize != 0 {
		panic("heap: payload is not a whole number of elements")
	}
	size := len(hdr.data) / elemSize
	next := h.Grow(hdr.data, &size, elemSize, limit, what)
	hdr.data = next
	hdr.size = size * elemSize
	return next
}

// ShrinkPayload trims an object's payload to exactly count elements of
// elemSize bytes, releasing the slack a doubling growth left behind.
// Growing through it is not allowed.
func (h *Heap) ShrinkPayload(x Handle, count, elemSize int) []byte {
	hdr := h.header(x)
	if elemSize <= 0 {
		panic("heap: element size must be positive")
	}
	if len(hdr.data)%elemSize != 0 {
		panic("heap: payload is not a whole number of elements")
	}
	cur := len(hdr.data) / elemSize
	if count > cur {
		panic("heap: shrink would grow the payload")
	}
	next := h.ResizeVector(hdr.data, cur, count, elemSize)
	hdr.data = next
	hdr.size = count * elemSize
	return next
}
