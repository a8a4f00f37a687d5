package alloc

import "io"

// LimitedAllocator enforces a byte budget on top of another Allocator.
//
// Growth that would push accounted usage past the budget is refused with a
// nil result before the inner allocator is consulted; shrinks and frees are
// always honored and refund their bytes. The zero point for accounting is
// the logical block length, so a caller that frees what it allocates always
// returns the allocator to InUse() == 0.
type LimitedAllocator struct {
	inner  Allocator
	budget int64

	inUse     int64
	highWater int64
	refused   int
}

// NewLimited wraps inner with a budget of at most budget in-use bytes.
func NewLimited(inner Allocator, budget int64) *LimitedAllocator {
	return &LimitedAllocator{inner: inner, budget: budget}
}

// Reallocate implements Allocator.
func (la *LimitedAllocator) Reallocate(block []byte, newSize int) []byte {
	delta := int64(newSize) - int64(len(block))
	if newSize > 0 && delta > 0 && la.inUse+delta > la.budget {
		la.refused++
		return nil
	}
	next := la.inner.Reallocate(block, newSize)
	if next == nil && newSize > 0 {
		// Inner failure: no accounting change.
		return nil
	}
	la.inUse += delta
	if la.inUse > la.highWater {
		la.highWater = la.inUse
	}
	return next
}

// Budget returns the configured byte budget.
func (la *LimitedAllocator) Budget() int64 { return la.budget }

// InUse returns the bytes currently accounted against the budget.
func (la *LimitedAllocator) InUse() int64 { return la.inUse }

// HighWater returns the maximum in-use byte count observed.
func (la *LimitedAllocator) HighWater() int64 { return la.highWater }

// Refused returns how many requests the budget turned away.
func (la *LimitedAllocator) Refused() int { return la.refused }

// Close closes the inner allocator when it is an io.Closer.
func (la *LimitedAllocator) Close() error {
	if c, ok := la.inner.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Compile-time interface check
var _ Allocator = (*LimitedAllocator)(nil)
