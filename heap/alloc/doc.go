// Package alloc provides the raw reallocation primitive the heap is built on.
//
// # Overview
//
// Everything the VM heap allocates, grows, shrinks, or frees goes through a
// single operation:
//
//	Reallocate(block, newSize) → block'
//
// with uniform edge semantics: a nil block paired with a zero size denotes
// "no block", a zero newSize releases the block, and a nil result for a
// positive newSize reports failure. Allocators never trigger collection and
// never block; recovery policy lives one layer up, in the heap package.
//
// # Implementations
//
// GoAllocator: blocks are ordinary Go slices
//
//   - Reallocate copies into a fresh slice; release drops the reference
//   - cannot fail short of the Go runtime itself running out of memory
//
// LimitedAllocator: byte-budget wrapper around another Allocator
//
//   - refuses growth past a fixed budget by returning nil
//   - refunds released bytes, tracks in-use and high-water marks
//   - gives the heap's collect-and-retry path a real trigger
//
// SysAllocator: anonymous private mmap per block (unix only)
//
//   - Linux resizes with mremap(MREMAP_MAYMOVE); other unix remaps and copies
//   - Close unmaps anything still outstanding
//
// # Usage Example
//
//	ra := alloc.NewLimited(alloc.NewGo(), 1<<20)
//
//	b := ra.Reallocate(nil, 256) // allocate
//	b = ra.Reallocate(b, 512)    // grow, prefix preserved
//	_ = ra.Reallocate(b, 0)      // free
//
// # Thread Safety
//
// Allocator instances are not thread-safe. The heap serializes access; hosts
// sharing one allocator across heaps must synchronize externally.
package alloc
