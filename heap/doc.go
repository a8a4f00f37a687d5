// Package heap implements the allocation core of a managed runtime: a
// tracked reallocator with an out-of-memory recovery protocol, an
// overflow-checked vector reallocator, a capacity-doubling growth
// helper, and a population of tagged objects carrying the tri-color
// mark state an incremental collector needs.
//
// # Overview
//
// Every byte the heap hands out flows through Resize, which keeps an
// exact running total. When the raw allocator refuses a growth, Resize
// forces one full collection and retries once; a second refusal is
// fatal. Objects are built by NewObject: tagged, colored with the
// current white, and linked onto an intrusive list the sweep walks.
// Hosts reference objects through opaque Handles and declare the edges
// between them with AddRef and SetRef, which run the collector's write
// barrier.
//
// The heap does not trace or sweep by itself. It consumes a Collector
// (see heap/gc) and drives it at three points: explicit or emergency
// full cycles, incremental steps once allocation debt crosses
// Config.StepBytes, and barriers on reference writes. With a nil
// Collector the heap degrades to a tracked allocator whose failed
// allocations are immediately fatal.
//
// # Anchoring
//
// Construction may collect. A handle that is neither pinned nor
// reachable from a pinned object is invisible to the marker, so the
// host must anchor every new object before its next allocating call:
//
//	s := h.NewObject(tagNode, 16)
//	h.Pin(s) // anchored; safe to allocate again
//	child := h.NewObject(tagNode, 16)
//	h.AddRef(s, child)
//	h.Unpin(s)
//
// # Fatal Conditions
//
// Out of memory after an emergency collection, vector size overflow,
// and a vector at its growth limit do not return errors: the configured
// Fatal sink receives an error wrapping ErrOutOfMemory, ErrSizeOverflow
// or ErrTooMany, and the heap panics with the same error so a sink that
// returns cannot resume into undefined state. Hosts that want to
// survive treat the panic like a thrown runtime error and recover at
// their outermost call boundary.
//
// # Thread Safety
//
// A Heap is confined to one goroutine, the way a VM confines its
// mutator. Nothing in this package locks.
package heap
