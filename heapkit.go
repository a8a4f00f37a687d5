// Package heapkit wires the allocation core of a managed runtime
// together: a byte-accounting heap (heap), an incremental tri-color
// collector (heap/gc), raw allocators (heap/alloc) and typed values
// (object). Most hosts only need New and the handles it hands back.
package heapkit

import (
	"log/slog"

	"github.com/heapkit/heapkit/heap"
	"github.com/heapkit/heapkit/heap/gc"
)

// Version is the heapkit library version.
const Version = "0.1.0"

// Runtime bundles a heap with the collector driving it, so hosts can
// reach collection phase and statistics without re-wiring the two.
type Runtime struct {
	Heap *heap.Heap
	GC   *gc.MarkSweep
}

// Options configures a Runtime. The zero value selects the default
// stack everywhere.
type Options struct {
	// Allocator supplies raw memory. Nil selects the Go allocator.
	Allocator heap.Allocator

	// StepBytes is the allocation debt that triggers one incremental
	// collection step; MarkBudget and SweepBudget bound the work each
	// step performs. Zero selects the defaults.
	StepBytes   int64
	MarkBudget  int
	SweepBudget int

	// Aggressive forces a full collection before every object
	// construction.
	Aggressive bool

	// Logger receives structured diagnostics. Nil discards them.
	Logger *slog.Logger

	// Fatal receives unrecoverable errors and must not return. Nil
	// panics directly.
	Fatal func(error)
}

// New returns a runtime on the default stack: Go allocator, incremental
// mark and sweep, default pacing.
//
// Example:
//
//	rt := heapkit.New()
//	defer rt.Close()
//
//	s := object.NewString(rt.Heap, "hello")
//	rt.Heap.Pin(s)
func New() *Runtime {
	return NewWithOptions(Options{})
}

// NewWithOptions returns a runtime built from opts.
func NewWithOptions(opts Options) *Runtime {
	ms := gc.New(&gc.Config{
		MarkBudget:  opts.MarkBudget,
		SweepBudget: opts.SweepBudget,
	})
	h := heap.New(&heap.Config{
		Allocator:  opts.Allocator,
		Collector:  ms,
		Fatal:      opts.Fatal,
		Logger:     opts.Logger,
		Aggressive: opts.Aggressive,
		StepBytes:  opts.StepBytes,
	})
	return &Runtime{Heap: h, GC: ms}
}

// Close tears the heap down and reports any leaked accounting.
func (r *Runtime) Close() error {
	return r.Heap.Close()
}
