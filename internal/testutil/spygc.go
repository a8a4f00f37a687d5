package testutil

import "github.com/heapkit/heapkit/heap"

// SpyCollector counts the heap's collector entry points and forwards
// each to an optional hook, so tests can observe when the heap invokes
// collection and script what happens when it does.
//
// Example:
//
//	spy := &testutil.SpyCollector{OnFull: func(h *heap.Heap) {
//		// free something so a retry can succeed
//	}}
//	h := heap.New(&heap.Config{Collector: spy})
type SpyCollector struct {
	FullCycles int
	Steps      int
	Barriers   int

	OnFull    func(h *heap.Heap)
	OnStep    func(h *heap.Heap)
	OnBarrier func(h *heap.Heap, parent, child heap.Handle)
}

// FullCycle implements heap.Collector.
func (s *SpyCollector) FullCycle(h *heap.Heap) {
	s.FullCycles++
	if s.OnFull != nil {
		s.OnFull(h)
	}
}

// Step implements heap.Collector.
func (s *SpyCollector) Step(h *heap.Heap) {
	s.Steps++
	if s.OnStep != nil {
		s.OnStep(h)
	}
}

// Barrier implements heap.Collector.
func (s *SpyCollector) Barrier(h *heap.Heap, parent, child heap.Handle) {
	s.Barriers++
	if s.OnBarrier != nil {
		s.OnBarrier(h, parent, child)
	}
}

var _ heap.Collector = (*SpyCollector)(nil)
