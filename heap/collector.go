package heap

// Collector traces and sweeps a heap. The heap drives it at three points:
// full cycles (explicit or emergency), incremental steps when allocation
// debt crosses the configured threshold, and write barriers when the host
// stores a reference. Implementations live in heap/gc.
//
// Every method runs on the mutator goroutine; the heap guarantees it never
// reenters the collector while a cycle entry point is on the stack.
type Collector interface {
	// FullCycle runs one complete collection: finish any cycle already
	// in flight, then mark from the roots and sweep the whole object
	// list before returning.
	FullCycle(h *Heap)

	// Step performs one bounded increment of work and returns. Repeated
	// steps must eventually complete a cycle.
	Step(h *Heap)

	// Barrier upholds the tri-color invariant for a freshly written
	// parent-to-child reference. child is never None.
	Barrier(h *Heap, parent, child Handle)
}

// RunFullCollection runs one complete, blocking collection cycle. It is a
// no-op when no collector is configured or a cycle entry point is already
// running.
func (h *Heap) RunFullCollection() {
	if h.gc == nil || h.gcRunning {
		return
	}
	h.runFull()
}

// RunIncrementalStep performs one bounded unit of collection work. It is a
// no-op under the same conditions as RunFullCollection.
func (h *Heap) RunIncrementalStep() {
	if h.gc == nil || h.gcRunning {
		return
	}
	h.gcRunning = true
	defer func() { h.gcRunning = false }()
	h.gc.Step(h)
	h.stats.Steps++
}

// runFull invokes the collector with the reentrancy gate held. Callers
// have already checked the gate and the collector's presence.
func (h *Heap) runFull() {
	h.gcRunning = true
	defer func() { h.gcRunning = false }()
	before := h.totalBytes
	h.gc.FullCycle(h)
	h.stats.FullCycles++
	h.log.Debug("full collection finished",
		"reclaimed", before-h.totalBytes,
		"live", h.live,
		"total", h.totalBytes)
}

// checkCollect gives the collector its per-construction opportunity to
// run: a full cycle in aggressive mode, otherwise an incremental step once
// allocation debt reaches the configured threshold.
func (h *Heap) checkCollect() {
	if h.gc == nil || h.gcRunning {
		return
	}
	if h.cfg.Aggressive {
		h.runFull()
		return
	}
	if h.debt >= h.cfg.StepBytes {
		h.RunIncrementalStep()
	}
}

// ResetPacing clears the allocation debt and construction count that pace
// incremental collection. The collector calls it when a cycle completes.
func (h *Heap) ResetPacing() {
	h.debt = 0
	h.allocCount = 0
}
