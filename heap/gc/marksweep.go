package gc

import (
	"fmt"
	"os"

	"github.com/heapkit/heapkit/heap"
)

// Runtime debug flag for collection logging - controlled by HEAPKIT_LOG_GC env var.
var logGC = os.Getenv("HEAPKIT_LOG_GC") != ""

// phase is where a collection cycle currently stands.
type phase uint8

const (
	// phasePause means no cycle is in flight.
	phasePause phase = iota
	// phaseMark means the gray stack is being drained.
	phaseMark
	// phaseSweep means the object list is being walked for the dead.
	phaseSweep
)

func (p phase) String() string {
	switch p {
	case phasePause:
		return "pause"
	case phaseMark:
		return "mark"
	case phaseSweep:
		return "sweep"
	default:
		return "invalid"
	}
}

// Config bounds the work one incremental step performs.
type Config struct {
	// MarkBudget is the number of gray objects one step blackens.
	// Zero or negative selects the default.
	MarkBudget int

	// SweepBudget is the number of list entries one step examines.
	// Zero or negative selects the default.
	SweepBudget int
}

// DefaultConfig is the configuration New uses for a nil *Config.
var DefaultConfig = Config{
	MarkBudget:  128,
	SweepBudget: 128,
}

// Stats carries cumulative collector counters; MarkSweep.Stats returns
// a copy.
type Stats struct {
	// Cycles counts completed collection cycles.
	Cycles int64

	// Marked counts objects blackened across all cycles.
	Marked int64

	// Swept counts list entries the sweep examined; Reclaimed counts
	// the subset it freed.
	Swept     int64
	Reclaimed int64
}

// MarkSweep is an incremental tri-color mark and sweep collector. It
// keeps no reference to a heap of its own; the owning heap passes
// itself into every entry point, which also means one MarkSweep must
// not be shared between heaps.
type MarkSweep struct {
	cfg   Config
	phase phase

	// gray is the stack of reachable objects whose references have not
	// been scanned yet.
	gray []heap.Handle

	// sweepPrev is the last surviving object the sweep examined, None
	// when the sweep stands at the list head. Reclamation goes through
	// ReclaimAfter(sweepPrev), so survivors are never revisited and the
	// cursor never points at a freed object.
	sweepPrev heap.Handle

	stats          Stats
	cycleMarked    int64
	cycleReclaimed int64
}

// New builds a collector from cfg. A nil cfg selects DefaultConfig;
// zero or negative budgets select their defaults.
func New(cfg *Config) *MarkSweep {
	c := DefaultConfig
	if cfg != nil {
		c = *cfg
	}
	if c.MarkBudget <= 0 {
		c.MarkBudget = DefaultConfig.MarkBudget
	}
	if c.SweepBudget <= 0 {
		c.SweepBudget = DefaultConfig.SweepBudget
	}
	return &MarkSweep{cfg: c}
}

// Stats returns a copy of the collector's cumulative counters.
func (ms *MarkSweep) Stats() Stats {
	return ms.stats
}

// Phase returns the name of the phase the collector currently stands
// in: "pause", "mark" or "sweep".
func (ms *MarkSweep) Phase() string {
	return ms.phase.String()
}

// FullCycle implements heap.Collector. It finishes any cycle already in
// flight, then runs one complete fresh cycle, so that on return every
// object unreachable at the start of the call has been reclaimed.
func (ms *MarkSweep) FullCycle(h *heap.Heap) {
	if ms.phase != phasePause {
		ms.finishCycle(h)
	}
	ms.beginMark(h)
	ms.finishCycle(h)
}

// Step implements heap.Collector. Each call performs one budget's worth
// of work: starting or advancing the mark, turning to the sweep once the
// gray stack drains, or advancing the sweep.
func (ms *MarkSweep) Step(h *heap.Heap) {
	switch ms.phase {
	case phasePause:
		ms.beginMark(h)
		ms.advanceMark(h)
	case phaseMark:
		ms.advanceMark(h)
	case phaseSweep:
		ms.sweepSome(h, ms.cfg.SweepBudget)
	}
}

// Barrier implements heap.Collector with a forward barrier: a reference
// written while the mark is in flight grays a white child so the cycle
// cannot lose it behind an already black parent. Outside the mark phase
// newly written edges need nothing; the next cycle traces them and the
// sweep only frees objects the last mark condemned.
func (ms *MarkSweep) Barrier(h *heap.Heap, parent, child heap.Handle) {
	if ms.phase != phaseMark {
		return
	}
	if h.ColorOf(parent) == heap.Black && h.ColorOf(child).IsWhite() {
		ms.markObject(h, child)
	}
}

// beginMark opens a cycle by graying the root set.
func (ms *MarkSweep) beginMark(h *heap.Heap) {
	ms.phase = phaseMark
	ms.cycleMarked = 0
	ms.cycleReclaimed = 0
	h.EachRoot(func(x heap.Handle) bool {
		ms.markObject(h, x)
		return true
	})
}

// advanceMark drains one budget of gray objects and, when the stack is
// empty, runs the atomic turn into the sweep.
func (ms *MarkSweep) advanceMark(h *heap.Heap) {
	ms.drain(h, ms.cfg.MarkBudget)
	if len(ms.gray) == 0 {
		ms.atomicTurn(h)
	}
}

// atomicTurn closes the mark and opens the sweep in one indivisible
// move. Roots pinned after their object was already scanned past have
// no barrier to protect them, so the turn re-grays white roots and
// drains until none remain; only then is it safe to flip the whites.
// Everything constructed from here on wears the new white and survives
// the coming sweep untouched.
func (ms *MarkSweep) atomicTurn(h *heap.Heap) {
	for {
		for len(ms.gray) > 0 {
			ms.drain(h, len(ms.gray))
		}
		pending := false
		h.EachRoot(func(x heap.Handle) bool {
			if h.ColorOf(x).IsWhite() {
				ms.markObject(h, x)
				pending = true
			}
			return true
		})
		if !pending {
			break
		}
	}
	h.FlipWhite()
	ms.sweepPrev = heap.None
	ms.phase = phaseSweep
}

// markObject grays a white object, or blackens it on the spot when it
// has no references to scan.
func (ms *MarkSweep) markObject(h *heap.Heap, x heap.Handle) {
	if !h.ColorOf(x).IsWhite() {
		return
	}
	if len(h.Refs(x)) == 0 {
		h.SetColorOf(x, heap.Black)
		ms.stats.Marked++
		ms.cycleMarked++
		return
	}
	h.SetColorOf(x, heap.Gray)
	ms.gray = append(ms.gray, x)
}

// drain blackens up to budget gray objects, graying any white children
// it uncovers.
func (ms *MarkSweep) drain(h *heap.Heap, budget int) {
	for i := 0; i < budget && len(ms.gray) > 0; i++ {
		n := len(ms.gray) - 1
		x := ms.gray[n]
		ms.gray = ms.gray[:n]

		h.SetColorOf(x, heap.Black)
		ms.stats.Marked++
		ms.cycleMarked++
		for _, child := range h.Refs(x) {
			if child != heap.None {
				ms.markObject(h, child)
			}
		}
	}
}

// sweepSome examines up to budget objects on the list, reclaiming those
// wearing the condemned white and recoloring survivors to the current
// one. It reports whether the cycle completed.
func (ms *MarkSweep) sweepSome(h *heap.Heap, budget int) bool {
	for i := 0; i < budget; i++ {
		var x heap.Handle
		if ms.sweepPrev == heap.None {
			x = h.Head()
		} else {
			x = h.NextOf(ms.sweepPrev)
		}
		if x == heap.None {
			ms.completeCycle(h)
			return true
		}

		ms.stats.Swept++
		if h.IsDead(x) {
			h.ReclaimAfter(ms.sweepPrev)
			ms.stats.Reclaimed++
			ms.cycleReclaimed++
		} else {
			h.SetColorOf(x, h.CurrentWhite())
			ms.sweepPrev = x
		}
	}
	return false
}

// finishCycle runs whatever remains of the in-flight cycle to
// completion.
func (ms *MarkSweep) finishCycle(h *heap.Heap) {
	if ms.phase == phaseMark {
		ms.atomicTurn(h)
	}
	for ms.phase == phaseSweep {
		ms.sweepSome(h, ms.cfg.SweepBudget)
	}
}

// completeCycle closes the sweep and resets the heap's pacing counters
// so allocation debt starts accruing toward the next cycle from zero.
// Detached survivors are whitened here; the sweep never visits them,
// and one left black would hide its references from the next mark.
func (ms *MarkSweep) completeCycle(h *heap.Heap) {
	ms.phase = phasePause
	ms.sweepPrev = heap.None
	ms.stats.Cycles++
	h.EachDetached(func(x heap.Handle) bool {
		h.SetColorOf(x, h.CurrentWhite())
		return true
	})
	h.ResetPacing()

	if logGC {
		fmt.Fprintf(
			os.Stderr,
			"[GC] cycle #%d: marked=%d reclaimed=%d live=%d total=%dB\n",
			ms.stats.Cycles,
			ms.cycleMarked,
			ms.cycleReclaimed,
			h.LiveObjects(),
			h.TotalBytes(),
		)
	}
	h.Logger().Debug("collection cycle complete",
		"cycle", ms.stats.Cycles,
		"marked", ms.cycleMarked,
		"reclaimed", ms.cycleReclaimed,
		"live", h.LiveObjects())
}

var _ heap.Collector = (*MarkSweep)(nil)
