package heap_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heapkit/heapkit/heap"
	"github.com/heapkit/heapkit/heap/gc"
)

const tagChurn = heap.TypeTag(3)

// Test_Fuzz_RandomChurn_GuardAccounting performs random construct, unpin,
// grow and collect operations and validates accounting invariants after
// every step.
func Test_Fuzz_RandomChurn_GuardAccounting(t *testing.T) {
	ms := gc.New(&gc.Config{MarkBudget: 8, SweepBudget: 8})
	h := heap.New(&heap.Config{Collector: ms, StepBytes: 1 << 10})

	rng := rand.New(rand.NewSource(42)) // Fixed seed for reproducibility
	pinned := make(map[heap.Handle]int)

	for i := 0; i < 400; i++ {
		op := rng.Intn(5)

		switch op {
		case 0: // Construct and pin
			size := 8 * (1 + rng.Intn(16))
			x := h.NewObject(tagChurn, size)
			h.Pin(x)
			pinned[x] = size

		case 1: // Unpin one object, making it garbage
			for x := range pinned {
				h.Unpin(x)
				delete(pinned, x)
				break
			}

		case 2: // Grow one pinned payload
			for x := range pinned {
				h.GrowPayload(x, 8, 1<<20, "slots")
				pinned[x] = h.PayloadSize(x)
				break
			}

		case 3: // Full collection: exactly the pinned objects survive
			h.RunFullCollection()
			requireOnlyPinned(t, h, pinned, i)

		case 4: // One incremental step
			h.RunIncrementalStep()
		}

		validateAccounting(t, h, pinned, i)
	}

	t.Logf("400 random operations completed, accounting closed")
	t.Logf("Final state: %d pinned objects", len(pinned))
	require.NoError(t, h.Close())
}

// validateAccounting checks core accounting invariants.
func validateAccounting(t *testing.T, h *heap.Heap, pinned map[heap.Handle]int, step int) {
	t.Helper()

	// 1. The byte ledger closes
	hs := h.Stats()
	require.Equal(t, h.TotalBytes(), hs.BytesAllocated-hs.BytesFreed,
		"Step %d: byte ledger out of balance", step)

	// 2. Accounted bytes cover at least the pinned payloads
	var pinnedBytes int64
	for _, size := range pinned {
		pinnedBytes += int64(size)
	}
	require.GreaterOrEqual(t, h.TotalBytes(), pinnedBytes,
		"Step %d: accounted bytes below pinned payloads", step)
	require.GreaterOrEqual(t, h.LiveObjects(), len(pinned),
		"Step %d: live count below pinned count", step)

	// 3. Pinned objects are untouched
	for x, size := range pinned {
		require.True(t, h.Pinned(x), "Step %d: pinned object lost its root entry", step)
		require.Equal(t, size, h.PayloadSize(x), "Step %d: pinned payload size drifted", step)
	}
}

// requireOnlyPinned checks that a full collection reclaimed everything
// except the root set.
func requireOnlyPinned(t *testing.T, h *heap.Heap, pinned map[heap.Handle]int, step int) {
	t.Helper()

	require.Equal(t, len(pinned), h.LiveObjects(),
		"Step %d: full collection left unpinned survivors", step)

	var want int64
	for _, size := range pinned {
		want += int64(size)
	}
	require.Equal(t, want, h.TotalBytes(),
		"Step %d: accounted bytes after full collection", step)
}

// Test_Fuzz_StressChurn_CollectionConverges performs rounds of build, wire,
// drop and collect, including reference cycles among the dropped objects.
func Test_Fuzz_StressChurn_CollectionConverges(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping stress test in short mode")
	}

	ms := gc.New(nil)
	h := heap.New(&heap.Config{Collector: ms})

	rng := rand.New(rand.NewSource(12345))

	for round := 0; round < 10; round++ {
		handles := make([]heap.Handle, 0, 50)
		for i := 0; i < 50; i++ {
			size := 8 * (1 + rng.Intn(32))
			x := h.NewObject(tagChurn, size)
			h.Pin(x)
			handles = append(handles, x)
		}

		// Wire random references, cycles included
		for i := 0; i < 25; i++ {
			parent := handles[rng.Intn(len(handles))]
			child := handles[rng.Intn(len(handles))]
			h.AddRef(parent, child)
		}

		// Drop every root; the references alone keep nothing alive
		for _, x := range handles {
			h.Unpin(x)
		}
		h.RunFullCollection()

		require.Equal(t, 0, h.LiveObjects(), "Round %d: collection left survivors", round)
		require.Equal(t, int64(0), h.TotalBytes(), "Round %d: accounted bytes remain", round)
	}

	require.NoError(t, h.Close())
	t.Logf("Stress test: 10 rounds of 50 build/collect cycles completed")
}
