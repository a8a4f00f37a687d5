package heap_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heapkit/heapkit/heap"
	"github.com/heapkit/heapkit/internal/testutil"
)

func Test_ResizeVector_ScalesByElementSize(t *testing.T) {
	h := heap.New(nil)
	defer h.Close()

	vec := h.NewVector(10, 8)
	require.Len(t, vec, 80)
	require.Equal(t, int64(80), h.TotalBytes())

	vec = h.ResizeVector(vec, 10, 3, 8)
	require.Len(t, vec, 24)
	require.Equal(t, int64(24), h.TotalBytes())

	h.FreeVector(vec, 3, 8)
	require.Equal(t, int64(0), h.TotalBytes())
}

func Test_ResizeVector_OverflowIsFatalBeforeAnyAllocation(t *testing.T) {
	spy := testutil.NewSpyAllocator()
	h := heap.New(&heap.Config{Allocator: spy})

	err := testutil.ExpectFatal(t, func() {
		h.NewVector(math.MaxInt/16, 16)
	})

	require.ErrorIs(t, err, heap.ErrSizeOverflow)
	require.Equal(t, 0, spy.CallCount())
	require.Equal(t, int64(0), h.TotalBytes())
}

func Test_ResizeVector_RejectsBadElementSize(t *testing.T) {
	h := heap.New(nil)
	defer h.Close()

	require.Panics(t, func() { h.NewVector(4, 0) })
	require.Panics(t, func() { h.NewVector(4, -8) })
	require.Panics(t, func() { h.ResizeVector(nil, 0, -1, 8) })
}

func Test_ResizeVector_LargestLegalCountPassesGuard(t *testing.T) {
	// One element below the overflow threshold must reach the raw
	// allocator rather than trip the guard. The spy refuses it, so the
	// request ends in the out-of-memory path instead of a real
	// multi-exabyte allocation.
	spy := testutil.NewSpyAllocator()
	spy.FailAll = true
	h := heap.New(&heap.Config{Allocator: spy})

	err := testutil.ExpectFatal(t, func() {
		h.NewVector(math.MaxInt/16-1, 16)
	})

	require.ErrorIs(t, err, heap.ErrOutOfMemory)
	require.Equal(t, 2, spy.CallCount())
}
