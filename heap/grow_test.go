package heap_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heapkit/heapkit/heap"
	"github.com/heapkit/heapkit/internal/testutil"
)

func Test_Grow_DoublesWithFloor(t *testing.T) {
	h := heap.New(nil)
	defer h.Close()

	size := 0
	var block []byte

	block = h.Grow(block, &size, 4, 1<<20, "items")
	require.Equal(t, heap.MinVectorSize, size)
	require.Len(t, block, 4*4)

	block = h.Grow(block, &size, 4, 1<<20, "items")
	require.Equal(t, 8, size)

	block = h.Grow(block, &size, 4, 1<<20, "items")
	require.Equal(t, 16, size)
	require.Len(t, block, 16*4)
	require.Equal(t, int64(16*4), h.TotalBytes())

	h.FreeVector(block, size, 4)
}

func Test_Grow_TargetSizeLaws(t *testing.T) {
	testCases := []struct {
		name  string
		size  int
		limit int
		want  int
	}{
		{"empty vector jumps to the floor", 0, 1 << 20, 4},
		{"one below floor still doubles to floor", 1, 1 << 20, 4},
		{"two doubles to floor", 2, 1 << 20, 4},
		{"three doubles past floor", 3, 1 << 20, 6},
		{"doubling below half limit", 100, 1 << 20, 200},
		{"exactly half limit clamps", 500, 1000, 1000},
		{"past half limit clamps", 800, 1000, 1000},
		{"one below limit clamps", 999, 1000, 1000},
		{"tiny limit clamps under the floor", 1, 3, 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := heap.New(nil)
			defer h.Close()

			size := tc.size
			block := h.NewVector(size, 1)

			block = h.Grow(block, &size, 1, tc.limit, "items")
			require.Equal(t, tc.want, size)
			require.Len(t, block, tc.want)
			require.Greater(t, size, tc.size, "growth must add room for at least one element")

			h.FreeVector(block, size, 1)
		})
	}
}

func Test_Grow_AtLimitIsFatal(t *testing.T) {
	h := heap.New(nil)

	size := 16
	block := h.NewVector(size, 2)
	before := h.TotalBytes()

	err := testutil.ExpectFatal(t, func() {
		h.Grow(block, &size, 2, 16, "opcodes")
	})

	require.ErrorIs(t, err, heap.ErrTooMany)
	require.ErrorContains(t, err, "too many opcodes (limit is 16)")
	require.Equal(t, 16, size)
	require.Equal(t, before, h.TotalBytes())
}

func Test_Grow_SizeUpdatedOnlyOnSuccess(t *testing.T) {
	spy := testutil.NewSpyAllocator()
	h := heap.New(&heap.Config{Allocator: spy})

	size := 8
	block := h.NewVector(size, 4)

	spy.FailAll = true
	err := testutil.ExpectFatal(t, func() {
		h.Grow(block, &size, 4, 1<<20, "items")
	})

	require.ErrorIs(t, err, heap.ErrOutOfMemory)
	require.Equal(t, 8, size, "failed growth must not touch the caller's size")
	require.Equal(t, int64(8*4), h.TotalBytes())

	spy.FailAll = false
	h.FreeVector(block, size, 4)
	require.NoError(t, h.Close())
}

func Test_GrowPayload_KeepsHeaderAccounting(t *testing.T) {
	h := heap.New(nil)
	defer h.Close()

	obj := h.NewObject(1, 0)
	require.Equal(t, 0, h.PayloadSize(obj))

	payload := h.GrowPayload(obj, 4, 1<<10, "entries")
	require.Len(t, payload, heap.MinVectorSize*4)
	require.Equal(t, heap.MinVectorSize*4, h.PayloadSize(obj))

	payload = h.GrowPayload(obj, 4, 1<<10, "entries")
	require.Len(t, payload, 8*4)
	require.Equal(t, 8*4, h.PayloadSize(obj))
	require.Equal(t, payload, h.Payload(obj))
	require.Equal(t, int64(8*4), h.TotalBytes())
}

func Test_GrowPayload_RejectsRaggedPayload(t *testing.T) {
	h := heap.New(nil)
	defer h.Close()

	obj := h.NewObject(1, 10)
	require.Panics(t, func() { h.GrowPayload(obj, 4, 1<<10, "entries") })
}

func Test_ShrinkPayload_TrimsSlackExactly(t *testing.T) {
	h := heap.New(nil)
	defer h.Close()

	obj := h.NewObject(1, 0)
	payload := h.GrowPayload(obj, 4, 1<<10, "entries") // capacity 4
	copy(payload, []byte{1, 2, 3, 4, 5, 6, 7, 8})

	trimmed := h.ShrinkPayload(obj, 2, 4)
	require.Len(t, trimmed, 8)
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, trimmed)
	require.Equal(t, 8, h.PayloadSize(obj))
	require.Equal(t, int64(8), h.TotalBytes())

	require.Panics(t, func() { h.ShrinkPayload(obj, 3, 4) })

	empty := h.ShrinkPayload(obj, 0, 4)
	require.Nil(t, empty)
	require.Equal(t, 0, h.PayloadSize(obj))
}
