package heapkit_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heapkit/heapkit"
	"github.com/heapkit/heapkit/heap"
	"github.com/heapkit/heapkit/heap/alloc"
	"github.com/heapkit/heapkit/object"
)

func Test_Runtime_BuildsCollectsAndCloses(t *testing.T) {
	rt := heapkit.New()

	// Compile a tiny prototype against an interned constant pool,
	// the way a host runtime would.
	names := object.NewInterner(rt.Heap)
	p := object.NewProto(rt.Heap)
	k := p.AddConstant(names.Intern("greeting"))
	p.Emit(0x00000001)
	p.Emit(uint32(k)<<8 | 0x02)
	fn := p.Finish()
	rt.Heap.Pin(fn)

	// Scratch garbage to give a cycle something to take.
	for i := 0; i < 50; i++ {
		object.NewString(rt.Heap, "transient")
	}

	before := rt.Heap.LiveObjects()
	rt.Heap.RunFullCollection()

	require.Equal(t, before-50, rt.Heap.LiveObjects())
	require.Equal(t, []uint32{0x00000001, uint32(k)<<8 | 0x02}, object.Code(rt.Heap, fn))
	require.Equal(t, "greeting", object.StringValue(rt.Heap, object.Constants(rt.Heap, fn)[0]))
	require.Equal(t, int64(1), rt.GC.Stats().Cycles)
	require.Equal(t, int64(50), rt.GC.Stats().Reclaimed)

	names.Release()
	rt.Heap.Unpin(fn)
	require.NoError(t, rt.Close())
}

func Test_Runtime_OptionsReachBothHalves(t *testing.T) {
	limited := alloc.NewLimited(alloc.NewGo(), 1<<20)
	rt := heapkit.NewWithOptions(heapkit.Options{
		Allocator:   limited,
		StepBytes:   256,
		MarkBudget:  2,
		SweepBudget: 2,
	})
	defer rt.Close()

	root := rt.Heap.NewObject(1, 64)
	rt.Heap.Pin(root)
	for i := 0; i < 8; i++ {
		child := rt.Heap.NewObject(1, 64)
		rt.Heap.AddRef(root, child)
	}

	// 64-byte objects against a 256-byte step threshold: the pacer has
	// fired incremental steps on its own by now.
	require.Greater(t, rt.Heap.Stats().Steps, int64(0))
	require.Greater(t, limited.HighWater(), int64(0))
}

func Test_Runtime_AggressiveModeCollectsEagerly(t *testing.T) {
	rt := heapkit.NewWithOptions(heapkit.Options{Aggressive: true})
	defer rt.Close()

	keep := object.NewString(rt.Heap, "keep")
	rt.Heap.Pin(keep)

	// Every construction runs a full cycle, so the garbage from each
	// iteration is gone before the next object exists.
	for i := 0; i < 10; i++ {
		object.NewString(rt.Heap, "gone")
		require.LessOrEqual(t, rt.Heap.LiveObjects(), 3)
	}
	require.GreaterOrEqual(t, rt.GC.Stats().Cycles, int64(10))
	require.Equal(t, "keep", object.StringValue(rt.Heap, keep))
}

func Test_Runtime_FatalSinkReceivesWrappedSentinel(t *testing.T) {
	var sunk error
	rt := heapkit.NewWithOptions(heapkit.Options{
		Allocator: alloc.NewLimited(alloc.NewGo(), 128),
		Fatal:     func(err error) { sunk = err },
	})

	require.Panics(t, func() {
		rt.Heap.NewBlock(4096)
	})
	require.ErrorIs(t, sunk, heap.ErrOutOfMemory)
}
