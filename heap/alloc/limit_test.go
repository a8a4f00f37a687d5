package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Limited_RefusesGrowthPastBudget(t *testing.T) {
	la := NewLimited(NewGo(), 100)

	b := la.Reallocate(nil, 80)
	require.Len(t, b, 80)
	require.EqualValues(t, 80, la.InUse())

	require.Nil(t, la.Reallocate(nil, 21), "81..101 exceeds the budget")
	require.EqualValues(t, 80, la.InUse(), "refused request leaves accounting untouched")
	require.Equal(t, 1, la.Refused())

	c := la.Reallocate(nil, 20)
	require.Len(t, c, 20)
	require.EqualValues(t, 100, la.InUse())
}

func Test_Limited_FreeRefundsBudget(t *testing.T) {
	la := NewLimited(NewGo(), 64)

	b := la.Reallocate(nil, 64)
	require.NotNil(t, b)
	require.Nil(t, la.Reallocate(nil, 1), "budget exhausted")

	require.Nil(t, la.Reallocate(b, 0))
	require.Zero(t, la.InUse())

	c := la.Reallocate(nil, 64)
	require.Len(t, c, 64, "full budget available again after the free")
	require.EqualValues(t, 64, la.HighWater())
}

func Test_Limited_ResizeAccountsDelta(t *testing.T) {
	la := NewLimited(NewGo(), 1000)

	b := la.Reallocate(nil, 100)
	b = la.Reallocate(b, 700)
	require.EqualValues(t, 700, la.InUse())

	b = la.Reallocate(b, 50)
	require.EqualValues(t, 50, la.InUse())
	require.EqualValues(t, 700, la.HighWater())

	require.Nil(t, la.Reallocate(b, 0))
	require.Zero(t, la.InUse())
}

func Test_Limited_GrowOfExistingBlockRefusedKeepsBlock(t *testing.T) {
	la := NewLimited(NewGo(), 100)

	b := la.Reallocate(nil, 90)
	copy(b, "payload")

	require.Nil(t, la.Reallocate(b, 200), "grow past budget refused")
	require.Equal(t, "payload", string(b[:7]), "original block untouched by the refusal")
	require.EqualValues(t, 90, la.InUse())
}

// closeRecorder records whether Close reached the inner allocator.
type closeRecorder struct {
	Allocator
	closed bool
}

func (cr *closeRecorder) Close() error {
	cr.closed = true
	return nil
}

func Test_Limited_CloseReachesInnerCloser(t *testing.T) {
	cr := &closeRecorder{Allocator: NewGo()}
	la := NewLimited(cr, 1<<10)

	require.NoError(t, la.Close())
	require.True(t, cr.closed)
}

func Test_Limited_CloseWithoutInnerCloser(t *testing.T) {
	require.NoError(t, NewLimited(NewGo(), 1<<10).Close())
}
