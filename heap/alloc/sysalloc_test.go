//go:build unix

package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Sys_AllocateWriteRelease(t *testing.T) {
	sa, err := NewSys()
	require.NoError(t, err)
	defer sa.Close()

	b := sa.Reallocate(nil, 100)
	require.Len(t, b, 100)
	for i := range b {
		b[i] = byte(i)
	}

	require.Nil(t, sa.Reallocate(b, 0))
	require.Zero(t, sa.MappedBytes())
	require.NoError(t, sa.Close())
}

func Test_Sys_GrowAcrossPagesPreservesContents(t *testing.T) {
	sa, err := NewSys()
	require.NoError(t, err)
	defer sa.Close()

	b := sa.Reallocate(nil, 64)
	copy(b, "mapped block contents")

	// Force a new page count so the resize path actually remaps.
	big := sa.pageSize * 3
	b = sa.Reallocate(b, big)
	require.Len(t, b, big)
	require.Equal(t, "mapped block contents", string(b[:21]))

	b = sa.Reallocate(b, 16)
	require.Equal(t, "mapped block con", string(b))
	require.Nil(t, sa.Reallocate(b, 0))
}

func Test_Sys_SamePageCountStaysInPlace(t *testing.T) {
	sa, err := NewSys()
	require.NoError(t, err)
	defer sa.Close()

	b := sa.Reallocate(nil, 10)
	copy(b, "0123456789")

	c := sa.Reallocate(b, sa.pageSize/2)
	require.Equal(t, "0123456789", string(c[:10]))
	require.EqualValues(t, sa.pageSize, sa.MappedBytes(), "still one page")
	require.Nil(t, sa.Reallocate(c, 0))
}

func Test_Sys_CloseReportsLeaks(t *testing.T) {
	sa, err := NewSys()
	require.NoError(t, err)

	_ = sa.Reallocate(nil, 32)
	require.ErrorIs(t, sa.Close(), ErrLeaked)
	require.Zero(t, sa.MappedBytes(), "leaked mappings were still unmapped")
}
