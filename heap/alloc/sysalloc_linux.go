//go:build linux

package alloc

import "golang.org/x/sys/unix"

// remap resizes a mapping in place when the kernel allows it, moving it
// otherwise. mremap preserves contents across moves, so no copy is needed.
func (sa *SysAllocator) remap(m []byte, newLen int) ([]byte, error) {
	return unix.Mremap(m, newLen, unix.MREMAP_MAYMOVE)
}
