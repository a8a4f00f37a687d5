//go:build unix && !linux

package alloc

import "golang.org/x/sys/unix"

// remap has no mremap to lean on here: map fresh pages, copy the common
// prefix, and drop the old mapping.
func (sa *SysAllocator) remap(m []byte, newLen int) ([]byte, error) {
	next, err := unix.Mmap(-1, 0, newLen,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, err
	}
	copy(next, m)
	_ = unix.Munmap(m)
	return next, nil
}
