//go:build unix

package alloc

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// SysAllocator backs every block with its own anonymous private mapping.
//
// Block lengths are the logical sizes the caller asked for; the underlying
// mappings are page-rounded and tracked by base address so resize and
// release can recover them. Mappings come back from the kernel zero-filled.
//
// Blocks from one SysAllocator must not be fed to another instance.
type SysAllocator struct {
	mapped   map[uintptr][]byte // base address -> full mapping
	pageSize int
}

// NewSys creates an mmap-backed allocator.
func NewSys() (*SysAllocator, error) {
	return &SysAllocator{
		mapped:   make(map[uintptr][]byte),
		pageSize: os.Getpagesize(),
	}, nil
}

// Reallocate implements Allocator.
func (sa *SysAllocator) Reallocate(block []byte, newSize int) []byte {
	if newSize == 0 {
		if len(block) != 0 {
			sa.release(block)
		}
		return nil
	}
	if len(block) == 0 {
		return sa.allocate(newSize)
	}

	m, ok := sa.mapped[blockBase(block)]
	if !ok {
		panic("alloc: block does not belong to this SysAllocator")
	}
	mapLen := sa.roundUp(newSize)
	if mapLen == len(m) {
		// Same page count: the mapping already covers the new size.
		return m[:newSize]
	}
	next, err := sa.remap(m, mapLen)
	if err != nil {
		return nil
	}
	delete(sa.mapped, blockBase(m))
	sa.mapped[blockBase(next)] = next
	return next[:newSize]
}

// Close unmaps any blocks still outstanding. It returns ErrLeaked when it
// had to clean up after the caller, after unmapping everything it can.
func (sa *SysAllocator) Close() error {
	leaked := len(sa.mapped)
	for base, m := range sa.mapped {
		delete(sa.mapped, base)
		_ = unix.Munmap(m)
	}
	if leaked != 0 {
		return ErrLeaked
	}
	return nil
}

// MappedBytes returns the total mapped size, page rounding included.
func (sa *SysAllocator) MappedBytes() int64 {
	var total int64
	for _, m := range sa.mapped {
		total += int64(len(m))
	}
	return total
}

func (sa *SysAllocator) allocate(size int) []byte {
	m, err := unix.Mmap(-1, 0, sa.roundUp(size),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil
	}
	sa.mapped[blockBase(m)] = m
	return m[:size]
}

func (sa *SysAllocator) release(block []byte) {
	base := blockBase(block)
	m, ok := sa.mapped[base]
	if !ok {
		panic("alloc: block does not belong to this SysAllocator")
	}
	delete(sa.mapped, base)
	_ = unix.Munmap(m)
}

func (sa *SysAllocator) roundUp(size int) int {
	return (size + sa.pageSize - 1) &^ (sa.pageSize - 1)
}

// blockBase identifies a block by the address of its first byte. Blocks
// always start at their mapping's base, so this doubles as the map key.
func blockBase(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

// Compile-time interface check
var _ Allocator = (*SysAllocator)(nil)
