//go:build !unix

package alloc

// SysAllocator is unavailable without mmap; NewSys reports ErrUnsupported.
type SysAllocator struct{}

// NewSys creates an mmap-backed allocator on platforms that have one.
func NewSys() (*SysAllocator, error) { return nil, ErrUnsupported }

// Reallocate implements Allocator.
func (*SysAllocator) Reallocate([]byte, int) []byte { return nil }

// Close releases nothing; the allocator cannot be constructed here.
func (*SysAllocator) Close() error { return nil }

// MappedBytes reports zero; the allocator cannot be constructed here.
func (*SysAllocator) MappedBytes() int64 { return 0 }
