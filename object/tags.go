package object

import (
	"fmt"

	"github.com/heapkit/heapkit/heap"
)

// Tags for the heap objects this package builds. The heap stores tags
// opaquely; every accessor here checks them before touching a payload.
const (
	// TagString is an immutable UTF-8 string. The payload holds the
	// bytes; there are no references.
	TagString heap.TypeTag = 1 + iota

	// TagVector is a growable list of objects. The elements live in the
	// references; the payload stays empty.
	TagVector

	// TagProto is a function prototype: little-endian uint32
	// instructions in the payload, constants in the references.
	TagProto

	// TagBuffer is an immutable byte blob sealed from a Buffer.
	TagBuffer
)

func tagName(t heap.TypeTag) string {
	switch t {
	case TagString:
		return "string"
	case TagVector:
		return "vector"
	case TagProto:
		return "proto"
	case TagBuffer:
		return "buffer"
	default:
		return fmt.Sprintf("tag(%d)", t)
	}
}

func requireTag(h *heap.Heap, x heap.Handle, want heap.TypeTag) {
	if got := h.Tag(x); got != want {
		panic(fmt.Sprintf("object: handle holds a %s, want a %s", tagName(got), tagName(want)))
	}
}
