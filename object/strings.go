package object

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"

	"github.com/heapkit/heapkit/heap"
)

// utf16BytesPerChar is the number of bytes per UTF-16 code unit.
const utf16BytesPerChar = 2

// NewString constructs a string object holding s. Strings are
// immutable: the payload is written once here and only read afterwards.
// The handle is unanchored on return.
func NewString(h *heap.Heap, s string) heap.Handle {
	x := h.NewObject(TagString, len(s))
	copy(h.Payload(x), s)
	return x
}

// StringValue returns the text a string object holds.
func StringValue(h *heap.Heap, x heap.Handle) string {
	requireTag(h, x, TagString)
	return string(h.Payload(x))
}

// NewStringUTF16LE decodes little-endian UTF-16 into a string object.
// Payloads produced by C hosts often carry a trailing NUL code unit;
// one is dropped when present. Unpaired surrogates decode to the
// replacement character.
func NewStringUTF16LE(h *heap.Heap, data []byte) (heap.Handle, error) {
	if len(data)%utf16BytesPerChar != 0 {
		return heap.None, fmt.Errorf("object: UTF-16LE data has odd length %d", len(data))
	}
	words := make([]uint16, len(data)/utf16BytesPerChar)
	for i := range words {
		words[i] = binary.LittleEndian.Uint16(data[i*utf16BytesPerChar:])
	}
	if n := len(words); n > 0 && words[n-1] == 0 {
		words = words[:n-1]
	}
	return NewString(h, string(utf16.Decode(words))), nil
}

// NewStringWindows1252 decodes Windows-1252 bytes into a string object.
func NewStringWindows1252(h *heap.Heap, data []byte) (heap.Handle, error) {
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return heap.None, err
	}
	return NewString(h, string(decoded)), nil
}
