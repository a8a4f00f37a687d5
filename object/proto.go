package object

import (
	"encoding/binary"
	"math"

	"github.com/heapkit/heapkit/heap"
)

const (
	// instrSize is the byte width of one packed instruction.
	instrSize = 4

	// maxInstructions caps a prototype's code vector.
	maxInstructions = math.MaxInt32
)

// ProtoBuilder accumulates a function prototype the way a compiler
// does: instructions packed little-endian into the payload with
// doubling capacity, constants attached as references. The prototype is
// pinned for the builder's lifetime, so emitting may safely trigger
// collection; Finish hands the object over.
type ProtoBuilder struct {
	heap  *heap.Heap
	fn    heap.Handle
	count int
}

// NewProto starts an empty prototype on h.
func NewProto(h *heap.Heap) *ProtoBuilder {
	fn := h.NewObject(TagProto, 0)
	h.Pin(fn)
	return &ProtoBuilder{heap: h, fn: fn}
}

// Emit appends one instruction and returns its index.
func (p *ProtoBuilder) Emit(ins uint32) int {
	code := p.heap.Payload(p.fn)
	if p.count*instrSize == len(code) {
		code = p.heap.GrowPayload(p.fn, instrSize, maxInstructions, "opcodes")
	}
	binary.LittleEndian.PutUint32(code[p.count*instrSize:], ins)
	p.count++
	return p.count - 1
}

// AddConstant attaches a constant object and returns its index. The
// reference keeps the constant alive for as long as the prototype.
func (p *ProtoBuilder) AddConstant(x heap.Handle) int {
	p.heap.AddRef(p.fn, x)
	return len(p.heap.Refs(p.fn)) - 1
}

// Len returns the number of instructions emitted so far.
func (p *ProtoBuilder) Len() int {
	return p.count
}

// Finish trims the code vector to its exact size, unpins the prototype
// and returns it. The handle is unanchored on return, and the builder
// must not be used again.
func (p *ProtoBuilder) Finish() heap.Handle {
	p.heap.ShrinkPayload(p.fn, p.count, instrSize)
	p.heap.Unpin(p.fn)
	fn := p.fn
	p.fn = heap.None
	return fn
}

// Code decodes a prototype's instruction vector.
func Code(h *heap.Heap, fn heap.Handle) []uint32 {
	requireTag(h, fn, TagProto)
	raw := h.Payload(fn)
	code := make([]uint32, len(raw)/instrSize)
	for i := range code {
		code[i] = binary.LittleEndian.Uint32(raw[i*instrSize:])
	}
	return code
}

// Instruction fetches the instruction at pc without decoding the whole
// vector, the access pattern of an interpreter loop.
func Instruction(h *heap.Heap, fn heap.Handle, pc int) uint32 {
	requireTag(h, fn, TagProto)
	raw := h.Payload(fn)
	if pc < 0 || (pc+1)*instrSize > len(raw) {
		panic("object: instruction index out of range")
	}
	return binary.LittleEndian.Uint32(raw[pc*instrSize:])
}

// Constants returns a prototype's constant references. The slice is
// the object's live backing; treat it as read-only.
func Constants(h *heap.Heap, fn heap.Handle) []heap.Handle {
	requireTag(h, fn, TagProto)
	return h.Refs(fn)
}
