package heap

// NewObject constructs a linked object: tagged, colored with the current
// white, its payload allocated at size bytes, and spliced onto the head
// of the heap's object list where the sweep will find it.
//
// Construction first gives the collector its chance to run, so a handle
// the host has not yet anchored (pinned or linked from a live object)
// must not be held across a later allocating call.
func (h *Heap) NewObject(tag TypeTag, size int) Handle {
	x := h.construct(tag, size)
	hdr := &h.objects[x-1]
	hdr.next = h.head
	hdr.linked = true
	h.head = x
	return x
}

// NewObjectDetached constructs an object the sweep cannot see. The host
// owns it until Attach hands it to the collector or ReleaseDetached
// frees it; a detached object that is simply dropped leaks.
func (h *Heap) NewObjectDetached(tag TypeTag, size int) Handle {
	return h.construct(tag, size)
}

// construct runs the common construction sequence: collector
// opportunity, pacing counters, payload allocation, then the header. A
// fatal allocation unwinds before any header exists, leaving the object
// list untouched.
func (h *Heap) construct(tag TypeTag, size int) Handle {
	h.checkCollect()
	h.allocCount++
	h.stats.Constructs++
	data := h.Resize(nil, 0, size)
	x := h.newSlot()
	h.objects[x-1] = objectHeader{
		tag:   tag,
		color: h.currentWhite,
		live:  true,
		size:  size,
		data:  data,
	}
	h.live++
	return x
}

// Attach splices a detached object onto the object list, making the
// sweep responsible for it from now on. Attaching is legal at any phase
// of a collection cycle; an in-flight sweep treats the object like one
// born during the sweep. Attaching an already linked object panics.
func (h *Heap) Attach(x Handle) {
	hdr := h.header(x)
	if hdr.linked {
		panic("heap: object is already linked")
	}
	// Detached across the atomic turn, the object still wears the
	// condemned white though no mark condemned it. It takes the current
	// white before the sweep cursor can read the stale shade.
	if hdr.color == h.OtherWhite() {
		hdr.color = h.currentWhite
	}
	hdr.next = h.head
	hdr.linked = true
	h.head = x
}

// ReleaseDetached frees a detached object immediately. Linked objects
// belong to the sweep and pinned ones to the host's root set; releasing
// either panics.
func (h *Heap) ReleaseDetached(x Handle) {
	hdr := h.header(x)
	if hdr.linked {
		panic("heap: object is linked, the sweep owns it")
	}
	if h.roots[x] > 0 {
		panic("heap: object is pinned")
	}
	h.release(x, hdr)
}

// release frees an object's payload, clears its slot and any pins, and
// queues the slot for reuse. Callers have already unlinked it.
func (h *Heap) release(x Handle, hdr *objectHeader) {
	if hdr.data != nil {
		h.Resize(hdr.data, hdr.size, 0)
	}
	*hdr = objectHeader{}
	delete(h.roots, x)
	h.freeSlots = append(h.freeSlots, x)
	h.live--
	h.stats.ObjectsFreed++
}

// newSlot hands out an arena slot, recycling the most recently released
// one first.
func (h *Heap) newSlot() Handle {
	if n := len(h.freeSlots); n > 0 {
		x := h.freeSlots[n-1]
		h.freeSlots = h.freeSlots[:n-1]
		return x
	}
	h.objects = append(h.objects, objectHeader{})
	return Handle(len(h.objects))
}

// header resolves a handle to its arena slot, panicking on None, an
// index the arena never issued, or a slot whose object has been
// reclaimed.
func (h *Heap) header(x Handle) *objectHeader {
	if x == None || int(x) > len(h.objects) {
		panic("heap: invalid handle")
	}
	hdr := &h.objects[x-1]
	if !hdr.live {
		panic("heap: stale handle")
	}
	return hdr
}

// Tag returns the type tag x was constructed with.
func (h *Heap) Tag(x Handle) TypeTag {
	return h.header(x).tag
}

// ColorOf returns x's current mark state.
func (h *Heap) ColorOf(x Handle) Color {
	return h.header(x).color
}

// SetColorOf recolors x. It is the collector's tool; hosts that recolor
// objects forfeit the tri-color invariant.
func (h *Heap) SetColorOf(x Handle, c Color) {
	h.header(x).color = c
}

// Payload returns x's raw storage. The slice is the object's live
// backing, not a copy; it is invalidated by GrowPayload and by the
// object's death.
func (h *Heap) Payload(x Handle) []byte {
	return h.header(x).data
}

// PayloadSize returns the accounted byte size of x's payload.
func (h *Heap) PayloadSize(x Handle) int {
	return h.header(x).size
}

// Refs returns x's outgoing references, the edges the collector traces.
// The slice is the object's live backing; callers must not mutate it
// directly, that is what AddRef and SetRef are for.
func (h *Heap) Refs(x Handle) []Handle {
	return h.header(x).refs
}

// AddRef appends a reference from parent to child and runs the write
// barrier. child may be None to reserve a slot.
func (h *Heap) AddRef(parent, child Handle) {
	p := h.header(parent)
	if child != None {
		h.header(child)
	}
	p.refs = append(p.refs, child)
	h.barrier(parent, child)
}

// SetRef overwrites parent's i'th reference with child and runs the
// write barrier. child may be None to clear the slot.
func (h *Heap) SetRef(parent Handle, i int, child Handle) {
	p := h.header(parent)
	if i < 0 || i >= len(p.refs) {
		panic("heap: reference index out of range")
	}
	if child != None {
		h.header(child)
	}
	p.refs[i] = child
	h.barrier(parent, child)
}

// barrier forwards a freshly written edge to the collector. Cleared
// slots need no barrier: removing an edge can only make objects less
// reachable, which the current cycle is allowed to miss.
func (h *Heap) barrier(parent, child Handle) {
	if child == None || h.gc == nil {
		return
	}
	h.gc.Barrier(h, parent, child)
}

// Pin adds x to the root set. Pins nest; an object stays a root until
// every Pin has been matched by an Unpin.
func (h *Heap) Pin(x Handle) {
	h.header(x)
	h.roots[x]++
}

// Unpin removes one pin from x, panicking if it holds none.
func (h *Heap) Unpin(x Handle) {
	h.header(x)
	n := h.roots[x]
	if n == 0 {
		panic("heap: object is not pinned")
	}
	if n == 1 {
		delete(h.roots, x)
		return
	}
	h.roots[x] = n - 1
}

// Pinned reports whether x is in the root set.
func (h *Heap) Pinned(x Handle) bool {
	return h.roots[x] > 0
}

// EachRoot calls fn for every pinned object, in no particular order,
// stopping early when fn returns false. fn must not pin or unpin.
func (h *Heap) EachRoot(fn func(Handle) bool) {
	for x := range h.roots {
		if !fn(x) {
			return
		}
	}
}

// EachDetached calls fn for every live object that is not on the
// object list, stopping early when fn returns false. The collector uses
// it to whiten detached survivors at the end of a cycle; no object may
// stay black across cycles, or the next mark would skip its references.
func (h *Heap) EachDetached(fn func(Handle) bool) {
	for i := range h.objects {
		hdr := &h.objects[i]
		if hdr.live && !hdr.linked {
			if !fn(Handle(i + 1)) {
				return
			}
		}
	}
}

// Head returns the most recently linked object, or None for an empty
// list. Together with NextOf it gives the collector the whole
// population, newest first.
func (h *Heap) Head() Handle {
	return h.head
}

// NextOf returns the object linked after x, or None at the end of the
// list.
func (h *Heap) NextOf(x Handle) Handle {
	return h.header(x).next
}

// ReclaimAfter unlinks and frees the object following prev on the
// object list, taking the head itself when prev is None, and returns the
// handle that now follows prev. The sweep is its caller: it walks the
// list with a trailing cursor and reclaims the dead without revisiting
// survivors.
func (h *Heap) ReclaimAfter(prev Handle) Handle {
	var x Handle
	if prev == None {
		x = h.head
	} else {
		x = h.header(prev).next
	}
	if x == None {
		panic("heap: nothing to reclaim")
	}
	hdr := h.header(x)
	next := hdr.next
	if prev == None {
		h.head = next
	} else {
		h.objects[prev-1].next = next
	}
	h.release(x, hdr)
	return next
}
