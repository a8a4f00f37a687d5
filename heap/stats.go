package heap

// Stats carries operation counters for a heap. All counters are cumulative
// over the heap's lifetime; Heap.Stats returns a copy.
type Stats struct {
	// Resizes counts tracked reallocation requests, including the
	// release and construction paths that go through them.
	Resizes int64

	// GrowCalls counts capacity-doubling growth operations.
	GrowCalls int64

	// Constructs counts objects built, linked and detached alike.
	Constructs int64

	// BytesAllocated and BytesFreed accumulate the byte deltas of every
	// growing and shrinking resize. BytesAllocated-BytesFreed equals the
	// heap's current accounted total.
	BytesAllocated int64
	BytesFreed     int64

	// ObjectsFreed counts objects reclaimed by the sweep or by teardown.
	ObjectsFreed int64

	// EmergencyCycles counts full collections forced by a failed
	// allocation. FullCycles and Steps count collector entry points that
	// actually ran, emergencies included.
	EmergencyCycles int64
	FullCycles      int64
	Steps           int64

	// Fatals counts terminal conditions reported through the fatal sink.
	Fatals int64
}
