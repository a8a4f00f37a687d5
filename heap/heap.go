package heap

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/heapkit/heapkit/heap/alloc"
)

// Allocator is the raw memory source a heap draws from. It is an alias of
// the interface in heap/alloc so hosts configuring a heap do not need to
// import that package directly.
type Allocator = alloc.Allocator

// Config configures a Heap. The zero value is usable; New applies
// defaults for anything left unset.
type Config struct {
	// Allocator supplies raw memory. Nil selects a GoAllocator.
	Allocator Allocator

	// Collector traces and sweeps the object graph. Nil disables
	// collection entirely: the pacer never fires, RunFullCollection and
	// RunIncrementalStep are no-ops, and a failed allocation is fatal on
	// the first retry.
	Collector Collector

	// Fatal receives unrecoverable errors (allocation failure after an
	// emergency collection, vector size overflow, vector growth limit).
	// It must not return; the heap panics with the same error if it
	// does. Nil panics directly.
	Fatal func(error)

	// Logger receives structured diagnostics. Nil discards them.
	Logger *slog.Logger

	// Aggressive forces a full collection before every object
	// construction. It shakes out liveness bugs at a steep cost and is
	// meant for tests and stress runs.
	Aggressive bool

	// StepBytes is the allocation debt, in bytes, that triggers one
	// incremental collection step. Zero or negative selects the
	// default.
	StepBytes int64
}

// DefaultConfig is the configuration New uses for a nil *Config.
var DefaultConfig = Config{
	StepBytes: 64 << 10,
}

// Heap owns a population of tagged, garbage-collected objects and the
// accounting for every raw byte behind them. It is not safe for
// concurrent use; the host serializes access the way a VM serializes its
// mutator.
type Heap struct {
	cfg Config
	raw Allocator
	gc  Collector
	log *slog.Logger

	// Arena of object headers. A Handle is its slot index plus one; free
	// slots are recycled most recently released first.
	objects   []objectHeader
	freeSlots []Handle
	live      int

	// head is the most recently linked object. Linked objects form a
	// singly linked list through their next fields; the sweep owns their
	// reclamation.
	head Handle

	// roots maps pinned handles to their pin counts.
	roots map[Handle]int

	currentWhite Color
	totalBytes   int64
	allocCount   int64
	debt         int64
	gcRunning    bool
	closed       bool

	stats Stats
}

// objectHeader is one arena slot. The zero value marks a free slot.
type objectHeader struct {
	tag    TypeTag
	color  Color
	live   bool
	linked bool
	next   Handle

	// size is the accounted byte size of data. It matches len(data) at
	// all times; releases resize data to zero against it.
	size int
	data []byte

	// refs are the object's outgoing references, the only edges the
	// collector traces. Entries may be None.
	refs []Handle
}

// New builds a heap from cfg. A nil cfg selects DefaultConfig; nil or
// zero fields select their defaults. The configuration is copied, so
// later changes to cfg have no effect.
func New(cfg *Config) *Heap {
	c := DefaultConfig
	if cfg != nil {
		c = *cfg
	}
	if c.Allocator == nil {
		c.Allocator = alloc.NewGo()
	}
	if c.StepBytes <= 0 {
		c.StepBytes = DefaultConfig.StepBytes
	}
	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Heap{
		cfg:          c,
		raw:          c.Allocator,
		gc:           c.Collector,
		log:          logger,
		roots:        make(map[Handle]int),
		currentWhite: WhiteA,
	}
}

// Close releases every object the heap still owns, linked and detached
// alike, and closes the allocator if it is an io.Closer. It returns
// ErrUnbalanced when accounted bytes remain afterwards, meaning raw
// blocks handed out by the heap were never freed back through it. Close
// is idempotent; a closed heap must not be used again.
func (h *Heap) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true

	for h.head != None {
		h.ReclaimAfter(None)
	}
	for i := range h.objects {
		if h.objects[i].live {
			h.release(Handle(i+1), &h.objects[i])
		}
	}

	var err error
	if h.totalBytes != 0 {
		err = fmt.Errorf("%w: %d bytes", ErrUnbalanced, h.totalBytes)
		h.log.Error("teardown leaked accounted bytes", "bytes", h.totalBytes)
	}
	if c, ok := h.raw.(io.Closer); ok {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// TotalBytes returns the accounted size of everything currently
// allocated through the heap.
func (h *Heap) TotalBytes() int64 {
	return h.totalBytes
}

// Debt returns the bytes allocated since the last completed collection
// cycle. The pacer compares it against Config.StepBytes.
func (h *Heap) Debt() int64 {
	return h.debt
}

// AllocationCount returns the objects constructed since the last
// completed collection cycle.
func (h *Heap) AllocationCount() int64 {
	return h.allocCount
}

// LiveObjects returns the number of objects currently alive, linked and
// detached alike.
func (h *Heap) LiveObjects() int {
	return h.live
}

// Collecting reports whether a collection entry point is on the stack.
func (h *Heap) Collecting() bool {
	return h.gcRunning
}

// Stats returns a copy of the heap's cumulative counters.
func (h *Heap) Stats() Stats {
	return h.stats
}

// Logger returns the heap's structured logger.
func (h *Heap) Logger() *slog.Logger {
	return h.log
}

// CurrentWhite returns the white shade newborn objects receive.
func (h *Heap) CurrentWhite() Color {
	return h.currentWhite
}

// OtherWhite returns the white shade that marks objects condemned by the
// previous cycle.
func (h *Heap) OtherWhite() Color {
	if h.currentWhite == WhiteA {
		return WhiteB
	}
	return WhiteA
}

// FlipWhite atomically swaps the current and other whites. The collector
// calls it between finishing a mark and starting the sweep, so that
// objects born during the sweep wear the new white and survive it.
func (h *Heap) FlipWhite() {
	h.currentWhite = h.OtherWhite()
}

// IsDead reports whether x wears the non-current white, the color of
// objects the last completed mark proved unreachable.
func (h *Heap) IsDead(x Handle) bool {
	return h.header(x).color == h.OtherWhite()
}

// fatal reports err through the configured sink and panics. It never
// returns: the sink is expected to unwind or terminate, and the panic
// enforces that when it does neither.
func (h *Heap) fatal(err error) {
	h.stats.Fatals++
	h.log.Error("fatal heap condition", "err", err)
	if h.cfg.Fatal != nil {
		h.cfg.Fatal(err)
	}
	panic(err)
}
