package main

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/heapkit/heapkit"
	"github.com/heapkit/heapkit/heap"
	"github.com/heapkit/heapkit/heap/alloc"
	"github.com/heapkit/heapkit/object"
)

const (
	// tickInterval is how often the workload advances and the panels
	// refresh.
	tickInterval = 100 * time.Millisecond

	// rootVectors is the number of pinned vectors the workload churns.
	rootVectors = 8

	// maxEvents bounds the cycle log.
	maxEvents = 200
)

// Model is the main application model
type Model struct {
	rt   *heapkit.Runtime
	keys KeyMap

	width  int
	height int

	// Workload state
	rng        *rand.Rand
	roots      []object.Vector
	interner   *object.Interner
	paused     bool
	speed      int // workload iterations per tick
	iterations int64

	// Effective pacing threshold, for rendering debt as a ratio
	stepBytes int64

	// Cycle log
	lastCycles    int64
	lastReclaimed int64
	events        []string
	log           viewport.Model

	debtBar progress.Model

	// Help overlay
	showHelp bool

	// Status message for temporary feedback
	statusMessage string

	closed bool
	err    error
}

// NewModel creates a new TUI model. A positive budget caps the heap's
// raw memory; a workload that outgrows it ends on the error screen.
func NewModel(aggressive bool, seed, budget int64) Model {
	opts := heapkit.Options{
		Aggressive: aggressive,
	}
	if budget > 0 {
		opts.Allocator = alloc.NewLimited(alloc.NewGo(), budget)
	}
	rt := heapkit.NewWithOptions(opts)

	h := rt.Heap
	roots := make([]object.Vector, rootVectors)
	for i := range roots {
		roots[i] = object.NewVector(h)
		h.Pin(roots[i].Handle())
	}

	debtBar := progress.New(
		progress.WithGradient("#7D56F4", "#00D7FF"),
		progress.WithoutPercentage(),
	)

	return Model{
		rt:        rt,
		keys:      DefaultKeyMap(),
		rng:       rand.New(rand.NewSource(seed)),
		roots:     roots,
		interner:  object.NewInterner(h),
		speed:     64,
		stepBytes: heap.DefaultConfig.StepBytes,
		log:       viewport.New(0, 0),
		debtBar:   debtBar,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tick()
}

// Close cleans up the runtime held by the model
// Should be called when the TUI exits
func (m *Model) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	m.interner.Release()
	return m.rt.Close()
}

// Messages

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type clearStatusMsg struct{}
