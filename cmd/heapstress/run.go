package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/heapkit/heapkit"
	"github.com/heapkit/heapkit/heap"
	"github.com/heapkit/heapkit/heap/alloc"
	"github.com/heapkit/heapkit/object"
)

var (
	runIterations  int
	runRoots       int
	runSeed        int64
	runStepBytes   int64
	runMarkBudget  int
	runSweepBudget int
	runAggressive  bool
	runAllocKind   string
	runBudget      int64
	runFullEvery   int
)

func init() {
	rootCmd.AddCommand(newRunCmd())
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a synthetic allocation workload and report statistics",
		Long: `Run drives a seeded random workload over a fresh runtime: strings,
interned strings, function prototypes and buffers are built into a set of
pinned root vectors, and slots are cleared at random so the collector has
garbage to find. The same seed reproduces the same workload exactly.

The command exits nonzero if the heap's accounting does not return to zero
on teardown.`,
		Args: cobra.NoArgs,
		RunE: runStress,
	}

	cmd.Flags().IntVarP(&runIterations, "iterations", "n", 100000, "Workload iterations")
	cmd.Flags().IntVar(&runRoots, "roots", 8, "Pinned root vectors to churn")
	cmd.Flags().Int64Var(&runSeed, "seed", 1, "Workload random seed")
	cmd.Flags().Int64Var(&runStepBytes, "step-bytes", 0, "Allocation debt per collection step (0 = default)")
	cmd.Flags().IntVar(&runMarkBudget, "mark-budget", 0, "Objects marked per step (0 = default)")
	cmd.Flags().IntVar(&runSweepBudget, "sweep-budget", 0, "Objects swept per step (0 = default)")
	cmd.Flags().BoolVar(&runAggressive, "aggressive", false, "Collect fully before every construction")
	cmd.Flags().StringVar(&runAllocKind, "alloc", "go", "Raw allocator: go, sys or limited")
	cmd.Flags().Int64Var(&runBudget, "budget", 16<<20, "Byte budget for --alloc limited")
	cmd.Flags().IntVar(&runFullEvery, "full-every", 0, "Force a full collection every N iterations (0 = never)")

	return cmd
}

func runStress(cmd *cobra.Command, args []string) error {
	var allocator heap.Allocator
	switch runAllocKind {
	case "go":
		// Default allocator, leave nil.
	case "sys":
		sys, err := alloc.NewSys()
		if err != nil {
			return fmt.Errorf("system allocator: %w", err)
		}
		allocator = sys
	case "limited":
		allocator = alloc.NewLimited(alloc.NewGo(), runBudget)
	default:
		return fmt.Errorf("unknown allocator %q (want go, sys or limited)", runAllocKind)
	}

	rt := heapkit.NewWithOptions(heapkit.Options{
		Allocator:   allocator,
		StepBytes:   runStepBytes,
		MarkBudget:  runMarkBudget,
		SweepBudget: runSweepBudget,
		Aggressive:  runAggressive,
	})

	printVerbose("Running %s iterations over %d root vectors (seed %d, alloc %s)\n",
		formatNumber(int64(runIterations)), runRoots, runSeed, runAllocKind)

	start := time.Now()
	churn(rt, runRoots, runIterations, runSeed)
	elapsed := time.Since(start)

	// Settle: everything cleared during the churn is garbage now.
	rt.Heap.RunFullCollection()

	report := buildReport(rt, elapsed)
	if jsonOut {
		if err := printJSON(report); err != nil {
			return err
		}
	} else {
		printReport(report, elapsed)
	}

	// Close drains every surviving object; leaked accounting surfaces
	// here as a nonzero exit.
	return rt.Close()
}

// churn runs the workload proper. Fresh handles go straight into a
// pinned root vector, with no allocating call in between.
func churn(rt *heapkit.Runtime, roots, iterations int, seed int64) {
	h := rt.Heap
	rng := rand.New(rand.NewSource(seed))

	vecs := make([]object.Vector, roots)
	for i := range vecs {
		vecs[i] = object.NewVector(h)
		h.Pin(vecs[i].Handle())
	}

	in := object.NewInterner(h)
	defer in.Release()

	for i := 0; i < iterations; i++ {
		v := vecs[rng.Intn(len(vecs))]
		switch rng.Intn(6) {
		case 0:
			v.Append(object.NewString(h, randomWord(rng)))
		case 1:
			if n := v.Len(); n > 0 {
				v.Set(rng.Intn(n), heap.None)
			}
		case 2:
			// The interner keeps its entries pinned itself.
			v.Append(in.Intern(words[rng.Intn(len(words))]))
		case 3:
			p := object.NewProto(h)
			for j, n := 0, 2+rng.Intn(6); j < n; j++ {
				p.Emit(rng.Uint32())
			}
			v.Append(p.Finish())
		case 4:
			b := object.NewBuffer(h)
			fmt.Fprintf(b, "entry %d %s", i, randomWord(rng))
			v.Append(b.Seal())
		case 5:
			// Immediate garbage.
			object.NewString(h, randomWord(rng))
		}

		if runFullEvery > 0 && (i+1)%runFullEvery == 0 {
			h.RunFullCollection()
		}
	}
}

var words = []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel"}

func randomWord(rng *rand.Rand) string {
	return fmt.Sprintf("%s-%d", words[rng.Intn(len(words))], rng.Intn(1<<16))
}

type stressReport struct {
	Iterations      int   `json:"iterations"`
	RootVectors     int   `json:"root_vectors"`
	Seed            int64 `json:"seed"`
	ElapsedMS       int64 `json:"elapsed_ms"`
	LiveObjects     int   `json:"live_objects"`
	LiveBytes       int64 `json:"live_bytes"`
	Constructs      int64 `json:"constructs"`
	Resizes         int64 `json:"resizes"`
	GrowCalls       int64 `json:"grow_calls"`
	BytesAllocated  int64 `json:"bytes_allocated"`
	BytesFreed      int64 `json:"bytes_freed"`
	ObjectsFreed    int64 `json:"objects_freed"`
	Cycles          int64 `json:"gc_cycles"`
	Steps           int64 `json:"gc_steps"`
	EmergencyCycles int64 `json:"gc_emergency_cycles"`
	Marked          int64 `json:"gc_marked"`
	Reclaimed       int64 `json:"gc_reclaimed"`
}

func buildReport(rt *heapkit.Runtime, elapsed time.Duration) stressReport {
	hs := rt.Heap.Stats()
	gs := rt.GC.Stats()
	return stressReport{
		Iterations:      runIterations,
		RootVectors:     runRoots,
		Seed:            runSeed,
		ElapsedMS:       elapsed.Milliseconds(),
		LiveObjects:     rt.Heap.LiveObjects(),
		LiveBytes:       rt.Heap.TotalBytes(),
		Constructs:      hs.Constructs,
		Resizes:         hs.Resizes,
		GrowCalls:       hs.GrowCalls,
		BytesAllocated:  hs.BytesAllocated,
		BytesFreed:      hs.BytesFreed,
		ObjectsFreed:    hs.ObjectsFreed,
		Cycles:          gs.Cycles,
		Steps:           hs.Steps,
		EmergencyCycles: hs.EmergencyCycles,
		Marked:          gs.Marked,
		Reclaimed:       gs.Reclaimed,
	}
}

func printReport(r stressReport, elapsed time.Duration) {
	printInfo("Stress run complete in %s\n\n", elapsed.Round(time.Millisecond))

	printInfo("  Workload:\n")
	printInfo("    Iterations:       %s\n", formatNumber(int64(r.Iterations)))
	printInfo("    Root vectors:     %d\n", r.RootVectors)
	printInfo("    Seed:             %d\n", r.Seed)
	printInfo("\n")

	printInfo("  Heap:\n")
	printInfo("    Live objects:     %s\n", formatNumber(int64(r.LiveObjects)))
	printInfo("    Live bytes:       %s\n", formatBytes(r.LiveBytes))
	printInfo("    Constructs:       %s\n", formatNumber(r.Constructs))
	printInfo("    Resizes:          %s\n", formatNumber(r.Resizes))
	printInfo("    Vector growths:   %s\n", formatNumber(r.GrowCalls))
	printInfo("    Allocated:        %s\n", formatBytes(r.BytesAllocated))
	printInfo("    Freed:            %s\n", formatBytes(r.BytesFreed))
	printInfo("\n")

	printInfo("  Collector:\n")
	printInfo("    Cycles:           %s\n", formatNumber(r.Cycles))
	printInfo("    Steps:            %s\n", formatNumber(r.Steps))
	printInfo("    Emergency cycles: %s\n", formatNumber(r.EmergencyCycles))
	printInfo("    Objects marked:   %s\n", formatNumber(r.Marked))
	printInfo("    Objects freed:    %s\n", formatNumber(r.ObjectsFreed))
}
