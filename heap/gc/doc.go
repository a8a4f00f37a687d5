// Package gc implements the incremental tri-color mark and sweep
// collector a heap consumes.
//
// # Overview
//
// A cycle opens by graying the heap's pinned roots, drains the gray
// stack in budgeted steps (blackening each object and graying its white
// children), then performs one atomic turn: re-gray any root pinned too
// late for the barrier to have seen it, drain again, and flip the
// heap's white. From that point newborns wear the new white. The sweep
// walks the object list behind a trailing cursor, reclaiming everything
// still wearing the old white and recoloring survivors, so each list
// entry is visited exactly once per cycle.
//
// While the mark is in flight the collector's forward barrier keeps the
// tri-color invariant: a reference written into an already black parent
// grays its white child immediately. Outside the mark no barrier work
// is needed.
//
// # Pacing
//
// The heap invokes Step on its own schedule (allocation debt) and
// FullCycle on demand or when an allocation fails. Completing a cycle
// resets the heap's debt counters. Step budgets come from Config;
// FullCycle ignores them and runs to completion.
//
// Set HEAPKIT_LOG_GC=1 to print a per-cycle summary to stderr.
package gc
