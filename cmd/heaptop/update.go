package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/heapkit/heapkit/heap"
	"github.com/heapkit/heapkit/object"
)

// Update handles all messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// The error screen only quits
		if m.err != nil {
			if key.Matches(msg, m.keys.Quit) {
				return m, tea.Quit
			}
			return m, nil
		}

		// If help is showing, handle help keys
		if m.showHelp {
			if key.Matches(msg, m.keys.Esc) || key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Quit) {
				m.showHelp = false
				return m, nil
			}
			// Ignore other keys when help is showing
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil

		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
			if m.paused {
				return m.setStatus("Workload paused")
			}
			return m.setStatus("Workload resumed")

		case key.Matches(msg, m.keys.Faster):
			if m.speed < 4096 {
				m.speed *= 2
			}
			return m.setStatus(fmt.Sprintf("Speed: %d iterations/tick", m.speed))

		case key.Matches(msg, m.keys.Slower):
			if m.speed > 1 {
				m.speed /= 2
			}
			return m.setStatus(fmt.Sprintf("Speed: %d iterations/tick", m.speed))

		case key.Matches(msg, m.keys.Step):
			m.rt.Heap.RunIncrementalStep()
			m.refreshLog()
			return m.setStatus(fmt.Sprintf("Step: collector now in %s", m.rt.GC.Phase()))

		case key.Matches(msg, m.keys.Collect):
			m.rt.Heap.RunFullCollection()
			m.refreshLog()
			return m.setStatus("Full collection complete")

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down),
			key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
			m.log, cmd = m.log.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.log.Width = m.rightWidth() - 4
		m.log.Height = m.logHeight()
		m.debtBar.Width = m.leftWidth() - 6
		return m, nil

	case tickMsg:
		if !m.paused {
			if err := m.churnSafely(m.speed); err != nil {
				m.err = err
				return m, nil
			}
		}
		m.refreshLog()
		return m, tick()

	case clearStatusMsg:
		m.statusMessage = ""
		return m, nil
	}

	return m, nil
}

// setStatus shows a temporary status message and clears it after 2 seconds
func (m Model) setStatus(s string) (tea.Model, tea.Cmd) {
	m.statusMessage = s
	return m, tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// churn advances the workload by n iterations. Fresh handles go straight
// into a pinned root vector, with no allocating call in between.
func (m *Model) churn(n int) {
	h := m.rt.Heap
	for i := 0; i < n; i++ {
		v := m.roots[m.rng.Intn(len(m.roots))]
		switch m.rng.Intn(6) {
		case 0:
			v.Append(object.NewString(h, randomWord(m.rng)))
		case 1:
			if cnt := v.Len(); cnt > 0 {
				v.Set(m.rng.Intn(cnt), heap.None)
			}
		case 2:
			// The interner keeps its entries pinned itself.
			v.Append(m.interner.Intern(words[m.rng.Intn(len(words))]))
		case 3:
			p := object.NewProto(h)
			for j, cnt := 0, 2+m.rng.Intn(6); j < cnt; j++ {
				p.Emit(m.rng.Uint32())
			}
			v.Append(p.Finish())
		case 4:
			b := object.NewBuffer(h)
			fmt.Fprintf(b, "entry %d %s", m.iterations, randomWord(m.rng))
			v.Append(b.Seal())
		case 5:
			// Immediate garbage.
			object.NewString(h, randomWord(m.rng))
		}
		m.iterations++
	}
}

// churnSafely advances the workload, converting the panic of a fatal
// heap condition into an error for the error screen. Fatal conditions
// panic with their error value; misuse panics carry strings and keep
// unwinding.
func (m *Model) churnSafely(n int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok {
				panic(r)
			}
			err = e
		}
	}()
	m.churn(n)
	return nil
}

// refreshLog appends a line for every collection cycle completed since
// the last refresh
func (m *Model) refreshLog() {
	gs := m.rt.GC.Stats()
	if gs.Cycles == m.lastCycles {
		return
	}

	reclaimed := gs.Reclaimed - m.lastReclaimed
	line := fmt.Sprintf("cycle %-5d reclaimed %-7s live %-7s %s",
		gs.Cycles,
		formatNumber(reclaimed),
		formatNumber(int64(m.rt.Heap.LiveObjects())),
		formatBytes(m.rt.Heap.TotalBytes()))
	m.events = append(m.events, line)
	if len(m.events) > maxEvents {
		m.events = m.events[len(m.events)-maxEvents:]
	}
	m.lastCycles = gs.Cycles
	m.lastReclaimed = gs.Reclaimed

	m.log.SetContent(joinEvents(m.events))
	m.log.GotoBottom()
}
