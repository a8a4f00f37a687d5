package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the entire UI
func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.showHelp {
		return m.renderHelpOverlay()
	}

	header := m.renderHeader()
	content := m.renderContent()
	status := m.renderStatus()

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		status,
	)
}

// Layout helpers shared with Update for sizing the viewport

func (m Model) paneHeight() int { return max(m.height-8, 5) }
func (m Model) leftWidth() int  { return m.width / 2 }
func (m Model) rightWidth() int { return m.width - m.leftWidth() }
func (m Model) logHeight() int  { return max(m.paneHeight()-9, 3) }

// renderHeader renders the title line and runtime summary
func (m Model) renderHeader() string {
	title := "Heap Monitor"
	runtime := fmt.Sprintf("Pacing: %s debt per step", formatBytes(m.stepBytes))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		headerStyle.Render(title),
		lipgloss.NewStyle().Render("  "),
		pathStyle.Render(runtime),
	)
}

// renderContent renders the split-pane content
func (m Model) renderContent() string {
	leftWidth := m.leftWidth()
	rightWidth := m.rightWidth()
	paneHeight := m.paneHeight()

	leftBox := paneStyle.
		Width(leftWidth - 2).
		Height(paneHeight).
		Render(lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Heap"), m.renderHeapPane()))

	rightBox := paneStyle.
		Width(rightWidth - 2).
		Height(paneHeight).
		Render(lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Collector"), m.renderCollectorPane()))

	return lipgloss.JoinHorizontal(lipgloss.Top, leftBox, rightBox)
}

// renderHeapPane renders allocation statistics and the debt gauge
func (m Model) renderHeapPane() string {
	h := m.rt.Heap
	hs := h.Stats()

	lines := []string{
		statLine("Live objects", formatNumber(int64(h.LiveObjects()))),
		statLine("Live bytes", formatBytes(h.TotalBytes())),
		statLine("Constructs", formatNumber(hs.Constructs)),
		statLine("Resizes", formatNumber(hs.Resizes)),
		statLine("Vector growths", formatNumber(hs.GrowCalls)),
		statLine("Allocated", formatBytes(hs.BytesAllocated)),
		statLine("Freed", formatBytes(hs.BytesFreed)),
		"",
		statLine("Debt", fmt.Sprintf("%s / %s", formatBytes(h.Debt()), formatBytes(m.stepBytes))),
		m.debtBar.ViewAs(m.debtRatio()),
	}

	return strings.Join(lines, "\n")
}

// renderCollectorPane renders collector statistics and the cycle log
func (m Model) renderCollectorPane() string {
	hs := m.rt.Heap.Stats()
	gs := m.rt.GC.Stats()
	phase := m.rt.GC.Phase()

	lines := []string{
		statLine("Phase", getPhaseStyle(phase).Render(phase)),
		statLine("Cycles", formatNumber(gs.Cycles)),
		statLine("Steps", formatNumber(hs.Steps)),
		statLine("Emergencies", formatNumber(hs.EmergencyCycles)),
		statLine("Marked", formatNumber(gs.Marked)),
		statLine("Reclaimed", formatNumber(gs.Reclaimed)),
		"",
		titleStyle.Render("Cycle log"),
		m.log.View(),
	}

	return strings.Join(lines, "\n")
}

func (m Model) debtRatio() float64 {
	if m.stepBytes <= 0 {
		return 0
	}
	ratio := float64(m.rt.Heap.Debt()) / float64(m.stepBytes)
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}

// renderStatus renders the bottom status bar
func (m Model) renderStatus() string {
	state := "RUNNING"
	if m.paused {
		state = "PAUSED"
	}

	left := fmt.Sprintf("%s  %d it/tick  %s iterations",
		statusCountStyle.Render(state),
		m.speed,
		formatNumber(m.iterations))

	right := m.statusMessage
	if right == "" {
		var hints []string
		for _, b := range m.keys.ShortHelp() {
			hints = append(hints, fmt.Sprintf("%s %s", b.Help().Key, b.Help().Desc))
		}
		right = helpStyle.Render(strings.Join(hints, " • "))
	}

	return statusStyle.Width(max(m.width-2, 0)).Render(left + "  " + right)
}

// renderHelpOverlay renders the full-screen help view
func (m Model) renderHelpOverlay() string {
	var b strings.Builder
	b.WriteString(helpTitleStyle.Render("Heap Monitor Help"))
	b.WriteString("\n\n")

	for _, group := range m.keys.FullHelp() {
		for _, binding := range group {
			b.WriteString(helpKeyStyle.Render(binding.Help().Key))
			b.WriteString(helpDescStyle.Render(binding.Help().Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("Press esc or ? to close"))

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modalStyle.Render(b.String()),
	)
}

// getPhaseStyle returns the style for a collector phase name
func getPhaseStyle(phase string) lipgloss.Style {
	switch phase {
	case "mark":
		return phaseMarkStyle
	case "sweep":
		return phaseSweepStyle
	default:
		return phasePauseStyle
	}
}

func statLine(label, value string) string {
	return labelStyle.Render(label) + value
}
