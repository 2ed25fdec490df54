package main

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"qvec"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres a string within the given width.
func padCenter(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	total := width - len(s)
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// displayName returns the short name drawn inside a gate box.
func displayName(g qvec.Gate) string {
	if g.Kind == qvec.KindMeasure {
		return "M"
	}
	return g.Kind.String()
}

// targetSymbol returns the wire symbol for the target qubit of a controlled
// or swap gate, or "" when the target wants a name box instead.
func targetSymbol(k qvec.Kind) string {
	switch k {
	case qvec.KindCZ, qvec.KindCP:
		return "●"
	case qvec.KindSWAP, qvec.KindCSWAP:
		return "×"
	case qvec.KindCX:
		return "⊕"
	}
	return ""
}

// qubitList joins qubit indices as q0,q1.
func qubitList(qs []int) string {
	parts := make([]string, len(qs))
	for i, q := range qs {
		parts[i] = fmt.Sprintf("q%d", q)
	}
	return strings.Join(parts, ",")
}

// gateSummary describes one gate for the status line.
func gateSummary(g qvec.Gate) string {
	switch {
	case g.Kind == qvec.KindMeasure:
		return fmt.Sprintf("measure %s", qubitList(g.Targets))
	case len(g.Controls) > 0 && len(g.Params) > 0:
		return fmt.Sprintf("%s(%.4g) %s→%s", g.Kind, g.Params[0], qubitList(g.Controls), qubitList(g.Targets))
	case len(g.Controls) > 0:
		return fmt.Sprintf("%s %s→%s", g.Kind, qubitList(g.Controls), qubitList(g.Targets))
	case len(g.Params) > 0:
		return fmt.Sprintf("%s(%.4g) %s", g.Kind, g.Params[0], qubitList(g.Targets))
	default:
		return fmt.Sprintf("%s %s", g.Kind, qubitList(g.Targets))
	}
}

// formatAmplitude renders a complex amplitude without noise terms.
func formatAmplitude(a qvec.Complex) string {
	re, im := real(a), imag(a)
	switch {
	case math.Abs(im) < 1e-12:
		return fmt.Sprintf("%.4f", re)
	case math.Abs(re) < 1e-12:
		return fmt.Sprintf("%.4fi", im)
	default:
		return fmt.Sprintf("%.4f%+.4fi", re, im)
	}
}

// probBar draws a fixed-width fill bar for a probability in [0,1].
func probBar(p float64, width int) string {
	filled := int(p*float64(width) + 0.5)
	filled = min(max(filled, 0), width)
	return barStyle.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", width-filled))
}

// topProbs formats the largest entries of a distribution, biggest first.
func topProbs(probs map[string]float64, limit int) string {
	type entry struct {
		label string
		p     float64
	}
	entries := make([]entry, 0, len(probs))
	for label, p := range probs {
		if p > 1e-9 {
			entries = append(entries, entry{label, p})
		}
	}
	slices.SortFunc(entries, func(a, b entry) int {
		if a.p != b.p {
			if a.p > b.p {
				return -1
			}
			return 1
		}
		return strings.Compare(a.label, b.label)
	})

	parts := make([]string, 0, limit+1)
	for i, e := range entries {
		if i == limit {
			parts = append(parts, "…")
			break
		}
		parts = append(parts, fmt.Sprintf("p(%s)=%.3f", e.label, e.p))
	}
	return strings.Join(parts, "  ")
}

// hasMeasure reports whether the circuit measures anything at all.
func hasMeasure(c *qvec.Circuit) bool {
	for _, g := range c.Gates {
		if g.Kind == qvec.KindMeasure {
			return true
		}
	}
	return false
}

// measuredAt lists the qubits measured in a column, sorted.
func measuredAt(c *qvec.Circuit, column int) []int {
	var ts []int
	for _, g := range c.GatesInColumn(column) {
		if g.Kind == qvec.KindMeasure {
			ts = append(ts, g.Targets...)
		}
	}
	slices.Sort(ts)
	return ts
}

// ──────────────────────────── Cell rendering ────────────────────────────

// cellInfo describes what occupies a single cell in the circuit grid.
type cellInfo struct {
	gate         qvec.Gate
	occupied     bool
	symbol       string // control/target wire symbol, "" for a name box
	vertAbove    bool
	vertBelow    bool
	passThrough  bool
	measureBelow bool
}

// cellAt gathers rendering information for the cell at (column, qubit).
func cellAt(c *qvec.Circuit, column, qubit int) cellInfo {
	var info cellInfo

	if g, ok := c.GateAt(column, qubit); ok {
		info.gate = g
		info.occupied = true
		if slices.Contains(g.Controls, qubit) {
			info.symbol = "●"
		} else if len(g.Controls) > 0 || g.Kind == qvec.KindSWAP {
			info.symbol = targetSymbol(g.Kind)
		}
	}

	// Vertical connections for gates spanning several qubits.
	for _, g := range c.GatesInColumn(column) {
		if g.Kind == qvec.KindMeasure {
			continue
		}
		qs := g.Qubits()
		if len(qs) < 2 {
			continue
		}
		minQ := slices.Min(qs)
		maxQ := slices.Max(qs)
		if qubit < minQ || qubit > maxQ {
			continue
		}
		if qubit > minQ {
			info.vertAbove = true
		}
		if qubit < maxQ {
			info.vertBelow = true
		}
		if !info.occupied && qubit > minQ && qubit < maxQ {
			info.passThrough = true
		}
	}

	// Measurement connections going down to the classical wire.
	for _, g := range c.GatesInColumn(column) {
		if g.Kind != qvec.KindMeasure {
			continue
		}
		for _, t := range g.Targets {
			if qubit > t {
				info.measureBelow = true
			}
		}
	}

	return info
}

// renderCell returns 3 lines (top, mid, bot) for a single cell.
// Each line is exactly cellW visual characters wide.
func renderCell(info cellInfo, highlighted bool) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)
	dblVertRow := strings.Repeat(" ", halfW) + cbitConnectorStyle.Render("║") + strings.Repeat(" ", cellW-halfW-1)

	// ── Cells inside the column being viewed ──
	if highlighted {
		bdr := columnBoxStyle
		innerW := cellW - 2
		dashL := (innerW - 1) / 2
		dashR := innerW - dashL - 1

		top = bdr.Render("╔" + strings.Repeat("═", innerW) + "╗")
		bot = bdr.Render("╚" + strings.Repeat("═", innerW) + "╝")

		switch {
		case info.occupied && info.symbol != "":
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + gateStyle.Render(info.symbol) + strings.Repeat("─", dashR) + bdr.Render("║")
		case info.occupied:
			name := padCenter(displayName(info.gate), gateNameW)
			mid = bdr.Render("║") + "─┤" + gateStyle.Render(name) + "├─" + bdr.Render("║")
		case info.passThrough:
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR) + bdr.Render("║")
		default:
			mid = bdr.Render("║") + strings.Repeat("─", innerW) + bdr.Render("║")
		}
		return
	}

	// ── Normal cells ──
	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1

	switch {
	case info.occupied && info.symbol != "":
		top, bot = emptyRow, emptyRow
		if info.vertAbove {
			top = vertRow
		}
		mid = strings.Repeat("─", dashL) + gateStyle.Render(info.symbol) + strings.Repeat("─", dashR)
		if info.vertBelow {
			bot = vertRow
		}
		if info.measureBelow {
			bot = dblVertRow
		}

	case info.occupied:
		margin := (cellW - gateBoxW) / 2
		rightMargin := cellW - margin - gateBoxW
		name := padCenter(displayName(info.gate), gateNameW)
		half := gateNameW / 2

		topBorder := strings.Repeat("─", gateNameW)
		if info.vertAbove {
			topBorder = strings.Repeat("─", half) + "┴" + strings.Repeat("─", gateNameW-half-1)
		}
		botBorder := strings.Repeat("─", gateNameW)
		if info.vertBelow {
			botBorder = strings.Repeat("─", half) + "┬" + strings.Repeat("─", gateNameW-half-1)
		}

		top = strings.Repeat(" ", margin) + gateStyle.Render("┌"+topBorder+"┐") + strings.Repeat(" ", rightMargin)
		mid = strings.Repeat("─", margin) + gateStyle.Render("┤"+name+"├") + strings.Repeat("─", rightMargin)
		bot = strings.Repeat(" ", margin) + gateStyle.Render("└"+botBorder+"┘") + strings.Repeat(" ", rightMargin)
		if info.measureBelow {
			bot = dblVertRow
		}

	case info.passThrough:
		top = vertRow
		mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)
		bot = vertRow
		if info.measureBelow {
			bot = dblVertRow
		}

	case info.measureBelow:
		// No gate here, but a measurement connection passes through vertically
		top = dblVertRow
		mid = strings.Repeat("─", dashL) + cbitConnectorStyle.Render("╫") + strings.Repeat("─", dashR)
		bot = dblVertRow
		if info.vertAbove {
			top = vertRow
		}

	default:
		// Empty wire
		top = emptyRow
		if info.vertAbove {
			top = vertRow
		}
		mid = strings.Repeat("─", cellW)
		bot = emptyRow
		if info.vertBelow {
			bot = vertRow
		}
	}

	return
}

// ──────────────────────────── Panel rendering ────────────────────────────

// renderDiagramPanel renders the circuit grid with the viewed column framed.
func (m Model) renderDiagramPanel(width, height int) string {
	var sb strings.Builder
	step := m.steps[m.cursor]
	highlightCol := step.Column

	title := "Circuit"
	if m.focus == focusDiagram {
		title += " [ACTIVE]"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")

	// How many columns fit
	numCols := m.circuit.MaxColumn() + 1
	availWidth := width - labelVisualW - 4
	maxCols := max(availWidth/cellW, 1)

	startCol := 0
	if highlightCol >= maxCols {
		startCol = highlightCol - maxCols + 1
	}
	endCol := min(startCol+maxCols, numCols)

	if startCol > 0 {
		fmt.Fprintf(&sb, "  ◀ showing columns %d–%d\n", startCol, endCol-1)
	}

	// Column number header
	header := strings.Repeat(" ", labelVisualW)
	for col := startCol; col < endCol; col++ {
		cell := padCenter(fmt.Sprintf("%d", col), cellW)
		if col == highlightCol {
			header += columnBoxStyle.Render(cell)
		} else {
			header += dimStyle.Render(cell)
		}
	}
	sb.WriteString(header + "\n")

	// Render each qubit as 3 lines
	for qubit := range m.circuit.NumQubits {
		topLine := strings.Repeat(" ", labelVisualW)
		label := fmt.Sprintf("q[%d]", qubit)
		midLine := qubitLabelStyle.Render(fmt.Sprintf("%-5s", label)) + "──"
		botLine := strings.Repeat(" ", labelVisualW)

		for col := startCol; col < endCol; col++ {
			info := cellAt(m.circuit, col, qubit)
			top, mid, bot := renderCell(info, col == highlightCol)
			topLine += top
			midLine += mid
			botLine += bot
		}

		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}

	// ── Classical wire (single line) ──
	if hasMeasure(m.circuit) {
		sepLine := strings.Repeat(" ", labelVisualW)
		halfW := cellW / 2
		for col := startCol; col < endCol; col++ {
			if len(measuredAt(m.circuit, col)) > 0 {
				sepLine += strings.Repeat(" ", halfW) + cbitConnectorStyle.Render("║") + strings.Repeat(" ", cellW-halfW-1)
			} else {
				sepLine += strings.Repeat(" ", cellW)
			}
		}
		sb.WriteString(sepLine + "\n")

		label := fmt.Sprintf("c%d", m.circuit.NumQubits)
		cbitLine := cbitLabelStyle.Render(fmt.Sprintf("%-5s", label)) + cbitWireStyle.Render("══")
		for col := startCol; col < endCol; col++ {
			ts := measuredAt(m.circuit, col)
			if len(ts) > 0 {
				bitLabel := fmt.Sprintf("%d", ts[0])
				if len(ts) > 1 {
					bitLabel = fmt.Sprintf("%d", len(ts))
				}
				dashL := (cellW - 1) / 2
				dashR := max(cellW-dashL-1-len(bitLabel), 0)
				cbitLine += cbitWireStyle.Render(strings.Repeat("═", dashL)) +
					cbitConnectorStyle.Render("╩"+bitLabel) +
					cbitWireStyle.Render(strings.Repeat("═", dashR))
			} else {
				cbitLine += cbitWireStyle.Render(strings.Repeat("═", cellW))
			}
		}
		sb.WriteString(cbitLine + "\n")
	}

	// Status lines
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "  Step %d/%d", m.cursor, len(m.steps)-1)
	if step.Column < 0 {
		fmt.Fprintf(&sb, "  │  initial |%s⟩", strings.Repeat("0", m.circuit.NumQubits))
	} else {
		parts := make([]string, 0, len(step.Gates))
		for _, g := range step.Gates {
			parts = append(parts, gateSummary(g))
		}
		fmt.Fprintf(&sb, "  │  %s", strings.Join(parts, "  "))
	}
	if sum := step.Measurement; sum != nil {
		sb.WriteString("\n  ")
		if sum.Outcome != "" {
			sb.WriteString(activeStyle.Render(fmt.Sprintf("measured %s → |%s⟩", qubitList(sum.Measured), sum.Outcome)))
		} else {
			fmt.Fprintf(&sb, "measured %s:  %s", qubitList(sum.Measured), topProbs(sum.Probabilities, 4))
		}
	}
	if m.statusMsg != "" {
		fmt.Fprintf(&sb, "\n  %s", activeStyle.Render(m.statusMsg))
	}

	return paneStyle(diagramStyle, m.focus == focusDiagram).Width(width).Height(height).Render(sb.String())
}

// renderStatePanel renders the basis-term table and per-qubit marginals.
func (m Model) renderStatePanel(width, height int) string {
	var sb strings.Builder
	st := m.steps[m.cursor].State

	title := "State"
	if m.focus == focusState {
		title += " [ACTIVE]"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%s mode · seed %d · norm %.4f\n\n", m.mode, m.seed, st.SquaredNorm())
	sb.WriteString(m.stateTable.View())
	sb.WriteString("\n\n")

	// Marginals plus the entanglement entropy of each 1-qubit cut.
	rho := qvec.FromPureState(st)
	for q := 0; q < st.NumQubits; q++ {
		fmt.Fprintf(&sb, "%s  P(1)=%.3f  S=%.3f\n",
			qubitLabelStyle.Render(fmt.Sprintf("q[%d]", q)),
			st.ProbabilityOfOne(q),
			rho.EntanglementEntropy(q))
	}

	return paneStyle(stateStyle, m.focus == focusState).Width(width).Height(height).Render(sb.String())
}

// renderHistogramPanel renders the shot-count pane.
func (m Model) renderHistogramPanel(width, height int) string {
	title := "Shots"
	if m.focus == focusHistogram {
		title += " [ACTIVE]"
	}
	content := titleStyle.Render(title) + "\n" + m.histView.View()
	return paneStyle(histStyle, m.focus == focusHistogram).Width(width).Height(height).Render(content)
}

// renderHistogram formats shot counts as label, count, bar and percentage.
func renderHistogram(counts map[string]int, shots, width int) string {
	if len(counts) == 0 {
		return dimStyle.Render(fmt.Sprintf("press s to sample %d shots of the final state", shots))
	}

	labels := slices.Sorted(maps.Keys(counts))
	maxCount := 0
	for _, n := range counts {
		maxCount = max(maxCount, n)
	}
	barWidth := max(width-24, 8)

	var sb strings.Builder
	for _, label := range labels {
		n := counts[label]
		filled := 0
		if maxCount > 0 {
			filled = n * barWidth / maxCount
		}
		fmt.Fprintf(&sb, "|%s⟩ %6d  %s %5.1f%%\n",
			label, n,
			barStyle.Render(strings.Repeat("█", filled)),
			100*float64(n)/float64(shots))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// renderControlsPanel renders the bottom help bar.
func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(activeStyle.Render("Step: "))
	sb.WriteString("←→/hl  ")
	sb.WriteString(activeStyle.Render("Focus: "))
	sb.WriteString("Tab  ")
	sb.WriteString(activeStyle.Render("Scroll: "))
	sb.WriteString("↑↓/kj    ")
	sb.WriteString(activeStyle.Render("s"))
	sb.WriteString(" Sample shots  ")
	sb.WriteString(activeStyle.Render("m"))
	sb.WriteString(" Toggle mode  ")
	sb.WriteString(activeStyle.Render("r"))
	sb.WriteString(" Reseed  ")
	sb.WriteString(activeStyle.Render("q"))
	sb.WriteString(" Quit")

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}
