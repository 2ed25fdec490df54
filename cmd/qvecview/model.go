package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qvec"
)

// focus marks which pane receives scroll keys.
type focus int

const (
	focusDiagram focus = iota
	focusState
	focusHistogram
)

// Model holds the viewer state: one immutable circuit, the simulation
// trace being browsed, and the shot histogram once sampled. The circuit
// is never edited here.
type Model struct {
	circuit *qvec.Circuit
	mode    qvec.Mode
	seed    uint32
	shots   int

	steps     []qvec.Step // trace shown in the current mode
	probSteps []qvec.Step // probability-mode trace; feeds the sampler
	cursor    int         // index into steps

	counts     map[string]int // shot histogram, nil until sampled
	sampleSeed uint32         // advances per sample so re-rolls differ

	width  int
	height int
	focus  focus

	stateTable table.Model
	histView   viewport.Model
	statusMsg  string
}

func newModel(circuit *qvec.Circuit, seed uint32, shots int) (Model, error) {
	probSteps, err := qvec.Simulate(circuit, nil, qvec.Options{Mode: qvec.ModeProbability, Seed: seed})
	if err != nil {
		return Model{}, err
	}

	st := table.New(
		table.WithColumns([]table.Column{
			{Title: "basis", Width: 7},
			{Title: "amplitude", Width: 17},
			{Title: "prob", Width: 6},
			{Title: "", Width: barW},
		}),
		table.WithHeight(10),
	)
	ts := table.DefaultStyles()
	ts.Header = ts.Header.Bold(true).Foreground(lipgloss.Color("#ff9e64"))
	ts.Selected = ts.Selected.Bold(true).Foreground(lipgloss.Color("#73daca"))
	st.SetStyles(ts)

	m := Model{
		circuit:    circuit,
		mode:       qvec.ModeProbability,
		seed:       seed,
		shots:      shots,
		steps:      probSteps,
		probSteps:  probSteps,
		cursor:     len(probSteps) - 1,
		sampleSeed: seed,
		stateTable: st,
		histView:   viewport.New(60, 6),
	}
	m.refreshStateTable()
	m.refreshHistogram()
	return m, nil
}

// resimulate reruns the circuit in the current mode and rebinds the trace.
func (m *Model) resimulate() {
	steps, err := qvec.Simulate(m.circuit, nil, qvec.Options{Mode: m.mode, Seed: m.seed})
	if err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.steps = steps
	if m.mode == qvec.ModeProbability {
		m.probSteps = steps
	}
	if m.cursor >= len(steps) {
		m.cursor = len(steps) - 1
	}
	m.refreshStateTable()
}

// refreshStateTable rebuilds the basis-term rows for the current step.
func (m *Model) refreshStateTable() {
	st := m.steps[m.cursor].State
	terms := st.Terms()
	rows := make([]table.Row, 0, len(terms))
	for _, term := range terms {
		rows = append(rows, table.Row{
			term.Label,
			formatAmplitude(term.Amplitude),
			fmt.Sprintf("%.4f", term.Prob),
			probBar(term.Prob, barW),
		})
	}
	m.stateTable.SetRows(rows)
	m.stateTable.SetCursor(0)
}

func (m *Model) refreshHistogram() {
	m.histView.SetContent(renderHistogram(m.counts, m.shots, max(m.histView.Width-2, 24)))
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		stateW := max(msg.Width/3, 34)
		topH := max(3*m.circuit.NumQubits+9, 16)
		m.stateTable.SetWidth(stateW - 6)
		m.stateTable.SetHeight(max(topH-10, 4))
		m.histView.Width = msg.Width - 8
		m.histView.Height = max(msg.Height-topH-10, 4)
		m.refreshHistogram()

	case tea.KeyMsg:
		key := msg.String()
		m.statusMsg = ""

		if key == "ctrl+c" || key == "q" {
			return m, tea.Quit
		}

		switch key {
		case "tab":
			m.focus = (m.focus + 1) % 3
			if m.focus == focusState {
				m.stateTable.Focus()
			} else {
				m.stateTable.Blur()
			}
		case "left", "h":
			if m.cursor > 0 {
				m.cursor--
				m.refreshStateTable()
			}
		case "right", "l":
			if m.cursor < len(m.steps)-1 {
				m.cursor++
				m.refreshStateTable()
			}
		case "s":
			m.counts = qvec.RunShots(qvec.FinalState(m.probSteps), m.shots, m.sampleSeed)
			m.refreshHistogram()
			m.statusMsg = fmt.Sprintf("sampled %d shots with seed %d", m.shots, m.sampleSeed)
			m.sampleSeed++
		case "m":
			if m.mode == qvec.ModeProbability {
				m.mode = qvec.ModeShot
			} else {
				m.mode = qvec.ModeProbability
			}
			m.resimulate()
			m.statusMsg = fmt.Sprintf("%s mode", m.mode)
		case "r":
			m.seed = uint32(time.Now().UnixNano())
			m.resimulate()
			m.statusMsg = fmt.Sprintf("reseeded: %d", m.seed)
		default:
			var cmd tea.Cmd
			switch m.focus {
			case focusState:
				m.stateTable, cmd = m.stateTable.Update(msg)
			case focusHistogram:
				m.histView, cmd = m.histView.Update(msg)
			}
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	stateWidth := max(m.width/3, 34)
	diagramWidth := m.width - stateWidth - 4
	controlsHeight := 3
	topHeight := max(3*m.circuit.NumQubits+9, 16)
	histHeight := max(m.height-topHeight-controlsHeight-4, 5)

	diagramPanel := m.renderDiagramPanel(diagramWidth, topHeight)
	statePanel := m.renderStatePanel(stateWidth, topHeight)
	histPanel := m.renderHistogramPanel(m.width-4, histHeight)
	controlsPanel := m.renderControlsPanel(m.width-4, controlsHeight-2)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, diagramPanel, statePanel)
	return lipgloss.JoinVertical(lipgloss.Left, topRow, histPanel, controlsPanel)
}
