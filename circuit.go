package qvec

import (
	"fmt"
	"slices"
)

// AutoPlace asks AddGate to pick the earliest free column.
const AutoPlace = -1

// Circuit is an ordered gate list over a fixed qubit register. Gates are
// grouped into columns; gates sharing a column touch disjoint qubits and
// are applied left to right within it.
type Circuit struct {
	NumQubits int
	Gates     []Gate
}

// NewCircuit allocates an empty circuit over 1..MaxQubits qubits.
func NewCircuit(numQubits int) (*Circuit, error) {
	if numQubits < 1 || numQubits > MaxQubits {
		return nil, fmt.Errorf("circuit wants 1..%d qubits, got %d", MaxQubits, numQubits)
	}
	return &Circuit{NumQubits: numQubits}, nil
}

// Clone returns a deep copy.
func (c *Circuit) Clone() *Circuit {
	out := &Circuit{NumQubits: c.NumQubits, Gates: make([]Gate, 0, len(c.Gates))}
	for _, g := range c.Gates {
		out.Gates = append(out.Gates, g.clone())
	}
	return out
}

// AddGate validates and appends a fully-specified gate. Column AutoPlace
// places it in the earliest column where its qubits are free; an explicit
// column must not collide with gates already there.
func (c *Circuit) AddGate(g Gate) error {
	if err := g.validate(c.NumQubits); err != nil {
		return err
	}
	g = g.clone()
	if g.Column < 0 {
		g.Column = c.autoColumn(g.Qubits())
	} else {
		for _, placed := range c.Gates {
			if placed.Column != g.Column {
				continue
			}
			for _, q := range placed.Qubits() {
				if slices.Contains(g.Qubits(), q) {
					return fmt.Errorf("column %d: qubit %d already taken by %s", g.Column, q, placed.Kind)
				}
			}
		}
	}
	c.Gates = append(c.Gates, g)
	return nil
}

// Add appends an unparameterized gate. SWAP takes two targets;
// measurement takes one or more.
func (c *Circuit) Add(kind Kind, targets ...int) error {
	return c.AddGate(Gate{Kind: kind, Targets: targets, Column: AutoPlace})
}

// AddRotation appends a rotation gate with the given angle in radians.
func (c *Circuit) AddRotation(kind Kind, theta float64, target int) error {
	return c.AddGate(Gate{Kind: kind, Targets: []int{target}, Params: []float64{theta}, Column: AutoPlace})
}

// AddControlled appends a CX or CZ gate with one or more controls.
func (c *Circuit) AddControlled(kind Kind, target int, controls ...int) error {
	return c.AddGate(Gate{Kind: kind, Targets: []int{target}, Controls: controls, Column: AutoPlace})
}

// AddControlledPhase appends a CP or CRZ gate with the given phase angle.
func (c *Circuit) AddControlledPhase(kind Kind, phi float64, target int, controls ...int) error {
	return c.AddGate(Gate{
		Kind:     kind,
		Targets:  []int{target},
		Controls: controls,
		Params:   []float64{phi},
		Column:   AutoPlace,
	})
}

// AddSwap exchanges two qubits.
func (c *Circuit) AddSwap(a, b int) error {
	return c.AddGate(Gate{Kind: KindSWAP, Targets: []int{a, b}, Column: AutoPlace})
}

// AddCSwap exchanges two qubits under one or more controls.
func (c *Circuit) AddCSwap(a, b int, controls ...int) error {
	return c.AddGate(Gate{Kind: KindCSWAP, Targets: []int{a, b}, Controls: controls, Column: AutoPlace})
}

// AddMeasure measures the given qubits; with no arguments every qubit in
// the register is measured.
func (c *Circuit) AddMeasure(qubits ...int) error {
	if len(qubits) == 0 {
		qubits = make([]int, c.NumQubits)
		for q := range qubits {
			qubits[q] = q
		}
	}
	return c.AddGate(Gate{Kind: KindMeasure, Targets: qubits, Column: AutoPlace})
}

// autoColumn returns one past the last column touching any of the qubits.
func (c *Circuit) autoColumn(qubits []int) int {
	col := 0
	for _, g := range c.Gates {
		if g.Column < col {
			continue
		}
		for _, q := range g.Qubits() {
			if slices.Contains(qubits, q) {
				col = g.Column + 1
				break
			}
		}
	}
	return col
}

// MaxColumn returns the highest occupied column, or -1 when empty.
func (c *Circuit) MaxColumn() int {
	maxCol := -1
	for _, g := range c.Gates {
		if g.Column > maxCol {
			maxCol = g.Column
		}
	}
	return maxCol
}

// GatesInColumn returns copies of the gates in the column, in insertion
// order.
func (c *Circuit) GatesInColumn(col int) []Gate {
	var out []Gate
	for _, g := range c.Gates {
		if g.Column == col {
			out = append(out, g.clone())
		}
	}
	return out
}

// Columns returns the circuit as a dense column slice; gaps show up as
// nil entries.
func (c *Circuit) Columns() [][]Gate {
	cols := make([][]Gate, c.MaxColumn()+1)
	for _, g := range c.Gates {
		cols[g.Column] = append(cols[g.Column], g.clone())
	}
	return cols
}

func gateTouches(g Gate, qubit int) bool {
	return slices.Contains(g.Targets, qubit) || slices.Contains(g.Controls, qubit)
}

// GateAt returns a copy of the gate occupying the column and qubit.
func (c *Circuit) GateAt(column, qubit int) (Gate, bool) {
	for _, g := range c.Gates {
		if g.Column == column && gateTouches(g, qubit) {
			return g.clone(), true
		}
	}
	return Gate{}, false
}

// RemoveGateAt removes any gate occupying the given column and qubit.
func (c *Circuit) RemoveGateAt(column, qubit int) {
	c.Gates = slices.DeleteFunc(c.Gates, func(g Gate) bool {
		return g.Column == column && gateTouches(g, qubit)
	})
}

// RemoveGatesOnQubit removes every gate that touches the given qubit.
func (c *Circuit) RemoveGatesOnQubit(qubit int) {
	c.Gates = slices.DeleteFunc(c.Gates, func(g Gate) bool {
		return gateTouches(g, qubit)
	})
}

// Validate re-checks every gate and the column disjointness rule. Useful
// after assembling a circuit from parsed or hand-built gates.
func (c *Circuit) Validate() error {
	if c.NumQubits < 1 || c.NumQubits > MaxQubits {
		return fmt.Errorf("circuit wants 1..%d qubits, got %d", MaxQubits, c.NumQubits)
	}
	used := make(map[int]int)
	for _, g := range c.Gates {
		if err := g.validate(c.NumQubits); err != nil {
			return fmt.Errorf("column %d: %w", g.Column, err)
		}
		if g.Column < 0 {
			return fmt.Errorf("%s: unplaced gate (column %d)", g.Kind, g.Column)
		}
		mask := 0
		for _, q := range g.Qubits() {
			mask |= 1 << q
		}
		if used[g.Column]&mask != 0 {
			return fmt.Errorf("column %d: overlapping gates", g.Column)
		}
		used[g.Column] |= mask
	}
	return nil
}

// GHZ builds the n-qubit cascade preparing (|0...0> + |1...1>)/sqrt(2)
// and measuring every qubit.
func GHZ(numQubits int) (*Circuit, error) {
	c, err := NewCircuit(numQubits)
	if err != nil {
		return nil, err
	}
	if err := c.Add(KindH, 0); err != nil {
		return nil, err
	}
	for q := 1; q < numQubits; q++ {
		if err := c.AddControlled(KindCX, q, q-1); err != nil {
			return nil, err
		}
	}
	if err := c.AddMeasure(); err != nil {
		return nil, err
	}
	return c, nil
}

// Bell prepares and measures the two-qubit pair (|00> + |11>)/sqrt(2).
func Bell() *Circuit {
	c, _ := GHZ(2)
	return c
}
