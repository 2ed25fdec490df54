package qvec

import (
	"fmt"
	"math"
	"slices"

	"github.com/theapemachine/errnie"
)

// Mode selects how measurement columns are handled.
type Mode int

const (
	// ModeProbability reports the distribution at each measurement column
	// and never disturbs the state.
	ModeProbability Mode = iota
	// ModeShot samples one outcome per measurement column and collapses
	// the measured qubits onto it.
	ModeShot
)

func (m Mode) String() string {
	switch m {
	case ModeProbability:
		return "probability"
	case ModeShot:
		return "shot"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Options configure a simulation run. The same seed with the same circuit
// and initial state replays the identical trace.
type Options struct {
	Mode Mode
	Seed uint32
}

// Step is one snapshot in a simulation trace: the state after the column
// was applied, plus a measurement summary when the column measured. In
// shot mode the snapshot is the post-collapse state. Column -1 holds the
// initial state.
type Step struct {
	Column      int
	Gates       []Gate
	State       *StateVector
	Measurement *Summary
}

// Simulate runs the circuit column by column and returns the full trace.
// A nil initial state means |0...0>. Neither input is modified; every
// Step owns its snapshots.
func Simulate(c *Circuit, initial *StateVector, opts Options) ([]Step, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if initial == nil {
		initial = NewStateVector(c.NumQubits)
	} else {
		if initial.NumQubits != c.NumQubits {
			return nil, fmt.Errorf("initial state has %d qubits, circuit wants %d", initial.NumQubits, c.NumQubits)
		}
		if norm := initial.SquaredNorm(); math.Abs(norm-1) > 1e-9 {
			return nil, fmt.Errorf("initial state squared norm %g, want 1", norm)
		}
		initial = initial.Clone()
	}

	rng := NewRNG(opts.Seed)
	errnie.Info("simulate: %d qubits, %d columns, %s mode", c.NumQubits, c.MaxColumn()+1, opts.Mode)

	state := initial
	steps := []Step{{Column: -1, State: state.Clone()}}

	for col, column := range c.Columns() {
		var unitaries []Gate
		var measured []int
		for _, g := range column {
			if g.Kind == KindMeasure {
				measured = append(measured, g.Targets...)
			} else {
				unitaries = append(unitaries, g)
			}
		}

		if len(unitaries) > 0 {
			state = ApplyColumn(state, unitaries)
		}

		step := Step{Column: col, Gates: column, State: state.Clone()}
		if len(measured) > 0 {
			slices.Sort(measured)
			switch opts.Mode {
			case ModeProbability:
				step.Measurement = MeasureProbabilities(state, measured)
			case ModeShot:
				summary := MeasureShot(state, measured, rng)
				state = summary.Collapsed.Clone()
				step.Measurement = summary
				step.State = state.Clone()
			default:
				return nil, fmt.Errorf("unknown mode %d", opts.Mode)
			}
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// FinalState returns the state after the last column of a trace.
func FinalState(steps []Step) *StateVector {
	if len(steps) == 0 {
		return nil
	}
	return steps[len(steps)-1].State
}
