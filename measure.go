package qvec

import (
	"math"

	"github.com/theapemachine/errnie"
	"gonum.org/v1/gonum/floats"
)

// normEpsilon is the retained-probability floor below which a collapse
// skips renormalization instead of dividing by a numerically zero norm.
const normEpsilon = 1e-12

// Summary reports what one measurement column observed. Probabilities is
// the full-basis distribution at measurement time, keyed by binary label;
// in shot mode it is the distribution the outcome was drawn from, with the
// sampled label in Outcome and the projected state in Collapsed.
type Summary struct {
	Probabilities map[string]float64
	Measured      []int
	Outcome       string
	Collapsed     *StateVector
}

// MeasureProbabilities summarizes a measurement column without touching
// the state: the full distribution plus the qubits nominally measured.
// Downstream consumers marginalize over the measured positions by grouping
// labels that agree there and summing.
func MeasureProbabilities(state *StateVector, measured []int) *Summary {
	probs := state.Probabilities()
	dist := make(map[string]float64, len(probs))
	for i, p := range probs {
		dist[state.Label(i)] = p
	}
	m := make([]int, len(measured))
	copy(m, measured)
	return &Summary{Probabilities: dist, Measured: m}
}

// SampleIndex draws one basis outcome from the state's distribution. It
// walks the cumulative distribution in increasing basis order and returns
// the first index whose cumulative probability exceeds the draw; if
// floating-point error leaves the draw at or past the total, the last
// index wins.
func SampleIndex(state *StateVector, rng *RNG) int {
	probs := state.Probabilities()
	cum := make([]float64, len(probs))
	floats.CumSum(cum, probs)
	r := rng.Float64()
	for i, c := range cum {
		if r < c {
			return i
		}
	}
	return len(cum) - 1
}

// MeasureShot samples one global outcome and projects the state onto the
// subspace agreeing with the sampled bits at the measured positions. Only
// the measured qubits collapse; unmeasured qubits keep their relative
// superposition inside the retained subspace. The input is not modified;
// the projected vector is returned in the summary.
func MeasureShot(state *StateVector, measured []int, rng *RNG) *Summary {
	summary := MeasureProbabilities(state, measured)
	outcome := SampleIndex(state, rng)
	collapsed := state.Clone()
	collapsed.collapse(measured, outcome)
	summary.Outcome = state.Label(outcome)
	summary.Collapsed = collapsed
	errnie.Info("collapse: qubits %v observed %s", summary.Measured, summary.Outcome)
	return summary
}

// collapse zeroes every amplitude whose bits at the measured positions
// disagree with the outcome, then rescales the survivors by the square
// root of the retained probability.
func (s *StateVector) collapse(measured []int, outcome int) {
	mask := maskOf(measured)
	want := outcome & mask
	retained := 0.0
	for i := range s.Amplitudes {
		if i&mask == want {
			retained += sqMag(s.Amplitudes[i])
		} else {
			s.Amplitudes[i] = 0
		}
	}
	norm := 1.0
	if retained > normEpsilon {
		norm = math.Sqrt(retained)
	}
	for i := range s.Amplitudes {
		s.Amplitudes[i] /= complex(norm, 0)
	}
}
