package qvec

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)

// Complex is the amplitude type, an ordered pair of IEEE-754 doubles.
type Complex = complex128

// MaxQubits caps circuit width. State vectors scale as 2^n; the engine
// targets small interactive circuits, dimension at most 32.
const MaxQubits = 5

// StateVector holds the 2^n basis amplitudes of an n-qubit pure state.
// Bit q of a basis index encodes the value of qubit q, least-significant
// bit first; every gate and every label shares this convention.
type StateVector struct {
	Amplitudes []Complex
	NumQubits  int
}

// NewStateVector returns |0...0> on numQubits qubits.
func NewStateVector(numQubits int) *StateVector {
	n := 1 << numQubits
	amps := make([]Complex, n)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

// FromAmplitudes builds a state from an explicit amplitude vector. The
// slice is copied, so the caller keeps ownership of its argument.
func FromAmplitudes(amps []Complex, numQubits int) (*StateVector, error) {
	if numQubits < 1 || numQubits > MaxQubits {
		return nil, fmt.Errorf("numQubits %d outside [1,%d]", numQubits, MaxQubits)
	}
	if len(amps) != 1<<numQubits {
		return nil, fmt.Errorf("amplitude vector has length %d, want %d", len(amps), 1<<numQubits)
	}
	out := make([]Complex, len(amps))
	copy(out, amps)
	return &StateVector{Amplitudes: out, NumQubits: numQubits}, nil
}

// Clone returns an independent copy.
func (s *StateVector) Clone() *StateVector {
	amps := make([]Complex, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &StateVector{Amplitudes: amps, NumQubits: s.NumQubits}
}

// SquaredNorm sums |amp|^2 over the vector; 1 for a valid state.
func (s *StateVector) SquaredNorm() float64 {
	return floats.Sum(s.Probabilities())
}

// Probabilities returns |amp|^2 for every basis index.
func (s *StateVector) Probabilities() []float64 {
	probs := make([]float64, len(s.Amplitudes))
	for i, amp := range s.Amplitudes {
		probs[i] = sqMag(amp)
	}
	return probs
}

// Label formats basis index i as a binary string; qubit 0 is the rightmost
// character.
func (s *StateVector) Label(i int) string {
	return fmt.Sprintf("%0*b", s.NumQubits, i)
}

// BasisTerm is one nonzero component of a state, ready for display.
type BasisTerm struct {
	BasisState int
	Label      string
	Amplitude  Complex
	Prob       float64
	Phase      float64
}

// Terms lists the nonzero components in increasing basis order.
func (s *StateVector) Terms() []BasisTerm {
	terms := make([]BasisTerm, 0, len(s.Amplitudes))
	for i, amp := range s.Amplitudes {
		prob := sqMag(amp)
		if prob > 1e-10 {
			terms = append(terms, BasisTerm{
				BasisState: i,
				Label:      s.Label(i),
				Amplitude:  amp,
				Prob:       prob,
				Phase:      cmplx.Phase(amp),
			})
		}
	}
	return terms
}

// QubitProbability is the marginal distribution of one qubit.
type QubitProbability struct {
	Prob0 float64
	Prob1 float64
}

// QubitProbabilities returns the marginal distribution of every qubit.
func (s *StateVector) QubitProbabilities() []QubitProbability {
	probs := make([]QubitProbability, s.NumQubits)
	for i, amp := range s.Amplitudes {
		p := sqMag(amp)
		for q := 0; q < s.NumQubits; q++ {
			if i&(1<<q) != 0 {
				probs[q].Prob1 += p
			} else {
				probs[q].Prob0 += p
			}
		}
	}
	return probs
}

// ProbabilityOfOne returns the marginal probability of reading qubit q as 1.
func (s *StateVector) ProbabilityOfOne(q int) float64 {
	bit := 1 << q
	p := 0.0
	for i, amp := range s.Amplitudes {
		if i&bit != 0 {
			p += sqMag(amp)
		}
	}
	return p
}

func sqMag(z Complex) float64 {
	return real(z * cmplx.Conj(z))
}

// ApplyColumn applies every unitary gate of one circuit column to state and
// returns the resulting vector; the input is never modified. Gates within a
// column act on pairwise-disjoint qubit sets (the circuit layer enforces
// this), so application order does not matter. Measurement gates carry no
// unitary and are skipped here; the simulation driver summarizes them.
func ApplyColumn(state *StateVector, gates []Gate) *StateVector {
	out := state.Clone()
	for _, g := range gates {
		if g.Kind == KindMeasure {
			continue
		}
		out.applyGate(g)
	}
	return out
}

// applyGate dispatches one gate onto the working copy. Unrecognized kinds
// that are not in the extension registry are programming errors.
func (s *StateVector) applyGate(g Gate) {
	switch g.Kind {
	case KindI:
		// identity
	case KindX, KindY, KindH:
		m, _ := fixedMatrix(g.Kind)
		s.applySingle(g.Targets[0], m)
	case KindZ:
		s.applyPhase(g.Targets[0], -1)
	case KindS:
		s.applyPhase(g.Targets[0], 1i)
	case KindSdg:
		s.applyPhase(g.Targets[0], -1i)
	case KindT:
		s.applyPhase(g.Targets[0], cmplx.Exp(complex(0, math.Pi/4)))
	case KindTdg:
		s.applyPhase(g.Targets[0], cmplx.Exp(complex(0, -math.Pi/4)))
	case KindRX, KindRY, KindRZ:
		m, _ := rotationMatrix(g.Kind, g.Params[0])
		s.applySingle(g.Targets[0], m)
	case KindCX:
		s.applyCX(maskOf(g.Controls), g.Targets[0])
	case KindCZ:
		s.applyCZ(maskOf(g.Controls), g.Targets[0])
	case KindSWAP:
		s.applySWAP(g.Targets[0], g.Targets[1])
	case KindCP:
		s.applyCP(maskOf(g.Controls), g.Targets[0], g.Params[0])
	case KindCRZ:
		s.applyCRZ(maskOf(g.Controls), g.Targets[0], g.Params[0])
	case KindCSWAP:
		s.applyCSWAP(maskOf(g.Controls), g.Targets[0], g.Targets[1])
	case KindMeasure:
		panic("qvec: measurement gates carry no unitary; filter them before applyGate")
	default:
		if ext, ok := gateExtensions[g.Kind]; ok {
			ext.apply(s, g)
			return
		}
		panic(fmt.Sprintf("qvec: no applier for gate kind %v", g.Kind))
	}
}

// maskOf folds qubit indices into one bit mask.
func maskOf(qubits []int) int {
	mask := 0
	for _, q := range qubits {
		mask |= 1 << q
	}
	return mask
}

// applySingle applies a 2x2 matrix across the target bit. Indices are
// processed in pairs (i, i|bit) that differ only at the target position.
func (s *StateVector) applySingle(q int, m Matrix2) {
	n := len(s.Amplitudes)
	bit := 1 << q
	newAmps := make([]Complex, n)
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			a0, a1 := s.Amplitudes[i], s.Amplitudes[j]
			newAmps[i] = m[0][0]*a0 + m[0][1]*a1
			newAmps[j] = m[1][0]*a0 + m[1][1]*a1
		}
	}
	s.Amplitudes = newAmps
}

// applyPhase multiplies every amplitude with the target bit set by factor.
func (s *StateVector) applyPhase(q int, factor Complex) {
	n := len(s.Amplitudes)
	bit := 1 << q
	for i := 0; i < n; i++ {
		if i&bit != 0 {
			s.Amplitudes[i] *= factor
		}
	}
}

func (s *StateVector) applyCX(ctrlMask, target int) {
	n := len(s.Amplitudes)
	tBit := 1 << target
	for i := 0; i < n; i++ {
		if i&ctrlMask == ctrlMask && i&tBit == 0 {
			j := i | tBit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applyCZ(ctrlMask, target int) {
	n := len(s.Amplitudes)
	tBit := 1 << target
	for i := 0; i < n; i++ {
		if i&ctrlMask == ctrlMask && i&tBit != 0 {
			s.Amplitudes[i] *= -1
		}
	}
}

// applySWAP exchanges the amplitudes of every index pair whose q1/q2 bits
// read (1,0) and (0,1). Visiting only the (1,0) side touches each pair
// exactly once, so nothing is swapped back.
func (s *StateVector) applySWAP(q1, q2 int) {
	n := len(s.Amplitudes)
	bit1 := 1 << q1
	bit2 := 1 << q2
	for i := 0; i < n; i++ {
		if i&bit1 != 0 && i&bit2 == 0 {
			j := (i & ^bit1) | bit2
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applyCP(ctrlMask, target int, phi float64) {
	n := len(s.Amplitudes)
	tBit := 1 << target
	phase := cmplx.Exp(complex(0, phi))
	for i := 0; i < n; i++ {
		if i&ctrlMask == ctrlMask && i&tBit != 0 {
			s.Amplitudes[i] *= phase
		}
	}
}

func (s *StateVector) applyCRZ(ctrlMask, target int, theta float64) {
	n := len(s.Amplitudes)
	tBit := 1 << target
	phase := cmplx.Exp(complex(0, theta/2))
	for i := 0; i < n; i++ {
		if i&ctrlMask != ctrlMask {
			continue
		}
		if i&tBit != 0 {
			s.Amplitudes[i] *= phase
		} else {
			s.Amplitudes[i] *= cmplx.Conj(phase)
		}
	}
}

// applyCSWAP swaps the q1/q2 bit pair wherever the control bits are set.
// The marker guarantees each pair is exchanged once; the plain loop would
// reach the partner index later and undo the swap.
func (s *StateVector) applyCSWAP(ctrlMask, q1, q2 int) {
	n := len(s.Amplitudes)
	bit1 := 1 << q1
	bit2 := 1 << q2
	visited := make([]bool, n)
	for i := 0; i < n; i++ {
		if i&ctrlMask != ctrlMask || visited[i] {
			continue
		}
		if (i&bit1 != 0) == (i&bit2 != 0) {
			continue
		}
		j := i ^ bit1 ^ bit2
		s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		visited[i], visited[j] = true, true
	}
}
