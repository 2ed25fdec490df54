package qvec

import (
	"fmt"
	"math"
	"math/cmplx"
)

// DensityMatrix represents a possibly mixed n-qubit state as a 2^n x 2^n
// matrix. A correct construction path keeps it Hermitian with unit trace;
// neither property is re-checked on use.
type DensityMatrix struct {
	Elements  [][]Complex
	NumQubits int
}

func newDensityMatrix(numQubits int) *DensityMatrix {
	n := 1 << numQubits
	elems := make([][]Complex, n)
	for i := range elems {
		elems[i] = make([]Complex, n)
	}
	return &DensityMatrix{Elements: elems, NumQubits: numQubits}
}

// Clone returns an independent copy.
func (d *DensityMatrix) Clone() *DensityMatrix {
	out := newDensityMatrix(d.NumQubits)
	for i := range d.Elements {
		copy(out.Elements[i], d.Elements[i])
	}
	return out
}

// FromPureState builds rho = |psi><psi|: rho[i][j] = a_i * conj(a_j).
func FromPureState(state *StateVector) *DensityMatrix {
	rho := newDensityMatrix(state.NumQubits)
	for i, ai := range state.Amplitudes {
		for j, aj := range state.Amplitudes {
			rho.Elements[i][j] = ai * cmplx.Conj(aj)
		}
	}
	return rho
}

// EnsembleComponent pairs a preparation probability with its pure state.
type EnsembleComponent struct {
	Probability float64
	State       *StateVector
}

// FromEnsemble builds the probability-weighted mixture of pure states.
// Probabilities are assumed non-negative and summing to one; that is the
// preparer's contract and is not enforced here.
func FromEnsemble(components []EnsembleComponent) (*DensityMatrix, error) {
	if len(components) == 0 {
		return nil, fmt.Errorf("empty ensemble")
	}
	nq := components[0].State.NumQubits
	for k, c := range components {
		if c.State.NumQubits != nq {
			return nil, fmt.Errorf("component %d has %d qubits, want %d", k, c.State.NumQubits, nq)
		}
	}
	rho := newDensityMatrix(nq)
	for _, c := range components {
		p := complex(c.Probability, 0)
		for i, ai := range c.State.Amplitudes {
			for j, aj := range c.State.Amplitudes {
				rho.Elements[i][j] += p * ai * cmplx.Conj(aj)
			}
		}
	}
	return rho, nil
}

// ApplySingleQubitGate conjugates rho by a single-qubit operator,
// rho' = U rho U-dagger, with the same bit-masked pairing as the
// statevector path: row pairs within each column for the left factor,
// then column pairs within each row for the right one. The input matrix
// is not modified.
func ApplySingleQubitGate(rho *DensityMatrix, m Matrix2, target int) *DensityMatrix {
	n := 1 << rho.NumQubits
	bit := 1 << target
	md := m.Dagger()
	out := newDensityMatrix(rho.NumQubits)

	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			if i&bit == 0 {
				k := i | bit
				a0 := rho.Elements[i][j]
				a1 := rho.Elements[k][j]
				out.Elements[i][j] = m[0][0]*a0 + m[0][1]*a1
				out.Elements[k][j] = m[1][0]*a0 + m[1][1]*a1
			}
		}
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if j&bit == 0 {
				k := j | bit
				b0 := out.Elements[i][j]
				b1 := out.Elements[i][k]
				out.Elements[i][j] = b0*md[0][0] + b1*md[1][0]
				out.Elements[i][k] = b0*md[0][1] + b1*md[1][1]
			}
		}
	}
	return out
}

// MarginalProbabilityOfOne sums the diagonal over basis states with the
// target bit set. Diagonal entries of a Hermitian matrix are real; only
// the real part is read.
func MarginalProbabilityOfOne(rho *DensityMatrix, target int) float64 {
	n := 1 << rho.NumQubits
	bit := 1 << target
	p := 0.0
	for i := 0; i < n; i++ {
		if i&bit != 0 {
			p += real(rho.Elements[i][i])
		}
	}
	return p
}

// Diagonal returns the basis probabilities along the main diagonal.
func (d *DensityMatrix) Diagonal() []float64 {
	n := 1 << d.NumQubits
	probs := make([]float64, n)
	for i := 0; i < n; i++ {
		probs[i] = real(d.Elements[i][i])
	}
	return probs
}

// Trace returns the real part of the matrix trace; 1 for a valid state.
func (d *DensityMatrix) Trace() float64 {
	t := 0.0
	for i := range d.Elements {
		t += real(d.Elements[i][i])
	}
	return t
}

// Purity returns Tr(rho^2): 1 for a pure state, 1/2^n at maximum mixing.
func (d *DensityMatrix) Purity() float64 {
	n := 1 << d.NumQubits
	p := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			p += real(d.Elements[i][j] * d.Elements[j][i])
		}
	}
	return p
}

// ReduceToQubit traces out every qubit except target, leaving the 2x2
// reduced state of that one qubit.
func (d *DensityMatrix) ReduceToQubit(target int) Matrix2 {
	n := 1 << d.NumQubits
	bit := 1 << target
	var out Matrix2
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i&^bit != j&^bit {
				continue // off the partial-trace diagonal
			}
			bi, bj := 0, 0
			if i&bit != 0 {
				bi = 1
			}
			if j&bit != 0 {
				bj = 1
			}
			out[bi][bj] += d.Elements[i][j]
		}
	}
	return out
}

// EntanglementEntropy returns the von Neumann entropy, in bits, of the
// target qubit's reduced state via the analytic 2x2 eigenvalues. Zero for
// a product state, one for a maximally entangled pair.
func (d *DensityMatrix) EntanglementEntropy(target int) float64 {
	r := d.ReduceToQubit(target)
	trace := real(r[0][0]) + real(r[1][1])
	det := real(r[0][0]*r[1][1] - r[0][1]*r[1][0])
	disc := trace*trace - 4*det
	if disc < 0 {
		disc = 0
	}
	s := math.Sqrt(disc)
	entropy := 0.0
	for _, l := range []float64{(trace + s) / 2, (trace - s) / 2} {
		if l > normEpsilon {
			entropy -= l * math.Log2(l)
		}
	}
	return entropy
}
