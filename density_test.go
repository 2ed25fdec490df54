package qvec

import (
	"math"
	"math/cmplx"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func densityClose(a, b *DensityMatrix) bool {
	if a.NumQubits != b.NumQubits {
		return false
	}
	for i := range a.Elements {
		for j := range a.Elements[i] {
			if cmplx.Abs(a.Elements[i][j]-b.Elements[i][j]) > tol {
				return false
			}
		}
	}
	return true
}

func TestFromPureState(t *testing.T) {
	Convey("Given the density matrix of a Bell pair", t, func() {
		bell := ApplyColumn(NewStateVector(2), []Gate{{Kind: KindH, Targets: []int{0}}})
		bell = ApplyColumn(bell, []Gate{{Kind: KindCX, Targets: []int{1}, Controls: []int{0}}})
		rho := FromPureState(bell)

		Convey("It is Hermitian with unit trace", func() {
			So(rho.Trace(), ShouldAlmostEqual, 1.0, tol)
			for i := range rho.Elements {
				for j := range rho.Elements[i] {
					herm := cmplx.Conj(rho.Elements[j][i])
					So(cmplx.Abs(rho.Elements[i][j]-herm), ShouldBeLessThan, tol)
				}
			}
		})

		Convey("Its diagonal matches the statevector probabilities", func() {
			diag := rho.Diagonal()
			probs := bell.Probabilities()
			So(len(diag), ShouldEqual, len(probs))
			for i := range diag {
				So(diag[i], ShouldAlmostEqual, probs[i], tol)
			}
		})

		Convey("A pure state has purity one", func() {
			So(rho.Purity(), ShouldAlmostEqual, 1.0, tol)
		})

		Convey("Each half of the pair carries one bit of entanglement entropy", func() {
			So(rho.EntanglementEntropy(0), ShouldAlmostEqual, 1.0, tol)
			So(rho.EntanglementEntropy(1), ShouldAlmostEqual, 1.0, tol)
		})
	})

	Convey("Given a product state", t, func() {
		plus := ApplyColumn(NewStateVector(2), []Gate{{Kind: KindH, Targets: []int{0}}})
		rho := FromPureState(plus)

		Convey("The reduced state of either qubit stays pure", func() {
			So(rho.EntanglementEntropy(0), ShouldAlmostEqual, 0.0, tol)
			So(rho.EntanglementEntropy(1), ShouldAlmostEqual, 0.0, tol)

			r := rho.ReduceToQubit(0)
			So(real(r[0][0]), ShouldAlmostEqual, 0.5, tol)
			So(real(r[1][1]), ShouldAlmostEqual, 0.5, tol)
			So(real(r[0][1]), ShouldAlmostEqual, 0.5, tol)
		})
	})
}

func TestFromEnsemble(t *testing.T) {
	Convey("Given an even classical mixture of the two basis states", t, func() {
		zero := NewStateVector(1)
		one := ApplyColumn(zero, []Gate{{Kind: KindX, Targets: []int{0}}})
		rho, err := FromEnsemble([]EnsembleComponent{
			{Probability: 0.5, State: zero},
			{Probability: 0.5, State: one},
		})
		So(err, ShouldBeNil)

		Convey("The mixture is diagonal with unit trace", func() {
			So(real(rho.Elements[0][0]), ShouldAlmostEqual, 0.5, tol)
			So(real(rho.Elements[1][1]), ShouldAlmostEqual, 0.5, tol)
			So(cmplx.Abs(rho.Elements[0][1]), ShouldBeLessThan, tol)
			So(rho.Trace(), ShouldAlmostEqual, 1.0, tol)
		})

		Convey("Mixing costs purity", func() {
			So(rho.Purity(), ShouldAlmostEqual, 0.5, tol)
		})

		Convey("It is distinct from the coherent superposition", func() {
			plus := ApplyColumn(zero, []Gate{{Kind: KindH, Targets: []int{0}}})
			pure := FromPureState(plus)
			So(densityClose(rho, pure), ShouldBeFalse)
		})
	})

	Convey("Malformed ensembles are rejected", t, func() {
		_, err := FromEnsemble(nil)
		So(err, ShouldNotBeNil)

		_, err = FromEnsemble([]EnsembleComponent{
			{Probability: 0.5, State: NewStateVector(1)},
			{Probability: 0.5, State: NewStateVector(2)},
		})
		So(err, ShouldNotBeNil)
	})
}

func TestApplySingleQubitGateOnDensity(t *testing.T) {
	Convey("Given an entangled three-qubit state", t, func() {
		state := entangledState()
		rho := FromPureState(state)

		Convey("Conjugating by H agrees with the statevector path", func() {
			mh, ok := fixedMatrix(KindH)
			So(ok, ShouldBeTrue)
			got := ApplySingleQubitGate(rho, mh, 1)
			want := FromPureState(ApplyColumn(state, []Gate{{Kind: KindH, Targets: []int{1}}}))
			So(densityClose(got, want), ShouldBeTrue)
		})

		Convey("Conjugating by a rotation agrees with the statevector path", func() {
			got := ApplySingleQubitGate(rho, RxMatrix(1.1), 2)
			want := FromPureState(ApplyColumn(state, []Gate{
				{Kind: KindRX, Targets: []int{2}, Params: []float64{1.1}},
			}))
			So(densityClose(got, want), ShouldBeTrue)
		})

		Convey("The phase matrix at pi/2 is the S gate", func() {
			got := ApplySingleQubitGate(rho, PhaseMatrix(math.Pi/2), 1)
			want := FromPureState(ApplyColumn(state, []Gate{{Kind: KindS, Targets: []int{1}}}))
			So(densityClose(got, want), ShouldBeTrue)
		})

		Convey("Unitary conjugation preserves trace and purity", func() {
			got := ApplySingleQubitGate(rho, RyMatrix(0.4), 0)
			So(got.Trace(), ShouldAlmostEqual, 1.0, tol)
			So(got.Purity(), ShouldAlmostEqual, rho.Purity(), tol)
		})

		Convey("The input matrix is left untouched", func() {
			mx, _ := fixedMatrix(KindX)
			snapshot := rho.Clone()
			_ = ApplySingleQubitGate(rho, mx, 0)
			So(densityClose(rho, snapshot), ShouldBeTrue)
		})
	})
}

func TestMarginalProbabilityOfOne(t *testing.T) {
	Convey("Given a mixed state and its pure components", t, func() {
		a := entangledState()
		b := ApplyColumn(NewStateVector(3), []Gate{{Kind: KindX, Targets: []int{1}}})
		rho, err := FromEnsemble([]EnsembleComponent{
			{Probability: 0.3, State: a},
			{Probability: 0.7, State: b},
		})
		So(err, ShouldBeNil)

		Convey("Marginals are the probability-weighted statevector marginals", func() {
			for q := 0; q < 3; q++ {
				want := 0.3*a.ProbabilityOfOne(q) + 0.7*b.ProbabilityOfOne(q)
				So(MarginalProbabilityOfOne(rho, q), ShouldAlmostEqual, want, tol)
			}
		})

		Convey("Marginals of each qubit pair into a unit total", func() {
			for q := 0; q < 3; q++ {
				p1 := MarginalProbabilityOfOne(rho, q)
				r := rho.ReduceToQubit(q)
				So(real(r[1][1]), ShouldAlmostEqual, p1, tol)
				So(real(r[0][0]), ShouldAlmostEqual, 1-p1, tol)
			}
		})
	})
}

func TestGHZEntropyAcrossCuts(t *testing.T) {
	Convey("Given a three-qubit GHZ state", t, func() {
		ghz := ApplyColumn(NewStateVector(3), []Gate{{Kind: KindH, Targets: []int{0}}})
		ghz = ApplyColumn(ghz, []Gate{{Kind: KindCX, Targets: []int{1}, Controls: []int{0}}})
		ghz = ApplyColumn(ghz, []Gate{{Kind: KindCX, Targets: []int{2}, Controls: []int{1}}})
		rho := FromPureState(ghz)

		Convey("Every single-qubit cut is maximally mixed", func() {
			for q := 0; q < 3; q++ {
				So(rho.EntanglementEntropy(q), ShouldAlmostEqual, 1.0, tol)
				r := rho.ReduceToQubit(q)
				So(real(r[0][0]), ShouldAlmostEqual, 0.5, tol)
				So(cmplx.Abs(r[0][1]), ShouldBeLessThan, tol)
			}
		})

		Convey("The reduced purity matches the entropy picture", func() {
			r := rho.ReduceToQubit(0)
			p := real(r[0][0]*r[0][0] + 2*r[0][1]*r[1][0] + r[1][1]*r[1][1])
			So(p, ShouldAlmostEqual, 0.5, tol)
			So(math.Abs(rho.Purity()-1.0), ShouldBeLessThan, tol)
		})
	})
}
