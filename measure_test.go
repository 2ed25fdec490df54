package qvec

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func bellState() *StateVector {
	state := NewStateVector(2)
	state = ApplyColumn(state, []Gate{{Kind: KindH, Targets: []int{0}}})
	return ApplyColumn(state, []Gate{{Kind: KindCX, Targets: []int{1}, Controls: []int{0}}})
}

func TestMeasureProbabilities(t *testing.T) {
	Convey("Given a Bell state", t, func() {
		state := bellState()
		before := state.Clone()

		Convey("When measuring in probability mode", func() {
			summary := MeasureProbabilities(state, []int{0, 1})

			Convey("Then the summary holds the full basis distribution", func() {
				So(summary.Probabilities, ShouldHaveLength, 4)
				So(summary.Probabilities["00"], ShouldAlmostEqual, 0.5, tol)
				So(summary.Probabilities["11"], ShouldAlmostEqual, 0.5, tol)
				So(summary.Probabilities["01"], ShouldAlmostEqual, 0, tol)
				So(summary.Probabilities["10"], ShouldAlmostEqual, 0, tol)
				So(summary.Measured, ShouldResemble, []int{0, 1})
				So(summary.Collapsed, ShouldBeNil)
			})

			Convey("Then the state is untouched", func() {
				for i := range before.Amplitudes {
					So(state.Amplitudes[i] == before.Amplitudes[i], ShouldBeTrue)
				}
			})

			Convey("Then repeating the measurement changes nothing", func() {
				again := MeasureProbabilities(state, []int{0, 1})
				So(again.Probabilities["00"], ShouldAlmostEqual, summary.Probabilities["00"], tol)
				for i := range before.Amplitudes {
					So(state.Amplitudes[i] == before.Amplitudes[i], ShouldBeTrue)
				}
			})
		})
	})
}

func TestSampleIndex(t *testing.T) {
	Convey("Given a Bell state", t, func() {
		state := bellState()

		Convey("When sampling many outcomes", func() {
			rng := NewRNG(11)
			for i := 0; i < 200; i++ {
				idx := SampleIndex(state, rng)

				// Only the populated basis states can ever be drawn.
				So(idx == 0 || idx == 3, ShouldBeTrue)
			}
		})

		Convey("When sampling with two generators sharing a seed", func() {
			a, b := NewRNG(99), NewRNG(99)
			for i := 0; i < 100; i++ {
				So(SampleIndex(state, a), ShouldEqual, SampleIndex(state, b))
			}
		})
	})

	Convey("Given a state concentrated on the last basis index", t, func() {
		state := NewStateVector(2)
		state.applyGate(Gate{Kind: KindX, Targets: []int{0}})
		state.applyGate(Gate{Kind: KindX, Targets: []int{1}})

		Convey("Then every draw lands on that index", func() {
			rng := NewRNG(5)
			for i := 0; i < 50; i++ {
				So(SampleIndex(state, rng), ShouldEqual, 3)
			}
		})
	})
}

func TestMeasureShot(t *testing.T) {
	Convey("Given a Bell state measured in shot mode", t, func() {
		state := bellState()
		before := state.Clone()
		rng := NewRNG(1234)
		summary := MeasureShot(state, []int{0, 1}, rng)

		Convey("Then the summary reports the pre-collapse distribution", func() {
			So(summary.Probabilities["00"], ShouldAlmostEqual, 0.5, tol)
			So(summary.Probabilities["11"], ShouldAlmostEqual, 0.5, tol)
		})

		Convey("Then the outcome is one of the populated labels", func() {
			So(summary.Outcome == "00" || summary.Outcome == "11", ShouldBeTrue)
		})

		Convey("Then the collapsed state is the sampled basis state", func() {
			So(summary.Collapsed, ShouldNotBeNil)
			So(summary.Collapsed.SquaredNorm(), ShouldAlmostEqual, 1.0, tol)
			terms := summary.Collapsed.Terms()
			So(terms, ShouldHaveLength, 1)
			So(terms[0].Label, ShouldEqual, summary.Outcome)
		})

		Convey("Then the input state is untouched", func() {
			for i := range before.Amplitudes {
				So(state.Amplitudes[i] == before.Amplitudes[i], ShouldBeTrue)
			}
		})

		Convey("Then the same seed replays the same outcome", func() {
			replay := MeasureShot(before, []int{0, 1}, NewRNG(1234))
			So(replay.Outcome, ShouldEqual, summary.Outcome)
		})
	})
}

func TestPartialCollapse(t *testing.T) {
	Convey("Given a 3-qubit state entangling qubit 2 with qubit 0", t, func() {
		state := NewStateVector(3)
		state = ApplyColumn(state, []Gate{
			{Kind: KindH, Targets: []int{0}},
			{Kind: KindH, Targets: []int{1}},
		})
		state = ApplyColumn(state, []Gate{{Kind: KindCX, Targets: []int{2}, Controls: []int{0}}})

		Convey("When only qubit 0 is measured", func() {
			summary := MeasureShot(state, []int{0}, NewRNG(77))
			collapsed := summary.Collapsed
			outcomeBit := int(summary.Outcome[len(summary.Outcome)-1] - '0')

			Convey("Then every surviving amplitude agrees at the measured position", func() {
				for i, amp := range collapsed.Amplitudes {
					if sqMag(amp) > tol {
						So(i&1, ShouldEqual, outcomeBit)
					}
				}
			})

			Convey("Then the vector is renormalized", func() {
				So(collapsed.SquaredNorm(), ShouldAlmostEqual, 1.0, tol)
			})

			Convey("Then the unmeasured qubit keeps its superposition", func() {
				// Qubit 1 stayed in (|0>+|1>)/sqrt2, so two components survive.
				So(collapsed.Terms(), ShouldHaveLength, 2)
				marginals := collapsed.QubitProbabilities()
				So(marginals[1].Prob0, ShouldAlmostEqual, 0.5, tol)
				So(marginals[1].Prob1, ShouldAlmostEqual, 0.5, tol)
				// Qubit 2 mirrors the measured qubit exactly.
				if outcomeBit == 0 {
					So(marginals[2].Prob0, ShouldAlmostEqual, 1.0, tol)
				} else {
					So(marginals[2].Prob1, ShouldAlmostEqual, 1.0, tol)
				}
			})
		})
	})
}

func TestCollapseZeroNormGuard(t *testing.T) {
	Convey("Given a collapse onto a subspace with no probability", t, func() {
		state := NewStateVector(2) // all weight on |00>
		state.collapse([]int{0}, 1)

		Convey("Then no amplitude becomes NaN", func() {
			for _, amp := range state.Amplitudes {
				So(math.IsNaN(real(amp)), ShouldBeFalse)
				So(math.IsNaN(imag(amp)), ShouldBeFalse)
			}
			So(state.SquaredNorm(), ShouldAlmostEqual, 0, tol)
		})
	})
}
