package qvec

import (
	"math"
	"testing"

	"github.com/davecgh/go-spew/spew"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSimulateProbabilityMode(t *testing.T) {
	Convey("Given the Bell circuit", t, func() {
		c := Bell()
		steps, err := Simulate(c, nil, Options{Mode: ModeProbability, Seed: 7})
		So(err, ShouldBeNil)
		So(len(steps), ShouldEqual, 4)

		Convey("The trace starts at |00> in column -1", func() {
			So(steps[0].Column, ShouldEqual, -1)
			So(steps[0].State.Amplitudes[0] == Complex(1), ShouldBeTrue)
		})

		Convey("Superposition appears after the H column", func() {
			amp := 1 / math.Sqrt2
			So(real(steps[1].State.Amplitudes[0]), ShouldAlmostEqual, amp, tol)
			So(real(steps[1].State.Amplitudes[1]), ShouldAlmostEqual, amp, tol)
		})

		Convey("The measurement column reports without collapsing", func() {
			last := steps[3]
			So(last.Measurement, ShouldNotBeNil)
			So(last.Measurement.Probabilities["00"], ShouldAlmostEqual, 0.5, tol)
			So(last.Measurement.Probabilities["11"], ShouldAlmostEqual, 0.5, tol)
			So(last.Measurement.Probabilities["01"], ShouldAlmostEqual, 0.0, tol)
			So(last.Measurement.Measured, ShouldResemble, []int{0, 1})
			So(last.Measurement.Outcome, ShouldEqual, "")
			So(last.Measurement.Collapsed, ShouldBeNil)

			// State is untouched; the Bell amplitudes survive.
			So(real(last.State.Amplitudes[0]), ShouldAlmostEqual, 1/math.Sqrt2, tol)
			So(real(last.State.Amplitudes[3]), ShouldAlmostEqual, 1/math.Sqrt2, tol)
		})

		Convey("Probability mode ignores the seed", func() {
			again, err := Simulate(c, nil, Options{Mode: ModeProbability, Seed: 99})
			So(err, ShouldBeNil)
			for i := range steps {
				for j := range steps[i].State.Amplitudes {
					So(steps[i].State.Amplitudes[j] == again[i].State.Amplitudes[j], ShouldBeTrue)
				}
			}
		})
	})
}

func TestSimulateShotMode(t *testing.T) {
	Convey("Given the Bell circuit in shot mode", t, func() {
		c := Bell()
		steps, err := Simulate(c, nil, Options{Mode: ModeShot, Seed: 1234})
		So(err, ShouldBeNil)

		last := steps[len(steps)-1]
		So(last.Measurement, ShouldNotBeNil)

		Convey("Only correlated outcomes can be drawn", func() {
			outcome := last.Measurement.Outcome
			if outcome != "00" && outcome != "11" {
				spew.Dump(last.Measurement)
			}
			So(outcome == "00" || outcome == "11", ShouldBeTrue)
		})

		Convey("The trace state collapses onto the outcome", func() {
			terms := last.State.Terms()
			So(len(terms), ShouldEqual, 1)
			So(terms[0].Label, ShouldEqual, last.Measurement.Outcome)
			So(terms[0].Prob, ShouldAlmostEqual, 1.0, tol)
		})

		Convey("The summary still carries the pre-collapse distribution", func() {
			So(last.Measurement.Probabilities["00"], ShouldAlmostEqual, 0.5, tol)
			So(last.Measurement.Probabilities["11"], ShouldAlmostEqual, 0.5, tol)
		})

		Convey("The same seed replays the same outcome", func() {
			again, err := Simulate(c, nil, Options{Mode: ModeShot, Seed: 1234})
			So(err, ShouldBeNil)
			So(again[len(again)-1].Measurement.Outcome, ShouldEqual, last.Measurement.Outcome)
		})
	})
}

func TestSimulatePartialMeasurement(t *testing.T) {
	Convey("Given an entangled pair measured on one qubit mid-circuit", t, func() {
		c, _ := NewCircuit(2)
		So(c.Add(KindH, 0), ShouldBeNil)
		So(c.AddControlled(KindCX, 1, 0), ShouldBeNil)
		So(c.AddMeasure(0), ShouldBeNil)
		So(c.Add(KindX, 0), ShouldBeNil)

		steps, err := Simulate(c, nil, Options{Mode: ModeShot, Seed: 31})
		So(err, ShouldBeNil)
		So(len(steps), ShouldEqual, 5)

		measureStep := steps[3]
		So(measureStep.Measurement, ShouldNotBeNil)
		So(measureStep.Measurement.Measured, ShouldResemble, []int{0})

		Convey("Collapse of qubit 0 pins its entangled partner", func() {
			outcomeBit := 0
			if measureStep.Measurement.Outcome == "11" {
				outcomeBit = 1
			}
			p0 := measureStep.State.ProbabilityOfOne(0)
			p1 := measureStep.State.ProbabilityOfOne(1)
			So(p0, ShouldAlmostEqual, float64(outcomeBit), tol)
			So(p1, ShouldAlmostEqual, float64(outcomeBit), tol)
		})

		Convey("Later columns keep evolving the collapsed state", func() {
			p0Before := measureStep.State.ProbabilityOfOne(0)
			p0After := steps[4].State.ProbabilityOfOne(0)
			So(p0After, ShouldAlmostEqual, 1-p0Before, tol)
		})
	})
}

func TestSimulateInputs(t *testing.T) {
	Convey("Simulation validates its inputs", t, func() {
		Convey("Overlapping columns are rejected", func() {
			bad := &Circuit{
				NumQubits: 2,
				Gates: []Gate{
					{Kind: KindH, Targets: []int{0}, Column: 0},
					{Kind: KindX, Targets: []int{0}, Column: 0},
				},
			}
			_, err := Simulate(bad, nil, Options{})
			So(err, ShouldNotBeNil)
		})

		Convey("A mismatched initial state is rejected", func() {
			c := Bell()
			_, err := Simulate(c, NewStateVector(3), Options{})
			So(err, ShouldNotBeNil)
		})

		Convey("An unnormalized initial state is rejected", func() {
			c, _ := NewCircuit(1)
			So(c.Add(KindH, 0), ShouldBeNil)
			bad, err := FromAmplitudes([]Complex{0.5, 0.5}, 1)
			So(err, ShouldBeNil)
			_, err = Simulate(c, bad, Options{})
			So(err, ShouldNotBeNil)
		})

		Convey("A custom initial state is respected and left untouched", func() {
			c, _ := NewCircuit(1)
			So(c.Add(KindH, 0), ShouldBeNil)

			initial, err := FromAmplitudes([]Complex{0, 1}, 1)
			So(err, ShouldBeNil)

			steps, err := Simulate(c, initial, Options{})
			So(err, ShouldBeNil)

			final := FinalState(steps)
			So(real(final.Amplitudes[0]), ShouldAlmostEqual, 1/math.Sqrt2, tol)
			So(real(final.Amplitudes[1]), ShouldAlmostEqual, -1/math.Sqrt2, tol)

			// The caller's vector still holds |1>.
			So(initial.Amplitudes[1] == Complex(1), ShouldBeTrue)
		})

		Convey("An empty trace has no final state", func() {
			So(FinalState(nil), ShouldBeNil)
		})
	})
}
