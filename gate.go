package qvec

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"
)

// Kind tags one gate in the closed vocabulary. The engine dispatches on the
// tag, never on free-form strings; kinds outside the built-in set can be
// added at runtime through RegisterGate.
type Kind uint8

const (
	KindI Kind = iota
	KindX
	KindY
	KindZ
	KindH
	KindS
	KindSdg
	KindT
	KindTdg
	KindRX
	KindRY
	KindRZ
	KindCX
	KindCZ
	KindSWAP
	KindCP
	KindCRZ
	KindCSWAP
	KindMeasure

	// KindExtensionBase is the first tag value free for registered gates.
	KindExtensionBase Kind = 64
)

var kindNames = map[Kind]string{
	KindI:       "I",
	KindX:       "X",
	KindY:       "Y",
	KindZ:       "Z",
	KindH:       "H",
	KindS:       "S",
	KindSdg:     "SDG",
	KindT:       "T",
	KindTdg:     "TDG",
	KindRX:      "RX",
	KindRY:      "RY",
	KindRZ:      "RZ",
	KindCX:      "CX",
	KindCZ:      "CZ",
	KindSWAP:    "SWAP",
	KindCP:      "CP",
	KindCRZ:     "CRZ",
	KindCSWAP:   "CSWAP",
	KindMeasure: "MEASURE",
}

// String returns the canonical upper-case gate name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	if ext, ok := gateExtensions[k]; ok {
		return ext.name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// KindOf resolves a gate name (canonical, QASM lower-case, or a common
// alias) to its tag.
func KindOf(name string) (Kind, bool) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	switch upper {
	case "ID":
		return KindI, true
	case "CNOT", "CCX", "TOFFOLI":
		// Control counts live on the gate operands, not the name.
		return KindCX, true
	case "CCZ":
		return KindCZ, true
	case "CU1":
		return KindCP, true
	case "FREDKIN":
		return KindCSWAP, true
	case "M":
		return KindMeasure, true
	}
	for k, n := range kindNames {
		if n == upper {
			return k, true
		}
	}
	for k, ext := range gateExtensions {
		if ext.name == upper {
			return k, true
		}
	}
	return 0, false
}

// IsUnitary reports whether the kind changes the state vector; measurement
// is summarized by the driver instead.
func (k Kind) IsUnitary() bool {
	return k != KindMeasure
}

// isControlled reports whether the kind conditions on control qubits.
func (k Kind) isControlled() bool {
	switch k {
	case KindCX, KindCZ, KindCP, KindCRZ, KindCSWAP:
		return true
	}
	return false
}

// Gate is an immutable descriptor of one operation in a circuit column.
// The circuit layer creates and validates descriptors; the engine consumes
// them read-only.
type Gate struct {
	Kind     Kind
	Targets  []int
	Controls []int
	Params   []float64
	Column   int
}

// Qubits returns every qubit the gate touches, targets first.
func (g Gate) Qubits() []int {
	qubits := make([]int, 0, len(g.Targets)+len(g.Controls))
	qubits = append(qubits, g.Targets...)
	qubits = append(qubits, g.Controls...)
	return qubits
}

// clone returns a copy whose slices are independent of the original.
func (g Gate) clone() Gate {
	out := g
	out.Targets = append([]int{}, g.Targets...)
	out.Controls = append([]int{}, g.Controls...)
	out.Params = append([]float64{}, g.Params...)
	return out
}

// arity describes the operand shape of a built-in kind. Controlled kinds
// accept any control count at or above the minimum.
type arity struct {
	targets     int
	minControls int
	params      int
}

var kindArity = map[Kind]arity{
	KindI:       {targets: 1},
	KindX:       {targets: 1},
	KindY:       {targets: 1},
	KindZ:       {targets: 1},
	KindH:       {targets: 1},
	KindS:       {targets: 1},
	KindSdg:     {targets: 1},
	KindT:       {targets: 1},
	KindTdg:     {targets: 1},
	KindRX:      {targets: 1, params: 1},
	KindRY:      {targets: 1, params: 1},
	KindRZ:      {targets: 1, params: 1},
	KindCX:      {targets: 1, minControls: 1},
	KindCZ:      {targets: 1, minControls: 1},
	KindSWAP:    {targets: 2},
	KindCP:      {targets: 1, minControls: 1, params: 1},
	KindCRZ:     {targets: 1, minControls: 1, params: 1},
	KindCSWAP:   {targets: 2, minControls: 1},
	KindMeasure: {targets: 1},
}

// validate checks operand shape, qubit ranges and parameter presence.
// Measurement accepts any non-empty target set.
func (g Gate) validate(numQubits int) error {
	shape, builtin := kindArity[g.Kind]
	if !builtin {
		if _, ok := gateExtensions[g.Kind]; !ok {
			return fmt.Errorf("unknown gate kind %d", uint8(g.Kind))
		}
		// Registered gates carry their own shape expectations; range-check only.
		return g.checkRanges(numQubits)
	}
	if g.Kind == KindMeasure {
		if len(g.Targets) == 0 {
			return fmt.Errorf("%s: no qubits to measure", g.Kind)
		}
	} else if len(g.Targets) != shape.targets {
		return fmt.Errorf("%s: want %d target(s), got %d", g.Kind, shape.targets, len(g.Targets))
	}
	if len(g.Controls) < shape.minControls {
		return fmt.Errorf("%s: want at least %d control(s), got %d", g.Kind, shape.minControls, len(g.Controls))
	}
	if shape.minControls == 0 && len(g.Controls) > 0 {
		return fmt.Errorf("%s: gate takes no controls", g.Kind)
	}
	if len(g.Params) < shape.params {
		return fmt.Errorf("%s: missing parameter", g.Kind)
	}
	for _, p := range g.Params {
		if math.IsNaN(p) {
			return fmt.Errorf("%s: NaN parameter", g.Kind)
		}
	}
	return g.checkRanges(numQubits)
}

func (g Gate) checkRanges(numQubits int) error {
	seen := 0
	for _, q := range g.Qubits() {
		if q < 0 || q >= numQubits {
			return fmt.Errorf("%s: qubit %d outside [0,%d)", g.Kind, q, numQubits)
		}
		bit := 1 << q
		if seen&bit != 0 {
			return fmt.Errorf("%s: qubit %d listed twice", g.Kind, q)
		}
		seen |= bit
	}
	return nil
}

// Matrix2 is a dense 2x2 single-qubit operator, row major.
type Matrix2 [2][2]Complex

// Dagger returns the conjugate transpose.
func (m Matrix2) Dagger() Matrix2 {
	return Matrix2{
		{cmplx.Conj(m[0][0]), cmplx.Conj(m[1][0])},
		{cmplx.Conj(m[0][1]), cmplx.Conj(m[1][1])},
	}
}

var (
	matI   = Matrix2{{1, 0}, {0, 1}}
	matX   = Matrix2{{0, 1}, {1, 0}}
	matY   = Matrix2{{0, -1i}, {1i, 0}}
	matZ   = Matrix2{{1, 0}, {0, -1}}
	matH   = Matrix2{{hFactor, hFactor}, {hFactor, -hFactor}}
	matS   = Matrix2{{1, 0}, {0, 1i}}
	matSdg = Matrix2{{1, 0}, {0, -1i}}
	matT   = Matrix2{{1, 0}, {0, complex(math.Sqrt2/2, math.Sqrt2/2)}}
	matTdg = Matrix2{{1, 0}, {0, complex(math.Sqrt2/2, -math.Sqrt2/2)}}
)

const hFactor = Complex(complex(1.0/math.Sqrt2, 0))

// fixedMatrix returns the constant 2x2 matrix of an unparameterized
// single-qubit kind.
func fixedMatrix(k Kind) (Matrix2, bool) {
	switch k {
	case KindI:
		return matI, true
	case KindX:
		return matX, true
	case KindY:
		return matY, true
	case KindZ:
		return matZ, true
	case KindH:
		return matH, true
	case KindS:
		return matS, true
	case KindSdg:
		return matSdg, true
	case KindT:
		return matT, true
	case KindTdg:
		return matTdg, true
	}
	return Matrix2{}, false
}

// RxMatrix returns the rotation about X by theta.
func RxMatrix(theta float64) Matrix2 {
	c := complex(math.Cos(theta/2), 0)
	js := complex(0, -math.Sin(theta/2))
	return Matrix2{{c, js}, {js, c}}
}

// RyMatrix returns the rotation about Y by theta.
func RyMatrix(theta float64) Matrix2 {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return Matrix2{{c, -s}, {s, c}}
}

// RzMatrix returns the rotation about Z by theta.
func RzMatrix(theta float64) Matrix2 {
	return Matrix2{
		{cmplx.Exp(complex(0, -theta/2)), 0},
		{0, cmplx.Exp(complex(0, theta/2))},
	}
}

// PhaseMatrix returns the phase gate diag(1, e^{i phi}); the single-qubit
// factor of CP, and the arbitrary-angle generalization of S and T.
func PhaseMatrix(phi float64) Matrix2 {
	return Matrix2{{1, 0}, {0, cmplx.Exp(complex(0, phi))}}
}

// rotationMatrix builds the 2x2 matrix of a parameterized kind.
func rotationMatrix(k Kind, theta float64) (Matrix2, bool) {
	switch k {
	case KindRX:
		return RxMatrix(theta), true
	case KindRY:
		return RyMatrix(theta), true
	case KindRZ:
		return RzMatrix(theta), true
	}
	return Matrix2{}, false
}

// gateExtension is an applier registered for a kind outside the built-in
// vocabulary.
type gateExtension struct {
	name  string
	apply func(*StateVector, Gate)
}

var gateExtensions = map[Kind]gateExtension{}

// RegisterGate installs an applier for a new gate kind. The kind must be at
// or above KindExtensionBase and not already taken; apply receives the
// engine's working copy and may mutate it freely. Registration is meant for
// package setup, not for concurrent use.
func RegisterGate(k Kind, name string, apply func(*StateVector, Gate)) {
	if k < KindExtensionBase {
		panic(fmt.Sprintf("qvec: kind %d collides with the built-in vocabulary", uint8(k)))
	}
	if apply == nil {
		panic("qvec: nil applier")
	}
	if _, taken := gateExtensions[k]; taken {
		panic(fmt.Sprintf("qvec: kind %d already registered", uint8(k)))
	}
	gateExtensions[k] = gateExtension{name: strings.ToUpper(name), apply: apply}
}
