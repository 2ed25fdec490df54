package qvec

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Pre-compiled regexps for the QASM 2.0 subset.
var (
	singleGateRegex    = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\];?$`)
	singleParamRegex   = regexp.MustCompile(`^(\w+)\s*\(\s*(` + angleListPattern + `)\s*\)\s+q\[(\d+)\];?$`)
	twoQubitRegex      = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\]\s*,\s*q\[(\d+)\];?$`)
	twoQubitParamRegex = regexp.MustCompile(`^(\w+)\s*\(\s*(` + angleListPattern + `)\s*\)\s+q\[(\d+)\]\s*,\s*q\[(\d+)\];?$`)
	threeQubitRegex    = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\]\s*,\s*q\[(\d+)\]\s*,\s*q\[(\d+)\];?$`)
	multiQubitRegex    = regexp.MustCompile(`^(\w+)\s+(q\[\d+\](?:\s*,\s*q\[\d+\])+);?$`)
	operandRegex       = regexp.MustCompile(`q\[(\d+)\]`)
	measureRegex       = regexp.MustCompile(`^measure\s+q\[(\d+)\]\s*->\s*\w+\[\d+\];?$`)
	qregRegex          = regexp.MustCompile(`qreg\s+\w+\[(\d+)\]`)
)

// qasmOperands renders the qubit list in QASM order, controls first.
func qasmOperands(g Gate) string {
	qubits := append(append([]int{}, g.Controls...), g.Targets...)
	parts := make([]string, len(qubits))
	for i, q := range qubits {
		parts[i] = fmt.Sprintf("q[%d]", q)
	}
	return strings.Join(parts, ", ")
}

// writeGateQASM emits one gate statement in qelib vocabulary.
func writeGateQASM(sb *strings.Builder, g Gate) {
	switch g.Kind {
	case KindMeasure:
		for _, q := range g.Targets {
			fmt.Fprintf(sb, "measure q[%d] -> c[%d];\n", q, q)
		}
	case KindI:
		fmt.Fprintf(sb, "id q[%d];\n", g.Targets[0])
	case KindRX, KindRY, KindRZ:
		fmt.Fprintf(sb, "%s(%s) q[%d];\n", strings.ToLower(g.Kind.String()), formatAngle(g.Params[0]), g.Targets[0])
	case KindCP:
		fmt.Fprintf(sb, "cu1(%s) %s;\n", formatAngle(g.Params[0]), qasmOperands(g))
	case KindCRZ:
		fmt.Fprintf(sb, "crz(%s) %s;\n", formatAngle(g.Params[0]), qasmOperands(g))
	case KindCX:
		name := "cx"
		if len(g.Controls) == 2 {
			name = "ccx"
		}
		fmt.Fprintf(sb, "%s %s;\n", name, qasmOperands(g))
	default:
		fmt.Fprintf(sb, "%s %s;\n", strings.ToLower(g.Kind.String()), qasmOperands(g))
	}
}

// ToQASM renders the circuit as an OPENQASM 2.0 program. Gates come out
// column by column, so parsing the output reconstructs the same layout.
func (c *Circuit) ToQASM() string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", c.NumQubits)
	fmt.Fprintf(&sb, "creg c[%d];\n\n", c.NumQubits)

	for _, column := range c.Columns() {
		for _, g := range column {
			writeGateQASM(&sb, g)
		}
	}
	return sb.String()
}

// controlledGate shapes an operand list for a kind: the final operand is
// the target, or the final two for the swap kinds, with everything before
// them taken as controls.
func controlledGate(kind Kind, operands []int) Gate {
	n := len(operands)
	switch kind {
	case KindSWAP:
		return Gate{Kind: kind, Targets: operands}
	case KindCSWAP:
		return Gate{Kind: kind, Controls: operands[:n-2], Targets: operands[n-2:]}
	default:
		return Gate{Kind: kind, Controls: operands[:n-1], Targets: operands[n-1:]}
	}
}

// ParseQASM builds a circuit from an OPENQASM 2.0 program restricted to
// this package's gate vocabulary over a single quantum register. Errors
// carry the one-based line number of the offending statement.
func ParseQASM(text string) (*Circuit, error) {
	var c *Circuit
	floor := 0

	place := func(lineNo int, g Gate) error {
		if c == nil {
			return fmt.Errorf("line %d: gate before qreg declaration", lineNo)
		}
		col := c.autoColumn(g.Qubits())
		if col < floor {
			col = floor
		}
		g.Column = col
		if err := c.AddGate(g); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		return nil
	}

	for i, raw := range strings.Split(text, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(raw)

		if line == "" || strings.HasPrefix(line, "//") ||
			strings.HasPrefix(line, "OPENQASM") ||
			strings.HasPrefix(line, "include") ||
			strings.HasPrefix(line, "creg") {
			continue
		}

		if strings.HasPrefix(line, "qreg") {
			matches := qregRegex.FindStringSubmatch(line)
			if matches == nil {
				return nil, fmt.Errorf("line %d: malformed qreg", lineNo)
			}
			n, _ := strconv.Atoi(matches[1])
			var err error
			c, err = NewCircuit(n)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			continue
		}

		// Barriers carry no operation; they just close the current column.
		if strings.HasPrefix(line, "barrier") {
			if c != nil {
				floor = c.MaxColumn() + 1
			}
			continue
		}

		if matches := measureRegex.FindStringSubmatch(line); matches != nil {
			q, _ := strconv.Atoi(matches[1])
			if err := place(lineNo, Gate{Kind: KindMeasure, Targets: []int{q}}); err != nil {
				return nil, err
			}
			continue
		}

		if matches := twoQubitParamRegex.FindStringSubmatch(line); matches != nil {
			kind, ok := KindOf(matches[1])
			if !ok {
				return nil, fmt.Errorf("line %d: unknown gate %q", lineNo, matches[1])
			}
			params := parseAngleList(matches[2])
			if params == nil {
				return nil, fmt.Errorf("line %d: bad angle %q", lineNo, matches[2])
			}
			a, _ := strconv.Atoi(matches[3])
			b, _ := strconv.Atoi(matches[4])
			g := controlledGate(kind, []int{a, b})
			g.Params = params
			if err := place(lineNo, g); err != nil {
				return nil, err
			}
			continue
		}

		if matches := twoQubitRegex.FindStringSubmatch(line); matches != nil {
			kind, ok := KindOf(matches[1])
			if !ok {
				return nil, fmt.Errorf("line %d: unknown gate %q", lineNo, matches[1])
			}
			a, _ := strconv.Atoi(matches[2])
			b, _ := strconv.Atoi(matches[3])
			if err := place(lineNo, controlledGate(kind, []int{a, b})); err != nil {
				return nil, err
			}
			continue
		}

		if matches := threeQubitRegex.FindStringSubmatch(line); matches != nil {
			kind, ok := KindOf(matches[1])
			if !ok {
				return nil, fmt.Errorf("line %d: unknown gate %q", lineNo, matches[1])
			}
			a, _ := strconv.Atoi(matches[2])
			b, _ := strconv.Atoi(matches[3])
			d, _ := strconv.Atoi(matches[4])
			if err := place(lineNo, controlledGate(kind, []int{a, b, d})); err != nil {
				return nil, err
			}
			continue
		}

		if matches := singleParamRegex.FindStringSubmatch(line); matches != nil {
			kind, ok := KindOf(matches[1])
			if !ok {
				return nil, fmt.Errorf("line %d: unknown gate %q", lineNo, matches[1])
			}
			params := parseAngleList(matches[2])
			if params == nil {
				return nil, fmt.Errorf("line %d: bad angle %q", lineNo, matches[2])
			}
			q, _ := strconv.Atoi(matches[3])
			if err := place(lineNo, Gate{Kind: kind, Targets: []int{q}, Params: params}); err != nil {
				return nil, err
			}
			continue
		}

		if matches := singleGateRegex.FindStringSubmatch(line); matches != nil {
			kind, ok := KindOf(matches[1])
			if !ok {
				return nil, fmt.Errorf("line %d: unknown gate %q", lineNo, matches[1])
			}
			q, _ := strconv.Atoi(matches[2])
			if err := place(lineNo, Gate{Kind: kind, Targets: []int{q}}); err != nil {
				return nil, err
			}
			continue
		}

		// Wider operand lists, e.g. a CX with three controls.
		if matches := multiQubitRegex.FindStringSubmatch(line); matches != nil {
			kind, ok := KindOf(matches[1])
			if !ok {
				return nil, fmt.Errorf("line %d: unknown gate %q", lineNo, matches[1])
			}
			var operands []int
			for _, m := range operandRegex.FindAllStringSubmatch(matches[2], -1) {
				q, _ := strconv.Atoi(m[1])
				operands = append(operands, q)
			}
			if err := place(lineNo, controlledGate(kind, operands)); err != nil {
				return nil, err
			}
			continue
		}

		return nil, fmt.Errorf("line %d: unrecognized statement %q", lineNo, line)
	}

	if c == nil {
		return nil, fmt.Errorf("no qreg declaration")
	}
	return c, nil
}
