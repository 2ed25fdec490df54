package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"qvec"
)

func main() {
	qasmPath := flag.String("qasm", "", "OpenQASM 2.0 file to load")
	demo := flag.String("demo", "bell", "demo circuit when no -qasm is given (bell or ghz)")
	qubits := flag.Int("qubits", 3, "qubit count for the ghz demo")
	seed := flag.Uint("seed", 0, "simulation seed, 0 draws one from the clock")
	shots := flag.Int("shots", 1024, "shot count for the histogram pane")
	flag.Parse()

	circuit, err := loadCircuit(*qasmPath, *demo, *qubits)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	runSeed := uint32(*seed)
	if runSeed == 0 {
		runSeed = uint32(time.Now().UnixNano())
	}

	m, err := newModel(circuit, runSeed, *shots)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadCircuit reads a QASM file or builds one of the demo circuits.
func loadCircuit(qasmPath, demo string, qubits int) (*qvec.Circuit, error) {
	if qasmPath != "" {
		data, err := os.ReadFile(qasmPath)
		if err != nil {
			return nil, err
		}
		return qvec.ParseQASM(string(data))
	}
	switch demo {
	case "bell":
		return qvec.Bell(), nil
	case "ghz":
		return qvec.GHZ(qubits)
	}
	return nil, fmt.Errorf("unknown demo %q (want bell or ghz)", demo)
}
