package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/theapemachine/errnie"

	"qvec"
)

// runRecord is the JSON shape emitted by -json.
type runRecord struct {
	RunID  string         `json:"run_id"`
	Seed   uint32         `json:"seed"`
	Shots  int            `json:"shots"`
	Counts map[string]int `json:"counts"`
}

func main() {
	qasmPath := flag.String("qasm", "", "OpenQASM 2.0 file to load")
	demo := flag.String("demo", "bell", "demo circuit when no -qasm is given (bell or ghz)")
	qubits := flag.Int("qubits", 3, "qubit count for the ghz demo")
	shots := flag.Int("shots", 1024, "number of shots to sample")
	seed := flag.Uint("seed", 0, "sampling seed, 0 draws one from the clock")
	plotPath := flag.String("plot", "", "write a histogram bar chart PNG to this path")
	jsonOut := flag.Bool("json", false, "emit a JSON record instead of the table")
	flag.Parse()

	if err := run(*qasmPath, *demo, *qubits, *shots, *seed, *plotPath, *jsonOut); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(qasmPath, demo string, qubits, shots int, seed uint, plotPath string, jsonOut bool) error {
	circuit, err := loadCircuit(qasmPath, demo, qubits)
	if err != nil {
		return err
	}

	runSeed := uint32(seed)
	if runSeed == 0 {
		runSeed = uint32(time.Now().UnixNano())
	}

	steps, err := qvec.Simulate(circuit, nil, qvec.Options{Mode: qvec.ModeProbability, Seed: runSeed})
	if err != nil {
		return err
	}
	counts := qvec.RunShots(qvec.FinalState(steps), shots, runSeed)

	if jsonOut {
		record := runRecord{
			RunID:  uuid.NewString(),
			Seed:   runSeed,
			Shots:  shots,
			Counts: counts,
		}
		out, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	} else {
		printCounts(os.Stdout, counts, shots)
	}

	if plotPath != "" {
		if err := writeHistogram(plotPath, counts, shots); err != nil {
			return err
		}
		errnie.Info("wrote %s", plotPath)
	}
	return nil
}

// printCounts writes an aligned count table, most frequent outcome first.
func printCounts(w io.Writer, counts map[string]int, shots int) {
	labels := slices.Sorted(maps.Keys(counts))
	slices.SortStableFunc(labels, func(a, b string) int {
		return counts[b] - counts[a]
	})
	for _, label := range labels {
		n := counts[label]
		fmt.Fprintf(w, "%s  %6d  %6.2f%%\n", label, n, 100*float64(n)/float64(shots))
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
