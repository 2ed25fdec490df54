package qvec

// RunShots samples the final state's basis distribution shotCount times and
// returns occurrence counts keyed by basis label. Sampling uses its own
// stream built from the explicit seed, independent of any per-column
// measurement stream, so a histogram is reproducible for a fixed seed. The
// state itself is never modified and no per-column collapse is re-run.
func RunShots(finalState *StateVector, shotCount int, seed uint32) map[string]int {
	counts := make(map[string]int)
	rng := NewRNG(seed)
	for shot := 0; shot < shotCount; shot++ {
		i := SampleIndex(finalState, rng)
		counts[finalState.Label(i)]++
	}
	return counts
}
