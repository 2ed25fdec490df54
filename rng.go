package qvec

import "math/rand/v2"

// RNG is a seedable, reproducible source of uniform doubles. Two generators
// built from the same seed produce identical sequences, so any sampled
// measurement run can be replayed exactly. Every sampling operation in this
// package takes an explicit *RNG; nothing reads from a shared global source.
type RNG struct {
	src *rand.PCG
}

// NewRNG builds a generator from a 32-bit seed. The seed is expanded into
// the two internal state words through an avalanche mix, so nearby seeds
// still yield unrelated streams.
func NewRNG(seed uint32) *RNG {
	x := uint64(seed) ^ 0x9e3779b97f4a7c15
	hi := splitmix64(x)
	lo := splitmix64(x ^ 0xda942042e4dd58b5)
	return &RNG{src: rand.NewPCG(hi, lo)}
}

// Uint64 returns the next raw 64-bit draw.
func (r *RNG) Uint64() uint64 {
	return r.src.Uint64()
}

// Float64 returns a uniform double in [0,1) with 53 bits of precision.
func (r *RNG) Float64() float64 {
	return float64(r.src.Uint64()<<11>>11) / (1 << 53)
}

// splitmix64 mixes x into a well-distributed 64-bit word.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
