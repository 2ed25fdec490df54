package qvec

import "testing"

func TestRNGReproducibility(t *testing.T) {
	seeds := []uint32{0, 1, 42, 0xdeadbeef}
	for _, seed := range seeds {
		a := NewRNG(seed)
		b := NewRNG(seed)
		for i := 0; i < 1000; i++ {
			x, y := a.Float64(), b.Float64()
			if x != y {
				t.Fatalf("seed %d: sequences diverge at call %d: %v != %v", seed, i, x, y)
			}
		}
	}
}

func TestRNGRange(t *testing.T) {
	r := NewRNG(7)
	for i := 0; i < 1000; i++ {
		v := r.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("draw %d out of [0,1): %v", i, v)
		}
	}
}

func TestRNGSeedsIndependent(t *testing.T) {
	a := NewRNG(1)
	b := NewRNG(2)
	same := 0
	for i := 0; i < 100; i++ {
		if a.Float64() == b.Float64() {
			same++
		}
	}
	if same == 100 {
		t.Fatal("different seeds yielded identical 100-draw sequences")
	}
}

func TestSplitmix64Stable(t *testing.T) {
	if splitmix64(0) != splitmix64(0) {
		t.Fatal("splitmix64 is not a pure function")
	}
	if splitmix64(1) == splitmix64(2) {
		t.Fatal("splitmix64 collides on adjacent inputs")
	}
}
