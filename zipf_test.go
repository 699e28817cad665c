package mapstress

import (
	"math/rand/v2"
	"testing"
)

func TestZipf_RanksInRangeAndSkewed(t *testing.T) {
	for _, theta := range []float64{0.5, 0.99, 1.2} {
		const n = 1000
		z := NewZipf(n, theta)
		next := z.Sampler(rand.New(rand.NewPCG(1, 2)))
		counts := make([]int, n)
		for range 100_000 {
			r := next()
			if r >= n {
				t.Fatalf("theta %v: rank %d out of range", theta, r)
			}
			counts[r]++
		}
		if counts[0] <= counts[n/2] || counts[0] <= counts[n-1] {
			t.Errorf("theta %v: rank 0 drawn %d times, middle %d, last %d",
				theta, counts[0], counts[n/2], counts[n-1])
		}
	}
}

func TestZipf_SingleRank(t *testing.T) {
	z := NewZipf(1, 0.9)
	next := z.Sampler(rand.New(rand.NewPCG(0, 0)))
	for range 100 {
		if r := next(); r != 0 {
			t.Fatalf("rank %d from a single-rank distribution", r)
		}
	}
}

func TestZipf_Panics(t *testing.T) {
	for _, tc := range []struct {
		n     uint64
		theta float64
	}{{0, 0.5}, {10, 0}, {10, 1}, {10, -1}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("NewZipf(%d, %v) did not panic", tc.n, tc.theta)
				}
			}()
			NewZipf(tc.n, tc.theta)
		}()
	}
}
