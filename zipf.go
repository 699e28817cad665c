package mapstress

import (
	"math"
	"math/rand/v2"
)

// Zipf describes a Zipf distribution over the ranks [0, N). Rank 0 is the
// most frequent. A Zipf is immutable and shared by all workers; each block
// of generated keys draws from it through its own Sampler.
//
// For 0 < Theta < 1 ranks are produced with the YCSB generator (Gray et
// al., "Quickly generating billion-record synthetic databases"). For
// Theta > 1 the rejection-inversion sampler of math/rand/v2 is used.
type Zipf struct {
	n     uint64
	theta float64

	// YCSB constants, Theta < 1 only.
	zetaN        float64
	alpha        float64
	eta          float64
	halfPowTheta float64
}

// NewZipf prepares a distribution over n ranks with skew theta.
// Computing the YCSB normalization constant is O(n).
//
// panic if n == 0, theta <= 0 or theta == 1.
func NewZipf(n uint64, theta float64) *Zipf {
	if n == 0 {
		panic("mapstress: zipf needs at least one rank")
	}
	if !(theta > 0) || theta == 1 || math.IsInf(theta, 0) {
		panic("mapstress: zipf skew must be in (0,1) or (1,+Inf)")
	}
	z := &Zipf{n: n, theta: theta}
	if theta < 1 {
		zeta2 := zeta(2, theta)
		z.zetaN = zeta(n, theta)
		z.alpha = 1 / (1 - theta)
		z.eta = (1 - math.Pow(2/float64(n), 1-theta)) / (1 - zeta2/z.zetaN)
		z.halfPowTheta = 1 + math.Pow(0.5, theta)
	}
	return z
}

// N returns the number of ranks.
func (z *Zipf) N() uint64 {
	return z.n
}

// Theta returns the skew.
func (z *Zipf) Theta() float64 {
	return z.theta
}

// Sampler returns a rank generator driven by r. The sampler is not safe
// for concurrent use; r determines the whole sequence.
func (z *Zipf) Sampler(r *rand.Rand) func() uint64 {
	if z.theta > 1 {
		zz := rand.NewZipf(r, z.theta, 1, z.n-1)
		return zz.Uint64
	}
	return func() uint64 {
		return z.rank(r.Float64())
	}
}

func (z *Zipf) rank(u float64) uint64 {
	uz := u * z.zetaN
	switch {
	case uz < 1:
		return 0
	case uz < z.halfPowTheta:
		return min(1, z.n-1)
	}
	r := uint64(float64(z.n) * math.Pow(z.eta*u-z.eta+1, z.alpha))
	return min(r, z.n-1)
}

// zeta calculates sum(1/i^theta) for i = 1..n.
func zeta(n uint64, theta float64) float64 {
	sum := 0.0
	for i := uint64(1); i <= n; i++ {
		sum += 1 / math.Pow(float64(i), theta)
	}
	return sum
}
