// Package allocator implements the MAP multinomial sample generator:
// given a total frequency N and a (possibly partial) probability vector,
// it emits the integer-valued frequency allocation maximizing the
// multinomial likelihood, plus the equidistributed and hierarchical
// specializations and the frequency-vector information functional.
package allocator

import (
	"errors"
	"math"
	"math/rand"

	"github.com/kdinterpret/kdinterpret/internal/numeric"
	"github.com/kdinterpret/kdinterpret/internal/randperturb"
)

// ErrInvalidProbVector is returned when p fails the partial-probability-
// vector contract (caller contract violation).
var ErrInvalidProbVector = errors.New("allocator: invalid partial probability vector")

// ErrNegativeFrequency is returned when a caller-supplied total is negative.
var ErrNegativeFrequency = errors.New("allocator: total frequency must be >= 0")

// ComputeBestSample computes the MAP integer allocation for N individuals
// distributed over p: a best-ceiling initial allocation repaired to sum
// exactly N, then post-optimized. The perturbation counter is reseeded to
// 0 at entry.
func ComputeBestSample(n float64, p []float64) ([]float64, error) {
	if !CheckPartialProbVector(p) {
		return nil, ErrInvalidProbVector
	}
	if n < 0 {
		return nil, ErrNegativeFrequency
	}

	pert := randperturb.New()
	f := ComputeBestCeilSample(n, p, pert)
	PostOptimizeSample(n, p, f, pert)
	return f, nil
}

// ComputeBestEquidistributedSample computes the equal-mean special case:
// f_i = floor((N+0.5)/k), with the remainder r = round(N) - k*floor(...)
// distributed one-per-index to the first r slots before a deterministic
// shuffle (seed reset to 0, per the same top-level-reset rule as every
// other allocator entry point).
func ComputeBestEquidistributedSample(n float64, k int) ([]float64, error) {
	if n < 0 {
		return nil, ErrNegativeFrequency
	}
	if k < 0 {
		return nil, errors.New("allocator: value count must be >= 0")
	}

	f := make([]float64, k)
	if k == 0 {
		return f, nil
	}

	if IsVeryLargeFrequency(n) {
		base := math.Floor(0.5 + n/float64(k))
		for i := range f {
			f[i] = base
		}
		return f, nil
	}

	base := math.Floor((0.5 + n) / float64(k))
	rest := int(math.Floor(0.5 + n - base*float64(k)))
	if rest < 0 {
		rest = 0
	}
	if rest >= k {
		rest = k - 1
	}
	for i := range f {
		f[i] = base
	}
	for i := 0; i < rest; i++ {
		f[i]++
	}

	shuffle(f)
	return f, nil
}

// shuffle performs a deterministic Fisher-Yates shuffle seeded to the same
// fixed point every top-level allocator entry resets to, so that which
// indices receive the remainder units is reproducible run to run.
func shuffle(f []float64) {
	r := rand.New(rand.NewSource(0))
	for i := len(f) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		f[i], f[j] = f[j], f[i]
	}
}

// ComputeBestHierarchicalSamples computes a two-level equidistributed
// allocation: a secondary level reached only through a reserved share of
// the primary level. Degenerates to a single equidistributed call when
// either k is 0.
func ComputeBestHierarchicalSamples(n float64, k, kPrime int) ([]float64, []float64, error) {
	if n < 0 {
		return nil, nil, ErrNegativeFrequency
	}
	if k < 0 || kPrime < 0 {
		return nil, nil, errors.New("allocator: value counts must be >= 0")
	}
	if k+kPrime == 0 {
		return nil, nil, errors.New("allocator: at least one level must be non-empty")
	}

	if kPrime == 0 {
		f, err := ComputeBestEquidistributedSample(n, k)
		return f, make([]float64, 0), err
	}
	if k == 0 {
		fSub, err := ComputeBestEquidistributedSample(n, kPrime)
		return make([]float64, 0), fSub, err
	}

	if n <= float64(k) {
		f, err := ComputeBestEquidistributedSample(n, k)
		return f, make([]float64, kPrime), err
	}

	subTotal := math.Floor((0.5 + n) / float64(k+1))
	f, err := ComputeBestEquidistributedSample(n-subTotal, k)
	if err != nil {
		return nil, nil, err
	}
	fSub, err := ComputeBestEquidistributedSample(subTotal, kPrime)
	if err != nil {
		return nil, nil, err
	}
	return f, fSub, nil
}

// ComputeFrequencyVectorInfo returns -ln P(f | multinomial(N,p)): exact
// via log-factorials when N <= MaxInt32, a Stirling-corrected
// approximation when N exceeds that but is not "very large", and +Inf
// beyond the point where double precision carries no useful information.
func ComputeFrequencyVectorInfo(p []float64, f []float64) float64 {
	if !CheckPartialProbVector(p) {
		panic("allocator: ComputeFrequencyVectorInfo requires a valid partial probability vector")
	}
	if len(f) != len(p) {
		panic("allocator: ComputeFrequencyVectorInfo requires len(f) == len(p)")
	}

	total := 0.0
	for _, v := range f {
		if v < 0 {
			panic("allocator: ComputeFrequencyVectorInfo requires f_i >= 0")
		}
		total += v
	}

	const maxExactTotal = float64(math.MaxInt32)
	info := 0.0
	switch {
	case total <= maxExactTotal:
		for i, fi := range f {
			prob := p[i]
			if prob > 0 && fi > 0 {
				info -= fi * math.Log(prob)
			}
			info += numeric.LnFactorial(int(math.Floor(0.5 + fi)))
		}
		info -= numeric.LnFactorial(int(math.Floor(0.5 + total)))
	case !IsVeryLargeFrequency(total):
		// The correction term below reproduces log(1 + (1.0/12*dFrequency))
		// verbatim, including its left-to-right operator precedence: this
		// is 1 + fi/12, not the textbook Stirling tail 1 + 1/(12*fi).
		// Kept as observed.
		for i, fi := range f {
			prob := p[i]
			if prob > 0 && fi > 0 {
				info -= fi * math.Log(prob)
			}
			if fi > 0 {
				info += fi*math.Log(fi) - fi + 0.5*math.Log(fi) +
					0.5*math.Log(2*math.Pi) + math.Log(1+fi/12)
			}
		}
		info -= total*math.Log(total) - total + 0.5*math.Log(total) +
			0.5*math.Log(2*math.Pi) + math.Log(1+total/12)
	default:
		info = math.Inf(1)
	}
	return info
}
