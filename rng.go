package metawards

import (
	"math/rand"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

// DeveloperParitySeed is the literal seed forced whenever a caller passes
// seed 0 to SeedMaster, matching the original source's "seed == 0 forces
// 15324" developer parity mode.
const DeveloperParitySeed int64 = 15324

// RNGStream is one thread's exclusively-owned random number source.
//
// The teacher repo samples from github.com/kentwait/randomvariate, but
// that package draws from the package-level math/rand global (the
// teacher's own tests reach for rand.Seed(0) before every call, never a
// per-instance generator). That global-state design cannot give each
// simulation thread its own independent, reproducible stream, which spec
// section 4.3's concurrency contract requires. gonum's stat/distuv
// (already present in the retrieved pack via emer-leabra's dependency on
// gonum.org/v1/gonum) exposes the same binomial/poisson sampling with an
// injectable rand.Source per distribution value, so each RNGStream gets
// its own *rand.Rand and never touches shared state.
type RNGStream struct {
	src *rand.Rand
}

// NewRNGStream builds a stream seeded deterministically from seed.
func NewRNGStream(seed int64) *RNGStream {
	return &RNGStream{src: rand.New(rand.NewSource(seed))}
}

// SeedMaster builds the master PRNG for a run. seed == 0 forces
// DeveloperParitySeed; seed < 0 draws a non-reproducible OS-derived
// seed; otherwise the given seed is used directly.
func SeedMaster(seed int64) *RNGStream {
	switch {
	case seed == 0:
		return NewRNGStream(DeveloperParitySeed)
	case seed < 0:
		return NewRNGStream(time.Now().UnixNano())
	default:
		return NewRNGStream(seed)
	}
}

// CreateThreadGenerators draws nthreads distinct sub-seeds deterministically
// from master and returns nthreads independent streams, one per thread, per
// spec section 4.3. Each call against the same master in the same state
// produces the same sequence of sub-seeds, which is what makes the whole
// simulation trace reproducible for a given (seed, nthreads).
func CreateThreadGenerators(master *RNGStream, nthreads int) []*RNGStream {
	streams := make([]*RNGStream, nthreads)
	for t := 0; t < nthreads; t++ {
		subseed := master.src.Int63()
		streams[t] = NewRNGStream(subseed)
	}
	return streams
}

// RanBinomial draws k ~ Binomial(n, p) using this stream's exclusive
// source.
func (s *RNGStream) RanBinomial(n int, p float64) int {
	if n <= 0 || p <= 0 {
		return 0
	}
	if p >= 1 {
		return n
	}
	b := distuv.Binomial{N: float64(n), P: p, Src: s.src}
	return int(b.Rand())
}

// RanUniform draws a float64 in [0, 1).
func (s *RNGStream) RanUniform() float64 {
	return s.src.Float64()
}

// RanPoisson draws k ~ Poisson(lambda) using this stream's source.
func (s *RNGStream) RanPoisson(lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	p := distuv.Poisson{Lambda: lambda, Src: s.src}
	return int(p.Rand())
}

// RanMultinomial draws a sample of size n distributed across
// len(probabilities) categories. probabilities need not be pre-normalized.
// Implemented as the standard sequential-binomial decomposition: draw the
// count for each category in turn from a Binomial conditioned on the
// remaining pool and the remaining (renormalized) probability mass, which
// keeps every draw on this stream's own exclusive source.
func (s *RNGStream) RanMultinomial(n int, probabilities []float64) []int {
	counts := make([]int, len(probabilities))
	if n <= 0 || len(probabilities) == 0 {
		return counts
	}

	total := 0.0
	for _, p := range probabilities {
		total += p
	}
	if total <= 0 {
		return counts
	}

	remainingN := n
	remainingP := total
	for i := 0; i < len(probabilities)-1 && remainingN > 0; i++ {
		p := probabilities[i] / remainingP
		k := s.RanBinomial(remainingN, p)
		counts[i] = k
		remainingN -= k
		remainingP -= probabilities[i]
	}
	if remainingN > 0 {
		counts[len(counts)-1] += remainingN
	}
	return counts
}
