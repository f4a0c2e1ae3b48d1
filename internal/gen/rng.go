package gen

import (
	"math"
	"math/rand"
)

// Hex alphabet for identifier generation.
const hexAlphabet = "0123456789abcdef"

// Poisson floor applied to the sessions-per-user rate so a degenerate
// configuration still produces at least some activity.
const minPoissonLambda = 0.1

// Rand is the deterministic random source for a generation stream.
// All stochastic decisions route through one Rand, consumed in a fixed
// traversal order (user-major, session-minor, event-minor); that
// ordering is part of the reproducibility contract, so callers must
// not reorder draws across users or sessions.
type Rand struct {
	r *rand.Rand
}

// NewRand creates a source seeded for bit-for-bit reproducibility.
func NewRand(seed int64) *Rand {
	return &Rand{r: rand.New(rand.NewSource(seed))} //nolint:gosec // deterministic seed is the whole point
}

// IntBetween draws a uniform integer in [lo, hi).
func (r *Rand) IntBetween(lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	return lo + r.r.Int63n(hi-lo)
}

// Float64 draws a uniform float in [0, 1).
func (r *Rand) Float64() float64 { return r.r.Float64() }

// Chance reports true with probability p.
func (r *Rand) Chance(p float64) bool { return r.r.Float64() < p }

// Pick draws a uniform element from a non-empty set.
func (r *Rand) Pick(items []string) string {
	return items[r.r.Intn(len(items))]
}

// PickInt draws a uniform element from a non-empty integer set.
func (r *Rand) PickInt(items []int) int {
	return items[r.r.Intn(len(items))]
}

// PickPtr draws from a set that may contain nil entries, modelling
// nullable categorical fields.
func (r *Rand) PickPtr(items []*string) *string {
	return items[r.r.Intn(len(items))]
}

// Poisson draws a Poisson-distributed count (Knuth's method). The
// rate is floored at a small positive value.
func (r *Rand) Poisson(lambda float64) int {
	if lambda < minPoissonLambda {
		lambda = minPoissonLambda
	}
	limit := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= r.r.Float64()
		if p <= limit {
			return k
		}
		k++
	}
}

// SessionCount draws the Poisson session count with a minimum of 1.
func (r *Rand) SessionCount(avg float64) int {
	if n := r.Poisson(avg); n > 1 {
		return n
	}
	return 1
}

// Hex draws n lowercase hexadecimal characters.
func (r *Rand) Hex(n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = hexAlphabet[r.r.Intn(len(hexAlphabet))]
	}
	return string(buf)
}

// SubsetNonEmpty draws a uniform-size, non-empty subset without
// replacement, preserving draw order.
func (r *Rand) SubsetNonEmpty(items []string) []string {
	size := int(r.IntBetween(1, int64(len(items))+1))
	pool := make([]string, len(items))
	copy(pool, items)
	for i := 0; i < size; i++ {
		j := int(r.IntBetween(int64(i), int64(len(pool))))
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:size]
}
