package wfc

import "math/rand"

// RNG is the injectable source of randomness the solver draws on: a
// uniform tie-break among minimum-entropy cells, and a frequency-weighted
// categorical draw among a cell's remaining options. Determinism (spec.md
// §8) depends on the same RNG stream producing the same draws for the
// same seed — keep that stream single-threaded, as the solver itself is.
type RNG interface {
	// Intn returns a uniform random int in [0, n). Panics if n <= 0.
	Intn(n int) int
}

// mathRandRNG adapts *math/rand.Rand to the RNG interface.
type mathRandRNG struct {
	r *rand.Rand
}

// NewRNG returns a deterministic RNG seeded with seed. Seed 0 is a valid,
// reproducible seed like any other — callers that want a fresh stream per
// run should derive a non-zero seed themselves (e.g. from time.Now) before
// calling this, and log it so the run can be replayed.
func NewRNG(seed int64) RNG {
	return &mathRandRNG{r: rand.New(rand.NewSource(seed))}
}

func (m *mathRandRNG) Intn(n int) int { return m.r.Intn(n) }

// chooseUniform picks one element of indices uniformly at random.
func chooseUniform(rng RNG, indices []int) int {
	return indices[rng.Intn(len(indices))]
}

// chooseWeighted draws one tile index from options with probability
// proportional to weight(i), per spec.md §4.E step 4. Implemented as a
// cumulative-weight scan rather than the Rust original's "repeat each
// index weight times then shuffle-pick" — equivalent distribution, O(n)
// instead of O(total weight).
func chooseWeighted(rng RNG, options []int, weight func(int) int) (int, bool) {
	total := 0
	for _, i := range options {
		total += weight(i)
	}
	if total <= 0 {
		return 0, false
	}
	target := rng.Intn(total)
	for _, i := range options {
		w := weight(i)
		if target < w {
			return i, true
		}
		target -= w
	}
	// Unreachable while weight returns the same values it did when total
	// was summed; if it does not, fall back to the last candidate.
	return options[len(options)-1], true
}
