// Package wfc implements the minimum-entropy observation loop with
// transitive constraint propagation and restart-on-contradiction.
package wfc

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/pspoerri/wfcsynth/internal/tileset"
)

// ErrExhausted is returned when propagation would leave a cell with zero
// options. Callers must recover by calling Grid.Regenerate(true); the
// grid is left in an invalid partial state until they do. Errors returned
// from Grid.Collapse wrap this as *ExhaustedError, which also carries the
// failing cell's grid index for diagnostics.
var ErrExhausted = errors.New("wfc: propagation exhausted a cell's options")

// ExhaustedError reports which cell's options were exhausted during
// propagation. errors.Is(err, ErrExhausted) holds for any ExhaustedError.
type ExhaustedError struct {
	// Index is the failing cell's row-major index (y*width + x) in the
	// grid that produced it.
	Index int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("wfc: propagation exhausted cell %d's options", e.Index)
}

func (e *ExhaustedError) Unwrap() error { return ErrExhausted }

// Cell holds the set of tile indices still possible at a grid position.
type Cell struct {
	options map[int]struct{}
}

// NewCell initializes a cell with a copy of the given option set.
func NewCell(initial map[int]struct{}) Cell {
	opts := make(map[int]struct{}, len(initial))
	for k := range initial {
		opts[k] = struct{}{}
	}
	return Cell{options: opts}
}

// IsCollapsed reports whether exactly one option remains.
func (c *Cell) IsCollapsed() bool { return len(c.options) == 1 }

// Len returns the number of remaining options.
func (c *Cell) Len() int { return len(c.options) }

// Options returns the live option set. Callers must not mutate the
// returned map.
func (c *Cell) Options() map[int]struct{} { return c.options }

// Only returns the single remaining option. Panics if the cell is not
// collapsed — callers must check IsCollapsed first.
func (c *Cell) Only() int {
	if len(c.options) != 1 {
		panic("wfc: Only called on a non-collapsed cell")
	}
	for k := range c.options {
		return k
	}
	panic("unreachable")
}

// Intersect replaces options with options ∩ available, returning whether
// the size strictly decreased. Returns ErrExhausted if the result is
// empty — the cell is left unmodified in that case so the caller can
// still inspect its pre-failure state for diagnostics.
func (c *Cell) Intersect(available map[int]struct{}) (changed bool, err error) {
	next := make(map[int]struct{}, len(c.options))
	for k := range c.options {
		if _, ok := available[k]; ok {
			next[k] = struct{}{}
		}
	}
	if len(next) == 0 {
		return false, ErrExhausted
	}
	changed = len(next) != len(c.options)
	c.options = next
	return changed, nil
}

// sortedOptions returns the cell's remaining options as a slice sorted by
// tile index. Iteration over a Go map is intentionally randomized per
// process, which would make floating-point summation order (Entropy) and
// cumulative-weight RNG draws (chooseWeighted) non-reproducible across
// runs with the same seed. Sorting first restores the determinism spec.md
// §8 requires.
func sortedOptions(c *Cell) []int {
	out := make([]int, 0, len(c.options))
	for k := range c.options {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// Entropy computes the Shannon entropy of the frequency-weighted
// distribution over the cell's options, per spec.md §4.D. Must not be
// called on a collapsed or empty cell.
func Entropy(c *Cell, set *tileset.Set) float64 {
	if len(c.options) <= 1 {
		panic("wfc: Entropy called on a collapsed or empty cell")
	}
	opts := sortedOptions(c)
	total := 0
	for _, i := range opts {
		total += set.Weight(i)
	}
	if total == 0 {
		return 0
	}
	var h float64
	for _, i := range opts {
		w := set.Weight(i)
		if w == 0 {
			continue
		}
		p := float64(w) / float64(total)
		h -= p * math.Log2(p)
	}
	return h
}
