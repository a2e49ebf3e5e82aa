package wfc

import (
	"errors"
	"math"

	"github.com/pspoerri/wfcsynth/internal/tileset"
)

// ErrEmptyOptions indicates a cell reached observation time with zero
// options — unreachable if Grid's invariants hold (observation only ever
// selects cells with len(options) > 1), so this is a programming error,
// not a recoverable condition.
var ErrEmptyOptions = errors.New("wfc: cell has zero options at observation time")

// ErrInvalidDimensions is returned by New when width or height is zero or
// negative.
var ErrInvalidDimensions = errors.New("wfc: grid width and height must be positive")

// Grid is the W×H array of cells the solver observes and propagates over.
type Grid struct {
	cells           []Cell
	width, height   int
	initialOptions  map[int]struct{}
	initialMaxDepth int
	attempts        int
}

// New constructs a fresh solving session: every cell starts with a copy of
// initialOptions (the full tile vocabulary).
func New(width, height int, initialOptions map[int]struct{}, initialMaxDepth int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	g := &Grid{
		width:           width,
		height:          height,
		initialOptions:  initialOptions,
		initialMaxDepth: initialMaxDepth,
	}
	g.resetCells()
	return g, nil
}

func (g *Grid) resetCells() {
	cells := make([]Cell, g.width*g.height)
	for i := range cells {
		cells[i] = NewCell(g.initialOptions)
	}
	g.cells = cells
}

// Regenerate resets every cell to the grid's initial option set. Per
// spec.md §4.E, incrementAttempts must be true on contradiction recovery
// and false on normal --repeat completion (doubling max_depth only
// reflects genuine propagation failures, not successful re-runs).
func (g *Grid) Regenerate(incrementAttempts bool) {
	g.resetCells()
	if incrementAttempts {
		g.attempts++
	}
}

// Width returns the grid width in cells.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in cells.
func (g *Grid) Height() int { return g.height }

// Attempts returns the number of contradiction-triggered regenerations so
// far.
func (g *Grid) Attempts() int { return g.attempts }

// MaxDepth returns the current propagation depth bound: it doubles with
// each failed attempt, capped at width+height, per spec.md §4.E. The
// doubling loop bails out the moment it would exceed the cap, so an
// arbitrarily large attempt count never risks integer overflow.
func (g *Grid) MaxDepth() int {
	bound := g.width + g.height
	grown := g.initialMaxDepth
	for i := 0; i < g.attempts+1; i++ {
		grown *= 2
		if grown > bound {
			return bound
		}
	}
	return grown
}

// CellAt returns the cell at grid position (x, y).
func (g *Grid) CellAt(x, y int) *Cell {
	return &g.cells[y*g.width+x]
}

// Cells iterates (x, y, *Cell) in row-major order, for rendering.
func (g *Grid) Cells(yield func(x, y int, c *Cell) bool) {
	for i := range g.cells {
		x, y := i%g.width, i/g.width
		if !yield(x, y, &g.cells[i]) {
			return
		}
	}
}

// Collapse performs one observation+propagation step, per spec.md §4.E.
// Returns (true, nil) if at least one uncollapsed cell remains, (false,
// nil) if the grid is now fully collapsed, or (false, ErrExhausted) if
// propagation emptied a cell's options — the caller must call
// Regenerate(true) before the next Collapse.
func (g *Grid) Collapse(set *tileset.Set, rng RNG) (bool, error) {
	var candidates []int
	for i := range g.cells {
		switch n := g.cells[i].Len(); {
		case n == 0:
			return false, ErrEmptyOptions
		case n > 1:
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return false, nil
	}
	onlyOneLeft := len(candidates) == 1

	minEntropy := math.Inf(1)
	var tied []int
	for _, idx := range candidates {
		h := Entropy(&g.cells[idx], set)
		switch {
		case h == minEntropy:
			tied = append(tied, idx)
		case h < minEntropy:
			minEntropy = h
			tied = []int{idx}
		}
	}

	chosenIdx := chooseUniform(rng, tied)
	cell := &g.cells[chosenIdx]
	opts := sortedOptions(cell)
	chosenTile, ok := chooseWeighted(rng, opts, set.Weight)
	if !ok {
		return false, &ExhaustedError{Index: chosenIdx}
	}
	cell.options = map[int]struct{}{chosenTile: {}}

	if onlyOneLeft {
		// No uncollapsed neighbors remain that propagation could change.
		return false, nil
	}

	if err := g.updateNeighbors(set, chosenIdx, cell.options, 0); err != nil {
		return false, err
	}
	return true, nil
}

// indexInDirection returns the grid index one step from index in
// direction d, or (0, false) if that would leave the grid. Up/Down are
// plain over/underflow against the linear index; Left/Right additionally
// forbid row wraparound by comparing index%width.
func (g *Grid) indexInDirection(index int, d tileset.Direction) (int, bool) {
	switch d {
	case tileset.Up:
		if index < g.width {
			return 0, false
		}
		return index - g.width, true
	case tileset.Down:
		if index+g.width >= len(g.cells) {
			return 0, false
		}
		return index + g.width, true
	case tileset.Left:
		if index == 0 {
			return 0, false
		}
		n := index - 1
		if n%g.width == g.width-1 {
			return 0, false
		}
		return n, true
	case tileset.Right:
		n := index + 1
		if n >= len(g.cells) || n%g.width == 0 {
			return 0, false
		}
		return n, true
	default:
		panic("wfc: unknown direction")
	}
}

// updateNeighbors is the bounded-BFS-via-recursion propagation step of
// spec.md §4.E: a just-narrowed cell's admissible neighbor options are
// transitively intersected into its grid neighbors, up to MaxDepth() —
// except that collapsing a neighbor outright ("free information") never
// consumes depth, only weakening-only updates do. depth accumulates across
// the four sibling directions within a single call, not just along one
// recursive path: a weakening update in one direction raises the depth
// charged to the directions visited afterward in the same call.
func (g *Grid) updateNeighbors(set *tileset.Set, originIndex int, available map[int]struct{}, depth int) error {
	if depth > g.MaxDepth() {
		return nil
	}
	for _, d := range tileset.AllDirections() {
		neighborIndex, ok := g.indexInDirection(originIndex, d)
		if !ok {
			continue
		}
		neighbor := &g.cells[neighborIndex]
		if neighbor.IsCollapsed() {
			continue
		}

		allowed := make(map[int]struct{})
		for i := range available {
			for j := range set.Neighbors[i].At(d) {
				allowed[j] = struct{}{}
			}
		}

		oldLen := neighbor.Len()
		changed, err := neighbor.Intersect(allowed)
		if err != nil {
			return &ExhaustedError{Index: neighborIndex}
		}
		if !changed || neighbor.Len() == oldLen {
			continue
		}

		if !neighbor.IsCollapsed() {
			depth++
		}
		if err := g.updateNeighbors(set, neighborIndex, neighbor.Options(), depth); err != nil {
			return err
		}
	}
	return nil
}
