package wfc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pspoerri/wfcsynth/internal/tileset"
)

func permissiveSet(weights ...int) *tileset.Set {
	n := len(weights)
	tiles := make([]tileset.Tile, n)
	neighbors := make([]tileset.Neighbors, n)
	for i := 0; i < n; i++ {
		tiles[i] = tileset.Tile{Frequency: weights[i]}
		full := make(map[int]struct{}, n)
		for j := 0; j < n; j++ {
			full[j] = struct{}{}
		}
		neighbors[i] = tileset.Neighbors{
			Up:    copyMap(full),
			Down:  copyMap(full),
			Left:  copyMap(full),
			Right: copyMap(full),
		}
	}
	return &tileset.Set{Tiles: tiles, Neighbors: neighbors}
}

func copyMap(m map[int]struct{}) map[int]struct{} {
	out := make(map[int]struct{}, len(m))
	for k := range m {
		out[k] = struct{}{}
	}
	return out
}

// incompatibleSet builds a two-tile set where neither tile admits any
// neighbor in any direction, guaranteeing that a second grid cell's options
// are driven to empty the moment the first cell collapses.
func incompatibleSet() *tileset.Set {
	tiles := []tileset.Tile{{Frequency: 1}, {Frequency: 1}}
	neighbors := []tileset.Neighbors{
		{Up: map[int]struct{}{}, Down: map[int]struct{}{}, Left: map[int]struct{}{}, Right: map[int]struct{}{}},
		{Up: map[int]struct{}{}, Down: map[int]struct{}{}, Left: map[int]struct{}{}, Right: map[int]struct{}{}},
	}
	return &tileset.Set{Tiles: tiles, Neighbors: neighbors}
}

func TestNew_RejectsNonPositiveDimensions(t *testing.T) {
	_, err := New(0, 3, opts(0), 1)
	assert.ErrorIs(t, err, ErrInvalidDimensions)
	_, err = New(3, -1, opts(0), 1)
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestRegenerate_IncrementsAttemptsConditionally(t *testing.T) {
	g, err := New(2, 2, opts(0, 1), 1)
	assert.NoError(t, err)

	g.Regenerate(false)
	assert.Equal(t, 0, g.Attempts())

	g.Regenerate(true)
	assert.Equal(t, 1, g.Attempts())

	g.Regenerate(true)
	assert.Equal(t, 2, g.Attempts())
}

func TestRegenerate_ResetsEveryCellToInitialOptions(t *testing.T) {
	g, err := New(2, 1, opts(0, 1), 5)
	assert.NoError(t, err)
	g.CellAt(0, 0).options = opts(0)
	g.Regenerate(true)
	assert.Equal(t, opts(0, 1), g.CellAt(0, 0).Options())
}

func TestMaxDepth_DoublesAndCaps(t *testing.T) {
	g, err := New(3, 3, opts(0), 1)
	assert.NoError(t, err)

	assert.Equal(t, 2, g.MaxDepth())
	g.Regenerate(true)
	assert.Equal(t, 4, g.MaxDepth())
	g.Regenerate(true)
	assert.Equal(t, 6, g.MaxDepth()) // capped at width+height
	for i := 0; i < 5; i++ {
		g.Regenerate(true)
	}
	assert.Equal(t, 6, g.MaxDepth())
}

func TestCollapse_SingleOptionGridIsImmediatelyComplete(t *testing.T) {
	g, err := New(1, 1, opts(0), 1)
	assert.NoError(t, err)
	more, err := g.Collapse(permissiveSet(1), NewRNG(1))
	assert.NoError(t, err)
	assert.False(t, more)
	assert.True(t, g.CellAt(0, 0).IsCollapsed())
}

func TestCollapse_FullySolvesPermissiveGridDeterministically(t *testing.T) {
	set := permissiveSet(3, 5, 2)
	run := func(seed int64) []int {
		g, err := New(3, 3, set.Options(), 2)
		assert.NoError(t, err)
		rng := NewRNG(seed)
		for {
			more, err := g.Collapse(set, rng)
			assert.NoError(t, err)
			if !more {
				break
			}
		}
		var result []int
		g.Cells(func(x, y int, c *Cell) bool {
			assert.True(t, c.IsCollapsed())
			result = append(result, c.Only())
			return true
		})
		return result
	}

	first := run(42)
	second := run(42)
	assert.Equal(t, first, second)
}

func TestCollapse_IncompatibleTilesReturnExhaustedError(t *testing.T) {
	g, err := New(2, 1, opts(0, 1), 1)
	assert.NoError(t, err)

	more, err := g.Collapse(incompatibleSet(), NewRNG(1))
	assert.False(t, more)

	var target *ExhaustedError
	assert.ErrorAs(t, err, &target)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Contains(t, []int{0, 1}, target.Index)
}

func TestCollapse_CompletesWithoutPropagationWhenOneCandidateRemains(t *testing.T) {
	g, err := New(1, 2, opts(0, 1), 1)
	assert.NoError(t, err)
	g.CellAt(0, 1).options = opts(0) // already collapsed

	more, err := g.Collapse(permissiveSet(1, 1), NewRNG(3))
	assert.NoError(t, err)
	assert.False(t, more)
	assert.True(t, g.CellAt(0, 0).IsCollapsed())
}

func TestIndexInDirection_RespectsGridEdges(t *testing.T) {
	g, err := New(2, 2, opts(0), 1)
	assert.NoError(t, err)

	_, ok := g.indexInDirection(0, tileset.Up)
	assert.False(t, ok)
	_, ok = g.indexInDirection(0, tileset.Left)
	assert.False(t, ok)
	idx, ok := g.indexInDirection(0, tileset.Right)
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
	idx, ok = g.indexInDirection(0, tileset.Down)
	assert.True(t, ok)
	assert.Equal(t, 2, idx)

	_, ok = g.indexInDirection(1, tileset.Right)
	assert.False(t, ok) // row wraparound forbidden
}
