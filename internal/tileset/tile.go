// Package tileset mines the tile vocabulary and four-directional adjacency
// relation out of a source bitmap.
package tileset

import (
	"errors"

	"github.com/pspoerri/wfcsynth/internal/raster"
)

// Direction is one of the four grid-adjacency directions.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

var allDirections = [4]Direction{Up, Down, Left, Right}

// AllDirections returns the four directions in a fixed, row-major-friendly
// order: Up, Down, Left, Right.
func AllDirections() [4]Direction { return allDirections }

// Opposite returns the reverse of d.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	default:
		panic("tileset: unknown direction")
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// ErrOddTileSize is returned when a requested tile size is not odd.
var ErrOddTileSize = errors.New("tileset: tile size must be odd")

// ErrEmptyBitmap is returned when extraction is attempted on a 0×0 bitmap.
var ErrEmptyBitmap = errors.New("tileset: source bitmap is empty")

// Tile is an immutable S×S patch centered on a source pixel, plus its
// occurrence frequency and learned neighbor sets. Neighbor sets are
// populated once by BuildAdjacency and are read-only for the rest of the
// tile's lifetime — there is no interior mutability, unlike the Rust
// original's RefCell<Directions<...>>: the neighbor table lives alongside
// the tile list as a flat, frozen []Neighbors keyed by tile index (see
// Set.Neighbors), built in one pass before the solver ever sees it.
type Tile struct {
	Image     *raster.Bitmap
	Frequency int
}

// Neighbors holds, for one tile, the set of tile indices admissible in
// each direction.
type Neighbors struct {
	Up, Down, Left, Right map[int]struct{}
}

// At returns the neighbor set for d.
func (n *Neighbors) At(d Direction) map[int]struct{} {
	switch d {
	case Up:
		return n.Up
	case Down:
		return n.Down
	case Left:
		return n.Left
	case Right:
		return n.Right
	default:
		panic("tileset: unknown direction")
	}
}

func newNeighbors() Neighbors {
	return Neighbors{
		Up:    make(map[int]struct{}),
		Down:  make(map[int]struct{}),
		Left:  make(map[int]struct{}),
		Right: make(map[int]struct{}),
	}
}

// Set is the canonical tile vocabulary extracted from a source bitmap: the
// deduplicated tile list, the border style that governed extraction (half
// comparisons during adjacency construction must use the same style), and
// the frozen per-tile neighbor table.
type Set struct {
	Tiles     []Tile
	Style     raster.BorderStyle
	TileSize  int
	Neighbors []Neighbors // parallel to Tiles, populated by BuildAdjacency
}

// Weight returns the frequency of tile i: the weight lookup that wfc's
// entropy computation and categorical sampling use.
func (s *Set) Weight(i int) int { return s.Tiles[i].Frequency }

// Options returns the full initial option set: every tile index in the
// set (all have frequency > 0 by construction).
func (s *Set) Options() map[int]struct{} {
	opts := make(map[int]struct{}, len(s.Tiles))
	for i := range s.Tiles {
		opts[i] = struct{}{}
	}
	return opts
}
