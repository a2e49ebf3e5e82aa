package tileset

import (
	"sync"

	"github.com/pspoerri/wfcsynth/internal/raster"
)

// halfView returns the d-facing half of a tile's view, per spec.md §4.C.
func halfView(v raster.View, d Direction) raster.View {
	s := v.W // tiles are square; S == W == H
	switch d {
	case Up:
		return v.SubView(0, 0, s, ceilDiv2(s))
	case Down:
		return v.SubView(0, s/2, s, ceilDiv2(s))
	case Left:
		return v.SubView(0, 0, ceilDiv2(s), s)
	case Right:
		return v.SubView(s/2, 0, ceilDiv2(s), s)
	default:
		panic("tileset: unknown direction")
	}
}

func ceilDiv2(n int) int { return (n + 1) / 2 }

// tileView returns a full, border-aware view over tile i's image, so half
// comparisons near the source boundary wrap/clamp exactly the way the
// original extraction did.
func tileView(t *Tile, style raster.BorderStyle) raster.View {
	return raster.NewView(t.Image, 0, 0, t.Image.Width(), t.Image.Height(), style)
}

// BuildAdjacency computes the four-directional compatibility relation over
// set.Tiles, per spec.md §4.C: for each ordered pair (a, b) and direction d,
// b is admitted into a.neighbors[d] iff a's d-facing half equals b's
// opposite(d)-facing half. Self-neighbor checks are only performed for
// {Up, Right} to avoid double insertion; symmetry is maintained by
// explicitly inserting both directions of every match.
//
// This is the one step spec.md explicitly tolerates being expensive
// (O(T²·S²)) and explicitly describes as a synchronous one-time precompute
// before solving begins — so, unlike the solver loop itself, it is safe to
// fan out across a worker pool. concurrency <= 0 runs single-threaded.
func BuildAdjacency(set *Set, concurrency int) error {
	n := len(set.Tiles)
	for i := range set.Neighbors {
		set.Neighbors[i] = newNeighbors()
	}
	if concurrency <= 1 || n < 2 {
		for a := 0; a < n; a++ {
			adjacencyRow(set, a)
		}
		return nil
	}

	var mu sync.Mutex // guards every insert into set.Neighbors
	rows := make(chan int, n)
	for a := 0; a < n; a++ {
		rows <- a
	}
	close(rows)

	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for a := range rows {
				adjacencyRowLocked(set, a, &mu)
			}
		}()
	}
	wg.Wait()
	return nil
}

// adjacencyRow computes tile a's outgoing and (symmetric) incoming
// neighbor entries against every tile b, single-threaded: no locking
// needed because nothing else is mutating set.Neighbors concurrently.
func adjacencyRow(set *Set, a int) {
	va := tileView(&set.Tiles[a], set.Style)
	for b := 0; b < len(set.Tiles); b++ {
		vb := tileView(&set.Tiles[b], set.Style)
		for _, d := range allDirections {
			if a == b && d != Up && d != Right {
				continue // self-neighbor checked only for {Up, Right}, per spec
			}
			if halfView(va, d).Equal(halfView(vb, d.Opposite())) {
				set.Neighbors[a].At(d)[b] = struct{}{}
				set.Neighbors[b].At(d.Opposite())[a] = struct{}{}
			}
		}
	}
}

// adjacencyRowLocked is adjacencyRow's concurrent-safe variant: each worker
// owns a distinct row a, but the worker on row b also inserts into
// set.Neighbors[a] (as its own b), so every insert is taken under mu.
func adjacencyRowLocked(set *Set, a int, mu *sync.Mutex) {
	va := tileView(&set.Tiles[a], set.Style)
	for b := 0; b < len(set.Tiles); b++ {
		vb := tileView(&set.Tiles[b], set.Style)
		for _, d := range allDirections {
			if a == b && d != Up && d != Right {
				continue
			}
			if !halfView(va, d).Equal(halfView(vb, d.Opposite())) {
				continue
			}
			if a == b {
				mu.Lock()
				set.Neighbors[a].At(d)[b] = struct{}{}
				set.Neighbors[a].At(d.Opposite())[a] = struct{}{}
				mu.Unlock()
				continue
			}
			mu.Lock()
			set.Neighbors[a].At(d)[b] = struct{}{}
			set.Neighbors[b].At(d.Opposite())[a] = struct{}{}
			mu.Unlock()
		}
	}
}
