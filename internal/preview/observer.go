// Package preview provides cmd/wfcsynth's live view of the solver's
// in-progress grid: a headless progress bar (--verbose) or an ANSI
// true-color terminal preview (--display).
package preview

import (
	"github.com/pspoerri/wfcsynth/internal/tileset"
	"github.com/pspoerri/wfcsynth/internal/wfc"
)

// Observer receives a callback after every Collapse step.
type Observer interface {
	// Observe is called once per solver step with the grid's current
	// state. attempt is the number of prior contradiction-triggered
	// regenerations (0 on the first try).
	Observe(g *wfc.Grid, set *tileset.Set, attempt int)

	// Finish is called once the grid is fully collapsed or the caller
	// gives up, so the observer can clean up any in-place terminal state.
	Finish()
}

// NoopObserver discards every update. Used when neither --display nor
// --verbose is set.
type NoopObserver struct{}

func (NoopObserver) Observe(*wfc.Grid, *tileset.Set, int) {}
func (NoopObserver) Finish()                              {}

func collapsedCount(g *wfc.Grid) int {
	n := 0
	g.Cells(func(_, _ int, c *wfc.Cell) bool {
		if c.IsCollapsed() {
			n++
		}
		return true
	})
	return n
}
