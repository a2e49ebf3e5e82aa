// Package diagnostics turns a wfc.ExhaustedError into a human-readable
// report of the region around the failing cell, for --verbose runs and
// cmd/wfcdoctor.
package diagnostics

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/lvlath/gridgraph"

	"github.com/pspoerri/wfcsynth/internal/wfc"
)

// Report describes one contradiction: the failing cell and the cluster of
// tightly-constrained cells around it.
type Report struct {
	X, Y         int // failing cell coordinates
	ClusterSize  int // cells in the connected tightly-constrained region containing (X, Y)
	ClusterCells int // total tightly-constrained cells across the whole grid
}

// tightThreshold is the largest option count at which a cell counts as
// "tightly constrained" for clustering purposes: cells with one or two
// remaining options are marked, collapsed cells included.
const tightThreshold = 2

// Diagnose inspects the grid after a Collapse call returned err, building
// a Report when err is (or wraps) a *wfc.ExhaustedError. Returns nil, false
// for any other error.
func Diagnose(g *wfc.Grid, err error) (*Report, bool) {
	var exhausted *wfc.ExhaustedError
	if !errors.As(err, &exhausted) {
		return nil, false
	}

	width, height := g.Width(), g.Height()
	fx, fy := exhausted.Index%width, exhausted.Index/width

	values := make([][]int, height)
	for y := range values {
		values[y] = make([]int, width)
	}
	g.Cells(func(x, y int, c *wfc.Cell) bool {
		if c.Len() > 0 && c.Len() <= tightThreshold {
			values[y][x] = 1
		}
		return true
	})
	// The failing cell still holds its pre-failure options (Intersect left
	// it unmodified), which may exceed the threshold, but it belongs in the
	// cluster as its epicenter.
	values[fy][fx] = 1

	gg, buildErr := gridgraph.NewGridGraph(values, gridgraph.DefaultGridOptions())
	if buildErr != nil {
		return &Report{X: fx, Y: fy}, true
	}

	components := gg.ConnectedComponents()[1]
	report := &Report{X: fx, Y: fy}
	for _, comp := range components {
		report.ClusterCells += len(comp)
		for _, cell := range comp {
			if cell.X == fx && cell.Y == fy {
				report.ClusterSize = len(comp)
			}
		}
	}
	return report, true
}

// String renders a one-line human-readable summary.
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "contradiction at (%d, %d)", r.X, r.Y)
	if r.ClusterSize > 0 {
		fmt.Fprintf(&b, ", part of a %d-cell tightly-constrained cluster", r.ClusterSize)
	}
	return b.String()
}
