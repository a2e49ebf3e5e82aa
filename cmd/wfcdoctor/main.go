// Command wfcdoctor inspects the tile vocabulary, adjacency relation, and
// solver behavior for a source image, without producing an output image.
// It exists to make the solver's internal decision process visible
// independently of the synthesis path in cmd/wfcsynth.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pspoerri/wfcsynth/internal/diagnostics"
	"github.com/pspoerri/wfcsynth/internal/encode"
	"github.com/pspoerri/wfcsynth/internal/raster"
	"github.com/pspoerri/wfcsynth/internal/tileset"
	"github.com/pspoerri/wfcsynth/internal/wfc"
)

func main() {
	var (
		input       string
		tileSize    int
		width       int
		height      int
		maxDepth    int
		borderStyle string
		seed        int64
	)

	flag.StringVar(&input, "input", "", "Source image path (required)")
	flag.IntVar(&tileSize, "tile-size", 3, "Tile size S, must be odd")
	flag.IntVar(&width, "width", 16, "Output width in cells")
	flag.IntVar(&height, "height", 0, "Output height in cells (default: equals width)")
	flag.IntVar(&maxDepth, "max-depth", 10, "Initial propagation depth bound")
	flag.StringVar(&borderStyle, "border-style", "looping", "Border policy: looping or clamped")
	flag.Int64Var(&seed, "seed", 1, "RNG seed")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: wfcdoctor --input src.png [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Inspect tile extraction, adjacency density, and solver behavior.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if input == "" {
		flag.Usage()
		os.Exit(1)
	}
	if height <= 0 {
		height = width
	}

	style, err := raster.ParseBorderStyle(borderStyle)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wfcdoctor: %v\n", err)
		os.Exit(1)
	}

	data, err := os.ReadFile(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wfcdoctor: %v\n", err)
		os.Exit(1)
	}
	img, err := encode.DecodeImage(data, formatFromExt(input))
	if err != nil {
		fmt.Fprintf(os.Stderr, "wfcdoctor: %v\n", err)
		os.Exit(1)
	}
	src := raster.FromImage(img)

	set, err := tileset.Extract(src, tileSize, style)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wfcdoctor: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Source: %dx%d, tile size %d, border style %s\n", src.Width(), src.Height(), tileSize, style)
	fmt.Printf("Tiles: %d distinct\n", len(set.Tiles))
	printFrequencyHistogram(set)

	if err := tileset.BuildAdjacency(set, 1); err != nil {
		fmt.Fprintf(os.Stderr, "wfcdoctor: %v\n", err)
		os.Exit(1)
	}
	printAdjacencyDensity(set)

	grid, err := wfc.New(width, height, set.Options(), maxDepth)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wfcdoctor: %v\n", err)
		os.Exit(1)
	}
	rng := wfc.NewRNG(seed)

	fmt.Printf("\nSolving %dx%d grid, initial max-depth %d, seed %d:\n", width, height, maxDepth, seed)
	for {
		more, err := grid.Collapse(set, rng)
		if err != nil {
			report, _ := diagnostics.Diagnose(grid, err)
			fmt.Printf("  attempt %d failed: %s (max-depth now %d)\n", grid.Attempts()+1, report, grid.MaxDepth())
			grid.Regenerate(true)
			continue
		}
		if !more {
			break
		}
	}
	fmt.Printf("Solved after %d restart(s), final max-depth %d\n", grid.Attempts(), grid.MaxDepth())
}

func printFrequencyHistogram(set *tileset.Set) {
	indices := make([]int, len(set.Tiles))
	for i := range indices {
		indices[i] = i
	}
	sort.Slice(indices, func(a, b int) bool {
		return set.Tiles[indices[a]].Frequency > set.Tiles[indices[b]].Frequency
	})
	limit := len(indices)
	if limit > 10 {
		limit = 10
	}
	fmt.Println("  Top frequencies:")
	for _, i := range indices[:limit] {
		fmt.Printf("    tile %d: %d occurrence(s)\n", i, set.Tiles[i].Frequency)
	}
}

func printAdjacencyDensity(set *tileset.Set) {
	for _, d := range tileset.AllDirections() {
		total := 0
		for _, n := range set.Neighbors {
			total += len(n.At(d))
		}
		avg := float64(total) / float64(len(set.Tiles))
		fmt.Printf("  Adjacency density (%s): avg %.2f admissible neighbor(s)/tile\n", d, avg)
	}
}

func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".webp":
		return "webp"
	default:
		return "png"
	}
}
