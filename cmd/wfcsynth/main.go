// Command wfcsynth synthesizes a larger raster from a small source image
// by extracting overlapping tiles, learning their adjacency relation, and
// running a minimum-entropy wavefunction-collapse solver over an output
// grid.
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/pspoerri/wfcsynth/internal/diagnostics"
	"github.com/pspoerri/wfcsynth/internal/encode"
	"github.com/pspoerri/wfcsynth/internal/preview"
	"github.com/pspoerri/wfcsynth/internal/raster"
	"github.com/pspoerri/wfcsynth/internal/render"
	"github.com/pspoerri/wfcsynth/internal/tileset"
	"github.com/pspoerri/wfcsynth/internal/wfc"
)

// Set via -ldflags at build time.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("wfcsynth: internal invariant violation: %v\n%s", r, debug.Stack())
			os.Exit(1)
		}
	}()

	var (
		input       string
		output      string
		tileSize    int
		width       int
		height      int
		display     bool
		maxDepth    int
		borderStyle string
		repeat      bool
		seed        int64
		verbose     bool
		showVersion bool
		cpuProfile  string
		memProfile  string
		concurrency int
	)

	flag.StringVar(&input, "input", "", "Source image path (required)")
	flag.StringVar(&input, "i", "", "Source image path (shorthand)")
	flag.StringVar(&output, "output", "", "Write the finished bitmap here")
	flag.StringVar(&output, "o", "", "Write the finished bitmap here (shorthand)")
	flag.IntVar(&tileSize, "tile-size", 3, "Tile size S, must be odd")
	flag.IntVar(&tileSize, "t", 3, "Tile size S, must be odd (shorthand)")
	flag.IntVar(&width, "width", 0, "Output width in cells (required)")
	flag.IntVar(&height, "height", 0, "Output height in cells (default: equals width)")
	flag.BoolVar(&display, "display", false, "Render a live terminal preview while solving")
	flag.IntVar(&maxDepth, "max-depth", 10, "Initial propagation depth bound")
	flag.StringVar(&borderStyle, "border-style", "looping", "Border policy: looping or clamped")
	flag.BoolVar(&repeat, "repeat", false, "On completion, regenerate without incrementing attempts, forever")
	flag.Int64Var(&seed, "seed", 0, "RNG seed (0 derives one from the current time)")
	flag.BoolVar(&verbose, "verbose", false, "Verbose progress logging")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.StringVar(&cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	flag.StringVar(&memProfile, "memprofile", "", "Write memory profile to file")
	flag.IntVar(&concurrency, "concurrency", runtime.NumCPU(), "Worker count for adjacency construction")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: wfcsynth --input src.png --width 48 [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Synthesize an image from overlapping source tiles via wavefunction collapse.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("wfcsynth %s (commit %s, built %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			log.Fatalf("Creating CPU profile: %v", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatalf("Starting CPU profile: %v", err)
		}
		defer pprof.StopCPUProfile()
	}
	if memProfile != "" {
		defer func() {
			f, err := os.Create(memProfile)
			if err != nil {
				log.Fatalf("Creating memory profile: %v", err)
			}
			defer f.Close()
			runtime.GC()
			if err := pprof.WriteHeapProfile(f); err != nil {
				log.Fatalf("Writing memory profile: %v", err)
			}
		}()
	}

	if input == "" {
		fmt.Fprintln(os.Stderr, "wfcsynth: --input is required")
		flag.Usage()
		os.Exit(1)
	}
	if width <= 0 {
		fmt.Fprintln(os.Stderr, "wfcsynth: --width must be a positive integer")
		flag.Usage()
		os.Exit(1)
	}
	if height <= 0 {
		height = width
	}
	if tileSize%2 == 0 {
		fmt.Fprintln(os.Stderr, "wfcsynth: --tile-size must be odd")
		os.Exit(1)
	}
	style, err := raster.ParseBorderStyle(borderStyle)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wfcsynth: %v\n", err)
		os.Exit(1)
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
		if verbose {
			log.Printf("Derived seed: %d", seed)
		}
	}

	img, err := loadImage(input)
	if err != nil {
		log.Fatalf("Loading input: %v", err)
	}
	src := raster.FromImage(img)

	set, err := tileset.Extract(src, tileSize, style)
	if err != nil {
		log.Fatalf("Extracting tiles: %v", err)
	}
	if verbose {
		log.Printf("Extracted %d distinct tile(s) from a %dx%d source", len(set.Tiles), src.Width(), src.Height())
	}

	if err := tileset.BuildAdjacency(set, concurrency); err != nil {
		log.Fatalf("Building adjacency: %v", err)
	}

	var observer preview.Observer = preview.NoopObserver{}
	switch {
	case display:
		observer = preview.NewTerminalObserver(80, 24)
	case verbose:
		observer = preview.NewProgressObserver(width * height)
	}

	rng := wfc.NewRNG(seed)
	grid, err := wfc.New(width, height, set.Options(), maxDepth)
	if err != nil {
		log.Fatalf("Building grid: %v", err)
	}

	for {
		solve(grid, set, rng, observer, verbose)
		observer.Finish()

		bm, err := render.Final(grid, set)
		if err != nil {
			log.Fatalf("Rendering result: %v", err)
		}

		if output != "" {
			if err := writeImage(bm, output); err != nil {
				log.Fatalf("Writing output: %v", err)
			}
			if verbose {
				log.Printf("Wrote %s", output)
			}
		}

		if !repeat {
			break
		}
		grid.Regenerate(false)
	}
}

// solve drives Grid.Collapse to completion, recovering from every
// Exhausted restart per spec.md §9's open question: Collapse itself never
// resets partial propagation damage, so Regenerate(true) must run before
// the next call.
func solve(grid *wfc.Grid, set *tileset.Set, rng wfc.RNG, observer preview.Observer, verbose bool) {
	attempt := 0
	for {
		more, err := grid.Collapse(set, rng)
		if err != nil {
			if report, ok := diagnostics.Diagnose(grid, err); ok {
				if verbose {
					log.Printf("Attempt %d failed: %s", attempt+1, report)
				}
				grid.Regenerate(true)
				attempt = grid.Attempts()
				continue
			}
			panic(fmt.Sprintf("wfcsynth: unrecoverable solver error: %v", err))
		}
		observer.Observe(grid, set, attempt)
		if !more {
			return
		}
	}
}

func loadImage(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return encode.DecodeImage(data, formatFromExt(path))
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

func writeImage(bm *raster.Bitmap, path string) error {
	enc, err := encode.NewEncoder(formatFromExt(path), 90)
	if err != nil {
		return err
	}
	img := render.ToPooledImage(bm)
	defer render.Release(img)
	data, err := enc.Encode(img)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
