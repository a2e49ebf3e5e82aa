package preview

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"os"
	"sync"

	"golang.org/x/image/draw"

	"github.com/pspoerri/wfcsynth/internal/render"
	"github.com/pspoerri/wfcsynth/internal/tileset"
	"github.com/pspoerri/wfcsynth/internal/wfc"
)

// TerminalObserver renders the live grid state as 24-bit ANSI color blocks.
// Each terminal row packs two source pixel rows into one character cell
// using the "▀" glyph: the glyph's foreground paints the top pixel, its
// background the bottom one, doubling the effective vertical resolution.
type TerminalObserver struct {
	cols, rows int // terminal character grid, rows in character cells
	w          *bufio.Writer
	mu         sync.Mutex
	drawn      bool
}

// NewTerminalObserver builds a previewer scaled to fit a cols×rows terminal.
func NewTerminalObserver(cols, rows int) *TerminalObserver {
	if cols <= 0 {
		cols = 80
	}
	if rows <= 0 {
		rows = 24
	}
	return &TerminalObserver{cols: cols, rows: rows, w: bufio.NewWriter(os.Stdout)}
}

func (t *TerminalObserver) Observe(g *wfc.Grid, set *tileset.Set, attempt int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	bm := render.Preview(g, set)
	src := bm.ToImage()

	dstH := t.rows * 2
	dst := image.NewRGBA(image.Rect(0, 0, t.cols, dstH))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	if t.drawn {
		fmt.Fprintf(t.w, "\033[%dA", t.rows)
	}
	t.drawn = true

	for cy := 0; cy < t.rows; cy++ {
		top := cy * 2
		bot := top + 1
		for cx := 0; cx < t.cols; cx++ {
			tc := dst.RGBAAt(cx, top)
			bc := dst.RGBAAt(cx, bot)
			writeHalfBlock(t.w, tc, bc)
		}
		fmt.Fprint(t.w, "\033[0m\n")
	}
	t.w.Flush()
}

func (t *TerminalObserver) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprint(t.w, "\033[0m")
	t.w.Flush()
}

func writeHalfBlock(w *bufio.Writer, top, bot color.RGBA) {
	fmt.Fprintf(w, "\033[38;2;%d;%d;%dm\033[48;2;%d;%d;%dm▀",
		top.R, top.G, top.B, bot.R, bot.G, bot.B)
}
