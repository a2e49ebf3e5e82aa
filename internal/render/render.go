// Package render materializes a wfc.Grid into a raster.Bitmap, per
// spec.md §4.F: center pixel of the chosen tile for collapsed cells,
// frequency-weighted mean of remaining center pixels for live-preview
// cells, and a distinctive conflict color for contradiction cells.
package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/pspoerri/wfcsynth/internal/raster"
	"github.com/pspoerri/wfcsynth/internal/tileset"
	"github.com/pspoerri/wfcsynth/internal/wfc"
)

// ConflictColor flags a cell whose options were exhausted — magenta is the
// traditional "missing texture" signal, chosen for the same reason: it
// almost never occurs naturally in a source photo.
var ConflictColor = color.RGBA{R: 255, G: 0, B: 255, A: 255}

// Final renders a fully-collapsed grid. Returns an error if any cell is
// not collapsed — calling this before the solver reports completion is a
// caller bug, not a recoverable runtime condition.
func Final(g *wfc.Grid, set *tileset.Set) (*raster.Bitmap, error) {
	out := raster.NewBitmap(g.Width(), g.Height())
	var outerErr error
	g.Cells(func(x, y int, c *wfc.Cell) bool {
		if !c.IsCollapsed() {
			outerErr = fmt.Errorf("render: cell (%d, %d) is not collapsed", x, y)
			return false
		}
		out.Set(x, y, centerPixel(&set.Tiles[c.Only()], set.TileSize))
		return true
	})
	if outerErr != nil {
		return nil, outerErr
	}
	return out, nil
}

// Preview renders the grid's current state, collapsed or not, for the
// live-preview observer. Safe to call at any point during solving.
func Preview(g *wfc.Grid, set *tileset.Set) *raster.Bitmap {
	out := raster.NewBitmap(g.Width(), g.Height())
	g.Cells(func(x, y int, c *wfc.Cell) bool {
		switch c.Len() {
		case 0:
			out.Set(x, y, ConflictColor)
		case 1:
			out.Set(x, y, centerPixel(&set.Tiles[c.Only()], set.TileSize))
		default:
			out.Set(x, y, weightedMeanCenter(c, set))
		}
		return true
	})
	return out
}

func centerPixel(t *tileset.Tile, size int) color.RGBA {
	c := size / 2
	return t.Image.At(c, c)
}

func weightedMeanCenter(c *wfc.Cell, set *tileset.Set) color.RGBA {
	var rSum, gSum, bSum, wSum float64
	for i := range c.Options() {
		w := float64(set.Weight(i))
		px := centerPixel(&set.Tiles[i], set.TileSize)
		rSum += float64(px.R) * w
		gSum += float64(px.G) * w
		bSum += float64(px.B) * w
		wSum += w
	}
	if wSum == 0 {
		return ConflictColor
	}
	return color.RGBA{
		R: uint8(rSum / wSum),
		G: uint8(gSum / wSum),
		B: uint8(bSum / wSum),
		A: 255,
	}
}

// ToPooledImage converts a Bitmap to a stdlib *image.RGBA drawn from the
// size-keyed buffer pool, for handoff to internal/encode. Pair with
// Release once the caller is done with the image (after encoding).
func ToPooledImage(bm *raster.Bitmap) *image.RGBA {
	img := getRGBA(bm.Width(), bm.Height())
	for y := 0; y < bm.Height(); y++ {
		for x := 0; x < bm.Width(); x++ {
			c := bm.At(x, y)
			i := img.PixOffset(x, y)
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, 255
		}
	}
	return img
}
