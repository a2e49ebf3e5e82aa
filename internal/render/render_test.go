package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pspoerri/wfcsynth/internal/raster"
	"github.com/pspoerri/wfcsynth/internal/tileset"
	"github.com/pspoerri/wfcsynth/internal/wfc"
)

func oneByOneTile(c color.RGBA, freq int) tileset.Tile {
	bm := raster.NewBitmap(1, 1)
	bm.Set(0, 0, c)
	return tileset.Tile{Image: bm, Frequency: freq}
}

func TestFinal_RendersCenterPixels(t *testing.T) {
	red := oneByOneTile(color.RGBA{255, 0, 0, 255}, 1)
	blue := oneByOneTile(color.RGBA{0, 0, 255, 255}, 1)
	set := &tileset.Set{
		Tiles:    []tileset.Tile{red, blue},
		TileSize: 1,
	}

	g, err := wfc.New(2, 1, map[int]struct{}{0: {}, 1: {}}, 1)
	assert.NoError(t, err)
	_, _ = g.CellAt(0, 0).Intersect(map[int]struct{}{0: {}})
	_, _ = g.CellAt(1, 0).Intersect(map[int]struct{}{1: {}})

	bm, err := Final(g, set)
	assert.NoError(t, err)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, bm.At(0, 0))
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, bm.At(1, 0))
}

func TestFinal_ErrorsOnUncollapsedCell(t *testing.T) {
	set := &tileset.Set{
		Tiles:    []tileset.Tile{oneByOneTile(color.RGBA{1, 2, 3, 255}, 1), oneByOneTile(color.RGBA{4, 5, 6, 255}, 1)},
		TileSize: 1,
	}
	g, err := wfc.New(1, 1, map[int]struct{}{0: {}, 1: {}}, 1)
	assert.NoError(t, err)

	_, err = Final(g, set)
	assert.Error(t, err)
}

func TestPreview_ConflictColorOnEmptyOptions(t *testing.T) {
	// Cell.Intersect never commits an empty result (see internal/wfc), so a
	// live grid cell never actually reaches Len() == 0. Preview's conflict
	// branch only guards against a cell constructed with an empty initial
	// option set directly.
	set := &tileset.Set{
		Tiles:    []tileset.Tile{oneByOneTile(color.RGBA{1, 2, 3, 255}, 1)},
		TileSize: 1,
	}
	g, err := wfc.New(1, 1, map[int]struct{}{}, 1)
	assert.NoError(t, err)

	bm := Preview(g, set)
	assert.Equal(t, ConflictColor, bm.At(0, 0))
}

func TestPreview_WeightedMeanForUndecidedCell(t *testing.T) {
	black := oneByOneTile(color.RGBA{0, 0, 0, 255}, 1)
	white := oneByOneTile(color.RGBA{255, 255, 255, 255}, 1)
	set := &tileset.Set{
		Tiles:    []tileset.Tile{black, white},
		TileSize: 1,
	}
	g, err := wfc.New(1, 1, map[int]struct{}{0: {}, 1: {}}, 1)
	assert.NoError(t, err)

	bm := Preview(g, set)
	px := bm.At(0, 0)
	assert.InDelta(t, 127, int(px.R), 1)
	assert.InDelta(t, 127, int(px.G), 1)
	assert.InDelta(t, 127, int(px.B), 1)
}

func TestToPooledImage_RoundTrip(t *testing.T) {
	bm := raster.NewBitmap(2, 2)
	bm.Set(0, 0, color.RGBA{10, 20, 30, 255})
	bm.Set(1, 1, color.RGBA{40, 50, 60, 255})

	img := ToPooledImage(bm)
	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(10), r>>8)
	assert.Equal(t, uint32(20), g>>8)
	assert.Equal(t, uint32(30), b>>8)
	Release(img)
}
