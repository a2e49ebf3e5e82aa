package tileset

import (
	"github.com/pspoerri/wfcsynth/internal/raster"
)

// Extract mines the tile vocabulary from bm: one size×size view centered on
// every source pixel, visited in row-major order, deduplicated by pixel
// value. Size must be odd; bm must be non-empty.
//
// The returned Set's Tiles only contains canonical (frequency > 0) entries.
// Neighbors is allocated but left empty — call BuildAdjacency to populate it.
func Extract(bm *raster.Bitmap, size int, style raster.BorderStyle) (*Set, error) {
	if size%2 == 0 {
		return nil, ErrOddTileSize
	}
	if bm.Width() == 0 || bm.Height() == 0 {
		return nil, ErrEmptyBitmap
	}

	half := size / 2

	// Dedup by value using a map from the tile's raw pixel bytes to its
	// canonical index — the "cleaner target shape" over a list with
	// interior first-match scanning: every position is still visited in
	// row-major extraction order, but lookup is O(1) amortized instead of
	// O(i) per position.
	tiles := make([]Tile, 0, bm.Width()*bm.Height())
	canonical := make(map[string]int, bm.Width()*bm.Height())

	for y := 0; y < bm.Height(); y++ {
		for x := 0; x < bm.Width(); x++ {
			v := raster.NewView(bm, x-half, y-half, size, size, style)
			bmp := v.ToBitmap()
			key := bmp.Key()
			if idx, ok := canonical[key]; ok {
				tiles[idx].Frequency++
				continue
			}
			canonical[key] = len(tiles)
			tiles = append(tiles, Tile{Image: bmp, Frequency: 1})
		}
	}

	return &Set{
		Tiles:     tiles,
		Style:     style,
		TileSize:  size,
		Neighbors: make([]Neighbors, len(tiles)),
	}, nil
}
