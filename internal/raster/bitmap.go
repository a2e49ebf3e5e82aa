// Package raster provides the logical pixel buffer and bordered-view
// addressing the rest of the solver builds on.
package raster

import (
	"fmt"
	"image"
	"image/color"
)

// Bitmap is a read-only 2D array of RGB triples. Alpha is never stored —
// FromImage discards it when converting a decoded image.
type Bitmap struct {
	w, h int
	pix  []uint8 // 3 bytes per pixel, row-major
}

// NewBitmap allocates a zeroed w×h bitmap.
func NewBitmap(w, h int) *Bitmap {
	if w <= 0 || h <= 0 {
		panic("raster: non-positive bitmap dimensions")
	}
	return &Bitmap{w: w, h: h, pix: make([]uint8, w*h*3)}
}

// FromImage converts a standard library image.Image to a Bitmap, discarding
// alpha. Out-of-range or partial-coverage source bounds are normalized to
// start at (0,0).
func FromImage(img image.Image) *Bitmap {
	b := img.Bounds()
	bm := NewBitmap(b.Dx(), b.Dy())
	for y := 0; y < bm.h; y++ {
		for x := 0; x < bm.w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			bm.Set(x, y, color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8), A: 255})
		}
	}
	return bm
}

// Width returns the bitmap width in pixels.
func (b *Bitmap) Width() int { return b.w }

// Height returns the bitmap height in pixels.
func (b *Bitmap) Height() int { return b.h }

// At returns the pixel at (x, y). x and y must be in range; callers that
// need border handling should go through a View instead.
func (b *Bitmap) At(x, y int) color.RGBA {
	i := (y*b.w + x) * 3
	return color.RGBA{R: b.pix[i], G: b.pix[i+1], B: b.pix[i+2], A: 255}
}

// Set writes the pixel at (x, y).
func (b *Bitmap) Set(x, y int, c color.RGBA) {
	i := (y*b.w + x) * 3
	b.pix[i], b.pix[i+1], b.pix[i+2] = c.R, c.G, c.B
}

// Key returns a value suitable as a map key for exact pixel-value dedup:
// dimensions plus raw bytes, so bitmaps of differing size never collide.
func (b *Bitmap) Key() string {
	return fmt.Sprintf("%dx%d:%s", b.w, b.h, b.pix)
}

// Equal reports pixel-wise equality between two owned bitmaps of matching
// dimensions. Used by tile dedup, which compares owned bitmaps rather than
// views.
func (b *Bitmap) Equal(o *Bitmap) bool {
	if b.w != o.w || b.h != o.h {
		return false
	}
	for i := range b.pix {
		if b.pix[i] != o.pix[i] {
			return false
		}
	}
	return true
}

// ToImage materializes the bitmap as a stdlib *image.RGBA for handoff to
// internal/encode.
func (b *Bitmap) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.w, b.h))
	for y := 0; y < b.h; y++ {
		for x := 0; x < b.w; x++ {
			c := b.At(x, y)
			i := img.PixOffset(x, y)
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, 255
		}
	}
	return img
}
