package render

import (
	"image"
	"sync"
)

// rgbaPoolKey identifies a pool by image dimensions, same shape as the
// teacher's tile-pyramid renderer: only a handful of distinct (W, H) pairs
// exist per run (one per --repeat iteration, always the same output size),
// so the map of pools stays tiny.
type rgbaPoolKey struct{ w, h int }

var rgbaPools sync.Map

// getRGBA returns a zeroed *image.RGBA from the pool, or allocates a new
// one. --repeat mode renders a fresh W×H bitmap every generation; without
// pooling that's one full allocation per generated image for as long as
// the process runs.
func getRGBA(w, h int) *image.RGBA {
	key := rgbaPoolKey{w, h}
	if p, ok := rgbaPools.Load(key); ok {
		if v := p.(*sync.Pool).Get(); v != nil {
			img := v.(*image.RGBA)
			clear(img.Pix)
			return img
		}
	}
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

// putRGBA returns img to its size-keyed pool for reuse by the next
// generation. Callers that hand the image off to an encoder and don't
// need it again should call this once encoding completes.
func putRGBA(img *image.RGBA) {
	if img == nil {
		return
	}
	key := rgbaPoolKey{img.Rect.Dx(), img.Rect.Dy()}
	p, _ := rgbaPools.LoadOrStore(key, &sync.Pool{})
	p.(*sync.Pool).Put(img)
}

// Release returns a previously rendered image to the pool. Exported so
// cmd/wfcsynth can recycle buffers between --repeat iterations once each
// has been encoded and written.
func Release(img *image.RGBA) { putRGBA(img) }
