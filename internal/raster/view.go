package raster

import (
	"fmt"
	"image/color"
)

// BorderStyle resolves an out-of-range coordinate against a buffer
// dimension. Looping wraps (true modulo, never negative); Clamped clamps
// to [0, n).
type BorderStyle int

const (
	Looping BorderStyle = iota
	Clamped
)

// String renders the style the way the CLI flag expects it, and the way
// log lines should print it.
func (s BorderStyle) String() string {
	switch s {
	case Looping:
		return "looping"
	case Clamped:
		return "clamped"
	default:
		return fmt.Sprintf("BorderStyle(%d)", int(s))
	}
}

// ParseBorderStyle converts a --border-style flag value to a BorderStyle.
func ParseBorderStyle(s string) (BorderStyle, error) {
	switch s {
	case "looping":
		return Looping, nil
	case "clamped":
		return Clamped, nil
	default:
		return 0, fmt.Errorf("unknown border style %q (supported: looping, clamped)", s)
	}
}

// Resolve maps a coordinate v+d against a buffer of size n to an in-range
// index, per spec: Looping does true (non-negative) modulo; Clamped clamps
// to [0, n).
func (s BorderStyle) Resolve(v, d, n int) int {
	switch s {
	case Looping:
		r := (v + d) % n
		if r < 0 {
			r += n
		}
		return r
	case Clamped:
		x := v + d
		if x < 0 {
			return 0
		}
		if x > n-1 {
			return n - 1
		}
		return x
	default:
		panic("raster: unknown border style")
	}
}

// View is a logical (xoff, yoff, w, h) rectangle into a Bitmap, resolved
// through a BorderStyle. Views are cheap value types — copy freely.
type View struct {
	bm    *Bitmap
	XOff  int
	YOff  int
	W, H  int
	Style BorderStyle
}

// NewView constructs a view. XOff/YOff may be negative (tile extraction
// centers views on source pixels).
func NewView(bm *Bitmap, xoff, yoff, w, h int, style BorderStyle) View {
	return View{bm: bm, XOff: xoff, YOff: yoff, W: w, H: h, Style: style}
}

// At returns the pixel at local coordinate (x, y), resolving out-of-range
// source coordinates through the view's border style.
func (v View) At(x, y int) color.RGBA {
	sx := v.Style.Resolve(v.XOff, x, v.bm.Width())
	sy := v.Style.Resolve(v.YOff, y, v.bm.Height())
	return v.bm.At(sx, sy)
}

// ToBitmap materializes the view into an owned Bitmap.
func (v View) ToBitmap() *Bitmap {
	out := NewBitmap(v.W, v.H)
	for y := 0; y < v.H; y++ {
		for x := 0; x < v.W; x++ {
			out.Set(x, y, v.At(x, y))
		}
	}
	return out
}

// Equal reports whether two views of matching dimensions are pixel-wise
// equal. Views of differing dimensions are never equal.
func (v View) Equal(o View) bool {
	if v.W != o.W || v.H != o.H {
		return false
	}
	for y := 0; y < v.H; y++ {
		for x := 0; x < v.W; x++ {
			if v.At(x, y) != o.At(x, y) {
				return false
			}
		}
	}
	return true
}

// SubView returns a view of a logical sub-rectangle of v, still addressed
// through v's border style and backing bitmap. Used by the adjacency
// builder to take "halves" of a tile's view without materializing it.
func (v View) SubView(xoff, yoff, w, h int) View {
	return View{bm: v.bm, XOff: v.XOff + xoff, YOff: v.YOff + yoff, W: w, H: h, Style: v.Style}
}
