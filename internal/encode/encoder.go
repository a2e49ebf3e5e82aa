// Package encode wraps the stdlib and third-party image codecs behind a
// single Encoder interface, so cmd/wfcsynth can pick an output format by
// name without the rest of the pipeline caring which codec produced the
// bytes.
package encode

import (
	"fmt"
	"image"
)

// Encoder turns a rendered image into bytes in a specific file format.
type Encoder interface {
	// Encode encodes img to bytes in the encoder's format.
	Encode(img image.Image) ([]byte, error)

	// Format returns the format name (e.g. "jpeg", "png", "webp").
	Format() string

	// FileExtension returns the conventional file extension, dot included.
	FileExtension() string
}

// NewEncoder constructs an Encoder for the given format name. quality is
// used by lossy formats and ignored by PNG.
func NewEncoder(format string, quality int) (Encoder, error) {
	switch format {
	case "jpeg", "jpg":
		return &JPEGEncoder{Quality: quality}, nil
	case "png":
		return &PNGEncoder{}, nil
	case "webp":
		return &WebPEncoder{Quality: quality}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %q (supported: jpeg, png, webp)", format)
	}
}
