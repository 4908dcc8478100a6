// Package transform decodes, resizes and re-encodes images for the uploader.
package transform

import (
	"context"
	"image"
)

// Putter is the write half of a storage disk.
type Putter interface {
	Put(ctx context.Context, path string, data []byte) error
}

// Engine is the image codec used by the upload pipeline.
type Engine interface {
	// Decode parses encoded image bytes.
	Decode(data []byte) (image.Image, error)
	// Resize scales img to exactly width x height. A zero dimension keeps the
	// aspect ratio of the source.
	Resize(img image.Image, width, height int) image.Image
	// Encode serializes img in the format implied by ext (".png", "jpg", ...).
	Encode(img image.Image, ext string) ([]byte, error)
	// Save encodes img using the extension of p and writes it to dst.
	Save(ctx context.Context, dst Putter, p string, img image.Image) error
}
