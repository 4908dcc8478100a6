package transform

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"path"

	"github.com/disintegration/imaging"
)

const defaultJPEGQuality = 85

// Imaging implements Engine with github.com/disintegration/imaging.
type Imaging struct {
	Filter      imaging.ResampleFilter
	JPEGQuality int
}

func NewImaging() *Imaging {
	return &Imaging{Filter: imaging.Lanczos, JPEGQuality: defaultJPEGQuality}
}

func (i *Imaging) Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

func (i *Imaging) Resize(img image.Image, width, height int) image.Image {
	return imaging.Resize(img, width, height, i.Filter)
}

// Encode falls back to PNG when ext names a format imaging cannot write.
func (i *Imaging) Encode(img image.Image, ext string) ([]byte, error) {
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		format = imaging.PNG
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(i.JPEGQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return buf.Bytes(), nil
}

func (i *Imaging) Save(ctx context.Context, dst Putter, p string, img image.Image) error {
	data, err := i.Encode(img, path.Ext(p))
	if err != nil {
		return err
	}

	if err := dst.Put(ctx, p, data); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}

	return nil
}
