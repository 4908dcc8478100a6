package uploader

import (
	"io"
	"path/filepath"
	"strings"
)

// File is an uploaded file as received from a client.
type File struct {
	Content      io.Reader
	OriginalName string
	// Extension without the leading dot. Derived from OriginalName when empty.
	Extension string
	Size      int64
}

func (f File) ext() string {
	if f.Extension != "" {
		return strings.TrimPrefix(f.Extension, ".")
	}
	return strings.TrimPrefix(filepath.Ext(f.OriginalName), ".")
}

// Resize is either NoResize or an explicit target size.
type Resize struct {
	width  int
	height int
	set    bool
}

func NoResize() Resize { return Resize{} }

func ResizeTo(width, height int) Resize {
	return Resize{width: width, height: height, set: true}
}

func (r Resize) IsSet() bool { return r.set }

func (r Resize) Dimensions() (int, int) { return r.width, r.height }

// ImageOptions controls ImageUpload. An unset ThumbResize falls back to the
// configured thumbnail dimensions.
type ImageOptions struct {
	Thumb       bool
	Name        string
	ImageResize Resize
	ThumbResize Resize
}

// DefaultImageOptions returns options with a 300x300 thumbnail size and no
// thumbnail requested.
func DefaultImageOptions() ImageOptions {
	return ImageOptions{ThumbResize: ResizeTo(300, 300)}
}

// ThumbOptions controls Thumb. Zero values fall back to configured defaults.
type ThumbOptions struct {
	Dir    string
	Width  int
	Height int
}

// Result describes a stored upload.
type Result struct {
	Name         string  `json:"name"`
	OriginalName string  `json:"originalName"`
	Size         int64   `json:"size"`
	Ext          string  `json:"ext"`
	URL          string  `json:"url"`
	ThumbURL     *string `json:"thumbUrl"`
}

// Stored describes an upload that carries no original file metadata.
type Stored struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}
