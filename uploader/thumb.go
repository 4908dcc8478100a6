package uploader

import (
	"context"
	"path"
)

// Thumb creates a thumbnail for relPath/file, which must already be stored.
// The thumbnail goes to opts.Dir, or relPath/thumb when unset.
func (u *Uploader) Thumb(ctx context.Context, relPath string, file string, opts ThumbOptions) (bool, error) {
	dir := u.basePath + relPath
	thumbDir := opts.Dir
	if thumbDir == "" {
		thumbDir = dir + "/" + thumbDirName
	}

	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = u.thumbWidth
	}
	if height <= 0 {
		height = u.thumbHeight
	}

	if err := ensureDirectory(ctx, u.disk, thumbDir); err != nil {
		return false, err
	}

	if err := u.makeThumb(ctx, path.Join(dir, file), path.Join(thumbDir, file), width, height); err != nil {
		return false, err
	}

	return true, nil
}
