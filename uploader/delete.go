package uploader

import (
	"context"
	"fmt"
	"path"
)

// MediaDelete removes relPath/file and, when withThumb is set, its thumbnail.
// It reports false without touching anything else when the file is absent.
func (u *Uploader) MediaDelete(ctx context.Context, file string, relPath string, withThumb bool) (bool, error) {
	dir := u.dir(relPath)
	target := path.Join(dir, file)

	exists, err := u.disk.Exists(ctx, target)
	if err != nil {
		return false, fmt.Errorf("%w: check %s: %w", ErrBackendDelete, target, err)
	}
	if !exists {
		return false, nil
	}

	if err := u.disk.Delete(ctx, target); err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrBackendDelete, target, err)
	}

	if withThumb {
		thumb := path.Join(dir, thumbDirName, file)
		if err := u.disk.Delete(ctx, thumb); err != nil {
			return false, fmt.Errorf("%w: %s: %w", ErrBackendDelete, thumb, err)
		}
	}

	return true, nil
}

// RemoveDir deletes relPath recursively. A missing directory counts as removed.
func (u *Uploader) RemoveDir(ctx context.Context, relPath string) (bool, error) {
	dir := u.dir(relPath)

	exists, err := u.disk.Exists(ctx, dir)
	if err != nil {
		return false, fmt.Errorf("%w: check %s: %w", ErrBackendDelete, dir, err)
	}

	if exists {
		if err := u.disk.DeleteDirectory(ctx, dir); err != nil {
			return false, fmt.Errorf("%w: %s: %w", ErrBackendDelete, dir, err)
		}
	}

	return true, nil
}
