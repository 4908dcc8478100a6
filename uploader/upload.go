package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// upload is the immutable input of one pass through the pipeline.
type upload struct {
	file        File
	name        string
	thumb       bool
	imageResize Resize
	thumbResize Resize
}

// ImageUpload stores an image under relPath, optionally resizing it first and
// deriving a thumbnail into relPath/thumb.
//
// If the thumbnail cannot be produced the stored original is removed again
// and the error is returned.
func (u *Uploader) ImageUpload(ctx context.Context, file File, relPath string, opts ImageOptions) (*Result, error) {
	return u.upload(ctx, relPath, upload{
		file:        file,
		name:        opts.Name,
		thumb:       opts.Thumb,
		imageResize: opts.ImageResize,
		thumbResize: opts.ThumbResize,
	})
}

// VideoUpload stores a video verbatim. It behaves exactly like FileUpload.
func (u *Uploader) VideoUpload(ctx context.Context, file File, relPath string, name string) (*Result, error) {
	return u.FileUpload(ctx, file, relPath, name)
}

// FileUpload stores any file verbatim under relPath.
func (u *Uploader) FileUpload(ctx context.Context, file File, relPath string, name string) (*Result, error) {
	return u.upload(ctx, relPath, upload{file: file, name: name})
}

func (u *Uploader) upload(ctx context.Context, relPath string, req upload) (*Result, error) {
	if req.file.Content == nil {
		return nil, fmt.Errorf("%w: file content is required", ErrInvalidArgument)
	}

	p, err := u.resolvePaths(ctx, u.disk, relPath, req.thumb)
	if err != nil {
		return nil, err
	}

	ext := req.file.ext()
	fileName := DeriveFilename(req.name, req.file.OriginalName, ext, u.now())
	originalPath := p.original(fileName)

	result := &Result{
		Name:         fileName,
		OriginalName: req.file.OriginalName,
		Size:         req.file.Size,
		Ext:          ext,
		URL:          u.disk.URL(originalPath),
	}
	if req.thumb {
		thumbURL := u.disk.URL(p.thumb(fileName))
		result.ThumbURL = &thumbURL
	}

	if req.imageResize.IsSet() {
		if err := u.putResized(ctx, req.file, originalPath, ext, req.imageResize); err != nil {
			return nil, err
		}
	} else if err := u.disk.PutFileAs(ctx, p.originalDir, req.file.Content, fileName); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBackendWrite, originalPath, err)
	}

	if req.thumb {
		width, height := u.thumbSize(req.thumbResize)
		if err := u.makeThumb(ctx, originalPath, p.thumb(fileName), width, height); err != nil {
			return nil, u.rollback(ctx, originalPath, err)
		}
	}

	return result, nil
}

func (u *Uploader) putResized(ctx context.Context, file File, dst, ext string, size Resize) error {
	data, err := io.ReadAll(file.Content)
	if err != nil {
		return fmt.Errorf("read upload %s: %w", file.OriginalName, err)
	}

	img, err := u.engine.Decode(data)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDecode, file.OriginalName, err)
	}

	width, height := size.Dimensions()
	encoded, err := u.engine.Encode(u.engine.Resize(img, width, height), ext)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDecode, file.OriginalName, err)
	}

	if err := u.disk.Put(ctx, dst, encoded); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrBackendWrite, dst, err)
	}

	return nil
}

// rollback deletes an original whose thumbnail failed. A failed delete is
// joined to cause.
func (u *Uploader) rollback(ctx context.Context, originalPath string, cause error) error {
	u.logger.Printf("thumbnail for %s failed, removing original: %v", originalPath, cause)

	if err := u.disk.Delete(ctx, originalPath); err != nil {
		u.logger.Printf("rollback of %s failed, remove it manually: %v", originalPath, err)
		return errors.Join(cause, fmt.Errorf("%w: rollback %s: %w", ErrBackendDelete, originalPath, err))
	}

	return cause
}
