package uploader

import (
	"context"
	"fmt"
)

// ImageUploadBase64 decodes a data URI and stores it on the public disk as
// [name_]<10 random alphanumerics>.<subtype>.
func (u *Uploader) ImageUploadBase64(ctx context.Context, dataURI string, relPath string, name string) (*Stored, error) {
	p, err := u.resolvePaths(ctx, u.public, relPath, false)
	if err != nil {
		return nil, err
	}

	ext, data, err := ParseDataURI(dataURI)
	if err != nil {
		return nil, err
	}

	imageName := u.random(randomLength) + "." + ext
	if name != "" {
		imageName = name + "_" + imageName
	}

	target := p.original(imageName)
	if err := u.public.Put(ctx, target, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBackendWrite, target, err)
	}

	return &Stored{Name: imageName, URL: u.public.URL(target)}, nil
}

// ContentUpload writes content to relPath/name, replacing any existing file.
func (u *Uploader) ContentUpload(ctx context.Context, content []byte, relPath string, name string) (*Stored, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: content upload requires a name", ErrInvalidArgument)
	}

	p, err := u.resolvePaths(ctx, u.disk, relPath, false)
	if err != nil {
		return nil, err
	}

	target := p.original(name)
	if err := u.disk.Put(ctx, target, content); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBackendWrite, target, err)
	}

	return &Stored{Name: name, URL: u.disk.URL(target)}, nil
}
