package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/spf13/afero"

	"github.com/indieinfra/imageupload/config"
	"github.com/indieinfra/imageupload/storage/disk"
	storageutil "github.com/indieinfra/imageupload/storage/util"
)

// Disk stores files beneath a root directory of an afero filesystem.
type Disk struct {
	fs        afero.Fs
	publicURL string
}

// New wraps fs, which is treated as already rooted at the disk root.
func New(fs afero.Fs, publicURL string) *Disk {
	return &Disk{
		fs:        fs,
		publicURL: storageutil.NormalizeBaseURL(publicURL),
	}
}

// NewFilesystemDisk creates a disk rooted at cfg.Path on the local filesystem.
func NewFilesystemDisk(cfg *config.FilesystemDisk) (*Disk, error) {
	if cfg == nil {
		return nil, fmt.Errorf("filesystem disk config is nil")
	}

	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(cfg.Path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return New(afero.NewBasePathFs(osFs, cfg.Path), cfg.PublicUrl), nil
}

// fsPath maps a disk path to an absolute path inside the rooted filesystem.
func fsPath(p string) string {
	return "/" + disk.Key(p)
}

func (d *Disk) Exists(ctx context.Context, p string) (bool, error) {
	return afero.Exists(d.fs, fsPath(p))
}

func (d *Disk) MakeDirectory(ctx context.Context, p string) error {
	if err := d.fs.MkdirAll(fsPath(p), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

func (d *Disk) Put(ctx context.Context, p string, data []byte) error {
	target := fsPath(p)
	if err := d.fs.MkdirAll(path.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := afero.WriteFile(d.fs, target, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func (d *Disk) PutFileAs(ctx context.Context, dir string, r io.Reader, name string) error {
	target := fsPath(path.Join(dir, name))
	if err := d.fs.MkdirAll(path.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	outFile, err := d.fs.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, r); err != nil {
		// Attempt to clean up partial file
		_ = d.fs.Remove(target)
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

func (d *Disk) Get(ctx context.Context, p string) ([]byte, error) {
	data, err := afero.ReadFile(d.fs, fsPath(p))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", disk.ErrNotFound, disk.Key(p))
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

func (d *Disk) Delete(ctx context.Context, p string) error {
	if err := d.fs.Remove(fsPath(p)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

func (d *Disk) DeleteDirectory(ctx context.Context, p string) error {
	target := fsPath(p)
	if target == "/" {
		return fmt.Errorf("refusing to delete disk root")
	}

	if err := d.fs.RemoveAll(target); err != nil {
		return fmt.Errorf("failed to remove directory: %w", err)
	}
	return nil
}

func (d *Disk) URL(p string) string {
	return storageutil.JoinURL(d.publicURL, disk.Key(p))
}
