// Package uploader resolves storage locations and names for uploaded media,
// optionally resizes images and derives thumbnails, and persists the result
// to a storage disk.
//
// Derived names are not checked against existing files. Two uploads of the
// same original within one second without an explicit name resolve to the
// same name and the later write wins.
package uploader

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"time"

	"github.com/indieinfra/imageupload/config"
	"github.com/indieinfra/imageupload/storage/disk"
	"github.com/indieinfra/imageupload/transform"
)

const (
	thumbDirName = "thumb"
	randomLength = 10
)

// Logger is a minimal interface allowing substitution (e.g., zap, logrus).
type Logger interface {
	Printf(format string, v ...any)
}

// Options configures an Uploader. Zero values fall back to defaults.
type Options struct {
	BasePath    string
	ThumbWidth  int
	ThumbHeight int
	// Public receives base64 uploads. Defaults to the main disk.
	Public disk.Disk
	Logger Logger
	Now    func() time.Time
}

// OptionsFromConfig maps the imageupload configuration section onto Options.
func OptionsFromConfig(cfg *config.ImageUpload) Options {
	return Options{
		BasePath:    cfg.BasePath,
		ThumbWidth:  cfg.ImageThumbWidth,
		ThumbHeight: cfg.ImageThumbHeight,
	}
}

// Uploader holds no per-call state and is safe for concurrent use.
type Uploader struct {
	disk        disk.Disk
	public      disk.Disk
	engine      transform.Engine
	basePath    string
	thumbWidth  int
	thumbHeight int
	logger      Logger
	now         func() time.Time
	random      func(n int) string
}

func New(d disk.Disk, engine transform.Engine, opts Options) *Uploader {
	u := &Uploader{
		disk:        d,
		public:      opts.Public,
		engine:      engine,
		basePath:    opts.BasePath,
		thumbWidth:  opts.ThumbWidth,
		thumbHeight: opts.ThumbHeight,
		logger:      opts.Logger,
		now:         opts.Now,
		random:      randomString,
	}

	if u.public == nil {
		u.public = d
	}
	if u.thumbWidth <= 0 {
		u.thumbWidth = config.DefaultThumbWidth
	}
	if u.thumbHeight <= 0 {
		u.thumbHeight = config.DefaultThumbHeight
	}
	if u.logger == nil {
		u.logger = log.Default()
	}
	if u.now == nil {
		u.now = time.Now
	}

	return u
}

// paths are the resolved directories for one call. originalDir always ends
// in a slash.
type paths struct {
	originalDir string
	thumbDir    string
}

func (p paths) original(name string) string { return path.Join(p.originalDir, name) }
func (p paths) thumb(name string) string    { return path.Join(p.thumbDir, name) }

func (u *Uploader) dir(relPath string) string {
	return u.basePath + relPath + "/"
}

// resolvePaths ensures the target directory, and the thumbnail directory when
// requested, exist before anything is written.
func (u *Uploader) resolvePaths(ctx context.Context, d disk.Disk, relPath string, withThumb bool) (paths, error) {
	p := paths{originalDir: u.dir(relPath)}
	p.thumbDir = p.originalDir + thumbDirName

	if err := ensureDirectory(ctx, d, p.originalDir); err != nil {
		return paths{}, err
	}

	if withThumb {
		if err := ensureDirectory(ctx, d, p.thumbDir); err != nil {
			return paths{}, err
		}
	}

	return p, nil
}

func ensureDirectory(ctx context.Context, d disk.Disk, dir string) error {
	exists, err := d.Exists(ctx, dir)
	if err != nil {
		return fmt.Errorf("%w: check directory %s: %w", ErrBackendWrite, dir, err)
	}
	if exists {
		return nil
	}

	if err := d.MakeDirectory(ctx, dir); err != nil {
		return fmt.Errorf("%w: create directory %s: %w", ErrBackendWrite, dir, err)
	}
	return nil
}

func (u *Uploader) thumbSize(r Resize) (int, int) {
	if r.IsSet() {
		return r.Dimensions()
	}
	return u.thumbWidth, u.thumbHeight
}

// makeThumb reads src back from the disk, resizes it and saves it at dst.
func (u *Uploader) makeThumb(ctx context.Context, src, dst string, width, height int) error {
	data, err := u.disk.Get(ctx, src)
	if err != nil {
		if errors.Is(err, disk.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrSourceNotFound, src)
		}
		return fmt.Errorf("%w: read %s: %w", ErrBackendWrite, src, err)
	}

	img, err := u.engine.Decode(data)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDecode, src, err)
	}

	if err := u.engine.Save(ctx, u.disk, dst, u.engine.Resize(img, width, height)); err != nil {
		return fmt.Errorf("%w: save thumbnail %s: %w", ErrBackendWrite, dst, err)
	}

	return nil
}
