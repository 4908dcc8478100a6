package factory

import (
	"fmt"
	"sync"

	"github.com/indieinfra/imageupload/config"
	"github.com/indieinfra/imageupload/storage/disk"
	"github.com/indieinfra/imageupload/storage/disk/filesystem"
	"github.com/indieinfra/imageupload/storage/disk/s3"
)

// Factory builds a disk for the provided disk config.
type Factory func(*config.DiskConfig) (disk.Disk, error)

var (
	mu       sync.RWMutex
	registry = map[string]Factory{}
)

// Register adds or replaces a disk factory for the given strategy name.
func Register(strategy string, factory Factory) {
	mu.Lock()
	registry[strategy] = factory
	mu.Unlock()
}

// Get retrieves a factory for the given strategy.
func Get(strategy string) (Factory, bool) {
	mu.RLock()
	f, ok := registry[strategy]
	mu.RUnlock()
	return f, ok
}

// Create builds a disk using the registered factory for the configured strategy.
func Create(cfg *config.DiskConfig) (disk.Disk, error) {
	if cfg == nil {
		return nil, fmt.Errorf("disk config is nil")
	}

	if f, ok := Get(cfg.Strategy); ok {
		return f(cfg)
	}

	return nil, fmt.Errorf("unknown disk strategy %q", cfg.Strategy)
}

func init() {
	Register("noop", func(cfg *config.DiskConfig) (disk.Disk, error) {
		return disk.NoopDisk{}, nil
	})
	Register("s3", func(cfg *config.DiskConfig) (disk.Disk, error) {
		d, err := s3.NewS3Disk(cfg.S3)
		if err != nil {
			return nil, err
		}
		return d, nil
	})
	Register("filesystem", func(cfg *config.DiskConfig) (disk.Disk, error) {
		d, err := filesystem.NewFilesystemDisk(cfg.Filesystem)
		if err != nil {
			return nil, err
		}
		return d, nil
	})
}
