package disk

import (
	"context"
	"fmt"
	"io"
	"log"
)

// NoopDisk logs every call and persists nothing.
type NoopDisk struct{}

func (NoopDisk) Exists(ctx context.Context, p string) (bool, error) {
	log.Printf("Received no-op exists request: %v", p)
	return false, nil
}

func (NoopDisk) MakeDirectory(ctx context.Context, p string) error {
	log.Printf("Received no-op make directory request: %v", p)
	return nil
}

func (NoopDisk) Put(ctx context.Context, p string, data []byte) error {
	log.Printf("Received no-op put request: %v (%d bytes)", p, len(data))
	return nil
}

func (NoopDisk) PutFileAs(ctx context.Context, dir string, r io.Reader, name string) error {
	n, err := io.Copy(io.Discard, r)
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	log.Printf("Received no-op put file request: %v/%v (%d bytes)", dir, name, n)
	return nil
}

func (NoopDisk) Get(ctx context.Context, p string) ([]byte, error) {
	return nil, fmt.Errorf("%w: %s", ErrNotFound, Key(p))
}

func (NoopDisk) Delete(ctx context.Context, p string) error {
	log.Printf("Received no-op delete request: %v", p)
	return nil
}

func (NoopDisk) DeleteDirectory(ctx context.Context, p string) error {
	log.Printf("Received no-op delete directory request: %v", p)
	return nil
}

func (NoopDisk) URL(p string) string {
	return "https://noop.example.org/" + Key(p)
}
