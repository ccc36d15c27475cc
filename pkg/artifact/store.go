package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists encoded bundles. Put returns the location the bundle can
// be fetched from, in store-specific form.
type Store interface {
	Put(ctx context.Context, key string, data []byte) (string, error)
}

// DiskStore writes bundles to a local directory.
type DiskStore struct {
	// Dir is the output directory. Created on first Put.
	Dir string
}

// NewDiskStore creates a disk store rooted at dir.
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{Dir: dir}
}

// Put implements Store.
func (s *DiskStore) Put(ctx context.Context, key string, data []byte) (string, error) {
	path := filepath.Join(s.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// BundleKey returns the store key for a build's bundle.
func BundleKey(buildID string) string {
	return fmt.Sprintf("bundles/%s.json", buildID)
}

// Publish encodes the bundle and writes it to the store under its build
// key, plus a "bundles/latest.json" alias.
func Publish(ctx context.Context, store Store, b *Bundle, pretty bool) (string, error) {
	data, err := b.Encode(pretty)
	if err != nil {
		return "", err
	}

	location, err := store.Put(ctx, BundleKey(b.BuildID), data)
	if err != nil {
		return "", err
	}
	if _, err := store.Put(ctx, "bundles/latest.json", data); err != nil {
		return "", err
	}
	return location, nil
}
