package media

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dineguide/dineguide/internal/model"
)

// DiskStore keeps images under a local directory, for development and tests.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir}, nil
}

// Dir is the root served under the media base URL.
func (d *DiskStore) Dir() string { return d.dir }

func (d *DiskStore) Put(_ context.Context, prefix string, u model.Upload) (model.ImageRef, error) {
	key, _, err := assetKey(prefix, u)
	if err != nil {
		return model.ImageRef{}, err
	}
	p := filepath.Join(d.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return model.ImageRef{}, err
	}
	if err := os.WriteFile(p, u.Data, 0o644); err != nil {
		return model.ImageRef{}, err
	}
	return model.ImageRef{AssetID: key}, nil
}

// Delete removes an asset; a missing file is not an error.
func (d *DiskStore) Delete(_ context.Context, assetID string) error {
	clean := filepath.Clean("/" + assetID)
	if strings.Contains(assetID, "..") || clean == "/" {
		return model.NewValidationError("assetId", "invalid asset id")
	}
	err := os.Remove(filepath.Join(d.dir, filepath.FromSlash(clean)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
