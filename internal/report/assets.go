package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"clinicapi/internal/storage"
)

// Default asset names for the letterhead images.
const (
	HeaderAsset = "header.jpg"
	FooterAsset = "footer.jpg"
)

// ErrAssetNotFound signals that an asset is absent. The renderer leaves the
// corresponding band blank.
var ErrAssetNotFound = errors.New("report asset not found")

// AssetSource loads letterhead images by name.
type AssetSource interface {
	Load(ctx context.Context, name string) ([]byte, error)
}

// DirAssets reads assets from a local directory.
type DirAssets struct {
	Dir string
}

func (a DirAssets) Load(_ context.Context, name string) ([]byte, error) {
	b, err := os.ReadFile(filepath.Join(a.Dir, filepath.Base(name)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", name, ErrAssetNotFound)
		}
		return nil, fmt.Errorf("read asset %s: %w", name, err)
	}
	return b, nil
}

// StorageAssets reads assets from object storage under Prefix.
type StorageAssets struct {
	Store  storage.Storage
	Prefix string
}

// Key returns the object key for an asset name.
func (a StorageAssets) Key(name string) string {
	return path.Join(a.Prefix, name)
}

func (a StorageAssets) Load(ctx context.Context, name string) ([]byte, error) {
	rc, _, err := a.Store.Get(ctx, a.Key(name))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, fmt.Errorf("%s: %w", name, ErrAssetNotFound)
		}
		return nil, err
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read asset %s: %w", name, err)
	}
	return b, nil
}
