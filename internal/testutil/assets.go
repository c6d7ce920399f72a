package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"spice/internal/assets"
)

// DefaultImageName is the default image seeded into every test store.
const DefaultImageName = "default_food.png"

// DefaultImageContent is the byte content of the seeded default image.
var DefaultImageContent = []byte("\x89PNG\r\n\x1a\ndefault-food")

// SetupAssetStore creates an image store in a temporary directory that
// already holds the default image.
func SetupAssetStore(t *testing.T) *assets.Store {
	t.Helper()

	store, err := assets.NewStore(filepath.Join(t.TempDir(), "images"))
	if err != nil {
		t.Fatalf("failed to create asset store: %v", err)
	}
	if err := store.Write(DefaultImageName, bytes.NewReader(DefaultImageContent)); err != nil {
		t.Fatalf("failed to seed default image: %v", err)
	}
	return store
}

// ReadAsset returns the content of a stored file.
func ReadAsset(t *testing.T, store *assets.Store, name string) []byte {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(store.Dir(), name))
	if err != nil {
		t.Fatalf("failed to read asset %q: %v", name, err)
	}
	return data
}

// ListAssets returns the names of the files in store, sorted.
func ListAssets(store *assets.Store) ([]string, error) {
	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
