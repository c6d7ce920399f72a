package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"spice/internal/assets"
	"spice/internal/testutil"
	"spice/internal/uuid"
)

// age backdates a stored file.
func age(t *testing.T, store *assets.Store, name string, d time.Duration) {
	t.Helper()
	old := time.Now().Add(-d)
	if err := os.Chtimes(filepath.Join(store.Dir(), name), old, old); err != nil {
		t.Fatalf("chtimes %s: %v", name, err)
	}
}

func TestImageSweeper_Sweep(t *testing.T) {
	f := setupMenuFixture(t)

	item, err := f.svc.CreateMenuItem(f.input(), nil)
	testutil.AssertNoError(t, err)
	itemFile := assets.NameFromPublicPath(item.Image)

	orphanOld := uuid.New() + ".png"
	orphanNew := uuid.New() + ".jpg"
	for _, name := range []string{orphanOld, orphanNew, "logo.png", "background.jpg"} {
		testutil.AssertNoError(t, f.store.Write(name, strings.NewReader("x")))
	}
	if err := os.WriteFile(filepath.Join(f.store.Dir(), ".upload-42"), []byte("partial"), 0o600); err != nil {
		t.Fatalf("seed temp file: %v", err)
	}

	for _, name := range []string{itemFile, testutil.DefaultImageName, orphanOld, ".upload-42", "logo.png", "background.jpg"} {
		age(t, f.store, name, 48*time.Hour)
	}

	sweeper := NewImageSweeper(f.db, f.store, testutil.DefaultImageName, time.Hour)
	removed, err := sweeper.Sweep()
	testutil.AssertNoError(t, err)

	if removed != 2 {
		t.Errorf("expected 2 files removed, got %d", removed)
	}
	testutil.AssertAssetMissing(t, f.store, orphanOld)
	testutil.AssertAssetMissing(t, f.store, ".upload-42")
	testutil.AssertAssetExists(t, f.store, orphanNew)
	testutil.AssertAssetExists(t, f.store, "logo.png")
	testutil.AssertAssetExists(t, f.store, "background.jpg")
	testutil.AssertAssetExists(t, f.store, itemFile)
	testutil.AssertAssetExists(t, f.store, testutil.DefaultImageName)
}

func TestImageSweeper_LegacyPathsProtectFiles(t *testing.T) {
	f := setupMenuFixture(t)

	item := testutil.CreateTestMenuItem(t, f.db, f.category.ID, f.sub.ID)
	legacy := item.ID + ".png"
	testutil.AssertNoError(t, f.db.Model(item).Update("image", `\images\`+legacy).Error)
	testutil.AssertNoError(t, f.store.Write(legacy, strings.NewReader("old")))
	age(t, f.store, legacy, 48*time.Hour)

	removed, err := NewImageSweeper(f.db, f.store, testutil.DefaultImageName, time.Hour).Sweep()
	testutil.AssertNoError(t, err)

	if removed != 0 {
		t.Errorf("expected nothing removed, got %d", removed)
	}
	testutil.AssertAssetExists(t, f.store, legacy)
}

func TestImageSweeper_DeleteFailureIsSkipped(t *testing.T) {
	f := setupMenuFixture(t)
	orphan := uuid.New() + ".png"
	testutil.AssertNoError(t, f.store.Write(orphan, strings.NewReader("x")))
	age(t, f.store, orphan, 2*time.Hour)

	store := &flakyStore{Store: f.store, failDelete: true}
	removed, err := NewImageSweeper(f.db, store, testutil.DefaultImageName, time.Hour).Sweep()
	testutil.AssertNoError(t, err)

	if removed != 0 {
		t.Errorf("expected nothing removed, got %d", removed)
	}
	testutil.AssertAssetExists(t, f.store, orphan)
}

func TestImageSweeper_SiteImagesAreKept(t *testing.T) {
	f := setupMenuFixture(t)
	for _, name := range []string{"logo.png", "background.jpg", "banner.webp"} {
		testutil.AssertNoError(t, f.store.Write(name, strings.NewReader("site")))
		age(t, f.store, name, 48*time.Hour)
	}

	removed, err := NewImageSweeper(f.db, f.store, testutil.DefaultImageName, time.Hour).Sweep()
	testutil.AssertNoError(t, err)

	if removed != 0 {
		t.Errorf("expected nothing removed, got %d", removed)
	}
	for _, name := range []string{"logo.png", "background.jpg", "banner.webp"} {
		testutil.AssertAssetExists(t, f.store, name)
	}
}
