package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"spice/internal/assets"
	"spice/internal/logger"
	"spice/internal/models"
)

// SweepStore is the part of the image store the sweeper needs.
type SweepStore interface {
	List() ([]assets.Entry, error)
	Delete(name string) error
}

// ImageSweeper removes image files that no menu item references. These are
// left behind when a compensating delete fails after a rolled back change,
// or by uploads interrupted before their rename.
type ImageSweeper struct {
	db           *gorm.DB
	store        SweepStore
	defaultImage string
	minAge       time.Duration
	now          func() time.Time
}

// NewImageSweeper creates an ImageSweeper. Only files the store creates are
// candidates: <uuid><ext> item images and leftover temp uploads. Files
// younger than minAge are never removed, so writes of in-flight requests are
// left alone.
func NewImageSweeper(db *gorm.DB, store SweepStore, defaultImage string, minAge time.Duration) *ImageSweeper {
	return &ImageSweeper{
		db:           db,
		store:        store,
		defaultImage: defaultImage,
		minAge:       minAge,
		now:          time.Now,
	}
}

// Sweep deletes unreferenced files older than the minimum age and returns
// how many were removed. Individual delete failures are logged and skipped.
func (s *ImageSweeper) Sweep() (int, error) {
	// List before reading references: a row committed in between only
	// protects more files.
	entries, err := s.store.List()
	if err != nil {
		return 0, fmt.Errorf("list images: %w", err)
	}

	var images []string
	if err := s.db.Model(&models.MenuItem{}).Pluck("image", &images).Error; err != nil {
		return 0, fmt.Errorf("load referenced images: %w", err)
	}
	referenced := make(map[string]bool, len(images))
	for _, img := range images {
		referenced[assets.NameFromPublicPath(img)] = true
	}

	log := logger.Get()
	cutoff := s.now().Add(-s.minAge)
	removed := 0
	for _, e := range entries {
		if !e.Temp && !assets.IsItemImage(e.Name) {
			continue
		}
		if e.Name == s.defaultImage || referenced[e.Name] || e.ModTime.After(cutoff) {
			continue
		}
		if err := s.store.Delete(e.Name); err != nil {
			log.Warnw("failed to remove orphaned image", "file", e.Name, "error", err)
			continue
		}
		log.Infow("removed orphaned image", "file", e.Name, "temp", e.Temp)
		removed++
	}
	return removed, nil
}
