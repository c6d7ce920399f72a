// Package uuid generates the time-ordered identifiers used as primary keys
// and as menu item image file names.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a new UUIDv7 string. UUIDv7 values sort by creation time,
// which keeps B-tree inserts append-only and directory listings of image
// files in creation order.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		// Entropy exhaustion; a random v4 is still unique.
		return googleuuid.New().String()
	}
	return id.String()
}

// Parse validates s and returns its canonical lower-case form.
func Parse(s string) (string, error) {
	parsed, err := googleuuid.Parse(s)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
