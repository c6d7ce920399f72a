// Package assets stores menu item images in a filesystem directory.
//
// Files are addressed by bare names of the form <menuItemID><extension>.
// Writes go to a temporary file that is renamed into place, so concurrent
// writers to the same name resolve as last writer wins and readers never see
// a partially written image.
package assets

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"spice/internal/uuid"
)

// PublicPrefix is the URL path under which stored images are served.
const PublicPrefix = "/images/"

const tempPrefix = ".upload-"

// DefaultExtension is used when an upload has no extension and for the
// default image copied to items created without an upload.
const DefaultExtension = ".png"

var (
	// ErrInvalidName is returned for names that are empty or contain a path separator.
	ErrInvalidName = errors.New("assets: invalid file name")
	// ErrUnsupportedExtension is returned by Name for non-image uploads.
	ErrUnsupportedExtension = errors.New("assets: unsupported image extension")
)

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// Store is a directory of image files.
type Store struct {
	dir string
}

// NewStore creates the directory if needed and returns a Store rooted there.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create asset dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the root directory.
func (s *Store) Dir() string {
	return s.dir
}

// Name derives the stored file name for a menu item from the uploaded file's
// name. An empty uploadFilename yields the default extension.
func Name(id, uploadFilename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(uploadFilename))
	if ext == "" {
		ext = DefaultExtension
	}
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedExtension, ext)
	}
	return id + ext, nil
}

// IsItemImage reports whether name has the <uuid><ext> form Name produces.
// Other files in the directory, such as site logos, are not menu item images.
func IsItemImage(name string) bool {
	ext := filepath.Ext(name)
	return allowedExtensions[strings.ToLower(ext)] && uuid.IsValid(strings.TrimSuffix(name, ext))
}

// PublicPath returns the URL path recorded on the menu item for name.
func PublicPath(name string) string {
	return PublicPrefix + name
}

// NameFromPublicPath returns the file name referenced by an image path.
// Legacy rows stored Windows-style paths such as \images\12.png.
func NameFromPublicPath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	return p
}

// Write stores the content of r under name, replacing any existing file.
func (s *Store) Write(name string, r io.Reader) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, tempPrefix+"*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

// Delete removes name. A missing file is not an error.
func (s *Store) Delete(name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

// Exists reports whether name is present.
func (s *Store) Exists(name string) (bool, error) {
	path, err := s.path(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w", name, err)
	}
}

// Copy duplicates src into dst, replacing dst if present.
func (s *Store) Copy(src, dst string) error {
	srcPath, err := s.path(src)
	if err != nil {
		return err
	}
	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer f.Close()

	return s.Write(dst, f)
}

// Entry describes one stored file.
type Entry struct {
	Name    string
	ModTime time.Time
	// Temp marks an upload that never completed its rename.
	Temp bool
}

// List returns the regular files in the store.
func (s *Store) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.dir, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if !de.Type().IsRegular() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		entries = append(entries, Entry{
			Name:    de.Name(),
			ModTime: info.ModTime(),
			Temp:    strings.HasPrefix(de.Name(), tempPrefix),
		})
	}
	return entries, nil
}

func (s *Store) path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.dir, name), nil
}
