// Package localstate resolves the on-disk layout of the dashboard's data.
package localstate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const dirPerm = 0o755

// Layout is the resolved set of directories holding local state. Both
// directories are absolute once produced by config.ResolveDefaults.
type Layout struct {
	DataDir  string
	ImageDir string
}

// New returns a Layout for the given directories.
func New(dataDir, imageDir string) Layout {
	return Layout{DataDir: dataDir, ImageDir: imageDir}
}

// Ensure creates the data and image directories if they do not exist.
func (l Layout) Ensure() error {
	for _, dir := range []string{l.DataDir, l.ImageDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// DataPath returns the absolute path of a file in the data directory.
func (l Layout) DataPath(name string) string {
	return filepath.Join(l.DataDir, name)
}

// ImagePath returns the absolute path of an image file. Only the base name of
// name is used so callers cannot escape the image directory.
func (l Layout) ImagePath(name string) (string, error) {
	base := filepath.Base(filepath.Clean("/" + name))
	if base == "/" || base == "." || strings.HasPrefix(base, "..") {
		return "", fmt.Errorf("invalid image name %q", name)
	}
	return filepath.Join(l.ImageDir, base), nil
}

// EnsureParent creates the parent directory of path.
func EnsureParent(path string) error {
	return os.MkdirAll(filepath.Dir(path), dirPerm)
}
