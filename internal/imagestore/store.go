// Package imagestore writes uploaded activity images to the image directory.
package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecfrdash/ecfr-dashboard/internal/localstate"
)

// URLPrefix is the public path images are served under.
const URLPrefix = "/images/"

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// maxNameAttempts bounds the numbered fallbacks tried when names collide
// within one millisecond.
const maxNameAttempts = 1000

// Store saves images as <base>-<unixMillis><ext> under the image directory,
// or <base>-<unixMillis>-<n><ext> when that name is already taken.
type Store struct {
	layout localstate.Layout
	now    func() time.Time
	log    zerolog.Logger
}

// New returns a Store for layout.ImageDir.
func New(layout localstate.Layout, log zerolog.Logger) *Store {
	return &Store{layout: layout, now: time.Now, log: log}
}

// Dir returns the directory images are written to.
func (s *Store) Dir() string { return s.layout.ImageDir }

// Save copies r into a new file derived from originalName and returns the
// generated file name.
func (s *Store) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.layout.ImageDir, 0o755); err != nil {
		return "", fmt.Errorf("create image directory: %w", err)
	}

	at := s.now()
	var (
		name, path string
		f          *os.File
	)
	for seq := 0; ; seq++ {
		if seq >= maxNameAttempts {
			return "", fmt.Errorf("create image file: no free name for %q", originalName)
		}
		name = candidateName(originalName, at, seq)
		p, err := s.layout.ImagePath(name)
		if err != nil {
			return "", err
		}
		path = p
		f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("create image file: %w", err)
		}
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("write image file: %w", err)
	}

	s.log.Info().Str("image", name).Int64("bytes", n).Msg("image stored")
	return name, nil
}

// URL returns the public path of a stored image.
func URL(name string) string { return URLPrefix + name }

// GenerateName keeps the sanitized base name and extension of originalName and
// inserts a millisecond timestamp before the extension.
func GenerateName(originalName string, at time.Time) string {
	return candidateName(originalName, at, 0)
}

func splitName(originalName string) (stem, ext string) {
	base := filepath.Base(strings.ReplaceAll(originalName, `\`, "/"))
	ext = strings.ToLower(filepath.Ext(base))
	stem = strings.TrimSuffix(base, filepath.Ext(base))

	stem = strings.Trim(unsafeChars.ReplaceAllString(stem, "_"), "._")
	if stem == "" {
		stem = "image"
	}
	ext = unsafeChars.ReplaceAllString(ext, "")
	if ext == "." {
		ext = ""
	}
	return stem, ext
}

// candidateName is GenerateName with a collision counter; seq 0 adds nothing.
func candidateName(originalName string, at time.Time, seq int) string {
	stem, ext := splitName(originalName)
	if seq == 0 {
		return fmt.Sprintf("%s-%d%s", stem, at.UnixMilli(), ext)
	}
	return fmt.Sprintf("%s-%d-%d%s", stem, at.UnixMilli(), seq, ext)
}
