package imagestore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecfrdash/ecfr-dashboard/internal/localstate"
)

func TestGenerateName(t *testing.T) {
	at := time.UnixMilli(1700000000123)

	assert.Equal(t, "site_photo-1700000000123.png", GenerateName("site photo.PNG", at))
	assert.Equal(t, "passwd-1700000000123", GenerateName("../../etc/passwd", at))
	assert.Equal(t, "report-1700000000123.jpg", GenerateName(`C:\Users\me\report.jpg`, at))
	assert.Equal(t, "image-1700000000123", GenerateName("", at))
}

func TestSave_WritesUnderImageDir(t *testing.T) {
	dir := t.TempDir()
	layout := localstate.New(filepath.Join(dir, "data"), filepath.Join(dir, "data", "images"))
	s := New(layout, zerolog.Nop())
	s.now = func() time.Time { return time.UnixMilli(42) }

	name, err := s.Save(context.Background(), "chart.png", strings.NewReader("PNGDATA"))
	require.NoError(t, err)
	assert.Equal(t, "chart-42.png", name)
	assert.Equal(t, "/images/chart-42.png", URL(name))

	data, err := os.ReadFile(filepath.Join(layout.ImageDir, name))
	require.NoError(t, err)
	assert.Equal(t, "PNGDATA", string(data))

}

func TestSave_SameNameSameMillisecondGetsDistinctFiles(t *testing.T) {
	dir := t.TempDir()
	layout := localstate.New(filepath.Join(dir, "data"), filepath.Join(dir, "data", "images"))
	s := New(layout, zerolog.Nop())
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }

	first, err := s.Save(context.Background(), "photo.png", strings.NewReader("one"))
	require.NoError(t, err)
	second, err := s.Save(context.Background(), "photo.png", strings.NewReader("two"))
	require.NoError(t, err)
	third, err := s.Save(context.Background(), "photo.png", strings.NewReader("three"))
	require.NoError(t, err)

	assert.Equal(t, "photo-1700000000000.png", first)
	assert.Equal(t, "photo-1700000000000-1.png", second)
	assert.Equal(t, "photo-1700000000000-2.png", third)

	for name, want := range map[string]string{first: "one", second: "two", third: "three"} {
		data, err := os.ReadFile(filepath.Join(layout.ImageDir, name))
		require.NoError(t, err)
		assert.Equal(t, want, string(data), "existing files are never overwritten")
	}
}
