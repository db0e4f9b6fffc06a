// Package freshcache serves upstream JSON from a local file while the file is
// younger than a staleness threshold, and refetches it otherwise.
package freshcache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecfrdash/ecfr-dashboard/internal/localstate"
	"github.com/ecfrdash/ecfr-dashboard/internal/metrics"
	"github.com/ecfrdash/ecfr-dashboard/internal/model"
)

const filePerm = 0o644

// Remote fetches the current JSON for a resource.
type Remote interface {
	Fetch(ctx context.Context, resource, rawURL string) (json.RawMessage, error)
}

// Fetcher implements the freshness-gated read. It keeps no state between
// calls; every call stats the cache file. Concurrent refreshes of the same
// resource are not coordinated and the last write wins.
type Fetcher struct {
	layout     localstate.Layout
	staleAfter time.Duration
	remote     Remote
	now        func() time.Time
	log        zerolog.Logger
}

// Option customizes a Fetcher.
type Option func(*Fetcher)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) { f.now = now }
}

// New returns a Fetcher storing resources as <DataDir>/<name>.json.
func New(layout localstate.Layout, staleAfter time.Duration, remote Remote, log zerolog.Logger, opts ...Option) *Fetcher {
	f := &Fetcher{
		layout:     layout,
		staleAfter: staleAfter,
		remote:     remote,
		now:        time.Now,
		log:        log,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Path returns the cache file of a resource.
func (f *Fetcher) Path(resource string) string {
	return f.layout.DataPath(resource + ".json")
}

// GetOrRefresh returns the cached payload of resource if its file is fresh,
// otherwise fetches remoteURL, persists the result and returns it.
//
// A fresh but unparsable file fails with model.CorruptFileError; it does not
// fall back to the remote. Upstream failures are returned as-is
// (model.RemoteFetchError). A failed cache write is logged and the fetched
// payload is still returned.
func (f *Fetcher) GetOrRefresh(ctx context.Context, resource, remoteURL string) (json.RawMessage, error) {
	path := f.Path(resource)
	log := f.log.With().Str("resource", resource).Str("path", path).Logger()

	if st, fresh := f.stat(path); fresh {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, model.NewCorruptFileError(path, err)
		}
		data = bytes.TrimSpace(data)
		if !json.Valid(data) {
			log.Error().Msg("cached file is not valid JSON")
			return nil, model.NewCorruptFileError(path, errors.New("invalid JSON"))
		}
		metrics.CacheHitsTotal.WithLabelValues(resource).Inc()
		log.Debug().Time("mtime", st.ModTime()).Msg("serving cached resource")
		return json.RawMessage(data), nil
	}

	metrics.CacheRefreshesTotal.WithLabelValues(resource).Inc()
	payload, err := f.remote.Fetch(ctx, resource, remoteURL)
	if err != nil {
		return nil, err
	}

	if err := f.persist(path, payload); err != nil {
		metrics.CacheWriteFailuresTotal.WithLabelValues(resource).Inc()
		log.Error().Stack().Err(err).Msg("failed to store refreshed resource")
	} else {
		log.Info().Msg("cache refreshed")
	}
	return payload, nil
}

// stat reports whether path is a regular file younger than the threshold.
func (f *Fetcher) stat(path string) (fs.FileInfo, bool) {
	st, err := os.Stat(path)
	if err != nil || st.IsDir() {
		return nil, false
	}
	return st, f.now().Sub(st.ModTime()) < f.staleAfter
}

func (f *Fetcher) persist(path string, payload json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, payload, "", "  "); err != nil {
		return fmt.Errorf("indent payload: %w", err)
	}
	if err := localstate.EnsureParent(path); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), filePerm); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	return nil
}
