package collection

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ecfrdash/ecfr-dashboard/internal/localstate"
	"github.com/ecfrdash/ecfr-dashboard/internal/metrics"
)

const filePerm = 0o644

// Store reads and appends collection files under a data directory.
type Store struct {
	layout localstate.Layout
	log    zerolog.Logger
	locks  *sync.Map // file path -> *sync.Mutex; nil when locking is off
}

// Option customizes a Store.
type Option func(*Store)

// WithFileLocks serializes Append per collection file within this process.
func WithFileLocks() Option {
	return func(s *Store) { s.locks = &sync.Map{} }
}

// NewStore returns a Store rooted at layout.DataDir.
func NewStore(layout localstate.Layout, log zerolog.Logger, opts ...Option) *Store {
	s := &Store{layout: layout, log: log}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Path returns the file backing c.
func (s *Store) Path(c Collection) string {
	return s.layout.DataPath(c.File)
}

// ReadAll returns every record of c in file order. A missing or unparsable
// file yields c's default; the error is only non-nil when ctx is done.
func (s *Store) ReadAll(ctx context.Context, c Collection) ([]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := s.load(c)
	if err != nil {
		return c.defaults(), nil
	}
	return records, nil
}

// Append adds record at the end of c and returns the record as stored.
// A missing or corrupt file is treated as an empty collection.
func (s *Store) Append(ctx context.Context, c Collection, record any) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("marshal %s record: %w", c.Name, err)
	}

	path := s.Path(c)
	if mu := s.lock(path); mu != nil {
		mu.Lock()
		defer mu.Unlock()
	}

	records, err := s.load(c)
	if err != nil {
		records = nil
	}
	records = append(records, raw)

	if err := s.write(path, records); err != nil {
		s.log.Error().Stack().Err(err).Str("collection", c.Name).Str("path", path).Msg("failed to write collection")
		return nil, err
	}
	s.log.Debug().Str("collection", c.Name).Int("records", len(records)).Msg("record appended")
	return raw, nil
}

// load reads and decodes c. Any failure is logged and counted here so
// callers only decide which fallback to use.
func (s *Store) load(c Collection) ([]json.RawMessage, error) {
	path := s.Path(c)
	data, err := os.ReadFile(path)
	if err != nil {
		reason := "unreadable"
		if errors.Is(err, fs.ErrNotExist) {
			reason = "missing"
		} else {
			s.log.Warn().Err(err).Str("collection", c.Name).Str("path", path).Msg("collection file unreadable")
		}
		metrics.CollectionFallbacksTotal.WithLabelValues(c.Name, reason).Inc()
		return nil, err
	}

	var records []json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(data), &records); err != nil {
		s.log.Warn().Err(err).Str("collection", c.Name).Str("path", path).Msg("collection file is not a JSON array")
		metrics.CollectionFallbacksTotal.WithLabelValues(c.Name, "corrupt").Inc()
		return nil, err
	}
	if records == nil {
		// A literal null decodes without error.
		records = []json.RawMessage{}
	}
	return records, nil
}

func (s *Store) write(path string, records []json.RawMessage) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal collection: %w", err)
	}
	if err := localstate.EnsureParent(path); err != nil {
		return fmt.Errorf("create collection directory: %w", err)
	}
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("write collection file: %w", err)
	}
	return nil
}

func (s *Store) lock(path string) *sync.Mutex {
	if s.locks == nil {
		return nil
	}
	mu, _ := s.locks.LoadOrStore(path, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
