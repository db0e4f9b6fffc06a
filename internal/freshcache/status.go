package freshcache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// Status describes the cache file of one resource.
type Status struct {
	Resource string        `json:"resource"`
	Path     string        `json:"path"`
	Exists   bool          `json:"exists"`
	ModTime  time.Time     `json:"modTime,omitempty"`
	Age      time.Duration `json:"age,omitempty"`
	Fresh    bool          `json:"fresh"`
}

// Status reports whether a resource is cached and still fresh.
func (f *Fetcher) Status(resource string) (Status, error) {
	s := Status{Resource: resource, Path: f.Path(resource)}
	st, err := os.Stat(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("stat %s: %w", s.Path, err)
	}
	s.Exists = true
	s.ModTime = st.ModTime()
	s.Age = f.now().Sub(st.ModTime())
	s.Fresh = s.Age < f.staleAfter
	return s, nil
}

// Purge removes the cache files of resources last written more than olderThan
// ago. A non-positive olderThan removes them unconditionally. It returns the
// removed paths.
func (f *Fetcher) Purge(olderThan time.Duration, resources ...string) ([]string, error) {
	var removed []string
	for _, r := range resources {
		s, err := f.Status(r)
		if err != nil {
			return removed, err
		}
		if !s.Exists || (olderThan > 0 && s.Age <= olderThan) {
			continue
		}
		if err := os.Remove(s.Path); err != nil {
			f.log.Warn().Err(err).Str("path", s.Path).Msg("failed to remove cache file")
			return removed, fmt.Errorf("remove %s: %w", s.Path, err)
		}
		f.log.Debug().Str("path", s.Path).Msg("removed cache file")
		removed = append(removed, s.Path)
	}
	return removed, nil
}
