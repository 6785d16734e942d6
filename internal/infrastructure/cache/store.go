package cache

import (
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/menulens/backend/internal/domain"
	"github.com/spf13/afero"
)

// Default time-to-live per resource kind
const (
	PeriodsTTL = 24 * time.Hour
	ItemsTTL   = 6 * time.Hour
)

// Store is a TTL-gated byte cache keeping one file per key.
// The file modification time is the entry timestamp.
type Store struct {
	fs  afero.Fs
	dir string
	now func() time.Time
}

// NewStore creates a cache rooted at dir on the given filesystem
func NewStore(fs afero.Fs, dir string) *Store {
	return &Store{
		fs:  fs,
		dir: dir,
		now: time.Now,
	}
}

// NewDiskStore creates a cache backed by the OS filesystem
func NewDiskStore(dir string) *Store {
	return NewStore(afero.NewOsFs(), dir)
}

// NewMemoryStore creates a cache backed by an in-memory filesystem
func NewMemoryStore() *Store {
	return NewStore(afero.NewMemMapFs(), "/cache")
}

// PeriodsKey is the cache key for the meal periods of a location
func PeriodsKey(locationID int) string {
	return fmt.Sprintf("periods/%d", locationID)
}

// ItemsKey is the cache key for the meal items of a location and period.
// Items are cached per month: one payload serves every day of that month.
func ItemsKey(locationID, periodID int, date time.Time) string {
	return fmt.Sprintf("items/%d/%d/%s", locationID, periodID, date.Format("2006-01"))
}

// Get returns the cached bytes for key when the entry is younger than maxAge,
// or domain.ErrCacheMiss for missing, stale or unreadable entries.
func (s *Store) Get(key string, maxAge time.Duration) ([]byte, error) {
	if maxAge <= 0 {
		return nil, domain.ErrCacheMiss
	}

	p := s.path(key)
	info, err := s.fs.Stat(p)
	if err != nil {
		return nil, domain.ErrCacheMiss
	}
	if s.now().Sub(info.ModTime()) >= maxAge {
		return nil, domain.ErrCacheMiss
	}

	data, err := afero.ReadFile(s.fs, p)
	if err != nil {
		log.Printf("[CACHE] read %s failed: %v", key, err)
		return nil, fmt.Errorf("%w: %s", domain.ErrCacheMiss, key)
	}
	return data, nil
}

// Load is Get reported as a hit flag
func (s *Store) Load(key string, maxAge time.Duration) ([]byte, bool) {
	data, err := s.Get(key, maxAge)
	return data, err == nil
}

// Save stores data under key. Failures are logged and otherwise ignored.
func (s *Store) Save(key string, data []byte) {
	if err := s.writeAtomic(s.path(key), data); err != nil {
		log.Printf("[CACHE] write %s failed: %v", key, err)
	}
}

// Delete removes the entry for key, if any
func (s *Store) Delete(key string) error {
	err := s.fs.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Clear removes every cached entry
func (s *Store) Clear() error {
	return s.fs.RemoveAll(s.dir)
}

// writeAtomic writes into a temp file next to the target and renames it into
// place, so readers never observe a partial entry.
func (s *Store) writeAtomic(p string, data []byte) error {
	dir := filepath.Dir(p)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := afero.TempFile(s.fs, dir, filepath.Base(p)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = s.fs.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	_ = tmp.Sync()
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := s.fs.Rename(tmpName, p); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *Store) path(key string) string {
	clean := path.Clean("/" + strings.ReplaceAll(key, "..", "_"))
	return filepath.Join(s.dir, filepath.FromSlash(clean)+".json")
}
