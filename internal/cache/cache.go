package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
)

// Key identifies one completion.
type Key struct {
	Provider string
	Model    string
	System   string
	Prompt   string
}

// Hash returns the hex SHA-256 of the key material.
func (k Key) Hash() string {
	h := sha256.New()
	for _, part := range []string{k.Provider, k.Model, k.System, k.Prompt} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

type entry struct {
	Provider  string    `json:"provider"`
	Model     string    `json:"model"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"createdAt"`
}

// Cache is a directory of cached responses. A disabled Cache never hits and
// never writes.
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool
	now     func() time.Time
}

// New creates a Cache rooted at dir, or the OS cache directory when dir is
// empty. A ttlSeconds of zero keeps entries forever.
func New(enabled bool, dir string, ttlSeconds int) (*Cache, error) {
	if !enabled {
		return &Cache{now: time.Now}, nil
	}
	if dir == "" {
		d, err := defaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &Cache{
		dir:     dir,
		ttl:     time.Duration(ttlSeconds) * time.Second,
		enabled: true,
		now:     time.Now,
	}, nil
}

// Enabled reports whether the cache reads and writes.
func (c *Cache) Enabled() bool { return c.enabled }

// Dir returns the cache directory, empty when disabled.
func (c *Cache) Dir() string { return c.dir }

// Get returns the cached response for k.
func (c *Cache) Get(k Key) (string, bool) {
	if !c.enabled {
		return "", false
	}
	path := c.path(k)
	e, err := readEntry(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Debug().Err(err).Str("path", path).Msg("unreadable cache entry")
		}
		return "", false
	}
	if c.expired(e) {
		os.Remove(path)
		return "", false
	}
	log.Debug().Str("provider", k.Provider).Str("model", k.Model).Msg("cache hit")
	return e.Response, true
}

// Put stores response under k.
func (c *Cache) Put(k Key, response string) error {
	if !c.enabled {
		return nil
	}
	data, err := json.Marshal(entry{
		Provider:  k.Provider,
		Model:     k.Model,
		Response:  response,
		CreatedAt: c.now(),
	})
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}
	if err := os.WriteFile(c.path(k), data, 0o644); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Clear removes every entry and returns how many were removed.
func (c *Cache) Clear() (int, error) {
	files, err := c.files()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, f := range files {
		if err := os.Remove(f); err == nil {
			removed++
		}
	}
	return removed, nil
}

// Stats describes the cache contents.
type Stats struct {
	Dir        string
	Entries    int
	Expired    int
	TotalBytes int64
}

func (s Stats) String() string {
	return fmt.Sprintf("%s: %d entries (%d expired), %s",
		s.Dir, s.Entries, s.Expired, humanize.Bytes(uint64(s.TotalBytes)))
}

// Stats scans the cache directory.
func (c *Cache) Stats() (Stats, error) {
	stats := Stats{Dir: c.dir}
	files, err := c.files()
	if err != nil {
		return stats, err
	}
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			continue
		}
		stats.Entries++
		stats.TotalBytes += info.Size()
		if e, err := readEntry(f); err == nil && c.expired(e) {
			stats.Expired++
		}
	}
	return stats, nil
}

func (c *Cache) files() ([]string, error) {
	if !c.enabled {
		return nil, nil
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cache directory: %w", err)
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			out = append(out, filepath.Join(c.dir, e.Name()))
		}
	}
	return out, nil
}

func (c *Cache) expired(e entry) bool {
	return c.ttl > 0 && c.now().Sub(e.CreatedAt) > c.ttl
}

func (c *Cache) path(k Key) string {
	return filepath.Join(c.dir, k.Hash()+".json")
}

func readEntry(path string) (entry, error) {
	var e entry
	data, err := os.ReadFile(path)
	if err != nil {
		return e, err
	}
	if err := json.Unmarshal(data, &e); err != nil {
		return e, fmt.Errorf("decoding %s: %w", path, err)
	}
	return e, nil
}

func defaultDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "devbin"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Caches", "devbin"), nil
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "devbin", "cache"), nil
		}
		return filepath.Join(home, "AppData", "Local", "devbin", "cache"), nil
	default:
		return filepath.Join(home, ".cache", "devbin"), nil
	}
}
