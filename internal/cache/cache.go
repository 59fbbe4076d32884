// Package cache keeps small API lookups on disk between runs.
//
// Each Store is one JSON file scoped by resource name, API host and account.
// Entries expire after DefaultTTL. Set TW_NO_CACHE to disable caching.
package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// DefaultTTL is how long cached entries stay valid.
const DefaultTTL = 5 * time.Minute

// DisableEnv turns caching off when set to any non-empty value.
const DisableEnv = "TW_NO_CACHE"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type entry struct {
	CachedAt time.Time           `json:"cached_at"`
	Items    jsoniter.RawMessage `json:"items"`
}

// Store reads and writes a single cache key.
type Store struct {
	path string
	ttl  time.Duration
}

// NewStore creates a Store with the default TTL. resource names what is
// cached (e.g. "lists-jack"); baseURL and account keep different hosts and
// logins apart.
func NewStore(dir, resource, baseURL, account string) *Store {
	return NewStoreWithTTL(dir, resource, baseURL, account, DefaultTTL)
}

// NewStoreWithTTL creates a Store with a custom TTL.
func NewStoreWithTTL(dir, resource, baseURL, account string, ttl time.Duration) *Store {
	hash := sha1.Sum([]byte(baseURL + "\x00" + strings.ToLower(account)))
	filename := sanitizeKey(resource) + "_" + hex.EncodeToString(hash[:6]) + ".json"
	return &Store{
		path: filepath.Join(dir, filename),
		ttl:  ttl,
	}
}

// Get loads cached items into dst. It reports false on a miss: no file, an
// expired or unreadable entry, or caching disabled. A nil Store always
// misses.
func (s *Store) Get(dst any) bool {
	if s == nil || disabled() {
		return false
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return false
	}
	if time.Since(e.CachedAt) > s.ttl {
		return false
	}
	return json.Unmarshal(e.Items, dst) == nil
}

// Put writes items to the cache. Errors are ignored; a failed write is a
// future miss.
func (s *Store) Put(items any) {
	if s == nil || disabled() {
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	data, err := json.Marshal(entry{CachedAt: time.Now(), Items: raw})
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		_ = os.Remove(tmp)
		return
	}
	_ = os.Rename(tmp, s.path)
}

// Clear removes this cache file.
func (s *Store) Clear() {
	if s == nil {
		return
	}
	_ = os.Remove(s.path)
}

// ClearAll removes every cache file in dir. Files not following the
// "<resource>_<12 hex>.json" scheme are left alone.
func ClearAll(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() || !isCacheFilename(e.Name()) {
			continue
		}
		_ = os.Remove(filepath.Join(dir, e.Name()))
	}
}

// DefaultDir returns $XDG_CACHE_HOME/tw or the platform equivalent.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "tw"), nil
}

func disabled() bool {
	return os.Getenv(DisableEnv) != ""
}

// sanitizeKey keeps resource names to a single path element without the
// "_" separator.
func sanitizeKey(key string) string {
	key = strings.TrimSpace(strings.ToLower(key))
	if key == "" {
		return "cache"
	}
	return strings.NewReplacer("/", "-", "\\", "-", "_", "-").Replace(key)
}

func isCacheFilename(name string) bool {
	if filepath.Ext(name) != ".json" {
		return false
	}
	resource, hash, ok := strings.Cut(strings.TrimSuffix(name, ".json"), "_")
	if !ok || resource == "" || strings.Contains(hash, "_") {
		return false
	}
	if len(hash) != 12 {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}
