// Package imagecache caches box-art images fetched from remote shares, in
// memory and on disk, and hands them to the UI as base64 strings.
package imagecache

import (
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"go-gamelist-sync/types"
)

// Key derives the cache key for one game's box art. The SHA-1 of the full
// identifying tuple keeps images from distinct sources and platforms from
// ever colliding, even when game paths repeat across shares.
func Key(src types.Source, platform types.Platform, gamePath string) string {
	h := sha1.New()
	for _, part := range []string{src.Host, src.Share, platform.GamelistPath, gamePath} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Cache is a two-level image cache: a bounded in-memory LRU backed by a
// disk directory that survives restarts.
type Cache struct {
	fs  afero.Fs
	dir string
	mem *lru.Cache[string, []byte]
	log zerolog.Logger
}

// New creates a cache rooted at dir on fs, holding up to memEntries images
// in memory.
func New(fs afero.Fs, dir string, memEntries int, log zerolog.Logger) (*Cache, error) {
	mem, err := lru.New[string, []byte](memEntries)
	if err != nil {
		return nil, fmt.Errorf("imagecache: creating memory cache: %w", err)
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("imagecache: creating cache directory: %w", err)
	}
	return &Cache{
		fs:  fs,
		dir: dir,
		mem: mem,
		log: log.With().Str("component", "imagecache").Logger(),
	}, nil
}

// Get returns the base64-encoded image for key, calling fetch only on a
// full miss. A fetched image lands in both cache levels; a disk write
// failure degrades to memory-only and is not an error.
func (c *Cache) Get(key string, fetch func() ([]byte, error)) (string, error) {
	if data, ok := c.mem.Get(key); ok {
		return base64.StdEncoding.EncodeToString(data), nil
	}

	path := filepath.Join(c.dir, key)
	if data, err := afero.ReadFile(c.fs, path); err == nil {
		c.mem.Add(key, data)
		return base64.StdEncoding.EncodeToString(data), nil
	}

	data, err := fetch()
	if err != nil {
		return "", fmt.Errorf("imagecache: fetching image: %w", err)
	}

	c.mem.Add(key, data)
	if err := afero.WriteFile(c.fs, path, data, 0o644); err != nil {
		c.log.Warn().Str("key", key).Err(err).Msg("cannot persist image to disk cache")
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
