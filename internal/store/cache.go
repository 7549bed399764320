package store

import (
	"log/slog"

	"github.com/DeusData/lua-chunks/internal/chunk"
)

// Cache adapts a Store to chunk.Cache. Storage errors are logged and treated
// as misses so extraction never fails because of the cache.
type Cache struct {
	s *Store
}

// Cache returns a chunk.Cache backed by s.
func (s *Store) Cache() *Cache {
	return &Cache{s: s}
}

// Lookup returns the stored chunks for path when its recorded hash matches.
func (c *Cache) Lookup(path, hash string) ([]chunk.Chunk, bool) {
	stored, ok, err := c.s.FileHash(path)
	if err != nil {
		slog.Warn("store.cache.lookup", "path", path, "err", err)
		return nil, false
	}
	if !ok || stored != hash {
		return nil, false
	}
	chunks, err := c.s.LoadChunks(path)
	if err != nil {
		slog.Warn("store.cache.load", "path", path, "err", err)
		return nil, false
	}
	return chunks, true
}

// Save records chunks for path under hash.
func (c *Cache) Save(path, hash string, chunks []chunk.Chunk) {
	if err := c.s.ReplaceFile(path, hash, chunks); err != nil {
		slog.Warn("store.cache.save", "path", path, "err", err)
	}
}

var _ chunk.Cache = (*Cache)(nil)
