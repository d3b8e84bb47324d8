package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/ppiankov/clearview/internal/model"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Fingerprint derives the stable identity of an article. Two articles that
// differ only in surrounding whitespace or letter case map to the same
// fingerprint, so re-analysis is a cache hit.
func Fingerprint(text, headline string) string {
	normalized := normalize(text) + "\n" + normalize(headline)
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:])[:16]
}

// Key converts a fingerprint into a namespaced cache key
func Key(fingerprint string) string {
	return "clearview:v1:" + fingerprint
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// New builds a cache from configuration. A configured directory enables the
// disk layer behind the memory layer; otherwise the cache is memory-only.
// Returns nil when caching is disabled.
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Dir != "" {
		return NewLayeredCache(cfg.TTL, cfg.Dir, cfg.TTL)
	}
	return NewMemoryCache(cfg.TTL, cfg.CleanupInterval)
}
