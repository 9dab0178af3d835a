package credcache

import (
	"fmt"

	"github.com/cipherhq/dirgate/pkg/config"
)

// New builds the cache backend selected by configuration. A nil Cache with
// a nil error means caching is disabled; the engine treats every lookup as
// not present and skips registration.
func New(cfg *config.Config) (Cache, error) {
	switch cfg.Gate.Cache {
	case "", config.CacheNone:
		return nil, nil
	case config.CacheFile:
		return NewFileCache(cfg.FileCache.File, cfg.FileCache.Lifespan), nil
	case config.CacheNetwork:
		nc := cfg.NetworkCache
		return NewNetworkCache(nc.Host, nc.Port, nc.KeyPrefix, nc.Debug, nc.Lifespan), nil
	case config.CacheBadger:
		return NewBadgerCache(cfg.BadgerCache.Path, cfg.BadgerCache.Lifespan)
	default:
		return nil, fmt.Errorf("credcache: unknown backend %q", cfg.Gate.Cache)
	}
}
