package common

import (
	"time"

	"route-vending/tablegrid/internal/config"
	"route-vending/tablegrid/internal/logging"
)

// NewCache builds the configured backend. A Redis that cannot be reached
// falls back to the in-process cache.
func NewCache(cfg *config.Config) CacheInterface {
	if cfg.Cache.Backend == "redis" {
		redisCache, err := NewRedisCacheService(cfg.Redis)
		if err == nil {
			logging.Info("Using Redis cache", "addr", cfg.Redis.Addr)
			return redisCache
		}
		logging.Warn("Redis unavailable, falling back to in-memory cache", "error", err)
	}
	return NewCacheService(cfg.Cache.LayoutTTL, 10*time.Minute)
}
