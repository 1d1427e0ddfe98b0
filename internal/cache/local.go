package cache

import (
	"log/slog"
	"time"

	"github.com/IliaW/scrape-legality/config"
	"github.com/patrickmn/go-cache"
)

// LocalCacheClient keeps robots.txt bodies in process memory. Used when no memcached is available.
type LocalCacheClient struct {
	localCache *cache.Cache
}

func NewLocalCacheClient(cacheConfig *config.CacheConfig) *LocalCacheClient {
	ttl := cacheConfig.TtlForRobotsTxt
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	slog.Info("using in-process robots.txt cache.", slog.Duration("ttl", ttl))

	return &LocalCacheClient{
		localCache: cache.New(ttl, 10*time.Minute),
	}
}

func (lc *LocalCacheClient) GetRobotsFile(url string) ([]byte, bool) {
	key := robotsKey(url)
	v, ok := lc.localCache.Get(key)
	if !ok {
		slog.Debug("cache not found.", slog.String("key", key), slog.String("url", url))
		return nil, false
	}
	slog.Debug("cache found.", slog.String("key", key))

	return v.([]byte), true
}

func (lc *LocalCacheClient) SaveRobotsFile(url string, robotsFile []byte) {
	lc.localCache.Set(robotsKey(url), robotsFile, cache.DefaultExpiration)
	slog.Debug("robots file saved to cache.")
}

func (lc *LocalCacheClient) Close() {
	lc.localCache.Flush()
}
