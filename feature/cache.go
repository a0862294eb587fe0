package feature

import (
	"context"
	"sync"
	"time"

	"github.com/rushteam/feedkit/core"
)

// CachedUserFeatureService 是带内存缓存的用户特征服务包装，
// 减少对远程特征服务（Feast 等）的访问。
// 命中率统计会进入 PipelineMetrics.CacheHitRate。
type CachedUserFeatureService struct {
	mu      sync.RWMutex
	next    core.UserFeatureService
	entries map[string]*cacheEntry
	maxSize int
	ttl     time.Duration

	hits   uint64
	misses uint64

	cleanTicker *time.Ticker
	stopClean   chan struct{}
	closeOnce   sync.Once
}

type cacheEntry struct {
	features   map[string]float64
	expireTime time.Time
	accessTime time.Time
}

// NewCachedUserFeatureService 包装一个特征服务。
// maxSize 是缓存条目上限（超出时淘汰最久未访问的条目），ttl 是条目有效期。
func NewCachedUserFeatureService(next core.UserFeatureService, maxSize int, ttl time.Duration) *CachedUserFeatureService {
	if maxSize <= 0 {
		maxSize = 10000
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	c := &CachedUserFeatureService{
		next:        next,
		entries:     make(map[string]*cacheEntry),
		maxSize:     maxSize,
		ttl:         ttl,
		cleanTicker: time.NewTicker(time.Minute),
		stopClean:   make(chan struct{}),
	}
	go c.cleanup()
	return c
}

var _ core.UserFeatureService = (*CachedUserFeatureService)(nil)

func (c *CachedUserFeatureService) Name() string { return "cached(" + c.next.Name() + ")" }

func (c *CachedUserFeatureService) GetUserFeatures(ctx context.Context, userID string) (map[string]float64, error) {
	now := time.Now()

	c.mu.Lock()
	if e, ok := c.entries[userID]; ok && now.Before(e.expireTime) {
		e.accessTime = now
		c.hits++
		out := make(map[string]float64, len(e.features))
		for k, v := range e.features {
			out[k] = v
		}
		c.mu.Unlock()
		return out, nil
	}
	c.misses++
	c.mu.Unlock()

	features, err := c.next.GetUserFeatures(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[userID] = &cacheEntry{
		features:   features,
		expireTime: now.Add(c.ttl),
		accessTime: now,
	}
	if len(c.entries) > c.maxSize {
		c.evictLRU()
	}
	c.mu.Unlock()

	out := make(map[string]float64, len(features))
	for k, v := range features {
		out[k] = v
	}
	return out, nil
}

// HitRate 返回累计命中率，取值 [0,1]；无访问时为 0。
func (c *CachedUserFeatureService) HitRate() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total)
}

func (c *CachedUserFeatureService) Close(ctx context.Context) error {
	c.closeOnce.Do(func() {
		close(c.stopClean)
	})
	return c.next.Close(ctx)
}

func (c *CachedUserFeatureService) cleanup() {
	for {
		select {
		case <-c.cleanTicker.C:
			c.cleanExpired()
		case <-c.stopClean:
			c.cleanTicker.Stop()
			return
		}
	}
}

func (c *CachedUserFeatureService) cleanExpired() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for userID, e := range c.entries {
		if now.After(e.expireTime) {
			delete(c.entries, userID)
		}
	}
	if len(c.entries) > c.maxSize {
		c.evictLRU()
	}
}

// evictLRU 淘汰最久未访问的条目直到不超过 maxSize。调用方需持有写锁。
func (c *CachedUserFeatureService) evictLRU() {
	for len(c.entries) > c.maxSize {
		var oldestKey string
		var oldest time.Time
		first := true
		for k, e := range c.entries {
			if first || e.accessTime.Before(oldest) {
				oldestKey = k
				oldest = e.accessTime
				first = false
			}
		}
		delete(c.entries, oldestKey)
	}
}
