package apod

import (
	"context"
	"time"

	"github.com/coocood/freecache"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/mrlokans/stargazer/internal/entities"
)

// CacheObserver receives cache hit and miss notifications.
type CacheObserver interface {
	IncCacheHits()
	IncCacheMisses()
}

type noopObserver struct{}

func (noopObserver) IncCacheHits()   {}
func (noopObserver) IncCacheMisses() {}

// CachedFetcher keeps successful responses for past days in memory.
// Entries for a past date never change upstream, so only those are cached.
// Requests for the latest picture or for today always go to the inner
// Fetcher; a latest picture whose date is already past is stored under that
// date so a later dated lookup is served from memory.
type CachedFetcher struct {
	inner    Fetcher
	cache    *freecache.Cache
	ttl      int
	now      func() time.Time
	observer CacheObserver
	logger   zerolog.Logger
}

// NewCachedFetcher wraps inner with a cache of sizeMB megabytes. A size of
// zero or less disables caching and returns inner unchanged.
func NewCachedFetcher(inner Fetcher, sizeMB int, ttl time.Duration, observer CacheObserver, logger zerolog.Logger) Fetcher {
	if sizeMB <= 0 {
		logger.Info().Msg("Picture cache disabled")
		return inner
	}
	if observer == nil {
		observer = noopObserver{}
	}

	ttlSeconds := int(ttl.Seconds())
	if ttlSeconds < 0 {
		ttlSeconds = 0
	}

	logger.Info().Int("size_mb", sizeMB).Dur("ttl", ttl).Msg("Picture cache initialized")

	return &CachedFetcher{
		inner:    inner,
		cache:    freecache.NewCache(sizeMB * 1024 * 1024),
		ttl:      ttlSeconds,
		now:      time.Now,
		observer: observer,
		logger:   logger,
	}
}

func (c *CachedFetcher) Fetch(ctx context.Context, date *time.Time) (entities.Picture, error) {
	if date == nil {
		return c.fetchLatest(ctx)
	}
	if !c.cacheable(*date) {
		return c.inner.Fetch(ctx, date)
	}

	key := []byte(FormatDate(*date))
	if raw, err := c.cache.Get(key); err == nil {
		var picture entities.Picture
		if err := json.Unmarshal(raw, &picture); err == nil {
			c.observer.IncCacheHits()
			return picture, nil
		}
		c.cache.Del(key)
	}
	c.observer.IncCacheMisses()

	picture, err := c.inner.Fetch(ctx, date)
	if err != nil {
		return entities.Picture{}, err
	}

	c.store(key, picture)
	return picture, nil
}

func (c *CachedFetcher) fetchLatest(ctx context.Context) (entities.Picture, error) {
	picture, err := c.inner.Fetch(ctx, nil)
	if err != nil {
		return entities.Picture{}, err
	}

	if day, err := ParseDate(picture.Date); err == nil && c.cacheable(day) {
		c.store([]byte(FormatDate(day)), picture)
	}
	return picture, nil
}

func (c *CachedFetcher) store(key []byte, picture entities.Picture) {
	raw, err := json.Marshal(picture)
	if err != nil {
		c.logger.Warn().Err(err).Str("date", picture.Date).Msg("Could not encode picture for cache")
		return
	}
	if err := c.cache.Set(key, raw, c.ttl); err != nil {
		c.logger.Warn().Err(err).Str("date", picture.Date).Msg("Could not cache picture")
	}
}

// Len returns the number of cached entries.
func (c *CachedFetcher) Len() int64 {
	return c.cache.EntryCount()
}

func (c *CachedFetcher) cacheable(date time.Time) bool {
	return truncateDay(date).Before(today(c.now()))
}
