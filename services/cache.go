package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ttms-analytics/metrics"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// CacheService - кэш с ограниченным временем жизни поверх go-cache.
// Запись хранит момент загрузки и заменяется целиком, никогда не правится на месте.
type CacheService struct {
	cache      *cache.Cache
	group      singleflight.Group
	defaultTTL time.Duration
	now        func() time.Time

	fetchTimeout time.Duration
}

// defaultFetchTimeout - предел одной общей загрузки (постраничный список целиком)
const defaultFetchTimeout = 2 * time.Minute

type cacheEntry struct {
	value     interface{}
	fetchedAt time.Time
	ttl       time.Duration
}

func NewCacheService(defaultExpiration, cleanupInterval time.Duration) *CacheService {
	return &CacheService{
		cache:      cache.New(defaultExpiration, cleanupInterval),
		defaultTTL: defaultExpiration,
		now:        time.Now,

		fetchTimeout: defaultFetchTimeout,
	}
}

// WithFetchTimeout задаёт предел общей загрузки; отменой вызывающего она не прерывается
func (s *CacheService) WithFetchTimeout(d time.Duration) *CacheService {
	if d > 0 {
		s.fetchTimeout = d
	}
	return s
}

// WithClock подменяет источник времени (для тестов)
func (s *CacheService) WithClock(now func() time.Time) *CacheService {
	s.now = now
	return s
}

// Get возвращает значение, только если now - fetchedAt < ttl
func (s *CacheService) Get(key string) (interface{}, bool) {
	raw, found := s.cache.Get(key)
	if !found {
		return nil, false
	}
	entry, ok := raw.(cacheEntry)
	if !ok || s.now().Sub(entry.fetchedAt) >= entry.ttl {
		return nil, false
	}
	return entry.value, true
}

func (s *CacheService) Set(key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	s.cache.Set(key, cacheEntry{value: value, fetchedAt: s.now(), ttl: ttl}, ttl)
}

func (s *CacheService) Delete(key string) {
	s.cache.Delete(key)
}

func (s *CacheService) Flush() {
	s.cache.Flush()
}

// Clear удаляет все записи, ключ которых содержит pattern; пустой pattern - полная очистка.
// Зависимые записи не инвалидируются.
func (s *CacheService) Clear(pattern string) int {
	if pattern == "" {
		n := s.cache.ItemCount()
		s.cache.Flush()
		return n
	}
	removed := 0
	for key := range s.cache.Items() {
		if strings.Contains(key, pattern) {
			s.cache.Delete(key)
			removed++
		}
	}
	return removed
}

func (s *CacheService) ItemCount() int {
	return s.cache.ItemCount()
}

// GetOrFetch отдаёт свежую запись или вызывает fetch и сохраняет результат.
// Одновременные промахи по одному ключу делят один вызов fetch. Ошибки не кэшируются.
// fetch получает контекст без отмены вызывающего, ограниченный fetchTimeout:
// отмена одного ожидающего не роняет остальных.
func (s *CacheService) GetOrFetch(ctx context.Context, key string, ttl time.Duration, fetch func(context.Context) (interface{}, error)) (interface{}, bool, error) {
	if value, found := s.Get(key); found {
		metrics.CacheHits.Inc()
		return value, true, nil
	}
	metrics.CacheMisses.Inc()

	ch := s.group.DoChan(key, func() (interface{}, error) {
		if value, found := s.Get(key); found {
			return value, nil
		}
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()
		value, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		s.Set(key, value, ttl)
		return value, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val, false, nil
	}
}

// getOrFetch - типизированная обёртка над GetOrFetch
func getOrFetch[T any](ctx context.Context, s *CacheService, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	value, _, err := s.GetOrFetch(ctx, key, ttl, func(ctx context.Context) (interface{}, error) {
		return fetch(ctx)
	})
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("cache key %q holds %T, want %T", key, value, zero)
	}
	return typed, nil
}
