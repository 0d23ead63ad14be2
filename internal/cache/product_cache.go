package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	dom "github.com/donaldwalker7495-max/techcheck-api/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyList   = "product:list"
	keySearch = "product:search:"
)

// ProductCache caches product list and search results in Redis.
type ProductCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewProductCache returns a new ProductCache.
func NewProductCache(rdb *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{rdb: rdb, ttl: ttl}
}

// GetList returns the cached list or nil if miss.
func (c *ProductCache) GetList(ctx context.Context) ([]dom.Product, error) {
	b, err := c.rdb.Get(ctx, keyList).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Product
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores the list in cache.
func (c *ProductCache) SetList(ctx context.Context, list []dom.Product) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyList, b, c.ttl).Err()
}

// GetSearch returns the cached page for (q, page, limit), or nil if miss.
func (c *ProductCache) GetSearch(ctx context.Context, q string, page, limit int) ([]dom.Product, error) {
	b, err := c.rdb.Get(ctx, searchKey(q, page, limit)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Product
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetSearch stores one search page in cache.
func (c *ProductCache) SetSearch(ctx context.Context, q string, page, limit int, list []dom.Product) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, searchKey(q, page, limit), b, c.ttl).Err()
}

// InvalidateAll removes list and all search keys (cache invalidation on write).
func (c *ProductCache) InvalidateAll(ctx context.Context) error {
	if err := c.rdb.Del(ctx, keyList).Err(); err != nil {
		return err
	}
	iter := c.rdb.Scan(ctx, 0, keySearch+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func searchKey(q string, page, limit int) string {
	return keySearch + strings.TrimSpace(strings.ToLower(q)) +
		":" + strconv.Itoa(page) + ":" + strconv.Itoa(limit)
}
