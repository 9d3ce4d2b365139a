// Package cache provides a read-through cache for the public product catalogue.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dealer-kart/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const keyPrefix = "catalog:v1:"

// ProductCache stores catalogue reads. Lookups report ok=false on a miss or on any cache error.
type ProductCache interface {
	GetList(ctx context.Context, filter model.ProductFilter) ([]model.Product, bool)
	SetList(ctx context.Context, filter model.ProductFilter, products []model.Product)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, bool)
	SetProduct(ctx context.Context, product *model.Product)

	// Invalidate removes every cached catalogue entry.
	Invalidate(ctx context.Context)
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisCache creates a product cache whose entries expire after ttl.
func NewRedisCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) ProductCache {
	return &redisCache{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "product_cache").Logger(),
	}
}

// ListKey returns the cache key for a catalogue query.
func ListKey(filter model.ProductFilter) string {
	raw := fmt.Sprintf("%s|%s|%d|%d", filter.Category, filter.Search, filter.Limit, filter.Offset)
	sum := sha256.Sum256([]byte(raw))
	return keyPrefix + "list:" + hex.EncodeToString(sum[:16])
}

// ProductKey returns the cache key for a single product.
func ProductKey(id uuid.UUID) string {
	return keyPrefix + "product:" + id.String()
}

func (c *redisCache) GetList(ctx context.Context, filter model.ProductFilter) ([]model.Product, bool) {
	var products []model.Product
	if !c.get(ctx, ListKey(filter), &products) {
		return nil, false
	}
	return products, true
}

func (c *redisCache) SetList(ctx context.Context, filter model.ProductFilter, products []model.Product) {
	c.set(ctx, ListKey(filter), products)
}

func (c *redisCache) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, bool) {
	var product model.Product
	if !c.get(ctx, ProductKey(id), &product) {
		return nil, false
	}
	return &product, true
}

func (c *redisCache) SetProduct(ctx context.Context, product *model.Product) {
	c.set(ctx, ProductKey(product.ID), product)
}

func (c *redisCache) Invalidate(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn().Err(err).Msg("failed to scan catalogue keys")
		return
	}
	if len(keys) == 0 {
		return
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn().Err(err).Int("keys", len(keys)).Msg("failed to invalidate catalogue")
		return
	}
	c.logger.Debug().Int("keys", len(keys)).Msg("catalogue cache invalidated")
}

func (c *redisCache) get(ctx context.Context, key string, dst any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
		return false
	}
	return true
}

func (c *redisCache) set(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to encode cache entry")
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

type nopCache struct{}

// NewNop returns a cache that never stores anything.
func NewNop() ProductCache {
	return nopCache{}
}

func (nopCache) GetList(context.Context, model.ProductFilter) ([]model.Product, bool) {
	return nil, false
}
func (nopCache) SetList(context.Context, model.ProductFilter, []model.Product) {}
func (nopCache) GetProduct(context.Context, uuid.UUID) (*model.Product, bool)  { return nil, false }
func (nopCache) SetProduct(context.Context, *model.Product)                    {}
func (nopCache) Invalidate(context.Context)                                    {}
