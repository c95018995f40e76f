package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ledger"

// BalanceCache keeps hierarchical balance reports in Redis. Keys embed a
// per-tenant version; Bump increments it so older reports are never read
// again and expire with their TTL.
type BalanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBalanceCache instantiates the cache helper.
func NewBalanceCache(client *redis.Client, ttl time.Duration) *BalanceCache {
	return &BalanceCache{client: client, ttl: ttl}
}

func versionKey(tenantID string) string {
	return strings.Join([]string{keyPrefix, "balances", tenantID, "version"}, ":")
}

// Version returns the tenant's cache version. A missing version reads as 0.
func (c *BalanceCache) Version(ctx context.Context, tenantID string) (int64, error) {
	ver, err := c.client.Get(ctx, versionKey(tenantID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// BuildKey composes the report key with the tenant's current version.
func (c *BalanceCache) BuildKey(ctx context.Context, tenantID, key string) (string, error) {
	ver, err := c.Version(ctx, tenantID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:balances:%s:%s:%d", keyPrefix, tenantID, key, ver), nil
}

// FetchTree loads a cached report or populates it using the loader.
// Redis failures fall through to the loader.
func (c *BalanceCache) FetchTree(ctx context.Context, tenantID, key string, loader func(context.Context) ([]*domain.BalanceNode, error)) ([]*domain.BalanceNode, error) {
	if loader == nil {
		return nil, errors.New("cache: loader required")
	}
	if c == nil || c.client == nil {
		return loader(ctx)
	}

	fullKey, err := c.BuildKey(ctx, tenantID, key)
	if err != nil {
		return loader(ctx)
	}

	payload, err := c.client.Get(ctx, fullKey).Bytes()
	if err == nil {
		var tree []*domain.BalanceNode
		if err := json.Unmarshal(payload, &tree); err == nil {
			return tree, nil
		}
	}

	tree, err := loader(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(tree)
	if err != nil {
		return tree, nil
	}
	_ = c.client.Set(ctx, fullKey, raw, c.ttl).Err()
	return tree, nil
}

// Bump invalidates every cached report of the tenant.
func (c *BalanceCache) Bump(ctx context.Context, tenantID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, versionKey(tenantID)).Err()
}
