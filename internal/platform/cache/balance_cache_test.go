package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

func setupCache(t *testing.T) (*BalanceCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewBalanceCache(client, time.Minute), mr
}

func sampleTree(balance int64) []*domain.BalanceNode {
	return []*domain.BalanceNode{{
		AccountID:       "a1",
		Code:            "1000",
		Name:            "Assets",
		AccountType:     domain.Asset,
		OwnBalance:      decimal.Zero,
		RolledUpBalance: decimal.NewFromInt(balance),
		Children: []*domain.BalanceNode{{
			AccountID:       "a2",
			Code:            "1100",
			Name:            "Cash",
			AccountType:     domain.Asset,
			OwnBalance:      decimal.NewFromInt(balance),
			RolledUpBalance: decimal.NewFromInt(balance),
		}},
	}}
}

func TestFetchTreeCachesUntilBump(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) ([]*domain.BalanceNode, error) {
		calls++
		return sampleTree(int64(100 * calls)), nil
	}

	first, err := c.FetchTree(ctx, "t1", "current", loader)
	require.NoError(t, err)
	second, err := c.FetchTree(ctx, "t1", "current", loader)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.True(t, first[0].RolledUpBalance.Equal(second[0].RolledUpBalance))
	require.Len(t, second[0].Children, 1)
	assert.Equal(t, "1100", second[0].Children[0].Code)

	require.NoError(t, c.Bump(ctx, "t1"))

	third, err := c.FetchTree(ctx, "t1", "current", loader)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.True(t, third[0].RolledUpBalance.Equal(decimal.NewFromInt(200)))
}

func TestBumpIsolatedPerTenant(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	calls := map[string]int{}
	loaderFor := func(tenant string) func(context.Context) ([]*domain.BalanceNode, error) {
		return func(context.Context) ([]*domain.BalanceNode, error) {
			calls[tenant]++
			return sampleTree(1), nil
		}
	}

	_, err := c.FetchTree(ctx, "t1", "current", loaderFor("t1"))
	require.NoError(t, err)
	_, err = c.FetchTree(ctx, "t2", "current", loaderFor("t2"))
	require.NoError(t, err)

	require.NoError(t, c.Bump(ctx, "t1"))

	_, err = c.FetchTree(ctx, "t1", "current", loaderFor("t1"))
	require.NoError(t, err)
	_, err = c.FetchTree(ctx, "t2", "current", loaderFor("t2"))
	require.NoError(t, err)

	assert.Equal(t, 2, calls["t1"])
	assert.Equal(t, 1, calls["t2"])
}

func TestFetchTreeExpiresWithTTL(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) ([]*domain.BalanceNode, error) {
		calls++
		return sampleTree(5), nil
	}

	_, err := c.FetchTree(ctx, "t1", "2024-01-31", loader)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)
	_, err = c.FetchTree(ctx, "t1", "2024-01-31", loader)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestFetchTreeLoaderError(t *testing.T) {
	c, _ := setupCache(t)
	boom := errors.New("boom")

	_, err := c.FetchTree(context.Background(), "t1", "current", func(context.Context) ([]*domain.BalanceNode, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestFetchTreeFallsBackWhenRedisDown(t *testing.T) {
	c, mr := setupCache(t)
	mr.Close()

	tree, err := c.FetchTree(context.Background(), "t1", "current", func(context.Context) ([]*domain.BalanceNode, error) {
		return sampleTree(7), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "a1", tree[0].AccountID)
}
