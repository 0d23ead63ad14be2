package cache

import (
	"context"
	"testing"
	"time"

	dom "github.com/donaldwalker7495-max/techcheck-api/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) *ProductCache {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewProductCache(rdb, time.Minute)
}

func sampleProducts() []dom.Product {
	return []dom.Product{
		{ID: 1, Name: "Widget", Description: "a widget", Price: 9.99},
		{ID: 2, Name: "Gadget", Description: "a gadget", Price: 19.99},
	}
}

func TestListRoundTrip(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	got, err := c.GetList(ctx)
	require.NoError(t, err)
	require.Nil(t, got, "expected miss on empty cache")

	require.NoError(t, c.SetList(ctx, sampleProducts()))

	got, err = c.GetList(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "Widget", got[0].Name)
}

func TestSearchKeyedByQueryAndPage(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetSearch(ctx, "Widget", 1, 10, sampleProducts()[:1]))

	got, err := c.GetSearch(ctx, "widget", 1, 10)
	require.NoError(t, err)
	require.Len(t, got, 1, "query normalization should make Widget/widget the same key")

	got, err = c.GetSearch(ctx, "widget", 2, 10)
	require.NoError(t, err)
	require.Nil(t, got, "different page must be a different key")
}

func TestInvalidateAll(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetList(ctx, sampleProducts()))
	require.NoError(t, c.SetSearch(ctx, "widget", 1, 10, sampleProducts()[:1]))

	require.NoError(t, c.InvalidateAll(ctx))

	got, err := c.GetList(ctx)
	require.NoError(t, err)
	require.Nil(t, got)

	got, err = c.GetSearch(ctx, "widget", 1, 10)
	require.NoError(t, err)
	require.Nil(t, got)
}
