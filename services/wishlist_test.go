package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopfront/ecommerce-api/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWishlistService(t *testing.T) {
	st := setupStore(t)
	svc := NewWishlistService(st, st, zap.NewNop())
	ctx := context.Background()
	user := seedUser(t, st, "wisher")
	first := seedProduct(t, st, "kite", 9, 1)
	second := seedProduct(t, st, "yoyo", 3, 1)

	clock := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }
	entry, err := svc.Add(ctx, user.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, entry.ProductID)

	clock = clock.Add(time.Minute)
	_, err = svc.Add(ctx, user.ID, second.ID)
	require.NoError(t, err)

	t.Run("duplicate pair is rejected", func(t *testing.T) {
		_, err := svc.Add(ctx, user.ID, first.ID)
		assertKind(t, err, KindConflict, msgAlreadyInWishlist)

		entries, err := st.ListWishlist(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := svc.Add(ctx, user.ID, store.NewID())
		assertKind(t, err, KindNotFound, msgProductNotFound)
	})

	t.Run("list is newest first with products", func(t *testing.T) {
		items, err := svc.List(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, items, 2)
		require.NotNil(t, items[0].Product)
		assert.Equal(t, "yoyo", items[0].Product.Title)
		assert.Equal(t, "kite", items[1].Product.Title)
	})

	t.Run("remove reports the deleted entry", func(t *testing.T) {
		removed, err := svc.Remove(ctx, user.ID, first.ID)
		require.NoError(t, err)
		require.NotNil(t, removed)
		assert.Equal(t, entry.ID, removed.ID)

		removed, err = svc.Remove(ctx, user.ID, first.ID)
		require.NoError(t, err)
		assert.Nil(t, removed)
	})
}
