//go:build integration

package mongostore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopfront/ecommerce-api/models"
	"github.com/shopfront/ecommerce-api/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// Run with: MONGO_TEST_URI=mongodb://localhost:27017 go test -tags integration ./store/mongostore/
func setupMongo(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx := context.Background()
	s, err := Connect(ctx, uri, "ecommerce_test_"+store.NewID(), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.EnsureSchema(ctx))
	t.Cleanup(func() {
		_ = s.db.Drop(context.Background())
		_ = s.Close(context.Background())
	})
	return s
}

func TestMongo_SaveCartUpsertsByUser(t *testing.T) {
	s := setupMongo(t)
	ctx := context.Background()
	userID := store.NewID()

	_, err := s.FindCartByUser(ctx, userID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	cart := &models.Cart{ID: store.NewID(), UserID: userID, Items: datatypes.JSONSlice[models.CartItem]{}, CreatedAt: time.Now()}
	cart.AddItem(store.NewID(), 2, 10, "red")
	require.NoError(t, s.SaveCart(ctx, cart))

	cart.AddItem(cart.Items[0].ProductID, 1, 10, "red")
	require.NoError(t, s.SaveCart(ctx, cart))

	stored, err := s.FindCartByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, stored.ID)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 3, stored.Items[0].Quantity)

	count, err := s.db.Collection(cartsCollection).CountDocuments(ctx, bson.M{"user": userID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestMongo_UpdateMissingDocumentIsNotFound(t *testing.T) {
	s := setupMongo(t)
	ctx := context.Background()

	err := s.UpdateProduct(ctx, &models.Product{ID: store.NewID(), Title: "ghost"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.UpdateOrder(ctx, &models.Order{ID: store.NewID(), UserID: store.NewID()})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMongo_WishlistDeleteReturnsEntry(t *testing.T) {
	s := setupMongo(t)
	ctx := context.Background()
	entry := &models.WishlistEntry{ID: store.NewID(), UserID: store.NewID(), ProductID: store.NewID(), CreatedAt: time.Now()}
	require.NoError(t, s.AddWishlistEntry(ctx, entry))

	dup := *entry
	dup.ID = store.NewID()
	assert.ErrorIs(t, s.AddWishlistEntry(ctx, &dup), store.ErrDuplicate)

	removed, err := s.DeleteWishlistEntry(ctx, entry.UserID, entry.ProductID)
	require.NoError(t, err)
	require.NotNil(t, removed)
	assert.Equal(t, entry.ID, removed.ID)

	removed, err = s.DeleteWishlistEntry(ctx, entry.UserID, entry.ProductID)
	require.NoError(t, err)
	assert.Nil(t, removed)
}
