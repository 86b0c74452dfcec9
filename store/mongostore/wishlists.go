package mongostore

import (
	"context"
	"errors"

	"github.com/shopfront/ecommerce-api/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (s *Store) AddWishlistEntry(ctx context.Context, entry *models.WishlistEntry) error {
	_, err := s.db.Collection(wishlistsCollection).InsertOne(ctx, entry)
	return translate(err)
}

func (s *Store) FindWishlistEntry(ctx context.Context, userID, productID string) (*models.WishlistEntry, error) {
	return findOne[models.WishlistEntry](ctx, s.db.Collection(wishlistsCollection), bson.M{"userId": userID, "productId": productID})
}

func (s *Store) ListWishlist(ctx context.Context, userID string) ([]models.WishlistEntry, error) {
	return findAll[models.WishlistEntry](ctx, s.db.Collection(wishlistsCollection), bson.M{"userId": userID}, newestFirst("createdAt"))
}

func (s *Store) DeleteWishlistEntry(ctx context.Context, userID, productID string) (*models.WishlistEntry, error) {
	var entry models.WishlistEntry
	err := s.db.Collection(wishlistsCollection).
		FindOneAndDelete(ctx, bson.M{"userId": userID, "productId": productID}).
		Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
